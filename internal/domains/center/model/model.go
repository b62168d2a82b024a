package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"donorlink/internal/domains/center/slot"
	"donorlink/shared/model"
)

const (
	TableName  = "medical_centers"
	EntityName = "center"

	FieldID           = "id"
	FieldName         = "name"
	FieldWorkingHours = "working_hours"
)

// WorkingHours is stored as a JSONB object of day name to schedule string.
type WorkingHours slot.WorkingHours

func (w *WorkingHours) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*w = WorkingHours{}

		return nil
	default:
		return fmt.Errorf("unsupported working hours type %T", src)
	}

	hours := WorkingHours{}
	if err := json.Unmarshal(raw, &hours); err != nil {
		return fmt.Errorf("failed to decode working hours: %w", err)
	}

	*w = hours

	return nil
}

func (w WorkingHours) Value() (driver.Value, error) {
	if w == nil {
		return []byte("{}"), nil
	}

	raw, err := json.Marshal(map[string]string(w))
	if err != nil {
		return nil, fmt.Errorf("failed to encode working hours: %w", err)
	}

	return raw, nil
}

type Center struct {
	ID           string       `db:"id"`
	Name         string       `db:"name"`
	Phone        string       `db:"phone"`
	Email        string       `db:"email"`
	Address      string       `db:"address"`
	Latitude     float64      `db:"latitude"`
	Longitude    float64      `db:"longitude"`
	WorkingHours WorkingHours `db:"working_hours"`
	model.Metadata
}

func (c Center) Schedule() slot.WorkingHours {
	return slot.WorkingHours(c.WorkingHours)
}
