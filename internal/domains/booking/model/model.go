package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"donorlink/shared/constant"
	"donorlink/shared/model"
)

const (
	TableName  = "donation_bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldDonorID         = "donor_id"
	FieldMedicalCenterID = "medical_center_id"
	FieldBloodNeedID     = "blood_need_id"
	FieldBookingDate     = "booking_date"
	FieldBookingTime     = "booking_time"
	FieldQuantityML      = "quantity_ml"
	FieldStatus          = "status"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusInProcess Status = "in_process"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"

	// statusLegacyDone is how older records spell completed.
	statusLegacyDone = "done"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusInProcess, StatusCancelled},
	StatusInProcess: {StatusCompleted, StatusCancelled},
}

func ParseStatus(value string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == statusLegacyDone {
		return StatusCompleted, nil
	}

	switch status := Status(normalized); status {
	case StatusPending, StatusInProcess, StatusCompleted, StatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("unknown booking status %q", value)
	}
}

// Terminal reports whether no transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Scan normalizes legacy values read from the store.
func (s *Status) Scan(src any) error {
	var raw string

	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*s = ""

		return nil
	default:
		return fmt.Errorf("unsupported booking status type %T", src)
	}

	status, err := ParseStatus(raw)
	if err != nil {
		return err
	}

	*s = status

	return nil
}

// UnmarshalJSON accepts the same spellings as Scan, so trigger payloads decode like rows.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("booking status must be a string: %w", err)
	}

	if raw == "" {
		*s = ""

		return nil
	}

	status, err := ParseStatus(raw)
	if err != nil {
		return err
	}

	*s = status

	return nil
}

func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

// StoredValues expands statuses to every spelling found in the store.
func StoredValues(statuses ...Status) []string {
	values := []string{}

	for _, status := range statuses {
		values = append(values, string(status))
		if status == StatusCompleted {
			values = append(values, statusLegacyDone)
		}
	}

	return values
}

type Booking struct {
	ID              string    `db:"id"                json:"id"`
	DonorID         string    `db:"donor_id"          json:"donor_id"`
	MedicalCenterID string    `db:"medical_center_id" json:"medical_center_id"`
	BloodNeedID     string    `db:"blood_need_id"     json:"blood_need_id"`
	BookingDate     time.Time `db:"booking_date"      json:"booking_date"`
	BookingTime     string    `db:"booking_time"      json:"booking_time"`
	QuantityML      *int      `db:"quantity_ml"       json:"quantity_ml"`
	Status          Status    `db:"status"            json:"status"`
	model.Metadata
}

// Contribution is the volume a completed booking adds to its need.
func (b Booking) Contribution(defaultML int) int {
	if b.Status != StatusCompleted {
		return 0
	}

	if b.QuantityML != nil && *b.QuantityML > 0 {
		return *b.QuantityML
	}

	return defaultML
}

// StartsAt combines the calendar date and the HH:00 slot in loc.
func (b Booking) StartsAt(loc *time.Location) (time.Time, error) {
	slot, err := time.Parse(constant.SlotFormat, b.BookingTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking time %q: %w", b.BookingTime, err)
	}

	return time.Date(b.BookingDate.Year(), b.BookingDate.Month(), b.BookingDate.Day(), slot.Hour(), slot.Minute(), 0, 0, loc), nil
}
