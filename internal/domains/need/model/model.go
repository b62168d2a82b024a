package model

import (
	"time"

	"donorlink/internal/domains/bloodtype"
	"donorlink/shared/model"
)

const (
	TableName  = "blood_needs"
	EntityName = "need"

	FieldID                = "id"
	FieldMedicalCenterID   = "medical_center_id"
	FieldBloodType         = "blood_type"
	FieldTargetAmountML    = "target_amount_ml"
	FieldCollectedAmountML = "collected_amount_ml"
	FieldUrgent            = "urgent"
	FieldStatus            = "status"
	FieldRequestedAt       = "requested_at"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusFulfilled Status = "fulfilled"
	// StatusClosed is set by staff only and is never changed by reconciliation.
	StatusClosed Status = "closed"
)

type Need struct {
	ID                string         `db:"id"`
	MedicalCenterID   string         `db:"medical_center_id"`
	BloodType         bloodtype.Type `db:"blood_type"`
	TargetAmountML    int            `db:"target_amount_ml"`
	CollectedAmountML int            `db:"collected_amount_ml"`
	Urgent            bool           `db:"urgent"`
	Status            Status         `db:"status"`
	RequestedAt       time.Time      `db:"requested_at"`
	model.Metadata
}

func (n Need) Fulfilled() bool {
	return n.CollectedAmountML >= n.TargetAmountML
}

// Open reports whether donors may still book against the need.
func (n Need) Open() bool {
	return n.Status == StatusActive && !n.Fulfilled()
}

// RemainingML is never negative.
func (n Need) RemainingML() int {
	return max(0, n.TargetAmountML-n.CollectedAmountML)
}

// StatusFor derives the reconciled status for a collected total.
func (n Need) StatusFor(collectedML int) Status {
	if n.Status == StatusClosed {
		return StatusClosed
	}

	if collectedML >= n.TargetAmountML {
		return StatusFulfilled
	}

	return StatusActive
}
