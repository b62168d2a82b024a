package model

import (
	"time"

	"donorlink/shared/model"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID        = "id"
	FieldDonorID   = "donor_id"
	FieldBookingID = "booking_id"
	FieldKind      = "kind"
	FieldFireAt    = "fire_at"
	FieldStatus    = "status"
	FieldAttempts  = "attempts"
	FieldLastError = "last_error"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusSent      Status = "sent"
	StatusFailed    Status = "failed"
)

type Kind string

const (
	KindConfirmation   Kind = "booking_confirmation"
	KindDayBefore      Kind = "booking_day_before"
	KindShortlyBefore  Kind = "booking_shortly_before"
	KindUrgentNeed     Kind = "urgent_need"
	KindBookingUpdated Kind = "booking_updated"
)

// Notification is a push message persisted until the dispatcher delivers it.
// A nil FireAt means deliver as soon as possible.
type Notification struct {
	ID        string     `db:"id"`
	DonorID   string     `db:"donor_id"`
	BookingID *string    `db:"booking_id"`
	Kind      Kind       `db:"kind"`
	Title     string     `db:"title"`
	Body      string     `db:"body"`
	FireAt    *time.Time `db:"fire_at"`
	Status    Status     `db:"status"`
	Attempts  int        `db:"attempts"`
	LastError *string    `db:"last_error"`
	model.Metadata
}

// Due reports whether the notification should be delivered at now.
func (n Notification) Due(now time.Time) bool {
	return n.Status == StatusScheduled && (n.FireAt == nil || !n.FireAt.After(now))
}
