package model

import (
	"donorlink/internal/domains/bloodtype"
	"donorlink/shared/model"
)

const (
	TableName  = "donors"
	EntityName = "donor"

	FieldID                   = "id"
	FieldEmail                = "email"
	FieldFullName             = "full_name"
	FieldBloodType            = "blood_type"
	FieldPushToken            = "push_token"
	FieldNotificationsEnabled = "notifications_enabled"
	FieldDonationCount        = "donation_count"
	FieldDonatedML            = "donated_ml"
)

// Donor is keyed by the identity provider subject. DonationCount and DonatedML
// are derived from completed bookings and only written by the stats refresh.
type Donor struct {
	ID                   string          `db:"id"`
	Email                string          `db:"email"`
	FullName             *string         `db:"full_name"`
	BloodType            *bloodtype.Type `db:"blood_type"`
	PushToken            *string         `db:"push_token"`
	NotificationsEnabled bool            `db:"notifications_enabled"`
	DonationCount        int             `db:"donation_count"`
	DonatedML            int             `db:"donated_ml"`
	model.Metadata
}

// Type returns the donor's blood type and whether it has been set.
func (d Donor) Type() (bloodtype.Type, bool) {
	if d.BloodType == nil || !d.BloodType.Valid() {
		return "", false
	}

	return *d.BloodType, true
}

// Reachable reports whether push notifications can be delivered to the donor.
func (d Donor) Reachable() bool {
	return d.NotificationsEnabled && d.PushToken != nil && *d.PushToken != ""
}
