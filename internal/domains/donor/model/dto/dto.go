package dto

import (
	"donorlink/internal/domains/bloodtype"
	"donorlink/internal/domains/donor/model"
	gDto "donorlink/shared/dto"
)

const millilitresPerLitre = 1000

type DonorResponse struct {
	ID                   string   `json:"id"`
	Email                string   `json:"email"`
	FullName             string   `json:"full_name"`
	BloodType            string   `json:"blood_type,omitempty"`
	CanDonateTo          []string `json:"can_donate_to,omitempty"`
	Compatibility        string   `json:"compatibility,omitempty"`
	NotificationsEnabled bool     `json:"notifications_enabled"`
	HasPushToken         bool     `json:"has_push_token"`
	DonationCount        int      `json:"donation_count"`
	DonatedLitres        float64  `json:"donated_litres"`
	gDto.Metadata
}

func (r *DonorResponse) FromModel(model model.Donor) {
	r.ID = model.ID
	r.Email = model.Email
	r.NotificationsEnabled = model.NotificationsEnabled
	r.HasPushToken = model.PushToken != nil && *model.PushToken != ""
	r.DonationCount = model.DonationCount
	r.DonatedLitres = float64(model.DonatedML) / millilitresPerLitre

	if model.FullName != nil {
		r.FullName = *model.FullName
	}

	if bt, ok := model.Type(); ok {
		r.BloodType = bt.String()
		r.Compatibility = bloodtype.Describe(bt)

		for _, recipient := range bloodtype.Recipients(bt) {
			r.CanDonateTo = append(r.CanDonateTo, recipient.String())
		}
	}

	r.Metadata.FromModel(model.Metadata)
}

// UpdateDonorRequest only touches the fields that are present.
type UpdateDonorRequest struct {
	FullName             *string `db:"full_name"             json:"full_name"             validate:"omitempty,min=1,max=100"`
	BloodType            *string `db:"blood_type"            json:"blood_type"            validate:"omitempty,bloodtype"`
	PushToken            *string `db:"push_token"            json:"push_token"            validate:"omitempty,max=255"`
	NotificationsEnabled *bool   `db:"notifications_enabled" json:"notifications_enabled"`
}

func (r UpdateDonorRequest) Empty() bool {
	return r == (UpdateDonorRequest{})
}
