package dto

import (
	"donorlink/internal/domains/bloodtype"
	"donorlink/internal/domains/need/model"
	"donorlink/shared"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	gModel "donorlink/shared/model"
	"donorlink/shared/timezone"

	"github.com/google/uuid"
)

type CreateNeedRequest struct {
	MedicalCenterID string `json:"medical_center_id" validate:"required"`
	BloodType       string `json:"blood_type"        validate:"required,bloodtype"`
	TargetAmountML  int    `json:"target_amount_ml"  validate:"required,gt=0"`
	Urgent          bool   `json:"urgent"`
}

func (c *CreateNeedRequest) ToModel(user string) (model.Need, error) {
	bt, err := bloodtype.Parse(c.BloodType)
	if err != nil {
		return model.Need{}, err //nolint:wrapcheck
	}

	return model.Need{
		ID:              uuid.NewString(),
		MedicalCenterID: c.MedicalCenterID,
		BloodType:       bt,
		TargetAmountML:  c.TargetAmountML,
		Urgent:          c.Urgent,
		Status:          model.StatusActive,
		RequestedAt:     timezone.Now(),
		Metadata:        gModel.NewMetadata(user),
	}, nil
}

type NeedResponse struct {
	ID                string `json:"id"`
	MedicalCenterID   string `json:"medical_center_id"`
	BloodType         string `json:"blood_type"`
	TargetAmountML    int    `json:"target_amount_ml"`
	CollectedAmountML int    `json:"collected_amount_ml"`
	RemainingML       int    `json:"remaining_ml"`
	Urgent            bool   `json:"urgent"`
	Status            string `json:"status"`
	RequestedAt       string `json:"requested_at"`
	gDto.Metadata
}

func (r *NeedResponse) FromModel(model model.Need) {
	r.ID = model.ID
	r.MedicalCenterID = model.MedicalCenterID
	r.BloodType = model.BloodType.String()
	r.TargetAmountML = model.TargetAmountML
	r.CollectedAmountML = model.CollectedAmountML
	r.RemainingML = model.RemainingML()
	r.Urgent = model.Urgent
	r.Status = string(model.Status)
	r.RequestedAt = timezone.Format(model.RequestedAt, constant.DateFormat)
	r.Metadata.FromModel(model.Metadata)
}

type GetNeedsResponse struct {
	Needs     []NeedResponse `json:"needs"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

// FromModels pages through an already ordered slice.
func (r *GetNeedsResponse) FromModels(models []model.Need, page, limit int) {
	r.TotalData = len(models)
	r.TotalPage = shared.CalculateTotalPage(len(models), limit)

	if limit > 0 {
		start := min(max(page-1, 0)*limit, len(models))
		end := min(start+limit, len(models))
		models = models[start:end]
	}

	r.Needs = make([]NeedResponse, len(models))
	for i, mod := range models {
		r.Needs[i].FromModel(mod)
	}
}

type CreateNeedResponse struct {
	NeedResponse
	NotifiedDonors int      `json:"notified_donors"`
	Warnings       []string `json:"warnings,omitempty"`
}
