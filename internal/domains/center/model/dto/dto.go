package dto

import (
	"maps"

	"donorlink/internal/domains/center/model"
	"donorlink/shared"
	gDto "donorlink/shared/dto"
)

type CenterResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Phone        string            `json:"phone"`
	Email        string            `json:"email"`
	Address      string            `json:"address"`
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	WorkingHours map[string]string `json:"working_hours"`
	gDto.Metadata
}

func (r *CenterResponse) FromModel(model model.Center) {
	r.ID = model.ID
	r.Name = model.Name
	r.Phone = model.Phone
	r.Email = model.Email
	r.Address = model.Address
	r.Latitude = model.Latitude
	r.Longitude = model.Longitude
	r.WorkingHours = maps.Clone(map[string]string(model.WorkingHours))
	r.Metadata.FromModel(model.Metadata)
}

type GetCentersResponse struct {
	Centers   []CenterResponse `json:"centers"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetCentersResponse) FromModels(models []model.Center, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Centers = make([]CenterResponse, len(models))
	for i, mod := range models {
		r.Centers[i].FromModel(mod)
	}
}

type SlotsResponse struct {
	CenterID string   `json:"center_id"`
	Date     string   `json:"date"`
	Slots    []string `json:"slots"`
}
