package dto

import (
	"donorlink/shared/constant"
	"donorlink/shared/model"
	"donorlink/shared/timezone"
)

// Metadata is the audit block embedded in every response. The modified pair is omitted
// for records that were never touched after creation.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(source model.Metadata) {
	*m = Metadata{
		CreatedAt: timezone.Format(source.CreatedAt, constant.DateFormat),
		CreatedBy: source.CreatedBy,
	}

	if source.ModifiedAt.After(source.CreatedAt) {
		m.ModifiedAt = timezone.Format(source.ModifiedAt, constant.DateFormat)
		m.ModifiedBy = source.ModifiedBy
	}
}
