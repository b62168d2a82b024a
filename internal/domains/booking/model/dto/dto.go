package dto

import (
	"time"

	"donorlink/internal/domains/booking/model"
	"donorlink/shared"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	gModel "donorlink/shared/model"
	"donorlink/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	MedicalCenterID string `json:"medical_center_id" validate:"required"`
	BloodNeedID     string `json:"blood_need_id"     validate:"required"`
	BookingDate     string `json:"booking_date"      validate:"required,isodate"`
	BookingTime     string `json:"booking_time"      validate:"required,hourslot"`
}

// Date parses the booking date in the application timezone.
func (c *CreateBookingRequest) Date() (time.Time, error) {
	return timezone.Parse(constant.DateOnlyFormat, c.BookingDate) //nolint:wrapcheck
}

// ToModel builds a pending booking owned by donorID.
func (c *CreateBookingRequest) ToModel(donorID string) (model.Booking, error) {
	date, err := c.Date()
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:              uuid.NewString(),
		DonorID:         donorID,
		MedicalCenterID: c.MedicalCenterID,
		BloodNeedID:     c.BloodNeedID,
		BookingDate:     date,
		BookingTime:     c.BookingTime,
		Status:          model.StatusPending,
		Metadata:        gModel.NewMetadata(donorID),
	}, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_process completed cancelled done"`
	// QuantityML records the drawn volume when completing; the configured default applies otherwise.
	QuantityML *int `json:"quantity_ml" validate:"omitempty,gt=0"`
}

type BookingResponse struct {
	ID              string `json:"id"`
	DonorID         string `json:"donor_id"`
	MedicalCenterID string `json:"medical_center_id"`
	BloodNeedID     string `json:"blood_need_id"`
	BookingDate     string `json:"booking_date"`
	BookingTime     string `json:"booking_time"`
	QuantityML      *int   `json:"quantity_ml,omitempty"`
	Status          string `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.DonorID = model.DonorID
	r.MedicalCenterID = model.MedicalCenterID
	r.BloodNeedID = model.BloodNeedID
	r.BookingDate = model.BookingDate.Format(constant.DateOnlyFormat)
	r.BookingTime = model.BookingTime
	r.QuantityML = model.QuantityML
	r.Status = string(model.Status)
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// WriteResponse carries the persisted booking plus follow-up steps that failed without undoing it.
type WriteResponse struct {
	Booking  BookingResponse `json:"booking"`
	Warnings []string        `json:"warnings,omitempty"`
}

type EligibilityResponse struct {
	Eligible         bool   `json:"eligible"`
	NextEligibleDate string `json:"next_eligible_date"`
	LastDonationDate string `json:"last_donation_date,omitempty"`
	CompletedCount   int    `json:"completed_count"`
}

// BookingSnapshot is a booking row as posted by the store trigger. Only the columns
// that drive reconciliation are read.
type BookingSnapshot struct {
	ID          string       `json:"id"            validate:"required"`
	DonorID     string       `json:"donor_id"`
	BloodNeedID string       `json:"blood_need_id"`
	QuantityML  *int         `json:"quantity_ml"`
	Status      model.Status `json:"status"`
}

func (s *BookingSnapshot) ToModel() *model.Booking {
	if s == nil {
		return nil
	}

	return &model.Booking{
		ID:          s.ID,
		DonorID:     s.DonorID,
		BloodNeedID: s.BloodNeedID,
		QuantityML:  s.QuantityML,
		Status:      s.Status,
	}
}

// BookingWrittenRequest carries the old and new row of one booking write.
// Before is absent on insert, After on delete.
type BookingWrittenRequest struct {
	Before *BookingSnapshot `json:"before" validate:"required_without=After"`
	After  *BookingSnapshot `json:"after"  validate:"required_without=Before"`
}
