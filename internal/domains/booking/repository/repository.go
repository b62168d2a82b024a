package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"donorlink/infras/otel"
	"donorlink/infras/postgres"
	"donorlink/internal/domains/booking/model"
	"donorlink/shared"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	"donorlink/shared/failure"
	gRepo "donorlink/shared/repository"
	"donorlink/shared/timezone"

	"github.com/lib/pq"
)

// ErrSlotTaken is returned when the store rejects a second live booking for the same slot.
var ErrSlotTaken = &failure.Failure{
	Code:    409,
	Kind:    failure.KindSlotUnavailable,
	Message: "this time slot was just taken, please pick another",
}

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	// BookedTimes lists the slots held by non-cancelled bookings at a center on a date.
	BookedTimes(ctx context.Context, centerID string, date time.Time) ([]string, error)
	// History returns the donor's bookings, newest first, optionally restricted to statuses.
	History(ctx context.Context, donorID string, statuses ...model.Status) ([]model.Booking, error)
	// UpdateStatus moves a booking from one status to another only if it still holds from.
	// A nil quantityML keeps the stored volume.
	UpdateStatus(ctx context.Context, id string, from, to model.Status, quantityML *int, actor string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Insert maps the partial unique index on (center, date, time) to ErrSlotTaken.
func (r *repositoryImpl) Insert(ctx context.Context, booking model.Booking) error {
	err := r.Repository.Insert(ctx, booking)
	if err != nil && postgres.IsUniqueViolation(err) {
		return ErrSlotTaken
	}

	return err //nolint:wrapcheck
}

func (r *repositoryImpl) BookedTimes(ctx context.Context, centerID string, date time.Time) ([]string, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.BookedTimes")
	defer scope.End()

	filter := gDto.And(
		shared.FilterEq(model.FieldMedicalCenterID, centerID, model.TableName),
		gDto.Filter{Field: model.FieldBookingDate, Value: date.Format(constant.DateOnlyFormat), Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldStatus, Value: string(model.StatusCancelled), Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
	)

	bookings, err := r.Repository.GetAll(ctx, gDto.QueryParams{}, filter, model.FieldBookingTime)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get booked times: %w", err)
	}

	times := make([]string, len(bookings))
	for i, booking := range bookings {
		times[i] = booking.BookingTime
	}

	return times, nil
}

func (r *repositoryImpl) History(ctx context.Context, donorID string, statuses ...model.Status) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.History")
	defer scope.End()

	filters := []any{shared.FilterEq(model.FieldDonorID, donorID, model.TableName)}
	if len(statuses) > 0 {
		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Value: model.StoredValues(statuses...), Operator: gDto.FilterOperatorIn, Table: model.TableName})
	}

	params := gDto.QueryParams{SortBy: model.FieldBookingDate, SortDir: gDto.SortDirDesc}

	bookings, err := r.Repository.GetAll(ctx, params, gDto.And(filters...))
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get booking history: %w", err)
	}

	return bookings, nil
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id string, from, to model.Status, quantityML *int, actor string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatus")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %[1]s SET %[2]s = $1, %[3]s = $2, %[4]s = $3, %[5]s = COALESCE($6, %[5]s) WHERE %[6]s = $4 AND %[2]s = ANY($5)",
		model.TableName, model.FieldStatus, constant.FieldModifiedAt, constant.FieldModifiedBy, model.FieldQuantityML, model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := r.db.Write.ExecContext(ctx, query, string(to), timezone.Now(), actor, id, pq.StringArray(model.StoredValues(from)), quantityML)
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}
