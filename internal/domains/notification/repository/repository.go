package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"donorlink/infras/otel"
	"donorlink/infras/postgres"
	"donorlink/internal/domains/notification/model"
	"donorlink/shared"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	gRepo "donorlink/shared/repository"
	"donorlink/shared/timezone"
)

type Notification interface {
	InsertBulk(ctx context.Context, models []model.Notification) error
	// Due lists scheduled notifications whose fire time has passed, oldest first.
	Due(ctx context.Context, now time.Time, limit int) ([]model.Notification, error)
	MarkSent(ctx context.Context, id string) error
	// MarkFailed records a delivery failure; the row turns failed once attempts reach maxAttempts.
	MarkFailed(ctx context.Context, id, reason string, maxAttempts int) error
	// CancelForBooking drops the undelivered messages of a booking.
	CancelForBooking(ctx context.Context, bookingID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Notification]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Notification {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Notification](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Due(ctx context.Context, now time.Time, limit int) ([]model.Notification, error) {
	filter := gDto.And(
		gDto.Filter{Field: model.FieldStatus, Value: string(model.StatusScheduled), Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Or(
			gDto.Filter{Field: model.FieldFireAt, Operator: gDto.FilterIsNull, Table: model.TableName},
			gDto.Filter{Field: model.FieldFireAt, Value: now, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
		),
	)

	params := gDto.QueryParams{Limit: limit, SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	notifications, err := r.Repository.GetAll(ctx, params, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get due notifications: %w", err)
	}

	return notifications, nil
}

func (r *repositoryImpl) MarkSent(ctx context.Context, id string) error {
	return r.Repository.Update(ctx, map[string]any{
		model.FieldStatus:        string(model.StatusSent),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: constant.SystemUser,
	}, shared.FilterByID(id, model.FieldID, model.TableName))
}

func (r *repositoryImpl) MarkFailed(ctx context.Context, id, reason string, maxAttempts int) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.MarkFailed")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %[1]s SET %[2]s = %[2]s + 1, %[3]s = $2, %[4]s = CASE WHEN %[2]s + 1 >= $3 THEN $4 ELSE %[4]s END, %[5]s = $5, %[6]s = $6 WHERE %[7]s = $1",
		model.TableName, model.FieldAttempts, model.FieldLastError, model.FieldStatus,
		constant.FieldModifiedAt, constant.FieldModifiedBy, model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err := r.db.Write.ExecContext(ctx, query, id, reason, maxAttempts, string(model.StatusFailed), timezone.Now(), constant.SystemUser)
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to mark notification failed: %w", err)
	}

	return nil
}

func (r *repositoryImpl) CancelForBooking(ctx context.Context, bookingID string) error {
	filter := gDto.And(
		shared.FilterEq(model.FieldBookingID, bookingID, model.TableName),
		gDto.Filter{Field: model.FieldStatus, Value: string(model.StatusScheduled), Operator: gDto.FilterOperatorEq, Table: model.TableName},
	)

	return r.Repository.Delete(ctx, filter)
}
