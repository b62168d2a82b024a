package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"

	"donorlink/infras/otel"
	"donorlink/infras/postgres"
	bookingModel "donorlink/internal/domains/booking/model"
	"donorlink/internal/domains/need/model"
	"donorlink/shared"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	"donorlink/shared/failure"
	gRepo "donorlink/shared/repository"
	"donorlink/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrNotFound is returned by Reconcile when the need row does not exist.
var ErrNotFound = &failure.Failure{
	Code:    http.StatusNotFound,
	Kind:    failure.KindNeedNotFound,
	Message: "blood need not found",
}

// Tally derives the reconciled need from the locked row and its completed bookings.
type Tally func(need model.Need, completed []bookingModel.Booking) model.Need

type Need interface {
	Insert(ctx context.Context, model model.Need) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Need, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Need, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	// Open lists active needs still short of their target, optionally for one center.
	Open(ctx context.Context, centerID string) ([]model.Need, error)
	// IDs lists every need id, used by full reconciliation.
	IDs(ctx context.Context) ([]string, error)
	// Reconcile locks the need row, applies tally to its completed bookings and
	// persists the collected amount and status in the same transaction.
	Reconcile(ctx context.Context, needID string, tally Tally) (model.Need, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Need]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Need {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Need](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Open(ctx context.Context, centerID string) ([]model.Need, error) {
	filters := []any{
		gDto.Filter{Field: model.FieldStatus, Value: string(model.StatusActive), Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{
			Field:    model.FieldCollectedAmountML,
			Value:    fmt.Sprintf("%s.%s < %s.%s", model.TableName, model.FieldCollectedAmountML, model.TableName, model.FieldTargetAmountML),
			Operator: gDto.FilterPlainQuery,
		},
	}

	if centerID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldMedicalCenterID, Value: centerID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	needs, err := r.Repository.GetAll(ctx, gDto.QueryParams{}, gDto.And(filters...))
	if err != nil {
		return nil, fmt.Errorf("failed to get open needs: %w", err)
	}

	return needs, nil
}

func (r *repositoryImpl) IDs(ctx context.Context) ([]string, error) {
	needs, err := r.Repository.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldRequestedAt, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{}, model.FieldID)
	if err != nil {
		return nil, fmt.Errorf("failed to list needs: %w", err)
	}

	ids := make([]string, len(needs))
	for i, need := range needs {
		ids[i] = need.ID
	}

	return ids, nil
}

func (r *repositoryImpl) Reconcile(ctx context.Context, needID string, tally Tally) (res model.Need, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".need.Reconcile")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		need, err := r.GetForUpdateTx(ctx, tx, shared.FilterByID(needID, model.FieldID, model.TableName))
		if err != nil {
			return err //nolint:wrapcheck
		}

		if need.ID == constant.Empty {
			return ErrNotFound
		}

		completed, err := completedBookings(ctx, tx, needID)
		if err != nil {
			return err
		}

		res = tally(need, completed)

		return r.UpdateTx(ctx, tx, map[string]any{
			model.FieldCollectedAmountML: res.CollectedAmountML,
			model.FieldStatus:            string(res.Status),
			constant.FieldModifiedAt:     timezone.Now(),
			constant.FieldModifiedBy:     constant.SystemUser,
		}, shared.FilterByID(needID, model.FieldID, model.TableName))
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	return res, nil
}

// completedBookings reads inside the transaction that holds the need lock so
// the sum and the write see the same snapshot.
func completedBookings(ctx context.Context, tx *sqlx.Tx, needID string) ([]bookingModel.Booking, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s, %s FROM %s WHERE %s = $1 AND %s = ANY($2)",
		bookingModel.FieldID, bookingModel.FieldStatus, bookingModel.FieldQuantityML,
		bookingModel.TableName, bookingModel.FieldBloodNeedID, bookingModel.FieldStatus,
	)

	bookings := []bookingModel.Booking{}

	statuses := pq.StringArray(bookingModel.StoredValues(bookingModel.StatusCompleted))
	if err := tx.SelectContext(ctx, &bookings, query, needID, statuses); err != nil {
		return nil, fmt.Errorf("failed to get completed bookings: %w", err)
	}

	return bookings, nil
}
