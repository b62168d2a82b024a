package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"donorlink/infras/otel"
	"donorlink/infras/postgres"
	"donorlink/internal/domains/bloodtype"
	bookingModel "donorlink/internal/domains/booking/model"
	"donorlink/internal/domains/donor/model"
	"donorlink/shared/constant"
	gDto "donorlink/shared/dto"
	gRepo "donorlink/shared/repository"
	"donorlink/shared/timezone"

	"github.com/lib/pq"
)

type Donor interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Donor, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	// Ensure creates the donor row for an identity subject seen for the first time.
	Ensure(ctx context.Context, donor model.Donor) error
	// RefreshStats recomputes donation count and volume from completed bookings.
	RefreshStats(ctx context.Context, donorID string, defaultML int) error
	// Reachable lists donors of the given blood types that accept push notifications.
	Reachable(ctx context.Context, types []bloodtype.Type) ([]model.Donor, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Donor]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Donor {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Donor](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Ensure(ctx context.Context, donor model.Donor) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".donor.Ensure")
	defer scope.End()

	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, TRUE, $3, $3, $4, $4) ON CONFLICT (%s) DO NOTHING",
		model.TableName, model.FieldID, model.FieldEmail, model.FieldNotificationsEnabled,
		constant.FieldCreatedAt, constant.FieldModifiedAt, constant.FieldCreatedBy, constant.FieldModifiedBy, model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := r.db.Write.ExecContext(ctx, query, donor.ID, donor.Email, timezone.Now(), donor.ID); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to ensure donor: %w", err)
	}

	return nil
}

func (r *repositoryImpl) RefreshStats(ctx context.Context, donorID string, defaultML int) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".donor.RefreshStats")
	defer scope.End()

	query := fmt.Sprintf(
		`UPDATE %[1]s SET
			%[2]s = stats.total,
			%[3]s = stats.volume,
			%[4]s = $3
		FROM (
			SELECT COUNT(*) AS total, COALESCE(SUM(COALESCE(%[5]s, $2)), 0) AS volume
			FROM %[6]s WHERE %[7]s = $1 AND %[8]s = ANY($4)
		) AS stats
		WHERE %[1]s.%[9]s = $1`,
		model.TableName, model.FieldDonationCount, model.FieldDonatedML, constant.FieldModifiedAt,
		bookingModel.FieldQuantityML, bookingModel.TableName, bookingModel.FieldDonorID, bookingModel.FieldStatus,
		model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	statuses := pq.StringArray(bookingModel.StoredValues(bookingModel.StatusCompleted))

	if _, err := r.db.Write.ExecContext(ctx, query, donorID, defaultML, timezone.Now(), statuses); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to refresh donor stats: %w", err)
	}

	return nil
}

func (r *repositoryImpl) Reachable(ctx context.Context, types []bloodtype.Type) ([]model.Donor, error) {
	values := make([]string, len(types))
	for i, t := range types {
		values[i] = t.String()
	}

	filter := gDto.And(
		gDto.Filter{Field: model.FieldBloodType, Value: values, Operator: gDto.FilterOperatorIn, Table: model.TableName},
		gDto.Filter{Field: model.FieldNotificationsEnabled, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldPushToken, Operator: gDto.FilterIsNotNull, Table: model.TableName},
	)

	donors, err := r.Repository.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get reachable donors: %w", err)
	}

	return donors, nil
}
