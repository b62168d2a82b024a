package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"donorlink/infras/otel/mocks"
	"donorlink/infras/postgres"
	bookingModel "donorlink/internal/domains/booking/model"
	"donorlink/internal/domains/need/model"
	"donorlink/internal/domains/need/repository"
	"donorlink/shared/failure"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var needColumns = []string{
	"id", "medical_center_id", "blood_type", "target_amount_ml", "collected_amount_ml", "urgent", "status", "requested_at",
	"created_at", "modified_at", "created_by", "modified_by",
}

func newRepo(t *testing.T) (repository.Need, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func sumAt450(need model.Need, completed []bookingModel.Booking) model.Need {
	total := 0
	for _, booking := range completed {
		total += booking.Contribution(450)
	}

	need.CollectedAmountML = total
	need.Status = need.StatusFor(total)

	return need
}

func TestRepository_Reconcile(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectPrepare(`SELECT .* FROM blood_needs +WHERE \(blood_needs.id = \$1\)  FOR UPDATE OF blood_needs`).
		ExpectQuery().
		WithArgs("need-1").
		WillReturnRows(sqlmock.NewRows(needColumns).
			AddRow("need-1", "center-1", "3+", 1000, 0, true, "active", now, now, now, "staff", "staff"))
	mock.ExpectQuery(`SELECT id, status, quantity_ml FROM donation_bookings WHERE blood_need_id = \$1 AND status = ANY\(\$2\)`).
		WithArgs("need-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "quantity_ml"}).
			AddRow("b-1", "completed", nil).
			AddRow("b-2", "done", nil).
			AddRow("b-3", "completed", 450))
	mock.ExpectExec(`UPDATE blood_needs SET collected_amount_ml = \$1, modified_at = \$2, modified_by = \$3, status = \$4 +WHERE \(blood_needs.id = \$5\)`).
		WithArgs(1350, sqlmock.AnyArg(), "system", "fulfilled", "need-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	need, err := repo.Reconcile(context.Background(), "need-1", sumAt450)

	require.NoError(t, err)
	assert.Equal(t, 1350, need.CollectedAmountML)
	assert.Equal(t, model.StatusFulfilled, need.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ReconcileMissingNeed(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectPrepare(`FOR UPDATE OF blood_needs`).
		ExpectQuery().
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows(needColumns))
	mock.ExpectRollback()

	_, err := repo.Reconcile(context.Background(), "gone", sumAt450)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, failure.KindNeedNotFound, failure.GetKind(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ReconcileRollsBackOnWriteError(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectPrepare(`FOR UPDATE OF blood_needs`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows(needColumns).
			AddRow("need-1", "center-1", "3+", 1000, 900, false, "active", now, now, now, "staff", "staff"))
	mock.ExpectQuery(`FROM donation_bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "quantity_ml"}))
	mock.ExpectExec(`UPDATE blood_needs`).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := repo.Reconcile(context.Background(), "need-1", sumAt450)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Open(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`WHERE \(blood_needs.status = \$1 AND \(blood_needs.collected_amount_ml < blood_needs.target_amount_ml\) AND blood_needs.medical_center_id = \$2\)`).
		ExpectQuery().
		WithArgs("active", "center-1").
		WillReturnRows(sqlmock.NewRows(needColumns))

	needs, err := repo.Open(context.Background(), "center-1")

	require.NoError(t, err)
	assert.Empty(t, needs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
