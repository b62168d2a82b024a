package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"donorlink/infras/otel/mocks"
	"donorlink/infras/postgres"
	"donorlink/internal/domains/booking/model"
	"donorlink/internal/domains/booking/repository"
	gModel "donorlink/shared/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func pendingBooking() model.Booking {
	return model.Booking{
		ID:              "b-1",
		DonorID:         "donor-1",
		MedicalCenterID: "center-1",
		BloodNeedID:     "need-1",
		BookingDate:     time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC),
		BookingTime:     "09:00",
		Status:          model.StatusPending,
		Metadata:        gModel.NewMetadata("donor-1"),
	}
}

func TestRepository_Insert(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "stored"},
		{name: "slot already held", execErr: &pq.Error{Code: "23505", Constraint: "uq_donation_bookings_slot"}, wantErr: repository.ErrSlotTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)

			exec := mock.ExpectExec(`INSERT INTO donation_bookings`)
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.Insert(context.Background(), pendingBooking())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Insert_OtherErrorsPassThrough(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`INSERT INTO donation_bookings`).WillReturnError(errors.New("disk full"))

	err := repo.Insert(context.Background(), pendingBooking())

	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrSlotTaken)
}

func TestRepository_UpdateStatus(t *testing.T) {
	quantity := 500

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "row still in the expected status", affected: 1, want: true},
		{name: "row moved concurrently", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)

			mock.ExpectExec(`UPDATE donation_bookings SET status = \$1, modified_at = \$2, modified_by = \$3, quantity_ml = COALESCE\(\$6, quantity_ml\) WHERE id = \$4 AND status = ANY\(\$5\)`).
				WithArgs("completed", sqlmock.AnyArg(), "staff-1", "b-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := repo.UpdateStatus(context.Background(), "b-1", model.StatusInProcess, model.StatusCompleted, &quantity, "staff-1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_BookedTimes(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`SELECT .*booking_time.* FROM donation_bookings .*status != `).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"booking_time"}).AddRow("09:00").AddRow("12:00"))

	times, err := repo.BookedTimes(context.Background(), "center-1", time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "12:00"}, times)
	assert.NoError(t, mock.ExpectationsWereMet())
}
