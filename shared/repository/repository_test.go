package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"donorlink/infras/otel/mocks"
	"donorlink/infras/postgres"
	"donorlink/shared"
	"donorlink/shared/dto"
	"donorlink/shared/failure"
	"donorlink/shared/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type center struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

func newRepo(t *testing.T) (repository.Repository[center], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.NewRepository[center]("center", "medical_centers", "id", &postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func TestRepository_Get(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`SELECT medical_centers.id, medical_centers.name FROM medical_centers +WHERE \(medical_centers.id = \$1\)`).
		ExpectQuery().
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("c-1", "City Blood Center"))

	got, err := repo.Get(context.Background(), shared.FilterByID("c-1", "id", "medical_centers"))

	require.NoError(t, err)
	assert.Equal(t, center{ID: "c-1", Name: "City Blood Center"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetMissingReturnsZero(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`SELECT .* FROM medical_centers`).
		ExpectQuery().
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(context.Background(), shared.FilterByID("missing", "id", "medical_centers"))

	require.NoError(t, err)
	assert.Empty(t, got.ID)
}

func TestRepository_GetForUpdateTx(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectPrepare(`FOR UPDATE OF medical_centers`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("c-1", "City"))
	mock.ExpectCommit()

	err := repo.DB().WithTx(context.Background(), func(tx *sqlx.Tx) error {
		got, err := repo.GetForUpdateTx(context.Background(), tx, shared.FilterByID("c-1", "id", "medical_centers"))
		assert.Equal(t, "c-1", got.ID)

		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetAllIgnoresUnknownSortColumn(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`SELECT .* FROM medical_centers +LIMIT \$1 OFFSET \$2`).
		ExpectQuery().
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	got, err := repo.GetAll(context.Background(), dto.QueryParams{Page: 1, Limit: 10, SortBy: "name; DROP TABLE x", SortDir: "ASC"}, dto.FilterGroup{})

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Count(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`SELECT COUNT\(medical_centers.id\) FROM medical_centers`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background(), dto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRepository_UpdateRequiresFilter(t *testing.T) {
	repo, _ := newRepo(t)

	err := repo.Update(context.Background(), map[string]any{"name": "x"}, dto.FilterGroup{})

	assert.Error(t, err)
}

func TestRepository_ConnectionErrorIsRetryable(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`INSERT INTO medical_centers \(id, name\) VALUES \(\$1, \$2\)`).
		WillReturnError(&pq.Error{Code: "08006"})

	err := repo.Insert(context.Background(), center{ID: "c-2", Name: "North"})

	assert.True(t, failure.IsRetryable(err))
}
