package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresRepo(t *testing.T) (*ReportPostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReportPostgresRepository(sqlx.NewDb(db, "sqlmock"), "report_history"), mock
}

func TestPostgresRepositoryLoadReports(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	payload, err := json.Marshal(sampleReports())
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM report_blobs WHERE key = $1`)).
		WithArgs("report_history").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := repo.LoadReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleReports(), got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryLoadNoRowIsEmptyHistory(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM report_blobs WHERE key = $1`)).
		WithArgs("report_history").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.LoadReports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryLoadCorruptPayload(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM report_blobs WHERE key = $1`)).
		WithArgs("report_history").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte("{not json")))

	_, err := repo.LoadReports(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode report blob")
}

func TestPostgresRepositorySaveReports(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	payload, err := json.Marshal(sampleReports())
	require.NoError(t, err)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO report_blobs (key, payload, updated_at)`)).
		WithArgs("report_history", payload, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveReports(context.Background(), sampleReports()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositorySaveFailure(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO report_blobs`)).
		WillReturnError(errors.New("connection reset"))

	err := repo.SaveReports(context.Background(), sampleReports())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save report blob")
}
