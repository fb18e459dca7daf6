package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/inbody-tracker/internal/common"
	"github.com/joseph-ayodele/inbody-tracker/internal/repository"
)

func TestSaveOutcomeRollsBackWhenResultWriteFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := repository.NewScanStore(db, testLogger())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO processed_images").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO inbody_results").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	scanDate := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	err = store.SaveOutcome(context.Background(), attempt("hash-tx", true), fullRecord("hash-tx", scanDate))
	require.Error(t, err)

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DB_WRITE_FAILED", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "attempt row must not be committed without the result row")
}

func TestSaveOutcomeRollsBackWhenAttemptWriteFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := repository.NewScanStore(db, testLogger())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO processed_images").WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	scanDate := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	err = store.SaveOutcome(context.Background(), attempt("hash-tx", true), fullRecord("hash-tx", scanDate))
	require.Error(t, err)

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DB_WRITE_FAILED", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveOutcomeCommitsBothWrites(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := repository.NewScanStore(db, testLogger())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO processed_images").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO inbody_results").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	scanDate := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	err = store.SaveOutcome(context.Background(), attempt("hash-tx", true), fullRecord("hash-tx", scanDate))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
