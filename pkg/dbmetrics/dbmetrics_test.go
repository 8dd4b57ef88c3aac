package dbmetrics

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu         sync.Mutex
	operations []string
	errs       []error
}

func (o *recordingObserver) ObserveDBQuery(operation string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.operations = append(o.operations, operation)
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) SetDBPoolStats(sql.DBStats) {}

func TestDB_ObservesQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	obs := &recordingObserver{}
	wrapped := Wrap(db, obs)

	mock.ExpectExec("UPDATE appointments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("(?i)select id").WillReturnError(errors.New("boom"))

	_, err = wrapped.ExecContext(context.Background(), "UPDATE appointments SET status = $1", "Approved")
	require.NoError(t, err)
	_, err = wrapped.QueryContext(context.Background(), "  select id FROM appointments")
	require.Error(t, err)

	assert.Equal(t, []string{"update", "select"}, obs.operations)
	assert.NoError(t, obs.errs[0])
	assert.Error(t, obs.errs[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_TxQueriesAreObserved(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	obs := &recordingObserver{}
	wrapped := Wrap(db, obs)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO revenue_records").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := wrapped.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(context.Background(), "INSERT INTO revenue_records (id) VALUES ($1)", "x")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, []string{"insert"}, obs.operations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wrapped := Wrap(db, nil)
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, wrapped, GetExecutor(ctx, wrapped))

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := wrapped.BeginTx(ctx, nil)
	require.NoError(t, err)

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, tx, GetExecutor(txCtx, wrapped))

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT 1"))
	assert.Equal(t, "with", operation("\n\tWITH x AS (SELECT 1) SELECT * FROM x"))
	assert.Equal(t, "unknown", operation("   "))
}
