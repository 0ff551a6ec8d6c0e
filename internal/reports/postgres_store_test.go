package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/algopatterns/dedup/internal/dedup"
)

var reportColumns = []string{
	"id", "pass_id", "strategy", "input", "kept", "removed", "skipped",
	"clusters", "reweighted", "duration_ms", "created_at",
}

func TestPostgresStore_Initialize(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS dedup_reports").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, NewPostgresStore(mock).Initialize(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := report("pass-1", 4)

	mock.ExpectExec("INSERT INTO dedup_reports").
		WithArgs(r.ID, "pass-1", "fuzzy", 5, 4, 1, 0, 0, 0, int64(1500), r.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewPostgresStore(mock).Save(context.Background(), r))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dbErr := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO dedup_reports").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(dbErr)

	err = NewPostgresStore(mock).Save(context.Background(), report("pass-1", 1))
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListByPass(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	rows := mock.NewRows(reportColumns).
		AddRow("r2", "pass-1", "soft", 6, 6, 0, 0, 2, 5, int64(20), now).
		AddRow("r1", "pass-1", "soft", 3, 3, 0, 0, 1, 0, int64(5), now.Add(-time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM dedup_reports WHERE pass_id = \\$1").
		WithArgs("pass-1", DefaultListLimit).
		WillReturnRows(rows)

	list, err := NewPostgresStore(mock).ListByPass(context.Background(), "pass-1", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "r2", list[0].ID)
	assert.Equal(t, dedup.StrategySoft, list[0].Strategy)
	assert.Equal(t, 2, list[0].Clusters)
	assert.Equal(t, 5, list[0].Reweighted)
	assert.Equal(t, 20*time.Millisecond, list[0].Duration)
	assert.Equal(t, now, list[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteByPass(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM dedup_reports WHERE pass_id = \\$1").
		WithArgs("pass-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, NewPostgresStore(mock).DeleteByPass(context.Background(), "pass-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
