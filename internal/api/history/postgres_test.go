package history

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_GetFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	stored := []byte(`[{"id":"00000000-0000-0000-0000-000000000001"}]`)
	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM history_kv WHERE key = $1`)).
		WithArgs(TripHistoryKey).
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(stored))

	store := NewPostgresStore(mockPool, testLogger())
	got, err := store.Get(context.Background(), TripHistoryKey)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresStore_GetMissingKey(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM history_kv WHERE key = $1`)).
		WithArgs(NearbyHistoryKey).
		WillReturnError(pgx.ErrNoRows)

	store := NewPostgresStore(mockPool, testLogger())
	_, err = store.Get(context.Background(), NearbyHistoryKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresStore_SetUpserts(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	value := []byte(`[]`)
	mockPool.ExpectExec(`INSERT INTO history_kv .+ ON CONFLICT \(key\) DO UPDATE`).
		WithArgs(TripHistoryKey, value).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStore(mockPool, testLogger())
	require.NoError(t, store.Set(context.Background(), TripHistoryKey, value))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta(`DELETE FROM history_kv WHERE key = $1`)).
		WithArgs(TripHistoryKey).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	store := NewPostgresStore(mockPool, testLogger())
	require.NoError(t, store.Delete(context.Background(), TripHistoryKey))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
