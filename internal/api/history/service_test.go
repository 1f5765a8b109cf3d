package history

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmetrics "github.com/voyageai/go-trip-planner/app/observability/metrics"
	"github.com/voyageai/go-trip-planner/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testItinerary(name string) types.Itinerary {
	return types.Itinerary{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		Destination: "東京",
		TripName:    name,
		Summary:     "測試行程",
		Days:        []types.DayPlan{{Day: 1, Title: "抵達"}},
	}
}

func testSearch(location string) types.SearchRecord {
	return types.SearchRecord{
		ID:           uuid.New(),
		Timestamp:    time.Now().UTC().Truncate(time.Second),
		LocationName: location,
		Radius:       "1km",
		Results:      []types.NearbyPlace{},
	}
}

func TestAppendItinerary_NewestFirst(t *testing.T) {
	appmetrics.InitAppMetrics()
	ctx := context.Background()
	svc := NewService(ctx, NewMemoryStore(), testLogger())

	first := testItinerary("第一趟")
	second := testItinerary("第二趟")
	svc.AppendItinerary(ctx, first)
	svc.AppendItinerary(ctx, second)

	got := svc.Itineraries()
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestHistory_RoundTripThroughStore(t *testing.T) {
	appmetrics.InitAppMetrics()
	ctx := context.Background()
	store := NewMemoryStore()

	svc := NewService(ctx, store, testLogger())
	it := testItinerary("京都行")
	rec := testSearch("西門町")
	svc.AppendItinerary(ctx, it)
	svc.AppendSearch(ctx, rec)

	// A fresh service over the same store sees the persisted state.
	reloaded := NewService(ctx, store, testLogger())
	require.Len(t, reloaded.Itineraries(), 1)
	assert.Equal(t, it.ID, reloaded.Itineraries()[0].ID)
	require.Len(t, reloaded.Searches(), 1)
	assert.Equal(t, rec.LocationName, reloaded.Searches()[0].LocationName)
}

func TestDeleteItinerary_LastRecordRemovesKey(t *testing.T) {
	appmetrics.InitAppMetrics()
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(ctx, store, testLogger())

	it := testItinerary("單趟")
	svc.AppendItinerary(ctx, it)
	svc.DeleteItinerary(ctx, it.ID)

	assert.Empty(t, svc.Itineraries())
	_, err := store.Get(ctx, TripHistoryKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestDeleteItinerary_UnknownIDIsNoOp(t *testing.T) {
	appmetrics.InitAppMetrics()
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(ctx, store, testLogger())

	it := testItinerary("保留")
	svc.AppendItinerary(ctx, it)
	svc.DeleteItinerary(ctx, uuid.New())
	svc.DeleteItinerary(ctx, uuid.New())

	require.Len(t, svc.Itineraries(), 1)
	raw, err := store.Get(ctx, TripHistoryKey)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestDeleteSearch_Idempotent(t *testing.T) {
	appmetrics.InitAppMetrics()
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(ctx, store, testLogger())

	rec := testSearch("信義區")
	svc.AppendSearch(ctx, rec)
	svc.DeleteSearch(ctx, rec.ID)
	svc.DeleteSearch(ctx, rec.ID)

	assert.Empty(t, svc.Searches())
	_, err := store.Get(ctx, NearbyHistoryKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestNewService_CorruptStoredValueStartsEmpty(t *testing.T) {
	appmetrics.InitAppMetrics()
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, TripHistoryKey, []byte("not json at all")))
	require.NoError(t, store.Set(ctx, NearbyHistoryKey, []byte(`{"wrong": "shape"}`)))

	svc := NewService(ctx, store, testLogger())
	assert.Empty(t, svc.Itineraries())
	assert.Empty(t, svc.Searches())
}

func TestGetItinerary(t *testing.T) {
	appmetrics.InitAppMetrics()
	ctx := context.Background()
	svc := NewService(ctx, NewMemoryStore(), testLogger())

	it := testItinerary("找得到")
	svc.AppendItinerary(ctx, it)

	got, ok := svc.GetItinerary(it.ID)
	require.True(t, ok)
	assert.Equal(t, "找得到", got.TripName)

	_, ok = svc.GetItinerary(uuid.New())
	assert.False(t, ok)
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	appmetrics.InitAppMetrics()
	ctx := context.Background()
	svc := NewService(ctx, failingStore{}, testLogger())

	it := testItinerary("離線行程")
	svc.AppendItinerary(ctx, it)

	got := svc.Itineraries()
	require.Len(t, got, 1)
	assert.Equal(t, it.ID, got[0].ID)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, ErrKeyNotFound }
func (failingStore) Set(context.Context, string, []byte) error {
	return assert.AnError
}
func (failingStore) Delete(context.Context, string) error { return assert.AnError }
