package history

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	appmetrics "github.com/voyageai/go-trip-planner/app/observability/metrics"
	"github.com/voyageai/go-trip-planner/internal/types"
)

// Service keeps the itinerary and nearby-search histories in memory
// (newest-first) and mirrors every change to the injected Store. The in-memory
// state is authoritative for the running process: persistence failures are
// logged and swallowed, never surfaced to the caller.
type Service struct {
	store  Store
	logger *slog.Logger

	mu          sync.RWMutex
	itineraries []types.Itinerary
	searches    []types.SearchRecord
}

// NewService loads both persisted collections. Deserialization failures are
// treated as "no history" so a corrupt value can never prevent startup.
func NewService(ctx context.Context, store Store, logger *slog.Logger) *Service {
	s := &Service{
		store:  store,
		logger: logger,
	}
	s.itineraries = loadCollection[types.Itinerary](ctx, store, logger, TripHistoryKey)
	s.searches = loadCollection[types.SearchRecord](ctx, store, logger, NearbyHistoryKey)
	return s
}

func loadCollection[T any](ctx context.Context, store Store, logger *slog.Logger, key string) []T {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			logger.Warn("Failed to load history collection, starting empty",
				slog.String("key", key), slog.Any("error", err))
		}
		return nil
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Warn("Failed to parse stored history, starting empty",
			slog.String("key", key), slog.Any("error", err))
		return nil
	}
	return records
}

// Itineraries returns the itinerary history, newest first.
func (s *Service) Itineraries() []types.Itinerary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Itinerary, len(s.itineraries))
	copy(out, s.itineraries)
	return out
}

// GetItinerary looks up a stored itinerary by id.
func (s *Service) GetItinerary(id uuid.UUID) (types.Itinerary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.itineraries {
		if it.ID == id {
			return it, true
		}
	}
	return types.Itinerary{}, false
}

// AppendItinerary prepends a freshly generated itinerary and persists the
// full collection.
func (s *Service) AppendItinerary(ctx context.Context, it types.Itinerary) {
	s.mu.Lock()
	s.itineraries = append([]types.Itinerary{it}, s.itineraries...)
	snapshot := make([]types.Itinerary, len(s.itineraries))
	copy(snapshot, s.itineraries)
	s.mu.Unlock()

	appmetrics.Get().HistoryRecordsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("collection", "itineraries")))
	s.persist(ctx, TripHistoryKey, snapshot)
}

// DeleteItinerary removes the itinerary with the given id. Deleting an id
// that is not present is a no-op. When the collection becomes empty the
// persisted key is removed entirely rather than storing an empty array.
func (s *Service) DeleteItinerary(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	filtered := s.itineraries[:0]
	removed := false
	for _, it := range s.itineraries {
		if it.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, it)
	}
	s.itineraries = filtered
	snapshot := make([]types.Itinerary, len(s.itineraries))
	copy(snapshot, s.itineraries)
	s.mu.Unlock()

	if !removed {
		return
	}
	if len(snapshot) == 0 {
		s.remove(ctx, TripHistoryKey)
		return
	}
	s.persist(ctx, TripHistoryKey, snapshot)
}

// Searches returns the nearby-search history, newest first.
func (s *Service) Searches() []types.SearchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.SearchRecord, len(s.searches))
	copy(out, s.searches)
	return out
}

// AppendSearch prepends a search record and persists the full collection.
func (s *Service) AppendSearch(ctx context.Context, rec types.SearchRecord) {
	s.mu.Lock()
	s.searches = append([]types.SearchRecord{rec}, s.searches...)
	snapshot := make([]types.SearchRecord, len(s.searches))
	copy(snapshot, s.searches)
	s.mu.Unlock()

	appmetrics.Get().HistoryRecordsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("collection", "searches")))
	s.persist(ctx, NearbyHistoryKey, snapshot)
}

// DeleteSearch removes the search record with the given id, with the same
// idempotency and empty-key behavior as DeleteItinerary.
func (s *Service) DeleteSearch(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	filtered := s.searches[:0]
	removed := false
	for _, rec := range s.searches {
		if rec.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, rec)
	}
	s.searches = filtered
	snapshot := make([]types.SearchRecord, len(s.searches))
	copy(snapshot, s.searches)
	s.mu.Unlock()

	if !removed {
		return
	}
	if len(snapshot) == 0 {
		s.remove(ctx, NearbyHistoryKey)
		return
	}
	s.persist(ctx, NearbyHistoryKey, snapshot)
}

func (s *Service) persist(ctx context.Context, key string, collection any) {
	raw, err := json.Marshal(collection)
	if err != nil {
		s.logger.Error("Failed to serialize history collection",
			slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		s.logger.Error("Failed to persist history collection, in-memory state kept",
			slog.String("key", key), slog.Any("error", err))
	}
}

func (s *Service) remove(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Error("Failed to remove empty history collection",
			slog.String("key", key), slog.Any("error", err))
	}
}
