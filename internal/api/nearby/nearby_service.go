package nearby

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	appmetrics "github.com/voyageai/go-trip-planner/app/observability/metrics"
	generativeAI "github.com/voyageai/go-trip-planner/internal/api/generative_ai"
	"github.com/voyageai/go-trip-planner/internal/types"
)

const defaultTemperature = 0.5

// ErrSearchFailed covers provider failures and empty responses.
var ErrSearchFailed = errors.New("nearby search failed")

// AIGenerator is the slice of the AI client this service depends on.
type AIGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for nearby-place search.
type Service interface {
	SearchNearby(ctx context.Context, location, radius string) ([]types.NearbyPlace, error)
	ResolveLocation(ctx context.Context, lat, lon float64) string
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger      *slog.Logger
	aiClient    AIGenerator
	geocoder    Geocoder // nil when no Maps API key is configured
	cache       *cache.Cache
	temperature float32
}

// NewService creates a new nearby-search service instance. geocoder may be
// nil; coordinate lookups then fall back to a raw coordinate query string. A
// non-positive temperature falls back to the default.
func NewService(aiClient AIGenerator, geocoder Geocoder, temperature float32, logger *slog.Logger) *ServiceImpl {
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &ServiceImpl{
		logger:      logger,
		aiClient:    aiClient,
		geocoder:    geocoder,
		cache:       cache.New(10*time.Minute, 30*time.Minute),
		temperature: temperature,
	}
}

// SearchNearby asks the model for 5 restaurants and 5 attractions within the
// given radius of the location. A provider failure is an error; an
// unparsable or places-less payload degrades to an empty result list so the
// caller can still render a "no results" state.
func (s *ServiceImpl) SearchNearby(ctx context.Context, location, radius string) ([]types.NearbyPlace, error) {
	ctx, span := otel.Tracer("NearbyService").Start(ctx, "SearchNearby", trace.WithAttributes(
		attribute.String("nearby.location", location),
		attribute.String("nearby.radius", radius),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SearchNearby"),
		slog.String("location", location), slog.String("radius", radius))

	cacheKey := fmt.Sprintf("%s|%s", location, radius)
	if cached, found := s.cache.Get(cacheKey); found {
		if places, ok := cached.([]types.NearbyPlace); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			appmetrics.Get().NearbyCacheHitsTotal.Add(ctx, 1)
			return places, nil
		}
	}

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](s.temperature),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    nearbyResponseSchema,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}

	start := time.Now()
	txt, err := s.aiClient.GenerateContent(ctx, GetNearbyPrompt(location, radius), config)
	appmetrics.Get().GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("kind", "nearby")))
	if err != nil {
		l.ErrorContext(ctx, "Model call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		s.recordRequest(ctx, "provider_error")
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	if txt == "" {
		l.ErrorContext(ctx, "Model returned no text")
		span.SetStatus(codes.Error, "empty model response")
		s.recordRequest(ctx, "provider_error")
		return nil, fmt.Errorf("%w: no text response from model", ErrSearchFailed)
	}

	jsonStr := generativeAI.ExtractJSONBlock(txt)
	var payload struct {
		Places []types.NearbyPlace `json:"places"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		// Non-fatal: nearby search degrades to an empty result list.
		l.WarnContext(ctx, "Failed to parse nearby places, returning empty results", slog.Any("error", err))
		appmetrics.Get().ParseFailuresTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("kind", "nearby")))
		s.recordRequest(ctx, "parse_error")
		return []types.NearbyPlace{}, nil
	}

	places := payload.Places
	if places == nil {
		places = []types.NearbyPlace{}
	}
	places = dropInvalidPlaces(places)

	span.SetAttributes(attribute.Int("nearby.results", len(places)))
	l.InfoContext(ctx, "Nearby search completed", slog.Int("results", len(places)))
	s.cache.Set(cacheKey, places, cache.DefaultExpiration)
	s.recordRequest(ctx, "success")
	return places, nil
}

// ResolveLocation substitutes a coordinate pair with a location query string,
// through the geocoder when one is configured.
func (s *ServiceImpl) ResolveLocation(ctx context.Context, lat, lon float64) string {
	if s.geocoder != nil {
		address, err := s.geocoder.ReverseGeocode(ctx, lat, lon)
		if err == nil && address != "" {
			return address
		}
		s.logger.Warn("Reverse geocoding failed, using raw coordinates", slog.Any("error", err))
	}
	return CoordinateQuery(lat, lon)
}

// dropInvalidPlaces filters out entries with an unknown type so the closed
// enum holds for everything the service returns.
func dropInvalidPlaces(places []types.NearbyPlace) []types.NearbyPlace {
	out := places[:0]
	for _, p := range places {
		if p.Name == "" || !types.ValidPlaceType(p.Type) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *ServiceImpl) recordRequest(ctx context.Context, outcome string) {
	appmetrics.Get().GenerationRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", "nearby"), attribute.String("outcome", outcome)))
}
