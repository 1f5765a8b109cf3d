package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
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

var (
	// ErrGenerationFailed covers provider failures and empty responses.
	ErrGenerationFailed = errors.New("itinerary generation failed")
	// ErrUnparsableItinerary means the sanitized response was not valid JSON
	// matching the declared schema.
	ErrUnparsableItinerary = errors.New("could not parse generated itinerary")
)

// AIGenerator is the slice of the AI client this service depends on.
type AIGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for itinerary generation.
type Service interface {
	GenerateItinerary(ctx context.Context, prefs types.UserPreferences) (*types.Itinerary, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger      *slog.Logger
	aiClient    AIGenerator
	temperature float32
}

// NewService creates a new itinerary service instance. A non-positive
// temperature falls back to the default.
func NewService(aiClient AIGenerator, temperature float32, logger *slog.Logger) *ServiceImpl {
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &ServiceImpl{
		logger:      logger,
		aiClient:    aiClient,
		temperature: temperature,
	}
}

// itineraryPayload is the raw model output before the service stamps identity.
type itineraryPayload struct {
	Destination            string          `json:"destination"`
	TripName               string          `json:"tripName"`
	Summary                string          `json:"summary"`
	EstimatedTransportCost string          `json:"estimatedTransportCost"`
	TotalEstimatedCost     string          `json:"totalEstimatedCost"`
	Days                   []types.DayPlan `json:"days"`
}

// GenerateItinerary builds the prompt, calls the model with the itinerary
// schema, sanitizes and validates the response, and stamps the result with a
// fresh id and the current time. No retries: a failed call propagates to the
// caller, which owns user-facing messaging.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, prefs types.UserPreferences) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("trip.origin", prefs.Origin),
		attribute.String("trip.destination", prefs.Destination),
		attribute.Int("trip.duration_days", prefs.Duration),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GenerateItinerary"),
		slog.String("destination", prefs.Destination))

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](s.temperature),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    itinerarySchema,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}

	start := time.Now()
	txt, err := s.aiClient.GenerateContent(ctx, GetItineraryPrompt(prefs), config)
	s.recordDuration(ctx, "itinerary", time.Since(start))
	if err != nil {
		l.ErrorContext(ctx, "Model call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		s.recordRequest(ctx, "itinerary", "provider_error")
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if txt == "" {
		l.ErrorContext(ctx, "Model returned no text")
		span.SetStatus(codes.Error, "empty model response")
		s.recordRequest(ctx, "itinerary", "provider_error")
		return nil, fmt.Errorf("%w: no text response from model", ErrGenerationFailed)
	}

	jsonStr := generativeAI.ExtractJSONBlock(txt)
	var payload itineraryPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		l.ErrorContext(ctx, "Failed to parse itinerary JSON", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failure")
		s.recordParseFailure(ctx, "itinerary")
		s.recordRequest(ctx, "itinerary", "parse_error")
		return nil, fmt.Errorf("%w: %w", ErrUnparsableItinerary, err)
	}
	if err := validatePayload(payload); err != nil {
		l.ErrorContext(ctx, "Generated itinerary failed validation", slog.Any("error", err))
		span.SetStatus(codes.Error, "validation failure")
		s.recordParseFailure(ctx, "itinerary")
		s.recordRequest(ctx, "itinerary", "parse_error")
		return nil, fmt.Errorf("%w: %w", ErrUnparsableItinerary, err)
	}

	it := &types.Itinerary{
		ID:                     uuid.New(),
		CreatedAt:              time.Now(),
		Destination:            payload.Destination,
		TripName:               payload.TripName,
		Summary:                payload.Summary,
		EstimatedTransportCost: payload.EstimatedTransportCost,
		TotalEstimatedCost:     payload.TotalEstimatedCost,
		Days:                   payload.Days,
	}
	span.SetAttributes(attribute.String("itinerary.id", it.ID.String()),
		attribute.Int("itinerary.days", len(it.Days)))
	l.InfoContext(ctx, "Itinerary generated",
		slog.String("itinerary_id", it.ID.String()), slog.Int("days", len(it.Days)))
	s.recordRequest(ctx, "itinerary", "success")
	return it, nil
}

// validatePayload is the validating deserializer: required fields and enum
// membership are checked so partial objects are rejected instead of silently
// accepted.
func validatePayload(p itineraryPayload) error {
	if p.Destination == "" || p.TripName == "" || p.Summary == "" {
		return errors.New("missing required itinerary fields")
	}
	if len(p.Days) == 0 {
		return errors.New("itinerary has no days")
	}
	seen := make(map[int]bool, len(p.Days))
	for _, day := range p.Days {
		if day.Day <= 0 {
			return fmt.Errorf("invalid day number %d", day.Day)
		}
		if seen[day.Day] {
			return fmt.Errorf("duplicate day number %d", day.Day)
		}
		seen[day.Day] = true
		if day.Title == "" {
			return fmt.Errorf("day %d is missing a title", day.Day)
		}
		for _, act := range day.Activities {
			if act.Time == "" || act.Activity == "" || act.Description == "" || act.Location == "" {
				return fmt.Errorf("day %d has an activity with missing required fields", day.Day)
			}
			if !types.ValidActivityType(act.Type) {
				return fmt.Errorf("day %d has an activity with unknown type %q", day.Day, act.Type)
			}
		}
	}
	return nil
}

func (s *ServiceImpl) recordRequest(ctx context.Context, kind, outcome string) {
	appmetrics.Get().GenerationRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind), attribute.String("outcome", outcome)))
}

func (s *ServiceImpl) recordDuration(ctx context.Context, kind string, d time.Duration) {
	appmetrics.Get().GenerationDurationSeconds.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("kind", kind)))
}

func (s *ServiceImpl) recordParseFailure(ctx context.Context, kind string) {
	appmetrics.Get().ParseFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind)))
}
