package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/voyageai/go-trip-planner/internal/api"
	"github.com/voyageai/go-trip-planner/internal/api/history"
	"github.com/voyageai/go-trip-planner/internal/types"
)

const maxDurationDays = 14

type Handler struct {
	itineraryService Service
	historyService   *history.Service
	logger           *slog.Logger
}

func NewHandler(itineraryService Service, historyService *history.Service, logger *slog.Logger) *Handler {
	return &Handler{
		itineraryService: itineraryService,
		historyService:   historyService,
		logger:           logger,
	}
}

// CreateItinerary handles POST /itineraries: generate a plan from submitted
// preferences and append it to history.
func (h *Handler) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "CreateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateItinerary"))

	var prefs types.UserPreferences
	if err := api.DecodeJSONBody(w, r, &prefs); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg, ok := validatePreferences(prefs); !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, msg)
		return
	}

	h.generateAndRespond(ctx, span, w, r, prefs)
}

// ReplayItinerary handles GET /itineraries/replay: decode share-link query
// parameters and regenerate an equivalent plan.
func (h *Handler) ReplayItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "ReplayItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/replay"),
	))
	defer span.End()

	prefs := DecodePreferences(r.URL.Query())
	if msg, ok := validatePreferences(prefs); !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, msg)
		return
	}

	h.generateAndRespond(ctx, span, w, r, prefs)
}

func (h *Handler) generateAndRespond(ctx context.Context, span trace.Span, w http.ResponseWriter, r *http.Request, prefs types.UserPreferences) {
	l := h.logger.With(slog.String("destination", prefs.Destination))

	it, err := h.itineraryService.GenerateItinerary(ctx, prefs)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrUnparsableItinerary):
			span.SetStatus(codes.Error, "parse failure")
			api.ErrorResponse(w, r, http.StatusBadGateway, "Could not parse the generated itinerary, please retry.")
		default:
			span.SetStatus(codes.Error, "generation failure")
			api.ErrorResponse(w, r, http.StatusBadGateway, "Itinerary generation failed, please check your network or API key configuration.")
		}
		return
	}
	span.SetAttributes(attribute.String("itinerary.id", it.ID.String()))

	h.historyService.AppendItinerary(ctx, *it)
	l.InfoContext(ctx, "Itinerary created", slog.String("itinerary_id", it.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusCreated, it)
}

// ListItineraries handles GET /itineraries: the stored history, newest first.
func (h *Handler) ListItineraries(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "ListItineraries")
	defer span.End()

	records := h.historyService.Itineraries()
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"itineraries": records,
	})
}

// DeleteItinerary handles DELETE /itineraries/{itineraryID}. Removal is
// idempotent: deleting an unknown id still returns 204.
func (h *Handler) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "DeleteItinerary")
	defer span.End()

	idStr := chi.URLParam(r, "itineraryID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		span.SetStatus(codes.Error, "invalid itinerary ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID format in URL")
		return
	}
	span.SetAttributes(attribute.String("itinerary.id", id.String()))

	h.historyService.DeleteItinerary(ctx, id)
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// ShareLink handles POST /itineraries/share: encode a plan's inputs as query
// parameters so another session can replay them.
func (h *Handler) ShareLink(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "ShareLink")
	defer span.End()

	var prefs types.UserPreferences
	if err := api.DecodeJSONBody(w, r, &prefs); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg, ok := validatePreferences(prefs); !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, msg)
		return
	}

	query := EncodePreferences(prefs).Encode()
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{
		"query": query,
		"path":  "/api/v1/itineraries/replay?" + query,
	})
}

func validatePreferences(prefs types.UserPreferences) (string, bool) {
	if prefs.Origin == "" {
		return "Origin is required", false
	}
	if prefs.Destination == "" {
		return "Destination is required", false
	}
	if prefs.Duration < 1 || prefs.Duration > maxDurationDays {
		return "Duration must be between 1 and 14 days", false
	}
	return "", true
}
