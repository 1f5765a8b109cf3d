package nearby

import (
	"log/slog"
	"net/http"
	"time"

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

type Handler struct {
	nearbyService  Service
	historyService *history.Service
	logger         *slog.Logger
}

func NewHandler(nearbyService Service, historyService *history.Service, logger *slog.Logger) *Handler {
	return &Handler{
		nearbyService:  nearbyService,
		historyService: historyService,
		logger:         logger,
	}
}

// SearchRequest is the POST /nearby/search body. Either Location or a
// coordinate pair must be present; coordinates are substituted with a
// location query string.
type SearchRequest struct {
	Location  string   `json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Radius    string   `json:"radius,omitempty"`
}

// Search handles POST /nearby/search: resolve the query, ask the model for
// recommendations, and append a search record on success.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("NearbyHandler").Start(r.Context(), "Search", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/nearby/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Search"))

	var req SearchRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	location := req.Location
	if location == "" {
		if req.Latitude == nil || req.Longitude == nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Location or a latitude/longitude pair is required")
			return
		}
		location = h.nearbyService.ResolveLocation(ctx, *req.Latitude, *req.Longitude)
	}

	radius := req.Radius
	if radius == "" {
		radius = types.DefaultRadius
	}
	if !types.ValidRadius(radius) {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Radius must be one of: 100m, 300m, 500m, 1km, 3km, 5km, 10km")
		return
	}
	span.SetAttributes(attribute.String("nearby.location", location),
		attribute.String("nearby.radius", radius))

	places, err := h.nearbyService.SearchNearby(ctx, location, radius)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failure")
		api.ErrorResponse(w, r, http.StatusBadGateway, "Nearby search failed, please check your network or API key configuration.")
		return
	}

	record := types.SearchRecord{
		ID:           uuid.New(),
		Timestamp:    time.Now(),
		LocationName: location,
		Radius:       radius,
		Results:      places,
	}
	h.historyService.AppendSearch(ctx, record)

	l.InfoContext(ctx, "Nearby search recorded",
		slog.String("record_id", record.ID.String()), slog.Int("results", len(places)))
	api.WriteJSONResponse(w, r, http.StatusOK, record)
}

// ListHistory handles GET /nearby/history: stored search records, newest first.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("NearbyHandler").Start(r.Context(), "ListHistory")
	defer span.End()

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"records": h.historyService.Searches(),
	})
}

// DeleteRecord handles DELETE /nearby/history/{recordID}. Idempotent.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("NearbyHandler").Start(r.Context(), "DeleteRecord")
	defer span.End()

	idStr := chi.URLParam(r, "recordID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		span.SetStatus(codes.Error, "invalid record ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid record ID format in URL")
		return
	}
	span.SetAttributes(attribute.String("nearby.record_id", id.String()))

	h.historyService.DeleteSearch(ctx, id)
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
