package chat

import (
	"log/slog"
	"net/http"
	"time"

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
	chatService    Service
	historyService *history.Service
	logger         *slog.Logger
}

func NewHandler(chatService Service, historyService *history.Service, logger *slog.Logger) *Handler {
	return &Handler{
		chatService:    chatService,
		historyService: historyService,
		logger:         logger,
	}
}

// TurnRequest is the POST /chat body: the running message history, the new
// user message, and optionally the id of the itinerary the user is viewing.
type TurnRequest struct {
	Messages    []types.ChatMessage `json:"messages"`
	Message     string              `json:"message"`
	ItineraryID *uuid.UUID          `json:"itineraryId,omitempty"`
}

// SendMessage handles POST /chat: one assistant turn.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChatHandler").Start(r.Context(), "SendMessage", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SendMessage"))

	var req TurnRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Message == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Message is required")
		return
	}

	var tripContext *types.Itinerary
	if req.ItineraryID != nil {
		if it, ok := h.historyService.GetItinerary(*req.ItineraryID); ok {
			tripContext = &it
			span.SetAttributes(attribute.String("itinerary.id", it.ID.String()))
		}
	}

	reply, err := h.chatService.GenerateChatResponse(ctx, req.Messages, req.Message, tripContext)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat failure")
		api.ErrorResponse(w, r, http.StatusBadGateway, "Chat response failed, please check your network or API key configuration.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.ChatMessage{
		Role:      types.ChatRoleModel,
		Text:      reply,
		Timestamp: time.Now(),
	})
}
