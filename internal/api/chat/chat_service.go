package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

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

const baseSystemInstruction = "You are a helpful travel assistant. Answer questions about travel, destinations, and logistics in Traditional Chinese."

// fallbackReply is returned to the user when the model answers with no text.
const fallbackReply = "抱歉，我現在無法回答，請稍後再試。"

// ErrChatFailed covers provider failures on a chat turn.
var ErrChatFailed = errors.New("chat response failed")

// Session is one provider-side conversation.
type Session interface {
	SendMessage(ctx context.Context, message string) (string, error)
}

// SessionStarter is the slice of the AI client this service depends on.
type SessionStarter interface {
	StartChatSession(ctx context.Context, config *genai.GenerateContentConfig, history []*genai.Content) (Session, error)
}

// AIClientAdapter adapts the concrete AI client to SessionStarter.
type AIClientAdapter struct {
	Client *generativeAI.AIClient
}

func (a AIClientAdapter) StartChatSession(ctx context.Context, config *genai.GenerateContentConfig, history []*genai.Content) (Session, error) {
	return a.Client.StartChatSession(ctx, config, history)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for assistant chat turns.
type Service interface {
	GenerateChatResponse(ctx context.Context, history []types.ChatMessage, newMessage string, tripContext *types.Itinerary) (string, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger   *slog.Logger
	aiClient SessionStarter
}

// NewService creates a new chat service instance.
func NewService(aiClient SessionStarter, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		aiClient: aiClient,
	}
}

// GenerateChatResponse replays the running message history, sends the new
// user message, and returns the model's reply text. An empty reply becomes a
// localized fallback string rather than an error.
func (s *ServiceImpl) GenerateChatResponse(ctx context.Context, history []types.ChatMessage, newMessage string, tripContext *types.Itinerary) (string, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "GenerateChatResponse", trace.WithAttributes(
		attribute.Int("chat.history_turns", len(history)),
		attribute.Bool("chat.has_trip_context", tripContext != nil),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GenerateChatResponse"))

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SystemInstruction(tripContext)}}},
	}

	session, err := s.aiClient.StartChatSession(ctx, config, toGenaiHistory(history))
	if err != nil {
		l.ErrorContext(ctx, "Failed to start chat session", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat session failed")
		s.recordRequest(ctx, "provider_error")
		return "", fmt.Errorf("%w: %w", ErrChatFailed, err)
	}

	start := time.Now()
	reply, err := session.SendMessage(ctx, newMessage)
	appmetrics.Get().GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("kind", "chat")))
	if err != nil {
		l.ErrorContext(ctx, "Chat turn failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat turn failed")
		s.recordRequest(ctx, "provider_error")
		return "", fmt.Errorf("%w: %w", ErrChatFailed, err)
	}
	if reply == "" {
		l.WarnContext(ctx, "Model returned an empty reply, using fallback")
		s.recordRequest(ctx, "empty_reply")
		return fallbackReply, nil
	}

	s.recordRequest(ctx, "success")
	return reply, nil
}

// SystemInstruction builds the assistant instruction, extended with trip
// context when an itinerary is active.
func SystemInstruction(tripContext *types.Itinerary) string {
	instruction := baseSystemInstruction
	if tripContext != nil {
		instruction += fmt.Sprintf("\n\nCurrent Trip Context:\nDestination: %s\nSummary: %s\nTotal Estimated Cost: %s\nFull details are known to the user. Answer specific questions about this itinerary if asked.",
			tripContext.Destination, tripContext.Summary, tripContext.TotalEstimatedCost)
	}
	return instruction
}

func toGenaiHistory(history []types.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == types.ChatRoleModel {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}
	return contents
}

func (s *ServiceImpl) recordRequest(ctx context.Context, outcome string) {
	appmetrics.Get().GenerationRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", "chat"), attribute.String("outcome", outcome)))
}
