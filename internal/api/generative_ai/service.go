package generativeAI

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// AIClient wraps the Gemini SDK with the one call shape this application
// needs: a single prompt (optionally schema-constrained) in, text out.
type AIClient struct {
	client *genai.Client
	model  string
}

// ChatSession carries a running conversation with prior turns replayed as
// context by the provider.
type ChatSession struct {
	chat *genai.Chat
}

// NewAIClient builds a Gemini client from the GOOGLE_GEMINI_API_KEY
// environment variable. An empty model falls back to the default.
func NewAIClient(ctx context.Context, model string) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client: client,
		model:  model,
	}, nil
}

// GenerateContent issues one model call and returns the concatenated text of
// the first candidate. An empty string with a nil error means the provider
// answered but produced no text; callers decide whether that is fatal.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return result.Text(), nil
}

// StartChatSession opens a provider-side chat seeded with prior turns.
func (ai *AIClient) StartChatSession(ctx context.Context, config *genai.GenerateContentConfig, history []*genai.Content) (*ChatSession, error) {
	chat, err := ai.client.Chats.Create(ctx, ai.model, config, history)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return &ChatSession{chat: chat}, nil
}

// SendMessage sends one user turn and returns the model's reply text.
func (cs *ChatSession) SendMessage(ctx context.Context, message string) (string, error) {
	result, err := cs.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}
