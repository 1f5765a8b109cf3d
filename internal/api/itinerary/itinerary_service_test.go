package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	appmetrics "github.com/voyageai/go-trip-planner/app/observability/metrics"
	"github.com/voyageai/go-trip-planner/internal/types"
)

// --- Mocks for Dependencies ---

type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testPrefs() types.UserPreferences {
	return types.UserPreferences{
		Origin:       "台北",
		Destination:  "東京",
		Duration:     3,
		BudgetAmount: 30000,
		TravelStyle:  "Foodie",
		Companions:   "Couple",
		Interests:    []string{"美食", "歷史"},
	}
}

const validItineraryJSON = `{
	"destination": "東京",
	"tripName": "東京三日美食散策",
	"summary": "三天的東京美食與歷史之旅。",
	"estimatedTransportCost": "NT$12,000",
	"totalEstimatedCost": "NT$28,500",
	"days": [
		{"day": 1, "title": "淺草老街", "theme": "歷史", "activities": [
			{"time": "09:00", "activity": "淺草寺", "description": "參拜雷門與仲見世通", "location": "台東區淺草", "type": "sightseeing", "estimatedCost": "NT$0"}
		]},
		{"day": 2, "title": "築地市場", "theme": "美食", "activities": [
			{"time": "08:00", "activity": "築地場外市場", "description": "海鮮早餐", "location": "中央區築地", "type": "food", "estimatedCost": "NT$600"}
		]},
		{"day": 3, "title": "澀谷購物", "theme": "購物", "activities": [
			{"time": "10:00", "activity": "澀谷十字路口", "description": "逛街與伴手禮", "location": "澀谷區", "type": "shopping"}
		]}
	]
}`

func TestGenerateItinerary_Success(t *testing.T) {
	appmetrics.InitAppMetrics()
	mockAI := new(MockAIClient)
	svc := NewService(mockAI, 0, testLogger())

	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(validItineraryJSON, nil).Once()

	start := time.Now()
	it, err := svc.GenerateItinerary(context.Background(), testPrefs())
	require.NoError(t, err)
	require.NotNil(t, it)

	assert.NotEqual(t, "", it.ID.String())
	assert.Len(t, it.Days, 3)
	assert.Equal(t, "東京", it.Destination)
	assert.Equal(t, "NT$12,000", it.EstimatedTransportCost)
	assert.False(t, it.CreatedAt.Before(start))
	mockAI.AssertExpectations(t)
}

func TestGenerateItinerary_FenceWrappedResponse(t *testing.T) {
	appmetrics.InitAppMetrics()
	mockAI := new(MockAIClient)
	svc := NewService(mockAI, 0, testLogger())

	wrapped := "```json\n" + validItineraryJSON + "\n```\n以上是您的行程！"
	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(wrapped, nil).Once()

	it, err := svc.GenerateItinerary(context.Background(), testPrefs())
	require.NoError(t, err)
	assert.Len(t, it.Days, 3)
}

func TestGenerateItinerary_ProviderError(t *testing.T) {
	appmetrics.InitAppMetrics()
	mockAI := new(MockAIClient)
	svc := NewService(mockAI, 0, testLogger())

	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("network down")).Once()

	it, err := svc.GenerateItinerary(context.Background(), testPrefs())
	assert.Nil(t, it)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateItinerary_EmptyResponse(t *testing.T) {
	appmetrics.InitAppMetrics()
	mockAI := new(MockAIClient)
	svc := NewService(mockAI, 0, testLogger())

	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", nil).Once()

	it, err := svc.GenerateItinerary(context.Background(), testPrefs())
	assert.Nil(t, it)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateItinerary_UnparsableResponse(t *testing.T) {
	appmetrics.InitAppMetrics()
	mockAI := new(MockAIClient)
	svc := NewService(mockAI, 0, testLogger())

	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("抱歉，我無法生成行程。", nil).Once()

	it, err := svc.GenerateItinerary(context.Background(), testPrefs())
	assert.Nil(t, it)
	assert.ErrorIs(t, err, ErrUnparsableItinerary)
}

func TestGenerateItinerary_RejectsEmptyDays(t *testing.T) {
	appmetrics.InitAppMetrics()
	mockAI := new(MockAIClient)
	svc := NewService(mockAI, 0, testLogger())

	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"destination":"東京","tripName":"空行程","summary":"無","days":[]}`, nil).Once()

	it, err := svc.GenerateItinerary(context.Background(), testPrefs())
	assert.Nil(t, it)
	assert.ErrorIs(t, err, ErrUnparsableItinerary)
}

func TestGenerateItinerary_RejectsUnknownActivityType(t *testing.T) {
	appmetrics.InitAppMetrics()
	mockAI := new(MockAIClient)
	svc := NewService(mockAI, 0, testLogger())

	payload := `{"destination":"東京","tripName":"測試","summary":"測試","days":[
		{"day":1,"title":"第一天","activities":[
			{"time":"09:00","activity":"某活動","description":"描述","location":"某地","type":"flying"}
		]}
	]}`
	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(payload, nil).Once()

	it, err := svc.GenerateItinerary(context.Background(), testPrefs())
	assert.Nil(t, it)
	assert.ErrorIs(t, err, ErrUnparsableItinerary)
}

func TestGetItineraryPrompt_Deterministic(t *testing.T) {
	prefs := testPrefs()
	first := GetItineraryPrompt(prefs)
	second := GetItineraryPrompt(prefs)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "台北")
	assert.Contains(t, first, "東京")
	assert.Contains(t, first, "3 天")
	assert.Contains(t, first, "NT$30000")
}

func TestGetItineraryPrompt_SentinelForMissingFields(t *testing.T) {
	prefs := types.UserPreferences{
		Origin:      "台北",
		Destination: "東京",
		Duration:    2,
	}
	prompt := GetItineraryPrompt(prefs)
	// Omitted optional fields render explicitly instead of being dropped.
	assert.Contains(t, prompt, "交通偏好: 無")
	assert.Contains(t, prompt, "飲食限制: 無")
	assert.Contains(t, prompt, "特別興趣: 無")
}
