package nearby

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appmetrics "github.com/voyageai/go-trip-planner/app/observability/metrics"
	"github.com/voyageai/go-trip-planner/internal/api/history"
	"github.com/voyageai/go-trip-planner/internal/types"
)

type MockNearbyService struct {
	mock.Mock
}

func (m *MockNearbyService) SearchNearby(ctx context.Context, location, radius string) ([]types.NearbyPlace, error) {
	args := m.Called(ctx, location, radius)
	places, _ := args.Get(0).([]types.NearbyPlace)
	return places, args.Error(1)
}

func (m *MockNearbyService) ResolveLocation(ctx context.Context, lat, lon float64) string {
	args := m.Called(ctx, lat, lon)
	return args.String(0)
}

func newTestHandler(t *testing.T, svc Service) (*Handler, *history.Service) {
	t.Helper()
	appmetrics.InitAppMetrics()
	hist := history.NewService(context.Background(), history.NewMemoryStore(), testLogger())
	return NewHandler(svc, hist, testLogger()), hist
}

func TestSearchHandler_RecordsHistoryOnSuccess(t *testing.T) {
	svc := new(MockNearbyService)
	h, hist := newTestHandler(t, svc)

	svc.On("SearchNearby", mock.Anything, "西門町", "500m").
		Return([]types.NearbyPlace{{Name: "阿宗麵線", Type: types.PlaceRestaurant}}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/nearby/search",
		strings.NewReader(`{"location":"西門町","radius":"500m"}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got types.SearchRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "西門町", got.LocationName)
	assert.Equal(t, "500m", got.Radius)
	require.Len(t, got.Results, 1)

	require.Len(t, hist.Searches(), 1)
	assert.Equal(t, got.ID, hist.Searches()[0].ID)
}

func TestSearchHandler_RejectsMissingLocation(t *testing.T) {
	h, _ := newTestHandler(t, new(MockNearbyService))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/nearby/search",
		strings.NewReader(`{"radius":"1km"}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHandler_RejectsUnknownRadius(t *testing.T) {
	h, _ := newTestHandler(t, new(MockNearbyService))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/nearby/search",
		strings.NewReader(`{"location":"西門町","radius":"2km"}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "100m")
}

func TestSearchHandler_DefaultsRadius(t *testing.T) {
	svc := new(MockNearbyService)
	h, _ := newTestHandler(t, svc)

	svc.On("SearchNearby", mock.Anything, "西門町", types.DefaultRadius).
		Return([]types.NearbyPlace{}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/nearby/search",
		strings.NewReader(`{"location":"西門町"}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestSearchHandler_ResolvesCoordinates(t *testing.T) {
	svc := new(MockNearbyService)
	h, _ := newTestHandler(t, svc)

	svc.On("ResolveLocation", mock.Anything, 25.0421, 121.5081).
		Return("台北市萬華區").Once()
	svc.On("SearchNearby", mock.Anything, "台北市萬華區", "1km").
		Return([]types.NearbyPlace{}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/nearby/search",
		strings.NewReader(`{"latitude":25.0421,"longitude":121.5081,"radius":"1km"}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDeleteRecordHandler_Idempotent(t *testing.T) {
	h, _ := newTestHandler(t, new(MockNearbyService))

	r := chi.NewRouter()
	r.Delete("/nearby/history/{recordID}", h.DeleteRecord)

	target := fmt.Sprintf("/nearby/history/%s", uuid.New())
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, target, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestDeleteRecordHandler_RejectsMalformedID(t *testing.T) {
	h, _ := newTestHandler(t, new(MockNearbyService))

	r := chi.NewRouter()
	r.Delete("/nearby/history/{recordID}", h.DeleteRecord)

	req := httptest.NewRequest(http.MethodDelete, "/nearby/history/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
