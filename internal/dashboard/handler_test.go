package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mindpay/internal/period"
)

type MockService struct{ mock.Mock }

func (m *MockService) Stats(ctx context.Context, providerID *int64, p period.Period) (*Stats, error) {
	args := m.Called(ctx, providerID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	h.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	r := gin.New()
	r.GET("/admin/dashboard", h.GetStats)
	return r
}

func TestHandler_GetStatsDefaultsToCurrentMonth(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	svc.On("Stats", mock.Anything, (*int64)(nil), march).
		Return(&Stats{TotalRevenueCents: 1000, PendingPayoutCents: 700, Approximate: true}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1000), body["total_revenue_cents"])
	assert.Equal(t, float64(700), body["pending_payout_cents"])
	assert.Equal(t, true, body["approximate"])
	svc.AssertExpectations(t)
}

func TestHandler_GetStatsForProviderAndRange(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	want, err := period.New(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	svc.On("Stats", mock.Anything, mock.MatchedBy(func(id *int64) bool { return id != nil && *id == 3 }), want).
		Return(&Stats{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard?provider_id=3&from=2024-02-01&to=2024-02-14", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_GetStatsBadInput(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	for _, path := range []string{
		"/admin/dashboard?provider_id=abc",
		"/admin/dashboard?month=march",
		"/admin/dashboard?from=2024-02-01",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
	svc.AssertNotCalled(t, "Stats", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_GetStatsServiceError(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)
	svc.On("Stats", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
