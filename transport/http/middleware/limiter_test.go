package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"donorlink/config"
	"donorlink/infras/otel/mocks"
	cacheMocks "donorlink/shared/cache/mocks"
	"donorlink/shared/constant"
	"donorlink/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newLimitedHandler(t *testing.T, enable bool) (http.Handler, *cacheMocks.MockRedisCache, *bool) {
	t.Helper()

	ctrl := gomock.NewController(t)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true

		w.WriteHeader(http.StatusOK)
	})

	app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache)

	return app.RateLimit()(next), cache, &reached
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		count         int64
		err           error
		wantStatus    int
		wantReached   bool
		wantRemaining string
	}{
		{name: "first request", count: 1, wantStatus: http.StatusOK, wantReached: true, wantRemaining: "1"},
		{name: "last allowed request", count: 2, wantStatus: http.StatusOK, wantReached: true, wantRemaining: "0"},
		{name: "over the limit", count: 3, wantStatus: http.StatusTooManyRequests, wantReached: false, wantRemaining: "0"},
		{name: "cache down lets the request through", err: errors.New("connection refused"), wantStatus: http.StatusOK, wantReached: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, cache, reached := newLimitedHandler(t, true)

			cache.EXPECT().
				Increment(gomock.Any(), "ratelimit:10.0.0.1:tests", 60).
				Return(tt.count, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/v1/centers", nil)
			req.Header.Set(constant.RequestHeaderForwardedFor, "10.0.0.1, 172.16.0.1")
			req.Header.Set(constant.RequestHeaderUserAgent, "tests")

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantReached, *reached)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	handler, _, reached := newLimitedHandler(t, false)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/centers", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}
