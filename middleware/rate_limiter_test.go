package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddlewareThrottlesAfterBurst(t *testing.T) {
	handler := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// fresh IP so the test does not share a bucket with other tests
	doRequest := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.77")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 30; i++ {
		assert.Equal(t, http.StatusOK, doRequest())
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest())
}

func TestRateLimitMiddlewareTracksClientsIndependently(t *testing.T) {
	handler := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	exhaust := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	exhaust.Header.Set("X-Forwarded-For", "203.0.113.88")
	for i := 0; i < 31; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), exhaust)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	other.Header.Set("X-Forwarded-For", "203.0.113.99")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, other)
	assert.Equal(t, http.StatusOK, rr.Code)
}
