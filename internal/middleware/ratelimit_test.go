package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimiter_IsAllowed(t *testing.T) {
	rl := NewLoginRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.IsAllowed("10.0.0.1"))
		rl.RecordAttempt("10.0.0.1")
	}

	assert.False(t, rl.IsAllowed("10.0.0.1"))
	assert.True(t, rl.IsAllowed("10.0.0.2"), "other IPs are not affected")
}

func TestLoginRateLimiter_WindowExpiry(t *testing.T) {
	rl := NewLoginRateLimiter(2, 50*time.Millisecond)

	rl.RecordAttempt("10.0.0.1")
	rl.RecordAttempt("10.0.0.1")
	assert.False(t, rl.IsAllowed("10.0.0.1"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.IsAllowed("10.0.0.1"))
}

func TestLoginRateLimiter_GetTimeUntilAllowed(t *testing.T) {
	rl := NewLoginRateLimiter(1, time.Minute)

	assert.Equal(t, time.Duration(0), rl.GetTimeUntilAllowed("10.0.0.1"))

	rl.RecordAttempt("10.0.0.1")
	wait := rl.GetTimeUntilAllowed("10.0.0.1")
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, time.Minute)
}

func TestLoginRateLimit_Middleware(t *testing.T) {
	rl := NewLoginRateLimiter(2, time.Minute)
	handler := LoginRateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, post().Code)
	assert.Equal(t, http.StatusOK, post().Code)

	rec := post()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestLoginRateLimit_IgnoresGET(t *testing.T) {
	rl := NewLoginRateLimiter(1, time.Minute)
	handler := LoginRateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
