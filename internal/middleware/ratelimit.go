package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"stagepass/internal/utils"
)

// LoginRateLimiter provides rate limiting specifically for login attempts
type LoginRateLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.RWMutex
	maxAttempts int
	window      time.Duration
}

// NewLoginRateLimiter creates a new login rate limiter
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
	}

	go rl.cleanup()

	return rl
}

// IsAllowed checks if a login attempt from the given IP is allowed
func (rl *LoginRateLimiter) IsAllowed(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := time.Now().Add(-rl.window)

	var validAttempts []time.Time
	for _, attempt := range rl.attempts[ip] {
		if attempt.After(cutoff) {
			validAttempts = append(validAttempts, attempt)
		}
	}

	if len(validAttempts) >= rl.maxAttempts {
		return false
	}

	rl.attempts[ip] = validAttempts

	return true
}

// RecordAttempt records a login attempt for the given IP
func (rl *LoginRateLimiter) RecordAttempt(ip string) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.attempts[ip] = append(rl.attempts[ip], time.Now())
}

// GetTimeUntilAllowed returns the time until the next login attempt is allowed
func (rl *LoginRateLimiter) GetTimeUntilAllowed(ip string) time.Duration {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	attempts := rl.attempts[ip]
	if len(attempts) < rl.maxAttempts {
		return 0
	}

	now := time.Now()
	cutoff := now.Add(-rl.window)

	for _, attempt := range attempts {
		if attempt.After(cutoff) {
			return attempt.Add(rl.window).Sub(now)
		}
	}

	return 0
}

// cleanup removes old entries periodically
func (rl *LoginRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		cutoff := time.Now().Add(-rl.window)

		for ip, attempts := range rl.attempts {
			var validAttempts []time.Time
			for _, attempt := range attempts {
				if attempt.After(cutoff) {
					validAttempts = append(validAttempts, attempt)
				}
			}

			if len(validAttempts) == 0 {
				delete(rl.attempts, ip)
			} else {
				rl.attempts[ip] = validAttempts
			}
		}
		rl.mutex.Unlock()
	}
}

// LoginRateLimit provides rate limiting middleware for login endpoints
func LoginRateLimit(rateLimiter *LoginRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only POST requests count as login attempts
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)

			if !rateLimiter.IsAllowed(ip) {
				retryAfter := rateLimiter.GetTimeUntilAllowed(ip)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
				utils.WriteError(w, http.StatusTooManyRequests, "too many login attempts, please try again later")
				return
			}

			defer rateLimiter.RecordAttempt(ip)

			next.ServeHTTP(w, r)
		})
	}
}
