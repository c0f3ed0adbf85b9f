package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"stagepass/internal/services"
	"stagepass/internal/utils"
)

// ErrorHandlingMiddleware recovers from panics and records them in the
// activity log. A nil activity service disables recording.
func ErrorHandlingMiddleware(activity *services.ActivityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Printf("PANIC: %v\n%s", err, debug.Stack())

					if activity != nil {
						var userID *int
						if user := UserFromContext(r.Context()); user != nil {
							userID = &user.ID
						}
						details, _ := json.Marshal(map[string]string{
							"method": r.Method,
							"path":   r.URL.Path,
							"panic":  fmt.Sprintf("%v", err),
						})
						activity.LogError(userID, "panic", "request", 0, details)
					}

					utils.WriteError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusNotFound, "resource not found")
	})
}

// MethodNotAllowedHandler handles 405 errors
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, POST, PUT, DELETE, OPTIONS")
		utils.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}
