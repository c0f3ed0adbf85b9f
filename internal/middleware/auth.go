package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"

	"stagepass/internal/models"
	"stagepass/internal/services"
	"stagepass/internal/utils"
)

type contextKey string

// UserContextKey is the request context key the current user is stored
// under.
const UserContextKey contextKey = "user"

const sessionName = "stagepass_session"

// AuthMiddleware loads the current user from the session and enforces
// role requirements.
type AuthMiddleware struct {
	authService *services.AuthService
	store       sessions.Store
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService *services.AuthService, store sessions.Store) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		store:       store,
	}
}

// LoadUser resolves the session's user and stores it in the request
// context. Requests without a valid session continue anonymously.
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, sessionName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := sessionUserID(session)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.authService.GetUser(userID)
		if err != nil || !user.IsActive {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without an authenticated user
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			utils.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects requests from users below the required role
func (m *AuthMiddleware) RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				utils.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !user.HasRoleAtLeast(role) {
				utils.WriteError(w, http.StatusForbidden, "insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff rejects requests from non-staff users
func (m *AuthMiddleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			utils.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsStaff() {
			utils.WriteError(w, http.StatusForbidden, "insufficient privileges")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user, or nil
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}

// SignIn writes the user's ID into a fresh session
func (m *AuthMiddleware) SignIn(w http.ResponseWriter, r *http.Request, user *models.User) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values["user_id"] = user.ID
	return session.Save(r, w)
}

// SignOut clears the session
func (m *AuthMiddleware) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// sessionUserID extracts the user id from session values. Session
// back ends sometimes round-trip ints through other types.
func sessionUserID(session *sessions.Session) (int, bool) {
	raw, exists := session.Values["user_id"]
	if !exists {
		return 0, false
	}

	switch v := raw.(type) {
	case int:
		return v, v != 0
	case int64:
		return int(v), v != 0
	case float64:
		return int(v), v != 0
	case string:
		id, err := strconv.Atoi(v)
		return id, err == nil && id != 0
	default:
		return 0, false
	}
}
