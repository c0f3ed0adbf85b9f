package handlers

import (
	"net/http"

	"stagepass/internal/middleware"
	"stagepass/internal/services"
	"stagepass/internal/utils"
)

// AuthHandler handles registration, login and session management
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	auth        *middleware.AuthMiddleware
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, auth *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		auth:        auth,
	}
}

// Register creates a new account and signs the user in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.auth.SignIn(w, r, user); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, user)
}

// Login authenticates a user and starts a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Login(&req)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := h.auth.SignIn(w, r, user); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	utils.WriteJSON(w, http.StatusOK, user)
}

// Logout clears the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(w, r); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to end session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	utils.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's display name
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.userService.UpdateProfile(user, req.DisplayName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, updated)
}
