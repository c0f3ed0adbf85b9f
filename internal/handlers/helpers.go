package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stagepass/internal/models"
	"stagepass/internal/utils"
)

const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into dst, rejecting unknown
// fields and oversized bodies.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// urlParamID parses a numeric chi URL parameter
func urlParamID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// urlQueryID parses a numeric query-string value
func urlQueryID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parsePagination parses limit/offset query parameters with defaults
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// writeServiceError maps service errors to HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		utils.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrEventNotFound),
		errors.Is(err, models.ErrVenueNotFound),
		errors.Is(err, models.ErrArtistNotFound),
		errors.Is(err, models.ErrOrganizationNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrTicketNotFound),
		errors.Is(err, models.ErrTierNotFound),
		errors.Is(err, models.ErrHoldNotFound),
		errors.Is(err, models.ErrRecordingNotFound),
		errors.Is(err, models.ErrPromoCodeNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidInput):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDuplicateEntry),
		errors.Is(err, models.ErrInsufficientInventory),
		errors.Is(err, models.ErrHoldNotActive):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrHoldExpired):
		utils.WriteError(w, http.StatusGone, err.Error())
	default:
		utils.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// listResponse is the envelope for paginated collections
type listResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}
