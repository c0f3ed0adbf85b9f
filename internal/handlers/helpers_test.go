package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/models"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", models.ErrUnauthorized, http.StatusForbidden},
		{"event not found", models.ErrEventNotFound, http.StatusNotFound},
		{"hold not found", models.ErrHoldNotFound, http.StatusNotFound},
		{"invalid input", models.ErrInvalidInput, http.StatusBadRequest},
		{"duplicate", models.ErrDuplicateEntry, http.StatusConflict},
		{"insufficient inventory", models.ErrInsufficientInventory, http.StatusConflict},
		{"hold expired", models.ErrHoldExpired, http.StatusGone},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestWriteServiceError_WrappedError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, stubWrap{models.ErrTierNotFound})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteServiceError_ValidationFailure(t *testing.T) {
	// Repositories wrap request validation failures in ErrInvalidInput,
	// which must reach the client as a 400, not a 500
	err := fmt.Errorf("%w: %v", models.ErrInvalidInput, errors.New("quantity must be greater than zero"))

	rec := httptest.NewRecorder()
	writeServiceError(rec, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "quantity must be greater than zero")
}

type stubWrap struct{ inner error }

func (w stubWrap) Error() string { return "wrapped: " + w.inner.Error() }
func (w stubWrap) Unwrap() error { return w.inner }

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
	var dst payload
	require.NoError(t, decodeJSON(httptest.NewRecorder(), req, &dst))
	assert.Equal(t, "ok", dst.Name)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok","bogus":1}`))
	var dst payload
	assert.Error(t, decodeJSON(httptest.NewRecorder(), req, &dst))
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=50&offset=10", nil)
	limit, offset := parsePagination(req)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 10, offset)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	limit, offset = parsePagination(req)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	// Values outside the accepted range fall back to defaults
	req = httptest.NewRequest(http.MethodGet, "/?limit=5000&offset=-3", nil)
	limit, offset = parsePagination(req)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)
}

func TestURLQueryID(t *testing.T) {
	id, err := urlQueryID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = urlQueryID("abc")
	assert.Error(t, err)

	_, err = urlQueryID("0")
	assert.Error(t, err)
}
