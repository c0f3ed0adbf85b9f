package handlers

import (
	"net/http"

	"stagepass/internal/middleware"
	"stagepass/internal/models"
	"stagepass/internal/services"
	"stagepass/internal/utils"
)

// RecordingHandler handles recording publication and ratings
type RecordingHandler struct {
	recordingService *services.RecordingService
}

// NewRecordingHandler creates a new recording handler
func NewRecordingHandler(recordingService *services.RecordingService) *RecordingHandler {
	return &RecordingHandler{recordingService: recordingService}
}

// PublishRecording publishes an event recording (staff only)
func (h *RecordingHandler) PublishRecording(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req models.RecordingCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	recording, err := h.recordingService.PublishRecording(user, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, recording)
}

// DeleteRecording removes a recording (staff only)
func (h *RecordingHandler) DeleteRecording(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "recordingID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.recordingService.DeleteRecording(user, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RateRecording submits or updates the requester's rating
func (h *RecordingHandler) RateRecording(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "recordingID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Score   int    `json:"score"`
		Comment string `json:"comment"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rating, err := h.recordingService.RateRecording(user, id, req.Score, req.Comment)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, rating)
}
