package handlers

import (
	"net/http"

	"stagepass/internal/services"
	"stagepass/internal/utils"
)

// ImageHandler handles event poster uploads
type ImageHandler struct {
	imageService *services.ImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// UploadPoster stores a poster image and its resized variants
func (h *ImageHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("poster")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "poster file is required")
		return
	}
	defer file.Close()

	result, err := h.imageService.UploadPoster(r.Context(), file, header.Filename)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, result)
}

// DeletePoster removes a poster and all of its variants
func (h *ImageHandler) DeletePoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Key == "" {
		utils.WriteError(w, http.StatusBadRequest, "poster key is required")
		return
	}

	if err := h.imageService.DeletePoster(r.Context(), req.Key); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to delete poster")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
