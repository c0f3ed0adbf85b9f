package handlers

import (
	"net/http"

	"stagepass/internal/middleware"
	"stagepass/internal/models"
	"stagepass/internal/services"
	"stagepass/internal/utils"
)

// OrganizationHandler handles organizations and their staff rosters
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// CreateOrganization creates an organization owned by the requester
func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req models.OrganizationCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	org, err := h.orgService.CreateOrganization(user, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, org)
}

// GetOrganization returns a single organization
func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "orgID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	org, err := h.orgService.GetOrganization(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, org)
}

// UpdateOrganization updates an organization's details
func (h *OrganizationHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "orgID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.OrganizationUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	org, err := h.orgService.UpdateOrganization(user, id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, org)
}

// ListOrganizations lists organizations
func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	orgs, total, err := h.orgService.ListOrganizations(limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: orgs, Total: total})
}

// MyOrganizations lists organizations the requester belongs to
func (h *OrganizationHandler) MyOrganizations(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	orgs, err := h.orgService.GetUserOrganizations(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: orgs, Total: len(orgs)})
}

// ListStaff lists an organization's staff roster
func (h *OrganizationHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "orgID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	staff, err := h.orgService.ListStaff(user, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: staff, Total: len(staff)})
}

// AddStaff adds a user to an organization's roster
func (h *OrganizationHandler) AddStaff(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "orgID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.StaffAddRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	member, err := h.orgService.AddStaff(user, id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, member)
}

// UpdateStaffRole changes a staff member's role
func (h *OrganizationHandler) UpdateStaffRole(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	orgID, err := urlParamID(r, "orgID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := urlParamID(r, "userID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Role models.StaffRole `json:"role"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orgService.UpdateStaffRole(user, orgID, userID, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveStaff removes a staff member from an organization
func (h *OrganizationHandler) RemoveStaff(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	orgID, err := urlParamID(r, "orgID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := urlParamID(r, "userID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orgService.RemoveStaff(user, orgID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
