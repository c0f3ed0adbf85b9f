package services

import (
	"fmt"
	"time"

	"stagepass/internal/cache"
	"stagepass/internal/models"
)

// OrganizationRepository interface for organization data operations
type OrganizationRepository interface {
	Create(req *models.OrganizationCreateRequest, ownerID int) (*models.Organization, error)
	GetByID(id int) (*models.Organization, error)
	GetBySlug(slug string) (*models.Organization, error)
	Update(id int, req *models.OrganizationUpdateRequest) (*models.Organization, error)
	List(limit, offset int) ([]*models.Organization, int, error)
	AddStaff(organizationID int, req *models.StaffAddRequest, invitedBy int) (*models.OrganizationStaff, error)
	RemoveStaff(organizationID, userID int) error
	UpdateStaffRole(organizationID, userID int, role models.StaffRole) error
	ListStaff(organizationID int) ([]*models.OrganizationStaff, error)
	GetStaffRole(organizationID, userID int) (models.StaffRole, error)
	GetOrganizationsForUser(userID int) ([]*models.Organization, error)
}

// OrganizationService handles organization and staff management business
// logic
type OrganizationService struct {
	orgRepo  OrganizationRepository
	activity *ActivityService
	cache    *cache.Store
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(orgRepo OrganizationRepository, activity *ActivityService, store *cache.Store) *OrganizationService {
	return &OrganizationService{
		orgRepo:  orgRepo,
		activity: activity,
		cache:    store,
	}
}

// CreateOrganization creates an organization with the creator as owner
func (s *OrganizationService) CreateOrganization(user *models.User, req *models.OrganizationCreateRequest) (*models.Organization, error) {
	if user == nil {
		return nil, models.ErrUnauthorized
	}

	if !user.HasRoleAtLeast(models.RoleOrganizer) {
		return nil, models.ErrUnauthorized
	}

	org, err := s.orgRepo.Create(req, user.ID)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "organization.create", "organization", org.ID, nil)
	}

	s.invalidate()
	return org, nil
}

// GetOrganization retrieves an organization by ID
func (s *OrganizationService) GetOrganization(id int) (*models.Organization, error) {
	return s.orgRepo.GetByID(id)
}

// GetOrganizationBySlug retrieves an organization by its URL slug
func (s *OrganizationService) GetOrganizationBySlug(slug string) (*models.Organization, error) {
	return s.orgRepo.GetBySlug(slug)
}

// UpdateOrganization updates an organization, org admins only
func (s *OrganizationService) UpdateOrganization(user *models.User, id int, req *models.OrganizationUpdateRequest) (*models.Organization, error) {
	if err := s.requireOrgAdmin(user, id); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.Update(id, req)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "organization.update", "organization", id, nil)
	}

	s.invalidate()
	return org, nil
}

// ListOrganizations lists organizations with pagination
func (s *OrganizationService) ListOrganizations(limit, offset int) ([]*models.Organization, int, error) {
	return s.orgRepo.List(limit, offset)
}

// GetUserOrganizations lists the organizations a user belongs to
func (s *OrganizationService) GetUserOrganizations(userID int) ([]*models.Organization, error) {
	return s.orgRepo.GetOrganizationsForUser(userID)
}

// IsOrganizationAdmin reports whether the user can administer the
// organization. Platform staff administer every organization; otherwise
// the user must hold the owner or admin staff role.
func (s *OrganizationService) IsOrganizationAdmin(user *models.User, organizationID int) (bool, error) {
	if user == nil {
		return false, nil
	}

	if user.IsStaff() {
		return true, nil
	}

	role, err := s.orgRepo.GetStaffRole(organizationID, user.ID)
	if err != nil {
		if err == models.ErrUserNotFound {
			return false, nil
		}
		return false, err
	}

	return role == models.StaffRoleOwner || role == models.StaffRoleAdmin, nil
}

// IsOrganizationMember reports whether the user belongs to the
// organization in any staff role.
func (s *OrganizationService) IsOrganizationMember(user *models.User, organizationID int) (bool, error) {
	if user == nil {
		return false, nil
	}

	if user.IsStaff() {
		return true, nil
	}

	_, err := s.orgRepo.GetStaffRole(organizationID, user.ID)
	if err != nil {
		if err == models.ErrUserNotFound {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// AddStaff adds a member to an organization's staff, org admins only
func (s *OrganizationService) AddStaff(user *models.User, organizationID int, req *models.StaffAddRequest) (*models.OrganizationStaff, error) {
	if err := s.requireOrgAdmin(user, organizationID); err != nil {
		return nil, err
	}

	if req.Role == models.StaffRoleOwner {
		return nil, fmt.Errorf("ownership cannot be granted through staff management")
	}

	staff, err := s.orgRepo.AddStaff(organizationID, req, user.ID)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "organization.staff_add", "organization", organizationID, nil)
	}

	s.invalidateStaff(organizationID)
	return staff, nil
}

// RemoveStaff removes a member from an organization's staff. The owner
// cannot be removed.
func (s *OrganizationService) RemoveStaff(user *models.User, organizationID, userID int) error {
	if err := s.requireOrgAdmin(user, organizationID); err != nil {
		return err
	}

	role, err := s.orgRepo.GetStaffRole(organizationID, userID)
	if err != nil {
		return err
	}

	if role == models.StaffRoleOwner {
		return fmt.Errorf("the organization owner cannot be removed")
	}

	if err := s.orgRepo.RemoveStaff(organizationID, userID); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "organization.staff_remove", "organization", organizationID, nil)
	}

	s.invalidateStaff(organizationID)
	return nil
}

// UpdateStaffRole changes a staff member's role, org admins only
func (s *OrganizationService) UpdateStaffRole(user *models.User, organizationID, userID int, role models.StaffRole) error {
	if err := s.requireOrgAdmin(user, organizationID); err != nil {
		return err
	}

	if role == models.StaffRoleOwner {
		return fmt.Errorf("ownership cannot be granted through staff management")
	}

	current, err := s.orgRepo.GetStaffRole(organizationID, userID)
	if err != nil {
		return err
	}

	if current == models.StaffRoleOwner {
		return fmt.Errorf("the organization owner's role cannot be changed")
	}

	if err := s.orgRepo.UpdateStaffRole(organizationID, userID, role); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "organization.staff_role", "organization", organizationID, nil)
	}

	s.invalidateStaff(organizationID)
	return nil
}

// ListStaff lists an organization's staff, members only
func (s *OrganizationService) ListStaff(user *models.User, organizationID int) ([]*models.OrganizationStaff, error) {
	member, err := s.IsOrganizationMember(user, organizationID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, models.ErrUnauthorized
	}

	key := cache.OrganizationStaffKey(organizationID)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if staff, ok := cached.([]*models.OrganizationStaff); ok {
				return staff, nil
			}
		}
	}

	staff, err := s.orgRepo.ListStaff(organizationID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, staff, time.Minute)
	}

	return staff, nil
}

func (s *OrganizationService) requireOrgAdmin(user *models.User, organizationID int) error {
	admin, err := s.IsOrganizationAdmin(user, organizationID)
	if err != nil {
		return err
	}
	if !admin {
		return models.ErrUnauthorized
	}
	return nil
}

func (s *OrganizationService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(cache.OrganizationsKey())
	}
}

func (s *OrganizationService) invalidateStaff(organizationID int) {
	if s.cache != nil {
		s.cache.Invalidate(cache.OrganizationStaffKey(organizationID))
	}
}
