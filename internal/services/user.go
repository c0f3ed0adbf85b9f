package services

import (
	"fmt"

	"stagepass/internal/models"
)

// UserService handles user profile and role management business logic
type UserService struct {
	userRepo UserRepository
	activity *ActivityService
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, activity *ActivityService) *UserService {
	return &UserService{
		userRepo: userRepo,
		activity: activity,
	}
}

// GetProfile retrieves a user's profile
func (s *UserService) GetProfile(id int) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateProfile updates a user's own display name
func (s *UserService) UpdateProfile(user *models.User, displayName string) (*models.User, error) {
	if user == nil {
		return nil, models.ErrUnauthorized
	}

	return s.userRepo.Update(user.ID, &models.UserUpdateRequest{
		DisplayName: displayName,
		Role:        user.Role,
		IsActive:    user.IsActive,
	})
}

// AssignRole changes a user's platform role, admins only. An admin
// cannot demote themselves, so the platform always keeps at least the
// acting admin.
func (s *UserService) AssignRole(admin *models.User, userID int, role models.UserRole) (*models.User, error) {
	if admin == nil || !admin.HasRole(models.RoleAdmin) {
		return nil, models.ErrUnauthorized
	}

	if admin.ID == userID && role != models.RoleAdmin {
		return nil, fmt.Errorf("admins cannot change their own role")
	}

	target, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.userRepo.Update(userID, &models.UserUpdateRequest{
		DisplayName: target.DisplayName,
		Role:        role,
		IsActive:    target.IsActive,
	})
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&admin.ID, "user.role_change", "user", userID, nil)
	}

	return updated, nil
}

// DeactivateUser disables a user account, admins only
func (s *UserService) DeactivateUser(admin *models.User, userID int) (*models.User, error) {
	if admin == nil || !admin.HasRole(models.RoleAdmin) {
		return nil, models.ErrUnauthorized
	}

	if admin.ID == userID {
		return nil, fmt.Errorf("admins cannot deactivate themselves")
	}

	target, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.userRepo.Update(userID, &models.UserUpdateRequest{
		DisplayName: target.DisplayName,
		Role:        target.Role,
		IsActive:    false,
	})
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&admin.ID, "user.deactivate", "user", userID, nil)
	}

	return updated, nil
}

// ListUsers lists users with pagination, staff only
func (s *UserService) ListUsers(requester *models.User, limit, offset int) ([]*models.User, int, error) {
	if requester == nil || !requester.IsStaff() {
		return nil, 0, models.ErrUnauthorized
	}

	return s.userRepo.List(limit, offset)
}
