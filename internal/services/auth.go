package services

import (
	"fmt"

	"stagepass/internal/models"
	"stagepass/internal/utils"
)

// UserRepository interface for user data operations
type UserRepository interface {
	Create(req *models.UserCreateRequest, passwordHash string) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(id int, req *models.UserUpdateRequest) (*models.User, error)
	RecordLogin(id int) error
	List(limit, offset int) ([]*models.User, int, error)
	ListStaff() ([]*models.User, error)
}

// AuthService handles authentication and authorization business logic
type AuthService struct {
	userRepo UserRepository
	activity *ActivityService
	hash     *utils.PasswordHashConfig
}

// NewAuthService creates a new authentication service. A nil hash
// config falls back to the default Argon2id costs.
func NewAuthService(userRepo UserRepository, activity *ActivityService, hash *utils.PasswordHashConfig) *AuthService {
	if hash == nil {
		hash = utils.DefaultPasswordHashConfig()
	}
	return &AuthService{
		userRepo: userRepo,
		activity: activity,
		hash:     hash,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account with the base user role. Elevated
// roles are only assigned by an admin afterwards.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	createReq := &models.UserCreateRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        models.RoleUser,
	}

	if err := createReq.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	if existing, err := s.userRepo.GetByEmail(req.Email); err == nil && existing != nil {
		return nil, models.ErrDuplicateEntry
	}

	passwordHash, err := s.hash.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(createReq, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "user.register", "user", user.ID, nil)
	}

	return user, nil
}

// Login verifies credentials and returns the authenticated user.
// Invalid email and invalid password both produce ErrUnauthorized so the
// response does not reveal which part was wrong.
func (s *AuthService) Login(req *LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	if !user.IsActive {
		return nil, models.ErrUnauthorized
	}

	ok, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, models.ErrUnauthorized
	}

	if err := s.userRepo.RecordLogin(user.ID); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "user.login", "user", user.ID, nil)
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(id int) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// RequireRole returns ErrUnauthorized unless the user holds a role at
// least as privileged as the required one.
func (s *AuthService) RequireRole(user *models.User, required models.UserRole) error {
	if user == nil {
		return models.ErrUnauthorized
	}

	if !user.HasRoleAtLeast(required) {
		return models.ErrUnauthorized
	}

	return nil
}

// RequirePermission returns ErrUnauthorized unless the user's role grants
// the permission.
func (s *AuthService) RequirePermission(user *models.User, permission string) error {
	if user == nil {
		return models.ErrUnauthorized
	}

	if !user.HasPermission(permission) {
		return models.ErrUnauthorized
	}

	return nil
}
