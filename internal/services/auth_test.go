package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/models"
)

type mockUserRepository struct {
	users  map[int]*models.User
	nextID int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int]*models.User), nextID: 1}
}

func (m *mockUserRepository) Create(req *models.UserCreateRequest, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           m.nextID,
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	m.nextID++
	return user, nil
}

func (m *mockUserRepository) GetByID(id int) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == strings.ToLower(email) {
			return user, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *mockUserRepository) Update(id int, req *models.UserUpdateRequest) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	user.DisplayName = req.DisplayName
	user.Role = req.Role
	user.IsActive = req.IsActive
	return user, nil
}

func (m *mockUserRepository) RecordLogin(id int) error {
	user, ok := m.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (m *mockUserRepository) List(limit, offset int) ([]*models.User, int, error) {
	var users []*models.User
	for i := 1; i < m.nextID; i++ {
		if user, ok := m.users[i]; ok {
			users = append(users, user)
		}
	}
	return users, len(users), nil
}

func (m *mockUserRepository) ListStaff() ([]*models.User, error) {
	var staff []*models.User
	for i := 1; i < m.nextID; i++ {
		if user, ok := m.users[i]; ok && user.IsStaff() && user.IsActive {
			staff = append(staff, user)
		}
	}
	return staff, nil
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewAuthService(repo, nil, nil)

	user, err := svc.Register(&RegisterRequest{
		Email:       "fan@example.com",
		Password:    "correct-horse-battery",
		DisplayName: "Jamie Fan",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "correct-horse-battery", user.PasswordHash)

	loggedIn, err := svc.Login(&LoginRequest{Email: "fan@example.com", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotNil(t, loggedIn.LastLoginAt)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewAuthService(repo, nil, nil)

	_, err := svc.Register(&RegisterRequest{
		Email:       "fan@example.com",
		Password:    "correct-horse-battery",
		DisplayName: "Jamie Fan",
	})
	require.NoError(t, err)

	// Wrong password and unknown email produce the same error
	_, err = svc.Login(&LoginRequest{Email: "fan@example.com", Password: "wrong"})
	assert.Equal(t, models.ErrUnauthorized, err)

	_, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "correct-horse-battery"})
	assert.Equal(t, models.ErrUnauthorized, err)
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewAuthService(repo, nil, nil)

	user, err := svc.Register(&RegisterRequest{
		Email:       "fan@example.com",
		Password:    "correct-horse-battery",
		DisplayName: "Jamie Fan",
	})
	require.NoError(t, err)

	repo.users[user.ID].IsActive = false

	_, err = svc.Login(&LoginRequest{Email: "fan@example.com", Password: "correct-horse-battery"})
	assert.Equal(t, models.ErrUnauthorized, err)
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	svc := NewAuthService(newMockUserRepository(), nil, nil)

	_, err := svc.Register(&RegisterRequest{
		Email:       "not-an-email",
		Password:    "correct-horse-battery",
		DisplayName: "Jamie Fan",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewAuthService(repo, nil, nil)

	_, err := svc.Register(&RegisterRequest{
		Email:       "fan@example.com",
		Password:    "correct-horse-battery",
		DisplayName: "Jamie Fan",
	})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{
		Email:       "fan@example.com",
		Password:    "another-password-1",
		DisplayName: "Imposter",
	})
	assert.Equal(t, models.ErrDuplicateEntry, err)
}

func TestAuthService_RequireRole(t *testing.T) {
	svc := NewAuthService(newMockUserRepository(), nil, nil)

	admin := &models.User{Role: models.RoleAdmin}
	organizer := &models.User{Role: models.RoleOrganizer}

	assert.NoError(t, svc.RequireRole(admin, models.RoleOrganizer))
	assert.NoError(t, svc.RequireRole(organizer, models.RoleOrganizer))
	assert.Equal(t, models.ErrUnauthorized, svc.RequireRole(organizer, models.RoleAdmin))
	assert.Equal(t, models.ErrUnauthorized, svc.RequireRole(nil, models.RoleUser))
}

func TestUserService_AssignRole(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewUserService(repo, nil)

	admin, _ := repo.Create(&models.UserCreateRequest{Email: "admin@example.com", Role: models.RoleAdmin, DisplayName: "Root"}, "hash")
	fan, _ := repo.Create(&models.UserCreateRequest{Email: "fan@example.com", Role: models.RoleUser, DisplayName: "Fan"}, "hash")

	updated, err := svc.AssignRole(admin, fan.ID, models.RoleOrganizer)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, updated.Role)

	// Non-admins cannot assign roles
	_, err = svc.AssignRole(fan, admin.ID, models.RoleUser)
	assert.Equal(t, models.ErrUnauthorized, err)

	// Admins cannot demote themselves
	_, err = svc.AssignRole(admin, admin.ID, models.RoleUser)
	assert.Error(t, err)
}

func TestUserService_DeactivateUser(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewUserService(repo, nil)

	admin, _ := repo.Create(&models.UserCreateRequest{Email: "admin@example.com", Role: models.RoleAdmin, DisplayName: "Root"}, "hash")
	fan, _ := repo.Create(&models.UserCreateRequest{Email: "fan@example.com", Role: models.RoleUser, DisplayName: "Fan"}, "hash")

	_, err := svc.DeactivateUser(admin, admin.ID)
	assert.Error(t, err)

	updated, err := svc.DeactivateUser(admin, fan.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}
