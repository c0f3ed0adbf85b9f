package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/models"
)

type staffKey struct {
	orgID  int
	userID int
}

type mockOrganizationRepository struct {
	orgs       map[int]*models.Organization
	staffRoles map[staffKey]models.StaffRole
	nextID     int
}

func newMockOrganizationRepository() *mockOrganizationRepository {
	return &mockOrganizationRepository{
		orgs:       map[int]*models.Organization{1: {ID: 1, Name: "Warehouse Collective", Slug: "warehouse"}},
		staffRoles: make(map[staffKey]models.StaffRole),
		nextID:     2,
	}
}

func (m *mockOrganizationRepository) Create(req *models.OrganizationCreateRequest, ownerID int) (*models.Organization, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	org := &models.Organization{ID: m.nextID, Name: req.Name, Slug: req.Slug}
	m.orgs[org.ID] = org
	m.staffRoles[staffKey{orgID: org.ID, userID: ownerID}] = models.StaffRoleOwner
	m.nextID++
	return org, nil
}

func (m *mockOrganizationRepository) GetByID(id int) (*models.Organization, error) {
	org, ok := m.orgs[id]
	if !ok {
		return nil, models.ErrOrganizationNotFound
	}
	return org, nil
}

func (m *mockOrganizationRepository) GetBySlug(slug string) (*models.Organization, error) {
	for _, org := range m.orgs {
		if org.Slug == slug {
			return org, nil
		}
	}
	return nil, models.ErrOrganizationNotFound
}

func (m *mockOrganizationRepository) Update(id int, req *models.OrganizationUpdateRequest) (*models.Organization, error) {
	org, ok := m.orgs[id]
	if !ok {
		return nil, models.ErrOrganizationNotFound
	}
	org.Name = req.Name
	return org, nil
}

func (m *mockOrganizationRepository) List(limit, offset int) ([]*models.Organization, int, error) {
	var orgs []*models.Organization
	for _, org := range m.orgs {
		orgs = append(orgs, org)
	}
	return orgs, len(orgs), nil
}

func (m *mockOrganizationRepository) AddStaff(organizationID int, req *models.StaffAddRequest, invitedBy int) (*models.OrganizationStaff, error) {
	key := staffKey{orgID: organizationID, userID: req.UserID}
	if _, exists := m.staffRoles[key]; exists {
		return nil, models.ErrDuplicateEntry
	}
	m.staffRoles[key] = req.Role
	return &models.OrganizationStaff{OrganizationID: organizationID, UserID: req.UserID, Role: req.Role}, nil
}

func (m *mockOrganizationRepository) RemoveStaff(organizationID, userID int) error {
	key := staffKey{orgID: organizationID, userID: userID}
	if _, exists := m.staffRoles[key]; !exists {
		return models.ErrUserNotFound
	}
	delete(m.staffRoles, key)
	return nil
}

func (m *mockOrganizationRepository) UpdateStaffRole(organizationID, userID int, role models.StaffRole) error {
	key := staffKey{orgID: organizationID, userID: userID}
	if _, exists := m.staffRoles[key]; !exists {
		return models.ErrUserNotFound
	}
	m.staffRoles[key] = role
	return nil
}

func (m *mockOrganizationRepository) ListStaff(organizationID int) ([]*models.OrganizationStaff, error) {
	var staff []*models.OrganizationStaff
	for key, role := range m.staffRoles {
		if key.orgID == organizationID {
			staff = append(staff, &models.OrganizationStaff{
				OrganizationID: organizationID,
				UserID:         key.userID,
				Role:           role,
			})
		}
	}
	return staff, nil
}

func (m *mockOrganizationRepository) GetStaffRole(organizationID, userID int) (models.StaffRole, error) {
	role, ok := m.staffRoles[staffKey{orgID: organizationID, userID: userID}]
	if !ok {
		return "", models.ErrUserNotFound
	}
	return role, nil
}

func (m *mockOrganizationRepository) GetOrganizationsForUser(userID int) ([]*models.Organization, error) {
	var orgs []*models.Organization
	for key := range m.staffRoles {
		if key.userID == userID {
			if org, ok := m.orgs[key.orgID]; ok {
				orgs = append(orgs, org)
			}
		}
	}
	return orgs, nil
}

func TestOrganizationService_IsOrganizationAdmin(t *testing.T) {
	orgRepo := newMockOrganizationRepository()
	orgRepo.staffRoles[staffKey{orgID: 1, userID: 10}] = models.StaffRoleOwner
	orgRepo.staffRoles[staffKey{orgID: 1, userID: 11}] = models.StaffRoleAdmin
	orgRepo.staffRoles[staffKey{orgID: 1, userID: 12}] = models.StaffRoleManager
	orgRepo.staffRoles[staffKey{orgID: 1, userID: 13}] = models.StaffRoleMember

	svc := NewOrganizationService(orgRepo, nil, nil)

	tests := []struct {
		name  string
		user  *models.User
		admin bool
	}{
		{"owner", &models.User{ID: 10, Role: models.RoleOrganizer}, true},
		{"org admin", &models.User{ID: 11, Role: models.RoleOrganizer}, true},
		{"manager", &models.User{ID: 12, Role: models.RoleOrganizer}, false},
		{"member", &models.User{ID: 13, Role: models.RoleOrganizer}, false},
		{"outsider", &models.User{ID: 99, Role: models.RoleOrganizer}, false},
		{"platform staff", &models.User{ID: 50, Role: models.RoleFMStaff}, true},
		{"platform admin", &models.User{ID: 51, Role: models.RoleAdmin}, true},
		{"nil user", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin, err := svc.IsOrganizationAdmin(tt.user, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.admin, admin)
		})
	}
}

func TestOrganizationService_CreateOrganization(t *testing.T) {
	orgRepo := newMockOrganizationRepository()
	svc := NewOrganizationService(orgRepo, nil, nil)

	fan := &models.User{ID: 5, Role: models.RoleUser}
	_, err := svc.CreateOrganization(fan, &models.OrganizationCreateRequest{Name: "Fan Club", Slug: "fan-club"})
	assert.Equal(t, models.ErrUnauthorized, err)

	organizer := &models.User{ID: 6, Role: models.RoleOrganizer}
	org, err := svc.CreateOrganization(organizer, &models.OrganizationCreateRequest{Name: "Night Shift", Slug: "night-shift"})
	require.NoError(t, err)

	// The creator becomes the owner
	role, err := orgRepo.GetStaffRole(org.ID, organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StaffRoleOwner, role)
}

func TestOrganizationService_StaffManagement(t *testing.T) {
	orgRepo := newMockOrganizationRepository()
	orgRepo.staffRoles[staffKey{orgID: 1, userID: 10}] = models.StaffRoleOwner

	svc := NewOrganizationService(orgRepo, nil, nil)
	owner := &models.User{ID: 10, Role: models.RoleOrganizer}

	_, err := svc.AddStaff(owner, 1, &models.StaffAddRequest{UserID: 20, Role: models.StaffRoleManager})
	require.NoError(t, err)

	// Ownership cannot be handed out through staff management
	_, err = svc.AddStaff(owner, 1, &models.StaffAddRequest{UserID: 21, Role: models.StaffRoleOwner})
	assert.Error(t, err)
	err = svc.UpdateStaffRole(owner, 1, 20, models.StaffRoleOwner)
	assert.Error(t, err)

	// The owner cannot be removed or demoted
	err = svc.RemoveStaff(owner, 1, 10)
	assert.Error(t, err)
	err = svc.UpdateStaffRole(owner, 1, 10, models.StaffRoleMember)
	assert.Error(t, err)

	// A manager cannot manage staff
	manager := &models.User{ID: 20, Role: models.RoleOrganizer}
	_, err = svc.AddStaff(manager, 1, &models.StaffAddRequest{UserID: 22, Role: models.StaffRoleMember})
	assert.Equal(t, models.ErrUnauthorized, err)

	require.NoError(t, svc.UpdateStaffRole(owner, 1, 20, models.StaffRoleAdmin))

	// Promoted to admin, the same user can now add staff
	_, err = svc.AddStaff(manager, 1, &models.StaffAddRequest{UserID: 22, Role: models.StaffRoleMember})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveStaff(owner, 1, 22))
}

func TestOrganizationService_ListStaffRequiresMembership(t *testing.T) {
	orgRepo := newMockOrganizationRepository()
	orgRepo.staffRoles[staffKey{orgID: 1, userID: 10}] = models.StaffRoleOwner
	orgRepo.staffRoles[staffKey{orgID: 1, userID: 13}] = models.StaffRoleMember

	svc := NewOrganizationService(orgRepo, nil, nil)

	outsider := &models.User{ID: 99, Role: models.RoleUser}
	_, err := svc.ListStaff(outsider, 1)
	assert.Equal(t, models.ErrUnauthorized, err)

	member := &models.User{ID: 13, Role: models.RoleUser}
	staff, err := svc.ListStaff(member, 1)
	require.NoError(t, err)
	assert.Len(t, staff, 2)
}
