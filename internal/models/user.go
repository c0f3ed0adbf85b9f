package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleDeveloper UserRole = "developer"
	RoleFMStaff   UserRole = "fm_staff"
	RoleOrganizer UserRole = "organizer"
	RoleUser      UserRole = "user"
)

// RoleHierarchy orders roles by privilege. Index 0 is the most privileged
// role; a smaller index always means more access. Comparison helpers below
// depend on this ordering being authoritative.
var RoleHierarchy = []UserRole{
	RoleAdmin,
	RoleDeveloper,
	RoleFMStaff,
	RoleOrganizer,
	RoleUser,
}

// Permission names checked throughout the application
const (
	PermissionManageEvents        = "manage_events"
	PermissionManageVenues        = "manage_venues"
	PermissionManageArtists       = "manage_artists"
	PermissionManageOrganizations = "manage_organizations"
	PermissionManageOrders        = "manage_orders"
	PermissionViewAnalytics       = "view_analytics"
	PermissionModerateContent     = "moderate_content"
	PermissionViewErrorLog        = "view_error_log"
)

// rolePermissions maps each role to the permissions it grants. Higher
// privileged roles are granted everything below them explicitly so the
// table reads as the single source of truth.
var rolePermissions = map[UserRole][]string{
	RoleAdmin: {
		PermissionManageEvents, PermissionManageVenues, PermissionManageArtists,
		PermissionManageOrganizations, PermissionManageOrders,
		PermissionViewAnalytics, PermissionModerateContent, PermissionViewErrorLog,
	},
	RoleDeveloper: {
		PermissionManageEvents, PermissionManageVenues, PermissionManageArtists,
		PermissionViewAnalytics, PermissionViewErrorLog,
	},
	RoleFMStaff: {
		PermissionManageEvents, PermissionManageArtists,
		PermissionViewAnalytics, PermissionModerateContent, PermissionViewErrorLog,
	},
	RoleOrganizer: {
		PermissionManageEvents, PermissionViewAnalytics,
	},
	RoleUser: {},
}

// User represents a user in the system
type User struct {
	ID           int        `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	DisplayName  string     `json:"display_name" db:"display_name"`
	Role         UserRole   `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// UserCreateRequest represents the data needed to create a new user
type UserCreateRequest struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	DisplayName string   `json:"display_name"`
	Role        UserRole `json:"role"`
}

// UserUpdateRequest represents the data that can be updated for a user
type UserUpdateRequest struct {
	DisplayName string   `json:"display_name"`
	Role        UserRole `json:"role"`
	IsActive    bool     `json:"is_active"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// roleIndex returns the position of a role in the hierarchy, or -1 if the
// role is unknown.
func roleIndex(role UserRole) int {
	for i, r := range RoleHierarchy {
		if r == role {
			return i
		}
	}
	return -1
}

// RoleAtLeast reports whether role carries at least the privilege of
// minRole. Unknown roles never qualify.
func RoleAtLeast(role, minRole UserRole) bool {
	ri := roleIndex(role)
	mi := roleIndex(minRole)
	if ri < 0 || mi < 0 {
		return false
	}
	return mi >= ri
}

// HasRole reports whether the user holds exactly the given role.
func (u *User) HasRole(role UserRole) bool {
	return u.Role == role
}

// HasRoleAtLeast reports whether the user's role meets or exceeds minRole
// on the hierarchy.
func (u *User) HasRoleAtLeast(minRole UserRole) bool {
	return RoleAtLeast(u.Role, minRole)
}

// HasPermission reports whether the user's role grants the named permission.
func (u *User) HasPermission(permission string) bool {
	for _, p := range rolePermissions[u.Role] {
		if p == permission {
			return true
		}
	}
	return false
}

// IsStaff reports whether the user belongs to the operational staff roles
// that receive error notifications.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleDeveloper || u.Role == RoleFMStaff
}

// Validate validates the user data
func (u *User) Validate() error {
	if err := validateEmail(u.Email); err != nil {
		return err
	}

	if err := validateDisplayName(u.DisplayName); err != nil {
		return err
	}

	return validateRole(u.Role)
}

// Validate validates user creation data
func (req *UserCreateRequest) Validate() error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}

	if err := validatePassword(req.Password); err != nil {
		return err
	}

	if err := validateDisplayName(req.DisplayName); err != nil {
		return err
	}

	return validateRole(req.Role)
}

// Validate validates user update data
func (req *UserUpdateRequest) Validate() error {
	if err := validateDisplayName(req.DisplayName); err != nil {
		return err
	}

	return validateRole(req.Role)
}

// validateEmail validates an email address
func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}

	if len(email) > 255 {
		return errors.New("email must be less than 255 characters")
	}

	if !emailRegex.MatchString(email) {
		return errors.New("email format is invalid")
	}

	return nil
}

// validatePassword validates a plaintext password before hashing
func validatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if len(password) > 128 {
		return errors.New("password must be less than 128 characters")
	}

	return nil
}

// validateDisplayName validates a user's display name
func validateDisplayName(name string) error {
	if name == "" {
		return errors.New("display name is required")
	}

	if len(name) > 100 {
		return errors.New("display name must be less than 100 characters")
	}

	if strings.TrimSpace(name) == "" {
		return errors.New("display name cannot be only whitespace")
	}

	return nil
}

// validateRole validates a user role
func validateRole(role UserRole) error {
	if roleIndex(role) < 0 {
		return errors.New("invalid user role")
	}
	return nil
}
