package models

import (
	"errors"
	"strings"
	"time"
)

// StaffRole represents the role of a staff member within an organization
type StaffRole string

const (
	StaffRoleOwner   StaffRole = "owner"
	StaffRoleAdmin   StaffRole = "admin"
	StaffRoleManager StaffRole = "manager"
	StaffRoleMember  StaffRole = "member"
)

// Organization represents an event-producing organization
type Organization struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Description  string    `json:"description" db:"description"`
	ContactEmail string    `json:"contact_email" db:"contact_email"`
	LogoURL      string    `json:"logo_url" db:"logo_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// OrganizationStaff represents a user's membership in an organization
type OrganizationStaff struct {
	ID             int       `json:"id" db:"id"`
	OrganizationID int       `json:"organization_id" db:"organization_id"`
	UserID         int       `json:"user_id" db:"user_id"`
	Role           StaffRole `json:"role" db:"role"`
	InvitedBy      *int      `json:"invited_by,omitempty" db:"invited_by"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	// Related data
	User *User `json:"user,omitempty"`
}

// OrganizationCreateRequest represents the data needed to create an organization
type OrganizationCreateRequest struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email"`
	LogoURL      string `json:"logo_url"`
}

// OrganizationUpdateRequest represents the data that can be updated for an organization
type OrganizationUpdateRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email"`
	LogoURL      string `json:"logo_url"`
}

// StaffAddRequest represents a request to add a staff member to an organization
type StaffAddRequest struct {
	UserID int       `json:"user_id"`
	Role   StaffRole `json:"role"`
}

// IsAdmin reports whether the staff member can administer the organization.
// Owners and admins both qualify.
func (s *OrganizationStaff) IsAdmin() bool {
	return s.Role == StaffRoleOwner || s.Role == StaffRoleAdmin
}

// Validate validates organization creation data
func (req *OrganizationCreateRequest) Validate() error {
	if err := validateOrganizationName(req.Name); err != nil {
		return err
	}

	if err := validateSlug(req.Slug); err != nil {
		return err
	}

	if req.ContactEmail != "" {
		return validateEmail(req.ContactEmail)
	}

	return nil
}

// Validate validates organization update data
func (req *OrganizationUpdateRequest) Validate() error {
	if err := validateOrganizationName(req.Name); err != nil {
		return err
	}

	if req.ContactEmail != "" {
		return validateEmail(req.ContactEmail)
	}

	return nil
}

// Validate validates a staff addition request
func (req *StaffAddRequest) Validate() error {
	if req.UserID <= 0 {
		return errors.New("user id is required")
	}

	return validateStaffRole(req.Role)
}

// validateOrganizationName validates an organization name
func validateOrganizationName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("organization name is required")
	}

	if len(name) > 255 {
		return errors.New("organization name must be less than 255 characters")
	}

	return nil
}

// validateSlug validates a URL slug
func validateSlug(slug string) error {
	if slug == "" {
		return errors.New("organization slug is required")
	}

	if len(slug) > 100 {
		return errors.New("organization slug must be less than 100 characters")
	}

	for _, c := range slug {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return errors.New("organization slug may only contain lowercase letters, digits and hyphens")
		}
	}

	return nil
}

// validateStaffRole validates an organization staff role
func validateStaffRole(role StaffRole) error {
	switch role {
	case StaffRoleOwner, StaffRoleAdmin, StaffRoleManager, StaffRoleMember:
		return nil
	default:
		return errors.New("invalid staff role")
	}
}
