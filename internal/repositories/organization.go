package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"stagepass/internal/models"
)

// OrganizationRepository handles organization and staff data operations
type OrganizationRepository struct {
	db *sql.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

const organizationColumns = `id, name, slug, description, contact_email, logo_url, created_at, updated_at`

func scanOrganization(row interface{ Scan(...interface{}) error }) (*models.Organization, error) {
	org := &models.Organization{}
	err := row.Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.Description,
		&org.ContactEmail,
		&org.LogoURL,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return org, nil
}

// Create creates a new organization and registers the creator as its owner
func (r *OrganizationRepository) Create(req *models.OrganizationCreateRequest, ownerID int) (*models.Organization, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO organizations (name, slug, description, contact_email, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + organizationColumns

	org, err := scanOrganization(tx.QueryRow(query, req.Name, req.Slug, req.Description, req.ContactEmail, req.LogoURL, time.Now()))
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO organization_staff (organization_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)`,
		org.ID, ownerID, models.StaffRoleOwner, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to register organization owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit organization creation: %w", err)
	}

	return org, nil
}

// GetByID retrieves an organization by ID
func (r *OrganizationRepository) GetByID(id int) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`

	org, err := scanOrganization(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return org, nil
}

// GetBySlug retrieves an organization by its slug
func (r *OrganizationRepository) GetBySlug(slug string) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE slug = $1`

	org, err := scanOrganization(r.db.QueryRow(query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization by slug: %w", err)
	}

	return org, nil
}

// Update updates an organization
func (r *OrganizationRepository) Update(id int, req *models.OrganizationUpdateRequest) (*models.Organization, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		UPDATE organizations
		SET name = $2, description = $3, contact_email = $4, logo_url = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + organizationColumns

	org, err := scanOrganization(r.db.QueryRow(query, id, req.Name, req.Description, req.ContactEmail, req.LogoURL, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// List retrieves organizations with pagination
func (r *OrganizationRepository) List(limit, offset int) ([]*models.Organization, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM organizations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count organizations: %w", err)
	}

	query := `SELECT ` + organizationColumns + ` FROM organizations ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}

	return orgs, total, rows.Err()
}

// AddStaff adds a staff member to an organization
func (r *OrganizationRepository) AddStaff(organizationID int, req *models.StaffAddRequest, invitedBy int) (*models.OrganizationStaff, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO organization_staff (organization_id, user_id, role, invited_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, organization_id, user_id, role, invited_by, created_at`

	staff := &models.OrganizationStaff{}
	err := r.db.QueryRow(query, organizationID, req.UserID, req.Role, invitedBy, time.Now()).Scan(
		&staff.ID,
		&staff.OrganizationID,
		&staff.UserID,
		&staff.Role,
		&staff.InvitedBy,
		&staff.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to add staff member: %w", err)
	}

	return staff, nil
}

// RemoveStaff removes a staff member from an organization
func (r *OrganizationRepository) RemoveStaff(organizationID, userID int) error {
	result, err := r.db.Exec(`
		DELETE FROM organization_staff
		WHERE organization_id = $1 AND user_id = $2`, organizationID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove staff member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removal result: %w", err)
	}

	if affected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// UpdateStaffRole changes a staff member's role within an organization
func (r *OrganizationRepository) UpdateStaffRole(organizationID, userID int, role models.StaffRole) error {
	result, err := r.db.Exec(`
		UPDATE organization_staff
		SET role = $3
		WHERE organization_id = $1 AND user_id = $2`, organizationID, userID, role)
	if err != nil {
		return fmt.Errorf("failed to update staff role: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}

	if affected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// ListStaff retrieves an organization's staff with the user attached
func (r *OrganizationRepository) ListStaff(organizationID int) ([]*models.OrganizationStaff, error) {
	query := `
		SELECT s.id, s.organization_id, s.user_id, s.role, s.invited_by, s.created_at,
		       u.id, u.email, u.display_name, u.role
		FROM organization_staff s
		JOIN users u ON u.id = s.user_id
		WHERE s.organization_id = $1
		ORDER BY s.created_at`

	rows, err := r.db.Query(query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization staff: %w", err)
	}
	defer rows.Close()

	var members []*models.OrganizationStaff
	for rows.Next() {
		staff := &models.OrganizationStaff{User: &models.User{}}
		err := rows.Scan(
			&staff.ID,
			&staff.OrganizationID,
			&staff.UserID,
			&staff.Role,
			&staff.InvitedBy,
			&staff.CreatedAt,
			&staff.User.ID,
			&staff.User.Email,
			&staff.User.DisplayName,
			&staff.User.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		members = append(members, staff)
	}

	return members, rows.Err()
}

// GetStaffRole returns a user's staff role within an organization
func (r *OrganizationRepository) GetStaffRole(organizationID, userID int) (models.StaffRole, error) {
	var role models.StaffRole
	err := r.db.QueryRow(`
		SELECT role FROM organization_staff
		WHERE organization_id = $1 AND user_id = $2`, organizationID, userID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", models.ErrUserNotFound
		}
		return "", fmt.Errorf("failed to get staff role: %w", err)
	}

	return role, nil
}

// GetOrganizationsForUser retrieves every organization a user belongs to
func (r *OrganizationRepository) GetOrganizationsForUser(userID int) ([]*models.Organization, error) {
	query := `
		SELECT o.id, o.name, o.slug, o.description, o.contact_email, o.logo_url, o.created_at, o.updated_at
		FROM organizations o
		JOIN organization_staff s ON s.organization_id = o.id
		WHERE s.user_id = $1
		ORDER BY o.name`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}

	return orgs, rows.Err()
}
