package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"stagepass/internal/models"
)

// VenueRepository handles venue data operations
type VenueRepository struct {
	db *sql.DB
}

// NewVenueRepository creates a new venue repository
func NewVenueRepository(db *sql.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

const venueColumns = `id, name, description, address, city, country, capacity, image_url, created_at, updated_at`

func scanVenue(row interface{ Scan(...interface{}) error }) (*models.Venue, error) {
	venue := &models.Venue{}
	err := row.Scan(
		&venue.ID,
		&venue.Name,
		&venue.Description,
		&venue.Address,
		&venue.City,
		&venue.Country,
		&venue.Capacity,
		&venue.ImageURL,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return venue, nil
}

// Create creates a new venue
func (r *VenueRepository) Create(req *models.VenueCreateRequest) (*models.Venue, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO venues (name, description, address, city, country, capacity, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING ` + venueColumns

	venue, err := scanVenue(r.db.QueryRow(query,
		req.Name, req.Description, req.Address, req.City, req.Country, req.Capacity, req.ImageURL, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}

	return venue, nil
}

// GetByID retrieves a venue by ID
func (r *VenueRepository) GetByID(id int) (*models.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`

	venue, err := scanVenue(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}

	return venue, nil
}

// Update updates a venue
func (r *VenueRepository) Update(id int, req *models.VenueUpdateRequest) (*models.Venue, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		UPDATE venues
		SET name = $2, description = $3, address = $4, city = $5, country = $6, capacity = $7, image_url = $8, updated_at = $9
		WHERE id = $1
		RETURNING ` + venueColumns

	venue, err := scanVenue(r.db.QueryRow(query,
		id, req.Name, req.Description, req.Address, req.City, req.Country, req.Capacity, req.ImageURL, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to update venue: %w", err)
	}

	return venue, nil
}

// Delete deletes a venue
func (r *VenueRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return models.ErrVenueNotFound
	}

	return nil
}

// List retrieves venues with pagination
func (r *VenueRepository) List(limit, offset int) ([]*models.Venue, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM venues`).Scan(&total); err != nil {
		if IsUndefinedTable(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to count venues: %w", err)
	}

	query := `SELECT ` + venueColumns + ` FROM venues ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list venues: %w", err)
	}
	defer rows.Close()

	var venues []*models.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, venue)
	}

	return venues, total, rows.Err()
}
