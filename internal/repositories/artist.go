package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"stagepass/internal/models"
)

// ArtistRepository handles artist data operations
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new artist repository
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

const artistColumns = `id, name, genre, bio, image_url, created_at, updated_at`

func scanArtist(row interface{ Scan(...interface{}) error }) (*models.Artist, error) {
	artist := &models.Artist{}
	err := row.Scan(
		&artist.ID,
		&artist.Name,
		&artist.Genre,
		&artist.Bio,
		&artist.ImageURL,
		&artist.CreatedAt,
		&artist.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return artist, nil
}

// Create creates a new artist
func (r *ArtistRepository) Create(req *models.ArtistCreateRequest) (*models.Artist, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO artists (name, genre, bio, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING ` + artistColumns

	artist, err := scanArtist(r.db.QueryRow(query, req.Name, req.Genre, req.Bio, req.ImageURL, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create artist: %w", err)
	}

	return artist, nil
}

// GetByID retrieves an artist by ID
func (r *ArtistRepository) GetByID(id int) (*models.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE id = $1`

	artist, err := scanArtist(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}

	return artist, nil
}

// Update updates an artist
func (r *ArtistRepository) Update(id int, req *models.ArtistUpdateRequest) (*models.Artist, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		UPDATE artists
		SET name = $2, genre = $3, bio = $4, image_url = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + artistColumns

	artist, err := scanArtist(r.db.QueryRow(query, id, req.Name, req.Genre, req.Bio, req.ImageURL, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to update artist: %w", err)
	}

	return artist, nil
}

// Delete deletes an artist
func (r *ArtistRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return models.ErrArtistNotFound
	}

	return nil
}

// List retrieves artists with pagination
func (r *ArtistRepository) List(limit, offset int) ([]*models.Artist, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM artists`).Scan(&total); err != nil {
		if IsUndefinedTable(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to count artists: %w", err)
	}

	query := `SELECT ` + artistColumns + ` FROM artists ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list artists: %w", err)
	}
	defer rows.Close()

	var artists []*models.Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, artist)
	}

	return artists, total, rows.Err()
}

// SearchFuzzy performs a trigram similarity search against artist names.
// Results are ordered by similarity, best match first.
func (r *ArtistRepository) SearchFuzzy(query string, limit int) ([]*models.Artist, error) {
	sqlQuery := `
		SELECT ` + artistColumns + `
		FROM artists
		WHERE similarity(name, $1) > 0.2
		ORDER BY similarity(name, $1) DESC, name
		LIMIT $2`

	rows, err := r.db.Query(sqlQuery, query, limit)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}
	defer rows.Close()

	var artists []*models.Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, artist)
	}

	return artists, rows.Err()
}
