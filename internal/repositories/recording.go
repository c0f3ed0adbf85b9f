package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"stagepass/internal/models"
)

// RecordingRepository handles recording and rating data operations
type RecordingRepository struct {
	db *sql.DB
}

// NewRecordingRepository creates a new recording repository
func NewRecordingRepository(db *sql.DB) *RecordingRepository {
	return &RecordingRepository{db: db}
}

const recordingColumns = `id, event_id, title, description, media_url, media_key, duration_seconds, published_at, created_at, updated_at`

func scanRecording(row interface{ Scan(...interface{}) error }) (*models.Recording, error) {
	rec := &models.Recording{}
	err := row.Scan(
		&rec.ID,
		&rec.EventID,
		&rec.Title,
		&rec.Description,
		&rec.MediaURL,
		&rec.MediaKey,
		&rec.DurationSeconds,
		&rec.PublishedAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Create creates a new recording
func (r *RecordingRepository) Create(req *models.RecordingCreateRequest) (*models.Recording, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	now := time.Now()
	query := `
		INSERT INTO recordings (event_id, title, description, media_url, media_key, duration_seconds, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $7)
		RETURNING ` + recordingColumns

	rec, err := scanRecording(r.db.QueryRow(query,
		req.EventID, req.Title, req.Description, req.MediaURL, req.MediaKey, req.DurationSeconds, now))
	if err != nil {
		return nil, fmt.Errorf("failed to create recording: %w", err)
	}

	return rec, nil
}

// GetByID retrieves a recording by ID with its ratings
func (r *RecordingRepository) GetByID(id int) (*models.Recording, error) {
	query := `SELECT ` + recordingColumns + ` FROM recordings WHERE id = $1`

	rec, err := scanRecording(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrRecordingNotFound
		}
		return nil, fmt.Errorf("failed to get recording: %w", err)
	}

	ratings, err := r.getRatings(rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Ratings = ratings

	return rec, nil
}

// GetByEvent retrieves an event's recordings with ratings attached,
// newest first.
func (r *RecordingRepository) GetByEvent(eventID int) ([]*models.Recording, error) {
	query := `SELECT ` + recordingColumns + ` FROM recordings WHERE event_id = $1 ORDER BY published_at DESC`

	rows, err := r.db.Query(query, eventID)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event recordings: %w", err)
	}
	defer rows.Close()

	var recordings []*models.Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recording: %w", err)
		}
		recordings = append(recordings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rec := range recordings {
		ratings, err := r.getRatings(rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Ratings = ratings
	}

	return recordings, nil
}

// ListAll retrieves every recording with ratings attached, newest first.
// Used by the rating statistics aggregation.
func (r *RecordingRepository) ListAll() ([]*models.Recording, error) {
	query := `SELECT ` + recordingColumns + ` FROM recordings ORDER BY published_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}
	defer rows.Close()

	var recordings []*models.Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recording: %w", err)
		}
		recordings = append(recordings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rec := range recordings {
		ratings, err := r.getRatings(rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Ratings = ratings
	}

	return recordings, nil
}

// Delete deletes a recording and its ratings
func (r *RecordingRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM recordings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return models.ErrRecordingNotFound
	}

	return nil
}

// AddRating records a user's rating of a recording. A user rates a
// recording at most once; rating again replaces the previous score.
func (r *RecordingRepository) AddRating(req *models.RatingCreateRequest) (*models.RecordingRating, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO recording_ratings (recording_id, user_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (recording_id, user_id)
		DO UPDATE SET score = EXCLUDED.score, comment = EXCLUDED.comment
		RETURNING id, recording_id, user_id, score, comment, created_at`

	rating := &models.RecordingRating{}
	err := r.db.QueryRow(query, req.RecordingID, req.UserID, req.Score, req.Comment, time.Now()).Scan(
		&rating.ID, &rating.RecordingID, &rating.UserID, &rating.Score, &rating.Comment, &rating.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add rating: %w", err)
	}

	return rating, nil
}

// getRatings retrieves a recording's ratings in insertion order
func (r *RecordingRepository) getRatings(recordingID int) ([]*models.RecordingRating, error) {
	rows, err := r.db.Query(`
		SELECT id, recording_id, user_id, score, comment, created_at
		FROM recording_ratings
		WHERE recording_id = $1
		ORDER BY id`, recordingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recording ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*models.RecordingRating
	for rows.Next() {
		rating := &models.RecordingRating{}
		err := rows.Scan(&rating.ID, &rating.RecordingID, &rating.UserID, &rating.Score, &rating.Comment, &rating.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}

	return ratings, rows.Err()
}
