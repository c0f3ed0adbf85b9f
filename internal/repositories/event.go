package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"stagepass/internal/models"
)

// EventRepository handles event data operations
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventSearchFilters represents filters for event listing
type EventSearchFilters struct {
	OrganizationID int
	VenueID        int
	Status         models.EventStatus
	DateFrom       *time.Time
	DateTo         *time.Time
	Limit          int
	Offset         int
	SortBy         string // "start_date", "created_at", "title"
	SortDesc       bool
}

const eventColumns = `id, organization_id, venue_id, headliner_id, title, description, start_date, end_date, status, poster_url, poster_key, reviewed_at, reviewed_by, rejection_reason, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.OrganizationID,
		&event.VenueID,
		&event.HeadlinerID,
		&event.Title,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.Status,
		&event.PosterURL,
		&event.PosterKey,
		&event.ReviewedAt,
		&event.ReviewedBy,
		&event.RejectionReason,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Create creates a new event with its lineup
func (r *EventRepository) Create(req *models.EventCreateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}

	query := `
		INSERT INTO events (organization_id, venue_id, headliner_id, title, description, start_date, end_date, status, poster_url, poster_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING ` + eventColumns

	event, err := scanEvent(tx.QueryRow(query,
		req.OrganizationID, req.VenueID, req.HeadlinerID, req.Title, req.Description,
		req.StartDate, req.EndDate, status, req.PosterURL, req.PosterKey, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := replaceLineup(tx, event.ID, req.ArtistIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event creation: %w", err)
	}

	return event, nil
}

// replaceLineup rewrites the event's lineup within an open transaction
func replaceLineup(tx *sql.Tx, eventID int, artistIDs []int) error {
	if _, err := tx.Exec(`DELETE FROM event_artists WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to clear event lineup: %w", err)
	}

	for _, artistID := range artistIDs {
		if _, err := tx.Exec(`
			INSERT INTO event_artists (event_id, artist_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, eventID, artistID); err != nil {
			return fmt.Errorf("failed to add artist %d to lineup: %w", artistID, err)
		}
	}

	return nil
}

// GetByID retrieves an event by ID including its lineup
func (r *EventRepository) GetByID(id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	lineup, err := r.getLineup(id)
	if err != nil {
		return nil, err
	}
	event.Lineup = lineup

	return event, nil
}

// getLineup fetches the artists on an event's lineup
func (r *EventRepository) getLineup(eventID int) ([]*models.Artist, error) {
	rows, err := r.db.Query(`
		SELECT a.id, a.name, a.genre, a.bio, a.image_url, a.created_at, a.updated_at
		FROM artists a
		JOIN event_artists ea ON ea.artist_id = a.id
		WHERE ea.event_id = $1
		ORDER BY a.name`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event lineup: %w", err)
	}
	defer rows.Close()

	var lineup []*models.Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lineup artist: %w", err)
		}
		lineup = append(lineup, artist)
	}

	return lineup, rows.Err()
}

// Update updates an event and its lineup
func (r *EventRepository) Update(id int, req *models.EventUpdateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE events
		SET venue_id = $2, headliner_id = $3, title = $4, description = $5, start_date = $6, end_date = $7, status = $8, poster_url = $9, poster_key = $10, updated_at = $11
		WHERE id = $1
		RETURNING ` + eventColumns

	event, err := scanEvent(tx.QueryRow(query,
		id, req.VenueID, req.HeadlinerID, req.Title, req.Description,
		req.StartDate, req.EndDate, req.Status, req.PosterURL, req.PosterKey, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if req.ArtistIDs != nil {
		if err := replaceLineup(tx, id, req.ArtistIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event update: %w", err)
	}

	return event, nil
}

// UpdateStatus transitions an event's moderation status
func (r *EventRepository) UpdateStatus(id int, status models.EventStatus, reviewedBy *int, rejectionReason string) error {
	result, err := r.db.Exec(`
		UPDATE events
		SET status = $2, reviewed_at = $3, reviewed_by = $4, rejection_reason = $5, updated_at = $3
		WHERE id = $1`, id, status, time.Now(), reviewedBy, rejectionReason)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check status update result: %w", err)
	}

	if affected == 0 {
		return models.ErrEventNotFound
	}

	return nil
}

// Delete deletes an event
func (r *EventRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return models.ErrEventNotFound
	}

	return nil
}

// Search retrieves events matching the given filters
func (r *EventRepository) Search(filters EventSearchFilters) ([]*models.Event, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filters.OrganizationID > 0 {
		conditions = append(conditions, fmt.Sprintf("organization_id = $%d", argIndex))
		args = append(args, filters.OrganizationID)
		argIndex++
	}

	if filters.VenueID > 0 {
		conditions = append(conditions, fmt.Sprintf("venue_id = $%d", argIndex))
		args = append(args, filters.VenueID)
		argIndex++
	}

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filters.Status)
		argIndex++
	}

	if filters.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("start_date >= $%d", argIndex))
		args = append(args, *filters.DateFrom)
		argIndex++
	}

	if filters.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", argIndex))
		args = append(args, *filters.DateTo)
		argIndex++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM events WHERE " + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		if IsUndefinedTable(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	sortColumn := "start_date"
	switch filters.SortBy {
	case "created_at", "title", "start_date":
		sortColumn = filters.SortBy
	}

	direction := "ASC"
	if filters.SortDesc {
		direction = "DESC"
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf("SELECT %s FROM events WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		eventColumns, where, sortColumn, direction, argIndex, argIndex+1)
	args = append(args, limit, filters.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, total, rows.Err()
}

// GetUpcomingPublished retrieves published events starting at or after now
func (r *EventRepository) GetUpcomingPublished(limit int) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = 'published' AND start_date >= NOW()
		ORDER BY start_date
		LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get upcoming events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// GetHeadlinedBy retrieves events where the artist is the headliner
func (r *EventRepository) GetHeadlinedBy(artistID int) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE headliner_id = $1 ORDER BY start_date`

	return r.queryEvents(query, artistID)
}

// GetWithArtistOnLineup retrieves events that include the artist on the
// lineup junction table.
func (r *EventRepository) GetWithArtistOnLineup(artistID int) ([]*models.Event, error) {
	query := `
		SELECT ` + prefixedEventColumns("e") + `
		FROM events e
		JOIN event_artists ea ON ea.event_id = e.id
		WHERE ea.artist_id = $1
		ORDER BY e.start_date`

	return r.queryEvents(query, artistID)
}

// prefixedEventColumns qualifies the event column list with a table alias
func prefixedEventColumns(alias string) string {
	cols := strings.Split(eventColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// queryEvents runs an event query and scans all rows
func (r *EventRepository) queryEvents(query string, args ...interface{}) ([]*models.Event, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// SearchFuzzy performs a trigram similarity search against event titles.
// Results are ordered by similarity, best match first.
func (r *EventRepository) SearchFuzzy(query string, limit int) ([]*models.Event, error) {
	sqlQuery := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = 'published' AND similarity(title, $1) > 0.2
		ORDER BY similarity(title, $1) DESC, start_date
		LIMIT $2`

	return r.queryEvents(sqlQuery, query, limit)
}

// CountByStatus returns the number of events per status
func (r *EventRepository) CountByStatus() (map[models.EventStatus]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM events GROUP BY status`)
	if err != nil {
		if IsUndefinedTable(err) {
			return map[models.EventStatus]int{}, nil
		}
		return nil, fmt.Errorf("failed to count events by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.EventStatus]int)
	for rows.Next() {
		var status models.EventStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}
