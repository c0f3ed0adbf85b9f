package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"stagepass/internal/models"
)

// ActivityLogRepository handles activity and error log data operations
type ActivityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *sql.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

const activityColumns = `id, user_id, level, action, target_type, target_id, details, ip_address, user_agent, created_at`

func scanActivity(row interface{ Scan(...interface{}) error }) (*models.ActivityLog, error) {
	entry := &models.ActivityLog{}
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Level,
		&entry.Action,
		&entry.TargetType,
		&entry.TargetID,
		&entry.Details,
		&entry.IPAddress,
		&entry.UserAgent,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Create records an activity log entry
func (r *ActivityLogRepository) Create(req *models.ActivityLogCreateRequest) (*models.ActivityLog, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO activity_logs (user_id, level, action, target_type, target_id, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + activityColumns

	entry, err := scanActivity(r.db.QueryRow(query,
		req.UserID, req.Level, req.Action, req.TargetType, req.TargetID,
		req.Details, req.IPAddress, req.UserAgent, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create activity log: %w", err)
	}

	return entry, nil
}

// ActivityLogFilters narrows activity log listings
type ActivityLogFilters struct {
	UserID *int
	Level  models.ActivityLevel
	Action string
	Since  *time.Time
	Limit  int
}

// List retrieves activity log entries matching the filters, newest first
func (r *ActivityLogRepository) List(filters ActivityLogFilters) ([]*models.ActivityLog, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_logs WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if filters.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argIndex)
		args = append(args, *filters.UserID)
		argIndex++
	}

	if filters.Level != "" {
		query += fmt.Sprintf(" AND level = $%d", argIndex)
		args = append(args, filters.Level)
		argIndex++
	}

	if filters.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argIndex)
		args = append(args, filters.Action)
		argIndex++
	}

	if filters.Since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filters.Since)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	limit := filters.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.ActivityLog
	for rows.Next() {
		entry, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// CountErrorsSince returns the number of error level entries recorded at
// or after the given time.
func (r *ActivityLogRepository) CountErrorsSince(since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM activity_logs
		WHERE level = 'error' AND created_at >= $1`, since).Scan(&count)
	if err != nil {
		if IsUndefinedTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count error logs: %w", err)
	}

	return count, nil
}

// DeleteOlderThan prunes log entries older than the cutoff and returns
// how many were removed.
func (r *ActivityLogRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM activity_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity logs: %w", err)
	}

	return result.RowsAffected()
}
