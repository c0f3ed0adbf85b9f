package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"stagepass/internal/models"
)

// PromoRepository handles promo code data operations
type PromoRepository struct {
	db *sql.DB
}

// NewPromoRepository creates a new promo repository
func NewPromoRepository(db *sql.DB) *PromoRepository {
	return &PromoRepository{db: db}
}

const promoColumns = `id, code, event_id, percent_off, amount_off_cents, max_uses, uses, is_active, expires_at, created_at`

func scanPromo(row interface{ Scan(...interface{}) error }) (*models.PromoCode, error) {
	promo := &models.PromoCode{}
	err := row.Scan(
		&promo.ID,
		&promo.Code,
		&promo.EventID,
		&promo.PercentOff,
		&promo.AmountOffCents,
		&promo.MaxUses,
		&promo.Uses,
		&promo.IsActive,
		&promo.ExpiresAt,
		&promo.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return promo, nil
}

// Create creates a new promo code. Codes are stored uppercase.
func (r *PromoRepository) Create(req *models.PromoCodeCreateRequest) (*models.PromoCode, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO promo_codes (code, event_id, percent_off, amount_off_cents, max_uses, uses, is_active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, TRUE, $6, $7)
		RETURNING ` + promoColumns

	promo, err := scanPromo(r.db.QueryRow(query,
		strings.ToUpper(strings.TrimSpace(req.Code)),
		req.EventID, req.PercentOff, req.AmountOffCents, req.MaxUses, req.ExpiresAt, time.Now()))
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create promo code: %w", err)
	}

	return promo, nil
}

// GetByCode retrieves a promo code by its code, case-insensitively
func (r *PromoRepository) GetByCode(code string) (*models.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = $1`

	promo, err := scanPromo(r.db.QueryRow(query, strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrPromoCodeNotFound
		}
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}

	return promo, nil
}

// IncrementUses records a redemption, refusing to pass the usage cap
func (r *PromoRepository) IncrementUses(id int) error {
	result, err := r.db.Exec(`
		UPDATE promo_codes
		SET uses = uses + 1
		WHERE id = $1 AND is_active AND (max_uses = 0 OR uses < max_uses)`, id)
	if err != nil {
		return fmt.Errorf("failed to record promo use: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check promo update: %w", err)
	}

	if affected == 0 {
		return models.ErrPromoCodeNotFound
	}

	return nil
}

// Deactivate disables a promo code
func (r *PromoRepository) Deactivate(id int) error {
	result, err := r.db.Exec(`UPDATE promo_codes SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate promo code: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check promo update: %w", err)
	}

	if affected == 0 {
		return models.ErrPromoCodeNotFound
	}

	return nil
}

// ListByEvent retrieves the promo codes scoped to an event
func (r *PromoRepository) ListByEvent(eventID int) ([]*models.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE event_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(query, eventID)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}
	defer rows.Close()

	var promos []*models.PromoCode
	for rows.Next() {
		promo, err := scanPromo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan promo code: %w", err)
		}
		promos = append(promos, promo)
	}

	return promos, rows.Err()
}
