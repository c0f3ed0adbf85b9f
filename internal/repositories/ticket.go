package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/models"
)

// TicketRepository handles ticket tier, hold and ticket data operations.
// Hold operations are the transactional core of the inventory system:
// every state change keeps available + reserved + sold = total, enforced
// both here and by a database check constraint.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const tierColumns = `id, event_id, name, price_cents, total_tickets, available_inventory, reserved_inventory, sold_inventory, sale_start, sale_end, created_at, updated_at`

const holdColumns = `id, tier_id, user_id, quantity, status, expires_at, created_at`

func scanTier(row interface{ Scan(...interface{}) error }) (*models.TicketTier, error) {
	tier := &models.TicketTier{}
	err := row.Scan(
		&tier.ID,
		&tier.EventID,
		&tier.Name,
		&tier.PriceCents,
		&tier.Total,
		&tier.Available,
		&tier.Reserved,
		&tier.Sold,
		&tier.SaleStart,
		&tier.SaleEnd,
		&tier.CreatedAt,
		&tier.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return tier, nil
}

func scanHold(row interface{ Scan(...interface{}) error }) (*models.TicketHold, error) {
	hold := &models.TicketHold{}
	err := row.Scan(
		&hold.ID,
		&hold.TierID,
		&hold.UserID,
		&hold.Quantity,
		&hold.Status,
		&hold.ExpiresAt,
		&hold.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return hold, nil
}

// CreateTier creates a new ticket tier with all inventory available
func (r *TicketRepository) CreateTier(req *models.TicketTierCreateRequest) (*models.TicketTier, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO ticket_tiers (event_id, name, price_cents, total_tickets, available_inventory, reserved_inventory, sold_inventory, sale_start, sale_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, 0, 0, $5, $6, $7, $7)
		RETURNING ` + tierColumns

	tier, err := scanTier(r.db.QueryRow(query,
		req.EventID, req.Name, req.PriceCents, req.Total, req.SaleStart, req.SaleEnd, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket tier: %w", err)
	}

	return tier, nil
}

// GetTierByID retrieves a ticket tier by ID
func (r *TicketRepository) GetTierByID(id int) (*models.TicketTier, error) {
	query := `SELECT ` + tierColumns + ` FROM ticket_tiers WHERE id = $1`

	tier, err := scanTier(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTierNotFound
		}
		return nil, fmt.Errorf("failed to get ticket tier: %w", err)
	}

	return tier, nil
}

// GetTiersByEvent retrieves all tiers for an event
func (r *TicketRepository) GetTiersByEvent(eventID int) ([]*models.TicketTier, error) {
	query := `SELECT ` + tierColumns + ` FROM ticket_tiers WHERE event_id = $1 ORDER BY price_cents`

	rows, err := r.db.Query(query, eventID)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event tiers: %w", err)
	}
	defer rows.Close()

	var tiers []*models.TicketTier
	for rows.Next() {
		tier, err := scanTier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket tier: %w", err)
		}
		tiers = append(tiers, tier)
	}

	return tiers, rows.Err()
}

// UpdateTier updates a tier's mutable fields
func (r *TicketRepository) UpdateTier(id int, req *models.TicketTierUpdateRequest) (*models.TicketTier, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		UPDATE ticket_tiers
		SET name = $2, price_cents = $3, sale_start = $4, sale_end = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + tierColumns

	tier, err := scanTier(r.db.QueryRow(query, id, req.Name, req.PriceCents, req.SaleStart, req.SaleEnd, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTierNotFound
		}
		return nil, fmt.Errorf("failed to update ticket tier: %w", err)
	}

	return tier, nil
}

// DeleteTier deletes a tier that has no sold inventory
func (r *TicketRepository) DeleteTier(id int) error {
	result, err := r.db.Exec(`DELETE FROM ticket_tiers WHERE id = $1 AND sold_inventory = 0`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket tier: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return models.ErrTierNotFound
	}

	return nil
}

// CreateHold reserves inventory for a limited time. The tier row is
// locked for the duration of the transaction so concurrent holds cannot
// oversell.
func (r *TicketRepository) CreateHold(tierID, userID, quantity int, ttl time.Duration) (*models.TicketHold, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var available int
	var saleStart, saleEnd time.Time
	err = tx.QueryRow(`
		SELECT available_inventory, sale_start, sale_end
		FROM ticket_tiers
		WHERE id = $1
		FOR UPDATE`, tierID).Scan(&available, &saleStart, &saleEnd)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTierNotFound
		}
		return nil, fmt.Errorf("failed to check ticket availability: %w", err)
	}

	now := time.Now()
	if now.Before(saleStart) {
		return nil, fmt.Errorf("ticket sales have not started yet")
	}
	if now.After(saleEnd) {
		return nil, fmt.Errorf("ticket sales have ended")
	}

	if available < quantity {
		return nil, models.ErrInsufficientInventory
	}

	_, err = tx.Exec(`
		UPDATE ticket_tiers
		SET available_inventory = available_inventory - $2,
		    reserved_inventory = reserved_inventory + $2,
		    updated_at = $3
		WHERE id = $1`, tierID, quantity, now)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve inventory: %w", err)
	}

	holdID := uuid.New().String()
	expiresAt := now.Add(ttl)

	hold, err := scanHold(tx.QueryRow(`
		INSERT INTO ticket_holds (id, tier_id, user_id, quantity, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+holdColumns,
		holdID, tierID, userID, quantity, models.HoldActive, expiresAt, now))
	if err != nil {
		return nil, fmt.Errorf("failed to create hold: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit hold creation: %w", err)
	}

	return hold, nil
}

// GetHoldByID retrieves a hold by ID
func (r *TicketRepository) GetHoldByID(id string) (*models.TicketHold, error) {
	query := `SELECT ` + holdColumns + ` FROM ticket_holds WHERE id = $1`

	hold, err := scanHold(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrHoldNotFound
		}
		return nil, fmt.Errorf("failed to get hold: %w", err)
	}

	return hold, nil
}

// ReleaseHold returns an active hold's inventory to the available pool.
// Releasing a hold that is no longer active is a no-op error so callers
// cannot double-release.
func (r *TicketRepository) ReleaseHold(holdID string) error {
	return r.finishHold(holdID, models.HoldReleased)
}

// ExpireHold marks a lapsed hold expired and returns its inventory.
func (r *TicketRepository) ExpireHold(holdID string) error {
	return r.finishHold(holdID, models.HoldExpired)
}

// finishHold transitions an active hold to a terminal non-converted state
// and moves its quantity from reserved back to available.
func (r *TicketRepository) finishHold(holdID string, status models.HoldStatus) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	hold, err := scanHold(tx.QueryRow(`
		SELECT `+holdColumns+`
		FROM ticket_holds
		WHERE id = $1
		FOR UPDATE`, holdID))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ErrHoldNotFound
		}
		return fmt.Errorf("failed to lock hold: %w", err)
	}

	if !hold.IsActive() {
		return models.ErrHoldNotActive
	}

	now := time.Now()
	_, err = tx.Exec(`UPDATE ticket_holds SET status = $2 WHERE id = $1`, holdID, status)
	if err != nil {
		return fmt.Errorf("failed to update hold status: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE ticket_tiers
		SET available_inventory = available_inventory + $2,
		    reserved_inventory = reserved_inventory - $2,
		    updated_at = $3
		WHERE id = $1`, hold.TierID, hold.Quantity, now)
	if err != nil {
		return fmt.Errorf("failed to return inventory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit hold release: %w", err)
	}

	return nil
}

// SaleDetails carries the billing and pricing information needed to
// convert a hold into a completed order.
type SaleDetails struct {
	OrderNumber        string
	SubtotalCents      int
	ServiceFeeCents    int
	ProcessingFeeCents int
	DiscountCents      int
	TotalCents         int
	PromoCodeID        *int
	PaymentID          string
	BillingEmail       string
	BillingName        string
}

// ConvertHoldToSale atomically converts an active, unexpired hold into a
// completed order with issued tickets. The hold's reserved inventory
// moves to sold. An expired hold fails the conversion and its inventory
// is returned to the available pool in the same transaction, so the
// expiry race leaves no inventory stranded.
func (r *TicketRepository) ConvertHoldToSale(holdID string, details SaleDetails) (*models.Order, []*models.Ticket, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	hold, err := scanHold(tx.QueryRow(`
		SELECT `+holdColumns+`
		FROM ticket_holds
		WHERE id = $1
		FOR UPDATE`, holdID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, models.ErrHoldNotFound
		}
		return nil, nil, fmt.Errorf("failed to lock hold: %w", err)
	}

	if !hold.IsActive() {
		return nil, nil, models.ErrHoldNotActive
	}

	now := time.Now()
	if hold.IsExpired(now) {
		// Lost the expiry race: mark the hold expired and give the
		// inventory back before failing the conversion.
		if _, err := tx.Exec(`UPDATE ticket_holds SET status = $2 WHERE id = $1`, holdID, models.HoldExpired); err != nil {
			return nil, nil, fmt.Errorf("failed to expire hold: %w", err)
		}
		if _, err := tx.Exec(`
			UPDATE ticket_tiers
			SET available_inventory = available_inventory + $2,
			    reserved_inventory = reserved_inventory - $2,
			    updated_at = $3
			WHERE id = $1`, hold.TierID, hold.Quantity, now); err != nil {
			return nil, nil, fmt.Errorf("failed to return inventory: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, nil, fmt.Errorf("failed to commit hold expiry: %w", err)
		}
		return nil, nil, models.ErrHoldExpired
	}

	var tier *models.TicketTier
	tier, err = scanTier(tx.QueryRow(`SELECT `+tierColumns+` FROM ticket_tiers WHERE id = $1 FOR UPDATE`, hold.TierID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock tier: %w", err)
	}

	order := &models.Order{}
	err = tx.QueryRow(`
		INSERT INTO orders (user_id, event_id, order_number, subtotal_cents, service_fee_cents, processing_fee_cents, discount_cents, total_cents, promo_code_id, status, payment_id, billing_email, billing_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		RETURNING id, user_id, event_id, order_number, subtotal_cents, service_fee_cents, processing_fee_cents, discount_cents, total_cents, promo_code_id, status, payment_id, billing_email, billing_name, created_at, updated_at`,
		hold.UserID, tier.EventID, details.OrderNumber,
		details.SubtotalCents, details.ServiceFeeCents, details.ProcessingFeeCents,
		details.DiscountCents, details.TotalCents, details.PromoCodeID,
		models.OrderCompleted, details.PaymentID, details.BillingEmail, details.BillingName, now,
	).Scan(
		&order.ID, &order.UserID, &order.EventID, &order.OrderNumber,
		&order.SubtotalCents, &order.ServiceFeeCents, &order.ProcessingFeeCents,
		&order.DiscountCents, &order.TotalCents, &order.PromoCodeID,
		&order.Status, &order.PaymentID, &order.BillingEmail, &order.BillingName,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	item := &models.OrderItem{}
	err = tx.QueryRow(`
		INSERT INTO order_items (order_id, tier_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, tier_id, quantity, unit_price_cents`,
		order.ID, hold.TierID, hold.Quantity, tier.PriceCents,
	).Scan(&item.ID, &item.OrderID, &item.TierID, &item.Quantity, &item.UnitPriceCents)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create order item: %w", err)
	}
	item.TierName = tier.Name
	order.Items = []*models.OrderItem{item}

	var tickets []*models.Ticket
	for i := 0; i < hold.Quantity; i++ {
		ticket := &models.Ticket{}
		code := uuid.New().String()
		err = tx.QueryRow(`
			INSERT INTO tickets (order_id, tier_id, code, status, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, order_id, tier_id, code, status, scanned_at, created_at`,
			order.ID, hold.TierID, code, models.TicketIssued, now,
		).Scan(&ticket.ID, &ticket.OrderID, &ticket.TierID, &ticket.Code, &ticket.Status, &ticket.ScannedAt, &ticket.CreatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to issue ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if _, err := tx.Exec(`UPDATE ticket_holds SET status = $2 WHERE id = $1`, holdID, models.HoldConverted); err != nil {
		return nil, nil, fmt.Errorf("failed to mark hold converted: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE ticket_tiers
		SET reserved_inventory = reserved_inventory - $2,
		    sold_inventory = sold_inventory + $2,
		    updated_at = $3
		WHERE id = $1`, hold.TierID, hold.Quantity, now)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to move inventory to sold: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	return order, tickets, nil
}

// ListExpiredActiveHolds returns the IDs of active holds whose expiry has
// passed, oldest first.
func (r *TicketRepository) ListExpiredActiveHolds(limit int) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT id FROM ticket_holds
		WHERE status = 'active' AND expires_at < NOW()
		ORDER BY expires_at
		LIMIT $1`, limit)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list expired holds: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan hold id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// SyncTierInventoryCounters recomputes a tier's counters from the holds
// and tickets tables. Used to reconcile drift after manual intervention
// or partial failures; returns the corrected tier.
func (r *TicketRepository) SyncTierInventoryCounters(tierID int) (*models.TicketTier, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var total int
	err = tx.QueryRow(`SELECT total_tickets FROM ticket_tiers WHERE id = $1 FOR UPDATE`, tierID).Scan(&total)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTierNotFound
		}
		return nil, fmt.Errorf("failed to lock tier: %w", err)
	}

	var reserved int
	err = tx.QueryRow(`
		SELECT COALESCE(SUM(quantity), 0)
		FROM ticket_holds
		WHERE tier_id = $1 AND status = 'active'`, tierID).Scan(&reserved)
	if err != nil {
		return nil, fmt.Errorf("failed to sum active holds: %w", err)
	}

	var sold int
	err = tx.QueryRow(`
		SELECT COUNT(*)
		FROM tickets
		WHERE tier_id = $1 AND status != 'void'`, tierID).Scan(&sold)
	if err != nil {
		return nil, fmt.Errorf("failed to count sold tickets: %w", err)
	}

	available := total - reserved - sold
	if available < 0 {
		// Oversold: more holds and tickets exist than the configured
		// capacity. Issued tickets cannot be unsold, so grow the
		// capacity to match reality and keep the counter sum intact.
		total = reserved + sold
		available = 0
	}

	tier, err := scanTier(tx.QueryRow(`
		UPDATE ticket_tiers
		SET total_tickets = $2, available_inventory = $3, reserved_inventory = $4, sold_inventory = $5, updated_at = $6
		WHERE id = $1
		RETURNING `+tierColumns, tierID, total, available, reserved, sold, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to write reconciled counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit counter sync: %w", err)
	}

	return tier, nil
}

// GetTicketsByOrder retrieves the tickets issued for an order
func (r *TicketRepository) GetTicketsByOrder(orderID int) ([]*models.Ticket, error) {
	rows, err := r.db.Query(`
		SELECT id, order_id, tier_id, code, status, scanned_at, created_at
		FROM tickets
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket := &models.Ticket{}
		err := rows.Scan(&ticket.ID, &ticket.OrderID, &ticket.TierID, &ticket.Code, &ticket.Status, &ticket.ScannedAt, &ticket.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

// GetTicketByCode retrieves a ticket by its code
func (r *TicketRepository) GetTicketByCode(code string) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	err := r.db.QueryRow(`
		SELECT id, order_id, tier_id, code, status, scanned_at, created_at
		FROM tickets
		WHERE code = $1`, code).Scan(
		&ticket.ID, &ticket.OrderID, &ticket.TierID, &ticket.Code, &ticket.Status, &ticket.ScannedAt, &ticket.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket by code: %w", err)
	}

	return ticket, nil
}

// MarkTicketScanned transitions an issued ticket to scanned
func (r *TicketRepository) MarkTicketScanned(id int) error {
	result, err := r.db.Exec(`
		UPDATE tickets
		SET status = $2, scanned_at = $3
		WHERE id = $1 AND status = $4`,
		id, models.TicketScanned, time.Now(), models.TicketIssued)
	if err != nil {
		return fmt.Errorf("failed to mark ticket scanned: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check scan result: %w", err)
	}

	if affected == 0 {
		return models.ErrTicketNotFound
	}

	return nil
}
