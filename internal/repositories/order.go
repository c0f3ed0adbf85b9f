package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"stagepass/internal/models"
)

// OrderRepository handles order data operations
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, event_id, order_number, subtotal_cents, service_fee_cents, processing_fee_cents, discount_cents, total_cents, promo_code_id, status, payment_id, billing_email, billing_name, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.EventID,
		&order.OrderNumber,
		&order.SubtotalCents,
		&order.ServiceFeeCents,
		&order.ProcessingFeeCents,
		&order.DiscountCents,
		&order.TotalCents,
		&order.PromoCodeID,
		&order.Status,
		&order.PaymentID,
		&order.BillingEmail,
		&order.BillingName,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID retrieves an order by ID with its items
func (r *OrderRepository) GetByID(id int) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := r.loadItems(order); err != nil {
		return nil, err
	}

	return order, nil
}

// GetByOrderNumber retrieves an order by its order number
func (r *OrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	order, err := scanOrder(r.db.QueryRow(query, orderNumber))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}

	if err := r.loadItems(order); err != nil {
		return nil, err
	}

	return order, nil
}

// GetByUser retrieves a user's orders, newest first, with items and the
// event each order belongs to.
func (r *OrderRepository) GetByUser(userID int) ([]*models.Order, error) {
	query := `
		SELECT o.` + prefixedOrderColumns("o") + `,
		       e.id, e.title, e.start_date, e.end_date, e.status, e.venue_id
		FROM orders o
		JOIN events e ON e.id = o.event_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		event := &models.Event{}
		err := rows.Scan(
			&order.ID, &order.UserID, &order.EventID, &order.OrderNumber,
			&order.SubtotalCents, &order.ServiceFeeCents, &order.ProcessingFeeCents,
			&order.DiscountCents, &order.TotalCents, &order.PromoCodeID,
			&order.Status, &order.PaymentID, &order.BillingEmail, &order.BillingName,
			&order.CreatedAt, &order.UpdatedAt,
			&event.ID, &event.Title, &event.StartDate, &event.EndDate, &event.Status, &event.VenueID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.Event = event
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := r.loadItems(order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// GetByEvent retrieves all orders for an event, newest first
func (r *OrderRepository) GetByEvent(eventID int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE event_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// UpdateStatus updates an order's status and payment reference
func (r *OrderRepository) UpdateStatus(id int, req *models.OrderUpdateRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := `
		UPDATE orders
		SET status = $2, payment_id = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + orderColumns

	order, err := scanOrder(r.db.QueryRow(query, id, req.Status, req.PaymentID, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return order, nil
}

// EventSalesSummary aggregates sales figures for an event
type EventSalesSummary struct {
	EventID       int `json:"event_id"`
	OrderCount    int `json:"order_count"`
	TicketsSold   int `json:"tickets_sold"`
	GrossCents    int `json:"gross_cents"`
	FeesCents     int `json:"fees_cents"`
	DiscountCents int `json:"discount_cents"`
}

// GetEventSalesSummary aggregates completed order figures for an event
func (r *OrderRepository) GetEventSalesSummary(eventID int) (*EventSalesSummary, error) {
	summary := &EventSalesSummary{EventID: eventID}
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(total_cents), 0),
		       COALESCE(SUM(service_fee_cents + processing_fee_cents), 0),
		       COALESCE(SUM(discount_cents), 0)
		FROM orders
		WHERE event_id = $1 AND status = 'completed'`,
		eventID).Scan(
		&summary.OrderCount, &summary.GrossCents,
		&summary.FeesCents, &summary.DiscountCents)
	if err != nil {
		if IsUndefinedTable(err) {
			return summary, nil
		}
		return nil, fmt.Errorf("failed to aggregate event sales: %w", err)
	}

	err = r.db.QueryRow(`
		SELECT COALESCE(SUM(oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.event_id = $1 AND o.status = 'completed'`,
		eventID).Scan(&summary.TicketsSold)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets sold: %w", err)
	}

	return summary, nil
}

// CountByUser returns the number of completed orders a user has placed
func (r *OrderRepository) CountByUser(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status = 'completed'`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user orders: %w", err)
	}
	return count, nil
}

// loadItems attaches an order's line items with their tier names
func (r *OrderRepository) loadItems(order *models.Order) error {
	rows, err := r.db.Query(`
		SELECT oi.id, oi.order_id, oi.tier_id, oi.quantity, oi.unit_price_cents, tt.name
		FROM order_items oi
		JOIN ticket_tiers tt ON tt.id = oi.tier_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.TierID, &item.Quantity, &item.UnitPriceCents, &item.TierName)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	order.Items = items
	return nil
}

// prefixedOrderColumns returns the order column list qualified with a
// table alias for use in joins.
func prefixedOrderColumns(alias string) string {
	return alias + `.id, ` + alias + `.user_id, ` + alias + `.event_id, ` + alias + `.order_number, ` +
		alias + `.subtotal_cents, ` + alias + `.service_fee_cents, ` + alias + `.processing_fee_cents, ` +
		alias + `.discount_cents, ` + alias + `.total_cents, ` + alias + `.promo_code_id, ` +
		alias + `.status, ` + alias + `.payment_id, ` + alias + `.billing_email, ` + alias + `.billing_name, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}
