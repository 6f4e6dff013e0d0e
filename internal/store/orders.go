package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"economy-engine/internal/models"
)

// GetOrderByDay retrieves the order for (warehouse, day), nil when none
// exists. At most one can exist thanks to the unique constraint.
func (tx *Tx) GetOrderByDay(ctx context.Context, warehouseID int64, day time.Time) (*models.Order, error) {
	var order models.Order
	err := tx.tx.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE warehouse_id = $1 AND order_day = $2", warehouseID, day)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder creates the order for (warehouse, day)
func (tx *Tx) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (warehouse_id, order_day)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return tx.tx.GetContext(ctx, order, query, order.WarehouseID, order.OrderDay)
}

// CreateOrderLine creates a new order line
func (tx *Tx) CreateOrderLine(ctx context.Context, line *models.OrderLine) error {
	query := `
		INSERT INTO order_lines (order_id, listing_id, product_id, seq, ordered_qty, fulfilled_qty, shipped_qty, unit_price_cents)
		VALUES ($1, $2, $3, $4, $5, 0, 0, $6)
		RETURNING id`

	return tx.tx.GetContext(ctx, &line.ID, query,
		line.OrderID, line.ListingID, line.ProductID, line.Seq, line.OrderedQty, line.UnitPriceCents)
}

// BacklogLine is an unfulfilled order line joined with its originating day
type BacklogLine struct {
	models.OrderLine
	WarehouseID int64     `db:"warehouse_id"`
	OrderDay    time.Time `db:"order_day"`
}

// GetBacklog retrieves every order line with fulfilled < ordered for a
// warehouse, strictly oldest demand first: originating day ascending, then
// the per-order line sequence.
func (tx *Tx) GetBacklog(ctx context.Context, warehouseID int64) ([]BacklogLine, error) {
	var lines []BacklogLine
	err := tx.tx.SelectContext(ctx, &lines, `
		SELECT ol.*, o.warehouse_id, o.order_day
		FROM order_lines ol
		JOIN orders o ON o.id = ol.order_id
		WHERE o.warehouse_id = $1 AND ol.fulfilled_qty < ol.ordered_qty
		ORDER BY o.order_day ASC, ol.seq ASC, ol.id ASC`,
		warehouseID)
	return lines, err
}

// AddLineShipment increments the monotonic fulfilled/shipped counters
func (tx *Tx) AddLineShipment(ctx context.Context, lineID int64, qty int) error {
	res, err := tx.tx.ExecContext(ctx, `
		UPDATE order_lines
		SET fulfilled_qty = fulfilled_qty + $1, shipped_qty = shipped_qty + $1
		WHERE id = $2 AND fulfilled_qty + $1 <= ordered_qty`,
		qty, lineID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("shipment of %d would overfulfill order line %d", qty, lineID)
	}
	return nil
}

// OrderLinesByOrderID retrieves all lines for an order
func (s *Store) OrderLinesByOrderID(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := s.db.SelectContext(ctx, &lines,
		"SELECT * FROM order_lines WHERE order_id = $1 ORDER BY seq", orderID)
	return lines, err
}
