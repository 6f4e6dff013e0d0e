package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"economy-engine/internal/models"
)

// GetOnHandQty returns current stock for (warehouse, product); zero when
// the product has no inventory row.
func (tx *Tx) GetOnHandQty(ctx context.Context, warehouseID, productID int64) (int, error) {
	var qty int
	err := tx.tx.GetContext(ctx, &qty, `
		SELECT on_hand_qty FROM inventory_items
		WHERE warehouse_id = $1 AND product_id = $2 AND archived = FALSE`,
		warehouseID, productID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// DecrementStock removes qty units and returns the remaining on-hand count.
// The guard clause makes oversell a hard failure rather than a negative row.
func (tx *Tx) DecrementStock(ctx context.Context, warehouseID, productID int64, qty int) (int, error) {
	var remaining int
	err := tx.tx.GetContext(ctx, &remaining, `
		UPDATE inventory_items
		SET on_hand_qty = on_hand_qty - $1, updated_at = NOW()
		WHERE warehouse_id = $2 AND product_id = $3 AND archived = FALSE AND on_hand_qty >= $1
		RETURNING on_hand_qty`,
		qty, warehouseID, productID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("insufficient stock to remove %d units of product %d from warehouse %d",
			qty, productID, warehouseID)
	}
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// IncrementStock adds returned units back, creating the inventory row if the
// product sold out and was cleaned up in the meantime.
func (tx *Tx) IncrementStock(ctx context.Context, warehouseID, productID int64, qty int) error {
	_, err := tx.tx.ExecContext(ctx, `
		INSERT INTO inventory_items (warehouse_id, product_id, on_hand_qty, avg_cost_cents, archived, updated_at)
		VALUES ($1, $2, $3, 0, FALSE, NOW())
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET on_hand_qty = inventory_items.on_hand_qty + $3, archived = FALSE, updated_at = NOW()`,
		warehouseID, productID, qty)
	return err
}

// SumOnHand recomputes total live stock across all non-archived items
func (tx *Tx) SumOnHand(ctx context.Context, warehouseID int64) (int, error) {
	var total int
	err := tx.tx.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(on_hand_qty), 0) FROM inventory_items
		WHERE warehouse_id = $1 AND archived = FALSE`,
		warehouseID)
	return total, err
}

// RecordMovement appends an explicit inventory movement row
func (tx *Tx) RecordMovement(ctx context.Context, m *models.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (warehouse_id, product_id, kind, quantity, movement_day, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return tx.tx.GetContext(ctx, m, query,
		m.WarehouseID, m.ProductID, m.Kind, m.Quantity, m.MovementDay, m.Reference)
}

// SumShippedOnDay totals the outbound units recorded for one calendar day.
// Reading the movement log instead of an in-memory counter keeps the figure
// stable across repeated ticks of the same day.
func (tx *Tx) SumShippedOnDay(ctx context.Context, warehouseID int64, day time.Time) (int, error) {
	var total int
	err := tx.tx.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(quantity), 0) FROM inventory_movements
		WHERE warehouse_id = $1 AND kind = $2 AND movement_day = $3`,
		warehouseID, models.MovementOutboundSale, day)
	return total, err
}

// GetMetricState retrieves the metric row for a warehouse, nil when absent
func (tx *Tx) GetMetricState(ctx context.Context, warehouseID int64, metricType string) (*models.MetricState, error) {
	var ms models.MetricState
	err := tx.tx.GetContext(ctx, &ms,
		"SELECT * FROM metric_states WHERE warehouse_id = $1 AND metric_type = $2",
		warehouseID, metricType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ms, nil
}

// SetMetricCount overwrites the count for a metric, creating the row at
// level 0 when the warehouse has none yet.
func (tx *Tx) SetMetricCount(ctx context.Context, warehouseID int64, metricType string, count int) error {
	_, err := tx.tx.ExecContext(ctx, `
		INSERT INTO metric_states (warehouse_id, metric_type, level, count, updated_at)
		VALUES ($1, $2, 0, $3, NOW())
		ON CONFLICT (warehouse_id, metric_type)
		DO UPDATE SET count = $3, updated_at = NOW()`,
		warehouseID, metricType, count)
	return err
}

// GetCapacityConfig retrieves the level-to-capacity row, nil when the level
// has no configuration.
func (tx *Tx) GetCapacityConfig(ctx context.Context, level int) (*models.CapacityConfig, error) {
	var cc models.CapacityConfig
	err := tx.tx.GetContext(ctx, &cc,
		"SELECT * FROM capacity_configs WHERE level = $1", level)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cc, nil
}
