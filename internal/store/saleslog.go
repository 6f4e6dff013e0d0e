package store

import (
	"context"
	"time"

	"economy-engine/internal/models"
)

// UpsertDailySalesLog writes the audit row for (listing, day). Step A calls
// this unconditionally for every evaluated listing, so re-running a day
// refreshes the row instead of duplicating it.
func (tx *Tx) UpsertDailySalesLog(ctx context.Context, l *models.DailySalesLog) error {
	query := `
		INSERT INTO daily_sales_logs (
			warehouse_id, listing_id, product_id, log_day,
			base_qty, boost_pos_pct, boost_neg_pct, units_after_boost,
			price_multiplier, season_score, awareness,
			desired_qty, ordered_qty, shipped_qty,
			missing_base_qty, missing_scenario, price_blocked, season_blocked,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0,
			$14, $15, $16, $17, NOW()
		)
		ON CONFLICT (listing_id, log_day) DO UPDATE SET
			base_qty = EXCLUDED.base_qty,
			boost_pos_pct = EXCLUDED.boost_pos_pct,
			boost_neg_pct = EXCLUDED.boost_neg_pct,
			units_after_boost = EXCLUDED.units_after_boost,
			price_multiplier = EXCLUDED.price_multiplier,
			season_score = EXCLUDED.season_score,
			awareness = EXCLUDED.awareness,
			desired_qty = EXCLUDED.desired_qty,
			ordered_qty = EXCLUDED.ordered_qty,
			missing_base_qty = EXCLUDED.missing_base_qty,
			missing_scenario = EXCLUDED.missing_scenario,
			price_blocked = EXCLUDED.price_blocked,
			season_blocked = EXCLUDED.season_blocked,
			updated_at = NOW()
		RETURNING id`

	return tx.tx.GetContext(ctx, &l.ID, query,
		l.WarehouseID, l.ListingID, l.ProductID, l.LogDay,
		l.BaseQty, l.BoostPosPct, l.BoostNegPct, l.UnitsAfterBoost,
		l.PriceMultiplier, l.SeasonScore, l.Awareness,
		l.DesiredQty, l.OrderedQty,
		l.MissingBaseQty, l.MissingScenario, l.PriceBlocked, l.SeasonBlocked)
}

// AddLogShipment bumps the shipped count on the (listing, originating day)
// log row; fulfillment may land days after the row was written.
func (tx *Tx) AddLogShipment(ctx context.Context, listingID int64, day time.Time, qty int) error {
	_, err := tx.tx.ExecContext(ctx, `
		UPDATE daily_sales_logs
		SET shipped_qty = shipped_qty + $1, updated_at = NOW()
		WHERE listing_id = $2 AND log_day = $3`,
		qty, listingID, day)
	return err
}

// GetSalesLogs retrieves the audit rows for a warehouse and day
func (s *Store) GetSalesLogs(ctx context.Context, warehouseID int64, day time.Time) ([]models.DailySalesLog, error) {
	var logs []models.DailySalesLog
	err := s.db.SelectContext(ctx, &logs, `
		SELECT * FROM daily_sales_logs
		WHERE warehouse_id = $1 AND log_day = $2
		ORDER BY listing_id`,
		warehouseID, day)
	return logs, err
}
