package store

import (
	"context"
	"database/sql"
	"time"

	"economy-engine/internal/models"
)

// GetSettlementByPeriod is the settlement idempotency gate: nil means the
// period has not been settled yet.
func (tx *Tx) GetSettlementByPeriod(ctx context.Context, companyID, warehouseID int64, periodStart, periodEnd time.Time) (*models.Settlement, error) {
	var s models.Settlement
	err := tx.tx.GetContext(ctx, &s, `
		SELECT * FROM settlements
		WHERE company_id = $1 AND warehouse_id = $2 AND period_start = $3 AND period_end = $4`,
		companyID, warehouseID, periodStart, periodEnd)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSettlement inserts the settlement shell; totals are filled in once
// all lines are computed, before the transaction commits.
func (tx *Tx) CreateSettlement(ctx context.Context, s *models.Settlement) error {
	query := `
		INSERT INTO settlements (company_id, warehouse_id, period_start, period_end,
			total_gross_cents, total_commission_cents, total_logistics_cents, total_return_cents, total_net_cents)
		VALUES ($1, $2, $3, $4, 0, 0, 0, 0, 0)
		RETURNING id, created_at`

	return tx.tx.GetContext(ctx, s, query,
		s.CompanyID, s.WarehouseID, s.PeriodStart, s.PeriodEnd)
}

// FinalizeSettlementTotals writes the aggregated totals onto the settlement
func (tx *Tx) FinalizeSettlementTotals(ctx context.Context, s *models.Settlement) error {
	_, err := tx.tx.ExecContext(ctx, `
		UPDATE settlements
		SET total_gross_cents = $1, total_commission_cents = $2, total_logistics_cents = $3,
			total_return_cents = $4, total_net_cents = $5
		WHERE id = $6`,
		s.TotalGrossCents, s.TotalCommissionCents, s.TotalLogisticsCents,
		s.TotalReturnCents, s.TotalNetCents, s.ID)
	return err
}

// CreateSettlementLine persists one immutable per-product fee decomposition
func (tx *Tx) CreateSettlementLine(ctx context.Context, l *models.SettlementLine) error {
	query := `
		INSERT INTO settlement_lines (settlement_id, product_id,
			fulfilled_qty, unit_price_cents, gross_cents,
			commission_bps, commission_cents,
			shipping_base_fee_cents, logistics_cents,
			return_rate_bps, return_qty, return_deduction_cents, net_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	return tx.tx.GetContext(ctx, &l.ID, query,
		l.SettlementID, l.ProductID,
		l.FulfilledQty, l.UnitPriceCents, l.GrossCents,
		l.CommissionBps, l.CommissionCents,
		l.ShippingBaseFeeCents, l.LogisticsCents,
		l.ReturnRateBps, l.ReturnQty, l.ReturnDeductionCents, l.NetCents)
}

// ProductSales is the per-product aggregate of fulfilled demand in a period
type ProductSales struct {
	ProductID       int64          `db:"product_id"`
	Category        string         `db:"category"`
	ShippingProfile sql.NullString `db:"shipping_profile"`
	FulfilledQty    int            `db:"fulfilled_qty"`
	GrossCents      int64          `db:"gross_cents"`
	UnitPriceCents  int64          `db:"unit_price_cents"`
}

// AggregateFulfilledSales groups fulfilled order lines whose originating
// order day falls inside [periodStart, periodEnd] by product. Gross is
// price-at-time-of-sale times fulfilled quantity.
func (tx *Tx) AggregateFulfilledSales(ctx context.Context, warehouseID int64, periodStart, periodEnd time.Time) ([]ProductSales, error) {
	var rows []ProductSales
	err := tx.tx.SelectContext(ctx, &rows, `
		SELECT ol.product_id,
			p.category,
			p.shipping_profile,
			SUM(ol.fulfilled_qty)::int AS fulfilled_qty,
			SUM(ol.fulfilled_qty * ol.unit_price_cents) AS gross_cents,
			MAX(ol.unit_price_cents) AS unit_price_cents
		FROM order_lines ol
		JOIN orders o ON o.id = ol.order_id
		JOIN products p ON p.id = ol.product_id
		WHERE o.warehouse_id = $1
			AND o.order_day BETWEEN $2 AND $3
			AND ol.fulfilled_qty > 0
		GROUP BY ol.product_id, p.category, p.shipping_profile
		ORDER BY ol.product_id`,
		warehouseID, periodStart, periodEnd)
	return rows, err
}

// GetFeeTier retrieves fee parameters for a tier, nil when unconfigured
func (tx *Tx) GetFeeTier(ctx context.Context, tier int) (*models.FeeTier, error) {
	var ft models.FeeTier
	err := tx.tx.GetContext(ctx, &ft, "SELECT * FROM fee_tiers WHERE tier = $1", tier)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ft, nil
}

// GetShippingFee retrieves the per-unit base fee for a shipping profile,
// nil when the profile is unmapped.
func (tx *Tx) GetShippingFee(ctx context.Context, profile string) (*models.ShippingFee, error) {
	var sf models.ShippingFee
	err := tx.tx.GetContext(ctx, &sf, "SELECT * FROM shipping_fees WHERE profile = $1", profile)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sf, nil
}

// GetSettlement retrieves a settlement with its lines for reporting
func (s *Store) GetSettlement(ctx context.Context, id int64) (*models.Settlement, []models.SettlementLine, error) {
	var settlement models.Settlement
	err := s.db.GetContext(ctx, &settlement, "SELECT * FROM settlements WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var lines []models.SettlementLine
	err = s.db.SelectContext(ctx, &lines,
		"SELECT * FROM settlement_lines WHERE settlement_id = $1 ORDER BY product_id", id)
	if err != nil {
		return nil, nil, err
	}
	return &settlement, lines, nil
}
