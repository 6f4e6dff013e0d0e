// Package settlement closes payout periods: it aggregates fulfilled sales,
// decomposes fees per product, posts ledger entries exactly once, restocks
// returned units, and emits best-effort player notifications.
package settlement

import (
	"context"
	"fmt"
	"time"

	"economy-engine/internal/broker"
	"economy-engine/internal/calendar"
	"economy-engine/internal/models"
	"economy-engine/internal/redisclient"
	"economy-engine/internal/store"
	"economy-engine/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// High-return-risk thresholds: a category is flagged when its return rate
// reaches 10% over at least 20 fulfilled units.
const (
	RiskReturnRateBps   = 1000
	RiskMinFulfilledQty = 20
)

// How long notification dedupe keys stick around
const notifyDedupeTTL = 30 * 24 * time.Hour

// Engine builds settlements and posts their financial movements
type Engine struct {
	store     *store.Store
	redis     *redisclient.Client
	publisher *broker.EventPublisher
	logger    *zap.Logger
	txTimeout time.Duration
}

// NewEngine creates a new settlement engine
func NewEngine(st *store.Store, redis *redisclient.Client, publisher *broker.EventPublisher, txTimeout time.Duration) *Engine {
	return &Engine{
		store:     st,
		redis:     redis,
		publisher: publisher,
		logger:    util.GetLogger(),
		txTimeout: txTimeout,
	}
}

// Result is the settlement output exposed to collaborators
type Result struct {
	SettlementID  int64  `json:"settlement_id"`
	PeriodStart   string `json:"period_start"`
	PeriodEnd     string `json:"period_end"`
	TotalNetCents int64  `json:"total_net_cents"`
	AlreadyPosted bool   `json:"already_posted"`
}

// lineWithCategory pairs a settlement line with its product category for
// the risk notification phase.
type lineWithCategory struct {
	line     models.SettlementLine
	category string
}

// Run settles the period belonging to payoutDay for one warehouse. The
// financial phase is one transaction guarded by the (company, warehouse,
// period) idempotency key; notifications run afterwards, best-effort, and
// never roll anything back.
func (e *Engine) Run(ctx context.Context, warehouseID int64, payoutDay calendar.DayKey) (*Result, error) {
	ctx, span := util.StartSpan(ctx, "Settlement.Run")
	defer span.End()

	start := time.Now()
	defer func() {
		util.SettlementDuration.Observe(time.Since(start).Seconds())
	}()

	periodStart, periodEnd, err := PeriodForPayoutDay(payoutDay)
	if err != nil {
		return nil, err
	}

	result := &Result{PeriodStart: periodStart.String(), PeriodEnd: periodEnd.String()}
	var settlement *models.Settlement
	var lines []lineWithCategory

	err = e.store.RunInTx(ctx, e.txTimeout, func(ctx context.Context, tx *store.Tx) error {
		wh, err := tx.GetWarehouse(ctx, warehouseID)
		if err != nil {
			return err
		}

		existing, err := tx.GetSettlementByPeriod(ctx, wh.CompanyID, wh.ID, periodStart.Time(), periodEnd.Time())
		if err != nil {
			return fmt.Errorf("failed to check existing settlement: %w", err)
		}
		if existing != nil {
			settlement = existing
			result.AlreadyPosted = true
			return nil
		}

		settlement, lines, err = e.buildSettlement(ctx, tx, wh, periodStart, periodEnd)
		return err
	})
	if err != nil {
		util.SettlementsFailedTotal.Inc()
		return nil, err
	}

	result.SettlementID = settlement.ID
	result.TotalNetCents = settlement.TotalNetCents

	if result.AlreadyPosted {
		util.SettlementsDuplicateTotal.Inc()
		e.logger.Info("Settlement already posted for period",
			zap.Int64("warehouse_id", warehouseID),
			zap.Int64("settlement_id", settlement.ID))
		return result, nil
	}

	util.SettlementsPostedTotal.Inc()
	e.logger.Info("Settlement posted",
		zap.Int64("warehouse_id", warehouseID),
		zap.Int64("settlement_id", settlement.ID),
		zap.String("period_start", result.PeriodStart),
		zap.String("period_end", result.PeriodEnd),
		zap.Int64("net_cents", settlement.TotalNetCents))

	// Secondary phase: failures here are logged, never surfaced as a
	// settlement failure — the money is already committed.
	e.notify(ctx, settlement, lines)

	return result, nil
}

// buildSettlement creates the settlement, its per-product lines, the ledger
// postings and the return restock, all within the caller's transaction.
func (e *Engine) buildSettlement(ctx context.Context, tx *store.Tx, wh *models.Warehouse, periodStart, periodEnd calendar.DayKey) (*models.Settlement, []lineWithCategory, error) {
	sales, err := tx.AggregateFulfilledSales(ctx, wh.ID, periodStart.Time(), periodEnd.Time())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	tier, err := tx.GetFeeTier(ctx, wh.Tier)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read fee tier: %w", err)
	}
	if tier == nil {
		e.logger.Warn("No fee tier config, using defaults",
			zap.Int64("warehouse_id", wh.ID),
			zap.Int("tier", wh.Tier))
		tier = defaultFeeTier(wh.Tier)
	}

	settlement := &models.Settlement{
		CompanyID:   wh.CompanyID,
		WarehouseID: wh.ID,
		PeriodStart: periodStart.Time(),
		PeriodEnd:   periodEnd.Time(),
	}
	if err := tx.CreateSettlement(ctx, settlement); err != nil {
		return nil, nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	var lines []lineWithCategory
	for _, ps := range sales {
		baseFee := int64(DefaultShippingFeeCents)
		if ps.ShippingProfile.Valid {
			fee, err := tx.GetShippingFee(ctx, ps.ShippingProfile.String)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to read shipping fee: %w", err)
			}
			if fee != nil {
				baseFee = fee.BaseFeeCents
			}
		}

		line := ComputeLine(settlement.ID, ps.ProductID, ps.FulfilledQty, ps.UnitPriceCents, ps.GrossCents, tier, baseFee)
		if err := tx.CreateSettlementLine(ctx, &line); err != nil {
			return nil, nil, fmt.Errorf("failed to create settlement line: %w", err)
		}

		if line.ReturnQty > 0 {
			if err := tx.IncrementStock(ctx, wh.ID, ps.ProductID, line.ReturnQty); err != nil {
				return nil, nil, fmt.Errorf("failed to restock returns: %w", err)
			}
			movement := &models.InventoryMovement{
				WarehouseID: wh.ID,
				ProductID:   ps.ProductID,
				Kind:        models.MovementReturnIn,
				Quantity:    line.ReturnQty,
				MovementDay: periodEnd.Time(),
				Reference:   fmt.Sprintf("SETTLEMENT:%d", settlement.ID),
			}
			if err := tx.RecordMovement(ctx, movement); err != nil {
				return nil, nil, fmt.Errorf("failed to record return movement: %w", err)
			}
		}

		settlement.TotalGrossCents += line.GrossCents
		settlement.TotalCommissionCents += line.CommissionCents
		settlement.TotalLogisticsCents += line.LogisticsCents
		settlement.TotalReturnCents += line.ReturnDeductionCents
		settlement.TotalNetCents += line.NetCents

		lines = append(lines, lineWithCategory{line: line, category: ps.Category})
	}

	if err := tx.FinalizeSettlementTotals(ctx, settlement); err != nil {
		return nil, nil, fmt.Errorf("failed to finalize settlement: %w", err)
	}

	if err := e.postLedger(ctx, tx, wh, settlement); err != nil {
		return nil, nil, err
	}

	return settlement, lines, nil
}

// postLedger writes the period totals as separate ledger movements, each
// with a content-derived idempotency key so a retried transaction can never
// double-post.
func (e *Engine) postLedger(ctx context.Context, tx *store.Tx, wh *models.Warehouse, s *models.Settlement) error {
	postings := []struct {
		direction string
		amount    int64
		category  string
		kind      string
	}{
		{models.LedgerDirectionIn, s.TotalGrossCents, models.LedgerCategorySalesRevenue, "GROSS"},
		{models.LedgerDirectionOut, s.TotalCommissionCents, models.LedgerCategoryCommissionFee, "COMMISSION"},
		{models.LedgerDirectionOut, s.TotalLogisticsCents, models.LedgerCategoryLogisticsFee, "LOGISTICS"},
		{models.LedgerDirectionOut, s.TotalReturnCents, models.LedgerCategorySalesReturns, "RETURNS"},
	}

	for _, p := range postings {
		if p.amount == 0 {
			continue
		}
		inserted, err := tx.PostLedgerEntry(ctx, &models.LedgerEntry{
			CompanyID:      wh.CompanyID,
			WarehouseID:    wh.ID,
			Direction:      p.direction,
			AmountCents:    p.amount,
			Category:       p.category,
			Scope:          models.LedgerScopeWarehouse,
			IdempotencyKey: fmt.Sprintf("SETTLEMENT:%s:%d", p.kind, s.ID),
		})
		if err != nil {
			return fmt.Errorf("failed to post %s ledger entry: %w", p.kind, err)
		}
		if inserted {
			util.LedgerEntriesPostedTotal.Inc()
		}
	}
	return nil
}

// CategoryStats aggregates returns per product category
type CategoryStats struct {
	Category     string
	FulfilledQty int
	ReturnQty    int
}

// HighRiskCategories returns the categories whose period return rate meets
// the risk thresholds, in first-seen order.
func HighRiskCategories(lines []models.SettlementLine, categoryOf func(productID int64) string) []CategoryStats {
	byCategory := make(map[string]*CategoryStats)
	var order []string
	for _, l := range lines {
		cat := categoryOf(l.ProductID)
		stats, ok := byCategory[cat]
		if !ok {
			stats = &CategoryStats{Category: cat}
			byCategory[cat] = stats
			order = append(order, cat)
		}
		stats.FulfilledQty += l.FulfilledQty
		stats.ReturnQty += l.ReturnQty
	}

	var risky []CategoryStats
	for _, cat := range order {
		stats := byCategory[cat]
		if stats.FulfilledQty < RiskMinFulfilledQty {
			continue
		}
		if stats.ReturnQty*10000 >= stats.FulfilledQty*RiskReturnRateBps {
			risky = append(risky, *stats)
		}
	}
	return risky
}

// notify emits the settlement summary and any high-return-risk warnings,
// each at most once per settlement via redis dedupe keys.
func (e *Engine) notify(ctx context.Context, s *models.Settlement, lines []lineWithCategory) {
	first, err := e.redis.MarkOnce(ctx, fmt.Sprintf("settlement:%d:summary", s.ID), notifyDedupeTTL)
	if err != nil {
		e.logger.Error("Failed to check summary dedupe key", zap.Error(err))
	} else if first {
		event := &models.SettlementCompletedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeSettlementCompleted,
				Timestamp: time.Now(),
			},
			CompanyID:    s.CompanyID,
			WarehouseID:  s.WarehouseID,
			SettlementID: s.ID,
			PeriodStart:  calendar.DayKeyOf(s.PeriodStart).String(),
			PeriodEnd:    calendar.DayKeyOf(s.PeriodEnd).String(),
			GrossCents:   s.TotalGrossCents,
			NetCents:     s.TotalNetCents,
			ProductCount: len(lines),
		}
		if err := e.publisher.PublishSettlementCompleted(ctx, event); err != nil {
			e.logger.Error("Failed to publish settlement summary", zap.Error(err))
		} else {
			util.NotificationsPublishedTotal.WithLabelValues("settlement_completed").Inc()
		}
	}

	categoryOf := make(map[int64]string, len(lines))
	bare := make([]models.SettlementLine, 0, len(lines))
	for _, lc := range lines {
		categoryOf[lc.line.ProductID] = lc.category
		bare = append(bare, lc.line)
	}

	for _, stats := range HighRiskCategories(bare, func(id int64) string { return categoryOf[id] }) {
		key := fmt.Sprintf("settlement:%d:risk:%s", s.ID, stats.Category)
		first, err := e.redis.MarkOnce(ctx, key, notifyDedupeTTL)
		if err != nil {
			e.logger.Error("Failed to check risk dedupe key", zap.Error(err))
			continue
		}
		if !first {
			continue
		}

		event := &models.HighReturnRiskEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeHighReturnRisk,
				Timestamp: time.Now(),
			},
			CompanyID:     s.CompanyID,
			WarehouseID:   s.WarehouseID,
			SettlementID:  s.ID,
			Category:      stats.Category,
			FulfilledQty:  stats.FulfilledQty,
			ReturnQty:     stats.ReturnQty,
			ReturnRatePct: 100 * float64(stats.ReturnQty) / float64(stats.FulfilledQty),
		}
		if err := e.publisher.PublishHighReturnRisk(ctx, event); err != nil {
			e.logger.Error("Failed to publish return-risk warning",
				zap.String("category", stats.Category),
				zap.Error(err))
		} else {
			util.NotificationsPublishedTotal.WithLabelValues("high_return_risk").Inc()
		}
	}
}
