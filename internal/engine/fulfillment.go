package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"economy-engine/internal/calendar"
	"economy-engine/internal/models"
	"economy-engine/internal/store"
	"economy-engine/internal/util"

	"go.uber.org/zap"
)

// PlanLine is one backlog entry as the shipment planner sees it
type PlanLine struct {
	LineID    int64
	ListingID int64
	ProductID int64
	OrderDay  time.Time
	Remaining int
}

// Shipment is a planned stock movement for one backlog line
type Shipment struct {
	LineID    int64
	ListingID int64
	ProductID int64
	OrderDay  time.Time
	Qty       int
}

// PlanShipments drains the backlog strictly in the given FIFO order against
// a capacity ceiling and the stock map. A line that cannot ship (no stock)
// is skipped without consuming capacity. stock is mutated as units are
// allocated so multiple lines for one product share the same pool.
func PlanShipments(lines []PlanLine, capacity int, stock map[int64]int) []Shipment {
	var plan []Shipment
	for _, line := range lines {
		if capacity <= 0 {
			break
		}

		ship := line.Remaining
		if ship > capacity {
			ship = capacity
		}
		if avail := stock[line.ProductID]; ship > avail {
			ship = avail
		}
		if ship <= 0 {
			continue
		}

		stock[line.ProductID] -= ship
		capacity -= ship
		plan = append(plan, Shipment{
			LineID:    line.LineID,
			ListingID: line.ListingID,
			ProductID: line.ProductID,
			OrderDay:  line.OrderDay,
			Qty:       ship,
		})
	}
	return plan
}

// fulfillmentOutcome summarizes one Step B pass
type fulfillmentOutcome struct {
	LinesFulfilled int
	UnitsShipped   int
}

// runFulfillmentStep ships the oldest backlog first under today's capacity,
// then refreshes the warehouse metrics. Capacity and stock are the only
// throttles; whatever stays unserved simply remains backlog for the next
// tick.
func (e *Engine) runFulfillmentStep(ctx context.Context, tx *store.Tx, wh *models.Warehouse, day calendar.DayKey) (fulfillmentOutcome, error) {
	var out fulfillmentOutcome

	capacity, err := e.resolveCapacity(ctx, tx, wh.ID)
	if err != nil {
		return out, err
	}

	backlog, err := tx.GetBacklog(ctx, wh.ID)
	if err != nil {
		return out, fmt.Errorf("failed to load backlog: %w", err)
	}

	lines := make([]PlanLine, 0, len(backlog))
	stock := make(map[int64]int)
	backlogUnits := 0
	for _, b := range backlog {
		backlogUnits += b.OrderedQty - b.FulfilledQty
		lines = append(lines, PlanLine{
			LineID:    b.ID,
			ListingID: b.ListingID,
			ProductID: b.ProductID,
			OrderDay:  b.OrderDay,
			Remaining: b.OrderedQty - b.FulfilledQty,
		})
		if _, seen := stock[b.ProductID]; !seen {
			qty, err := tx.GetOnHandQty(ctx, wh.ID, b.ProductID)
			if err != nil {
				return out, fmt.Errorf("failed to read stock: %w", err)
			}
			stock[b.ProductID] = qty
		}
	}

	plan := PlanShipments(lines, capacity, stock)

	for _, s := range plan {
		remaining, err := tx.DecrementStock(ctx, wh.ID, s.ProductID, s.Qty)
		if err != nil {
			return out, fmt.Errorf("failed to decrement stock: %w", err)
		}

		movement := &models.InventoryMovement{
			WarehouseID: wh.ID,
			ProductID:   s.ProductID,
			Kind:        models.MovementOutboundSale,
			Quantity:    s.Qty,
			MovementDay: day.Time(),
			Reference:   fmt.Sprintf("ORDER_LINE:%d", s.LineID),
		}
		if err := tx.RecordMovement(ctx, movement); err != nil {
			return out, fmt.Errorf("failed to record movement: %w", err)
		}

		if err := tx.AddLineShipment(ctx, s.LineID, s.Qty); err != nil {
			return out, err
		}

		// The log row lives on the line's originating day, not today.
		if err := tx.AddLogShipment(ctx, s.ListingID, s.OrderDay, s.Qty); err != nil {
			return out, fmt.Errorf("failed to update sales log shipment: %w", err)
		}

		if remaining == 0 {
			if err := tx.DeleteListingByProduct(ctx, wh.ID, s.ProductID); err != nil {
				return out, fmt.Errorf("failed to delete exhausted listing: %w", err)
			}
		}

		out.LinesFulfilled++
		out.UnitsShipped += s.Qty
	}

	// SALES_COUNT is a per-day snapshot: overwrite with today's total even
	// when nothing shipped. The total comes from the movement log, not this
	// pass's counter, so re-ticking a day keeps earlier shipments. STOCK_COUNT
	// is recomputed from live inventory so any drift self-heals.
	shippedToday, err := tx.SumShippedOnDay(ctx, wh.ID, day.Time())
	if err != nil {
		return out, fmt.Errorf("failed to sum shipped units: %w", err)
	}
	if err := tx.SetMetricCount(ctx, wh.ID, models.MetricSalesCount, shippedToday); err != nil {
		return out, fmt.Errorf("failed to update sales metric: %w", err)
	}
	totalStock, err := tx.SumOnHand(ctx, wh.ID)
	if err != nil {
		return out, fmt.Errorf("failed to sum stock: %w", err)
	}
	if err := tx.SetMetricCount(ctx, wh.ID, models.MetricStockCount, totalStock); err != nil {
		return out, fmt.Errorf("failed to update stock metric: %w", err)
	}

	util.BacklogUnits.WithLabelValues(strconv.FormatInt(wh.ID, 10)).
		Set(float64(backlogUnits - out.UnitsShipped))

	return out, nil
}

// resolveCapacity looks up the capacity for the warehouse's current
// SALES_COUNT level. No metric row or no capacity row means zero capacity:
// the engine fails closed, not open.
func (e *Engine) resolveCapacity(ctx context.Context, tx *store.Tx, warehouseID int64) (int, error) {
	level := 0
	metric, err := tx.GetMetricState(ctx, warehouseID, models.MetricSalesCount)
	if err != nil {
		return 0, fmt.Errorf("failed to read sales metric: %w", err)
	}
	if metric != nil {
		level = metric.Level
	}

	cfg, err := tx.GetCapacityConfig(ctx, level)
	if err != nil {
		return 0, fmt.Errorf("failed to read capacity config: %w", err)
	}
	if cfg == nil {
		e.logger.Warn("No capacity config for level, defaulting to zero",
			zap.Int64("warehouse_id", warehouseID),
			zap.Int("level", level))
		return 0, nil
	}
	return cfg.DailyCapacity, nil
}
