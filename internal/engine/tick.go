// Package engine runs the daily economic simulation for one warehouse:
// demand generation (Step A) followed by capacity-constrained fulfillment
// (Step B), both inside a single transaction per (warehouse, day).
package engine

import (
	"context"
	"time"

	"economy-engine/internal/calendar"
	"economy-engine/internal/store"
	"economy-engine/internal/util"

	"go.uber.org/zap"
)

// Engine drives day ticks. Callers must serialize ticks per warehouse; the
// engine does not lock internally.
type Engine struct {
	store     *store.Store
	logger    *zap.Logger
	txTimeout time.Duration
}

// NewEngine creates a new tick engine
func NewEngine(st *store.Store, txTimeout time.Duration) *Engine {
	return &Engine{
		store:     st,
		logger:    util.GetLogger(),
		txTimeout: txTimeout,
	}
}

// TickResult is the per-tick output exposed to collaborators
type TickResult struct {
	WarehouseID    int64  `json:"warehouse_id"`
	Day            string `json:"day"`
	OrderCreated   bool   `json:"order_created"`
	LinesFulfilled int    `json:"lines_fulfilled"`
	UnitsShipped   int    `json:"units_shipped"`
}

// RunDayTick executes Step A and Step B for (warehouse, day) as one atomic
// unit. Invoking it twice for the same day is safe: order creation is a
// no-op the second time and log rows are upserted, not duplicated.
func (e *Engine) RunDayTick(ctx context.Context, warehouseID int64, day calendar.DayKey) (*TickResult, error) {
	ctx, span := util.StartSpan(ctx, "Engine.RunDayTick")
	defer span.End()

	start := time.Now()
	defer func() {
		util.TickDuration.Observe(time.Since(start).Seconds())
	}()

	result := &TickResult{WarehouseID: warehouseID, Day: day.String()}

	err := e.store.RunInTx(ctx, e.txTimeout, func(ctx context.Context, tx *store.Tx) error {
		wh, err := tx.GetWarehouse(ctx, warehouseID)
		if err != nil {
			return err
		}

		orderCreated, err := e.runDemandStep(ctx, tx, wh, day)
		if err != nil {
			return err
		}
		result.OrderCreated = orderCreated

		outcome, err := e.runFulfillmentStep(ctx, tx, wh, day)
		if err != nil {
			return err
		}
		result.LinesFulfilled = outcome.LinesFulfilled
		result.UnitsShipped = outcome.UnitsShipped
		return nil
	})
	if err != nil {
		util.TicksFailedTotal.Inc()
		return nil, err
	}

	util.TicksCompletedTotal.Inc()
	if result.OrderCreated {
		util.OrdersCreatedTotal.Inc()
	}
	util.UnitsShippedTotal.Add(float64(result.UnitsShipped))

	e.logger.Info("Day tick completed",
		zap.Int64("warehouse_id", warehouseID),
		zap.String("day", day.String()),
		zap.Bool("order_created", result.OrderCreated),
		zap.Int("lines_fulfilled", result.LinesFulfilled),
		zap.Int("units_shipped", result.UnitsShipped))

	return result, nil
}
