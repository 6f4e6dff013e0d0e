// Package worker consumes scheduler commands and drives the simulation.
// The external scheduler decides when a day happens; the worker only makes
// sure each warehouse processes it exactly once and serially.
package worker

import (
	"context"
	"errors"
	"time"

	"economy-engine/internal/broker"
	"economy-engine/internal/calendar"
	"economy-engine/internal/engine"
	"economy-engine/internal/models"
	"economy-engine/internal/redisclient"
	"economy-engine/internal/settlement"
	"economy-engine/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errWarehouseBusy leaves a command uncommitted. Kafka commits are cumulative
// per partition, so a later commit can still move the offset past it; the
// command is only guaranteed to come back after a rebalance or restart, and
// every operation is idempotent either way.
var errWarehouseBusy = errors.New("warehouse is locked by another simulation run")

// SimulationWorker handles tick and settlement commands from Kafka
type SimulationWorker struct {
	consumer    *broker.Consumer
	handler     *broker.CommandHandler
	tickEngine  *engine.Engine
	settlements *settlement.Engine
	redis       *redisclient.Client
	publisher   *broker.EventPublisher
	lockTTL     time.Duration
	loc         *time.Location
	payoutDays  []int
	logger      *zap.Logger
}

// NewSimulationWorker creates a new simulation worker
func NewSimulationWorker(
	consumer *broker.Consumer,
	tickEngine *engine.Engine,
	settlements *settlement.Engine,
	redis *redisclient.Client,
	publisher *broker.EventPublisher,
	lockTTL time.Duration,
	loc *time.Location,
	payoutDays []int,
) *SimulationWorker {
	if loc == nil {
		loc = time.UTC
	}
	w := &SimulationWorker{
		consumer:    consumer,
		tickEngine:  tickEngine,
		settlements: settlements,
		redis:       redis,
		publisher:   publisher,
		lockTTL:     lockTTL,
		loc:         loc,
		payoutDays:  payoutDays,
		logger:      util.GetLogger(),
	}

	handler := broker.NewCommandHandler()
	handler.OnTickRequested(w.handleTickRequested)
	handler.OnSettlementRequested(w.handleSettlementRequested)
	w.handler = handler

	return w
}

// Start starts the worker
func (w *SimulationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting simulation worker")
	return w.consumer.StartConsuming(ctx, w.handler.HandleMessage)
}

// Stop stops the worker
func (w *SimulationWorker) Stop() error {
	w.logger.Info("Stopping simulation worker")
	return w.consumer.Close()
}

// handleTickRequested runs one (warehouse, day) tick under the warehouse
// lock. Redelivered commands are harmless: the tick is idempotent per day.
func (w *SimulationWorker) handleTickRequested(ctx context.Context, cmd *models.TickRequestedCommand) error {
	// An omitted day means "today" in the reference timezone.
	day := calendar.DayKeyAt(time.Now(), w.loc)
	if cmd.Day != "" {
		var err error
		day, err = calendar.ParseDayKey(cmd.Day)
		if err != nil {
			// A malformed command can never succeed; drop it instead of
			// letting the consumer redeliver forever.
			w.logger.Error("Dropping malformed tick command",
				zap.String("day", cmd.Day),
				zap.Error(err))
			return nil
		}
	}

	release, ok, err := w.lockWarehouse(ctx, cmd.WarehouseID)
	if err != nil {
		return err
	}
	if !ok {
		w.logger.Warn("Warehouse busy, tick command left uncommitted",
			zap.Int64("warehouse_id", cmd.WarehouseID))
		return errWarehouseBusy
	}
	defer release()

	result, err := w.tickEngine.RunDayTick(ctx, cmd.WarehouseID, day)
	if err != nil {
		return err
	}

	event := &models.TickCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeTickCompleted,
			Timestamp: time.Now(),
		},
		WarehouseID:    result.WarehouseID,
		Day:            result.Day,
		OrderCreated:   result.OrderCreated,
		LinesFulfilled: result.LinesFulfilled,
		UnitsShipped:   result.UnitsShipped,
	}
	if err := w.publisher.PublishTickCompleted(ctx, event); err != nil {
		w.logger.Error("Failed to publish tick result", zap.Error(err))
	}
	return nil
}

// handleSettlementRequested runs a settlement build under the warehouse lock
func (w *SimulationWorker) handleSettlementRequested(ctx context.Context, cmd *models.SettlementRequestedCommand) error {
	payoutDay := calendar.DayKeyAt(time.Now(), w.loc)
	if cmd.PayoutDay != "" {
		var err error
		payoutDay, err = calendar.ParseDayKey(cmd.PayoutDay)
		if err != nil {
			w.logger.Error("Dropping malformed settlement command",
				zap.String("payout_day", cmd.PayoutDay),
				zap.Error(err))
			return nil
		}
	}

	// The company's payout schedule gates settlement: a command for any
	// other day is acknowledged and skipped, never retried.
	if !settlement.IsPayoutDay(payoutDay, w.payoutDays) {
		w.logger.Warn("Skipping settlement command for non-payout day",
			zap.Int64("warehouse_id", cmd.WarehouseID),
			zap.String("payout_day", payoutDay.String()))
		return nil
	}

	release, ok, err := w.lockWarehouse(ctx, cmd.WarehouseID)
	if err != nil {
		return err
	}
	if !ok {
		w.logger.Warn("Warehouse busy, settlement command left uncommitted",
			zap.Int64("warehouse_id", cmd.WarehouseID))
		return errWarehouseBusy
	}
	defer release()

	_, err = w.settlements.Run(ctx, cmd.WarehouseID, payoutDay)
	return err
}

func (w *SimulationWorker) lockWarehouse(ctx context.Context, warehouseID int64) (func(), bool, error) {
	ok, err := w.redis.AcquireWarehouseLock(ctx, warehouseID, w.lockTTL)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		if err := w.redis.ReleaseWarehouseLock(context.Background(), warehouseID); err != nil {
			w.logger.Error("Failed to release warehouse lock",
				zap.Int64("warehouse_id", warehouseID),
				zap.Error(err))
		}
	}
	return release, true, nil
}
