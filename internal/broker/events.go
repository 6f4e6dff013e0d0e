package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"economy-engine/internal/models"
	"economy-engine/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes player-facing notification events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishTickCompleted publishes the per-tick result
func (ep *EventPublisher) PublishTickCompleted(ctx context.Context, event *models.TickCompletedEvent) error {
	key := fmt.Sprintf("warehouse-%d", event.WarehouseID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishSettlementCompleted publishes the settlement summary
func (ep *EventPublisher) PublishSettlementCompleted(ctx context.Context, event *models.SettlementCompletedEvent) error {
	key := fmt.Sprintf("warehouse-%d", event.WarehouseID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishHighReturnRisk publishes the high-return-risk warning
func (ep *EventPublisher) PublishHighReturnRisk(ctx context.Context, event *models.HighReturnRiskEvent) error {
	key := fmt.Sprintf("warehouse-%d", event.WarehouseID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// CommandHandler routes scheduler commands to the registered callbacks
type CommandHandler struct {
	onTickRequested       func(context.Context, *models.TickRequestedCommand) error
	onSettlementRequested func(context.Context, *models.SettlementRequestedCommand) error
	logger                *zap.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler() *CommandHandler {
	return &CommandHandler{logger: util.GetLogger()}
}

// OnTickRequested registers a handler for tick commands
func (ch *CommandHandler) OnTickRequested(handler func(context.Context, *models.TickRequestedCommand) error) {
	ch.onTickRequested = handler
}

// OnSettlementRequested registers a handler for settlement commands
func (ch *CommandHandler) OnSettlementRequested(handler func(context.Context, *models.SettlementRequestedCommand) error) {
	ch.onSettlementRequested = handler
}

// HandleMessage routes messages to appropriate handlers
func (ch *CommandHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var base models.BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	ch.logger.Debug("Handling command",
		zap.String("type", base.EventType),
		zap.String("id", base.EventID))

	switch base.EventType {
	case models.CommandTypeTickRequested:
		if ch.onTickRequested != nil {
			var cmd models.TickRequestedCommand
			if err := json.Unmarshal(msg.Value, &cmd); err != nil {
				return fmt.Errorf("failed to unmarshal tick command: %w", err)
			}
			return ch.onTickRequested(ctx, &cmd)
		}

	case models.CommandTypeSettlementRequested:
		if ch.onSettlementRequested != nil {
			var cmd models.SettlementRequestedCommand
			if err := json.Unmarshal(msg.Value, &cmd); err != nil {
				return fmt.Errorf("failed to unmarshal settlement command: %w", err)
			}
			return ch.onSettlementRequested(ctx, &cmd)
		}

	default:
		ch.logger.Warn("Unhandled command type", zap.String("type", base.EventType))
	}

	return nil
}
