package models

import "time"

// Event types
const (
	EventTypeTickCompleted       = "TICK_COMPLETED"
	EventTypeSettlementCompleted = "SETTLEMENT_COMPLETED"
	EventTypeHighReturnRisk      = "HIGH_RETURN_RISK"
)

// Command types consumed from the scheduler topic
const (
	CommandTypeTickRequested       = "TICK_REQUESTED"
	CommandTypeSettlementRequested = "SETTLEMENT_REQUESTED"
)

// TickRequestedCommand asks the engine to run one (warehouse, day) tick
type TickRequestedCommand struct {
	BaseEvent
	WarehouseID int64  `json:"warehouse_id"`
	Day         string `json:"day"`
}

// SettlementRequestedCommand asks the engine to settle a payout day
type SettlementRequestedCommand struct {
	BaseEvent
	WarehouseID int64  `json:"warehouse_id"`
	PayoutDay   string `json:"payout_day"`
}

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// TickCompletedEvent published after a (warehouse, day) tick commits
type TickCompletedEvent struct {
	BaseEvent
	WarehouseID    int64  `json:"warehouse_id"`
	Day            string `json:"day"`
	OrderCreated   bool   `json:"order_created"`
	LinesFulfilled int    `json:"lines_fulfilled"`
	UnitsShipped   int    `json:"units_shipped"`
}

// SettlementCompletedEvent is the player-facing payout summary, emitted at
// most once per settlement.
type SettlementCompletedEvent struct {
	BaseEvent
	CompanyID    int64  `json:"company_id"`
	WarehouseID  int64  `json:"warehouse_id"`
	SettlementID int64  `json:"settlement_id"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	GrossCents   int64  `json:"gross_cents"`
	NetCents     int64  `json:"net_cents"`
	ProductCount int    `json:"product_count"`
}

// HighReturnRiskEvent warns about a product category whose return rate
// crossed the risk threshold in a settlement period.
type HighReturnRiskEvent struct {
	BaseEvent
	CompanyID     int64   `json:"company_id"`
	WarehouseID   int64   `json:"warehouse_id"`
	SettlementID  int64   `json:"settlement_id"`
	Category      string  `json:"category"`
	FulfilledQty  int     `json:"fulfilled_qty"`
	ReturnQty     int     `json:"return_qty"`
	ReturnRatePct float64 `json:"return_rate_pct"`
}
