package models

import (
	"database/sql"
	"time"
)

// Warehouse is the unit of simulation: every day tick and every settlement
// run is scoped to exactly one warehouse.
type Warehouse struct {
	ID         int64   `db:"id" json:"id"`
	CompanyID  int64   `db:"company_id" json:"company_id"`
	Name       string  `db:"name" json:"name"`
	MarketZone string  `db:"market_zone" json:"market_zone"`
	Hemisphere string  `db:"hemisphere" json:"hemisphere"`
	Tier       int     `db:"tier" json:"tier"`
	Awareness  float64 `db:"awareness" json:"awareness"`
	Archived   bool    `db:"archived" json:"archived"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Product represents a sellable product in the catalog
type Product struct {
	ID              int64          `db:"id" json:"id"`
	SKU             string         `db:"sku" json:"sku"`
	Name            string         `db:"name" json:"name"`
	Category        string         `db:"category" json:"category"`
	ScenarioID      sql.NullInt64  `db:"scenario_id" json:"scenario_id,omitempty"`
	ShippingProfile sql.NullString `db:"shipping_profile" json:"shipping_profile,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// Listing is a product offered for sale at one warehouse. Boost, price and
// season columns are snapshots written by upstream collaborators; the engine
// only reads them (the season snapshot is refreshed at the start of a tick).
type Listing struct {
	ID          int64  `db:"id" json:"id"`
	WarehouseID int64  `db:"warehouse_id" json:"warehouse_id"`
	ProductID   int64  `db:"product_id" json:"product_id"`
	Status      string `db:"status" json:"status"`

	SalePriceCents int64 `db:"sale_price_cents" json:"sale_price_cents"`

	BaseQty    sql.NullInt64 `db:"base_qty" json:"base_qty,omitempty"`
	BaseMinQty int           `db:"base_min_qty" json:"base_min_qty"`
	BaseMaxQty int           `db:"base_max_qty" json:"base_max_qty"`
	BaseTier   int           `db:"base_tier" json:"base_tier"`

	BoostPosPct float64 `db:"boost_pos_pct" json:"boost_pos_pct"`
	BoostNegPct float64 `db:"boost_neg_pct" json:"boost_neg_pct"`

	PriceMultiplier float64 `db:"price_multiplier" json:"price_multiplier"`
	PriceBlocked    bool    `db:"price_blocked" json:"price_blocked"`

	SeasonScore   int  `db:"season_score" json:"season_score"`
	SeasonBlocked bool `db:"season_blocked" json:"season_blocked"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InventoryItem is the on-hand stock for one (warehouse, product)
type InventoryItem struct {
	ID           int64     `db:"id" json:"id"`
	WarehouseID  int64     `db:"warehouse_id" json:"warehouse_id"`
	ProductID    int64     `db:"product_id" json:"product_id"`
	OnHandQty    int       `db:"on_hand_qty" json:"on_hand_qty"`
	AvgCostCents int64     `db:"avg_cost_cents" json:"avg_cost_cents"`
	Archived     bool      `db:"archived" json:"archived"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// InventoryMovement is an explicit record of every stock mutation the engine
// performs (outbound on shipment, inbound on settlement returns).
type InventoryMovement struct {
	ID          int64     `db:"id" json:"id"`
	WarehouseID int64     `db:"warehouse_id" json:"warehouse_id"`
	ProductID   int64     `db:"product_id" json:"product_id"`
	Kind        string    `db:"kind" json:"kind"`
	Quantity    int       `db:"quantity" json:"quantity"`
	MovementDay time.Time `db:"movement_day" json:"movement_day"`
	Reference   string    `db:"reference" json:"reference"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Order holds the demand generated for one (warehouse, day); at most one
// exists per pair, enforced by a unique constraint.
type Order struct {
	ID          int64     `db:"id" json:"id"`
	WarehouseID int64     `db:"warehouse_id" json:"warehouse_id"`
	OrderDay    time.Time `db:"order_day" json:"order_day"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// OrderLine tracks ordered/fulfilled/shipped quantities for one listing on
// one order day. Fulfilled and shipped only ever increase; a line opened on
// day N may still be completed on day N+k.
type OrderLine struct {
	ID             int64 `db:"id" json:"id"`
	OrderID        int64 `db:"order_id" json:"order_id"`
	ListingID      int64 `db:"listing_id" json:"listing_id"`
	ProductID      int64 `db:"product_id" json:"product_id"`
	Seq            int   `db:"seq" json:"seq"`
	OrderedQty     int   `db:"ordered_qty" json:"ordered_qty"`
	FulfilledQty   int   `db:"fulfilled_qty" json:"fulfilled_qty"`
	ShippedQty     int   `db:"shipped_qty" json:"shipped_qty"`
	UnitPriceCents int64 `db:"unit_price_cents" json:"unit_price_cents"`
}

// DailySalesLog is the per-(listing, day) audit row Step A upserts on every
// evaluation, demand or no demand. One row per pair, gap free.
type DailySalesLog struct {
	ID          int64     `db:"id" json:"id"`
	WarehouseID int64     `db:"warehouse_id" json:"warehouse_id"`
	ListingID   int64     `db:"listing_id" json:"listing_id"`
	ProductID   int64     `db:"product_id" json:"product_id"`
	LogDay      time.Time `db:"log_day" json:"log_day"`

	BaseQty         int     `db:"base_qty" json:"base_qty"`
	BoostPosPct     float64 `db:"boost_pos_pct" json:"boost_pos_pct"`
	BoostNegPct     float64 `db:"boost_neg_pct" json:"boost_neg_pct"`
	UnitsAfterBoost float64 `db:"units_after_boost" json:"units_after_boost"`
	PriceMultiplier float64 `db:"price_multiplier" json:"price_multiplier"`
	SeasonScore     int     `db:"season_score" json:"season_score"`
	Awareness       float64 `db:"awareness" json:"awareness"`

	DesiredQty int `db:"desired_qty" json:"desired_qty"`
	OrderedQty int `db:"ordered_qty" json:"ordered_qty"`
	ShippedQty int `db:"shipped_qty" json:"shipped_qty"`

	MissingBaseQty  bool `db:"missing_base_qty" json:"missing_base_qty"`
	MissingScenario bool `db:"missing_scenario" json:"missing_scenario"`
	PriceBlocked    bool `db:"price_blocked" json:"price_blocked"`
	SeasonBlocked   bool `db:"season_blocked" json:"season_blocked"`

	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MetricState holds the current level and count for one warehouse metric.
// SALES_COUNT count is a daily snapshot; STOCK_COUNT count is recomputed
// from live inventory after every tick.
type MetricState struct {
	WarehouseID int64     `db:"warehouse_id" json:"warehouse_id"`
	MetricType  string    `db:"metric_type" json:"metric_type"`
	Level       int       `db:"level" json:"level"`
	Count       int       `db:"count" json:"count"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CapacityConfig maps a SALES_COUNT level to a daily shipping capacity
type CapacityConfig struct {
	Level         int `db:"level" json:"level"`
	DailyCapacity int `db:"daily_capacity" json:"daily_capacity"`
}

// FeeTier holds settlement fee parameters for one warehouse tier. Rates are
// basis points so the net-revenue identity stays exact in integer math.
type FeeTier struct {
	Tier                   int `db:"tier" json:"tier"`
	CommissionBps          int `db:"commission_bps" json:"commission_bps"`
	LogisticsMultiplierPct int `db:"logistics_multiplier_pct" json:"logistics_multiplier_pct"`
	ReturnRateMinBps       int `db:"return_rate_min_bps" json:"return_rate_min_bps"`
	ReturnRateMaxBps       int `db:"return_rate_max_bps" json:"return_rate_max_bps"`
}

// ShippingFee maps a shipping profile to a per-unit base fee
type ShippingFee struct {
	Profile      string `db:"profile" json:"profile"`
	BaseFeeCents int64  `db:"base_fee_cents" json:"base_fee_cents"`
}

// Settlement aggregates one closed payout period for one warehouse.
// Immutable once created; (company, warehouse, period) is the idempotency key.
type Settlement struct {
	ID          int64     `db:"id" json:"id"`
	CompanyID   int64     `db:"company_id" json:"company_id"`
	WarehouseID int64     `db:"warehouse_id" json:"warehouse_id"`
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time `db:"period_end" json:"period_end"`

	TotalGrossCents      int64 `db:"total_gross_cents" json:"total_gross_cents"`
	TotalCommissionCents int64 `db:"total_commission_cents" json:"total_commission_cents"`
	TotalLogisticsCents  int64 `db:"total_logistics_cents" json:"total_logistics_cents"`
	TotalReturnCents     int64 `db:"total_return_cents" json:"total_return_cents"`
	TotalNetCents        int64 `db:"total_net_cents" json:"total_net_cents"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SettlementLine snapshots the fee decomposition for one product in a
// settlement, every intermediate value included.
type SettlementLine struct {
	ID           int64 `db:"id" json:"id"`
	SettlementID int64 `db:"settlement_id" json:"settlement_id"`
	ProductID    int64 `db:"product_id" json:"product_id"`

	FulfilledQty   int   `db:"fulfilled_qty" json:"fulfilled_qty"`
	UnitPriceCents int64 `db:"unit_price_cents" json:"unit_price_cents"`
	GrossCents     int64 `db:"gross_cents" json:"gross_cents"`

	CommissionBps   int   `db:"commission_bps" json:"commission_bps"`
	CommissionCents int64 `db:"commission_cents" json:"commission_cents"`

	ShippingBaseFeeCents int64 `db:"shipping_base_fee_cents" json:"shipping_base_fee_cents"`
	LogisticsCents       int64 `db:"logistics_cents" json:"logistics_cents"`

	ReturnRateBps        int   `db:"return_rate_bps" json:"return_rate_bps"`
	ReturnQty            int   `db:"return_qty" json:"return_qty"`
	ReturnDeductionCents int64 `db:"return_deduction_cents" json:"return_deduction_cents"`

	NetCents int64 `db:"net_cents" json:"net_cents"`
}

// LedgerEntry is an append-only financial movement. Entries are never
// updated or deleted; corrections are offsetting entries.
type LedgerEntry struct {
	ID             int64     `db:"id" json:"id"`
	CompanyID      int64     `db:"company_id" json:"company_id"`
	WarehouseID    int64     `db:"warehouse_id" json:"warehouse_id"`
	Direction      string    `db:"direction" json:"direction"`
	AmountCents    int64     `db:"amount_cents" json:"amount_cents"`
	Category       string    `db:"category" json:"category"`
	Scope          string    `db:"scope" json:"scope"`
	IdempotencyKey string    `db:"idempotency_key" json:"idempotency_key"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Wallet is the running balance ledger entries apply to
type Wallet struct {
	CompanyID    int64     `db:"company_id" json:"company_id"`
	BalanceCents int64     `db:"balance_cents" json:"balance_cents"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Listing statuses
const (
	ListingStatusListed = "LISTED"
	ListingStatusPaused = "PAUSED"
)

// Metric types
const (
	MetricStockCount = "STOCK_COUNT"
	MetricSalesCount = "SALES_COUNT"
)

// Inventory movement kinds
const (
	MovementOutboundSale = "OUTBOUND_SALE"
	MovementReturnIn     = "RETURN_IN"
)

// Ledger directions
const (
	LedgerDirectionIn  = "IN"
	LedgerDirectionOut = "OUT"
)

// Ledger categories posted by the settlement engine
const (
	LedgerCategorySalesRevenue  = "SALES_REVENUE"
	LedgerCategoryCommissionFee = "COMMISSION_FEE"
	LedgerCategoryLogisticsFee  = "LOGISTICS_FEE"
	LedgerCategorySalesReturns  = "SALES_RETURNS"
)

// Ledger scopes
const (
	LedgerScopeWarehouse = "WAREHOUSE"
	LedgerScopeCompany   = "COMPANY"
)
