package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"economy-engine/internal/calendar"
	"economy-engine/internal/models"
	"economy-engine/internal/season"
	"economy-engine/internal/store"

	"go.uber.org/zap"
)

// ErrNegativeOrderQty marks a corrupted-state condition: a computed order
// quantity below zero must abort the tick, never be coerced.
var ErrNegativeOrderQty = errors.New("computed order quantity is negative")

// AwarenessCap bounds the warehouse awareness multiplier contribution
const AwarenessCap = 0.5

// DemandInputs are the per-listing factors demand generation combines
type DemandInputs struct {
	BaseQty         int
	HasBaseQty      bool
	BoostPosPct     float64
	BoostNegPct     float64
	PriceMultiplier float64
	PriceBlocked    bool
	SeasonScore     season.Score
	Awareness       float64
	OnHandQty       int
}

// DemandResult carries the desired and stock-clamped quantities plus the
// intermediates the sales log snapshots.
type DemandResult struct {
	UnitsAfterBoost float64
	DesiredQty      int
	OrderedQty      int
	MissingBaseQty  bool
}

// ComputeDemand applies the multiplicative demand shaping in its fixed
// order: marketing boost, price gate, season gate, awareness. The order
// matters; reordering changes rounding at integer-unit boundaries.
func ComputeDemand(in DemandInputs) (DemandResult, error) {
	res := DemandResult{}

	base := float64(in.BaseQty)
	if !in.HasBaseQty {
		base = 0
		res.MissingBaseQty = true
	}

	negFactor := 1 - in.BoostNegPct/100
	if negFactor < 0 {
		negFactor = 0
	}
	res.UnitsAfterBoost = base * (1 + in.BoostPosPct/100) * negFactor

	units := res.UnitsAfterBoost
	if in.PriceBlocked {
		units = 0
	} else {
		units *= in.PriceMultiplier
	}

	// A season score of exactly zero forces zero demand regardless of the
	// boost and price factors.
	if in.SeasonScore.Blocked() {
		units = 0
	} else {
		units *= in.SeasonScore.Multiplier()
	}

	awareness := in.Awareness
	if awareness < 0 {
		awareness = 0
	}
	if awareness > AwarenessCap {
		awareness = AwarenessCap
	}
	units *= 1 + awareness

	res.DesiredQty = int(math.Round(units))
	if res.DesiredQty < 0 {
		return res, fmt.Errorf("%w: desired=%d", ErrNegativeOrderQty, res.DesiredQty)
	}

	res.OrderedQty = res.DesiredQty
	if res.OrderedQty > in.OnHandQty {
		res.OrderedQty = in.OnHandQty
	}
	if res.OrderedQty < 0 {
		return res, fmt.Errorf("%w: ordered=%d with stock=%d", ErrNegativeOrderQty, res.OrderedQty, in.OnHandQty)
	}

	return res, nil
}

// orderCandidate is a listing whose computed demand warrants an order line
type orderCandidate struct {
	listing store.ActiveListing
	result  DemandResult
	stock   int
}

// runDemandStep evaluates every listed product for (warehouse, day): it
// refreshes season snapshots, upserts one sales-log row per listing, and
// creates the day's order with its lines when demand exists and no order
// does yet.
func (e *Engine) runDemandStep(ctx context.Context, tx *store.Tx, wh *models.Warehouse, day calendar.DayKey) (bool, error) {
	listings, err := tx.ListActiveListings(ctx, wh.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load listings: %w", err)
	}

	existing, err := tx.GetOrderByDay(ctx, wh.ID, day.Time())
	if err != nil {
		return false, fmt.Errorf("failed to check existing order: %w", err)
	}

	var candidates []orderCandidate
	for _, listing := range listings {
		score := season.Score{Value: season.NeutralScore, Missing: true}
		if listing.ScenarioID.Valid {
			curve, err := tx.GetSeasonCurve(ctx, listing.ScenarioID.Int64, wh.MarketZone)
			if err != nil {
				return false, fmt.Errorf("failed to load season curve: %w", err)
			}
			score = season.Resolve(curve, day)
		}
		if err := tx.UpdateListingSeasonSnapshot(ctx, listing.ID, score.Value, score.Blocked()); err != nil {
			return false, fmt.Errorf("failed to update season snapshot: %w", err)
		}

		stock, err := tx.GetOnHandQty(ctx, wh.ID, listing.ProductID)
		if err != nil {
			return false, fmt.Errorf("failed to read stock: %w", err)
		}

		result, err := ComputeDemand(DemandInputs{
			BaseQty:         int(listing.BaseQty.Int64),
			HasBaseQty:      listing.BaseQty.Valid,
			BoostPosPct:     listing.BoostPosPct,
			BoostNegPct:     listing.BoostNegPct,
			PriceMultiplier: listing.PriceMultiplier,
			PriceBlocked:    listing.PriceBlocked,
			SeasonScore:     score,
			Awareness:       wh.Awareness,
			OnHandQty:       stock,
		})
		if err != nil {
			return false, fmt.Errorf("listing %d: %w", listing.ID, err)
		}

		log := &models.DailySalesLog{
			WarehouseID:     wh.ID,
			ListingID:       listing.ID,
			ProductID:       listing.ProductID,
			LogDay:          day.Time(),
			BaseQty:         int(listing.BaseQty.Int64),
			BoostPosPct:     listing.BoostPosPct,
			BoostNegPct:     listing.BoostNegPct,
			UnitsAfterBoost: result.UnitsAfterBoost,
			PriceMultiplier: listing.PriceMultiplier,
			SeasonScore:     score.Value,
			Awareness:       wh.Awareness,
			DesiredQty:      result.DesiredQty,
			OrderedQty:      result.OrderedQty,
			MissingBaseQty:  result.MissingBaseQty,
			MissingScenario: score.Missing,
			PriceBlocked:    listing.PriceBlocked,
			SeasonBlocked:   score.Blocked(),
		}
		if err := tx.UpsertDailySalesLog(ctx, log); err != nil {
			return false, fmt.Errorf("failed to upsert sales log: %w", err)
		}

		if result.OrderedQty > 0 {
			candidates = append(candidates, orderCandidate{listing: listing, result: result, stock: stock})
		}
	}

	// Re-invocation for a day that already has an order refreshes the logs
	// above but never creates a second order.
	if existing != nil || len(candidates) == 0 {
		return false, nil
	}

	order := &models.Order{WarehouseID: wh.ID, OrderDay: day.Time()}
	if err := tx.CreateOrder(ctx, order); err != nil {
		return false, fmt.Errorf("failed to create order: %w", err)
	}

	for i, c := range candidates {
		line := &models.OrderLine{
			OrderID:        order.ID,
			ListingID:      c.listing.ID,
			ProductID:      c.listing.ProductID,
			Seq:            i + 1,
			OrderedQty:     c.result.OrderedQty,
			UnitPriceCents: c.listing.SalePriceCents,
		}
		if err := tx.CreateOrderLine(ctx, line); err != nil {
			return false, fmt.Errorf("failed to create order line: %w", err)
		}

		// The full stock is now committed to the order; the showcase entry
		// goes away immediately rather than being paused.
		if c.result.OrderedQty == c.stock {
			if err := tx.DeleteListing(ctx, c.listing.ID); err != nil {
				return false, fmt.Errorf("failed to delete exhausted listing: %w", err)
			}
			e.logger.Info("Listing removed on stock exhaustion",
				zap.Int64("warehouse_id", wh.ID),
				zap.Int64("listing_id", c.listing.ID),
				zap.Int64("product_id", c.listing.ProductID))
		}
	}

	return true, nil
}
