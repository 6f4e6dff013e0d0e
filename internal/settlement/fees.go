package settlement

import "economy-engine/internal/models"

// Documented defaults used when reference configuration is missing.
// Missing fee data is never fatal; it degrades to these conservative
// values and the gap is logged.
const (
	DefaultCommissionBps          = 1000 // 10%
	DefaultLogisticsMultiplierPct = 100  // multiplier 1
	DefaultReturnRateMinBps       = 200  // 2%
	DefaultReturnRateMaxBps       = 500  // 5%
	DefaultShippingFeeCents       = 250
)

// defaultFeeTier is applied when the warehouse tier has no configuration row
func defaultFeeTier(tier int) *models.FeeTier {
	return &models.FeeTier{
		Tier:                   tier,
		CommissionBps:          DefaultCommissionBps,
		LogisticsMultiplierPct: DefaultLogisticsMultiplierPct,
		ReturnRateMinBps:       DefaultReturnRateMinBps,
		ReturnRateMaxBps:       DefaultReturnRateMaxBps,
	}
}

// ComputeLine produces the full fee decomposition for one product's sales
// in a settlement. All arithmetic is integer cents so the identity
// gross - commission - logistics - returnDeduction == net holds exactly.
func ComputeLine(settlementID, productID int64, fulfilledQty int, unitPriceCents, grossCents int64, tier *models.FeeTier, shippingBaseFeeCents int64) models.SettlementLine {
	commission := grossCents * int64(tier.CommissionBps) / 10000
	logistics := shippingBaseFeeCents * int64(tier.LogisticsMultiplierPct) * int64(fulfilledQty) / 100

	rateBps := ReturnRateBps(settlementID, productID, tier.ReturnRateMinBps, tier.ReturnRateMaxBps)
	returnQty := ReturnQty(fulfilledQty, rateBps)
	returnDeduction := unitPriceCents * int64(returnQty)

	return models.SettlementLine{
		SettlementID:         settlementID,
		ProductID:            productID,
		FulfilledQty:         fulfilledQty,
		UnitPriceCents:       unitPriceCents,
		GrossCents:           grossCents,
		CommissionBps:        tier.CommissionBps,
		CommissionCents:      commission,
		ShippingBaseFeeCents: shippingBaseFeeCents,
		LogisticsCents:       logistics,
		ReturnRateBps:        rateBps,
		ReturnQty:            returnQty,
		ReturnDeductionCents: returnDeduction,
		NetCents:             grossCents - commission - logistics - returnDeduction,
	}
}
