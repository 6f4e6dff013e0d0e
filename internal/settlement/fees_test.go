package settlement

import (
	"testing"

	"economy-engine/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeLineDecomposition(t *testing.T) {
	tier := &models.FeeTier{
		Tier:                   1,
		CommissionBps:          1000,
		LogisticsMultiplierPct: 100,
		// Pinned range so the hash-derived rate is exactly 4%.
		ReturnRateMinBps: 400,
		ReturnRateMaxBps: 400,
	}

	line := ComputeLine(1, 100, 25, 40, 1000, tier, 2)

	assert.Equal(t, int64(1000), line.GrossCents)
	assert.Equal(t, int64(100), line.CommissionCents)
	assert.Equal(t, int64(50), line.LogisticsCents)
	assert.Equal(t, 400, line.ReturnRateBps)
	assert.Equal(t, 1, line.ReturnQty)
	assert.Equal(t, int64(40), line.ReturnDeductionCents)
	assert.Equal(t, int64(810), line.NetCents)
}

func TestComputeLineNetIdentity(t *testing.T) {
	tier := defaultFeeTier(2)

	cases := []struct {
		settlementID int64
		productID    int64
		qty          int
		unitPrice    int64
		gross        int64
		baseFee      int64
	}{
		{1, 100, 10, 2500, 25000, 250},
		{2, 200, 1, 99, 99, 300},
		{3, 300, 500, 1, 500, 125},
		{4, 400, 37, 1999, 73963, 250},
	}

	for _, c := range cases {
		line := ComputeLine(c.settlementID, c.productID, c.qty, c.unitPrice, c.gross, tier, c.baseFee)

		sum := line.GrossCents - line.CommissionCents - line.LogisticsCents - line.ReturnDeductionCents
		assert.Equal(t, line.NetCents, sum)
		assert.LessOrEqual(t, line.ReturnQty, c.qty)
		assert.GreaterOrEqual(t, line.ReturnRateBps, tier.ReturnRateMinBps)
		assert.LessOrEqual(t, line.ReturnRateBps, tier.ReturnRateMaxBps)
	}
}

func TestComputeLineZeroSales(t *testing.T) {
	line := ComputeLine(5, 500, 0, 1000, 0, defaultFeeTier(1), 250)

	assert.Zero(t, line.CommissionCents)
	assert.Zero(t, line.LogisticsCents)
	assert.Zero(t, line.ReturnQty)
	assert.Zero(t, line.ReturnDeductionCents)
	assert.Zero(t, line.NetCents)
}

func TestDefaultFeeTier(t *testing.T) {
	tier := defaultFeeTier(3)

	assert.Equal(t, 3, tier.Tier)
	assert.Equal(t, DefaultCommissionBps, tier.CommissionBps)
	assert.Equal(t, DefaultLogisticsMultiplierPct, tier.LogisticsMultiplierPct)
	assert.Equal(t, DefaultReturnRateMinBps, tier.ReturnRateMinBps)
	assert.Equal(t, DefaultReturnRateMaxBps, tier.ReturnRateMaxBps)
}
