package settlement

import (
	"testing"

	"economy-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryByProduct(m map[int64]string) func(int64) string {
	return func(id int64) string { return m[id] }
}

func TestHighRiskCategoriesThreshold(t *testing.T) {
	lines := []models.SettlementLine{
		{ProductID: 1, FulfilledQty: 100, ReturnQty: 10}, // exactly 10%
		{ProductID: 2, FulfilledQty: 100, ReturnQty: 2},
	}
	cats := categoryByProduct(map[int64]string{1: "SHOES", 2: "SHIRTS"})

	risky := HighRiskCategories(lines, cats)

	require.Len(t, risky, 1)
	assert.Equal(t, "SHOES", risky[0].Category)
	assert.Equal(t, 100, risky[0].FulfilledQty)
	assert.Equal(t, 10, risky[0].ReturnQty)
}

func TestHighRiskCategoriesMinVolume(t *testing.T) {
	// 50% return rate, but below the minimum fulfilled volume.
	lines := []models.SettlementLine{
		{ProductID: 1, FulfilledQty: 10, ReturnQty: 5},
	}
	cats := categoryByProduct(map[int64]string{1: "SHOES"})

	assert.Empty(t, HighRiskCategories(lines, cats))
}

func TestHighRiskCategoriesAggregatesAcrossProducts(t *testing.T) {
	// Each product is individually under the volume floor, but the
	// category total crosses both thresholds.
	lines := []models.SettlementLine{
		{ProductID: 1, FulfilledQty: 12, ReturnQty: 2},
		{ProductID: 2, FulfilledQty: 12, ReturnQty: 2},
	}
	cats := categoryByProduct(map[int64]string{1: "SHOES", 2: "SHOES"})

	risky := HighRiskCategories(lines, cats)

	require.Len(t, risky, 1)
	assert.Equal(t, 24, risky[0].FulfilledQty)
	assert.Equal(t, 4, risky[0].ReturnQty)
}

func TestHighRiskCategoriesFirstSeenOrder(t *testing.T) {
	lines := []models.SettlementLine{
		{ProductID: 1, FulfilledQty: 50, ReturnQty: 10},
		{ProductID: 2, FulfilledQty: 50, ReturnQty: 10},
		{ProductID: 3, FulfilledQty: 50, ReturnQty: 10},
	}
	cats := categoryByProduct(map[int64]string{1: "C", 2: "A", 3: "B"})

	risky := HighRiskCategories(lines, cats)

	require.Len(t, risky, 3)
	assert.Equal(t, "C", risky[0].Category)
	assert.Equal(t, "A", risky[1].Category)
	assert.Equal(t, "B", risky[2].Category)
}

func TestHighRiskCategoriesEmpty(t *testing.T) {
	assert.Empty(t, HighRiskCategories(nil, categoryByProduct(nil)))
}
