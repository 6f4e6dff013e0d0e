package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanShipmentsCapacitySplit(t *testing.T) {
	lines := []PlanLine{
		{LineID: 1, ProductID: 100, OrderDay: day(2024, 3, 1), Remaining: 7},
		{LineID: 2, ProductID: 200, OrderDay: day(2024, 3, 2), Remaining: 8},
	}
	stock := map[int64]int{100: 50, 200: 50}

	plan := PlanShipments(lines, 10, stock)

	require.Len(t, plan, 2)
	assert.Equal(t, int64(1), plan[0].LineID)
	assert.Equal(t, 7, plan[0].Qty)
	assert.Equal(t, int64(2), plan[1].LineID)
	assert.Equal(t, 3, plan[1].Qty)
	assert.Equal(t, 43, stock[100])
	assert.Equal(t, 47, stock[200])
}

func TestPlanShipmentsOldestFirst(t *testing.T) {
	lines := []PlanLine{
		{LineID: 1, ProductID: 100, OrderDay: day(2024, 3, 1), Remaining: 5},
		{LineID: 2, ProductID: 200, OrderDay: day(2024, 3, 3), Remaining: 5},
	}
	stock := map[int64]int{100: 10, 200: 10}

	plan := PlanShipments(lines, 5, stock)

	// Capacity exhausts entirely on the older line.
	require.Len(t, plan, 1)
	assert.Equal(t, int64(1), plan[0].LineID)
	assert.Equal(t, 5, plan[0].Qty)
}

func TestPlanShipmentsSkipsOutOfStock(t *testing.T) {
	lines := []PlanLine{
		{LineID: 1, ProductID: 100, OrderDay: day(2024, 3, 1), Remaining: 5},
		{LineID: 2, ProductID: 200, OrderDay: day(2024, 3, 2), Remaining: 4},
	}
	stock := map[int64]int{100: 0, 200: 10}

	plan := PlanShipments(lines, 10, stock)

	// The stockless line is skipped without burning capacity.
	require.Len(t, plan, 1)
	assert.Equal(t, int64(2), plan[0].LineID)
	assert.Equal(t, 4, plan[0].Qty)
}

func TestPlanShipmentsSharedStockPool(t *testing.T) {
	lines := []PlanLine{
		{LineID: 1, ProductID: 100, OrderDay: day(2024, 3, 1), Remaining: 6},
		{LineID: 2, ProductID: 100, OrderDay: day(2024, 3, 2), Remaining: 6},
	}
	stock := map[int64]int{100: 8}

	plan := PlanShipments(lines, 100, stock)

	require.Len(t, plan, 2)
	assert.Equal(t, 6, plan[0].Qty)
	assert.Equal(t, 2, plan[1].Qty)
	assert.Equal(t, 0, stock[100])
}

func TestPlanShipmentsZeroCapacity(t *testing.T) {
	lines := []PlanLine{
		{LineID: 1, ProductID: 100, OrderDay: day(2024, 3, 1), Remaining: 5},
	}
	stock := map[int64]int{100: 5}

	plan := PlanShipments(lines, 0, stock)

	assert.Empty(t, plan)
	assert.Equal(t, 5, stock[100])
}

func TestPlanShipmentsPartialThenStop(t *testing.T) {
	lines := []PlanLine{
		{LineID: 1, ProductID: 100, OrderDay: day(2024, 3, 1), Remaining: 3},
		{LineID: 2, ProductID: 200, OrderDay: day(2024, 3, 2), Remaining: 3},
		{LineID: 3, ProductID: 300, OrderDay: day(2024, 3, 3), Remaining: 3},
	}
	stock := map[int64]int{100: 10, 200: 10, 300: 10}

	plan := PlanShipments(lines, 4, stock)

	require.Len(t, plan, 2)
	assert.Equal(t, 3, plan[0].Qty)
	assert.Equal(t, 1, plan[1].Qty)
}
