package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReturnRateBpsDeterministic(t *testing.T) {
	first := ReturnRateBps(42, 7, 200, 500)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ReturnRateBps(42, 7, 200, 500))
	}
}

func TestReturnRateBpsWithinBounds(t *testing.T) {
	for settlementID := int64(1); settlementID <= 50; settlementID++ {
		for productID := int64(1); productID <= 20; productID++ {
			rate := ReturnRateBps(settlementID, productID, 200, 500)
			assert.GreaterOrEqual(t, rate, 200)
			assert.LessOrEqual(t, rate, 500)
		}
	}
}

func TestReturnRateBpsVariesAcrossInputs(t *testing.T) {
	seen := make(map[int]bool)
	for productID := int64(1); productID <= 100; productID++ {
		seen[ReturnRateBps(1, productID, 200, 500)] = true
	}
	// A degenerate hash would collapse everything onto one value.
	assert.Greater(t, len(seen), 1)
}

func TestReturnRateBpsSwappedBounds(t *testing.T) {
	rate := ReturnRateBps(1, 1, 500, 200)
	assert.GreaterOrEqual(t, rate, 200)
	assert.LessOrEqual(t, rate, 500)
}

func TestReturnRateBpsCollapsedRange(t *testing.T) {
	assert.Equal(t, 300, ReturnRateBps(99, 3, 300, 300))
}

func TestReturnQty(t *testing.T) {
	tests := []struct {
		name    string
		qty     int
		rateBps int
		want    int
	}{
		{"rounds up to one unit", 25, 400, 1},
		{"small rate still returns something", 1, 1, 1},
		{"zero rate returns nothing", 100, 0, 0},
		{"zero qty returns nothing", 0, 500, 0},
		{"exact division", 100, 500, 5},
		{"rounds up mid-unit", 150, 350, 6},
		{"capped at fulfilled", 3, 10000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReturnQty(tt.qty, tt.rateBps))
		})
	}
}
