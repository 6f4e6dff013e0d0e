package engine

import (
	"testing"

	"economy-engine/internal/season"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neutralScore() season.Score {
	return season.Score{Value: season.NeutralScore, Missing: true}
}

func TestComputeDemand(t *testing.T) {
	tests := []struct {
		name        string
		in          DemandInputs
		wantDesired int
		wantOrdered int
		wantMissing bool
	}{
		{
			name: "all factors combined",
			in: DemandInputs{
				BaseQty:         100,
				HasBaseQty:      true,
				BoostPosPct:     20,
				PriceMultiplier: 1.0,
				SeasonScore:     season.Score{Value: 50},
				Awareness:       0.1,
				OnHandQty:       1000,
			},
			// 100 * 1.2 * 1.0 * 0.5 * 1.1 = 66
			wantDesired: 66,
			wantOrdered: 66,
		},
		{
			name: "negative boost floors at zero",
			in: DemandInputs{
				BaseQty:         50,
				HasBaseQty:      true,
				BoostNegPct:     150,
				PriceMultiplier: 1.0,
				SeasonScore:     neutralScore(),
				OnHandQty:       100,
			},
			wantDesired: 0,
			wantOrdered: 0,
		},
		{
			name: "price block zeroes demand",
			in: DemandInputs{
				BaseQty:         100,
				HasBaseQty:      true,
				PriceBlocked:    true,
				PriceMultiplier: 1.5,
				SeasonScore:     neutralScore(),
				OnHandQty:       100,
			},
			wantDesired: 0,
			wantOrdered: 0,
		},
		{
			name: "season score zero blocks everything",
			in: DemandInputs{
				BaseQty:         100,
				HasBaseQty:      true,
				BoostPosPct:     500,
				PriceMultiplier: 2.0,
				SeasonScore:     season.Score{Value: 0},
				Awareness:       0.5,
				OnHandQty:       100,
			},
			wantDesired: 0,
			wantOrdered: 0,
		},
		{
			name: "missing base qty degrades to zero",
			in: DemandInputs{
				HasBaseQty:      false,
				BoostPosPct:     20,
				PriceMultiplier: 1.0,
				SeasonScore:     neutralScore(),
				OnHandQty:       100,
			},
			wantDesired: 0,
			wantOrdered: 0,
			wantMissing: true,
		},
		{
			name: "awareness capped at half",
			in: DemandInputs{
				BaseQty:         100,
				HasBaseQty:      true,
				PriceMultiplier: 1.0,
				SeasonScore:     neutralScore(),
				Awareness:       3.0,
				OnHandQty:       1000,
			},
			wantDesired: 150,
			wantOrdered: 150,
		},
		{
			name: "negative awareness ignored",
			in: DemandInputs{
				BaseQty:         100,
				HasBaseQty:      true,
				PriceMultiplier: 1.0,
				SeasonScore:     neutralScore(),
				Awareness:       -0.4,
				OnHandQty:       1000,
			},
			wantDesired: 100,
			wantOrdered: 100,
		},
		{
			name: "ordered clamps to stock",
			in: DemandInputs{
				BaseQty:         100,
				HasBaseQty:      true,
				PriceMultiplier: 1.0,
				SeasonScore:     neutralScore(),
				OnHandQty:       30,
			},
			wantDesired: 100,
			wantOrdered: 30,
		},
		{
			name: "rounding at unit boundary",
			in: DemandInputs{
				BaseQty:         5,
				HasBaseQty:      true,
				BoostPosPct:     10,
				PriceMultiplier: 1.0,
				SeasonScore:     neutralScore(),
				OnHandQty:       100,
			},
			// 5 * 1.1 = 5.5 rounds to 6
			wantDesired: 6,
			wantOrdered: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ComputeDemand(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDesired, res.DesiredQty)
			assert.Equal(t, tt.wantOrdered, res.OrderedQty)
			assert.Equal(t, tt.wantMissing, res.MissingBaseQty)
		})
	}
}

func TestComputeDemandNegativeIsFatal(t *testing.T) {
	_, err := ComputeDemand(DemandInputs{
		BaseQty:         100,
		HasBaseQty:      true,
		PriceMultiplier: -2.0,
		SeasonScore:     neutralScore(),
		OnHandQty:       100,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeOrderQty)
}
