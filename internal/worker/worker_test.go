package worker

import (
	"context"
	"testing"
	"time"

	"economy-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestWorker(payoutDays []int) *SimulationWorker {
	// Dependencies stay nil: the guard paths under test must return before
	// any of them is touched.
	return &SimulationWorker{
		lockTTL:    time.Minute,
		loc:        time.UTC,
		payoutDays: payoutDays,
		logger:     zap.NewNop(),
	}
}

func TestSettlementCommandSkippedOnNonPayoutDay(t *testing.T) {
	w := newTestWorker([]int{5, 20})

	err := w.handleSettlementRequested(context.Background(), &models.SettlementRequestedCommand{
		WarehouseID: 1,
		PayoutDay:   "2024-03-07",
	})

	assert.NoError(t, err)
}

func TestSettlementCommandDroppedOnMalformedDay(t *testing.T) {
	w := newTestWorker([]int{5, 20})

	err := w.handleSettlementRequested(context.Background(), &models.SettlementRequestedCommand{
		WarehouseID: 1,
		PayoutDay:   "not-a-date",
	})

	assert.NoError(t, err)
}

func TestTickCommandDroppedOnMalformedDay(t *testing.T) {
	w := newTestWorker([]int{5, 20})

	err := w.handleTickRequested(context.Background(), &models.TickRequestedCommand{
		WarehouseID: 1,
		Day:         "2024-13-99",
	})

	assert.NoError(t, err)
}
