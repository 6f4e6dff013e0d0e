package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TicksCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulation_ticks_completed_total",
		Help: "Total number of committed day ticks",
	})

	TicksFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulation_ticks_failed_total",
		Help: "Total number of day ticks that rolled back",
	})

	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "simulation_tick_duration_seconds",
		Help:    "Duration of one warehouse day tick",
		Buckets: prometheus.DefBuckets,
	})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulation_orders_created_total",
		Help: "Total number of daily orders created by demand generation",
	})

	UnitsShippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulation_units_shipped_total",
		Help: "Total units shipped by the fulfillment engine",
	})

	BacklogUnits = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "simulation_backlog_units",
		Help: "Unshipped units remaining in the order backlog after fulfillment",
	}, []string{"warehouse_id"})

	SettlementsPostedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlements_posted_total",
		Help: "Total number of settlements created and posted",
	})

	SettlementsDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlements_duplicate_total",
		Help: "Total settlement runs that found the period already posted",
	})

	SettlementsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlements_failed_total",
		Help: "Total settlement runs that rolled back",
	})

	SettlementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of one settlement run",
		Buckets: prometheus.DefBuckets,
	})

	LedgerEntriesPostedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_entries_posted_total",
		Help: "Total ledger entries applied to wallets",
	})

	NotificationsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_published_total",
		Help: "Total player notifications published",
	}, []string{"type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
