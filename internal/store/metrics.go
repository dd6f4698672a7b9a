package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Save results used as metric label values.
const (
	saveResultSuccess = "success"
	saveResultFailure = "failure"
)

// Prometheus metrics.
var (
	inventorySavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_saves_total",
			Help: "Total number of inventory file writes by result",
		},
		[]string{"result"},
	)

	inventorySaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inventory_save_duration_seconds",
			Help:    "Inventory file write duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	inventoryLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_loads_total",
			Help: "Total number of inventory file loads by outcome",
		},
		[]string{"outcome"},
	)

	inventoryItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_items",
			Help: "Number of items currently held in memory",
		},
	)

	inventoryUnsaved = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_unsaved_changes",
			Help: "1 when the in-memory inventory differs from the backing file",
		},
	)
)
