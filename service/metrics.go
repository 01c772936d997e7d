package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rankd_operations_total",
	Help: "Number of multiset operations served",
}, []string{"op"})

var opDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "rankd_operation_duration_seconds",
	Help:    "Time spent inside the index lock per operation",
	Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
}, []string{"op"})

var elements = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "rankd_elements",
	Help: "Stored occurrences, duplicates included",
})

var distinctKeys = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "rankd_distinct_keys",
	Help: "Distinct keys in the index",
})

var walAppends = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rankd_wal_appends_total",
	Help: "WAL append attempts",
}, []string{"status"})

var checkpointDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "rankd_checkpoint_duration_seconds",
	Help:    "Time taken to write a checkpoint",
	Buckets: prometheus.DefBuckets,
})

var checkpointSeq = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "rankd_checkpoint_seq",
	Help: "Sequence number of the latest checkpoint",
})

var publishErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "rankd_event_publish_errors_total",
	Help: "Change events that failed to publish",
})
