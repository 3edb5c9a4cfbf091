package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stock_stream"

// Batch results.
const (
	ResultCommitted    = "committed"
	ResultSkipped      = "skipped"
	ResultDeadLettered = "dead_lettered"
	ResultFailed       = "failed"
)

// Pipeline stages.
const (
	StageSource     = "source"
	StageDecode     = "decode"
	StageTransform  = "transform"
	StageSink       = "sink"
	StageCheckpoint = "checkpoint"
	StageDeadLetter = "dead_letter"
)

var (
	RecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Total records processed by result.",
		},
		[]string{"topic", "result"},
	)
	BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total micro-batches per topic by result.",
		},
		[]string{"topic", "result"},
	)
	WriteLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_latency_ms",
			Help:      "Sink write latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"topic"},
	)
	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total errors by stage.",
		},
		[]string{"stage"},
	)
	LastOffset = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_offset",
			Help:      "Next offset to read per topic/partition as of the last checkpoint.",
		},
		[]string{"topic", "partition"},
	)
)

func init() {
	prometheus.MustRegister(
		RecordsTotal,
		BatchesTotal,
		WriteLatency,
		ErrorsTotal,
		LastOffset,
	)
}

// ObserveCheckpoint publishes the committed offsets.
func ObserveCheckpoint(topic string, offsets map[int32]int64) {
	for p, o := range offsets {
		LastOffset.WithLabelValues(topic, strconv.Itoa(int(p))).Set(float64(o))
	}
}
