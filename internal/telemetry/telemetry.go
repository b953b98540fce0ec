// Package telemetry counts ingest activity with Prometheus collectors.
package telemetry

import (
	"fmt"
	"time"

	"github.com/huangsam/hirefunnel/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingest outcomes used as the result label.
const (
	ResultInserted = "inserted"
	ResultNoop     = "noop"
	ResultFailed   = "failed"
)

// Recorder holds the ingest collectors on a private registry.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	runs          *prometheus.CounterVec
	rowsParsed    prometheus.Counter
	batchDupes    prometheus.Counter
	alreadyStored prometheus.Counter
	inserted      prometheus.Counter
	conflicts     prometheus.Counter
	duration      prometheus.Histogram
	storeRecords  prometheus.Gauge
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamespace sets the metric namespace.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithRegistry records into the given registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// NewRecorder creates a Recorder and registers its collectors.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{namespace: "hirefunnel", registry: prometheus.NewRegistry()}
	for _, opt := range opts {
		opt(r)
	}

	auto := promauto.With(r.registry)
	r.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "ingest",
		Name:      "runs_total",
		Help:      "Ingest runs by result",
	}, []string{"result"})
	r.rowsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "ingest",
		Name:      "rows_parsed_total",
		Help:      "Rows parsed from uploaded files",
	})
	r.batchDupes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "ingest",
		Name:      "duplicates_in_batch_total",
		Help:      "Rows dropped as repeats inside one upload",
	})
	r.alreadyStored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "ingest",
		Name:      "already_persisted_total",
		Help:      "Rows dropped because their natural key was already stored",
	})
	r.inserted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "ingest",
		Name:      "inserted_total",
		Help:      "Events inserted into the store",
	})
	r.conflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "ingest",
		Name:      "conflicts_total",
		Help:      "Inserts skipped on a natural key collision",
	})
	r.duration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "ingest",
		Name:      "duration_seconds",
		Help:      "Wall time of ingest runs",
		Buckets:   prometheus.DefBuckets,
	})
	r.storeRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: "store",
		Name:      "records",
		Help:      "Events in the store after the last ingest",
	})
	return r
}

// ObserveIngest records a finished ingest.
func (r *Recorder) ObserveIngest(result schema.IngestResult, elapsed time.Duration) {
	outcome := ResultInserted
	if result.Inserted == 0 {
		outcome = ResultNoop
	}
	r.runs.WithLabelValues(outcome).Inc()
	r.rowsParsed.Add(float64(result.RowsParsed))
	r.batchDupes.Add(float64(result.DuplicatesInBatch))
	r.alreadyStored.Add(float64(result.AlreadyPersisted))
	r.inserted.Add(float64(result.Inserted))
	r.conflicts.Add(float64(result.Conflicts))
	r.duration.Observe(elapsed.Seconds())
	r.storeRecords.Set(float64(result.TotalRecords))
}

// ObserveFailure records an ingest that returned an error.
func (r *Recorder) ObserveFailure(elapsed time.Duration) {
	r.runs.WithLabelValues(ResultFailed).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// Registry returns the registry the collectors live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the collectors in the text exposition format, for the
// node exporter textfile collector. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
