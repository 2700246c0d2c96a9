// Package metrics exposes packing telemetry as Prometheus collectors.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/piwi3910/SpritePack/internal/model"
)

const namespace = "spritepack"

// Recorder implements engine.Recorder on top of a private registry. Each
// Recorder owns its own registry so several can coexist in one process.
type Recorder struct {
	registry *prometheus.Registry

	attempts  *prometheus.CounterVec
	nodes     *prometheus.HistogramVec
	sides     *prometheus.HistogramVec
	packs     prometheus.Counter
	placed    prometheus.Counter
	unplaced  prometheus.Counter
	tightSide *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with every collector registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Candidate bin sizes tried, by ordering and outcome.",
		}, []string{"ordering", "outcome"}),
		nodes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempt_nodes",
			Help:      "Tree nodes allocated by a single attempt.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"ordering"}),
		sides: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempt_side",
			Help:      "Candidate square side of each attempt, in pixels.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 10),
		}, []string{"ordering"}),
		packs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packs_total",
			Help:      "Completed pack operations.",
		}),
		placed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rects_placed_total",
			Help:      "Rectangles placed across all packs.",
		}),
		unplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rects_unplaced_total",
			Help:      "Rectangles that did not fit across all packs.",
		}),
		tightSide: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_tight_side",
			Help:      "Tight bounding size of the most recent pack.",
		}, []string{"axis"}),
	}

	r.registry.MustRegister(r.attempts, r.nodes, r.sides, r.packs, r.placed, r.unplaced, r.tightSide)
	return r
}

// ObserveAttempt records one candidate bin size.
func (r *Recorder) ObserveAttempt(ordering model.Heuristic, side int, ok bool, nodes int) {
	outcome := "fail"
	if ok {
		outcome = "success"
	}
	r.attempts.WithLabelValues(string(ordering), outcome).Inc()
	r.nodes.WithLabelValues(string(ordering)).Observe(float64(nodes))
	r.sides.WithLabelValues(string(ordering)).Observe(float64(side))
}

// ObservePack records the outcome of a completed pack.
func (r *Recorder) ObservePack(tight model.Size, placed, unplaced int) {
	r.packs.Inc()
	r.placed.Add(float64(placed))
	r.unplaced.Add(float64(unplaced))
	r.tightSide.WithLabelValues("w").Set(float64(tight.W))
	r.tightSide.WithLabelValues("h").Set(float64(tight.H))
}

// WriteTextfile writes the current metrics to path in the format read by
// the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
