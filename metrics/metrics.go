// Package metrics exports the counts of the search engine to prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gorgonia/gamesweet/mcts"
)

const (
	namespace = "gamesweet"
	subsystem = "mcts"
)

var _ mcts.Collector = &Collector{}

// Collector implements mcts.Collector on top of prometheus metrics.
type Collector struct {
	searching  prometheus.Gauge
	searches   prometheus.Counter
	iterations prometheus.Counter
	expansions prometheus.Counter
	children   prometheus.Counter

	treeSize prometheus.Histogram
	duration prometheus.Histogram
}

// New registers the search metrics with reg. Passing prometheus.DefaultRegisterer exposes them on the default /metrics handler.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		searching: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "searching",
			Help:      "1 while a search is running",
		}),
		searches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "searches_total",
			Help:      "Total number of completed searches",
		}),
		iterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "iterations_total",
			Help:      "Total select/simulate/backpropagate iterations",
		}),
		expansions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "expansions_total",
			Help:      "Total node expansions that produced children",
		}),
		children: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "nodes_created_total",
			Help:      "Total child nodes created by expansions",
		}),
		treeSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tree_nodes",
			Help:      "Number of nodes in the tree when a search completes",
			Buckets:   prometheus.ExponentialBuckets(8, 4, 10),
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "search_duration_seconds",
			Help:      "Time spent in the search loop",
			Buckets:   []float64{.001, .01, .1, .25, .5, .75, 1, 2, 5},
		}),
	}
}

func (c *Collector) Start() { c.searching.Set(1) }

func (c *Collector) AddIteration() { c.iterations.Inc() }

func (c *Collector) AddExpansion(children int) {
	if children == 0 {
		return
	}
	c.expansions.Inc()
	c.children.Add(float64(children))
}

func (c *Collector) Complete(iterations, nodes int, elapsed time.Duration) {
	c.searching.Set(0)
	c.searches.Inc()
	c.treeSize.Observe(float64(nodes))
	c.duration.Observe(elapsed.Seconds())
}
