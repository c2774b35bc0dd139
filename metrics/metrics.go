// Package metrics exposes prometheus collectors for BVH construction and
// ray queries.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	builderLabel = "builder"
	resultLabel  = "result"

	namespace = "meshbvh"
)

var (
	// Registry holds every collector defined by this package.
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	buildDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "build_duration_seconds",
		Help:      "The time taken to build a hierarchy.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{builderLabel})

	treeNodes = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tree_nodes",
		Help:      "The number of nodes in the last built hierarchy.",
	}, []string{builderLabel})

	treeLeaves = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tree_leaves",
		Help:      "The number of leaves in the last built hierarchy.",
	}, []string{builderLabel})

	treeMaxDepth = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tree_max_depth",
		Help:      "The depth of the last built hierarchy.",
	}, []string{builderLabel})

	raysCast = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rays_total",
		Help:      "The number of rays traced against a tree.",
	}, []string{resultLabel})
)

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
}

// Record the outcome of a hierarchy build.
func ObserveBuild(builder string, elapsed time.Duration, nodes, leaves, maxDepth int) {
	labels := prometheus.Labels{builderLabel: builder}
	buildDuration.With(labels).Observe(elapsed.Seconds())
	treeNodes.With(labels).Set(float64(nodes))
	treeLeaves.With(labels).Set(float64(leaves))
	treeMaxDepth.With(labels).Set(float64(maxDepth))
}

// Count a traced ray.
func CountRay(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	raysCast.With(prometheus.Labels{resultLabel: result}).Inc()
}

// Handler serves the collectors in Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
