// Package metrics exports the progress of planning sessions as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"go.viam.com/chainplan/motionplan"
)

// PlannerCollector is a motionplan.Observer that counts extensions by tree and outcome and tracks
// tree sizes and the current iteration.
type PlannerCollector struct {
	extensions *prometheus.CounterVec
	treeSize   *prometheus.GaugeVec
	iteration  prometheus.Gauge
}

// NewPlannerCollector creates the planner metrics under namespace and registers them with reg.
func NewPlannerCollector(reg prometheus.Registerer, namespace string) (*PlannerCollector, error) {
	c := &PlannerCollector{
		extensions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extensions_total",
			Help:      "Tree extensions attempted, by tree and outcome.",
		}, []string{"tree", "outcome"}),
		treeSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_nodes",
			Help:      "Number of committed nodes in each tree.",
		}, []string{"tree"}),
		iteration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "iteration",
			Help:      "Planner loop iteration of the most recent extension.",
		}),
	}
	for _, collector := range []prometheus.Collector{c.extensions, c.treeSize, c.iteration} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe implements motionplan.Observer.
func (c *PlannerCollector) Observe(ev motionplan.Event) {
	tree := ev.Extension.Tree.String()
	c.extensions.WithLabelValues(tree, ev.Extension.Outcome.String()).Inc()
	c.treeSize.WithLabelValues(tree).Set(float64(ev.Tree.Size()))
	c.iteration.Set(float64(ev.Iteration))
}
