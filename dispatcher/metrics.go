package dispatcher

import (
	"strconv"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	dispatched  *prometheus.CounterVec
	invocations *prometheus.CounterVec
	pathLength  prometheus.Histogram
	nodes       prometheus.Collector
	registerer  prometheus.Registerer
}

// treeSeq numbers the trees so that dispatchers sharing a registerer each
// get their own nodes series.
var treeSeq atomic.Uint64

func newMetrics(c Config, nodeCount func() float64) *metrics {
	m := &metrics{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.Namespace,
			Name:      "events_dispatched_total",
			Help:      "Events dispatched, by kind.",
		}, []string{"kind"}),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.Namespace,
			Name:      "listener_invocations_total",
			Help:      "Listener callbacks run, by event kind.",
		}, []string{"kind"}),
		pathLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: c.Namespace,
			Name:      "propagation_path_length",
			Help:      "Nodes on the propagation path of dispatched events.",
			Buckets:   c.Buckets,
		}),
		nodes: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   c.Namespace,
			Name:        "nodes",
			Help:        "Nodes held by the tree, detached ones included.",
			ConstLabels: prometheus.Labels{"tree": strconv.FormatUint(treeSeq.Add(1), 10)},
		}, nodeCount),
		registerer: c.Registerer,
	}
	m.dispatched = register(c.Registerer, m.dispatched).(*prometheus.CounterVec)
	m.invocations = register(c.Registerer, m.invocations).(*prometheus.CounterVec)
	m.pathLength = register(c.Registerer, m.pathLength).(prometheus.Histogram)
	m.nodes = register(c.Registerer, m.nodes)
	return m
}

// unregister drops the per-tree series. The event counters are shared with
// other dispatchers on the same registerer and stay.
func (m *metrics) unregister() {
	m.registerer.Unregister(m.nodes)
}

// register returns the collector already registered under the same
// descriptor when there is one, so several dispatchers can share a
// registerer.
func register(r prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	err := r.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector
	}
	panic(err)
}
