// Package promstats exports the counters of pacer schedulers as
// Prometheus metrics.
//
//	c := promstats.NewCollector("search")
//	prometheus.MustRegister(c)
//	c.Register("query", debouncer)
//
// Every metric carries a "scheduler" label with the name given to
// Register. Values are read from [pacer.Stats] at scrape time, so
// registering a scheduler costs nothing on its hot path.
package promstats

import (
	"sort"
	"sync"

	"github.com/baxromumarov/pacer"
	"github.com/prometheus/client_golang/prometheus"
)

// Source is anything that reports scheduler statistics. Every scheduler
// in pacer implements it.
type Source interface {
	Stats() pacer.Stats
}

var edges = []pacer.Edge{pacer.EdgeLeading, pacer.EdgeTrailing, pacer.EdgeMaxWait, pacer.EdgeFlush}

// Collector is a prometheus.Collector over a set of named schedulers.
type Collector struct {
	mu      sync.RWMutex
	sources map[string]Source

	fed        *prometheus.Desc
	emitted    *prometheus.Desc
	emissions  *prometheus.Desc
	superseded *prometheus.Desc
	dropped    *prometheus.Desc
	ignored    *prometheus.Desc
	panics     *prometheus.Desc
	queued     *prometheus.Desc
	pending    *prometheus.Desc
	disposed   *prometheus.Desc
}

// NewCollector creates a collector whose metric names are prefixed with
// namespace. An empty namespace yields bare names such as "fed_total".
func NewCollector(namespace string) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", name),
			help,
			append([]string{"scheduler"}, labels...),
			nil,
		)
	}

	return &Collector{
		sources:    make(map[string]Source),
		fed:        desc("fed_total", "Inputs fed to the scheduler."),
		emitted:    desc("emitted_total", "Emissions delivered to the sink."),
		emissions:  desc("emissions_total", "Emissions scheduled, by the edge that caused them.", "edge"),
		superseded: desc("superseded_total", "Pending inputs replaced by a newer input."),
		dropped:    desc("dropped_total", "Inputs discarded without reaching the sink."),
		ignored:    desc("ignored_total", "Inputs fed after the scheduler was shut down."),
		panics:     desc("panics_total", "Panics recovered from the sink."),
		queued:     desc("queued", "Emissions waiting for the sink."),
		pending:    desc("pending", "1 if an emission is scheduled, 0 otherwise."),
		disposed:   desc("disposed", "1 once the scheduler has been disposed."),
	}
}

// Register adds src under name, replacing any source already registered
// under that name.
func (c *Collector) Register(name string, src Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[name] = src
}

// Unregister removes the source registered under name. It reports
// whether there was one.
func (c *Collector) Unregister(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sources[name]
	delete(c.sources, name)
	return ok
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.fed
	ch <- c.emitted
	ch <- c.emissions
	ch <- c.superseded
	ch <- c.dropped
	ch <- c.ignored
	ch <- c.panics
	ch <- c.queued
	ch <- c.pending
	ch <- c.disposed
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	sources := make([]Source, len(names))
	sort.Strings(names)
	for i, name := range names {
		sources[i] = c.sources[name]
	}
	c.mu.RUnlock()

	for i, src := range sources {
		c.collect(ch, names[i], src.Stats())
	}
}

func (c *Collector) collect(ch chan<- prometheus.Metric, name string, s pacer.Stats) {
	counter := func(d *prometheus.Desc, v int64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), append([]string{name}, labels...)...)
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, name)
	}

	counter(c.fed, s.Fed)
	counter(c.emitted, s.Emitted)
	for _, e := range edges {
		counter(c.emissions, edgeCount(s, e), e.String())
	}
	counter(c.superseded, s.Superseded)
	counter(c.dropped, s.Dropped)
	counter(c.ignored, s.Ignored)
	counter(c.panics, s.Panics)
	gauge(c.queued, float64(s.Queued))
	gauge(c.pending, boolGauge(s.Pending))
	gauge(c.disposed, boolGauge(s.Disposed))
}

func edgeCount(s pacer.Stats, e pacer.Edge) int64 {
	switch e {
	case pacer.EdgeLeading:
		return s.Leading
	case pacer.EdgeTrailing:
		return s.Trailing
	case pacer.EdgeMaxWait:
		return s.MaxWait
	case pacer.EdgeFlush:
		return s.Flushed
	}
	return 0
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
