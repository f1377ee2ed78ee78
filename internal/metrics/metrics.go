// Package metrics is a thin Prometheus abstraction: a no-op sink by
// default, so callers never pay for metric updates unless they opt in
// by supplying a *prometheus.Registry. Used by the CLI's metrics
// server and the stress harness.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sink is the metrics surface exercised by the stress harness and the
// CLI. It mirrors the boundary's own error taxonomy (again/full/timeout)
// rather than inventing cache-specific hit/miss labels.
type Sink interface {
	IncSet()
	IncGet()
	IncUnset()
	IncAgain()
	IncFull()
	IncNotFound()
	IncTimeout()
	IncIntegrityFailure()
	SetLiveKeys(n float64)
}

type noop struct{}

func (noop) IncSet()              {}
func (noop) IncGet()              {}
func (noop) IncUnset()            {}
func (noop) IncAgain()            {}
func (noop) IncFull()             {}
func (noop) IncNotFound()         {}
func (noop) IncTimeout()          {}
func (noop) IncIntegrityFailure() {}
func (noop) SetLiveKeys(float64)  {}

// Noop is the zero-cost sink used when no registry is supplied.
var Noop Sink = noop{}

type prom struct {
	sets, gets, unsets             prometheus.Counter
	again, full, notFound, timeout prometheus.Counter
	integrityFailures              prometheus.Counter
	liveKeys                       prometheus.Gauge
}

// New registers Splinter's counters and gauge on reg and returns a Sink
// backed by them. Passing a nil registry returns the no-op sink.
func New(reg *prometheus.Registry) Sink {
	if reg == nil {
		return Noop
	}
	p := &prom{
		sets:     counter(reg, "splinter_set_total", "Number of successful set operations."),
		gets:     counter(reg, "splinter_get_total", "Number of successful get operations."),
		unsets:   counter(reg, "splinter_unset_total", "Number of successful unset operations."),
		again:    counter(reg, "splinter_again_total", "Number of operations that returned Again."),
		full:     counter(reg, "splinter_full_total", "Number of set operations that returned Full."),
		notFound: counter(reg, "splinter_not_found_total", "Number of lookups that returned NotFound."),
		timeout:  counter(reg, "splinter_timeout_total", "Number of poll operations that timed out."),
		integrityFailures: counter(reg, "splinter_integrity_failures_total",
			"Number of torn or out-of-order reads observed by the stress harness."),
		liveKeys: gauge(reg, "splinter_live_keys", "Current count of non-empty slots, as last observed by list."),
	}
	return p
}

func counter(reg *prometheus.Registry, name, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
	reg.MustRegister(c)
	return c
}

func gauge(reg *prometheus.Registry, name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	reg.MustRegister(g)
	return g
}

func (p *prom) IncSet()               { p.sets.Inc() }
func (p *prom) IncGet()               { p.gets.Inc() }
func (p *prom) IncUnset()             { p.unsets.Inc() }
func (p *prom) IncAgain()             { p.again.Inc() }
func (p *prom) IncFull()              { p.full.Inc() }
func (p *prom) IncNotFound()          { p.notFound.Inc() }
func (p *prom) IncTimeout()           { p.timeout.Inc() }
func (p *prom) IncIntegrityFailure()  { p.integrityFailures.Inc() }
func (p *prom) SetLiveKeys(n float64) { p.liveKeys.Set(n) }
