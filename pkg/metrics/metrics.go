package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records routing decisions
type Recorder interface {
	// RoutePlanned records a successful route and the size of each part of it
	RoutePlanned(source string, group1, group2, lastResort int, duration time.Duration)
	// RouteFailed records a route that could not be planned
	RouteFailed(source, reason string)
	// Reshuffled records a reshuffle of an existing route
	Reshuffled()
	// LocationAdded records an ad-hoc location added to a route
	LocationAdded()
}

// Failure reasons used as label values
const (
	ReasonInvalidArgument = "invalid_argument"
	ReasonSource          = "source"
)

// Nop discards every metric
type Nop struct{}

var _ Recorder = Nop{}

// NewNop creates a recorder that discards every metric
func NewNop() Nop {
	return Nop{}
}

func (Nop) RoutePlanned(string, int, int, int, time.Duration) {}
func (Nop) RouteFailed(string, string)                        {}
func (Nop) Reshuffled()                                       {}
func (Nop) LocationAdded()                                    {}

// Prometheus is a Recorder backed by Prometheus collectors
type Prometheus struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	routesPlanned  *prometheus.CounterVec
	routesFailed   *prometheus.CounterVec
	routeLocations *prometheus.HistogramVec
	lastResort     prometheus.Counter
	planDuration   prometheus.Histogram
	reshuffles     prometheus.Counter
	locationsAdded prometheus.Counter
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates a Prometheus recorder.
// reg defaults to prometheus.DefaultRegisterer and namespace to "ill_router".
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "ill_router"
	}

	p := &Prometheus{reg: reg, namespace: namespace}
	p.ensureRegistered()

	return p
}

func (p *Prometheus) ensureRegistered() {
	p.once.Do(func() {
		p.routesPlanned = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "routes",
			Name:      "planned_total",
			Help:      "Total routes planned by location source.",
		}, []string{"source"})

		p.routesFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "routes",
			Name:      "failed_total",
			Help:      "Total routes that could not be planned by location source and reason.",
		}, []string{"source", "reason"})

		p.routeLocations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "routes",
			Name:      "locations",
			Help:      "Locations per planned route by group.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34, 55},
		}, []string{"group"})

		p.lastResort = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "routes",
			Name:      "last_resort_locations_total",
			Help:      "Total last resort locations appended to planned routes.",
		})

		p.planDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "routes",
			Name:      "plan_duration_seconds",
			Help:      "Time taken to load locations and plan a route.",
			Buckets:   prometheus.DefBuckets,
		})

		p.reshuffles = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "routes",
			Name:      "reshuffles_total",
			Help:      "Total reshuffles of planned routes.",
		})

		p.locationsAdded = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "routes",
			Name:      "added_locations_total",
			Help:      "Total ad-hoc locations added to planned routes.",
		})

		p.reg.MustRegister(
			p.routesPlanned,
			p.routesFailed,
			p.routeLocations,
			p.lastResort,
			p.planDuration,
			p.reshuffles,
			p.locationsAdded,
		)
	})
}

// RoutePlanned implements Recorder
func (p *Prometheus) RoutePlanned(source string, group1, group2, lastResort int, duration time.Duration) {
	p.routesPlanned.WithLabelValues(source).Inc()
	p.routeLocations.WithLabelValues("group1").Observe(float64(group1))
	p.routeLocations.WithLabelValues("group2").Observe(float64(group2))
	p.routeLocations.WithLabelValues("last_resort").Observe(float64(lastResort))
	p.lastResort.Add(float64(lastResort))
	p.planDuration.Observe(duration.Seconds())
}

// RouteFailed implements Recorder
func (p *Prometheus) RouteFailed(source, reason string) {
	p.routesFailed.WithLabelValues(source, reason).Inc()
}

// Reshuffled implements Recorder
func (p *Prometheus) Reshuffled() {
	p.reshuffles.Inc()
}

// LocationAdded implements Recorder
func (p *Prometheus) LocationAdded() {
	p.locationsAdded.Inc()
}
