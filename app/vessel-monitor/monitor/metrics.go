package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the monitor's Prometheus instruments
type Collector struct {
	reg *prometheus.Registry

	TicksTotal       prometheus.Counter
	TickDuration     prometheus.Histogram
	LocationsFetched prometheus.Gauge
	EventsTotal      *prometheus.CounterVec
	PredictionsTotal prometheus.Counter
	PredictionErrs   prometheus.Counter
	SubroutineErrs   *prometheus.CounterVec
	EarlyDepartures  prometheus.Counter
}

// NewCollector builds and registers the monitor's instruments on a private registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		reg: reg,
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ferrycast_monitor_ticks_total",
			Help: "Completed monitor ticks.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ferrycast_monitor_tick_duration_seconds",
			Help:    "Wall time per monitor tick.",
			Buckets: prometheus.DefBuckets,
		}),
		LocationsFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ferrycast_monitor_locations_fetched",
			Help: "Vessel position reports fetched on the last tick.",
		}),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ferrycast_monitor_trip_events_total",
			Help: "Trip events detected, by event type.",
		}, []string{"event"}),
		PredictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ferrycast_monitor_predictions_total",
			Help: "Predictions successfully produced.",
		}),
		PredictionErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ferrycast_monitor_prediction_errors_total",
			Help: "Prediction requests that failed.",
		}),
		SubroutineErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ferrycast_monitor_subroutine_errors_total",
			Help: "Tick subroutine failures, by subroutine.",
		}, []string{"subroutine"}),
		EarlyDepartures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ferrycast_monitor_early_departures_total",
			Help: "Dock departures more than the tolerance before schedule.",
		}),
	}
	reg.MustRegister(c.TicksTotal, c.TickDuration, c.LocationsFetched, c.EventsTotal,
		c.PredictionsTotal, c.PredictionErrs, c.SubroutineErrs, c.EarlyDepartures)
	return c
}

// Handler serves the collector's registry for scraping
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// nil receivers are tolerated so tests can run without instruments

func (c *Collector) TickCompleted(took time.Duration) {
	if c == nil {
		return
	}
	c.TicksTotal.Inc()
	c.TickDuration.Observe(took.Seconds())
}

func (c *Collector) LocationsObserved(count int) {
	if c == nil {
		return
	}
	c.LocationsFetched.Set(float64(count))
}

func (c *Collector) EventObserved(event string) {
	if c == nil {
		return
	}
	c.EventsTotal.WithLabelValues(event).Inc()
}

func (c *Collector) PredictionMade() {
	if c == nil {
		return
	}
	c.PredictionsTotal.Inc()
}

func (c *Collector) PredictionFailed() {
	if c == nil {
		return
	}
	c.PredictionErrs.Inc()
}

func (c *Collector) SubroutineFailed(subroutine string) {
	if c == nil {
		return
	}
	c.SubroutineErrs.WithLabelValues(subroutine).Inc()
}

func (c *Collector) EarlyDepartureObserved() {
	if c == nil {
		return
	}
	c.EarlyDepartures.Inc()
}
