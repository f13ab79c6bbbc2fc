package metrics

import (
	"math"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

const namespace = "battpanel"

// Sink receives measurements. It matches source.Sink.
type Sink interface {
	OnMeasurement(powerinfo.Snapshot)
	OnProcessList([]powerinfo.ProcessEntry)
}

// Publisher matches panel.Publisher.
type Publisher interface {
	Publish(name string, payload any)
}

// Metrics exports the latest measurement and panel activity in the
// Prometheus text format.
type Metrics struct {
	registry *prometheus.Registry

	level        prometheus.Gauge
	power        prometheus.Gauge
	voltage      prometheus.Gauge
	temperature  prometheus.Gauge
	cycles       prometheus.Gauge
	onAC         prometheus.Gauge
	adapterWatts prometheus.Gauge
	measurements prometheus.Counter
	processLists prometheus.Counter
	events       *prometheus.CounterVec
}

func New() *Metrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}

	m := &Metrics{
		registry:     prometheus.NewRegistry(),
		level:        gauge("battery_level_ratio", "Battery charge level from 0 to 1."),
		power:        gauge("battery_power_watts", "Power flowing in or out of the battery."),
		voltage:      gauge("battery_voltage_volts", "Battery voltage."),
		temperature:  gauge("battery_temperature_celsius", "Battery temperature."),
		cycles:       gauge("battery_cycles", "Battery charge cycle count."),
		onAC:         gauge("on_ac_power", "1 while running on AC power."),
		adapterWatts: gauge("adapter_watts", "Rated power of the connected adapter."),
		measurements: counter("measurements_total", "Battery measurements received."),
		processLists: counter("process_lists_total", "Process lists received."),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panel_events_total",
			Help:      "Events published by the panel.",
		}, []string{"event"}),
	}

	m.registry.MustRegister(
		m.level, m.power, m.voltage, m.temperature, m.cycles, m.onAC, m.adapterWatts,
		m.measurements, m.processLists, m.events,
	)

	return m
}

// Registry exposes the collectors, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(s powerinfo.Snapshot) {
	m.measurements.Inc()
	m.level.Set(s.Level)
	m.power.Set(math.Abs(s.Voltage * float64(s.Amperage) / 1000))
	m.voltage.Set(s.Voltage)
	m.temperature.Set(s.Temperature)
	m.cycles.Set(float64(s.Cycles))
	if s.IsBatteryPowered {
		m.onAC.Set(0)
		m.adapterWatts.Set(0)
	} else {
		m.onAC.Set(1)
		m.adapterWatts.Set(float64(s.ACWatts))
	}
}

// Sink records every measurement before handing it to next.
func (m *Metrics) Sink(next Sink) Sink {
	return &sink{m: m, next: next}
}

type sink struct {
	m    *Metrics
	next Sink
}

func (s *sink) OnMeasurement(snap powerinfo.Snapshot) {
	s.m.observe(snap)
	s.next.OnMeasurement(snap)
}

func (s *sink) OnProcessList(list []powerinfo.ProcessEntry) {
	s.m.processLists.Inc()
	s.next.OnProcessList(list)
}

// Publisher counts events by name before handing them to next.
func (m *Metrics) Publisher(next Publisher) Publisher {
	return &publisher{m: m, next: next}
}

type publisher struct {
	m    *Metrics
	next Publisher
}

func (p *publisher) Publish(name string, payload any) {
	p.m.events.WithLabelValues(name).Inc()
	p.next.Publish(name, payload)
}
