// Package metrics records Prometheus metrics for a conversion run. Runs are
// one-shot, so metrics go to a per-run registry that can be written as a
// node_exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "segy2netcdf"

// Metrics holds the metrics of one conversion. A nil *Metrics records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	tracesRead       prometheus.Counter
	variablesWritten *prometheus.CounterVec // By variable kind
	fieldsSkipped    prometheus.Counter
	dataBytes        prometheus.Counter
	duration         prometheus.Gauge
}

// New creates the metrics and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		tracesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traces_read_total",
			Help:      "Total number of SEG-Y traces whose samples were read",
		}),

		variablesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "variables_written_total",
			Help:      "Total number of NetCDF variables written",
		}, []string{"kind"}),

		fieldsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_skipped_total",
			Help:      "Total number of requested header fields skipped as unknown",
		}),

		dataBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_bytes_total",
			Help:      "Total number of uncompressed variable data bytes written",
		}),

		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Wall time of the last conversion in seconds",
		}),
	}
	m.registry.MustRegister(m.tracesRead, m.variablesWritten, m.fieldsSkipped, m.dataBytes, m.duration)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// TracesRead adds n traces read.
func (m *Metrics) TracesRead(n int) {
	if m == nil {
		return
	}
	m.tracesRead.Add(float64(n))
}

// VariableWritten counts a written variable of the given kind holding
// bytes of uncompressed data.
func (m *Metrics) VariableWritten(kind string, bytes int64) {
	if m == nil {
		return
	}
	m.variablesWritten.WithLabelValues(kind).Inc()
	m.dataBytes.Add(float64(bytes))
}

// FieldSkipped counts an unknown header field.
func (m *Metrics) FieldSkipped() {
	if m == nil {
		return
	}
	m.fieldsSkipped.Inc()
}

// ObserveDuration records the wall time of the conversion.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Set(d.Seconds())
}

// WriteTextfile writes the metrics in the text exposition format to path,
// atomically, for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
