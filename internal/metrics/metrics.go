// Package metrics collects per-invocation counters for batch runs and writes
// them in the Prometheus text format for the node-exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rnaseqkit"

// Metrics is a private registry; one per tool invocation.
type Metrics struct {
	reg *prometheus.Registry

	GenomesLoaded   prometheus.Gauge
	GenomesSelected prometheus.Gauge
	Clusters        prometheus.Gauge
	MissingPairs    prometheus.Gauge
	Experiments     *prometheus.CounterVec // label: status
	Samples         *prometheus.CounterVec // label: outcome
	RowsWritten     *prometheus.CounterVec // label: output
	StageSeconds    *prometheus.GaugeVec   // label: stage
	LastSuccess     prometheus.Gauge
}

// New registers every collector under a constant "tool" label.
func New(tool string) *Metrics {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"tool": tool}
	m := &Metrics{
		reg: reg,
		GenomesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "genomes_loaded", ConstLabels: labels,
			Help: "Distinct genomes in the distance table.",
		}),
		GenomesSelected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "genomes_selected", ConstLabels: labels,
			Help: "Genomes chosen by farthest-point selection.",
		}),
		Clusters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "clusters", ConstLabels: labels,
			Help: "Final clusters after reference forcing.",
		}),
		MissingPairs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "missing_pairs", ConstLabels: labels,
			Help: "Genome pairs absent from the distance table (filled with the default distance).",
		}),
		Experiments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "experiments_total", ConstLabels: labels,
			Help: "Experiments handled, by outcome.",
		}, []string{"status"}),
		Samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "samples_total", ConstLabels: labels,
			Help: "Sequencing runs handled, by outcome.",
		}, []string{"outcome"}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "rows_written_total", ConstLabels: labels,
			Help: "Data rows written, by output.",
		}, []string{"output"}),
		StageSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "stage_duration_seconds", ConstLabels: labels,
			Help: "Wall time of each stage of the last run.",
		}, []string{"stage"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_success_timestamp_seconds", ConstLabels: labels,
			Help: "Unix time the run finished successfully.",
		}),
	}
	reg.MustRegister(m.GenomesLoaded, m.GenomesSelected, m.Clusters, m.MissingPairs,
		m.Experiments, m.Samples, m.RowsWritten, m.StageSeconds, m.LastSuccess)
	return m
}

// Registry exposes the underlying registry (tests, custom exporters).
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Stage starts timing stage; call the returned func when it ends.
func (m *Metrics) Stage(stage string) func() {
	start := time.Now()
	return func() { m.StageSeconds.WithLabelValues(stage).Set(time.Since(start).Seconds()) }
}

// MarkSuccess stamps the success gauge with now.
func (m *Metrics) MarkSuccess() { m.LastSuccess.SetToCurrentTime() }

// WriteFile writes the registry to path atomically. An empty path is a no-op.
func (m *Metrics) WriteFile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.reg)
}
