package ops

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts commands that reached the document.
type Metrics struct {
	CommandsTotal *prometheus.CounterVec
	NoopsTotal    *prometheus.CounterVec
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// NewMetrics returns the process-wide command metrics, registering them on first use.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			CommandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "floorplan_commands_total",
				Help: "Total number of commands applied to a floorplan, by command",
			}, []string{"command"}),
			NoopsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "floorplan_command_noops_total",
				Help: "Total number of commands skipped because their target did not exist",
			}, []string{"command"}),
		}
	})
	return metricsInstance
}

// RecordCommand counts a command that changed the document.
func (m *Metrics) RecordCommand(command string) {
	if m == nil || m.CommandsTotal == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(command).Inc()
}

// RecordNoop counts a command skipped because its target was missing.
func (m *Metrics) RecordNoop(command string) {
	if m == nil || m.NoopsTotal == nil {
		return
	}
	m.NoopsTotal.WithLabelValues(command).Inc()
}
