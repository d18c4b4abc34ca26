package agent

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Invocation outcomes, used as the "outcome" label.
const (
	OutcomeExecuted  = "executed"
	OutcomeRejected  = "rejected"
	OutcomeNoop      = "noop"
	OutcomeDuplicate = "duplicate"
)

type Metrics struct {
	InvocationsTotal *prometheus.CounterVec
	StreamPayloads   prometheus.Counter
	MalformedLines   prometheus.Counter
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			InvocationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "floorplan_agent_invocations_total",
				Help: "Total number of agent invocations, by command and outcome",
			}, []string{"command", "outcome"}),
			StreamPayloads: promauto.NewCounter(prometheus.CounterOpts{
				Name: "floorplan_agent_stream_payloads_total",
				Help: "Total number of invocation payloads extracted from model streams",
			}),
			MalformedLines: promauto.NewCounter(prometheus.CounterOpts{
				Name: "floorplan_agent_stream_malformed_total",
				Help: "Total number of complete stream lines that failed to parse",
			}),
		}
	})
	return metricsInstance
}

// RecordInvocation counts one invocation by command and outcome.
func (m *Metrics) RecordInvocation(command, outcome string) {
	if m == nil || m.InvocationsTotal == nil {
		return
	}
	m.InvocationsTotal.WithLabelValues(command, outcome).Inc()
}

// RecordPayloads counts invocations parsed from a stream.
func (m *Metrics) RecordPayloads(n int) {
	if m == nil || m.StreamPayloads == nil || n <= 0 {
		return
	}
	m.StreamPayloads.Add(float64(n))
}

// RecordMalformed counts stream lines that could not be parsed.
func (m *Metrics) RecordMalformed(n int) {
	if m == nil || m.MalformedLines == nil || n <= 0 {
		return
	}
	m.MalformedLines.Add(float64(n))
}
