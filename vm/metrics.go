package vm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts executed program calls.
type Metrics struct {
	instructions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	instructions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loom_instructions_total",
		Help: "Total number of program calls, cross program invocations included",
	}, []string{"program", "result"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "loom_instruction_duration_seconds",
		Help:    "Time spent in a single program call",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{"program"})

	reg.MustRegister(instructions, duration)
	return &Metrics{
		instructions: instructions,
		duration:     duration,
	}
}

func (m *Metrics) observe(program string, took time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.instructions.WithLabelValues(program, result).Inc()
	m.duration.WithLabelValues(program).Observe(took.Seconds())
}
