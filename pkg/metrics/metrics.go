package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicedesk_tool_calls_total",
			Help: "Tool calls by assistant, tool and outcome (ok, a failure kind, or error)",
		},
		[]string{"assistant", "tool", "outcome"},
	)

	ToolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voicedesk_tool_call_duration_seconds",
			Help:    "Duration of a tool call including session load and save",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"assistant", "tool"},
	)

	ActiveSessions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "voicedesk_session_locks_active",
			Help: "Sessions with a tool call running or waiting",
		},
		[]string{"assistant"},
	)
)
