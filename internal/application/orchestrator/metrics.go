package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "cleanline_wizard_transitions_total",
	Help: "Total wizard transitions handled, by stage and outcome.",
}, []string{"stage", "success"})
