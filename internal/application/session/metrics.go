package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "cleanline_wizard_active_sessions",
		Help: "Number of active order wizard sessions.",
	})

	expiredSessions = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "cleanline_wizard_sessions_expired_total",
		Help: "Total number of wizard sessions removed by the idle sweep.",
	})
)
