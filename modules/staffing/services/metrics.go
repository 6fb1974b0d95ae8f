package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	staffingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staffing",
		Subsystem: "write",
		Name:      "transitions_total",
		Help:      "Total number of role-assignment transitions broken down by role and result.",
	}, []string{"role", "result"})

	staffingWriteConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staffing",
		Subsystem: "write",
		Name:      "conflicts_total",
		Help:      "Total number of staffing write conflicts broken down by kind.",
	}, []string{"kind"})
)

func recordTransition(role string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	staffingTransitions.WithLabelValues(role, result).Inc()
}

func recordWriteConflict(kind string) {
	if kind == "" {
		kind = "other"
	}
	staffingWriteConflicts.WithLabelValues(kind).Inc()
}
