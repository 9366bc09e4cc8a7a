package mode

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ModeTransitions counts switches between modes
	ModeTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagram_mode_transitions_total",
			Help: "Total number of interaction mode switches",
		},
		[]string{"from", "to"},
	)

	// Gestures counts pointer-down events per active mode
	Gestures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagram_gestures_total",
			Help: "Total number of gestures started per mode",
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(ModeTransitions)
	prometheus.MustRegister(Gestures)
}
