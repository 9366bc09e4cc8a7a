package editor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EventsTotal counts applied input events
var EventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "diagram_events_total",
		Help: "Total number of input events applied to the editor",
	},
	[]string{"type", "result"},
)

func init() {
	prometheus.MustRegister(EventsTotal)
}
