package graph

import "github.com/prometheus/client_golang/prometheus"

var (
	// entitiesCreated counts entities registered, per kind
	entitiesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagram_entities_created_total",
			Help: "Total number of entities registered in a graph",
		},
		[]string{"kind"},
	)

	// entitiesDeleted counts registry removals, cascades included
	entitiesDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagram_entities_deleted_total",
			Help: "Total number of entities removed from a graph",
		},
		[]string{"kind"},
	)

	// entitiesLive tracks entities currently registered across all graphs
	entitiesLive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "diagram_entities_live",
			Help: "Entities currently registered",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(entitiesCreated)
	prometheus.MustRegister(entitiesDeleted)
	prometheus.MustRegister(entitiesLive)
}
