package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initNetworkMetrics() {
	r.NetworkEntitiesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "contagion_network_entities_total",
			Help: "Entity count of the most recently built network",
		},
	)

	r.NetworkObligationsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "contagion_network_obligations_total",
			Help: "Obligation count of the most recently built network",
		},
	)

	r.NetworksBuiltTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contagion_networks_built_total",
			Help: "Total number of network constructions",
		},
		[]string{"status"},
	)

	r.ScenariosLoadedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contagion_scenarios_loaded_total",
			Help: "Total number of scenario documents parsed",
		},
		[]string{"status"},
	)

	r.NetworksGeneratedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "contagion_networks_generated_total",
			Help: "Total number of synthetic networks generated",
		},
	)
}
