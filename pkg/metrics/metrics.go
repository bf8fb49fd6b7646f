package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordCascade records one cascade run with its outcome
func (r *Registry) RecordCascade(status string, duration time.Duration, steps, failedEntities int) {
	r.CascadeRunsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		r.CascadeDuration.Observe(duration.Seconds())
		r.CascadeSteps.Observe(float64(steps))
		r.CascadeFailedEntities.Observe(float64(failedEntities))
	}
}

// RecordCriticality records one criticality ranking
func (r *Registry) RecordCriticality(status string, duration time.Duration) {
	r.CriticalityRunsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		r.CriticalityDuration.Observe(duration.Seconds())
	}
}

// RecordNetworkBuilt records a network construction and its size
func (r *Registry) RecordNetworkBuilt(status string, entities, obligations int) {
	r.NetworksBuiltTotal.WithLabelValues(status).Inc()
	if status == "success" {
		r.NetworkEntitiesTotal.Set(float64(entities))
		r.NetworkObligationsTotal.Set(float64(obligations))
	}
}

// RecordScenarioLoaded records a scenario parse attempt
func (r *Registry) RecordScenarioLoaded(status string) {
	r.ScenariosLoadedTotal.WithLabelValues(status).Inc()
}

// RecordNetworkGenerated records a synthetic network generation
func (r *Registry) RecordNetworkGenerated() {
	r.NetworksGeneratedTotal.Inc()
}

// UpdateSystemMetrics refreshes uptime and runtime gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
	r.MemorySysBytes.Set(float64(mem.Sys))
}
