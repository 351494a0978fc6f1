package handlers

import (
	"net/http"

	"github.com/linesmerrill/pet-health-api/api"
)

// MetricsHandler serves the in-memory request metrics
type MetricsHandler struct {
	Metrics *api.Metrics
}

// formatRouteMetrics converts duration fields to milliseconds for JSON serialization
func formatRouteMetrics(routes []*api.RouteMetrics) []map[string]interface{} {
	result := make([]map[string]interface{}, len(routes))
	for i, route := range routes {
		result[i] = map[string]interface{}{
			"method":      route.Method,
			"path":        route.Path,
			"count":       route.Count,
			"errorCount":  route.ErrorCount,
			"avgTime":     route.AvgTime.Milliseconds(),
			"minTime":     route.MinTime.Milliseconds(),
			"maxTime":     route.MaxTime.Milliseconds(),
			"lastRequest": route.LastRequest,
		}
	}
	return result
}

// GetMetricsSummary returns the request totals and per-route timings
func (m MetricsHandler) GetMetricsSummary(w http.ResponseWriter, r *http.Request) {
	summary := m.Metrics.Summary()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"since":         summary.Since,
		"totalRequests": summary.TotalRequests,
		"totalErrors":   summary.TotalErrors,
		"errorRate":     summary.ErrorRate,
		"routes":        formatRouteMetrics(summary.Routes),
	})
}
