package api

import (
	"regexp"
	"sort"
	"sync"
	"time"
)

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

// MetricsSummary is the payload of the metrics endpoint
type MetricsSummary struct {
	Since         time.Time       `json:"since"`
	TotalRequests int64           `json:"totalRequests"`
	TotalErrors   int64           `json:"totalErrors"`
	ErrorRate     float64         `json:"errorRate"`
	Routes        []*RouteMetrics `json:"routes"`
}

// Metrics collects per-route request counts and timings in memory
type Metrics struct {
	mu            sync.RWMutex
	since         time.Time
	routes        map[string]*RouteMetrics
	totalRequests int64
	totalErrors   int64
}

// NewMetrics creates an empty collector
func NewMetrics() *Metrics {
	return &Metrics{
		since:  time.Now(),
		routes: make(map[string]*RouteMetrics),
	}
}

// Record adds one finished request
func (m *Metrics) Record(method, path string, status int, duration time.Duration, at time.Time) {
	path = normalizeRoutePath(path)
	key := method + " " + path

	m.mu.Lock()
	defer m.mu.Unlock()

	rm, ok := m.routes[key]
	if !ok {
		rm = &RouteMetrics{Method: method, Path: path, MinTime: duration}
		m.routes[key] = rm
	}
	rm.Count++
	rm.TotalTime += duration
	rm.AvgTime = rm.TotalTime / time.Duration(rm.Count)
	rm.LastRequest = at
	if duration < rm.MinTime {
		rm.MinTime = duration
	}
	if duration > rm.MaxTime {
		rm.MaxTime = duration
	}

	m.totalRequests++
	if status >= 400 {
		rm.ErrorCount++
		m.totalErrors++
	}
}

// Summary returns a copy of the collected metrics, slowest routes first
func (m *Metrics) Summary() MetricsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	routes := make([]*RouteMetrics, 0, len(m.routes))
	for _, rm := range m.routes {
		c := *rm
		routes = append(routes, &c)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].AvgTime != routes[j].AvgTime {
			return routes[i].AvgTime > routes[j].AvgTime
		}
		return routes[i].Method+routes[i].Path < routes[j].Method+routes[j].Path
	})

	var errorRate float64
	if m.totalRequests > 0 {
		errorRate = float64(m.totalErrors) / float64(m.totalRequests)
	}
	return MetricsSummary{
		Since:         m.since,
		TotalRequests: m.totalRequests,
		TotalErrors:   m.totalErrors,
		ErrorRate:     errorRate,
		Routes:        routes,
	}
}

var objectIDSegment = regexp.MustCompile(`/[0-9a-fA-F]{24}(/|$)`)

// normalizeRoutePath replaces ObjectID path segments with {id}, so
// /api/v1/pets/507f1f77bcf86cd799439011/reminders becomes /api/v1/pets/{id}/reminders
func normalizeRoutePath(path string) string {
	// twice, because adjacent ids share the separating slash
	path = objectIDSegment.ReplaceAllString(path, "/{id}$1")
	path = objectIDSegment.ReplaceAllString(path, "/{id}$1")
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
