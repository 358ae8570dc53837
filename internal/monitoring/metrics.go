package monitoring

import (
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics is a point-in-time snapshot of request counters. Collection is
// in-process; the /metrics endpoint serves the snapshot as JSON.
type Metrics struct {
	RequestCount   int64                    `json:"request_count"`
	ErrorCount     int64                    `json:"error_count"`
	ActiveRequests int64                    `json:"active_requests"`
	StatusCodes    map[string]int64         `json:"status_codes"`
	Endpoints      map[string]EndpointStats `json:"endpoints"`
	Runtime        map[string]interface{}   `json:"runtime"`
}

type EndpointStats struct {
	Count          int64         `json:"count"`
	Errors         int64         `json:"errors"`
	TotalDuration  time.Duration `json:"-"`
	AvgDurationMs  float64       `json:"avg_duration_ms"`
	LastDurationMs float64       `json:"last_duration_ms"`
}

type collector struct {
	mu             sync.Mutex
	requestCount   int64
	errorCount     int64
	activeRequests int64
	statusCodes    map[string]int64
	endpoints      map[string]*EndpointStats
}

var global = newCollector()

func newCollector() *collector {
	return &collector{
		statusCodes: make(map[string]int64),
		endpoints:   make(map[string]*EndpointStats),
	}
}

func resetGlobalMetrics() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.requestCount = 0
	global.errorCount = 0
	global.activeRequests = 0
	global.statusCodes = make(map[string]int64)
	global.endpoints = make(map[string]*EndpointStats)
}

func (m *collector) record(method, path string, status int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requestCount++
	m.statusCodes[http.StatusText(status)]++

	isError := status >= http.StatusInternalServerError
	if isError {
		m.errorCount++
	}

	key := method + " " + path
	stats, ok := m.endpoints[key]
	if !ok {
		stats = &EndpointStats{}
		m.endpoints[key] = stats
	}
	stats.Count++
	if isError {
		stats.Errors++
	}
	stats.TotalDuration += duration
	stats.AvgDurationMs = float64(stats.TotalDuration.Microseconds()) / float64(stats.Count) / 1000.0
	stats.LastDurationMs = float64(duration.Microseconds()) / 1000.0
}

// MetricsMiddleware counts every request, its status class and latency,
// keyed by the route template rather than the raw path so user IDs do not
// explode the cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		global.mu.Lock()
		global.activeRequests++
		global.mu.Unlock()

		c.Next()

		global.mu.Lock()
		global.activeRequests--
		global.mu.Unlock()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		global.record(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

func GetMetrics() Metrics {
	global.mu.Lock()
	defer global.mu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	snapshot := Metrics{
		RequestCount:   global.requestCount,
		ErrorCount:     global.errorCount,
		ActiveRequests: global.activeRequests,
		StatusCodes:    make(map[string]int64, len(global.statusCodes)),
		Endpoints:      make(map[string]EndpointStats, len(global.endpoints)),
		Runtime: map[string]interface{}{
			"goroutines":  runtime.NumGoroutine(),
			"heap_alloc":  mem.HeapAlloc,
			"total_alloc": mem.TotalAlloc,
			"num_gc":      mem.NumGC,
		},
	}
	for code, count := range global.statusCodes {
		snapshot.StatusCodes[code] = count
	}
	for key, stats := range global.endpoints {
		snapshot.Endpoints[key] = *stats
	}
	return snapshot
}

func MetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, GetMetrics())
	}
}
