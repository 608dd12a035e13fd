package main

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"waves-server/internal/lens"
)

var serverStartTime = time.Now()

// HTTP metrics
var (
	httpRequestsTotal atomic.Int64
	httpErrorsTotal   atomic.Int64
)

// Action metrics
var (
	reactionsConfirmed       atomic.Int64
	reactionsRejected        atomic.Int64
	reactionsUnauthenticated atomic.Int64
	mirrorsTotal             atomic.Int64
	mirrorsFailed            atomic.Int64
	mirrorsDisabled          atomic.Int64
	loginsTotal              atomic.Int64
	loginFailures            atomic.Int64
)

// MetricsSources are the optional collaborators whose counters /metrics
// reports. Nil funcs are skipped.
type MetricsSources struct {
	CacheBackend string
	Lens         func() lens.Stats
	Cache        func() (hits, misses int64)
	Playback     func() (lookups, fails int64)
}

func writeMetric(w http.ResponseWriter, name, kind, help string, value any) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	fmt.Fprintf(w, "%s %v\n\n", name, value)
}

// metricsHandler serves Prometheus-compatible metrics
func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	m := a.metrics

	fmt.Fprintf(w, "# HELP waves_build_info Build and configuration information\n")
	fmt.Fprintf(w, "# TYPE waves_build_info gauge\n")
	fmt.Fprintf(w, "waves_build_info{cache_backend=%q,go_version=%q,mirror_enabled=%q} 1\n\n",
		m.CacheBackend, runtime.Version(), fmt.Sprint(a.cfg.MirrorEnabled))

	writeMetric(w, "process_start_time_seconds", "gauge", "Unix timestamp of process start", serverStartTime.Unix())
	writeMetric(w, "process_uptime_seconds", "gauge", "Time since process started", fmt.Sprintf("%.0f", time.Since(serverStartTime).Seconds()))

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	writeMetric(w, "go_goroutines", "gauge", "Number of active goroutines", runtime.NumGoroutine())
	writeMetric(w, "go_memstats_alloc_bytes", "gauge", "Currently allocated memory in bytes", memStats.Alloc)
	writeMetric(w, "go_memstats_heap_inuse_bytes", "gauge", "Heap memory in use", memStats.HeapInuse)
	writeMetric(w, "go_gc_cycles_total", "counter", "Number of completed GC cycles", memStats.NumGC)

	writeMetric(w, "http_requests_total", "counter", "Total number of HTTP requests", httpRequestsTotal.Load())
	writeMetric(w, "http_errors_total", "counter", "Total number of HTTP 5xx errors", httpErrorsTotal.Load())

	fmt.Fprintf(w, "# HELP waves_reactions_total Reaction toggles by outcome\n")
	fmt.Fprintf(w, "# TYPE waves_reactions_total counter\n")
	fmt.Fprintf(w, "waves_reactions_total{outcome=\"confirmed\"} %d\n", reactionsConfirmed.Load())
	fmt.Fprintf(w, "waves_reactions_total{outcome=\"rejected\"} %d\n", reactionsRejected.Load())
	fmt.Fprintf(w, "waves_reactions_total{outcome=\"unauthenticated\"} %d\n\n", reactionsUnauthenticated.Load())

	fmt.Fprintf(w, "# HELP waves_mirrors_total Mirror requests by outcome\n")
	fmt.Fprintf(w, "# TYPE waves_mirrors_total counter\n")
	fmt.Fprintf(w, "waves_mirrors_total{outcome=\"relayed\"} %d\n", mirrorsTotal.Load())
	fmt.Fprintf(w, "waves_mirrors_total{outcome=\"failed\"} %d\n", mirrorsFailed.Load())
	fmt.Fprintf(w, "waves_mirrors_total{outcome=\"disabled\"} %d\n\n", mirrorsDisabled.Load())

	writeMetric(w, "waves_logins_total", "counter", "Successful Lens sign-ins", loginsTotal.Load())
	writeMetric(w, "waves_login_failures_total", "counter", "Failed Lens sign-in attempts", loginFailures.Load())

	if m.Lens != nil {
		s := m.Lens()
		writeMetric(w, "lens_calls_total", "counter", "GraphQL operations sent to the Lens API", s.Calls)
		writeMetric(w, "lens_errors_total", "counter", "Lens API operations that failed", s.Errors)
		writeMetric(w, "lens_cache_hits_total", "counter", "Anonymous Lens reads served from cache", s.CacheHits)
		writeMetric(w, "lens_shared_total", "counter", "Lens reads collapsed into an in-flight call", s.Shared)
	}

	if m.Cache != nil {
		hits, misses := m.Cache()
		writeMetric(w, "cache_hits_total", "counter", "Total cache hits", hits)
		writeMetric(w, "cache_misses_total", "counter", "Total cache misses", misses)

		// Cache hit ratio (useful for alerting)
		var hitRatio float64
		if total := hits + misses; total > 0 {
			hitRatio = float64(hits) / float64(total)
		}
		writeMetric(w, "cache_hit_ratio", "gauge", "Cache hit ratio (0-1)", fmt.Sprintf("%.4f", hitRatio))
	}

	if m.Playback != nil {
		lookups, fails := m.Playback()
		writeMetric(w, "livepeer_lookups_total", "counter", "Playback info lookups sent to Livepeer", lookups)
		writeMetric(w, "livepeer_failures_total", "counter", "Playback info lookups that fell back to the gateway", fails)
	}
}
