package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "globe", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "globe", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ResolveOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "globe", Name: "resolve_total", Help: "Click resolutions by outcome."},
		[]string{"outcome"}, // outcome: hit|miss|not_ready|invalid
	)
	ResolveLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "globe", Name: "resolve_duration_seconds",
			Help:    "Click resolution duration seconds, cache lookups included.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "globe", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|corrupt|set|del|evict
	)
	CatalogueSize = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "globe", Name: "catalogue_locations", Help: "Locations in the loaded catalogue."},
	)
	SceneReady = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "globe", Name: "scene_ready", Help: "1 once the globe scene is ready for clicks."},
	)
)

// Serve exposes /metrics on its own listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ResolveOutcomes, ResolveLatency, CacheEvents, CatalogueSize, SceneReady)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveResolve(outcome string, dur time.Duration) {
	ResolveOutcomes.WithLabelValues(outcome).Inc()
	ResolveLatency.Observe(dur.Seconds())
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func SetCatalogueSize(n int) { CatalogueSize.Set(float64(n)) }

func SetSceneReady(ready bool) {
	if ready {
		SceneReady.Set(1)
		return
	}
	SceneReady.Set(0)
}
