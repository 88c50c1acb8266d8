package httpapi

import (
	"net/http"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// highrBuckets give the unlabelled latency histogram fine resolution for quantiles.
var highrBuckets = []float64{
	0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 1.5,
	2, 2.5, 3, 3.5, 4, 4.5, 5, 7.5, 10, 30, 60,
}

// Metrics records per-route request metrics on an injected registry.
//
// Series are keyed by chi route template and status class (2xx, 4xx, ...),
// never by raw path or exact code. Requests that match no route template are
// not recorded, and paths under one of the excluded prefixes bypass
// instrumentation entirely.
type Metrics struct {
	gatherer prometheus.Gatherer
	excluded []string

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	durationHighr prometheus.Histogram
	requestSize   *prometheus.HistogramVec
	responseSize  *prometheus.HistogramVec
}

// NewMetrics registers the HTTP collectors on reg. It panics if they are
// already registered there.
func NewMetrics(reg *prometheus.Registry, excluded ...string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		excluded: append([]string(nil), excluded...),
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of requests by method, handler and status class.",
			},
			[]string{"method", "handler", "status"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests in seconds.",
				Buckets: []float64{0.1, 0.5, 1},
			},
			[]string{"method", "handler"},
		),
		durationHighr: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_highr_seconds",
				Help:    "Latency with many buckets but no labels.",
				Buckets: highrBuckets,
			},
		),
		requestSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "Content length of incoming requests by handler.",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"handler"},
		),
		responseSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "Size of responses by handler.",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"handler"},
		),
	}
}

// Handler serves the registry in the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError})
}

// Middleware records count, latency and sizes for every templated route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if matchesPrefix(m.excluded, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		// The route context is filled in by the router as it dispatches.
		rctx := chi.RouteContext(r.Context())
		if rctx == nil {
			return
		}
		handler := rctx.RoutePattern()
		if handler == "" {
			return
		}
		m.requests.WithLabelValues(r.Method, handler, statusClass(responseStatus(ww))).Inc()
		elapsed := time.Since(start).Seconds()
		m.duration.WithLabelValues(r.Method, handler).Observe(elapsed)
		m.durationHighr.Observe(elapsed)
		if r.ContentLength > 0 {
			m.requestSize.WithLabelValues(handler).Observe(float64(r.ContentLength))
		}
		m.responseSize.WithLabelValues(handler).Observe(float64(ww.BytesWritten()))
	})
}

// statusClass groups a status code into its class, e.g. 404 -> "4xx".
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}
