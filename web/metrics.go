package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	analyses *prometheus.CounterVec
	sheets   *prometheus.CounterVec
	duration prometheus.Histogram
}

// newMetrics registers collectors on a private registry so several servers
// can live in one process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gocargo_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gocargo_analyses_total",
			Help: "Uploaded workbook analyses by outcome.",
		}, []string{"outcome"}),
		sheets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gocargo_sheets_total",
			Help: "Sheets seen in uploaded workbooks by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gocargo_analysis_duration_seconds",
			Help:    "Time spent loading, combining and aggregating one upload.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.analyses,
		m.sheets,
		m.duration,
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeAnalysis(outcome string, succeeded, failed int, elapsed time.Duration) {
	m.analyses.WithLabelValues(outcome).Inc()
	m.sheets.WithLabelValues("ok").Add(float64(succeeded))
	m.sheets.WithLabelValues("failed").Add(float64(failed))
	m.duration.Observe(elapsed.Seconds())
}

// instrument counts requests by route pattern, not raw path, to keep label
// cardinality bounded.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
