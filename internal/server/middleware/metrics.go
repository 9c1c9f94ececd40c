package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RouteMatcher находит шаблон маршрута для запроса, как http.ServeMux.Handler
type RouteMatcher interface {
	Handler(r *http.Request) (h http.Handler, pattern string)
}

// Metrics собирает метрики HTTP запросов для Prometheus
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
	routes   RouteMatcher
}

// NewMetrics создает метрики и регистрирует их в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bloglist",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bloglist",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bloglist",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests being served.",
		}),
	}

	reg.MustRegister(m.requests, m.duration, m.inFlight)
	return m
}

// WithRoutes задает поиск маршрута для запросов, которые отклонил
// middleware до ServeMux: у такого запроса r.Pattern пустой.
func (m *Metrics) WithRoutes(routes RouteMatcher) *Metrics {
	m.routes = routes
	return m
}

// Middleware создает middleware, который считает запросы и их длительность
// В метку route попадает шаблон маршрута ServeMux, а не сырой путь,
// чтобы ID записей не раздували число серий.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		wrapped := wrapResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" && m.routes != nil {
			_, route = m.routes.Handler(r)
		}
		if route == "" {
			route = "unmatched"
		}

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
