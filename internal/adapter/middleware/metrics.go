package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"fastloan-backend/internal/infrastructure/metrics"
)

// HTTPMetrics holds request collectors partitioned by method, route and status.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	var (
		m   HTTPMetrics
		err error
	)
	labels := []string{"method", "route", "status"}
	if m.Requests, err = metrics.Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fastloan", Subsystem: "http", Name: "requests_total",
		Help: "Total number of HTTP requests partitioned by method, route, and status code.",
	}, labels)); err != nil {
		return nil, err
	}
	if m.Duration, err = metrics.Register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fastloan", Subsystem: "http", Name: "request_duration_seconds",
		Help:    "HTTP request latencies in seconds partitioned by method, route, and status code.",
		Buckets: prometheus.DefBuckets,
	}, labels)); err != nil {
		return nil, err
	}
	if m.InFlight, err = metrics.Register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fastloan", Subsystem: "http", Name: "in_flight_requests",
		Help: "Current number of in-flight HTTP requests.",
	})); err != nil {
		return nil, err
	}
	return &m, nil
}

// Handler records every request. Errors returned by next are rendered first
// so the recorded status is the one the client sees.
func (m *HTTPMetrics) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m == nil {
			return next
		}
		return func(c echo.Context) error {
			start := time.Now()
			m.InFlight.Inc()
			defer m.InFlight.Dec()

			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			labels := prometheus.Labels{
				"method": c.Request().Method,
				"route":  route,
				"status": strconv.Itoa(c.Response().Status),
			}
			m.Requests.With(labels).Inc()
			m.Duration.With(labels).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
