package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetrics_RecordsRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg)
	if err != nil {
		t.Fatalf("NewHTTPMetrics: %v", err)
	}

	e := echo.New()
	e.Use(m.Handler())
	e.GET("/loans/:loan_id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.POST("/loans", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "bad")
	})

	for _, r := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/loans/a", nil),
		httptest.NewRequest(http.MethodGet, "/loans/b", nil),
		httptest.NewRequest(http.MethodPost, "/loans", nil),
	} {
		e.ServeHTTP(httptest.NewRecorder(), r)
	}

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/loans/:loan_id", "200")); got != 2 {
		t.Fatalf("GET count = %v", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("POST", "/loans", "422")); got != 1 {
		t.Fatalf("POST 422 count = %v", got)
	}
	if got := testutil.ToFloat64(m.InFlight); got != 0 {
		t.Fatalf("in-flight = %v", got)
	}
}

func TestNewHTTPMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewHTTPMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewHTTPMetrics(reg)
	if err != nil {
		t.Fatalf("second registration: %v", err)
	}
	if a.Requests != b.Requests {
		t.Fatal("expected the already registered counter vec")
	}
}

func TestHTTPMetrics_NilIsPassthrough(t *testing.T) {
	var m *HTTPMetrics
	e := echo.New()
	e.Use(m.Handler())
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
}
