package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/items/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", Handler())

	ok := httpRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "200")
	notFound := httpRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "404")
	okBefore := testutil.ToFloat64(ok)
	notFoundBefore := testutil.ToFloat64(notFound)

	for _, path := range []string{"/items/1", "/items/2", "/items/missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, okBefore+2, testutil.ToFloat64(ok))
	assert.Equal(t, notFoundBefore+1, testutil.ToFloat64(notFound))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "employee_details_http_requests_total"))
}

func TestObserveSalaryUpdate(t *testing.T) {
	c := salaryUpdates.WithLabelValues("success")
	before := testutil.ToFloat64(c)
	ObserveSalaryUpdate("success")
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
