package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line), sc.Text())
		lines = append(lines, line)
	}
	return lines
}

func TestRequestLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	base := build(Options{Level: "debug", Output: buf})

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(RequestLogger())
	e.GET("/employees/:id", func(c echo.Context) error {
		InfoLog(c.Request().Context(), "looking up %s", c.Param("id"))
		if c.Param("id") == "7" {
			return echo.NewHTTPError(http.StatusNotFound, "missing")
		}
		return c.String(http.StatusOK, "found")
	})

	req := httptest.NewRequest(http.MethodGet, "/employees/7", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	req = req.WithContext(base.WithContext(req.Context()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(echo.HeaderXRequestID))

	lines := readLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "looking up 7", lines[0]["message"])
	assert.Equal(t, "req-1", lines[0]["request_id"])

	access := lines[1]
	assert.Equal(t, "request", access["message"])
	assert.Equal(t, "warn", access["level"])
	assert.Equal(t, "req-1", access["request_id"])
	assert.Equal(t, "/employees/:id", access["route"])
	assert.Equal(t, float64(http.StatusNotFound), access["status"])
}
