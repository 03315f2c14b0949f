package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(a *App, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestInitializeWiresRoutes(t *testing.T) {
	for _, driver := range []string{"memory", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			t.Setenv("STORAGE_DRIVER", driver)
			t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "employee.db"))
			t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
			t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

			app := NewApp()
			require.NoError(t, app.Initialize(context.Background()))
			t.Cleanup(func() { assert.NoError(t, app.Close()) })

			rec := serve(app, http.MethodPost, APIPrefix+"/save", `{"name":"Alice","department":"CSE","salary":50000}`)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

			rec = serve(app, http.MethodGet, APIPrefix+"/all", "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `[{"id":1,"name":"Alice","department":"CSE","salary":50000,"reportsTo":null}]`, rec.Body.String())

			rec = serve(app, http.MethodGet, "/readyz", "")
			assert.Equal(t, http.StatusOK, rec.Code)

			rec = serve(app, http.MethodGet, "/metrics", "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "employee_details_http_requests_total")

			req := httptest.NewRequest(http.MethodOptions, APIPrefix+"/all", nil)
			req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
			req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
			preflight := httptest.NewRecorder()
			app.Echo.ServeHTTP(preflight, req)
			assert.Equal(t, "http://localhost:3000", preflight.Header().Get(echo.HeaderAccessControlAllowOrigin))
		})
	}
}

func TestInitializeUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	app := NewApp()
	err := app.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo")
	assert.NoError(t, app.Close())
}
