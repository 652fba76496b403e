package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/aurelia-api/internal/config"
	"github.com/deppfellow/aurelia-api/internal/errs"
	"github.com/deppfellow/aurelia-api/internal/metrics"
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(buf *bytes.Buffer) *server.Server {
	logger := zerolog.New(buf)
	return &server.Server{
		Config:  config.Default(),
		Logger:  &logger,
		Metrics: metrics.New(),
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	mw := NewMiddlewares(s)

	e := echo.New()
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	e.Use(
		RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.CORS(),
		mw.Metrics.Observe(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
	)
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(newTestServer(&buf))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("reused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("invalid replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})
}

func TestGlobalErrorHandler(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(newTestServer(&buf))

	e.GET("/bad", func(c echo.Context) error {
		return errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{{Field: "name", Error: "is required"}})
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("driver exploded")
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("handler panicked")
	})
	e.GET("/unique", func(c echo.Context) error {
		return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	})
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot)
	})
	e.GET("/db-down", func(c echo.Context) error {
		return errs.NewInternalServerErrorWithMessage(errors.New("database not available"))
	})

	tests := []struct {
		path    string
		status  int
		code    string
		message string
	}{
		{"/bad", http.StatusBadRequest, "BAD_REQUEST", "Validation failed"},
		{"/boom", http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error"},
		{"/panic", http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error"},
		{"/unique", http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error"},
		{"/teapot", http.StatusTeapot, "I'M_A_TEAPOT", "I'm a teapot"},
		{"/db-down", http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "database not available"},
		{"/missing", http.StatusNotFound, "NOT_FOUND", "Route not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))
	body := decodeError(t, rec)
	assert.True(t, body.Override)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is required"}}, body.Errors)
}

func TestRequestLoggerUsesErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(newTestServer(&buf))
	e.GET("/bad", func(c echo.Context) error {
		return errs.NewBadRequestError("nope", false, nil, nil)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))

	assert.Contains(t, buf.String(), `"status":400`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"message":"API"`)
}

func TestCORSAllowsAnyOriginWithCredentials(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(newTestServer(&buf))
	e.POST("/api/contact", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set(echo.HeaderOrigin, "https://studio.example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	req.Header.Set(echo.HeaderAccessControlRequestHeaders, "Content-Type, X-Custom")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://studio.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	assert.Equal(t, "Content-Type, X-Custom", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost)
}

func TestMetricsMiddlewareRecordsRoutes(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(&buf)
	e := newTestEcho(s)
	e.GET("/api/projects", func(c echo.Context) error { return c.JSON(http.StatusOK, []string{}) })

	for i := 0; i < 2; i++ {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	}
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere/123", nil))

	expected := `
# HELP aurelia_http_requests_total HTTP requests by method, route and status code.
# TYPE aurelia_http_requests_total counter
aurelia_http_requests_total{method="GET",route="/api/projects",status="200"} 2
aurelia_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(s.Metrics.Registry(), strings.NewReader(expected), "aurelia_http_requests_total"))
}

func TestGetLoggerWithoutEnhancer(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
}
