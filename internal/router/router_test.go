package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/aurelia-api/internal/config"
	"github.com/deppfellow/aurelia-api/internal/database"
	"github.com/deppfellow/aurelia-api/internal/errs"
	"github.com/deppfellow/aurelia-api/internal/handler"
	"github.com/deppfellow/aurelia-api/internal/metrics"
	"github.com/deppfellow/aurelia-api/internal/model"
	"github.com/deppfellow/aurelia-api/internal/repository"
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/deppfellow/aurelia-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableStore behaves like a database that cannot be reached.
type unreachableStore struct {
	database.MemoryStore
	panicking bool
}

var errUnreachable = errors.New("server selection error: context deadline exceeded")

func (s *unreachableStore) InsertOne(context.Context, string, database.Document) (string, error) {
	return "", errUnreachable
}

func (s *unreachableStore) Find(context.Context, string, int64) ([]database.Document, error) {
	return nil, errUnreachable
}

func (s *unreachableStore) ListCollectionNames(context.Context) ([]string, error) {
	if s.panicking {
		panic("driver bug")
	}
	return nil, errUnreachable
}

func (s *unreachableStore) Ping(context.Context) error {
	return errUnreachable
}

func newTestRouter(t *testing.T, store database.Store) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()
	cfg := config.Default()
	if store != nil {
		cfg.Database.URL = "memory://"
		cfg.Database.Name = "aurelia"
	}

	s := &server.Server{
		Config:  cfg,
		Logger:  &logger,
		DB:      store,
		Metrics: metrics.New(),
	}

	repos := repository.NewRepositories(cfg, store)
	services := service.NewServices(s, repos)
	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoot(t *testing.T) {
	rec := do(newTestRouter(t, nil), http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Aurelia Interiors API running"}`, rec.Body.String())
}

func TestContactStoresInquiry(t *testing.T) {
	store := database.NewMemoryStore("aurelia")
	e := newTestRouter(t, store)

	rec := do(e, http.MethodPost, "/api/contact",
		`{"name":"Ada Lovelace","email":"ada@example.com","message":"We need a full living room redesign."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["id"])

	docs, err := store.Find(context.Background(), "inquiry", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, body["id"], docs[0]["_id"])
	assert.Equal(t, "website", docs[0]["source"])
}

func TestContactDoesNotLeakSourceBetweenRequests(t *testing.T) {
	store := database.NewMemoryStore("aurelia")
	e := newTestRouter(t, store)

	rec := do(e, http.MethodPost, "/api/contact",
		`{"name":"Ada","email":"ada@example.com","message":"First message, from instagram.","source":"instagram"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/api/contact",
		`{"name":"Grace","email":"grace@example.com","message":"Second message, no source."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	docs, err := store.Find(context.Background(), "inquiry", 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "instagram", docs[0]["source"])
	assert.Equal(t, "website", docs[1]["source"])
}

func TestContactRejectsInvalidInput(t *testing.T) {
	store := database.NewMemoryStore("aurelia")
	e := newTestRouter(t, store)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"short name", `{"name":"A","email":"ada@example.com","message":"A long enough message."}`, "name"},
		{"short message", `{"name":"Ada","email":"ada@example.com","message":"short"}`, "message"},
		{"bad email", `{"name":"Ada","email":"not-an-email","message":"A long enough message."}`, "email"},
		{"missing fields", `{}`, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/contact", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Validation failed", body.Message)
			require.NotEmpty(t, body.Errors)
			assert.Equal(t, tt.field, body.Errors[0].Field)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/contact", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	names, err := store.ListCollectionNames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names, "rejected inquiries must not reach the store")
}

func TestContactWithoutDatabase(t *testing.T) {
	rec := do(newTestRouter(t, nil), http.MethodPost, "/api/contact",
		`{"name":"Ada","email":"ada@example.com","message":"A long enough message."}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, database.ErrNotConfigured.Error(), body.Message)
}

func TestContactWithUnreachableDatabase(t *testing.T) {
	rec := do(newTestRouter(t, &unreachableStore{}), http.MethodPost, "/api/contact",
		`{"name":"Ada","email":"ada@example.com","message":"A long enough message."}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), errUnreachable.Error())
}

func TestProjectsFallback(t *testing.T) {
	tests := []struct {
		name  string
		store database.Store
	}{
		{"no database", nil},
		{"empty database", database.NewMemoryStore("aurelia")},
		{"unreachable database", &unreachableStore{}},
		{"panicking database", &unreachableStore{panicking: true}},
	}

	want, err := json.Marshal(model.FallbackProjects())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestRouter(t, tt.store), http.MethodGet, "/api/projects", "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, string(want), rec.Body.String())
		})
	}
}

func TestProjectsFromDatabase(t *testing.T) {
	store := database.NewMemoryStore("aurelia")
	_, err := store.InsertOne(context.Background(), "project", database.Document{
		"title":    "Harbor House",
		"category": "Residential",
		"location": "Lisbon",
	})
	require.NoError(t, err)

	rec := do(newTestRouter(t, store), http.MethodGet, "/api/projects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"title":"Harbor House","category":"Residential","location":"Lisbon","cover_url":null,"description":null}]`, rec.Body.String())
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		store    database.Store
		database string
	}{
		{"no database", nil, "⚠️  Available but not initialized"},
		{"working database", database.NewMemoryStore("aurelia"), "✅ Connected & Working"},
		{"unreachable database", &unreachableStore{}, "⚠️  Connected but Error: server selection error: context deadline exceeded"},
		{"panicking database", &unreachableStore{panicking: true}, "❌ Error: driver bug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestRouter(t, tt.store), http.MethodGet, "/test", "")
			require.Equal(t, http.StatusOK, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "✅ Running", body["backend"])
			assert.Equal(t, tt.database, body["database"])
			assert.Contains(t, body, "connection_status")
			assert.Contains(t, body, "database_url")
			assert.Contains(t, body, "database_name")
			assert.IsType(t, []any{}, body["collections"])
		})
	}
}

func TestDiagnosticsIgnoresRequestBody(t *testing.T) {
	rec := do(newTestRouter(t, nil), http.MethodGet, "/test", `{"broken":`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatus(t *testing.T) {
	t.Run("healthy without database", func(t *testing.T) {
		rec := do(newTestRouter(t, nil), http.MethodGet, "/status", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body handler.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, handler.StatusHealthy, body.Status)
		assert.Equal(t, handler.StatusNotConfigured, body.Checks["database"].Status)
	})

	t.Run("healthy with database", func(t *testing.T) {
		rec := do(newTestRouter(t, database.NewMemoryStore("aurelia")), http.MethodGet, "/status", "")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unhealthy database", func(t *testing.T) {
		rec := do(newTestRouter(t, &unreachableStore{}), http.MethodGet, "/status", "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body handler.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, handler.StatusUnhealthy, body.Checks["database"].Status)
		assert.Equal(t, errUnreachable.Error(), body.Checks["database"].Error)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestRouter(t, nil)
	do(e, http.MethodGet, "/api/projects", "")

	rec := do(e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `aurelia_project_fallbacks_total{reason="no_database"} 1`)
}

func TestDocs(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := do(e, http.MethodGet, "/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")

	rec = do(e, http.MethodGet, "/static/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/api/contact"`)
}

func TestCORS(t *testing.T) {
	e := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set(echo.HeaderOrigin, "https://aurelia.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://aurelia.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}
