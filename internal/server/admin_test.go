package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/vidrec/internal/db"
	"github.com/oggyb/vidrec/internal/db/dbtest"
	"github.com/oggyb/vidrec/internal/server"
)

func TestHealthz(t *testing.T) {
	gdb := dbtest.Open(t)
	rdb, mr := dbtest.Redis(t)

	router := server.NewAdminRouter(map[string]server.HealthCheck{
		"db":    func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		"redis": rdb.Ping,
	})

	get := func() (int, map[string]any) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec.Code, body
	}

	code, body := get()
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	mr.Close()
	code, body = get()
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["db"])
	assert.NotEqual(t, "ok", checks["redis"])
}

func TestHealthz_FailingCheck(t *testing.T) {
	router := server.NewAdminRouter(map[string]server.HealthCheck{
		"broken": func(context.Context) error { return errors.New("boom") },
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestMetricsEndpoint(t *testing.T) {
	router := server.NewAdminRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "vidrec_"), "service collectors are exported")
}
