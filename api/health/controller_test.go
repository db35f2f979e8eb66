package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubPresence []string

func (p stubPresence) OnlineUsers() []string { return p }

func serve(t *testing.T, c *Controller, path string) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	c.RegisterRoutes(engine.Group(""))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Version: "1.2.0", Env: "test"}}
}

func TestHealth_InMemoryStore(t *testing.T) {
	code, body := serve(t, NewController(testConfig(), nil, nil), "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.0", body["version"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "disabled", checks["realtime"].(map[string]any)["status"])
	assert.Nil(t, body["system"])
}

func TestHealth_ReportsOnlineUsers(t *testing.T) {
	c := NewController(testConfig(), stubPinger{}, stubPresence{"a", "b"})
	code, body := serve(t, c, "/health")

	assert.Equal(t, http.StatusOK, code)
	realtime := body["checks"].(map[string]any)["realtime"].(map[string]any)
	assert.Equal(t, "healthy", realtime["status"])
	assert.Equal(t, "2 users online", realtime["message"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	c := NewController(testConfig(), stubPinger{err: errors.New("connection refused")}, stubPresence{})

	code, body := serve(t, c, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body["status"])
	db := body["checks"].(map[string]any)["database"].(map[string]any)
	assert.Equal(t, "connection refused", db["message"])

	code, body = serve(t, c, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", body["status"])

	code, _ = serve(t, c, "/health/live")
	assert.Equal(t, http.StatusOK, code)
}
