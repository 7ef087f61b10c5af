package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"userdir/internal/config"
	"userdir/internal/database"
	"userdir/internal/logging"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(driver, dsn string) *config.Config {
	return &config.Config{
		AppPort:         ":0",
		DatabaseDriver:  driver,
		DatabaseDSN:     dsn,
		RabbitMQQueue:   "user_events",
		LogLevel:        "debug",
		LogFormat:       "text",
		CORSOrigin:      "*",
		LoginRateLimit:  2,
		LoginRateWindow: time.Minute,
	}
}

func newTestApp(t *testing.T, driver, dsn string) *App {
	t.Helper()
	a, err := NewApp(testConfig(driver, dsn), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })
	return a
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestNewApp_MemoryStore(t *testing.T) {
	a := newTestApp(t, config.DriverMemory, "")
	assert.Nil(t, a.db)
	assert.Nil(t, a.mq)

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["database"])

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"username":"alice","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = a.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestNewApp_SQLiteHealth(t *testing.T) {
	a := newTestApp(t, database.DriverSQLite, "file:app_health?mode=memory&cache=shared")
	require.NotNil(t, a.db)

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "connected", decodeBody(t, resp)["database"])

	require.NoError(t, database.Close(a.db))

	resp, err = a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unhealthy", decodeBody(t, resp)["status"])
}

func TestNewApp_UnsupportedDriver(t *testing.T) {
	_, err := NewApp(testConfig("mysql", "dsn"), logging.Nop())
	assert.Error(t, err)
}

func TestNewApp_LoginRateLimited(t *testing.T) {
	a := newTestApp(t, config.DriverMemory, "")

	login := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{"username":"ghost","password":"pw"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := a.Fiber.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, login("/login"))
	assert.Equal(t, http.StatusUnauthorized, login("/registered"))
	assert.Equal(t, http.StatusTooManyRequests, login("/login"))
}

func TestAuditUserEvent(t *testing.T) {
	a := &App{log: logging.Nop()}

	err := a.auditUserEvent(amqp.Delivery{Body: []byte(`{"type":"user.registered","user_id":1,"username":"alice","status":"ONLINE"}`)})
	assert.NoError(t, err)

	err = a.auditUserEvent(amqp.Delivery{Body: []byte(`not json`)})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode user event")
}
