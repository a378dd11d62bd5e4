package main

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medicart-be/internal/config"
	"medicart-be/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mock Driver for Testing ---
type mockDriver struct{}
type mockConn struct{}

func (m *mockDriver) Open(name string) (driver.Conn, error)   { return &mockConn{}, nil }
func (c *mockConn) Prepare(query string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (c *mockConn) Close() error                              { return nil }
func (c *mockConn) Begin() (driver.Tx, error)                 { return nil, driver.ErrSkip }

func init() {
	sql.Register("mock_driver_main", &mockDriver{})
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		AppPort:        "8080",
		AppEnv:         "test",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		UploadDir:      t.TempDir(),
		MaxUploadMB:    1,
		AllowedOrigins: []string{"*"},
	}
}

func TestNewServerLogsUploadDir(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := logger.L()
	logger.Set(zap.New(core))
	defer logger.Set(prev)

	db, err := sql.Open("mock_driver_main", "")
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig(t)
	app, err := newServer(cfg, db)
	require.NoError(t, err)
	defer app.Close()

	entries := logs.FilterMessage("upload staging ready").All()
	require.Len(t, entries, 1)
	assert.Equal(t, cfg.UploadDir, entries[0].ContextMap()["dir"])
}

func TestNewServer(t *testing.T) {
	db, err := sql.Open("mock_driver_main", "")
	require.NoError(t, err)
	defer db.Close()

	app, err := newServer(testConfig(t), db)
	require.NoError(t, err)
	defer app.Close()

	t.Run("Health Check", func(t *testing.T) {
		rr := httptest.NewRecorder()
		app.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "OK")
	})

	t.Run("Protected route without token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		app.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/delete-all-submissions", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Websocket without token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		app.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRun(t *testing.T) {
	origInitDB := initDBFunc
	defer func() { initDBFunc = origInitDB }()
	initDBFunc = func(cfg *config.Config) *sql.DB {
		db, _ := sql.Open("mock_driver_main", "")
		return db
	}

	origStartServer := startServerFunc
	defer func() { startServerFunc = origStartServer }()
	var started string
	startServerFunc = func(ctx context.Context, addr string, handler http.Handler) error {
		started = addr
		return nil
	}

	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_URL", "postgres://unused")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("UPLOAD_DIR", t.TempDir())

	assert.NoError(t, run())
	assert.Equal(t, ":9090", started)
}

func TestRunMissingConfig(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("JWT_SECRET", "")

	assert.Error(t, run())
}

func TestServeShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	}()

	require.Eventually(t, func() bool {
		c, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		c.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
