package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruiter-allocation/internal/allocation/cursor"
	"recruiter-allocation/internal/allocation/notify"
	"recruiter-allocation/internal/common/config"
	"recruiter-allocation/internal/common/database"
	"recruiter-allocation/internal/common/logger"
	"recruiter-allocation/internal/models"
)

// ============================================================================
// Health server
// ============================================================================

func TestRouter_Health(t *testing.T) {
	router := NewRouter(func(context.Context) error { return nil })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestRouter_Ready(t *testing.T) {
	tests := []struct {
		name   string
		check  ReadinessCheck
		code   int
		status string
	}{
		{name: "stores up", check: func(context.Context) error { return nil }, code: http.StatusOK, status: "ready"},
		{name: "store down", check: func(context.Context) error { return errors.New("redis: connection refused") }, code: http.StatusServiceUnavailable, status: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRouter(tt.check).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.code, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body["status"])
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(func(context.Context) error { return nil }).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// ============================================================================
// Wiring
// ============================================================================

func TestNewCursorStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	defer rdb.Close()
	pg := &database.PostgresClient{}

	_, isRedis := newCursorStore(config.CursorStoreRedis, pg, rdb).(*cursor.RedisStore)
	assert.True(t, isRedis)

	_, isPostgres := newCursorStore(config.CursorStorePostgres, pg, rdb).(*cursor.PostgresStore)
	assert.True(t, isPostgres)
}

func TestBuildPublishers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	t.Run("disabled", func(t *testing.T) {
		a := &App{Config: &config.Config{}, logger: logger.NewTestLogger(t)}
		pub, err := a.buildPublishers(context.Background(), rdb)
		require.NoError(t, err)
		assert.IsType(t, notify.NopPublisher{}, pub)
	})

	t.Run("redis driver", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Notifications.Enabled = true
		cfg.Notifications.Drivers = []string{config.DriverRedis}
		cfg.Notifications.Redis.Channel = "assigned"

		a := &App{Config: cfg, logger: logger.NewTestLogger(t)}
		pub, err := a.buildPublishers(context.Background(), rdb)
		require.NoError(t, err)

		multi, ok := pub.(*notify.MultiPublisher)
		require.True(t, ok)
		assert.Equal(t, 1, multi.Len())

		sub := rdb.Subscribe(context.Background(), "assigned")
		defer sub.Close()
		_, err = sub.Receive(context.Background())
		require.NoError(t, err)

		require.NoError(t, pub.Publish(context.Background(), models.CandidateAssignedEvent{CandidateID: "c1"}))
		msg, err := sub.ReceiveMessage(context.Background())
		require.NoError(t, err)
		assert.Contains(t, msg.Payload, `"c1"`)
	})
}

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(context.Background(), 3, time.Millisecond, log, "op", func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up", func(t *testing.T) {
		boom := errors.New("boom")
		err := retryWithBackoff(context.Background(), 2, time.Millisecond, log, "op", func(context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "after 2 attempts")
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := retryWithBackoff(ctx, 5, time.Hour, log, "op", func(context.Context) error {
			return errors.New("down")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
