package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const baseConfig = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: recruitment
    user: allocator
    password: ${TEST_ALLOCATION_DB_PASSWORD}
  redis:
    address: localhost:6379
workers:
  allocate-candidates-for-role:
    enabled: true
    timeout: 60000
`

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("TEST_ALLOCATION_DB_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, baseConfig))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, CursorStorePostgres, cfg.Allocation.CursorStore)
	assert.Equal(t, 5000, cfg.Allocation.NotifyTimeout)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Logging.Level)

	worker := GetWorkerConfig(cfg, "allocate-candidates-for-role")
	assert.Equal(t, 60000, worker.Timeout)
	assert.Equal(t, 3, worker.MaxRetries)
	assert.Equal(t, time.Minute, GetDuration(worker.Timeout))
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{
			name:    "unknown cursor store",
			extra:   "allocation:\n  cursor_store: memory\n",
			wantErr: "allocation.cursor_store",
		},
		{
			name:    "sns without topic",
			extra:   "notifications:\n  enabled: true\n  drivers: [sns]\n",
			wantErr: "notifications.sns.topic_arn",
		},
		{
			name:    "unknown driver",
			extra:   "notifications:\n  enabled: true\n  drivers: [pigeon]\n",
			wantErr: "unknown notification driver",
		},
		{
			name:    "negative batch size",
			extra:   "allocation:\n  default_batch_size: -1\n",
			wantErr: "default_batch_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, baseConfig+tt.extra))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkerHelpers_Defaults(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"reset-allocation-cursor": {Enabled: false},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "reset-allocation-cursor"))
	assert.True(t, IsWorkerEnabled(cfg, "find-eligible-candidates"))
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "find-eligible-candidates").Timeout)
}

func TestNotificationConfig_HasDriver(t *testing.T) {
	n := NotificationConfig{Drivers: []string{DriverRedis, DriverAMQP}}

	assert.True(t, n.HasDriver(DriverAMQP))
	assert.False(t, n.HasDriver(DriverSNS))
}
