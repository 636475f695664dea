package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chanwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMustLoad(t *testing.T) {
	path := writeConfig(t, `api_base: http://localhost:9000
user_agent: chanwatch-test
boards:
  - g
  - v
query: golang
fetch_threads: true
interval_seconds: 30
metrics_addr: ":9091"
log_level: debug
log_json: true
`)

	cfg := MustLoad(path)

	assert.Equal(t, "http://localhost:9000", cfg.APIBase)
	assert.Equal(t, "chanwatch-test", cfg.UserAgent)
	assert.Equal(t, []string{"g", "v"}, cfg.Boards)
	assert.Equal(t, "golang", cfg.Query)
	assert.True(t, cfg.FetchThreads)
	assert.Equal(t, 30*time.Second, cfg.Interval())
	assert.Equal(t, ":9091", cfg.MetricsAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
}

func TestMustLoad_DefaultInterval(t *testing.T) {
	path := writeConfig(t, "boards:\n  - g\n")

	cfg := MustLoad(path)

	assert.Equal(t, time.Minute, cfg.Interval())
}

func TestMustLoad_MissingBoards(t *testing.T) {
	path := writeConfig(t, "query: golang\n")

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing boards, got none")
		}
	}()

	_ = MustLoad(path)
}

func TestMustLoad_IntervalTooShort(t *testing.T) {
	path := writeConfig(t, "boards:\n  - g\ninterval_seconds: 5\n")

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to too short interval, got none")
		}
	}()

	_ = MustLoad(path)
}

func TestMustLoad_MissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing config file, got none")
		}
	}()

	_ = MustLoad(filepath.Join(t.TempDir(), "nope.yaml"))
}
