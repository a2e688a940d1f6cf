package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reporter.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 7, cfg.Report.Days)
	assert.True(t, cfg.Report.IncludeSummaries)
	assert.Equal(t, 0, cfg.Jira.TimeoutSeconds)
	assert.Equal(t, 100, cfg.Jira.MaxResults)
	assert.Equal(t, 90, cfg.Storage.RetentionDays)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
[jira]
timeout_seconds = 30
requests_per_second = 2.5
max_results = 50

[storage]
database_path = "/tmp/reporter-test.db"

[report]
output_dir = "reports"
days = 14
include_summaries = false

[logging]
level = "debug"
output = "console"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Jira.TimeoutSeconds)
	assert.InDelta(t, 2.5, cfg.Jira.RequestsPerSecond, 0.001)
	assert.Equal(t, 50, cfg.Jira.MaxResults)
	assert.Equal(t, "/tmp/reporter-test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "reports", cfg.Report.OutputDir)
	assert.Equal(t, 14, cfg.Report.Days)
	assert.False(t, cfg.Report.IncludeSummaries)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched sections keep their defaults
	assert.Equal(t, 10, cfg.Jira.SummaryCount)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "[server]\nport = 9000\n")

	t.Setenv("DATABASE_PATH", "/var/lib/reporter.db")
	t.Setenv("REPORT_DIR", "/srv/reports")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_OUTPUT", "both")
	t.Setenv("LOG_DIR", "/var/log/reporter")
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/reporter.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "/srv/reports", cfg.Report.OutputDir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "/var/log/reporter", cfg.Logging.Dir)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("invalid toml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "[report\ndays = "))
		assert.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "[logging]\nlevel = \"loud\"\n"))
		assert.ErrorContains(t, err, "invalid log level")
	})

	t.Run("non positive days", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "[report]\ndays = 0\n"))
		assert.ErrorContains(t, err, "report days")
	})
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	cfg.Jira.MaxResults = 0

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Jira.MaxResults)
}
