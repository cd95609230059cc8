package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "LOG_LEVEL", "LOG_MODE", "TENANT_OWNER_ID",
		"MONGODB_URI", "MONGODB_DB_NAME",
		"SNAPSHOT_CACHE_PATH", "SUMMARY_CRON_SCHEDULE", "TIMEZONE",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_EXPORT_ID",
		"ANTHROPIC_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "production", cfg.Log.Mode)
	assert.Equal(t, "default", cfg.Tenant.OwnerID)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "herdbook", cfg.MongoDB.DBName)
	assert.Equal(t, "herdbook-snapshots.db", cfg.Cache.Path)
	assert.Equal(t, "0 20 * * *", cfg.Reporting.SummaryCron)
	assert.Equal(t, "UTC", cfg.Reporting.Timezone)
	assert.False(t, cfg.Sheets.Enabled())
	assert.Empty(t, cfg.AI.AnthropicKey)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_MODE", "development")
	t.Setenv("TENANT_OWNER_ID", "farm-42")
	t.Setenv("TIMEZONE", "Africa/Dakar")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "development", cfg.Log.Mode)
	assert.Equal(t, "farm-42", cfg.Tenant.OwnerID)
	assert.Equal(t, "Africa/Dakar", cfg.Reporting.Timezone)
}

func TestLoadRejectsUnknownLogMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_MODE", "verbose")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_MODE")
}

func TestLoadRejectsHalfConfiguredSheets(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_SHEET_EXPORT_ID", "sheet-id-only")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SHEETS_CREDENTIALS_PATH")
}

func TestSheetsEnabled(t *testing.T) {
	assert.False(t, SheetsConfig{}.Enabled())
	assert.False(t, SheetsConfig{CredentialsPath: "creds.json"}.Enabled())
	assert.True(t, SheetsConfig{CredentialsPath: "creds.json", SpreadsheetID: "abc"}.Enabled())
}
