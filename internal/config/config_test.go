package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olusolaa/flow-drift-detector/internal/adapters/auth"
	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/log"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, log.LevelInfo, cfg.Settings.LogLevel)
	assert.Equal(t, 8, cfg.Settings.Concurrency)
	assert.Equal(t, "text", cfg.Settings.ReporterType)
	assert.True(t, cfg.Settings.IncludeDiffDetails)
	assert.Equal(t, 100, cfg.Settings.Reporter.Text.MaxValueLength)
	assert.Equal(t, "dataverse", cfg.Fetch.Type)
	assert.Equal(t, "9.2", cfg.Fetch.Dataverse.APIVersion)
	assert.Equal(t, 5, cfg.Fetch.Dataverse.MaxRetries)
	assert.Equal(t, auth.TypeClientCredentials, cfg.Auth.Type)
	assert.Equal(t, "https://login.microsoftonline.com", cfg.Auth.AuthorityHost)
	assert.False(t, cfg.FileFetch())
}

func TestEnvironments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source = EnvironmentConfig{URL: "https://dev.crm.dynamics.com", File: "dev.json"}
	cfg.Target = EnvironmentConfig{URL: "https://prod.crm.dynamics.com"}

	assert.Equal(t, domain.Environment{Label: "source", URL: "https://dev.crm.dynamics.com", File: "dev.json"}, cfg.SourceEnvironment())
	assert.Equal(t, "prod.crm.dynamics.com", cfg.TargetEnvironment().Host())
}
