package config

import (
	"github.com/olusolaa/flow-drift-detector/internal/adapters/auth"
	"github.com/olusolaa/flow-drift-detector/internal/adapters/source/dataverse"
	"github.com/olusolaa/flow-drift-detector/internal/adapters/source/file"
	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/log"
	"github.com/olusolaa/flow-drift-detector/internal/reporting/json"
	"github.com/olusolaa/flow-drift-detector/internal/reporting/text"
	"github.com/olusolaa/flow-drift-detector/internal/reporting/yaml"
)

type Config struct {
	Settings SettingsConfig    `mapstructure:"settings"`
	Source   EnvironmentConfig `mapstructure:"source"`
	Target   EnvironmentConfig `mapstructure:"target"`
	Flows    FlowsConfig       `mapstructure:"flows"`
	Fetch    FetchConfig       `mapstructure:"fetch"`
	Auth     *auth.Config      `mapstructure:"auth"`
}

type SettingsConfig struct {
	LogLevel           log.Level       `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat          log.Format      `mapstructure:"log_format" validate:"omitempty,oneof=text json"`
	Concurrency        int             `mapstructure:"concurrency" validate:"gte=1,lte=64"`
	ReporterType       string          `mapstructure:"reporter" validate:"oneof=text json yaml"`
	IncludeDiffDetails bool            `mapstructure:"include_diff_details"`
	Reporter           ReporterConfigs `mapstructure:"reporter_config"`
}

type EnvironmentConfig struct {
	URL string `mapstructure:"url" validate:"required"`
	// File is the exported workflow inventory read when fetch.type is "file".
	File string `mapstructure:"file"`
}

type FlowsConfig struct {
	// Name restricts the comparison to one flow.
	Name       string   `mapstructure:"name"`
	IgnoreKeys []string `mapstructure:"ignore_keys"`
}

type FetchConfig struct {
	Type      string            `mapstructure:"type" validate:"oneof=dataverse file"`
	Dataverse *dataverse.Config `mapstructure:"dataverse"`
}

type ReporterConfigs struct {
	Text *text.Config `mapstructure:"text"`
	JSON *json.Config `mapstructure:"json"`
	YAML *yaml.Config `mapstructure:"yaml"`
}

func (c *Config) SourceEnvironment() domain.Environment {
	return domain.Environment{Label: "source", URL: c.Source.URL, File: c.Source.File}
}

func (c *Config) TargetEnvironment() domain.Environment {
	return domain.Environment{Label: "target", URL: c.Target.URL, File: c.Target.File}
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:           log.LevelInfo,
			LogFormat:          log.FormatText,
			Concurrency:        8,
			ReporterType:       text.ReporterTypeText,
			IncludeDiffDetails: true,
			Reporter: ReporterConfigs{
				Text: &text.Config{NoColor: false, MaxValueLength: text.DefaultMaxValueLength},
				JSON: &json.Config{Pretty: true},
				YAML: &yaml.Config{},
			},
		},
		Flows: FlowsConfig{IgnoreKeys: []string{}},
		Fetch: FetchConfig{
			Type: dataverse.SourceTypeDataverse,
			Dataverse: &dataverse.Config{
				APIVersion:        dataverse.DefaultAPIVersion,
				Timeout:           dataverse.DefaultTimeout,
				MaxRetries:        dataverse.DefaultMaxRetries,
				RequestsPerSecond: dataverse.DefaultRequestsPerSecond,
				UserAgent:         dataverse.DefaultUserAgent,
			},
		},
		Auth: auth.DefaultConfig(),
	}
}

// FileFetch reports whether flows are read from exported inventories.
func (c *Config) FileFetch() bool {
	return c.Fetch.Type == file.SourceTypeFile
}

