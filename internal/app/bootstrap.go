package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/olusolaa/flow-drift-detector/internal/adapters/auth"
	"github.com/olusolaa/flow-drift-detector/internal/adapters/matching/name"
	"github.com/olusolaa/flow-drift-detector/internal/adapters/source/dataverse"
	"github.com/olusolaa/flow-drift-detector/internal/adapters/source/file"
	"github.com/olusolaa/flow-drift-detector/internal/config"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
	"github.com/olusolaa/flow-drift-detector/internal/core/service"
	"github.com/olusolaa/flow-drift-detector/internal/errors"
	"github.com/olusolaa/flow-drift-detector/internal/flows"
	"github.com/olusolaa/flow-drift-detector/internal/log"
	jsonreport "github.com/olusolaa/flow-drift-detector/internal/reporting/json"
	"github.com/olusolaa/flow-drift-detector/internal/reporting/text"
	yamlreport "github.com/olusolaa/flow-drift-detector/internal/reporting/yaml"
	"github.com/olusolaa/flow-drift-detector/pkg/canonical"
)

// Viper keys read by the bootstrap that have no config file equivalent.
const (
	KeyIgnoreKeysOverride = "ignore-keys"
	KeyNoDiff             = "no-diff"
)

type buildOptions struct {
	logOutput  io.Writer
	stdout     io.Writer
	httpClient *http.Client
}

type BuildOption func(*buildOptions)

func WithLogOutput(w io.Writer) BuildOption {
	return func(o *buildOptions) { o.logOutput = w }
}

// WithStdout sets where reporters without an output path write.
func WithStdout(w io.Writer) BuildOption {
	return func(o *buildOptions) { o.stdout = w }
}

func WithHTTPClient(c *http.Client) BuildOption {
	return func(o *buildOptions) { o.httpClient = c }
}

func BuildApplicationFromViper(ctx context.Context, v *viper.Viper, opts ...BuildOption) (*Application, error) {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}

	logger, err := log.NewLogger(log.Config{
		Level:  cfg.Settings.LogLevel,
		Format: cfg.Settings.LogFormat,
		Output: bo.logOutput,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Debugf(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	} else {
		logger.Debugf(ctx, "No configuration file found, using defaults/env/flags.")
	}

	applyCLIOverrides(ctx, v, cfg, logger)

	if err := validateConfig(ctx, cfg); err != nil {
		logger.Errorf(ctx, err, "Configuration validation failed")
		return nil, err
	}
	logger.Debugf(ctx, "Configuration validated successfully")

	registry := service.NewComponentRegistry()

	source, err := buildFlowSource(cfg, bo.httpClient, logger)
	if err != nil {
		return nil, err
	}
	if err := registry.RegisterFlowSource(source); err != nil {
		return nil, err
	}

	if err := registerReporters(registry, cfg, bo.stdout, logger); err != nil {
		return nil, err
	}
	reporter, err := registry.GetReporter(cfg.Settings.ReporterType)
	if err != nil {
		return nil, err
	}
	flowSource, err := registry.GetFlowSource(cfg.Fetch.Type)
	if err != nil {
		return nil, err
	}

	canon := canonical.New(cfg.Flows.IgnoreKeys...)
	if len(cfg.Flows.IgnoreKeys) > 0 {
		logger.Infof(ctx, "Ignoring additional keys: %s", strings.Join(cfg.Flows.IgnoreKeys, ", "))
	}

	engine, err := service.NewFlowComparisonEngine(
		flowSource,
		name.NewMatcher(logger.WithFields(map[string]any{"component": "matcher", "type": name.MatcherTypeName})),
		reporter,
		flows.NewSnapshotBuilder(canon),
		logger.WithFields(map[string]any{"component": "engine"}),
		service.Options{
			Source:             cfg.SourceEnvironment(),
			Target:             cfg.TargetEnvironment(),
			NameFilter:         cfg.Flows.Name,
			IncludeDiffDetails: cfg.Settings.IncludeDiffDetails,
			Concurrency:        cfg.Settings.Concurrency,
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize flow comparison engine")
	}

	logger.Debugf(ctx, "Application bootstrap complete (source: %s, reporter: %s)", flowSource.Type(), reporter.Type())
	return &Application{Engine: engine, Logger: logger, Config: cfg}, nil
}

func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.DefaultConfig()
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeConfigParseError,
			"failed to unmarshal configuration", "Check the types of values in your configuration file.")
	}
	return cfg, nil
}

func validateConfig(ctx context.Context, cfg *config.Config) error {
	if cfg.FileFetch() {
		// Exports on disk need no credentials.
		cfg.Auth = nil
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.StructCtx(ctx, cfg)
	if err == nil {
		if cfg.FileFetch() && (cfg.Source.File == "" || cfg.Target.File == "") {
			return errors.NewUserFacing(errors.CodeConfigValidation,
				"fetch.type is file but source.file or target.file is not set",
				"Point source.file and target.file at exported workflow inventories.")
		}
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.Wrap(err, errors.CodeConfigValidation, "configuration validation failed")
	}
	var details strings.Builder
	details.WriteString("Configuration validation failed:")
	for _, fe := range validationErrors {
		details.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.NewUserFacing(errors.CodeConfigValidation, details.String(), "Please check your configuration file or flags.")
}

func buildFlowSource(cfg *config.Config, client *http.Client, logger ports.Logger) (ports.FlowSource, error) {
	switch cfg.Fetch.Type {
	case file.SourceTypeFile:
		srcLog := logger.WithFields(map[string]any{"source": file.SourceTypeFile})
		srcLog.Infof(context.Background(), "Using file flow source (%s, %s)", cfg.Source.File, cfg.Target.File)
		return file.NewSource(srcLog), nil
	case dataverse.SourceTypeDataverse:
		srcLog := logger.WithFields(map[string]any{"source": dataverse.SourceTypeDataverse})
		tokens, err := auth.NewTokenProvider(cfg.Auth, client, srcLog)
		if err != nil {
			return nil, err
		}
		source, err := dataverse.NewSource(cfg.Fetch.Dataverse, tokens, client, srcLog)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize Dataverse source")
		}
		return source, nil
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported fetch type: %s", cfg.Fetch.Type), "Supported: dataverse, file")
	}
}

func registerReporters(registry *service.ComponentRegistry, cfg *config.Config, stdout io.Writer, logger ports.Logger) error {
	defaults := config.DefaultConfig().Settings.Reporter
	rc := cfg.Settings.Reporter
	if rc.Text == nil {
		rc.Text = defaults.Text
	}
	if rc.JSON == nil {
		rc.JSON = defaults.JSON
	}
	if rc.YAML == nil {
		rc.YAML = defaults.YAML
	}

	reportLog := func(kind string) ports.Logger {
		return logger.WithFields(map[string]any{"component": "reporter", "type": kind})
	}

	textReporter, err := text.NewReporter(*rc.Text, reportLog(text.ReporterTypeText))
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to initialize text reporter")
	}
	jsonReporter, err := jsonreport.NewReporter(*rc.JSON, reportLog(jsonreport.ReporterTypeJSON))
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to initialize JSON reporter")
	}
	yamlReporter, err := yamlreport.NewReporter(*rc.YAML, reportLog(yamlreport.ReporterTypeYAML))
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to initialize YAML reporter")
	}
	if stdout != nil {
		textReporter.WithWriter(stdout)
		jsonReporter.WithWriter(stdout)
		yamlReporter.WithWriter(stdout)
	}

	for _, r := range []ports.Reporter{textReporter, jsonReporter, yamlReporter} {
		if err := registry.RegisterReporter(r); err != nil {
			return err
		}
	}
	return nil
}
