package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olusolaa/flow-drift-detector/internal/app"
	"github.com/olusolaa/flow-drift-detector/internal/config"
	apperrors "github.com/olusolaa/flow-drift-detector/internal/errors"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "flow-drift",
	Short: "Compares Power Automate cloud flows between two Dataverse environments.",
	Long: `flow-drift fetches the cloud flow definitions of a source and a target
Dataverse environment, strips environment-specific noise (GUIDs, host names,
connection references, timestamps) and reports which flows are identical,
different or missing, down to the individual actions that changed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		application, bootstrapErr := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if bootstrapErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Application initialization failed: %v\n", bootstrapErr)
			if appErr := (*apperrors.AppError)(nil); errors.As(bootstrapErr, &appErr) {
				if appErr.IsUserFacing && appErr.SuggestedAction != "" {
					fmt.Fprintf(os.Stderr, "Suggestion: %s\n", appErr.SuggestedAction)
				}
			}
			return bootstrapErr
		}

		if runErr := application.Run(cmd.Context()); runErr != nil {
			userMsg, suggestion, _ := apperrors.GetUserFacingMessage(runErr)
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", userMsg)
			if suggestion != "" {
				fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
			}
			return runErr
		}
		return nil
	},
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(apperrors.ExitCode(err))
	}
}

// envBoundKeys are read from FLOWDRIFT_* variables even when absent from the config file.
var envBoundKeys = []string{
	"source.url", "source.file", "target.url", "target.file",
	"flows.name", "flows.ignore_keys", "fetch.type",
	"auth.type", "auth.tenant_id", "auth.client_id", "auth.client_secret", "auth.token",
	"settings.reporter", "settings.log_level", "settings.log_format",
}

func init() {
	defaults := config.DefaultConfig().Settings
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is ./.flow-drift.yaml or $HOME/.flow-drift.yaml)")
	flags.String("log-level", string(defaults.LogLevel), "Override log level (debug, info, warn, error)")
	flags.String("log-format", string(defaults.LogFormat), "Override log format (text, json)")
	flags.String("source", "", "Source environment URL (e.g. https://dev.crm.dynamics.com)")
	flags.String("target", "", "Target environment URL")
	flags.String("flow", "", "Compare only the flow with this exact name")
	flags.String("reporter", defaults.ReporterType, "Report format (text, json, yaml)")
	flags.String(app.KeyIgnoreKeysOverride, "", "Additional comma-separated keys to strip before comparing")
	flags.Bool(app.KeyNoDiff, false, "Classify flows only, without path and action level differences")
	flags.Int("concurrency", defaults.Concurrency, "Number of flows processed in parallel")

	bindings := map[string]string{
		"settings.log_level":      "log-level",
		"settings.log_format":     "log-format",
		"source.url":              "source",
		"target.url":              "target",
		"flows.name":              "flow",
		"settings.reporter":       "reporter",
		"settings.concurrency":    "concurrency",
		app.KeyIgnoreKeysOverride: app.KeyIgnoreKeysOverride,
		app.KeyNoDiff:             app.KeyNoDiff,
	}
	for key, flag := range bindings {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}

	viper.SetEnvPrefix("FLOWDRIFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	for _, key := range envBoundKeys {
		cobra.CheckErr(viper.BindEnv(key))
	}
}

func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".flow-drift")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read config file")
		}
	}
	return nil
}
