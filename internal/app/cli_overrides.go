package app

import (
	"context"
	"strings"

	"github.com/spf13/viper"

	"github.com/olusolaa/flow-drift-detector/internal/config"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
)

func applyCLIOverrides(ctx context.Context, v *viper.Viper, cfg *config.Config, logger ports.Logger) {
	if raw := v.GetString(KeyIgnoreKeysOverride); raw != "" {
		extra := parseIgnoreKeysOverride(raw)
		logger.Debugf(ctx, "Adding ignore keys from command line: %v", extra)
		cfg.Flows.IgnoreKeys = mergeKeys(cfg.Flows.IgnoreKeys, extra)
	}
	if v.GetBool(KeyNoDiff) {
		logger.Debugf(ctx, "Diff details disabled from command line")
		cfg.Settings.IncludeDiffDetails = false
	}
}

// parseIgnoreKeysOverride splits a comma-separated key list, dropping blanks.
func parseIgnoreKeysOverride(override string) []string {
	if override == "" {
		return nil
	}
	parts := strings.Split(override, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return keys
}

func mergeKeys(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(extra))
	out := make([]string, 0, len(existing)+len(extra))
	for _, k := range append(append([]string{}, existing...), extra...) {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
