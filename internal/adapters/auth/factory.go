package auth

import (
	"fmt"
	"net/http"

	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
	"github.com/olusolaa/flow-drift-detector/internal/errors"
)

func NewTokenProvider(cfg *Config, client *http.Client, logger ports.Logger) (ports.TokenProvider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	switch cfg.Type {
	case TypeClientCredentials, "":
		provider, err := NewClientCredentialsProvider(*cfg, client, logger)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case TypeStaticToken:
		provider, err := NewStaticTokenProvider(cfg.Token)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported auth type '%s'", cfg.Type),
			fmt.Sprintf("Use one of: %s, %s", TypeClientCredentials, TypeStaticToken))
	}
}
