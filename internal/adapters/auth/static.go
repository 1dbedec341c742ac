package auth

import (
	"context"

	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
	"github.com/olusolaa/flow-drift-detector/internal/errors"
)

// StaticTokenProvider returns the same pre-acquired bearer token for every environment.
type StaticTokenProvider struct {
	token string
}

var _ ports.TokenProvider = (*StaticTokenProvider)(nil)

func NewStaticTokenProvider(token string) (*StaticTokenProvider, error) {
	if token == "" {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			"static token auth requires a token",
			"Set auth.token or FLOWDRIFT_AUTH_TOKEN.")
	}
	return &StaticTokenProvider{token: token}, nil
}

func (p *StaticTokenProvider) Token(_ context.Context, _ string) (string, error) {
	return p.token, nil
}
