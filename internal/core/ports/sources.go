package ports

import (
	"context"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
)

// FlowSource returns every cloud flow of an environment, optionally narrowed to
// a single flow name. Implementations own paging and retries; any returned error
// aborts the comparison run.
//
//go:generate mockery --name FlowSource --output ./mocks --outpkg mocks --case underscore
type FlowSource interface {
	Type() string
	FetchFlows(ctx context.Context, env domain.Environment, nameFilter string) ([]domain.FlowRecord, error)
}

// TokenProvider returns a bearer token for an environment URL.
//
//go:generate mockery --name TokenProvider --output ./mocks --outpkg mocks --case underscore
type TokenProvider interface {
	Token(ctx context.Context, environmentURL string) (string, error)
}
