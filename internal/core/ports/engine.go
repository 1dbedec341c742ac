package ports

import (
	"context"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
)

//go:generate mockery --name ComparisonEngine --output ./mocks --outpkg mocks --case underscore
type ComparisonEngine interface {
	// Compare fetches both inventories and classifies every source flow.
	Compare(ctx context.Context) (*domain.FlowComparison, error)
	// Run compares and hands the result to the configured reporter.
	Run(ctx context.Context) error
}
