package ports

import (
	"context"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
)

//go:generate mockery --name Reporter --output ./mocks --outpkg mocks --case underscore
type Reporter interface {
	Type() string
	Report(ctx context.Context, comparison *domain.FlowComparison) error
}
