package ports

import (
	"context"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
)

type MatchedPair struct {
	Source domain.Snapshot
	Target domain.Snapshot
}

type MatchingResult struct {
	// Matched and UnmatchedSource are in ascending name order.
	Matched         []MatchedPair
	UnmatchedSource []domain.Snapshot // Only in source
	UnmatchedTarget []domain.Snapshot // Only in target
	// SourceIndex and TargetIndex hold one snapshot per distinct name.
	SourceIndex map[string]domain.Snapshot
	TargetIndex map[string]domain.Snapshot
}

//go:generate mockery --name=Matcher --output=./mocks --outpkg=mocks --case underscore
type Matcher interface {
	Match(ctx context.Context, source, target []domain.Snapshot) (MatchingResult, error)
}
