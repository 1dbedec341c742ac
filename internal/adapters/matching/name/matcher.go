package name

import (
	"context"
	"sort"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
)

const MatcherTypeName = "name"

// Matcher pairs source and target snapshots by exact, case-sensitive flow name.
type Matcher struct {
	logger ports.Logger
}

func NewMatcher(logger ports.Logger) *Matcher {
	return &Matcher{logger: logger}
}

func (m *Matcher) Match(ctx context.Context, source, target []domain.Snapshot) (ports.MatchingResult, error) {
	m.logger.Debugf(ctx, "Starting name matching (%d source, %d target)", len(source), len(target))

	sourceIndex, err := m.index(ctx, "source", source)
	if err != nil {
		return ports.MatchingResult{}, err
	}
	targetIndex, err := m.index(ctx, "target", target)
	if err != nil {
		return ports.MatchingResult{}, err
	}

	result := ports.MatchingResult{
		Matched:         make([]ports.MatchedPair, 0),
		UnmatchedSource: make([]domain.Snapshot, 0),
		UnmatchedTarget: make([]domain.Snapshot, 0),
		SourceIndex:     sourceIndex,
		TargetIndex:     targetIndex,
	}

	for _, name := range sortedNames(sourceIndex) {
		if ctx.Err() != nil {
			return ports.MatchingResult{}, ctx.Err()
		}
		src := sourceIndex[name]
		tgt, found := targetIndex[name]
		if !found {
			result.UnmatchedSource = append(result.UnmatchedSource, src)
			continue
		}
		result.Matched = append(result.Matched, ports.MatchedPair{Source: src, Target: tgt})
	}

	for _, name := range sortedNames(targetIndex) {
		if _, found := sourceIndex[name]; !found {
			result.UnmatchedTarget = append(result.UnmatchedTarget, targetIndex[name])
		}
	}

	m.logger.Debugf(ctx, "Name matching finished: %d matched, %d only in source, %d only in target",
		len(result.Matched), len(result.UnmatchedSource), len(result.UnmatchedTarget))
	return result, nil
}

// index keeps the last snapshot seen for each name.
func (m *Matcher) index(ctx context.Context, side string, snaps []domain.Snapshot) (map[string]domain.Snapshot, error) {
	idx := make(map[string]domain.Snapshot, len(snaps))
	for _, s := range snaps {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if prev, exists := idx[s.Name]; exists {
			m.logger.Warnf(ctx, "Duplicate flow name '%s' in %s inventory (ids %s and %s); keeping the later one",
				s.Name, side, prev.FlowID, s.FlowID)
		}
		idx[s.Name] = s
	}
	return idx, nil
}

func sortedNames(idx map[string]domain.Snapshot) []string {
	names := make([]string, 0, len(idx))
	for n := range idx {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
