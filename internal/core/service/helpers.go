package service

import (
	"sort"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
)

func indexed(idx map[string]domain.Snapshot) []domain.Snapshot {
	out := make([]domain.Snapshot, 0, len(idx))
	for _, s := range idx {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortResults(results []domain.ComparisonResult) {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Name < results[j].Name })
}
