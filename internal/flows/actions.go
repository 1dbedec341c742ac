package flows

import (
	"fmt"
	"sort"

	"github.com/itchyny/gojq"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/pkg/canonical"
	"github.com/olusolaa/flow-drift-detector/pkg/treediff"
)

// actionsPathQuery yields the path of the first existing actions member,
// probing properties.definition.actions before definition.actions, or null.
const actionsPathQuery = `
def at($p):
  try (
    getpath($p[:-1]) as $parent
    | if ($parent | type) == "object" and ($parent | has($p[-1])) then $p else empty end
  ) catch empty;
first(at(["properties", "definition", "actions"]), at(["definition", "actions"]), null)
`

var actionsPathCode = mustCompile(actionsPathQuery)

func mustCompile(src string) *gojq.Code {
	query, err := gojq.Parse(src)
	if err != nil {
		panic(fmt.Sprintf("parse actions query: %v", err))
	}
	code, err := gojq.Compile(query)
	if err != nil {
		panic(fmt.Sprintf("compile actions query: %v", err))
	}
	return code
}

// ExtractActions returns the named actions of a canonical flow definition. A
// definition without an actions object yields an empty map.
func ExtractActions(canonicalJSON string) (map[string]any, error) {
	// gojq rewrites numbers in its input, so the probe runs on its own copy.
	probe, err := canonical.Unmarshal(canonicalJSON)
	if err != nil {
		return nil, err
	}
	iter := actionsPathCode.Run(probe)
	v, ok := iter.Next()
	if !ok {
		return map[string]any{}, nil
	}
	if err, isErr := v.(error); isErr {
		return nil, err
	}
	path, ok := v.([]any)
	if !ok {
		return map[string]any{}, nil
	}

	tree, err := canonical.Unmarshal(canonicalJSON)
	if err != nil {
		return nil, err
	}
	node := tree
	for _, seg := range path {
		obj, isObj := node.(map[string]any)
		key, isKey := seg.(string)
		if !isObj || !isKey {
			return map[string]any{}, nil
		}
		node = obj[key]
	}
	actions, ok := node.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return actions, nil
}

// ComputeDiff diffs two canonical serialisations from the root.
func ComputeDiff(canonicalA, canonicalB string) (domain.Diff, error) {
	a, err := canonical.Unmarshal(canonicalA)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("decode source canonical form: %w", err)
	}
	b, err := canonical.Unmarshal(canonicalB)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("decode target canonical form: %w", err)
	}
	return toDomainDiff(treediff.Diff(a, b)), nil
}

// ActionDifferences reports, action by action, how the flow in canonicalA
// differs from the one in canonicalB. Removed actions come first, then added,
// then changed, each sorted by name. Identical actions are omitted.
func ActionDifferences(canonicalA, canonicalB string) ([]domain.ActionDifference, error) {
	actionsA, err := ExtractActions(canonicalA)
	if err != nil {
		return nil, fmt.Errorf("extract source actions: %w", err)
	}
	actionsB, err := ExtractActions(canonicalB)
	if err != nil {
		return nil, fmt.Errorf("extract target actions: %w", err)
	}

	var removed, added, common []string
	for name := range actionsA {
		if _, ok := actionsB[name]; ok {
			common = append(common, name)
		} else {
			removed = append(removed, name)
		}
	}
	for name := range actionsB {
		if _, ok := actionsA[name]; !ok {
			added = append(added, name)
		}
	}
	sort.Strings(removed)
	sort.Strings(added)
	sort.Strings(common)

	diffs := make([]domain.ActionDifference, 0, len(removed)+len(added))
	for _, name := range removed {
		diffs = append(diffs, domain.ActionDifference{ActionName: name, Status: domain.ActionRemoved, ChangedProperties: []domain.PathChange{}})
	}
	for _, name := range added {
		diffs = append(diffs, domain.ActionDifference{ActionName: name, Status: domain.ActionAdded, ChangedProperties: []domain.PathChange{}})
	}

	for _, name := range common {
		sa, err := canonical.Marshal(actionsA[name])
		if err != nil {
			return nil, fmt.Errorf("serialise source action %q: %w", name, err)
		}
		sb, err := canonical.Marshal(actionsB[name])
		if err != nil {
			return nil, fmt.Errorf("serialise target action %q: %w", name, err)
		}
		if sa == sb {
			continue
		}
		diffs = append(diffs, domain.ActionDifference{
			ActionName:        name,
			Status:            domain.ActionChanged,
			ChangedProperties: flattenChanges(treediff.Diff(actionsA[name], actionsB[name])),
		})
	}

	return diffs, nil
}

func flattenChanges(r treediff.Result) []domain.PathChange {
	props := make([]domain.PathChange, 0, len(r.Changed)+len(r.Added)+len(r.Removed))
	for _, c := range r.Changed {
		props = append(props, domain.PathChange{Path: c.Path, SourceValue: c.Source, TargetValue: c.Target})
	}
	for _, p := range r.Added {
		props = append(props, domain.PathChange{Path: p, SourceValue: domain.ValueMissing, TargetValue: domain.ValueAdded})
	}
	for _, p := range r.Removed {
		props = append(props, domain.PathChange{Path: p, SourceValue: domain.ValueRemoved, TargetValue: domain.ValueMissing})
	}
	return props
}

func toDomainDiff(r treediff.Result) domain.Diff {
	d := domain.Diff{
		Added:   r.Added,
		Removed: r.Removed,
		Changed: make([]domain.PathChange, 0, len(r.Changed)),
	}
	for _, c := range r.Changed {
		d.Changed = append(d.Changed, domain.PathChange{Path: c.Path, SourceValue: c.Source, TargetValue: c.Target})
	}
	return d
}
