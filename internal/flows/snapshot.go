// Package flows holds the Power Automate specific layer of the comparison:
// turning fetched flow records into snapshots and diffing their actions.
package flows

import (
	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/pkg/canonical"
	"github.com/olusolaa/flow-drift-detector/pkg/reflectutil"
)

const ErrDefinitionMissing = "definition missing or empty"

type SnapshotBuilder struct {
	canonicalizer *canonical.Canonicalizer
}

// NewSnapshotBuilder uses canonical.New() when c is nil.
func NewSnapshotBuilder(c *canonical.Canonicalizer) *SnapshotBuilder {
	if c == nil {
		c = canonical.New()
	}
	return &SnapshotBuilder{canonicalizer: c}
}

// Build never fails: a missing, unparsable or non-JSON definition is recorded
// in Snapshot.Error so the caller can carry on with other flows.
func (b *SnapshotBuilder) Build(rec domain.FlowRecord, envHost string) domain.Snapshot {
	snap := domain.Snapshot{
		FlowID:          rec.FlowID,
		Name:            rec.Name,
		EnvironmentHost: envHost,
	}

	if reflectutil.IsEmptyValue(rec.RawDefinition) {
		snap.Error = ErrDefinitionMissing
		return snap
	}

	tree, err := decodeDefinition(rec.RawDefinition)
	if err != nil {
		snap.Error = err.Error()
		return snap
	}

	canon, err := b.canonicalizer.Canonicalize(tree, envHost)
	if err != nil {
		snap.Error = err.Error()
		return snap
	}

	snap.CanonicalJSON = canon
	snap.Hash = canonical.Hash(canon)
	return snap
}

func decodeDefinition(raw any) (any, error) {
	switch t := raw.(type) {
	case string:
		return canonical.Unmarshal(t)
	case []byte:
		return canonical.Unmarshal(string(t))
	default:
		return t, nil
	}
}
