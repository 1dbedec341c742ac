// Package reporting holds what the structured reporters share: the serialised
// report document and output file handling.
package reporting

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
)

type Document struct {
	RunID           string           `json:"run_id" yaml:"run_id"`
	StartedAt       time.Time        `json:"started_at" yaml:"started_at"`
	SourceURL       string           `json:"source_url" yaml:"source_url"`
	TargetURL       string           `json:"target_url" yaml:"target_url"`
	Summary         domain.Summary   `json:"summary" yaml:"summary"`
	IdenticalFlows  []string         `json:"identical_flows" yaml:"identical_flows"`
	DifferentFlows  []string         `json:"different_flows" yaml:"different_flows"`
	MissingInTarget []string         `json:"missing_in_target" yaml:"missing_in_target"`
	ErroredFlows    []string         `json:"errored_flows" yaml:"errored_flows"`
	Comparisons     []DocumentResult `json:"comparisons" yaml:"comparisons"`
}

type DocumentResult struct {
	Name              string                    `json:"name" yaml:"name"`
	Status            domain.ComparisonStatus   `json:"status" yaml:"status"`
	Source            *DocumentSnapshot         `json:"source,omitempty" yaml:"source,omitempty"`
	Target            *DocumentSnapshot         `json:"target,omitempty" yaml:"target,omitempty"`
	Diff              *domain.Diff              `json:"diff,omitempty" yaml:"diff,omitempty"`
	ActionDifferences []domain.ActionDifference `json:"action_differences,omitempty" yaml:"action_differences,omitempty"`
}

type DocumentSnapshot struct {
	FlowID        string `json:"flow_id" yaml:"flow_id"`
	Hash          string `json:"hash,omitempty" yaml:"hash,omitempty"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
	CanonicalJSON string `json:"canonical_json,omitempty" yaml:"canonical_json,omitempty"`
}

// NewDocument flattens a comparison for serialisation. Canonical JSON is left
// out unless includeCanonical is set since it dominates the report size.
func NewDocument(c *domain.FlowComparison, includeCanonical bool) Document {
	doc := Document{
		RunID:           c.RunID,
		StartedAt:       c.StartedAt,
		SourceURL:       c.SourceURL,
		TargetURL:       c.TargetURL,
		Summary:         c.Summary,
		IdenticalFlows:  c.IdenticalFlows(),
		DifferentFlows:  c.DifferentFlows(),
		MissingInTarget: c.MissingInTarget(),
		ErroredFlows:    c.ErroredFlows(),
		Comparisons:     make([]DocumentResult, 0, len(c.Comparisons)),
	}
	for _, r := range c.Comparisons {
		doc.Comparisons = append(doc.Comparisons, DocumentResult{
			Name:              r.Name,
			Status:            r.Status,
			Source:            snapshotOf(r.Source, includeCanonical),
			Target:            snapshotOf(r.Target, includeCanonical),
			Diff:              r.Diff,
			ActionDifferences: r.ActionDifferences,
		})
	}
	return doc
}

func snapshotOf(s *domain.Snapshot, includeCanonical bool) *DocumentSnapshot {
	if s == nil {
		return nil
	}
	out := &DocumentSnapshot{FlowID: s.FlowID, Hash: s.Hash, Error: s.Error}
	if includeCanonical {
		out.CanonicalJSON = s.CanonicalJSON
	}
	return out
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// OpenOutput returns stdout when path is empty, otherwise creates the file and
// any missing parent directories.
func OpenOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		if stdout == nil {
			stdout = os.Stdout
		}
		return nopCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
