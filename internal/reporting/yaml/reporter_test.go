package yaml

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/log"
	"github.com/olusolaa/flow-drift-detector/internal/reporting"
)

func sampleComparison() *domain.FlowComparison {
	c := &domain.FlowComparison{
		RunID:     "run-2",
		SourceURL: "https://dev.crm.dynamics.com",
		TargetURL: "https://prod.crm.dynamics.com",
		Comparisons: []domain.ComparisonResult{
			{
				Name:   "Invoice",
				Status: domain.StatusDifferent,
				Source: &domain.Snapshot{FlowID: "s1", Hash: "aa"},
				Target: &domain.Snapshot{FlowID: "t1", Hash: "bb"},
				ActionDifferences: []domain.ActionDifference{
					{ActionName: "Send", Status: domain.ActionRemoved, ChangedProperties: []domain.PathChange{}},
				},
			},
			{Name: "Approvals", Status: domain.StatusIdentical},
		},
	}
	c.Tally()
	return c
}

func TestReport_RoundTripsDocument(t *testing.T) {
	r, err := NewReporter(Config{}, log.NewNopLogger())
	require.NoError(t, err)
	var buf bytes.Buffer
	r.WithWriter(&buf)

	require.NoError(t, r.Report(context.Background(), sampleComparison()))

	var doc reporting.Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "run-2", doc.RunID)
	assert.Equal(t, []string{"Invoice"}, doc.DifferentFlows)
	assert.Equal(t, []string{"Approvals"}, doc.IdenticalFlows)
	require.Len(t, doc.Comparisons, 2)
	require.Len(t, doc.Comparisons[0].ActionDifferences, 1)
	assert.Equal(t, domain.ActionRemoved, doc.Comparisons[0].ActionDifferences[0].Status)
	assert.Contains(t, buf.String(), "action_name: Send")
}

func TestReport_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flows.yaml")
	r, err := NewReporter(Config{OutputPath: path}, log.NewNopLogger())
	require.NoError(t, err)

	require.NoError(t, r.Report(context.Background(), sampleComparison()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "run_id: run-2")
}
