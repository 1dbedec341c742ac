package domain

import "time"

type ComparisonStatus string

const (
	StatusIdentical       ComparisonStatus = "identical"
	StatusDifferent       ComparisonStatus = "different"
	StatusMissingInTarget ComparisonStatus = "missing_in_target"
	StatusError           ComparisonStatus = "error"
)

// ComparisonResult is the classification of one source flow name. Target is nil
// when the flow is missing in the target; Diff and ActionDifferences are only set
// for StatusDifferent when diff details were requested.
type ComparisonResult struct {
	Name              string             `json:"name" yaml:"name"`
	Status            ComparisonStatus   `json:"status" yaml:"status"`
	Source            *Snapshot          `json:"source" yaml:"source"`
	Target            *Snapshot          `json:"target" yaml:"target"`
	Diff              *Diff              `json:"diff,omitempty" yaml:"diff,omitempty"`
	ActionDifferences []ActionDifference `json:"action_differences,omitempty" yaml:"action_differences,omitempty"`
}

func (r ComparisonResult) Identical() bool {
	return r.Status == StatusIdentical
}

type Summary struct {
	SourceCount     int `json:"source_count" yaml:"source_count"`
	TargetCount     int `json:"target_count" yaml:"target_count"`
	Identical       int `json:"identical" yaml:"identical"`
	Different       int `json:"different" yaml:"different"`
	MissingInTarget int `json:"missing_in_target" yaml:"missing_in_target"`
	Errors          int `json:"errors" yaml:"errors"`
}

// FlowComparison is the aggregate of one comparison run. Every flow name in the
// source inventory appears exactly once in Comparisons. Names found only in the
// target inventory are not classified.
type FlowComparison struct {
	RunID           string             `json:"run_id" yaml:"run_id"`
	StartedAt       time.Time          `json:"started_at" yaml:"started_at"`
	SourceURL       string             `json:"source_url" yaml:"source_url"`
	TargetURL       string             `json:"target_url" yaml:"target_url"`
	SourceSnapshots []Snapshot         `json:"source_snapshots" yaml:"source_snapshots"`
	TargetSnapshots []Snapshot         `json:"target_snapshots" yaml:"target_snapshots"`
	Comparisons     []ComparisonResult `json:"comparisons" yaml:"comparisons"`
	Summary         Summary            `json:"summary" yaml:"summary"`
}

func (c *FlowComparison) namesWithStatus(status ComparisonStatus) []string {
	names := make([]string, 0)
	for _, r := range c.Comparisons {
		if r.Status == status {
			names = append(names, r.Name)
		}
	}
	return names
}

func (c *FlowComparison) IdenticalFlows() []string {
	return c.namesWithStatus(StatusIdentical)
}

func (c *FlowComparison) DifferentFlows() []string {
	return c.namesWithStatus(StatusDifferent)
}

func (c *FlowComparison) MissingInTarget() []string {
	return c.namesWithStatus(StatusMissingInTarget)
}

func (c *FlowComparison) ErroredFlows() []string {
	return c.namesWithStatus(StatusError)
}

// Tally recomputes Summary's status counts from Comparisons.
func (c *FlowComparison) Tally() {
	c.Summary.SourceCount = len(c.SourceSnapshots)
	c.Summary.TargetCount = len(c.TargetSnapshots)
	c.Summary.Identical = 0
	c.Summary.Different = 0
	c.Summary.MissingInTarget = 0
	c.Summary.Errors = 0
	for _, r := range c.Comparisons {
		switch r.Status {
		case StatusIdentical:
			c.Summary.Identical++
		case StatusDifferent:
			c.Summary.Different++
		case StatusMissingInTarget:
			c.Summary.MissingInTarget++
		case StatusError:
			c.Summary.Errors++
		}
	}
}
