package domain

// PathChange is a value that differs at the same address in both trees.
type PathChange struct {
	Path        string `json:"path" yaml:"path"`
	SourceValue string `json:"source_value" yaml:"source_value"`
	TargetValue string `json:"target_value" yaml:"target_value"`
}

// Diff lists paths in the target only (Added), in the source only (Removed),
// and present in both with different values (Changed).
type Diff struct {
	Added   []string     `json:"added" yaml:"added"`
	Removed []string     `json:"removed" yaml:"removed"`
	Changed []PathChange `json:"changed" yaml:"changed"`
}

func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

type ActionStatus string

const (
	ActionAdded   ActionStatus = "added"
	ActionRemoved ActionStatus = "removed"
	ActionChanged ActionStatus = "changed"
)

const (
	ValueMissing = "(missing)"
	ValueAdded   = "(added)"
	ValueRemoved = "(removed)"
)

// ActionDifference describes one workflow action that differs between environments.
// ChangedProperties is empty unless Status is ActionChanged.
type ActionDifference struct {
	ActionName        string       `json:"action_name" yaml:"action_name"`
	Status            ActionStatus `json:"status" yaml:"status"`
	ChangedProperties []PathChange `json:"changed_properties" yaml:"changed_properties"`
}
