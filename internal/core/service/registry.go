package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
	"github.com/olusolaa/flow-drift-detector/internal/errors"
)

// ComponentRegistry holds the flow sources and reporters available to a run,
// keyed by their Type().
type ComponentRegistry struct {
	mu          sync.RWMutex
	flowSources map[string]ports.FlowSource
	reporters   map[string]ports.Reporter
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		flowSources: make(map[string]ports.FlowSource),
		reporters:   make(map[string]ports.Reporter),
	}
}

func (r *ComponentRegistry) RegisterFlowSource(source ports.FlowSource) error {
	if source == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil flow source")
	}
	sourceType := source.Type()
	if sourceType == "" {
		return errors.New(errors.CodeInternal, "flow source type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.flowSources[sourceType]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("flow source type '%s' already registered", sourceType))
	}
	r.flowSources[sourceType] = source
	return nil
}

func (r *ComponentRegistry) GetFlowSource(sourceType string) (ports.FlowSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, exists := r.flowSources[sourceType]
	if !exists {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("flow source type '%s' not found", sourceType),
			fmt.Sprintf("Supported: %v", keys(r.flowSources)))
	}
	return source, nil
}

func (r *ComponentRegistry) RegisterReporter(reporter ports.Reporter) error {
	if reporter == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil reporter")
	}
	reporterType := reporter.Type()
	if reporterType == "" {
		return errors.New(errors.CodeInternal, "reporter type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reporters[reporterType]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("reporter type '%s' already registered", reporterType))
	}
	r.reporters[reporterType] = reporter
	return nil
}

func (r *ComponentRegistry) GetReporter(reporterType string) (ports.Reporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reporter, exists := r.reporters[reporterType]
	if !exists {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("reporter type '%s' not found", reporterType),
			fmt.Sprintf("Supported: %v", keys(r.reporters)))
	}
	return reporter, nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
