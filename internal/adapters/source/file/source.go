// Package file reads cloud flows from exported workflow inventories on disk,
// which allows comparisons without live access to an environment.
package file

import (
	"context"
	"fmt"
	"sync"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
	"github.com/olusolaa/flow-drift-detector/internal/errors"
)

const SourceTypeFile = "file"

type Source struct {
	logger ports.Logger

	mu      sync.Mutex
	parsers map[string]*exportParser
}

var _ ports.FlowSource = (*Source)(nil)

func NewSource(logger ports.Logger) *Source {
	return &Source{
		logger:  logger.WithFields(map[string]any{"component": "file_source"}),
		parsers: make(map[string]*exportParser),
	}
}

func (s *Source) Type() string { return SourceTypeFile }

func (s *Source) FetchFlows(ctx context.Context, env domain.Environment, nameFilter string) ([]domain.FlowRecord, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if env.File == "" {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("no export file configured for %s environment", env.Label),
			fmt.Sprintf("Set %s.file when fetch.type is %q.", env.Label, SourceTypeFile))
	}

	records, err := s.parserFor(env.File).parseAndCache(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.FlowRecord, 0, len(records))
	for _, r := range records {
		if nameFilter != "" && r.Name != nameFilter {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Source) parserFor(path string) *exportParser {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parsers[path]
	if !ok {
		p = newExportParser(path, s.logger)
		s.parsers[path] = p
	}
	return p
}
