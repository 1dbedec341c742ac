package yaml

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
	"github.com/olusolaa/flow-drift-detector/internal/reporting"
)

const ReporterTypeYAML = "yaml"

type Config struct {
	OutputPath       string `mapstructure:"output_path"`
	IncludeCanonical bool   `mapstructure:"include_canonical"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	return &Reporter{
		config: cfg,
		writer: os.Stdout,
		logger: logger,
	}, nil
}

func (r *Reporter) WithWriter(w io.Writer) *Reporter {
	r.writer = w
	return r
}

func (r *Reporter) Type() string { return ReporterTypeYAML }

func (r *Reporter) Report(ctx context.Context, comparison *domain.FlowComparison) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	w, err := reporting.OpenOutput(r.config.OutputPath, r.writer)
	if err != nil {
		return fmt.Errorf("failed to open YAML report output: %w", err)
	}
	defer w.Close()

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reporting.NewDocument(comparison, r.config.IncludeCanonical)); err != nil {
		r.logger.Errorf(ctx, err, "Failed to encode YAML report")
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML report: %w", err)
	}

	r.logger.Debugf(ctx, "YAML report successfully generated.")
	return nil
}
