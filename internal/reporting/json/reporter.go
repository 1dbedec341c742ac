package json

import (
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
	"github.com/olusolaa/flow-drift-detector/internal/reporting"
)

const ReporterTypeJSON = "json"

type Config struct {
	Pretty           bool   `mapstructure:"pretty"`
	OutputPath       string `mapstructure:"output_path"`
	IncludeCanonical bool   `mapstructure:"include_canonical"`
}

var api = jsoniter.Config{EscapeHTML: false, SortMapKeys: true}.Froze()

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

// WithWriter redirects stdout output, used when no output path is configured.
func (r *Reporter) WithWriter(w io.Writer) *Reporter {
	r.writer = w
	return r
}

func (r *Reporter) Type() string { return ReporterTypeJSON }

func (r *Reporter) Report(ctx context.Context, comparison *domain.FlowComparison) error {
	if ctx.Err() != nil {
		r.logger.Warnf(ctx, "JSON report generation cancelled.")
		return ctx.Err()
	}

	doc := reporting.NewDocument(comparison, r.config.IncludeCanonical)

	var (
		out []byte
		err error
	)
	if r.config.Pretty {
		out, err = api.MarshalIndent(doc, "", "  ")
	} else {
		out, err = api.Marshal(doc)
	}
	if err != nil {
		r.logger.Errorf(ctx, err, "Failed to encode JSON report")
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}

	w, err := reporting.OpenOutput(r.config.OutputPath, r.writer)
	if err != nil {
		return fmt.Errorf("failed to open JSON report output: %w", err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		w.Close()
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}

	if r.config.OutputPath != "" {
		r.logger.Infof(ctx, "JSON report written to %s", r.config.OutputPath)
	}
	r.logger.Debugf(ctx, "JSON report successfully generated.")
	return nil
}
