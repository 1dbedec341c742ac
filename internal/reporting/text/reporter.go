package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
)

const (
	ReporterTypeText      = "text"
	DefaultMaxValueLength = 100
)

type Config struct {
	NoColor        bool `mapstructure:"no_color"`
	MaxValueLength int  `mapstructure:"max_value_length" validate:"gte=0"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
	if cfg.MaxValueLength <= 0 {
		cfg.MaxValueLength = DefaultMaxValueLength
	}

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

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Type() string { return ReporterTypeText }

func (r *Reporter) Report(ctx context.Context, comparison *domain.FlowComparison) error {
	if len(comparison.Comparisons) == 0 {
		fmt.Fprintln(r.writer, "No flows found in the source environment.")
		return nil
	}

	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "Flow Comparison Report")
	fmt.Fprintln(tw, "======================")
	fmt.Fprintf(tw, "Source:\t%s\n", comparison.SourceURL)
	fmt.Fprintf(tw, "Target:\t%s\n\n", comparison.TargetURL)
	fmt.Fprintln(tw, "Status\tFlow\tDetails")
	fmt.Fprintln(tw, "------\t----\t-------")

	for _, res := range comparison.Comparisons {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var statusStr, details string
		switch res.Status {
		case domain.StatusDifferent:
			statusStr = red("[DIFFERENT]")
			details = summarizeDifferent(res)
		case domain.StatusError:
			statusStr = magenta("[ERROR]")
			details = summarizeError(res)
		case domain.StatusMissingInTarget:
			statusStr = yellow("[MISSING]")
			details = "Flow exists in source but not in target."
		case domain.StatusIdentical:
			statusStr = green("[OK]")
			details = "Definitions are identical."
		default:
			statusStr = "[UNKNOWN]"
			details = "Unknown comparison status."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", statusStr, res.Name, details)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	r.writeActionDetails(comparison)

	tw = tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	s := comparison.Summary
	fmt.Fprintln(tw, "\nSummary:")
	fmt.Fprintln(tw, "-------")
	fmt.Fprintf(tw, "Flows in source:\t%d\n", s.SourceCount)
	fmt.Fprintf(tw, "Flows in target:\t%d\n", s.TargetCount)
	fmt.Fprintf(tw, "Identical:\t%s\n", green(s.Identical))
	fmt.Fprintf(tw, "Different:\t%s\n", red(s.Different))
	fmt.Fprintf(tw, "Missing in target:\t%s\n", yellow(s.MissingInTarget))
	fmt.Fprintf(tw, "Errors:\t%s\n", magenta(s.Errors))
	return tw.Flush()
}

func summarizeDifferent(res domain.ComparisonResult) string {
	if res.Diff == nil {
		return "Definitions differ."
	}
	return fmt.Sprintf("%d added, %d removed, %d changed paths; %d actions differ.",
		len(res.Diff.Added), len(res.Diff.Removed), len(res.Diff.Changed), len(res.ActionDifferences))
}

func summarizeError(res domain.ComparisonResult) string {
	var parts []string
	if res.Source != nil && res.Source.Failed() {
		parts = append(parts, "source: "+res.Source.Error)
	}
	if res.Target != nil && res.Target.Failed() {
		parts = append(parts, "target: "+res.Target.Error)
	}
	if len(parts) == 0 {
		return "Comparison failed."
	}
	return strings.Join(parts, "; ")
}

func (r *Reporter) writeActionDetails(comparison *domain.FlowComparison) {
	for _, res := range comparison.Comparisons {
		if res.Status != domain.StatusDifferent || len(res.ActionDifferences) == 0 {
			continue
		}
		fmt.Fprintf(r.writer, "\n%s\n", color.New(color.Bold).Sprint(res.Name))
		for _, ad := range res.ActionDifferences {
			switch ad.Status {
			case domain.ActionAdded:
				fmt.Fprintf(r.writer, "  + %s (only in target)\n", ad.ActionName)
			case domain.ActionRemoved:
				fmt.Fprintf(r.writer, "  - %s (only in source)\n", ad.ActionName)
			case domain.ActionChanged:
				fmt.Fprintf(r.writer, "  ~ %s\n", ad.ActionName)
				for _, c := range ad.ChangedProperties {
					fmt.Fprintf(r.writer, "      %s: %s -> %s\n",
						c.Path, r.formatValue(c.SourceValue), r.formatValue(c.TargetValue))
				}
			}
		}
	}
}

func (r *Reporter) formatValue(value string) string {
	maxLen := r.config.MaxValueLength
	if len(value) > maxLen && maxLen > 3 {
		return value[:maxLen-3] + "..."
	}
	return value
}
