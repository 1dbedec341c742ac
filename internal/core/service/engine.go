package service

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
	"github.com/olusolaa/flow-drift-detector/internal/errors"
	"github.com/olusolaa/flow-drift-detector/internal/flows"
)

const defaultConcurrency = 8

type Options struct {
	Source     domain.Environment
	Target     domain.Environment
	NameFilter string
	// IncludeDiffDetails computes Diff and ActionDifferences for different flows.
	IncludeDiffDetails bool
	Concurrency        int
}

// FlowComparisonEngine fetches both flow inventories, snapshots every flow and
// classifies each source flow as identical, different, missing_in_target or error.
type FlowComparisonEngine struct {
	source   ports.FlowSource
	matcher  ports.Matcher
	reporter ports.Reporter
	builder  *flows.SnapshotBuilder
	logger   ports.Logger
	opts     Options
	now      func() time.Time
}

func NewFlowComparisonEngine(
	source ports.FlowSource,
	matcher ports.Matcher,
	reporter ports.Reporter,
	builder *flows.SnapshotBuilder,
	logger ports.Logger,
	opts Options,
) (*FlowComparisonEngine, error) {
	if source == nil {
		return nil, errors.New(errors.CodeConfigValidation, "flow source cannot be nil")
	}
	if matcher == nil {
		return nil, errors.New(errors.CodeConfigValidation, "matcher cannot be nil")
	}
	if builder == nil {
		builder = flows.NewSnapshotBuilder(nil)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Source.Label == "" {
		opts.Source.Label = "source"
	}
	if opts.Target.Label == "" {
		opts.Target.Label = "target"
	}

	return &FlowComparisonEngine{
		source:   source,
		matcher:  matcher,
		reporter: reporter,
		builder:  builder,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}, nil
}

func (e *FlowComparisonEngine) Run(ctx context.Context) error {
	comparison, err := e.Compare(ctx)
	if err != nil {
		return err
	}
	if e.reporter == nil {
		return errors.New(errors.CodeConfigValidation, "no reporter configured")
	}

	e.logger.Infof(ctx, "Reporting %d flow comparisons with %s reporter", len(comparison.Comparisons), e.reporter.Type())
	if err := e.reporter.Report(ctx, comparison); err != nil {
		return errors.Wrap(err, errors.CodeReportError, "failed to generate report")
	}
	return nil
}

func (e *FlowComparisonEngine) Compare(ctx context.Context) (*domain.FlowComparison, error) {
	runID := uuid.NewString()
	log := e.logger.WithFields(map[string]any{"run_id": runID})
	log.Infof(ctx, "Starting flow comparison using %s source (%s -> %s)",
		e.source.Type(), e.opts.Source.URL, e.opts.Target.URL)

	sourceFlows, targetFlows, err := e.fetchInventories(ctx, log)
	if err != nil {
		return nil, err
	}

	sourceHost := e.opts.Source.Host()
	targetHost := e.opts.Target.Host()
	sourceSnaps, err := e.buildSnapshots(ctx, sourceFlows, sourceHost)
	if err != nil {
		return nil, err
	}
	targetSnaps, err := e.buildSnapshots(ctx, targetFlows, targetHost)
	if err != nil {
		return nil, err
	}

	match, err := e.matcher.Match(ctx, sourceSnaps, targetSnaps)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMatchingError, "flow matching failed")
	}
	for _, s := range match.UnmatchedTarget {
		log.Debugf(ctx, "Flow '%s' exists only in target; not classified", s.Name)
	}

	comparisons, err := e.classifyAll(ctx, log, match)
	if err != nil {
		return nil, err
	}

	result := &domain.FlowComparison{
		RunID:           runID,
		StartedAt:       e.now().UTC(),
		SourceURL:       e.opts.Source.URL,
		TargetURL:       e.opts.Target.URL,
		SourceSnapshots: indexed(match.SourceIndex),
		TargetSnapshots: indexed(match.TargetIndex),
		Comparisons:     comparisons,
	}
	result.Tally()

	log.Infof(ctx, "Flow comparison complete: %d source, %d target, %d identical, %d different, %d missing in target, %d errors",
		result.Summary.SourceCount, result.Summary.TargetCount, result.Summary.Identical,
		result.Summary.Different, result.Summary.MissingInTarget, result.Summary.Errors)
	return result, nil
}

// fetchInventories fetches both environments concurrently; either failure aborts the run.
func (e *FlowComparisonEngine) fetchInventories(ctx context.Context, log ports.Logger) ([]domain.FlowRecord, []domain.FlowRecord, error) {
	var sourceFlows, targetFlows []domain.FlowRecord

	g, childCtx := errgroup.WithContext(ctx)
	fetch := func(env domain.Environment, out *[]domain.FlowRecord) func() error {
		return func() error {
			envLog := log.WithFields(map[string]any{"environment": env.Label})
			envLog.Infof(childCtx, "Fetching flows from %s", env.URL)
			records, err := e.source.FetchFlows(childCtx, env, e.opts.NameFilter)
			if err != nil {
				wrapped := errors.Wrap(err, errors.CodeFetchError, "failed fetching flows from "+env.Label+" environment")
				envLog.Errorf(childCtx, wrapped, "Fetch failed")
				return wrapped
			}
			envLog.Infof(childCtx, "Fetched %d flows", len(records))
			*out = records
			return nil
		}
	}
	g.Go(fetch(e.opts.Source, &sourceFlows))
	g.Go(fetch(e.opts.Target, &targetFlows))

	if err := g.Wait(); err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			log.Warnf(ctx, "Flow fetch cancelled or timed out: %v", err)
		}
		return nil, nil, err
	}
	return sourceFlows, targetFlows, nil
}

func (e *FlowComparisonEngine) buildSnapshots(ctx context.Context, records []domain.FlowRecord, host string) ([]domain.Snapshot, error) {
	snaps := make([]domain.Snapshot, len(records))

	g, childCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i := range records {
		g.Go(func() error {
			if childCtx.Err() != nil {
				return childCtx.Err()
			}
			snaps[i] = e.builder.Build(records[i], host)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snaps, nil
}

func (e *FlowComparisonEngine) classifyAll(ctx context.Context, log ports.Logger, match ports.MatchingResult) ([]domain.ComparisonResult, error) {
	results := make([]domain.ComparisonResult, 0, len(match.Matched)+len(match.UnmatchedSource))

	for _, src := range match.UnmatchedSource {
		s := src
		log.Warnf(ctx, "Flow missing in target: %s", s.Name)
		results = append(results, domain.ComparisonResult{
			Name:   s.Name,
			Status: domain.StatusMissingInTarget,
			Source: &s,
		})
	}

	matched := make([]domain.ComparisonResult, len(match.Matched))
	g, childCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, pair := range match.Matched {
		g.Go(func() error {
			if childCtx.Err() != nil {
				return childCtx.Err()
			}
			r, err := e.classify(childCtx, log, pair)
			if err != nil {
				return err
			}
			matched[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results = append(results, matched...)
	sortResults(results)
	return results, nil
}

func (e *FlowComparisonEngine) classify(ctx context.Context, log ports.Logger, pair ports.MatchedPair) (domain.ComparisonResult, error) {
	src, tgt := pair.Source, pair.Target
	result := domain.ComparisonResult{Name: src.Name, Source: &src, Target: &tgt}
	flowLog := log.WithFields(map[string]any{"flow": src.Name})

	switch {
	case src.Failed() || tgt.Failed():
		result.Status = domain.StatusError
		flowLog.Warnf(ctx, "Flow snapshot failed (source: %q, target: %q)", src.Error, tgt.Error)
		return result, nil
	case src.Hash == tgt.Hash:
		result.Status = domain.StatusIdentical
		flowLog.Debugf(ctx, "Flow identical")
		return result, nil
	}

	result.Status = domain.StatusDifferent
	flowLog.Infof(ctx, "Flow differs between environments")
	if !e.opts.IncludeDiffDetails {
		return result, nil
	}

	diff, err := flows.ComputeDiff(src.CanonicalJSON, tgt.CanonicalJSON)
	if err != nil {
		return result, errors.Wrap(err, errors.CodeComparisonError, "failed to diff flow "+src.Name)
	}
	actions, err := flows.ActionDifferences(src.CanonicalJSON, tgt.CanonicalJSON)
	if err != nil {
		return result, errors.Wrap(err, errors.CodeComparisonError, "failed to diff actions of flow "+src.Name)
	}
	result.Diff = &diff
	result.ActionDifferences = actions
	flowLog.Debugf(ctx, "%d added, %d removed, %d changed paths; %d actions differ",
		len(diff.Added), len(diff.Removed), len(diff.Changed), len(actions))
	return result, nil
}
