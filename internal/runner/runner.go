// Package runner performs one standardization pass over the companies file:
// load, rewrite in memory, optionally confirm, write back, record and report.
package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kingrea/primary-risks/internal/dataset"
	"github.com/kingrea/primary-risks/internal/logbook"
	"github.com/kingrea/primary-risks/internal/report"
	"github.com/kingrea/primary-risks/internal/standardize"
)

// Reviewer asks for approval before pending changes are written.
type Reviewer interface {
	Confirm(ctx context.Context, changes []standardize.Change) (bool, error)
}

// Options configures a Runner.
type Options struct {
	DatasetPath string
	Bullet      int
	DryRun      bool

	// Reviewer is consulted before writing; nil writes without asking.
	Reviewer Reviewer
	// History records each run; nil disables it.
	History  *logbook.Logbook
	Reporter *report.Reporter
	Logger   *zap.Logger
}

// Outcome summarizes one pass.
type Outcome struct {
	Result   standardize.Result
	Written  bool
	Declined bool
}

// Reported is the count shown in the summary line: declined reviews leave the
// dataset untouched and report zero.
func (o Outcome) Reported() int {
	if o.Declined {
		return 0
	}
	return o.Result.Changed()
}

// Runner executes standardization passes.
type Runner struct {
	opts         Options
	standardizer *standardize.Standardizer
	logger       *zap.Logger
}

// New builds a Runner.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		opts:         opts,
		standardizer: standardize.New(standardize.WithBullet(opts.Bullet), standardize.WithLogger(logger)),
		logger:       logger,
	}
}

// Run performs one pass. Load, parse, review and write failures are returned
// without printing a summary.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	ds, err := dataset.Load(r.opts.DatasetPath)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Result: r.standardizer.Apply(ds.Records())}
	for _, c := range outcome.Result.Changes {
		r.logger.Info("standardized primary risks",
			zap.String("company", c.Company),
			zap.Int("record", c.Record),
			zap.Int("bullet", c.Bullet),
			zap.Int("risks", len(c.Risks)))
	}

	if outcome.Result.Changed() > 0 && !r.opts.DryRun {
		accepted := true
		if r.opts.Reviewer != nil {
			accepted, err = r.opts.Reviewer.Confirm(ctx, outcome.Result.Changes)
			if err != nil {
				return outcome, fmt.Errorf("runner: review: %w", err)
			}
		}
		if accepted {
			if err := ds.Save(); err != nil {
				return outcome, err
			}
			outcome.Written = true
			r.logger.Info("dataset written", zap.String("path", ds.Path()))
		} else {
			outcome.Declined = true
			r.logger.Warn("review declined; dataset left unchanged", zap.String("path", ds.Path()))
		}
	}
	if r.opts.DryRun {
		r.logger.Info("dry run; dataset left unchanged", zap.String("path", ds.Path()))
	}

	if !r.opts.DryRun {
		entry := logbook.Entry{
			Dataset:  ds.Path(),
			Changed:  outcome.Reported(),
			Declined: outcome.Declined,
		}
		if outcome.Written {
			entry.Companies = outcome.Result.Companies()
		}
		if err := r.opts.History.Append(entry); err != nil {
			r.logger.Warn("could not record run history", zap.Error(err))
		}
	}

	if r.opts.Reporter != nil {
		if err := r.opts.Reporter.Report(outcome.Reported()); err != nil {
			return outcome, fmt.Errorf("runner: report: %w", err)
		}
	}
	return outcome, nil
}
