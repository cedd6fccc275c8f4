// Package converge drives a provider the way a convergence host does: load
// the current state, decide, then call at most one lifecycle operation.
package converge

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/quantmind-br/brewpkg/internal/core"
	"github.com/quantmind-br/brewpkg/internal/syspkg"
	"github.com/rs/zerolog"
)

// Journal records converge runs
type Journal interface {
	Create(ctx context.Context, run *core.RunRecord) error
}

// Result describes one converge run
type Result struct {
	RunID     string
	Action    core.Action
	Request   core.PackageRequest
	Before    core.InstalledState
	After     core.InstalledState
	Candidate string
	Outcome   core.Outcome
	Duration  time.Duration
	Err       error
}

// Changed reports whether the provider mutated the package set
func (r *Result) Changed() bool {
	return r.Outcome == core.OutcomeChanged
}

// Runner converges package requests through a provider
type Runner struct {
	provider syspkg.Provider
	journal  Journal
	logger   *zerolog.Logger
	dryRun   bool
	now      func() time.Time
}

// Option configures a Runner
type Option func(*Runner)

// WithJournal records every run in j
func WithJournal(j Journal) Option {
	return func(r *Runner) { r.journal = j }
}

// WithDryRun reports decisions without calling mutating operations
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) { r.dryRun = dryRun }
}

// NewRunner creates a Runner for provider
func NewRunner(provider syspkg.Provider, log *zerolog.Logger, opts ...Option) *Runner {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	r := &Runner{
		provider: provider,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run converges req toward action. The returned error is the same as Result.Err.
func (r *Runner) Run(ctx context.Context, action core.Action, req core.PackageRequest) (*Result, error) {
	started := r.now()
	res := &Result{
		RunID:   uuid.NewString(),
		Action:  action,
		Request: req,
	}

	res.Err = r.run(ctx, res)
	res.Duration = r.now().Sub(started)
	if res.Err != nil {
		res.Outcome = core.OutcomeFailed
	}

	event := r.logger.Info()
	if res.Err != nil {
		event = r.logger.Error().Err(res.Err)
	}
	event.
		Str("run_id", res.RunID).
		Str("action", string(action)).
		Str("package", req.Name).
		Str("outcome", string(res.Outcome)).
		Dur("duration", res.Duration).
		Msg("converge run finished")

	r.record(ctx, res, started)
	return res, res.Err
}

func (r *Runner) run(ctx context.Context, res *Result) error {
	req := res.Request

	before, err := r.provider.LoadCurrentState(ctx, req)
	if err != nil {
		return fmt.Errorf("load current state: %w", err)
	}
	res.Before = before
	res.After = before

	var op func(context.Context, core.PackageRequest) error
	switch res.Action {
	case core.ActionInstall:
		if before.IsInstalled() && (req.Version == "" || before.Has(req.Version)) {
			res.Outcome = core.OutcomeUpToDate
			return nil
		}
		op = r.provider.Install

	case core.ActionUpgrade:
		candidate, err := r.provider.CandidateVersion(ctx, req)
		if err != nil {
			return fmt.Errorf("candidate version: %w", err)
		}
		res.Candidate = candidate
		if before.IsInstalled() && SameVersion(before.Latest(), candidate) {
			res.Outcome = core.OutcomeUpToDate
			return nil
		}
		op = r.provider.Upgrade

	case core.ActionRemove, core.ActionPurge:
		if !before.IsInstalled() {
			res.Outcome = core.OutcomeNotInstalled
			return nil
		}
		op = r.provider.Remove
		if res.Action == core.ActionPurge {
			op = r.provider.Purge
		}

	default:
		return fmt.Errorf("unsupported action %q", res.Action)
	}

	if r.dryRun {
		res.Outcome = core.OutcomeDryRun
		return nil
	}

	if err := op(ctx, req); err != nil {
		return err
	}
	res.Outcome = core.OutcomeChanged

	after, err := r.provider.LoadCurrentState(ctx, req)
	if err != nil {
		r.logger.Warn().Err(err).Str("package", req.Name).Msg("could not reload state after change")
		return nil
	}
	res.After = after
	return nil
}

func (r *Runner) record(ctx context.Context, res *Result, started time.Time) {
	if r.journal == nil {
		return
	}

	rec := &core.RunRecord{
		RunID:     res.RunID,
		Provider:  r.provider.Name(),
		Action:    res.Action,
		Package:   res.Request.Name,
		Version:   res.Request.Version,
		Before:    res.Before.String(),
		After:     res.After.String(),
		Outcome:   res.Outcome,
		StartedAt: started,
		Duration:  res.Duration,
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}

	if err := r.journal.Create(ctx, rec); err != nil {
		r.logger.Warn().Err(err).Str("run_id", res.RunID).Msg("failed to record run")
	}
}

// SameVersion compares two versions semantically when both parse, and as
// plain strings otherwise (Homebrew revisions like 1.2_1 are not semver).
func SameVersion(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Equal(vb)
	}
	return a == b
}
