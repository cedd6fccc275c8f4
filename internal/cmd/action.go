package cmd

import (
	"fmt"

	"github.com/quantmind-br/brewpkg/internal/converge"
	"github.com/quantmind-br/brewpkg/internal/core"
	"github.com/quantmind-br/brewpkg/internal/syspkg/homebrew"
	"github.com/quantmind-br/brewpkg/internal/ui"
	"github.com/spf13/cobra"
)

type actionSpec struct {
	action  core.Action
	aliases []string
	short   string
	long    string
}

var (
	actionInstall = actionSpec{
		action: core.ActionInstall,
		short:  "Install a formula unless it is already installed",
		long: `Install a formula with brew install, running as the configured owner.
Nothing is done when the formula (or the requested version) is already installed.`,
	}
	actionUpgrade = actionSpec{
		action: core.ActionUpgrade,
		short:  "Upgrade a formula to its candidate version",
		long: `Upgrade a formula with brew upgrade when the installed version differs from
the candidate version (the stable release, or the formula default).`,
	}
	actionRemove = actionSpec{
		action:  core.ActionRemove,
		aliases: []string{"uninstall", "rm"},
		short:   "Remove an installed formula",
		long:    `Remove a formula with brew uninstall. Nothing is done when it is not installed.`,
	}
	actionPurge = actionSpec{
		action: core.ActionPurge,
		short:  "Remove a formula with --force",
		long: `Purge a formula. Homebrew has no separate purge, so this runs brew uninstall
with --force, which removes every installed version.`,
	}
)

func newActionCmd(a *app, spec actionSpec) *cobra.Command {
	var (
		version string
		options string
		yes     bool
	)

	cmd := &cobra.Command{
		Use:     string(spec.action) + " <formula>",
		Aliases: spec.aliases,
		Short:   spec.short,
		Long:    spec.long,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := core.PackageRequest{Name: args[0], Version: version, Options: options}
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			a.log.Info().
				Str("action", string(spec.action)).
				Str("package", req.Name).
				Str("version", req.Version).
				Bool("dry_run", a.dryRun).
				Msg("starting converge")

			prov, err := a.provider()
			if err != nil {
				ui.PrintError(errOut, "%v", err)
				return &ExitError{Code: core.ExitGeneral, Err: err}
			}

			if spec.action == core.ActionPurge && !yes && !a.dryRun {
				ok, err := a.deps.Confirm(errOut, "purge", req.Name)
				if err != nil {
					return &ExitError{Code: core.ExitInterrupted, Err: err}
				}
				if !ok {
					ui.PrintInfo(out, "Purge of %s cancelled", req.Name)
					return nil
				}
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			opts := []converge.Option{converge.WithDryRun(a.dryRun)}
			journal, err := a.openJournal(ctx)
			if err != nil {
				ui.PrintWarning(errOut, "run history disabled: %v", err)
				a.log.Warn().Err(err).Str("db", a.cfg.Paths.DBFile).Msg("failed to open run journal")
			} else if journal != nil {
				defer journal.Close()
				opts = append(opts, converge.WithJournal(journal))
			}

			runner := converge.NewRunner(prov, a.log, opts...)

			spinner := ui.NewSpinner(errOut, fmt.Sprintf("%s %s", spec.action, req.Name))
			spinner.Start()
			res, err := runner.Run(ctx, spec.action, req)
			spinner.Stop()

			if err != nil {
				ui.PrintOutcome(out, spec.action, req.Name, core.OutcomeFailed, "")
				ui.PrintError(errOut, "%v", err)
				hb, _ := prov.(*homebrew.Provider)
				a.suggest(ctx, errOut, hb, req.Name, err)
				return &ExitError{Code: core.ExitCodeFor(spec.action, err), Err: err}
			}

			ui.PrintOutcome(out, spec.action, req.Name, res.Outcome, outcomeDetail(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "version to pass to brew as -v=<version>")
	if spec.action != core.ActionUpgrade {
		cmd.Flags().StringVarP(&options, "options", "o", "", "extra brew flags, shell-word separated; every word must be a flag, so pass values as --flag=value (e.g. --cc=clang)")
	}
	if spec.action == core.ActionPurge {
		cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	}

	return cmd
}

// outcomeDetail summarizes versions for the one-line result
func outcomeDetail(res *converge.Result) string {
	switch res.Outcome {
	case core.OutcomeChanged:
		if res.After.IsInstalled() {
			return res.After.String()
		}
		return "was " + res.Before.String()
	case core.OutcomeUpToDate:
		if res.Candidate != "" {
			return "candidate " + res.Candidate
		}
		return res.Before.String()
	case core.OutcomeDryRun:
		if res.Candidate != "" && res.Before.IsInstalled() {
			return fmt.Sprintf("would %s %s -> %s", res.Action, res.Before.Latest(), res.Candidate)
		}
		if res.Candidate != "" {
			return fmt.Sprintf("would %s to %s", res.Action, res.Candidate)
		}
		return fmt.Sprintf("would %s", res.Action)
	default:
		return ""
	}
}
