package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/quantmind-br/brewpkg/internal/core"
	"github.com/quantmind-br/brewpkg/internal/syspkg/homebrew"
	"github.com/quantmind-br/brewpkg/internal/ui"
	"github.com/spf13/cobra"
)

// packageStatus is the status command's view of one formula
type packageStatus struct {
	Name      string   `json:"name"`
	Formula   string   `json:"formula"`
	Installed []string `json:"installed_versions"`
	Candidate string   `json:"candidate_version"`
	Provider  string   `json:"provider"`
	Owner     string   `json:"owner,omitempty"`
}

// NewStatusCmd creates the status command
func NewStatusCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status <formula>",
		Short: "Show installed and candidate versions of a formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := core.PackageRequest{Name: args[0]}
			errOut := cmd.ErrOrStderr()

			prov, err := a.provider()
			if err != nil {
				ui.PrintError(errOut, "%v", err)
				return &ExitError{Code: core.ExitGeneral, Err: err}
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			hb, _ := prov.(*homebrew.Provider)
			status := packageStatus{Name: req.Name, Formula: req.Name, Provider: prov.Name()}
			if hb != nil {
				status.Owner = hb.Owner()
			}

			fail := func(err error) error {
				ui.PrintError(errOut, "%v", err)
				a.suggest(ctx, errOut, hb, req.Name, err)
				return &ExitError{Code: core.ExitCodeFor(core.ActionInstall, err), Err: err}
			}

			state, err := prov.LoadCurrentState(ctx, req)
			if err != nil {
				return fail(err)
			}
			status.Installed = state.Versions

			if status.Candidate, err = prov.CandidateVersion(ctx, req); err != nil {
				return fail(err)
			}

			if hb != nil {
				if status.Formula, err = hb.ResolvedPackageName(ctx, req.Name); err != nil {
					return fail(err)
				}
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}

			printStatus(cmd, status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}

func printStatus(cmd *cobra.Command, s packageStatus) {
	out := cmd.OutOrStdout()

	ui.PrintHeader(out, s.Name)
	if s.Formula != s.Name {
		ui.PrintKeyValue(out, "Formula", s.Formula)
	}
	installed := "not installed"
	if len(s.Installed) > 0 {
		installed = core.InstalledState{Versions: s.Installed}.String()
	}
	ui.PrintKeyValue(out, "Installed", installed)
	ui.PrintKeyValue(out, "Candidate", s.Candidate)
	ui.PrintKeyValue(out, "Provider", s.Provider)
	if s.Owner != "" {
		ui.PrintKeyValue(out, "Owner", s.Owner)
	}
	fmt.Fprintln(out)
}
