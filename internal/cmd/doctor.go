package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/brewpkg/internal/db"
	"github.com/quantmind-br/brewpkg/internal/fsops"
	"github.com/quantmind-br/brewpkg/internal/syspkg/homebrew"
	"github.com/quantmind-br/brewpkg/internal/ui"
	"github.com/spf13/cobra"
)

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check Homebrew, owner account and local state",
		Long:  `Check that brew is reachable, the owner account resolves, the alias directory is readable and the run journal opens.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			ctx, cancel := a.context(cmd)
			defer cancel()

			hb := a.homebrew()
			var issues, warnings []string

			binary := a.cfg.Homebrew.Binary
			if binary == "" {
				binary = homebrew.DefaultBinary
			}

			ui.PrintHeader(out, "Homebrew")
			if err := a.deps.Runner.RequireCommand(binary); err != nil {
				ui.PrintError(out, "%s: NOT FOUND", binary)
				issues = append(issues, err.Error())
			} else {
				ui.PrintSuccess(out, "%s: found", binary)
			}

			owner := hb.Owner()
			ec, err := a.deps.LookupUser(owner)
			if err != nil {
				ui.PrintError(out, "Owner: %v", err)
				issues = append(issues, fmt.Sprintf("cannot resolve owner %q", owner))
			} else {
				ui.PrintSuccess(out, "Owner: %s (home %s)", ec.RunAsUser, ec.HomeDirectory)
			}

			if len(issues) == 0 {
				if prefix, err := hb.Prefix(ctx); err != nil {
					ui.PrintError(out, "Prefix: %v", err)
					issues = append(issues, "brew --prefix failed")
				} else {
					ui.PrintSuccess(out, "Prefix: %s", prefix)
				}

				aliases, err := hb.Aliases(ctx)
				switch {
				case err != nil:
					ui.PrintWarning(out, "Aliases: %v", err)
					warnings = append(warnings, "alias directory unreadable")
				case len(aliases) == 0:
					ui.PrintInfo(out, "Aliases: none on disk (names resolve through brew info)")
				default:
					ui.PrintSuccess(out, "Aliases: %d", len(aliases))
				}
			}

			fmt.Fprintln(out)
			ui.PrintHeader(out, "Local state")
			for _, dir := range []struct{ name, path string }{
				{"Data directory", a.cfg.Paths.DataDir},
				{"Log directory", filepath.Dir(a.cfg.Paths.LogFile)},
			} {
				if dir.path == "" || dir.path == "." {
					continue
				}
				if err := fsops.EnsureDir(a.deps.Fs, dir.path, 0755); err != nil {
					ui.PrintError(out, "%s: NOT ACCESSIBLE (%s)", dir.name, dir.path)
					issues = append(issues, fmt.Sprintf("directory not accessible: %s", dir.path))
					continue
				}
				ui.PrintSuccess(out, "%s: %s", dir.name, dir.path)
			}

			if a.cfg.Paths.DBFile != "" {
				journal, err := db.New(ctx, a.cfg.Paths.DBFile)
				if err != nil {
					ui.PrintError(out, "Database: NOT ACCESSIBLE")
					issues = append(issues, fmt.Sprintf("cannot open database: %v", err))
				} else {
					runs, err := journal.List(ctx, "", 0)
					if err != nil {
						ui.PrintWarning(out, "Database: cannot list runs: %v", err)
						warnings = append(warnings, "cannot list recorded runs")
					} else {
						ui.PrintSuccess(out, "Database: %s (%d runs)", journal.Path(), len(runs))
					}
					journal.Close()
				}
			}

			if v := os.Getenv("HOMEBREW_NO_AUTO_UPDATE"); v != "" {
				ui.PrintInfo(out, "HOMEBREW_NO_AUTO_UPDATE=%s", v)
			}

			fmt.Fprintln(out)
			ui.PrintHeader(out, "Summary")
			if len(issues) == 0 {
				ui.PrintSuccess(out, "All critical checks passed!")
			} else {
				ui.PrintError(out, "Found %d issue(s):", len(issues))
				ui.PrintList(out, issues)
			}
			if len(warnings) > 0 {
				ui.PrintWarning(out, "Found %d warning(s):", len(warnings))
				ui.PrintList(out, warnings)
			}

			if len(issues) > 0 {
				return fmt.Errorf("system check failed with %d issue(s)", len(issues))
			}
			return nil
		},
	}

	return cmd
}
