package cmd

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/brewpkg/internal/core"
	"github.com/quantmind-br/brewpkg/internal/syspkg"
	"github.com/spf13/cobra"
)

// NewProvidersCmd creates the providers command
func NewProvidersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List registered (platform, resource) provider bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, _ := a.registry()
			current := a.currentPlatform()

			actions := make([]string, len(core.Actions))
			for i, action := range core.Actions {
				actions[i] = string(action)
			}

			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeader([]string{"Platform", "Resource", "Provider", "Actions", "Active"}),
				tablewriter.WithAlignment(tw.MakeAlign(5, tw.AlignLeft)),
				tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
			)

			for _, key := range reg.Keys() {
				p, err := reg.Lookup(key)
				if err != nil {
					continue
				}
				active := ""
				if key.Platform == current && key.Resource == syspkg.ResourcePackage {
					active = "*"
				}
				table.Append(key.Platform, key.Resource, p.Name(), strings.Join(actions, ","), active)
			}

			table.Render()
			return nil
		},
	}

	return cmd
}
