package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackguard/stackguard/internal/adapters/outbound/tui"
	"github.com/stackguard/stackguard/internal/domain"
)

func newPresetsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput {
				return renderJSON(cmd, domain.KnownPresets)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderPresets(domain.KnownPresets))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
