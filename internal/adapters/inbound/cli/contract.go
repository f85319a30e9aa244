package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stackguard/stackguard/internal/application"
)

func newContractCmd() *cobra.Command {
	var (
		preset string
		output string
	)

	cmd := &cobra.Command{
		Use:   "contract [dir]",
		Short: "Render the project's boundaries as agent instructions",
		Long:  "Compile the rule set in memory and render it as Markdown suitable for CLAUDE.md or AGENTS.md.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectArg(args)
			if err != nil {
				return err
			}

			report, err := newServices().compile.Compile(root, preset, true)
			if err != nil {
				return fmt.Errorf("compile failed: %w", err)
			}

			md := application.RenderContract(report)
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			if err := os.WriteFile(output, []byte(md), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Preset to render (overrides detection and .stackguard.yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the contract to a file instead of stdout")

	return cmd
}
