package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackguard/stackguard/internal/adapters/outbound/tui"
	"github.com/stackguard/stackguard/internal/application"
)

func newDetectCmd() *cobra.Command {
	var (
		jsonOutput bool
		depth      int
	)

	cmd := &cobra.Command{
		Use:   "detect [dir]",
		Short: "Detect the project's stack and the preset it would use",
		Long:  "Scan a project to bounded depth, classify its stack, and show the auto-selected preset. Nothing is written.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectArg(args)
			if err != nil {
				return err
			}

			report, err := newServices().detect.Detect(root, application.DetectOptions{MaxDepth: depth})
			if err != nil {
				return fmt.Errorf("detection failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderProfile(report.Profile, report.FrameworkName, report.Preset, report.PresetMatched))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output detection as JSON")
	cmd.Flags().IntVar(&depth, "depth", 0, "Scan depth (defaults to max_depth from .stackguard.yaml, or 2)")

	return cmd
}
