package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackguard/stackguard/internal/adapters/outbound/tui"
	"github.com/stackguard/stackguard/internal/application"
)

func newCompileCmd() *cobra.Command {
	var (
		preset     string
		dryRun     bool
		check      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "compile [dir]",
		Short: "Compile the project's boundaries into a rule set",
		Long: "Resolve the detected stack against a preset and write the versioned rule-set document " +
			"the pre-write hook enforces. --check compares the document with a fresh compile instead.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectArg(args)
			if err != nil {
				return err
			}
			svc := newServices().compile

			if check {
				return runCompileCheck(cmd, svc, root, jsonOutput)
			}

			report, err := svc.Compile(root, preset, dryRun)
			if err != nil {
				return fmt.Errorf("compile failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderResolution(report.Effective))
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRuleSet(report.RuleSet, report.Gaps, report.Path, report.Written))
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Preset to compile (overrides detection and .stackguard.yaml)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compile without writing the rule-set document")
	cmd.Flags().BoolVar(&check, "check", false, "Exit 1 if the rule-set document is missing or out of date")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("check", "dry-run")
	cmd.MarkFlagsMutuallyExclusive("check", "preset")

	return cmd
}

func runCompileCheck(cmd *cobra.Command, svc *application.CompileService, root string, jsonOutput bool) error {
	report, err := svc.Check(root)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if jsonOutput {
		if err := renderJSON(cmd, report); err != nil {
			return err
		}
	} else if report.Persisted {
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderDrift(report.Drift, report.Path))
	}

	switch {
	case !report.Persisted:
		return fmt.Errorf("%s not found: run stackguard compile", report.Path)
	case !report.UpToDate():
		return &ExitError{Code: 1}
	}
	return nil
}
