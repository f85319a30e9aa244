package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stackguard/stackguard/internal/adapters/outbound/tui"
)

func newEvaluateCmd() *cobra.Command {
	var (
		root        string
		contentFile string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate <file>",
		Short: "Evaluate one proposed write against the project's rules",
		Long: "Check the content proposed for <file> against the compiled rule set. Content is read from " +
			"--content-file, or from stdin. Exits 1 when the write would be blocked.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectRoot, err := projectArg([]string{root})
			if err != nil {
				return err
			}

			var content []byte
			if contentFile != "" {
				content, err = os.ReadFile(contentFile)
			} else {
				content, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading content: %w", err)
			}

			d, err := newServices().evaluate.Evaluate(projectRoot, args[0], string(content))
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, d); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderDecision(d, args[0]))
			}

			if !d.Allow {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Project root")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read proposed content from this file instead of stdin")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the decision as JSON")

	return cmd
}
