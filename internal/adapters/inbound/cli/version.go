package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackguard/stackguard/internal/domain"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show stackguard version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "stackguard %s (%s) rule-set v%d, tables %s\n",
				version, commit, domain.RuleSetVersion, domain.StackTablesVersion)
			return nil
		},
	}
}
