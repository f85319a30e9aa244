package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stackguard/stackguard/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
)

// ExitError carries a process exit code out of a command. A nil Err means
// the command already reported the outcome.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func newRootCmd() *cobra.Command {
	var (
		verbose   bool
		logFormat string
	)

	cmd := &cobra.Command{
		Use:   "stackguard",
		Short: "Keep coding agents inside your architecture",
		Long: "stackguard detects a project's stack, compiles its architectural boundaries into a rule set, " +
			"and blocks writes that import across those boundaries.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := logger.ParseFormat(logFormat)
			if err != nil {
				return err
			}
			cfg := logger.DefaultConfig()
			cfg.Format = format
			cfg.Output = cmd.ErrOrStderr()
			if verbose {
				cfg.Level = slog.LevelDebug
			}
			logger.Init(cfg)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDetectCmd())
	cmd.AddCommand(newCompileCmd())
	cmd.AddCommand(newEvaluateCmd())
	cmd.AddCommand(newHookCmd())
	cmd.AddCommand(newPresetsCmd())
	cmd.AddCommand(newContractCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the root command and reports errors on stderr.
func Execute() error {
	err := newRootCmd().Execute()
	var exitErr *ExitError
	if err != nil && (!errors.As(err, &exitErr) || exitErr.Err != nil) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
