package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stackguard/stackguard/internal/domain"
	"github.com/stackguard/stackguard/internal/logger"
)

// hookInput is the pre-tool-use payload a coding agent host sends on stdin:
// {"tool_name": "Write", "tool_input": {"file_path": "...", "content": "..."}, "cwd": "..."}
type hookInput struct {
	HookEventName string        `json:"hook_event_name"`
	ToolName      string        `json:"tool_name"`
	ToolInput     hookToolInput `json:"tool_input"`
	Cwd           string        `json:"cwd"`
}

type hookToolInput struct {
	FilePath  string     `json:"file_path"`
	Content   string     `json:"content"`
	NewString string     `json:"new_string"`
	Edits     []hookEdit `json:"edits"`
}

type hookEdit struct {
	NewString string `json:"new_string"`
}

// writeTools are the host tools that put content on disk.
var writeTools = map[string]bool{
	"Write":     true,
	"Edit":      true,
	"MultiEdit": true,
}

// proposedContent returns the text a write tool would add to the file.
func (in hookInput) proposedContent() string {
	switch in.ToolName {
	case "Write":
		return in.ToolInput.Content
	case "Edit":
		return in.ToolInput.NewString
	default:
		parts := make([]string, 0, len(in.ToolInput.Edits))
		for _, e := range in.ToolInput.Edits {
			parts = append(parts, e.NewString)
		}
		return strings.Join(parts, "\n")
	}
}

func newHookCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Pre-write hook handler for coding agents",
		Long: `Reads a pre-tool-use JSON payload from stdin and evaluates Write, Edit and
MultiEdit calls against the compiled rule set.

Responds with {"allow": true} or {"allow": false, "message": ...} on stdout.
A blocked write exits with code 2 and repeats the message on stderr.
Other tools, unparsable payloads and internal errors are allowed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := runHook(cmd, root)

			data, err := json.Marshal(d)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))

			if !d.Allow {
				fmt.Fprintf(cmd.ErrOrStderr(), "stackguard: %s\n", d.Message)
				if d.Hint != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", d.Hint)
				}
				return &ExitError{Code: 2}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Project root (defaults to the payload cwd, then the working directory)")

	return cmd
}

// runHook never fails: any problem evaluating the payload allows the write.
func runHook(cmd *cobra.Command, root string) domain.PolicyDecision {
	log := logger.ForComponent("hook")

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		log.Warn("reading hook input", "error", err)
		return domain.Allowed()
	}

	var input hookInput
	if err := json.Unmarshal(data, &input); err != nil {
		log.Warn("could not parse hook input", "error", err)
		return domain.Allowed()
	}

	if !writeTools[input.ToolName] || input.ToolInput.FilePath == "" {
		return domain.Allowed()
	}

	if root == "" {
		root = input.Cwd
	}
	projectRoot, err := projectArg([]string{root})
	if err != nil {
		log.Warn("resolving project root", "error", err)
		return domain.Allowed()
	}

	svc := newServices().evaluate
	evaluate := svc.EvaluateFragment
	if input.ToolName == "Write" {
		evaluate = svc.Evaluate
	}
	d, err := evaluate(projectRoot, input.ToolInput.FilePath, input.proposedContent())
	if err != nil {
		log.Warn("evaluation failed, allowing write", "file", input.ToolInput.FilePath, "error", err)
		return domain.Allowed()
	}
	return d
}
