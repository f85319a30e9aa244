package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stackguard/stackguard/internal/adapters/outbound/config"
	"github.com/stackguard/stackguard/internal/adapters/outbound/detector"
	"github.com/stackguard/stackguard/internal/adapters/outbound/gitinfo"
	"github.com/stackguard/stackguard/internal/adapters/outbound/rulestore"
	"github.com/stackguard/stackguard/internal/adapters/outbound/scanner"
	"github.com/stackguard/stackguard/internal/application"
	"github.com/stackguard/stackguard/internal/domain"
)

type services struct {
	detect   *application.DetectService
	compile  *application.CompileService
	evaluate *application.EvaluateService
}

func newServices() services {
	git := gitinfo.New()
	sc := scanner.New(git)
	det := detector.New(domain.DefaultStackTables())
	cfg := config.New()

	compile := application.NewCompileService(sc, det, cfg, rulestore.New(), git)
	return services{
		detect:   application.NewDetectService(sc, det, cfg),
		compile:  compile,
		evaluate: application.NewEvaluateService(cfg, compile),
	}
}

// projectArg resolves the optional [dir] argument to an absolute path.
func projectArg(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
