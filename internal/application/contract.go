package application

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/stackguard/stackguard/internal/domain"
)

// RenderContract renders a compile report as Markdown instructions for
// coding agents: the detected stack, the layout, and every boundary the
// pre-write hook enforces.
func RenderContract(report *CompileReport) string {
	funcMap := template.FuncMap{
		"join": func(items []string) string { return strings.Join(items, ", ") },
		"code": func(items []string) string {
			quoted := make([]string, len(items))
			for i, s := range items {
				quoted[i] = "`" + s + "`"
			}
			return strings.Join(quoted, ", ")
		},
	}
	tmpl := template.Must(template.New("contract").Funcs(funcMap).Parse(contractTemplate))

	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, contractView{
		Profile: report.Effective.Profile,
		Preset:  report.RuleSet.Preset,
		Rules:   report.RuleSet,
		Gaps:    report.Gaps,
	})
	return buf.String()
}

type contractView struct {
	Profile domain.ProjectProfile
	Preset  string
	Rules   domain.RuleSet
	Gaps    []domain.CompileGap
}

const contractTemplate = `# {{.Profile.Name}}
{{- if .Profile.Description}}

{{.Profile.Description}}
{{- end}}

{{.Profile.Language}}
{{- with .Profile.Framework}} / {{.}}{{end}}
{{- with .Profile.PackageManager}} / {{.}}{{end}} project, preset ` + "`" + `{{.Preset}}` + "`" + `.
{{- if .Profile.DirectoryTree}}

## Layout

` + "```" + `
{{.Profile.DirectoryTree}}
` + "```" + `
{{- end}}
{{- if .Profile.SrcDirs}}

Source: {{code .Profile.SrcDirs}}
{{- end}}
{{- if .Profile.TestDirs}}
Tests: {{code .Profile.TestDirs}}
{{- end}}
{{- if .Rules.Layers}}

## Layer Rules
{{range .Rules.Layers}}{{if .Forbidden}}
- Files in ` + "`" + `{{.Prefix}}` + "`" + ` MUST NOT import {{code .Forbidden}}
{{- end}}{{end}}
{{- end}}
{{- if .Rules.Siblings}}

## Sibling Imports
{{range .Rules.Siblings}}
- Files in ` + "`" + `{{.Prefix}}` + "`" + ` MUST NOT use {{code .Patterns}}
{{- end}}
{{- end}}
{{- if .Rules.FileBlocks}}

## File Names
{{range .Rules.FileBlocks}}
- No file in ` + "`" + `{{.Prefix}}` + "`" + ` may have a name containing {{code .Names}}
{{- end}}
{{- end}}
{{- if .Rules.MaxFileLines}}

## File Size

- A source file written in one go MUST NOT exceed {{.Rules.MaxFileLines}} lines
{{- end}}
{{- if .Rules.IsEmpty}}

No boundaries are enforced for this project.
{{- range .Gaps}}
- {{.Reason}}
{{- end}}
{{- else}}

Writes that break these rules are blocked before they reach disk.
{{- end}}
`
