package tui

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/camelcase"

	"github.com/stackguard/stackguard/internal/domain"
)

// ── Claude-inspired warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	labelStyle    = lipgloss.NewStyle().Foreground(dim)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderProfile formats a detected profile and its auto-selected preset.
// framework is the display name of p.Framework.
func RenderProfile(p domain.ProjectProfile, framework, preset string, matched bool) string {
	var b strings.Builder

	title := headerStyle.Render("stackguard")
	subtitle := dimStyle.Render(p.Name)
	b.WriteString(boxStyle.Render(title + "\n" + subtitle))
	b.WriteString("\n\n")

	writeField(&b, "Language", string(p.Language))
	writeField(&b, "Framework", orNone(framework))
	writeField(&b, "Package manager", orNone(p.PackageManager))
	if p.RuntimeVersion != "" {
		writeField(&b, "Runtime", p.RuntimeVersion)
	}
	writeField(&b, "Source dirs", listOrNone(p.SrcDirs))
	writeField(&b, "Test dirs", listOrNone(p.TestDirs))
	writeField(&b, "Entry points", listOrNone(p.EntryPoints))
	if p.DatabaseType != "" {
		writeField(&b, "Database", p.DatabaseType)
	}
	if p.Linter != "" {
		writeField(&b, "Linter", p.Linter)
	}

	presetText := titleStyle.Render(preset)
	if !matched {
		presetText += "  " + dimStyle.Render("(no specific preset fits)")
	}
	writeField(&b, "Preset", presetText)

	if p.IsUnknownStack() {
		b.WriteString("\n  " + warnStyle.Render("Unknown stack") + " " +
			dimStyle.Render("no Python or JavaScript manifest at the project root; no rules will be enforced") + "\n")
	}

	b.WriteString("\n  " + separatorLine + "\n\n")
	for _, f := range ProfileFlags(p) {
		icon := faintStyle.Render("○")
		if f.Set {
			icon = passStyle.Render("●")
		}
		fmt.Fprintf(&b, "    %s %s\n", icon, f.Label)
	}

	if p.DirectoryTree != "" {
		b.WriteString("\n")
		for _, line := range strings.Split(p.DirectoryTree, "\n") {
			b.WriteString("    " + dimStyle.Render(line) + "\n")
		}
	}

	if len(p.Notes) > 0 {
		b.WriteString("\n  " + warnStyle.Render(fmt.Sprintf("%d path(s) skipped during scan", len(p.Notes))) + "\n")
		for _, n := range p.Notes {
			fmt.Fprintf(&b, "    %s %s\n", faintStyle.Render(n.Path), dimStyle.Render(n.Reason))
		}
	}

	b.WriteString("\n")
	return b.String()
}

// Flag is one boolean profile fact with a display label.
type Flag struct {
	Label string
	Set   bool
}

// ProfileFlags lists the boolean facts of p in declaration order, labelled
// from their field names ("HasDocker" becomes "Docker").
func ProfileFlags(p domain.ProjectProfile) []Flag {
	v := reflect.ValueOf(p)
	t := v.Type()

	var flags []Flag
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Type.Kind() != reflect.Bool {
			continue
		}
		flags = append(flags, Flag{Label: flagLabel(t.Field(i).Name), Set: v.Field(i).Bool()})
	}
	return flags
}

func flagLabel(field string) string {
	words := camelcase.Split(field)
	if len(words) > 1 && (words[0] == "Has" || words[0] == "Is") {
		words = words[1:]
	}
	for i := 1; i < len(words); i++ {
		words[i] = strings.ToLower(words[i])
	}
	return strings.Join(words, " ")
}

// RenderPresets lists the built-in presets.
func RenderPresets(presets []domain.PresetInfo) string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Available presets") + "\n\n")
	for _, p := range presets {
		fmt.Fprintf(&b, "    %s %s\n", titleStyle.Render(padRight(p.ID, 18)), dimStyle.Render(p.Description))
	}
	b.WriteString("\n")
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s %s\n", labelStyle.Render(padRight(label, 18)), value)
}

func orNone(s string) string {
	if s == "" {
		return faintStyle.Render("none")
	}
	return s
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return faintStyle.Render("none")
	}
	return strings.Join(items, ", ")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
