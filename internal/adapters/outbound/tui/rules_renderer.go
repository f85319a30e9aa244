package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stackguard/stackguard/internal/domain"
	"github.com/stackguard/stackguard/internal/domain/resolve"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// RenderRuleSet renders a compiled rule set and where it went.
func RenderRuleSet(rs domain.RuleSet, gaps []domain.CompileGap, path string, written bool) string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("Preset "+rs.Preset) + "  " + dimStyle.Render(fmt.Sprintf("rule-set v%d", rs.Version)) + "\n")

	for _, g := range gaps {
		b.WriteString("  " + warnStyle.Render("gap") + " " + dimStyle.Render(g.Reason) + "\n")
	}

	if len(rs.Layers) > 0 {
		renderSection(&b, "Layers", len(rs.Layers))
		for _, l := range rs.Layers {
			forbidden := faintStyle.Render("no forbidden imports")
			if len(l.Forbidden) > 0 {
				forbidden = strings.Join(l.Forbidden, ", ")
			}
			fmt.Fprintf(&b, "    %s %s  %s\n", failStyle.Render("●"), padRight(l.Prefix, 18), forbidden)
		}
	}

	if len(rs.Siblings) > 0 {
		renderSection(&b, "Sibling blocks", len(rs.Siblings))
		for _, s := range rs.Siblings {
			fmt.Fprintf(&b, "    %s %s  %s\n", warnStyle.Render("●"), padRight(s.Prefix, 18), strings.Join(s.Patterns, ", "))
		}
	}

	if rs.MaxFileLines > 0 {
		renderSection(&b, "File size", 1)
		fmt.Fprintf(&b, "    %s %s  %s\n", warnStyle.Render("●"), padRight("written files", 18), fmt.Sprintf("at most %d lines", rs.MaxFileLines))
	}

	if len(rs.FileBlocks) > 0 {
		renderSection(&b, "File name blocks", len(rs.FileBlocks))
		for _, f := range rs.FileBlocks {
			fmt.Fprintf(&b, "    %s %s  %s\n", warnStyle.Render("●"), padRight(f.Prefix, 18), strings.Join(f.Names, ", "))
		}
	}

	if rs.IsEmpty() {
		b.WriteString("\n  " + dimStyle.Render("No rules: every write is allowed.") + "\n")
	}

	b.WriteString("\n")
	if written {
		b.WriteString("  " + passStyle.Render("wrote") + " " + path + "\n")
	} else {
		b.WriteString("  " + hintStyle.Render("dry run: "+path+" not written") + "\n")
	}
	return b.String()
}

// RenderResolution shows where each resolved profile field came from, in
// resolver order.
func RenderResolution(cfg domain.EffectiveConfig) string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Resolved profile") + "  " + dimStyle.Render("preset "+cfg.Preset+" ("+string(cfg.Selection)+")") + "\n")
	for _, field := range resolve.Fields() {
		source, ok := cfg.Sources[field]
		if !ok {
			continue
		}
		style := dimStyle
		switch source {
		case domain.SourceDetected:
			style = passStyle
		case domain.SourcePreset:
			style = warnStyle
		}
		fmt.Fprintf(&b, "    %s %s\n", padRight(field, 18), style.Render(string(source)))
	}
	return b.String()
}

// RenderDecision renders one policy decision for a file.
func RenderDecision(d domain.PolicyDecision, file string) string {
	if d.Allow {
		return "  " + passStyle.Render("allow") + " " + file + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n", failStyle.Bold(true).Render("block"), file)
	fmt.Fprintf(&b, "    %s\n", d.Message)
	if d.Hint != "" {
		fmt.Fprintf(&b, "    %s\n", hintStyle.Render(d.Hint))
	}
	return b.String()
}

// RenderDrift renders differences between the persisted and compiled rule sets.
func RenderDrift(drift []domain.RuleDrift, path string) string {
	if len(drift) == 0 {
		return "  " + passStyle.Render("up to date") + " " + path + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s %s\n", warnStyle.Render("drift"), path, dimStyle.Render(fmt.Sprintf("(%d change(s))", len(drift))))
	for _, d := range drift {
		fmt.Fprintf(&b, "    %s %s\n", faintStyle.Render(padRight(d.Op, 8)), d.Path)
	}
	b.WriteString("  " + hintStyle.Render("Run stackguard compile to refresh the rule set.") + "\n")
	return b.String()
}

func renderSection(b *strings.Builder, title string, n int) {
	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n", sectionHeaderStyle.Render(title), dimStyle.Render(fmt.Sprintf("(%d)", n)))
}
