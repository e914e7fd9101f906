package handlers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/provisioning/compose"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	dim     lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
}

// newStyles returns colored styles when out is a terminal and plain ones
// otherwise.
func newStyles(out io.Writer) styles {
	plain := lipgloss.NewStyle()
	if !isTerminal(out) {
		return styles{title: plain, section: plain, dim: plain, ok: plain, warn: plain, fail: plain}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorWhite),
		section: lipgloss.NewStyle().Bold(true).Foreground(colorBlue),
		dim:     lipgloss.NewStyle().Foreground(colorDim),
		ok:      lipgloss.NewStyle().Foreground(colorGreen),
		warn:    lipgloss.NewStyle().Foreground(colorYellow),
		fail:    lipgloss.NewStyle().Bold(true).Foreground(colorRed),
	}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func header(b *strings.Builder, st styles, title string) {
	b.WriteString("\n")
	b.WriteString(st.title.Render("  " + title))
	b.WriteString("\n")
	b.WriteString(st.dim.Render("  " + strings.Repeat("═", len(title))))
	b.WriteString("\n")
}

func section(b *strings.Builder, st styles, name string) {
	b.WriteString("\n")
	b.WriteString(st.section.Render("  " + name))
	b.WriteString("\n")
}

// renderOutputs summarizes a successful composition.
func renderOutputs(st styles, params *config.Parameters, res *compose.Result) string {
	var b strings.Builder
	header(&b, st, fmt.Sprintf("eksgraph compose: %s", params.StackName))

	b.WriteString(fmt.Sprintf("  %s %d nodes materialized\n", st.ok.Render("✓"), len(res.Order)))

	section(&b, st, "Outputs")
	width := 0
	for _, o := range res.Outputs {
		width = max(width, len(o.Key))
	}
	for _, o := range res.Outputs {
		b.WriteString(fmt.Sprintf("    %-*s  %s\n", width, o.Key, o.Value))
		if o.Description != "" {
			b.WriteString(st.dim.Render(fmt.Sprintf("    %-*s  %s", width, "", o.Description)))
			b.WriteString("\n")
		}
	}

	if len(res.ServiceAccounts) > 0 {
		section(&b, st, "Service accounts")
		for _, sa := range res.ServiceAccounts {
			b.WriteString(fmt.Sprintf("    %s/%s\n", sa.Namespace, sa.Name))
		}
	}

	b.WriteString(renderWarnings(st, res.Findings))
	return b.String()
}

// renderFailure explains a failed composition. res may be nil.
func renderFailure(st styles, res *compose.Result, err error) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(st.fail.Render("  ✗ composition failed"))
	b.WriteString("\n")

	if id, ok := graph.NodeIDOf(err); ok {
		b.WriteString(fmt.Sprintf("    node:  %s\n", id))
	}
	if cycle := graph.AsCycleError(err); cycle != nil {
		b.WriteString(fmt.Sprintf("    cycle: %s\n", strings.Join(cycle.Cycle, " → ")))
	}
	b.WriteString(fmt.Sprintf("    error: %v\n", err))

	var vf *provisioning.ValidationFailedError
	if errors.As(err, &vf) && res != nil {
		b.WriteString(renderFindings(st, findingsOf(res.Findings)))
	}

	if res != nil && res.Graph != nil {
		var resolved []string
		for _, n := range res.Graph.Nodes() {
			if n.IsResolved() {
				resolved = append(resolved, n.ID())
			}
		}
		if len(resolved) > 0 {
			section(&b, st, fmt.Sprintf("Materialized before the failure (%d)", len(resolved)))
			for _, id := range resolved {
				b.WriteString(st.dim.Render("    " + id))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func renderWarnings(st styles, findings []provisioning.ValidationError) string {
	var b strings.Builder
	for _, f := range findings {
		if f.IsError() {
			continue
		}
		if b.Len() == 0 {
			section(&b, st, "Warnings")
		}
		b.WriteString(fmt.Sprintf("    %s %s: %s\n", st.warn.Render("!"), f.Field, f.Message))
	}
	return b.String()
}

func renderFindings(st styles, findings []PlanFinding) string {
	if len(findings) == 0 {
		return ""
	}
	var b strings.Builder
	section(&b, st, "Findings")
	for _, f := range findings {
		mark := st.warn.Render("!")
		if f.Severity == provisioning.SeverityError {
			mark = st.fail.Render("✗")
		}
		b.WriteString(fmt.Sprintf("    %s %s: %s\n", mark, f.Field, f.Message))
	}
	return b.String()
}

// renderPlan renders a plan document for the terminal.
func renderPlan(st styles, doc *PlanDocument) string {
	var b strings.Builder
	header(&b, st, fmt.Sprintf("eksgraph plan: %s (%s)", doc.Stack, doc.Cluster))

	section(&b, st, fmt.Sprintf("Build order (%d nodes)", len(doc.Nodes)))
	for i, n := range doc.Nodes {
		b.WriteString(fmt.Sprintf("    %3d  %-18s %s\n", i+1, n.Kind, n.ID))
		if len(n.DependsOn) > 0 {
			b.WriteString(st.dim.Render("         after " + strings.Join(n.DependsOn, ", ")))
			b.WriteString("\n")
		}
	}

	var ordering []graph.Edge
	for _, e := range doc.Edges {
		if e.Kind == graph.EdgeOrdering {
			ordering = append(ordering, e)
		}
	}
	if len(ordering) > 0 {
		section(&b, st, "Ordering constraints")
		for _, e := range ordering {
			b.WriteString(fmt.Sprintf("    %s → %s", e.From, e.To))
			if e.Reason != "" {
				b.WriteString(st.dim.Render("  (" + e.Reason + ")"))
			}
			b.WriteString("\n")
		}
	}

	if len(doc.AcceptedRisks) > 0 {
		section(&b, st, "Accepted risks")
		for _, r := range doc.AcceptedRisks {
			b.WriteString(fmt.Sprintf("    %s [%s]\n", r.ID, r.Scope))
			b.WriteString(st.dim.Render("      " + r.Reason))
			b.WriteString("\n")
		}
	}

	b.WriteString(renderFindings(st, doc.Findings))
	return b.String()
}
