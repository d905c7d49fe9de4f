package tui

import (
	"fmt"
	"strings"

	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ── Claude-inspired warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	info      = lipgloss.Color("#8B949E") // soft blue-gray
	skipColor = lipgloss.Color("#4B5563") // dark gray
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

	severityColors = map[string]lipgloss.Color{
		"BLOCKER":  danger,
		"CRITICAL": lipgloss.Color("#FB923C"), // orange
		"MAJOR":    warning,
		"MINOR":    lipgloss.Color("#A3E635"), // lime
		"INFO":     info,
	}

	statusColors = map[domain.OutcomeStatus]lipgloss.Color{
		domain.OutcomeApplied:  success,
		domain.OutcomeExported: success,
		domain.OutcomeFailed:   danger,
		domain.OutcomeSkipped:  skipColor,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	tableHeadCell = cellStyle.Bold(true).Foreground(accent)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderIssues renders the catalog of issues that have an AI fix.
func RenderIssues(criteria domain.FilterCriteria, issues []domain.Issue) string {
	var b strings.Builder

	title := headerStyle.Render("sonarfix")
	subtitle := dimStyle.Render(scopeLine(criteria))
	count := titleStyle.Render(fmt.Sprintf("%d issues with AI fixes", len(issues)))
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + count))
	b.WriteString("\n\n")

	if len(issues) == 0 {
		b.WriteString("  " + passStyle.Render("No fixable issues found.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(issues))
	for _, is := range issues {
		rows = append(rows, []string{is.Key, is.Severity, is.Rule, location(is)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(faintStyle).
		Headers("KEY", "SEVERITY", "RULE", "FILE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeadCell
			}
			if col == 1 && row >= 0 && row < len(issues) {
				return cellStyle.Foreground(severityColor(issues[row].Severity))
			}
			if col == 3 {
				return cellStyle.Foreground(dim)
			}
			return cellStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// RenderDispatchReport renders the per-issue result of an apply run.
func RenderDispatchReport(report *domain.DispatchReport) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Apply") + "  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("agent port %d  operation %s", report.Port, report.OperationID)))
	b.WriteString("\n  " + separatorLine + "\n\n")

	for _, o := range report.Outcomes {
		renderOutcome(&b, o)
	}

	b.WriteString("\n  ")
	b.WriteString(summary(report.Outcomes, domain.OutcomeApplied))
	b.WriteString("\n")
	return b.String()
}

// RenderExportReport renders the per-issue result of an export run.
func RenderExportReport(report *domain.ExportReport) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Export") + "  ")
	b.WriteString(dimStyle.Render("operation " + report.OperationID))
	b.WriteString("\n  " + separatorLine + "\n\n")

	for _, o := range report.Outcomes {
		renderOutcome(&b, o)
	}

	b.WriteString("\n  ")
	b.WriteString(summary(report.Outcomes, domain.OutcomeExported))
	b.WriteString("\n")
	if report.Count(domain.OutcomeExported) > 0 {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("json"), fileStyle.Render(report.JSONFile))
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("csv "), fileStyle.Render(report.CSVFile))
	}
	return b.String()
}

// RenderAgentPort renders the result of an agent lookup.
func RenderAgentPort(project string, port int) string {
	if port == domain.AgentNotFound {
		return "  " + failStyle.Render("●") + " no local agent serves " + titleStyle.Render(project) + "\n"
	}
	return fmt.Sprintf("  %s %s served on port %s\n",
		passStyle.Render("●"),
		titleStyle.Render(project),
		titleStyle.Render(fmt.Sprintf("%d", port)),
	)
}

func renderOutcome(b *strings.Builder, o domain.DispatchOutcome) {
	icon := lipgloss.NewStyle().Foreground(statusColor(o.Status)).Render("●")
	status := lipgloss.NewStyle().Foreground(statusColor(o.Status)).Render(padRight(string(o.Status), 9))

	fmt.Fprintf(b, "    %s %s %s", icon, status, o.IssueKey)
	if o.Component != "" {
		b.WriteString("  " + fileStyle.Render(domain.PathFromComponent(o.Component)))
	}
	b.WriteString("\n")

	if o.Status == domain.OutcomeFailed || o.Status == domain.OutcomeSkipped {
		reason := o.Reason
		if o.Stage != "" {
			reason = string(o.Stage) + ": " + reason
		}
		fmt.Fprintf(b, "              %s\n", dimStyle.Render(reason))
	}
	if o.Warning != "" {
		fmt.Fprintf(b, "              %s\n", warnStyle.Render(o.Warning))
	}
}

func summary(outcomes []domain.DispatchOutcome, done domain.OutcomeStatus) string {
	counts := map[domain.OutcomeStatus]int{}
	for _, o := range outcomes {
		counts[o.Status]++
	}
	parts := []string{
		passStyle.Render(fmt.Sprintf("%d %s", counts[done], done)),
	}
	if n := counts[domain.OutcomeFailed]; n > 0 {
		parts = append(parts, failStyle.Render(fmt.Sprintf("%d failed", n)))
	}
	if n := counts[domain.OutcomeSkipped]; n > 0 {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("%d skipped", n)))
	}
	return strings.Join(parts, "  ")
}

func scopeLine(c domain.FilterCriteria) string {
	parts := []string{c.Project}
	if c.Severity != "" {
		parts = append(parts, c.Severity)
	}
	if c.Folder != "" {
		parts = append(parts, c.Folder)
	}
	if c.Branch != "" {
		parts = append(parts, c.Branch)
	}
	return strings.Join(parts, " · ")
}

func location(is domain.Issue) string {
	if is.Line > 0 {
		return fmt.Sprintf("%s:%d", is.Path(), is.Line)
	}
	return is.Path()
}

func severityColor(severity string) lipgloss.Color {
	if c, ok := severityColors[severity]; ok {
		return c
	}
	return fg
}

func statusColor(s domain.OutcomeStatus) lipgloss.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return fg
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
