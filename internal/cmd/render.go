package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/planweave/planweave/internal/plan"
)

// styles holds the lipgloss styles used for terminal output
type styles struct {
	Title    lipgloss.Style
	TaskID   lipgloss.Style
	Muted    lipgloss.Style
	Optional lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")). // Purple
			MarginBottom(1),
		TaskID: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Optional: lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")), // Yellow
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
	}
}

// renderPlan formats a validated plan for the terminal, one task per block
// with its tools and dependencies indented beneath it.
func renderPlan(goal string, p *plan.Plan) string {
	s := defaultStyles()
	var b strings.Builder

	b.WriteString(s.Title.Render(fmt.Sprintf("Plan: %s", goal)))
	b.WriteString("\n")
	b.WriteString(s.Muted.Render(fmt.Sprintf("%d task(s)", len(p.Tasks))))
	b.WriteString("\n\n")

	for i, task := range p.Tasks {
		b.WriteString(fmt.Sprintf("%d. %s", i+1, s.TaskID.Render(task.ID)))
		if task.Optional {
			b.WriteString(" " + s.Optional.Render("(optional)"))
		}
		b.WriteString("\n")
		b.WriteString("   " + task.Description + "\n")

		if len(task.Tools) > 0 {
			b.WriteString(s.Muted.Render("   tools: "+strings.Join(task.Tools, ", ")) + "\n")
		}
		if len(task.Dependencies) > 0 {
			b.WriteString(s.Muted.Render("   depends on: "+strings.Join(task.Dependencies, ", ")) + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}
