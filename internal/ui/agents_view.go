package ui

import (
	"fmt"
	"time"

	"github.com/kivo360/omoictl/models"
)

// agentStatusIcon returns a colored marker for an agent status.
func agentStatusIcon(status models.AgentStatus) string {
	switch status {
	case models.AgentWorking:
		return StyleSuccess.Render("●")
	case models.AgentIdle:
		return StyleSubtle.Render("●")
	case models.AgentStuck:
		return StyleWarning.Render("●")
	case models.AgentOffline:
		return StyleError.Render("●")
	default:
		return StyleSubtle.Render("○")
	}
}

// RenderAgentsTable renders the registered agents as a compact table.
func RenderAgentsTable(list models.AgentList) string {
	t := Table{
		Headers:  []string{"", "ID", "TYPE", "STATUS", "PHASE", "TASK", "HEARTBEAT"},
		MaxWidth: 24,
	}
	for _, a := range list.Agents {
		heartbeat := "-"
		if !a.LastHeartbeat.IsZero() {
			heartbeat = humanAge(time.Since(a.LastHeartbeat))
		}
		task := a.CurrentTaskID
		if task == "" {
			task = "-"
		} else {
			task = TruncateID(task)
		}
		phaseLabel := a.CurrentPhase
		if phaseLabel == "" {
			phaseLabel = "-"
		} else {
			phaseLabel = titleCaser.String(phaseLabel)
		}
		t.Rows = append(t.Rows, []string{
			agentStatusIcon(a.Status),
			TruncateID(a.ID),
			a.Type,
			string(a.Status),
			phaseLabel,
			task,
			heartbeat,
		})
	}
	out := t.Render()
	out += StyleSubtle.Render(fmt.Sprintf(" %d agents", list.Total)) + "\n"
	return out
}

// RenderSpecsTable renders spec summaries with their phase pipelines.
func RenderSpecsTable(specs []models.Spec) string {
	var out string
	for _, s := range specs {
		out += StyleTitle.Render(fmt.Sprintf("%s  %s", TruncateID(s.ID), Truncate(s.Title, 60))) + "\n"
		out += "  " + RenderPhasePipeline(s) + "\n\n"
	}
	if len(specs) == 0 {
		out = StyleSubtle.Render(" no specs found") + "\n"
	}
	return out
}

// humanAge formats a duration as a compact age like "12s" or "3m".
func humanAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
