package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/kivo360/omoictl/models"
)

func TestRenderAgentsTable(t *testing.T) {
	list := models.AgentList{
		Agents: []models.Agent{
			{
				ID:            "agent-1234567890",
				Type:          "worker",
				Status:        models.AgentWorking,
				CurrentTaskID: "task-abcdef",
				CurrentPhase:  "design",
				LastHeartbeat: time.Now().Add(-30 * time.Second),
			},
			{
				ID:     "agent-2",
				Type:   "guardian",
				Status: models.AgentIdle,
			},
		},
		Total: 2,
	}

	out := RenderAgentsTable(list)
	for _, want := range []string{"worker", "guardian", "working", "idle", "Design", "2 agents"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	// Agents with no heartbeat or task show placeholders, not zero times.
	if strings.Contains(out, "0001-01-01") {
		t.Error("zero heartbeat should render as a placeholder")
	}
}

func TestRenderSpecsTableEmpty(t *testing.T) {
	out := RenderSpecsTable(nil)
	if !strings.Contains(out, "no specs found") {
		t.Errorf("empty list should say so:\n%s", out)
	}
}

func TestHumanAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{49 * time.Hour, "2d"},
	}
	for _, tt := range tests {
		if got := humanAge(tt.d); got != tt.want {
			t.Errorf("humanAge(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
