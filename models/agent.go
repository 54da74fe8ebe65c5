package models

import "time"

// AgentStatus represents the lifecycle state of a registered agent.
type AgentStatus string

const (
	AgentIdle    AgentStatus = "idle"
	AgentWorking AgentStatus = "working"
	AgentStuck   AgentStatus = "stuck"
	AgentOffline AgentStatus = "offline"
)

// Agent is a registered worker as reported by the backend agent registry.
type Agent struct {
	ID            string      `json:"id" validate:"required"`
	Type          string      `json:"agent_type"`
	Status        AgentStatus `json:"status"`
	CurrentTaskID string      `json:"current_task_id,omitempty"`
	CurrentPhase  string      `json:"current_phase,omitempty"`
	SandboxID     string      `json:"sandbox_id,omitempty"`
	LastHeartbeat time.Time   `json:"last_heartbeat"`
}

// AgentList is the paginated agent listing response.
type AgentList struct {
	Agents []Agent `json:"agents" validate:"dive"`
	Total  int     `json:"total"`
}
