package models

import "time"

// ResourceAllocation is the CPU/memory/disk budget assigned to a sandbox.
type ResourceAllocation struct {
	CPUCores int `json:"cpu_cores" validate:"gte=1"`
	MemoryGB int `json:"memory_gb" validate:"gte=1"`
	DiskGB   int `json:"disk_gb" validate:"gte=1"`
}

// ResourceAllocationPatch is a partial allocation update. Nil fields keep
// their current value on the backend.
type ResourceAllocationPatch struct {
	CPUCores *int `json:"cpu_cores,omitempty"`
	MemoryGB *int `json:"memory_gb,omitempty"`
	DiskGB   *int `json:"disk_gb,omitempty"`
}

// IsZero reports whether the patch carries no changes.
func (p ResourceAllocationPatch) IsZero() bool {
	return p.CPUCores == nil && p.MemoryGB == nil && p.DiskGB == nil
}

// Diff returns a patch containing only the fields where next differs from a.
func (a ResourceAllocation) Diff(next ResourceAllocation) ResourceAllocationPatch {
	var p ResourceAllocationPatch
	if a.CPUCores != next.CPUCores {
		v := next.CPUCores
		p.CPUCores = &v
	}
	if a.MemoryGB != next.MemoryGB {
		v := next.MemoryGB
		p.MemoryGB = &v
	}
	if a.DiskGB != next.DiskGB {
		v := next.DiskGB
		p.DiskGB = &v
	}
	return p
}

// ResourceUsage is the read-only usage snapshot reported by the sandbox
// heartbeat. Percentages are relative to the current allocation.
type ResourceUsage struct {
	CPUPercent    float64 `json:"cpu_usage_percent"`
	MemoryPercent float64 `json:"memory_usage_percent"`
	MemoryUsedMB  float64 `json:"memory_used_mb"`
	DiskPercent   float64 `json:"disk_usage_percent"`
	DiskUsedGB    float64 `json:"disk_used_gb"`
}

// SandboxResource is the complete resource record for one sandbox.
type SandboxResource struct {
	SandboxID   string             `json:"sandbox_id" validate:"required"`
	TaskID      string             `json:"task_id,omitempty"`
	AgentID     string             `json:"agent_id,omitempty"`
	Allocation  ResourceAllocation `json:"allocation"`
	Usage       ResourceUsage      `json:"usage"`
	Status      string             `json:"status"`
	LastUpdated time.Time          `json:"last_updated"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ResourceSummary aggregates allocation and usage across all sandboxes.
type ResourceSummary struct {
	SandboxCount     int     `json:"sandbox_count"`
	TotalCPUCores    int     `json:"total_cpu_cores"`
	TotalMemoryGB    int     `json:"total_memory_gb"`
	TotalDiskGB      int     `json:"total_disk_gb"`
	AvgCPUPercent    float64 `json:"avg_cpu_percent"`
	AvgMemoryPercent float64 `json:"avg_memory_percent"`
	AvgDiskPercent   float64 `json:"avg_disk_percent"`
}

// FieldBounds constrains a numeric allocation field. Values are clamped to
// [Min, Max] and snapped to multiples of Step.
type FieldBounds struct {
	Min  int
	Max  int
	Step int
}

// Clamp snaps v into the bounds. A zero Step is treated as 1.
func (b FieldBounds) Clamp(v int) int {
	step := b.Step
	if step <= 0 {
		step = 1
	}
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	// Snap down to the nearest step from Min.
	return b.Min + ((v-b.Min)/step)*step
}
