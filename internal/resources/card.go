// Package resources implements the per-sandbox resource allocation cards:
// three bounded numeric fields (CPU cores, memory, disk) edited against the
// last-fetched allocation, with read-only usage shown alongside. Each card
// is independent; editing one never dirties another.
package resources

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kivo360/omoictl/internal/form"
	"github.com/kivo360/omoictl/models"
)

// Field names for the three allocation sliders.
const (
	FieldCPU    = "cpu_cores"
	FieldMemory = "memory_gb"
	FieldDisk   = "disk_gb"
)

// Bounds holds the slider constraints for one card. The backend does not
// publish limits, so callers supply them (the CLI ships defaults).
type Bounds struct {
	CPU    models.FieldBounds
	Memory models.FieldBounds
	Disk   models.FieldBounds
}

// DefaultBounds matches the backend's sandbox provisioning limits.
func DefaultBounds() Bounds {
	return Bounds{
		CPU:    models.FieldBounds{Min: 1, Max: 16, Step: 1},
		Memory: models.FieldBounds{Min: 1, Max: 64, Step: 1},
		Disk:   models.FieldBounds{Min: 5, Max: 200, Step: 5},
	}
}

func (b Bounds) fieldBounds(field string) (models.FieldBounds, bool) {
	switch field {
	case FieldCPU:
		return b.CPU, true
	case FieldMemory:
		return b.Memory, true
	case FieldDisk:
		return b.Disk, true
	}
	return models.FieldBounds{}, false
}

// Card is the edit controller for one sandbox's allocation.
type Card struct {
	*form.Controller[models.ResourceAllocation]

	SandboxID string
	bounds    Bounds
	usage     models.ResourceUsage
}

// NewCard returns an empty card for a sandbox. Call LoadResource with a
// fetched record before editing.
func NewCard(sandboxID string, bounds Bounds) *Card {
	c := &Card{SandboxID: sandboxID, bounds: bounds}
	c.Controller = form.New(c.deriveWarnings)
	return c
}

// LoadResource installs a freshly fetched resource record.
func (c *Card) LoadResource(r models.SandboxResource) {
	c.usage = r.Usage
	c.Load(r.Allocation)
}

// Usage returns the read-only usage snapshot from the last fetch.
func (c *Card) Usage() models.ResourceUsage { return c.usage }

// Bounds returns the slider constraints for a field.
func (c *Card) Bounds(field string) (models.FieldBounds, bool) {
	return c.bounds.fieldBounds(field)
}

// Adjust moves a field by steps slider increments, clamped to its bounds.
// Slider moves cannot produce invalid values, so any stale field error is
// cleared.
func (c *Card) Adjust(field string, steps int) {
	b, ok := c.bounds.fieldBounds(field)
	if !ok {
		return
	}
	a := c.Local()
	switch field {
	case FieldCPU:
		a.CPUCores = b.Clamp(a.CPUCores + steps*stepOf(b))
	case FieldMemory:
		a.MemoryGB = b.Clamp(a.MemoryGB + steps*stepOf(b))
	case FieldDisk:
		a.DiskGB = b.Clamp(a.DiskGB + steps*stepOf(b))
	}
	c.ClearFieldError(field)
	c.Apply(a)
}

// SetField parses and validates raw user input for a field. Out-of-range or
// non-numeric input records a field error and leaves the committed value
// untouched.
func (c *Card) SetField(field, raw string) {
	b, ok := c.bounds.fieldBounds(field)
	if !ok {
		return
	}
	v, err := parseBounded(raw, b)
	if err != nil {
		c.SetFieldError(field, err.Error())
		return
	}
	c.ClearFieldError(field)
	a := c.Local()
	switch field {
	case FieldCPU:
		a.CPUCores = v
	case FieldMemory:
		a.MemoryGB = v
	case FieldDisk:
		a.DiskGB = v
	}
	c.Apply(a)
}

// Patch returns the partial update to send on apply: only the fields that
// differ from the last-fetched allocation.
func (c *Card) Patch() models.ResourceAllocationPatch {
	return c.Server().Diff(c.Local())
}

func parseBounded(raw string, b models.FieldBounds) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("a value is required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("must be a whole number")
	}
	if v < b.Min || v > b.Max {
		return 0, fmt.Errorf("must be between %d and %d", b.Min, b.Max)
	}
	return b.Clamp(v), nil
}

func stepOf(b models.FieldBounds) int {
	if b.Step <= 0 {
		return 1
	}
	return b.Step
}

// deriveWarnings flags allocations that would leave the sandbox above its
// budget given current usage.
func (c *Card) deriveWarnings(a models.ResourceAllocation) []string {
	var out []string
	server := c.Server()
	if server.MemoryGB > 0 && a.MemoryGB < server.MemoryGB {
		usedGB := c.usage.MemoryUsedMB / 1024
		if usedGB > float64(a.MemoryGB) {
			out = append(out, fmt.Sprintf("current memory usage (%.1f GB) exceeds the new allocation", usedGB))
		}
	}
	if server.DiskGB > 0 && a.DiskGB < server.DiskGB && c.usage.DiskUsedGB > float64(a.DiskGB) {
		out = append(out, fmt.Sprintf("current disk usage (%.1f GB) exceeds the new allocation", c.usage.DiskUsedGB))
	}
	return out
}
