// Package settings implements the spec-driven settings panel controller:
// field-level validation, derived warnings, and the dirty/save/reset
// lifecycle over a project's SpecDrivenSettings.
package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kivo360/omoictl/internal/form"
	"github.com/kivo360/omoictl/internal/phase"
	"github.com/kivo360/omoictl/models"
)

// Field names, as shown next to inline validation errors. They match the
// backend's JSON field names.
const (
	FieldBypassMode      = "bypass_mode"
	FieldMinTestCoverage = "min_test_coverage"
	FieldAutoProgression = "auto_progression"
	FieldGuardianEnabled = "guardian_enabled"
)

// lowCoverageFloor is the threshold below which a coverage setting draws a
// quality warning.
const lowCoverageFloor = 50

// Controller manages the editable copy of a project's spec-driven settings.
type Controller struct {
	*form.Controller[models.SpecDrivenSettings]
}

// NewController returns a controller with the standard warning rules.
func NewController() *Controller {
	return &Controller{form.New(Warnings)}
}

// SetBypassMode commits a new bypass mode value.
func (c *Controller) SetBypassMode(v bool) {
	s := c.Local()
	s.BypassMode = v
	c.Apply(s)
}

// SetAutoProgression commits a new auto-progression value.
func (c *Controller) SetAutoProgression(v bool) {
	s := c.Local()
	s.AutoProgression = v
	c.Apply(s)
}

// SetGuardianEnabled commits a new guardian value.
func (c *Controller) SetGuardianEnabled(v bool) {
	s := c.Local()
	s.GuardianEnabled = v
	c.Apply(s)
}

// SetMinTestCoverage parses and validates raw user input for the coverage
// threshold. Invalid input records a field error and leaves the committed
// value untouched; valid input clears the error and commits.
func (c *Controller) SetMinTestCoverage(raw string) {
	v, err := parseCoverage(raw)
	if err != nil {
		c.SetFieldError(FieldMinTestCoverage, err.Error())
		return
	}
	c.ClearFieldError(FieldMinTestCoverage)
	s := c.Local()
	s.MinTestCoverage = v
	c.Apply(s)
}

func parseCoverage(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if raw == "" {
		return 0, fmt.Errorf("coverage is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("coverage must be a number")
	}
	if v < 0 {
		return 0, fmt.Errorf("coverage cannot be negative")
	}
	if v > 100 {
		return 0, fmt.Errorf("coverage cannot exceed 100%%")
	}
	return v, nil
}

// Strictness returns the gate enforcement strictness the committed settings
// imply. Exposed for the panel's enforcement hint line.
func (c *Controller) Strictness() string {
	return string(phase.StrictnessFor(c.Local()))
}

// Warnings derives the non-blocking advisories for a settings copy. These
// never block saving; they flag risky but legal combinations.
func Warnings(s models.SpecDrivenSettings) []string {
	var out []string
	if s.BypassMode {
		out = append(out, "bypass mode disables gate enforcement entirely")
	}
	if s.MinTestCoverage < lowCoverageFloor {
		out = append(out, fmt.Sprintf("coverage below %d%% risks low-quality merges", lowCoverageFloor))
	}
	if s.AutoProgression && !s.GuardianEnabled {
		out = append(out, "auto-progression without the guardian may leave failures unchecked")
	}
	return out
}
