package models

// SpecDrivenSettings controls how the backend enforces quality gates for a
// project's spec-driven workflow. The console holds a local editable copy
// that is synced from the backend on load and written back on save.
//
// This is the schema the gate enforcement path actually consumes. Earlier
// drafts used an execution_mode/validation_mode shape; those are superseded.
type SpecDrivenSettings struct {
	// BypassMode disables gate enforcement entirely. Gates are still
	// evaluated and logged server-side, but never block progression.
	BypassMode bool `json:"bypass_mode"`

	// MinTestCoverage is the coverage percentage required to pass the
	// implementation gate. Zero means coverage is advisory only.
	MinTestCoverage float64 `json:"min_test_coverage" validate:"gte=0,lte=100"`

	// AutoProgression advances specs through phases without waiting for
	// manual approval at each gate.
	AutoProgression bool `json:"auto_progression"`

	// GuardianEnabled turns on the guardian service's automatic steering
	// of stuck or failing agents.
	GuardianEnabled bool `json:"guardian_enabled"`
}

// DefaultSpecDrivenSettings mirrors the backend defaults used when a project
// has no stored settings.
func DefaultSpecDrivenSettings() SpecDrivenSettings {
	return SpecDrivenSettings{
		BypassMode:      false,
		MinTestCoverage: 80,
		AutoProgression: true,
		GuardianEnabled: true,
	}
}

// SpecDrivenSettingsPatch is a partial update. Nil fields are left unchanged
// by the backend.
type SpecDrivenSettingsPatch struct {
	BypassMode      *bool    `json:"bypass_mode,omitempty"`
	MinTestCoverage *float64 `json:"min_test_coverage,omitempty"`
	AutoProgression *bool    `json:"auto_progression,omitempty"`
	GuardianEnabled *bool    `json:"guardian_enabled,omitempty"`
}

// IsZero reports whether the patch carries no changes.
func (p SpecDrivenSettingsPatch) IsZero() bool {
	return p.BypassMode == nil && p.MinTestCoverage == nil &&
		p.AutoProgression == nil && p.GuardianEnabled == nil
}

// Diff returns a patch containing only the fields where next differs from
// prev. An empty patch means the two are equal.
func (s SpecDrivenSettings) Diff(next SpecDrivenSettings) SpecDrivenSettingsPatch {
	var p SpecDrivenSettingsPatch
	if s.BypassMode != next.BypassMode {
		v := next.BypassMode
		p.BypassMode = &v
	}
	if s.MinTestCoverage != next.MinTestCoverage {
		v := next.MinTestCoverage
		p.MinTestCoverage = &v
	}
	if s.AutoProgression != next.AutoProgression {
		v := next.AutoProgression
		p.AutoProgression = &v
	}
	if s.GuardianEnabled != next.GuardianEnabled {
		v := next.GuardianEnabled
		p.GuardianEnabled = &v
	}
	return p
}
