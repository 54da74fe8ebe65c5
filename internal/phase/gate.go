package phase

import (
	"fmt"

	"github.com/kivo360/omoictl/models"
)

// Strictness describes how the backend enforces phase gates for a project.
type Strictness string

const (
	// StrictnessBypass logs gate results but never blocks progression.
	StrictnessBypass Strictness = "bypass"
	// StrictnessLenient reports gate failures as warnings and allows
	// progression.
	StrictnessLenient Strictness = "lenient"
	// StrictnessStrict blocks progression on gate failure.
	StrictnessStrict Strictness = "strict"
)

// StrictnessFor maps settings to the enforcement strictness the backend will
// apply. Bypass mode wins over everything; a zero coverage threshold demotes
// enforcement to lenient.
func StrictnessFor(s models.SpecDrivenSettings) Strictness {
	if s.BypassMode {
		return StrictnessBypass
	}
	if s.MinTestCoverage == 0 {
		return StrictnessLenient
	}
	return StrictnessStrict
}

// GatePreview is a client-side estimate of how the implementation gate would
// treat a given coverage figure. It exists so the settings panel can show
// "what would happen" hints; the authoritative check runs server-side.
type GatePreview struct {
	Strictness      Strictness
	WouldPass       bool
	BlockingReasons []string
	Warnings        []string
}

// PreviewCoverageGate evaluates coveragePercent against the settings the way
// the backend's gate service would.
func PreviewCoverageGate(s models.SpecDrivenSettings, coveragePercent float64) GatePreview {
	preview := GatePreview{Strictness: StrictnessFor(s), WouldPass: true}

	if coveragePercent >= s.MinTestCoverage {
		return preview
	}

	reason := fmt.Sprintf("test coverage %.1f%% is below the required %.1f%%", coveragePercent, s.MinTestCoverage)
	switch preview.Strictness {
	case StrictnessBypass:
		preview.Warnings = append(preview.Warnings, reason+" (ignored: bypass mode)")
	case StrictnessLenient:
		preview.Warnings = append(preview.Warnings, reason)
	case StrictnessStrict:
		preview.WouldPass = false
		preview.BlockingReasons = append(preview.BlockingReasons, reason)
	}
	return preview
}
