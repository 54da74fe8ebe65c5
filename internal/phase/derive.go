package phase

import "github.com/kivo360/omoictl/models"

// DeriveStates computes the display state for every phase in phases, given
// the spec's current phase and overall status. It is pure: identical inputs
// always produce identical output.
//
// Rules, in order of precedence per phase:
//   - status failed and this is the current phase -> failed
//   - status completed -> completed (all phases, regardless of position)
//   - before the current phase -> completed
//   - at the current phase -> current
//   - otherwise -> pending
//
// An unknown currentPhaseID leaves every phase pending; an empty phase list
// yields an empty map.
func DeriveStates(phases []Phase, currentPhaseID string, status models.SpecStatus) map[string]models.PhaseState {
	states := make(map[string]models.PhaseState, len(phases))
	currentIndex := IndexOf(phases, currentPhaseID)

	for i, p := range phases {
		switch {
		case status == models.SpecFailed && i == currentIndex:
			states[p.ID] = models.PhaseFailed
		case status == models.SpecCompleted:
			states[p.ID] = models.PhaseCompleted
		case currentIndex >= 0 && i < currentIndex:
			states[p.ID] = models.PhaseCompleted
		case i == currentIndex:
			states[p.ID] = models.PhaseCurrent
		default:
			states[p.ID] = models.PhasePending
		}
	}
	return states
}

// DeriveOrdered returns the states in sequence order, for renderers that
// walk the pipeline left to right.
func DeriveOrdered(phases []Phase, currentPhaseID string, status models.SpecStatus) []models.PhaseState {
	states := DeriveStates(phases, currentPhaseID, status)
	out := make([]models.PhaseState, len(phases))
	for i, p := range phases {
		out[i] = states[p.ID]
	}
	return out
}
