package models

// SpecStatus represents the overall status of a spec as reported by the
// backend. The console never mutates it directly; it only reads it to derive
// per-phase display states.
type SpecStatus string

const (
	SpecInProgress SpecStatus = "in_progress"
	SpecCompleted  SpecStatus = "completed"
	SpecFailed     SpecStatus = "failed"
)

// PhaseState is the derived display state of a single phase. It is never
// persisted; it is recomputed from (current phase, spec status) on every
// render.
type PhaseState string

const (
	PhaseCompleted PhaseState = "completed"
	PhaseCurrent   PhaseState = "current"
	PhasePending   PhaseState = "pending"
	PhaseFailed    PhaseState = "failed"
)

// Spec is a summary of a spec-driven ticket as returned by the backend list
// and detail endpoints.
type Spec struct {
	ID             string     `json:"id" validate:"required"`
	Title          string     `json:"title"`
	ProjectID      string     `json:"project_id"`
	CurrentPhaseID string     `json:"current_phase_id"`
	Status         SpecStatus `json:"status" validate:"required,oneof=in_progress completed failed"`
}

// Valid reports whether s is one of the known spec statuses.
func (s SpecStatus) Valid() bool {
	switch s {
	case SpecInProgress, SpecCompleted, SpecFailed:
		return true
	}
	return false
}
