package phase

import (
	"reflect"
	"testing"

	"github.com/kivo360/omoictl/models"
)

func TestDeriveStates(t *testing.T) {
	tests := []struct {
		name    string
		current string
		status  models.SpecStatus
		want    []models.PhaseState
	}{
		{
			name:    "mid-pipeline in progress",
			current: "design",
			status:  models.SpecInProgress,
			want: []models.PhaseState{
				models.PhaseCompleted, models.PhaseCompleted, models.PhaseCompleted,
				models.PhaseCurrent, models.PhasePending, models.PhasePending,
			},
		},
		{
			name:    "first phase in progress",
			current: "explore",
			status:  models.SpecInProgress,
			want: []models.PhaseState{
				models.PhaseCurrent, models.PhasePending, models.PhasePending,
				models.PhasePending, models.PhasePending, models.PhasePending,
			},
		},
		{
			name:    "failure marks only the current phase",
			current: "tasks",
			status:  models.SpecFailed,
			want: []models.PhaseState{
				models.PhaseCompleted, models.PhaseCompleted, models.PhaseCompleted,
				models.PhaseCompleted, models.PhaseFailed, models.PhasePending,
			},
		},
		{
			name:    "completed spec marks every phase completed",
			current: "design",
			status:  models.SpecCompleted,
			want: []models.PhaseState{
				models.PhaseCompleted, models.PhaseCompleted, models.PhaseCompleted,
				models.PhaseCompleted, models.PhaseCompleted, models.PhaseCompleted,
			},
		},
		{
			name:    "completed spec ignores current phase position",
			current: "explore",
			status:  models.SpecCompleted,
			want: []models.PhaseState{
				models.PhaseCompleted, models.PhaseCompleted, models.PhaseCompleted,
				models.PhaseCompleted, models.PhaseCompleted, models.PhaseCompleted,
			},
		},
		{
			name:    "unknown current phase leaves everything pending",
			current: "review",
			status:  models.SpecInProgress,
			want: []models.PhaseState{
				models.PhasePending, models.PhasePending, models.PhasePending,
				models.PhasePending, models.PhasePending, models.PhasePending,
			},
		},
		{
			name:    "empty current phase leaves everything pending",
			current: "",
			status:  models.SpecInProgress,
			want: []models.PhaseState{
				models.PhasePending, models.PhasePending, models.PhasePending,
				models.PhasePending, models.PhasePending, models.PhasePending,
			},
		},
		{
			name:    "failed at an unknown phase fails nothing",
			current: "review",
			status:  models.SpecFailed,
			want: []models.PhaseState{
				models.PhasePending, models.PhasePending, models.PhasePending,
				models.PhasePending, models.PhasePending, models.PhasePending,
			},
		},
		{
			name:    "phase id lookup is case-insensitive",
			current: "Design",
			status:  models.SpecInProgress,
			want: []models.PhaseState{
				models.PhaseCompleted, models.PhaseCompleted, models.PhaseCompleted,
				models.PhaseCurrent, models.PhasePending, models.PhasePending,
			},
		},
		{
			name:    "terminal phase in progress",
			current: "sync",
			status:  models.SpecInProgress,
			want: []models.PhaseState{
				models.PhaseCompleted, models.PhaseCompleted, models.PhaseCompleted,
				models.PhaseCompleted, models.PhaseCompleted, models.PhaseCurrent,
			},
		},
	}

	phases := Sequence()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveOrdered(phases, tt.current, tt.status)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DeriveOrdered(%q, %q) = %v, want %v", tt.current, tt.status, got, tt.want)
			}
		})
	}
}

func TestDeriveStatesEmptyPhaseList(t *testing.T) {
	states := DeriveStates(nil, "design", models.SpecInProgress)
	if len(states) != 0 {
		t.Errorf("expected empty state map, got %v", states)
	}
}

func TestDeriveStatesIsPure(t *testing.T) {
	phases := Sequence()
	first := DeriveStates(phases, "tasks", models.SpecFailed)
	second := DeriveStates(phases, "tasks", models.SpecFailed)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated derivation differed: %v vs %v", first, second)
	}
}

func TestDeriveStatesCoversEveryPhase(t *testing.T) {
	phases := Sequence()
	states := DeriveStates(phases, "requirements", models.SpecInProgress)
	if len(states) != len(phases) {
		t.Fatalf("expected %d states, got %d", len(phases), len(states))
	}
	for _, p := range phases {
		if _, ok := states[p.ID]; !ok {
			t.Errorf("phase %q missing from derived states", p.ID)
		}
	}
}
