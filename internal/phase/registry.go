// Package phase holds the spec-driven phase pipeline: the ordered phase
// registry, the pure display-state deriver, and the client-side gate
// strictness preview. Enforcement itself lives in the backend; everything
// here only mirrors it for display.
package phase

import "strings"

// Phase is one stage of the spec-to-execution pipeline. The set of phases is
// fixed at build time; order is given by position in Sequence.
type Phase struct {
	ID          string
	Label       string
	Description string
	// AllowedTransitions lists the phase IDs a spec may advance to from
	// this phase. Terminal phases have none.
	AllowedTransitions []string
	Terminal           bool
	Skippable          bool
}

// sequence is the single source of truth for phase order.
var sequence = []Phase{
	{
		ID:                 "explore",
		Label:              "Explore",
		Description:        "Initial exploration of the problem space",
		AllowedTransitions: []string{"prd", "requirements"},
		Skippable:          true,
	},
	{
		ID:                 "prd",
		Label:              "PRD",
		Description:        "Product requirements document drafting",
		AllowedTransitions: []string{"requirements"},
		Skippable:          true,
	},
	{
		ID:                 "requirements",
		Label:              "Requirements",
		Description:        "Analyzing and documenting requirements",
		AllowedTransitions: []string{"design"},
	},
	{
		ID:                 "design",
		Label:              "Design",
		Description:        "Creating technical design and architecture",
		AllowedTransitions: []string{"tasks"},
	},
	{
		ID:                 "tasks",
		Label:              "Tasks",
		Description:        "Breaking design into executable tasks",
		AllowedTransitions: []string{"sync"},
	},
	{
		ID:          "sync",
		Label:       "Sync",
		Description: "Syncing tasks to execution sandboxes",
		Terminal:    true,
	},
}

// Sequence returns the ordered phase list. The returned slice is a copy;
// callers may not mutate the registry.
func Sequence() []Phase {
	out := make([]Phase, len(sequence))
	copy(out, sequence)
	return out
}

// IndexOf returns the position of id in the sequence, or -1 if the id is
// unknown. Lookup is case-insensitive.
func IndexOf(phases []Phase, id string) int {
	for i, p := range phases {
		if strings.EqualFold(p.ID, id) {
			return i
		}
	}
	return -1
}

// Lookup returns the phase with the given id from the fixed sequence.
func Lookup(id string) (Phase, bool) {
	i := IndexOf(sequence, id)
	if i < 0 {
		return Phase{}, false
	}
	return sequence[i], true
}

// CanTransition reports whether a spec in phase from may advance to phase to.
func CanTransition(from, to string) bool {
	p, ok := Lookup(from)
	if !ok {
		return false
	}
	for _, next := range p.AllowedTransitions {
		if strings.EqualFold(next, to) {
			return true
		}
	}
	return false
}
