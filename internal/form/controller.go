// Package form implements the dirty-tracked edit lifecycle shared by the
// settings and resource-allocation panels: a server copy synced on load, a
// local editable copy, field-level validation errors that block saving, and
// non-blocking warnings.
//
// The lifecycle is clean -> dirty -> saving -> clean (or error). There is no
// automatic retry; a failed save keeps local edits intact so the user can
// retry explicitly. Saves are tagged with a generation counter so a response
// that arrives after the panel moved on (reset, reload, another save) is
// dropped instead of clobbering state.
package form

import "sort"

// State is the coarse lifecycle state of a controller.
type State string

const (
	StateClean  State = "clean"
	StateDirty  State = "dirty"
	StateSaving State = "saving"
	StateError  State = "error"
)

// Controller tracks a local editable copy of T against the last-synced
// server copy. T must be comparable so dirtiness is structural equality.
//
// Field validation is owned by the caller: invalid input is never committed
// via Apply, it is recorded with SetFieldError instead. Warnings are
// recomputed from the committed copy on every change.
type Controller[T comparable] struct {
	server T
	local  T
	loaded bool

	saving  bool
	saveGen int
	saveErr error

	fieldErrors map[string]string
	warnings    []string

	// warn derives non-blocking advisories from a committed copy. May be
	// nil.
	warn func(T) []string
}

// New returns a controller with an optional warning deriver.
func New[T comparable](warn func(T) []string) *Controller[T] {
	return &Controller[T]{
		fieldErrors: make(map[string]string),
		warn:        warn,
	}
}

// Load installs a freshly fetched server copy. It clears dirtiness, field
// errors, and any previous save error, and invalidates in-flight saves.
func (c *Controller[T]) Load(server T) {
	c.server = server
	c.local = server
	c.loaded = true
	c.saving = false
	c.saveGen++
	c.saveErr = nil
	c.fieldErrors = make(map[string]string)
	c.refreshWarnings()
}

// Loaded reports whether a server copy has been installed.
func (c *Controller[T]) Loaded() bool { return c.loaded }

// Apply commits a new local copy. Callers validate before committing; a
// value that reaches Apply is by definition valid for its field, so the
// field's error (if any) is cleared by the caller via ClearFieldError.
func (c *Controller[T]) Apply(next T) {
	c.local = next
	c.refreshWarnings()
}

// Local returns the committed editable copy.
func (c *Controller[T]) Local() T { return c.local }

// Server returns the last-synced server copy.
func (c *Controller[T]) Server() T { return c.server }

// SetFieldError records a validation error for a field. The offending value
// is not committed; Local() still holds the last valid value.
func (c *Controller[T]) SetFieldError(field, msg string) {
	c.fieldErrors[field] = msg
}

// ClearFieldError removes a field's validation error.
func (c *Controller[T]) ClearFieldError(field string) {
	delete(c.fieldErrors, field)
}

// FieldError returns the validation error for a field, if any.
func (c *Controller[T]) FieldError(field string) (string, bool) {
	msg, ok := c.fieldErrors[field]
	return msg, ok
}

// ErrorFields returns the fields that currently have validation errors, in
// stable order.
func (c *Controller[T]) ErrorFields() []string {
	fields := make([]string, 0, len(c.fieldErrors))
	for f := range c.fieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Warnings returns the current non-blocking advisories.
func (c *Controller[T]) Warnings() []string { return c.warnings }

// IsDirty reports whether the local copy differs from the server copy.
func (c *Controller[T]) IsDirty() bool {
	return c.loaded && c.local != c.server
}

// CanSave reports whether a save may be started: there must be changes, no
// validation errors, and no save already in flight.
func (c *Controller[T]) CanSave() bool {
	return c.IsDirty() && len(c.fieldErrors) == 0 && !c.saving
}

// BeginSave marks a save as in flight and returns its generation token. The
// token must be passed back to SaveSucceeded or SaveFailed; a token from a
// superseded save is ignored there. Returns ok=false when CanSave is false.
func (c *Controller[T]) BeginSave() (gen int, ok bool) {
	if !c.CanSave() {
		return 0, false
	}
	c.saving = true
	c.saveErr = nil
	c.saveGen++
	return c.saveGen, true
}

// SaveSucceeded completes the save identified by gen, installing the copy
// the backend returned as both server and local state. It reports whether
// the result was applied; a stale generation is dropped.
func (c *Controller[T]) SaveSucceeded(gen int, server T) bool {
	if gen != c.saveGen || !c.saving {
		return false
	}
	c.saving = false
	c.saveErr = nil
	c.server = server
	c.local = server
	c.refreshWarnings()
	return true
}

// SaveFailed records a failed save. Local edits are left untouched so the
// user can retry without re-entering data. It reports whether the failure
// was applied; a stale generation is dropped.
func (c *Controller[T]) SaveFailed(gen int, err error) bool {
	if gen != c.saveGen || !c.saving {
		return false
	}
	c.saving = false
	c.saveErr = err
	return true
}

// Saving reports whether a save is in flight.
func (c *Controller[T]) Saving() bool { return c.saving }

// SaveErr returns the error from the most recent failed save, if any.
func (c *Controller[T]) SaveErr() error { return c.saveErr }

// Reset discards local edits and field errors, reverting to the server copy.
// An in-flight save is invalidated; its response will be dropped.
func (c *Controller[T]) Reset() {
	c.local = c.server
	c.saving = false
	c.saveGen++
	c.saveErr = nil
	c.fieldErrors = make(map[string]string)
	c.refreshWarnings()
}

// State returns the coarse lifecycle state.
func (c *Controller[T]) State() State {
	switch {
	case c.saving:
		return StateSaving
	case c.saveErr != nil:
		return StateError
	case c.IsDirty():
		return StateDirty
	default:
		return StateClean
	}
}

func (c *Controller[T]) refreshWarnings() {
	if c.warn == nil {
		c.warnings = nil
		return
	}
	c.warnings = c.warn(c.local)
}
