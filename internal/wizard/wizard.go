// Package wizard drives a multi-step form: it owns the draft store and the
// step cursor and runs the final submission.
package wizard

import (
	"github.com/meur/athletefolio/internal/draft"
	"github.com/meur/athletefolio/internal/schema"
	"github.com/meur/athletefolio/internal/validate"
)

// Wizard is one user's pass through the form. The cursor stays within
// 1..N; moving forward requires the steps being left to be valid.
type Wizard struct {
	schema  *schema.Schema
	store   *draft.Store
	current int
	errors  validate.Errors
}

// New starts a wizard on step 1 with an empty draft
func New(s *schema.Schema) *Wizard {
	return &Wizard{schema: s, store: draft.NewStore(s), current: 1}
}

// Edit starts a wizard pre-populated with an existing draft
func Edit(s *schema.Schema, d draft.Draft) *Wizard {
	w := New(s)
	w.store.Hydrate(d)
	return w
}

// Store returns the draft store for field edits
func (w *Wizard) Store() *draft.Store {
	return w.store
}

// Schema returns the wizard's schema
func (w *Wizard) Schema() *schema.Schema {
	return w.schema
}

// Current returns the step the user is on
func (w *Wizard) Current() int {
	return w.current
}

// IsLast reports whether the cursor is on the final step
func (w *Wizard) IsLast() bool {
	return w.current == w.schema.StepCount()
}

// Errors returns the messages from the last refused move
func (w *Wizard) Errors() validate.Errors {
	return w.errors
}

// Next moves forward one step if the current one is valid. It returns
// whether the cursor moved; refused moves leave their messages in Errors.
func (w *Wizard) Next() bool {
	return w.GoTo(w.current + 1)
}

// Back moves to the previous step. It never fails validation.
func (w *Wizard) Back() bool {
	return w.GoTo(w.current - 1)
}

// GoTo jumps to step. Backward jumps always succeed; forward jumps need
// every step from the current one up to step to be valid, otherwise the
// cursor stays put.
func (w *Wizard) GoTo(step int) bool {
	if step < 1 || step > w.schema.StepCount() {
		return false
	}
	if step <= w.current {
		w.current = step
		w.errors = nil
		return true
	}

	snap := w.store.Snapshot()
	for s := w.current; s < step; s++ {
		if errs := validate.Step(w.schema, snap, s); !errs.Valid() {
			w.errors = errs
			return false
		}
	}
	w.current = step
	w.errors = nil
	return true
}
