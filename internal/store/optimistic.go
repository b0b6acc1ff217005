package store

// ToggleState tracks one optimistic field mutation through its lifecycle.
// The old dashboard copied the previous object by hand and restored it in
// the failure branch; this makes the applied -> confirmed | reverted
// transitions explicit.
type ToggleState int

const (
	ToggleApplied ToggleState = iota
	ToggleConfirmed
	ToggleReverted
)

// Toggle is one optimistic scalar mutation. Begin applies the new value
// immediately; Confirm keeps it after the backend accepted the patch, and
// Revert restores the previous value after a failure.
type Toggle[V any] struct {
	prev  V
	next  V
	state ToggleState
}

// BeginToggle records the transition from current to next and counts as
// applied. The caller is responsible for writing next into its store.
func BeginToggle[V any](current, next V) *Toggle[V] {
	return &Toggle[V]{prev: current, next: next, state: ToggleApplied}
}

// Confirm marks the applied value as accepted by the backend.
func (t *Toggle[V]) Confirm() {
	if t.state == ToggleApplied {
		t.state = ToggleConfirmed
	}
}

// Revert rolls the toggle back. The caller must write Value back into its
// store afterwards.
func (t *Toggle[V]) Revert() {
	if t.state == ToggleApplied {
		t.state = ToggleReverted
	}
}

// Value returns what the store should currently hold: the new value while
// applied or confirmed, the previous one after a revert.
func (t *Toggle[V]) Value() V {
	if t.state == ToggleReverted {
		return t.prev
	}
	return t.next
}

// State returns the toggle's lifecycle state.
func (t *Toggle[V]) State() ToggleState {
	return t.state
}
