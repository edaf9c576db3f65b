// Package fsm provides the transition-table primitive shared by the wizard's
// stage and substep machines. A Table maps each state to the events legal
// from it and the state each event produces; guards and field validation are
// composed by the machines themselves before a transition is applied.
package fsm

import "errors"

var ErrIllegalTransition = errors.New("illegal transition")

// Table maps (state, event) pairs to target states.
type Table[S, E comparable] map[S]map[E]S

// Can reports whether event is legal from the given state.
func (t Table[S, E]) Can(from S, event E) bool {
	_, ok := t[from][event]
	return ok
}

// Next returns the state produced by firing event from the given state.
func (t Table[S, E]) Next(from S, event E) (S, bool) {
	to, ok := t[from][event]
	return to, ok
}

// Fire returns the target state or ErrIllegalTransition.
func (t Table[S, E]) Fire(from S, event E) (S, error) {
	to, ok := t[from][event]
	if !ok {
		var zero S
		return zero, ErrIllegalTransition
	}
	return to, nil
}
