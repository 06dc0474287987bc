package vecino

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidVisitTransition = "INVALID_VISIT_STATE_TRANSITION"
	textCodeTerminalVisitState     = "TERMINAL_VISIT_STATE"
)

// ErrInvalidVisitTransition is returned when a requested status change is not allowed.
var ErrInvalidVisitTransition = goerrors.New("invalid visit state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidVisitTransition).
	WithCode(goerrors.CodeBadRequest)

// ErrTerminalVisitState is returned when attempting to move away from a finished visit.
var ErrTerminalVisitState = goerrors.New("visit state is terminal", goerrors.CategoryConflict).
	WithTextCode(textCodeTerminalVisitState).
	WithCode(goerrors.CodeConflict)

// visitTransitions is the closed lifecycle of a registration. Anything
// not listed here is rejected.
var visitTransitions = map[VisitStatus]map[VisitStatus]struct{}{
	VisitPending: {
		VisitActive:    {},
		VisitCancelled: {},
	},
	VisitActive: {
		VisitCompleted: {},
	},
}

// CanTransitionVisit reports whether a status change is allowed.
func CanTransitionVisit(from, to VisitStatus) bool {
	if allowed, ok := visitTransitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}

// ValidateVisitTransition returns a rich error describing why a status
// change is rejected, nil when it is allowed.
func ValidateVisitTransition(from, to VisitStatus) error {
	if from == to {
		return nil
	}

	if from == VisitCancelled || from == VisitCompleted {
		return ErrTerminalVisitState.WithMetadata(map[string]any{
			"from": from,
			"to":   to,
		})
	}

	if !CanTransitionVisit(from, to) {
		return ErrInvalidVisitTransition.WithMetadata(map[string]any{
			"from": from,
			"to":   to,
		})
	}

	return nil
}
