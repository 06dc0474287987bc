package vecino_test

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vecino "github.com/vecino-labs/vecino"
)

func TestCanTransitionVisit(t *testing.T) {
	tests := []struct {
		from    vecino.VisitStatus
		to      vecino.VisitStatus
		allowed bool
	}{
		{vecino.VisitPending, vecino.VisitActive, true},
		{vecino.VisitPending, vecino.VisitCancelled, true},
		{vecino.VisitActive, vecino.VisitCompleted, true},
		{vecino.VisitPending, vecino.VisitCompleted, false},
		{vecino.VisitActive, vecino.VisitCancelled, false},
		{vecino.VisitCancelled, vecino.VisitActive, false},
		{vecino.VisitCompleted, vecino.VisitPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, vecino.CanTransitionVisit(tt.from, tt.to))
		})
	}
}

func TestValidateVisitTransition_SameStateIsNoop(t *testing.T) {
	assert.NoError(t, vecino.ValidateVisitTransition(vecino.VisitPending, vecino.VisitPending))
	assert.NoError(t, vecino.ValidateVisitTransition(vecino.VisitCancelled, vecino.VisitCancelled))
}

func TestValidateVisitTransition_TerminalStates(t *testing.T) {
	err := vecino.ValidateVisitTransition(vecino.VisitCancelled, vecino.VisitActive)
	require.Error(t, err)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, goerrors.CategoryConflict, richErr.Category)

	err = vecino.ValidateVisitTransition(vecino.VisitCompleted, vecino.VisitActive)
	require.Error(t, err)
}

func TestValidateVisitTransition_InvalidHop(t *testing.T) {
	err := vecino.ValidateVisitTransition(vecino.VisitPending, vecino.VisitCompleted)
	require.Error(t, err)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, goerrors.CategoryValidation, richErr.Category)
}
