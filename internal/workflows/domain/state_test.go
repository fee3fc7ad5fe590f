package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowState_Clone(t *testing.T) {
	now := time.Now().UTC()
	original := &WorkflowState{
		Version:        StateVersion,
		WorkflowID:     WorkflowHiring,
		CurrentStep:    "draft_documents",
		CompletedSteps: []string{"gather_requirements"},
		CollectedData:  map[string]any{"roleTitle": "Engineer"},
		PendingActions: []SuggestedAction{{ID: "a1", Type: ActionCreateDocument, Status: ActionPending}},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	// Mutating the clone never touches the original.
	clone.CompletedSteps = append(clone.CompletedSteps, "draft_documents")
	clone.CollectedData["feedback"] = "tighten"
	clone.PendingActions[0].Status = ActionApproved

	assert.Equal(t, []string{"gather_requirements"}, original.CompletedSteps)
	assert.NotContains(t, original.CollectedData, "feedback")
	assert.Equal(t, ActionPending, original.PendingActions[0].Status)

	var nilState *WorkflowState
	assert.Nil(t, nilState.Clone())
}

func TestWorkflowState_Queries(t *testing.T) {
	state := &WorkflowState{
		WorkflowID:     WorkflowHiring,
		CompletedSteps: []string{"gather_requirements"},
		CollectedData:  map[string]any{"roleTitle": "Engineer"},
	}

	assert.True(t, state.Active())
	assert.True(t, state.HasData("roleTitle"))
	assert.False(t, state.HasData("team"))
	assert.True(t, state.Completed("gather_requirements"))
	assert.False(t, state.Completed("draft_documents"))

	general := &WorkflowState{WorkflowID: WorkflowGeneral}
	assert.False(t, general.Active())

	var nilState *WorkflowState
	assert.False(t, nilState.Active())
}
