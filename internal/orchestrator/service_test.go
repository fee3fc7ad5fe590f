package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peoplekit/peoplekit/internal/workflows/application"
	"github.com/peoplekit/peoplekit/internal/workflows/domain"
	"github.com/peoplekit/peoplekit/internal/workflows/registry"
)

// memoryRepo is an in-memory StateRepository for orchestrator tests.
type memoryRepo struct {
	current   map[string]*domain.WorkflowState
	snapshots map[string][]domain.StateSnapshot
	nextID    int64
}

var _ application.StateRepository = (*memoryRepo)(nil)

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		current:   map[string]*domain.WorkflowState{},
		snapshots: map[string][]domain.StateSnapshot{},
	}
}

func (r *memoryRepo) LoadCurrent(_ context.Context, conversationID string) (*domain.WorkflowState, error) {
	state, ok := r.current[conversationID]
	if !ok {
		return nil, &domain.NoActiveWorkflowError{ConversationID: conversationID}
	}
	return state.Clone(), nil
}

func (r *memoryRepo) SaveTransition(_ context.Context, conversationID string, state *domain.WorkflowState) (*domain.StateSnapshot, error) {
	r.nextID++
	snapshot := domain.StateSnapshot{
		ID:             r.nextID,
		GUID:           uuid.NewString(),
		ConversationID: conversationID,
		WorkflowID:     state.WorkflowID,
		Step:           state.CurrentStep,
		State:          state.Clone(),
		CreatedAt:      time.Now().UTC(),
	}
	r.snapshots[conversationID] = append(r.snapshots[conversationID], snapshot)
	r.current[conversationID] = state.Clone()
	return &snapshot, nil
}

func (r *memoryRepo) Snapshots(_ context.Context, conversationID string, filter application.SnapshotFilter) ([]domain.StateSnapshot, error) {
	var out []domain.StateSnapshot
	for _, snapshot := range r.snapshots[conversationID] {
		if filter.WorkflowID != "" && snapshot.WorkflowID != filter.WorkflowID {
			continue
		}
		out = append(out, snapshot)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *memoryRepo) Reset(_ context.Context, conversationID string) error {
	if _, ok := r.current[conversationID]; !ok {
		return &domain.NoActiveWorkflowError{ConversationID: conversationID}
	}
	delete(r.current, conversationID)
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	reg, err := registry.NewBuiltin()
	require.NoError(t, err)
	repo := newMemoryRepo()
	return NewService(reg, repo, Policy{}), repo
}

func TestService_HandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("confident match activates a workflow", func(t *testing.T) {
		svc, repo := newTestService(t)

		outcome, err := svc.HandleMessage(ctx, "conv-1", "Write a job description for a senior engineer", nil)
		require.NoError(t, err)

		assert.Equal(t, domain.WorkflowHiring, outcome.Match.WorkflowID)
		assert.GreaterOrEqual(t, outcome.Match.Confidence, 75)
		assert.True(t, outcome.Activated)
		require.NotNil(t, outcome.State)
		assert.Equal(t, "gather_requirements", outcome.State.CurrentStep)
		assert.Equal(t, []string{"roleTitle"}, outcome.MissingData)
		assert.Len(t, repo.snapshots["conv-1"], 1)
	})

	t.Run("general chat stays stateless", func(t *testing.T) {
		svc, repo := newTestService(t)

		outcome, err := svc.HandleMessage(ctx, "conv-2", "hello there", nil)
		require.NoError(t, err)

		assert.Equal(t, domain.WorkflowGeneral, outcome.Match.WorkflowID)
		assert.Zero(t, outcome.Match.Confidence)
		assert.False(t, outcome.Activated)
		assert.Nil(t, outcome.State)
		assert.Empty(t, repo.snapshots["conv-2"])
	})

	t.Run("below-threshold match stays stateless on an early message", func(t *testing.T) {
		svc, _ := newTestService(t)

		outcome, err := svc.HandleMessage(ctx, "conv-3", "we might recruit soon", nil)
		require.NoError(t, err)

		assert.Equal(t, domain.WorkflowHiring, outcome.Match.WorkflowID)
		assert.Less(t, outcome.Match.Confidence, 75)
		assert.False(t, outcome.Activated)
		assert.Nil(t, outcome.State)
	})

	t.Run("long stateless conversation upgrades on a weak match", func(t *testing.T) {
		svc, _ := newTestService(t)

		history := make([]domain.ConversationMessage, 0, 8)
		for range 4 {
			history = append(history,
				domain.ConversationMessage{Role: "user", Content: "some earlier question"},
				domain.ConversationMessage{Role: "assistant", Content: "some earlier answer"},
			)
		}

		outcome, err := svc.HandleMessage(ctx, "conv-4", "we might recruit soon", history)
		require.NoError(t, err)

		assert.True(t, outcome.Activated)
		require.NotNil(t, outcome.State)
		assert.Equal(t, domain.WorkflowHiring, outcome.State.WorkflowID)
	})

	t.Run("document request routes and activates the owning workflow", func(t *testing.T) {
		svc, _ := newTestService(t)

		outcome, err := svc.HandleMessage(ctx, "conv-5", "Draft a PIP for John Smith", nil)
		require.NoError(t, err)

		require.NotNil(t, outcome.DocumentRoute)
		assert.Equal(t, domain.WorkflowPerformance, outcome.DocumentRoute.WorkflowID)
		assert.Equal(t, "pip", outcome.DocumentRoute.DocumentType)
		assert.True(t, outcome.Activated)
		require.NotNil(t, outcome.State)
		assert.Equal(t, domain.WorkflowPerformance, outcome.State.WorkflowID)
	})

	t.Run("confident unrelated match switches the active workflow", func(t *testing.T) {
		svc, repo := newTestService(t)

		_, err := svc.HandleMessage(ctx, "conv-switch", "Write a job description for a senior engineer", nil)
		require.NoError(t, err)

		outcome, err := svc.HandleMessage(ctx, "conv-switch", "show me attrition trends by department", nil)
		require.NoError(t, err)

		assert.Equal(t, domain.WorkflowAnalytics, outcome.Match.WorkflowID)
		assert.True(t, outcome.Activated)
		require.NotNil(t, outcome.State)
		assert.Equal(t, domain.WorkflowAnalytics, outcome.State.WorkflowID)
		assert.Equal(t, "understand_question", outcome.State.CurrentStep)

		// The abandoned hiring state stays in history.
		assert.Equal(t, domain.WorkflowAnalytics, repo.current["conv-switch"].WorkflowID)
		require.Len(t, repo.snapshots["conv-switch"], 2)
		assert.Equal(t, domain.WorkflowHiring, repo.snapshots["conv-switch"][0].WorkflowID)
		assert.Equal(t, domain.WorkflowAnalytics, repo.snapshots["conv-switch"][1].WorkflowID)
	})

	t.Run("weak unrelated match does not switch", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.HandleMessage(ctx, "conv-sticky", "Write a job description for a senior engineer", nil)
		require.NoError(t, err)

		// "feedback" alone scores performance below the activation threshold.
		outcome, err := svc.HandleMessage(ctx, "conv-sticky", "feedback", nil)
		require.NoError(t, err)

		assert.Less(t, outcome.Match.Confidence, 75)
		assert.False(t, outcome.Activated)
		require.NotNil(t, outcome.State)
		assert.Equal(t, domain.WorkflowHiring, outcome.State.WorkflowID)
	})

	t.Run("active workflow carries conversation continuity", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.HandleMessage(ctx, "conv-6", "Write a job description for a senior engineer", nil)
		require.NoError(t, err)

		outcome, err := svc.HandleMessage(ctx, "conv-6", "we might recruit soon", nil)
		require.NoError(t, err)

		assert.Equal(t, domain.WorkflowHiring, outcome.Match.WorkflowID)
		assert.Contains(t, outcome.Match.ContextFactors, "conversation_continuity")
		assert.False(t, outcome.Activated, "already active workflows are not re-activated")
	})
}

func TestService_SupplyDataAndAdvance(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	_, err := svc.HandleMessage(ctx, "conv-flow", "Write a job description for a senior engineer", nil)
	require.NoError(t, err)

	t.Run("advance without required data fails and state is unchanged", func(t *testing.T) {
		_, _, err := svc.Advance(ctx, "conv-flow")
		var validation *domain.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, domain.CodeMissingRequiredField, validation.Code)
		assert.Equal(t, "roleTitle", validation.Field)

		status, err := svc.CurrentStatus(ctx, "conv-flow")
		require.NoError(t, err)
		assert.Equal(t, "gather_requirements", status.State.CurrentStep)
	})

	t.Run("supply then advance moves to the next step", func(t *testing.T) {
		state, err := svc.SupplyData(ctx, "conv-flow", map[string]any{"roleTitle": "Senior Engineer"})
		require.NoError(t, err)
		assert.Equal(t, "Senior Engineer", state.CollectedData["roleTitle"])

		next, actions, err := svc.Advance(ctx, "conv-flow")
		require.NoError(t, err)
		assert.Equal(t, "draft_documents", next.CurrentStep)
		assert.Equal(t, []string{"gather_requirements"}, next.CompletedSteps)
		require.NotEmpty(t, actions)
		for _, action := range actions {
			assert.Equal(t, domain.ActionPending, action.Status)
			assert.NotEmpty(t, action.ID)
		}
	})

	t.Run("every transition was persisted", func(t *testing.T) {
		snapshots, err := svc.Snapshots(ctx, "conv-flow", application.SnapshotFilter{})
		require.NoError(t, err)
		// activation, supply, advance
		assert.Len(t, snapshots, 3)
		assert.Len(t, repo.snapshots["conv-flow"], 3)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		_, err := svc.SupplyData(ctx, "conv-flow", map[string]any{"favoriteColor": "blue"})
		var validation *domain.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, domain.CodeUnknownField, validation.Code)
	})
}

func TestService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.HandleMessage(ctx, "conv-reset", "Write a job description for a senior engineer", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, "conv-reset"))

	_, err = svc.CurrentStatus(ctx, "conv-reset")
	var notFound *domain.NoActiveWorkflowError
	require.ErrorAs(t, err, &notFound)

	// History survives the reset.
	snapshots, err := svc.Snapshots(ctx, "conv-reset", application.SnapshotFilter{})
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}

func TestService_Classify(t *testing.T) {
	svc, _ := newTestService(t)

	match := svc.Classify(context.Background(), domain.DetectionContext{
		Message: "Write a job description for a senior engineer",
	})
	assert.Equal(t, domain.WorkflowHiring, match.WorkflowID)
	assert.Equal(t, 100, match.Confidence)
}
