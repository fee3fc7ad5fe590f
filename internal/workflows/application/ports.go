// Package application declares the ports between the workflow engine and its
// external collaborators. The engine consumes these as interfaces only;
// concrete implementations live in infrastructure packages or outside this
// module entirely.
package application

import (
	"context"

	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

// SnapshotFilter narrows a snapshot history query.
type SnapshotFilter struct {
	WorkflowID domain.WorkflowID // empty matches all workflows
	Limit      int               // 0 means no limit
}

// StateRepository persists per-conversation workflow state. Implementations
// must append an immutable snapshot on every SaveTransition before (or
// atomically with) updating the current state, and must keep snapshots for a
// conversation strictly ordered by creation.
type StateRepository interface {
	// LoadCurrent reconstructs the live state for a conversation. Returns a
	// domain.NoActiveWorkflowError when no workflow is active.
	LoadCurrent(ctx context.Context, conversationID string) (*domain.WorkflowState, error)

	// SaveTransition appends a snapshot and swaps the current state pointer
	// in one atomic step, returning the appended snapshot.
	SaveTransition(ctx context.Context, conversationID string, state *domain.WorkflowState) (*domain.StateSnapshot, error)

	// Snapshots returns the conversation's snapshot history in append order.
	Snapshots(ctx context.Context, conversationID string, filter SnapshotFilter) ([]domain.StateSnapshot, error)

	// Reset discards the live state. Snapshot history is retained.
	Reset(ctx context.Context, conversationID string) error
}

// GenerateOptions tunes a text completion request.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

// TextCompleter generates a response for a prompt. The engine never calls
// this itself; it exists so callers can wire a provider next to the
// orchestrator without this module depending on one.
type TextCompleter interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// ActionResult reports the outcome of executing a suggested action.
type ActionResult struct {
	ActionID string
	Status   domain.ActionStatus
	Detail   string
}

// ActionExecutor performs a suggested action (create a document, send a
// message, schedule a meeting). Execution is always external to the engine.
type ActionExecutor interface {
	Execute(ctx context.Context, action domain.SuggestedAction) (ActionResult, error)
}
