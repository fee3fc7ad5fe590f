package domain

import "fmt"

// Validation error codes returned by state machine operations.
const (
	CodeMissingRequiredField = "missing_required_field"
	CodeUnknownField         = "unknown_field"
	CodeInvalidTransition    = "invalid_transition"
	CodeWorkflowComplete     = "workflow_complete"
)

// ValidationError is a recoverable failure from SupplyData or Advance. It is
// returned as a value, never panicked, so callers can surface a "please
// provide X" message and retry.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %q)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WorkflowNotFoundError indicates a WorkflowID that resolves to no defined
// workflow in the registry.
type WorkflowNotFoundError struct {
	ID WorkflowID
}

// Error implements the error interface.
func (e *WorkflowNotFoundError) Error() string {
	return fmt.Sprintf("workflow not found: %q", e.ID)
}

// StepNotFoundError indicates a step ID that the workflow's definition does
// not contain. Seeing this after startup validation means the stored state
// predates a rule-table change.
type StepNotFoundError struct {
	WorkflowID WorkflowID
	StepID     string
}

// Error implements the error interface.
func (e *StepNotFoundError) Error() string {
	return fmt.Sprintf("step %q not found in workflow %q", e.StepID, e.WorkflowID)
}

// NoActiveWorkflowError indicates the conversation has no live workflow state.
type NoActiveWorkflowError struct {
	ConversationID string
}

// Error implements the error interface.
func (e *NoActiveWorkflowError) Error() string {
	return fmt.Sprintf("no active workflow for conversation %q", e.ConversationID)
}

// StateVersionError indicates a persisted state with a schema version newer
// than this build understands.
type StateVersionError struct {
	Version int
}

// Error implements the error interface.
func (e *StateVersionError) Error() string {
	return fmt.Sprintf("unsupported state schema version %d (max %d)", e.Version, StateVersion)
}
