package domain

import "time"

// StateVersion is the schema version written into every persisted state.
// Snapshots with a higher version than this are rejected on load with a
// StateVersionError rather than parsed on a best-effort basis.
const StateVersion = 1

// ActionType enumerates the kinds of suggested actions the engine can emit.
// Execution is always delegated to an external collaborator.
type ActionType string

// Suggested action types.
const (
	ActionCreateDocument   ActionType = "create_document"
	ActionSendEmail        ActionType = "send_email"
	ActionSendSlackMessage ActionType = "send_slack_message"
	ActionScheduleMeeting  ActionType = "schedule_meeting"
	ActionUpdateEmployee   ActionType = "update_employee"
	ActionAnalyzeData      ActionType = "analyze_data"
	ActionExportToSheets   ActionType = "export_to_sheets"
)

// ActionStatus tracks a suggested action through its external lifecycle.
type ActionStatus string

// Suggested action statuses.
const (
	ActionPending   ActionStatus = "pending"
	ActionApproved  ActionStatus = "approved"
	ActionRejected  ActionStatus = "rejected"
	ActionCompleted ActionStatus = "completed"
	ActionFailed    ActionStatus = "failed"
)

// SuggestedAction is a descriptive payload proposing a follow-up operation.
// The engine never executes these itself.
type SuggestedAction struct {
	ID               string         `json:"id"`
	Type             ActionType     `json:"type"`
	Label            string         `json:"label"`
	Description      string         `json:"description,omitempty"`
	Payload          map[string]any `json:"payload,omitempty"`
	RequiresApproval bool           `json:"requires_approval"`
	Status           ActionStatus   `json:"status"`
}

// WorkflowState is the live progress of one conversation through a workflow.
// It is mutated only through validated state machine transitions; the machine
// returns updated copies rather than modifying in place.
type WorkflowState struct {
	Version        int               `json:"version"`
	WorkflowID     WorkflowID        `json:"workflow_id"`
	CurrentStep    string            `json:"current_step"`
	CompletedSteps []string          `json:"completed_steps"`
	CollectedData  map[string]any    `json:"collected_data"`
	PendingActions []SuggestedAction `json:"pending_actions,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Active reports whether the state refers to a real (non-fallback) workflow.
func (s *WorkflowState) Active() bool {
	return s != nil && s.WorkflowID != "" && !s.WorkflowID.IsGeneral()
}

// HasData reports whether a collected field is present.
func (s *WorkflowState) HasData(field string) bool {
	_, ok := s.CollectedData[field]
	return ok
}

// Completed reports whether the step is already in CompletedSteps.
func (s *WorkflowState) Completed(stepID string) bool {
	for _, id := range s.CompletedSteps {
		if id == stepID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Transitions operate on copies so a failed
// validation leaves the caller's state untouched.
func (s *WorkflowState) Clone() *WorkflowState {
	if s == nil {
		return nil
	}
	out := *s
	out.CompletedSteps = append([]string(nil), s.CompletedSteps...)
	out.CollectedData = make(map[string]any, len(s.CollectedData))
	for k, v := range s.CollectedData {
		out.CollectedData[k] = v
	}
	out.PendingActions = append([]SuggestedAction(nil), s.PendingActions...)
	return &out
}

// StateSnapshot is one immutable record of workflow state, appended on every
// transition. ID is the insert-ordered database identifier; GUID is the
// stable external identifier.
type StateSnapshot struct {
	ID             int64          `json:"id"`
	GUID           string         `json:"guid"`
	ConversationID string         `json:"conversation_id"`
	WorkflowID     WorkflowID     `json:"workflow_id"`
	Step           string         `json:"step"`
	State          *WorkflowState `json:"state"`
	CreatedAt      time.Time      `json:"created_at"`
}
