package httpapi

import (
	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

// APIError is the standard error payload for all endpoints.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// ClassifyRequest asks for a stateless intent classification.
type ClassifyRequest struct {
	Message             string                       `json:"message"`
	ConversationHistory []domain.ConversationMessage `json:"conversation_history,omitempty"`
	CurrentWorkflow     domain.WorkflowID            `json:"current_workflow,omitempty"`
}

// ClassifyResponse carries the classifier's verdict.
type ClassifyResponse struct {
	Match domain.WorkflowMatch `json:"match"`
}

// RouteDocumentRequest asks which workflow owns a requested document.
type RouteDocumentRequest struct {
	Message string `json:"message"`
}

// RouteDocumentResponse reports the routing result. Matched is false when the
// message names no known document type; Route is omitted in that case.
type RouteDocumentResponse struct {
	Matched bool                  `json:"matched"`
	Route   *domain.DocumentRoute `json:"route,omitempty"`
}

// MessageRequest submits one user message to a conversation.
type MessageRequest struct {
	Message             string                       `json:"message"`
	ConversationHistory []domain.ConversationMessage `json:"conversation_history,omitempty"`
}

// SupplyDataRequest merges collected fields into the active workflow.
type SupplyDataRequest struct {
	Fields map[string]any `json:"fields"`
}

// StateResponse carries a workflow state after a transition.
type StateResponse struct {
	State *domain.WorkflowState `json:"state"`
}

// AdvanceResponse carries the state and the suggested actions for the step
// entered.
type AdvanceResponse struct {
	State   *domain.WorkflowState    `json:"state"`
	Actions []domain.SuggestedAction `json:"actions,omitempty"`
}

// SnapshotsResponse carries a conversation's transition history.
type SnapshotsResponse struct {
	Snapshots []domain.StateSnapshot `json:"snapshots"`
}
