package domain

// ConversationMessage is one prior turn of the conversation, provided as
// classification context.
type ConversationMessage struct {
	Role       string     `json:"role"` // "user" or "assistant"
	Content    string     `json:"content"`
	WorkflowID WorkflowID `json:"workflow_id,omitempty"`
}

// DetectionContext carries everything the classifier may consider for one
// inbound message. CurrentWorkflow is empty when no workflow is active.
type DetectionContext struct {
	Message             string
	ConversationHistory []ConversationMessage
	CurrentWorkflow     WorkflowID
}

// WorkflowMatch is the classifier's verdict for one message: the best-scoring
// workflow, a 0-100 confidence, the triggers that fired, and a human-readable
// trail of the bonuses that applied. It is never persisted.
type WorkflowMatch struct {
	WorkflowID      WorkflowID `json:"workflow_id"`
	Confidence      int        `json:"confidence"`
	MatchedTriggers []Trigger  `json:"-"`
	ContextFactors  []string   `json:"context_factors,omitempty"`
}

// DocumentRoute is the document-type router's result: the workflow that owns
// the requested artifact and the artifact's type identifier.
type DocumentRoute struct {
	WorkflowID   WorkflowID `json:"workflow_id"`
	DocumentType string     `json:"document_type"`
}
