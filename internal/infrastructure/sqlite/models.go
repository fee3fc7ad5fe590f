package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

// snapshotModel represents a database row in the workflow_snapshots table.
// Fields map directly to SQL columns with Unix timestamps for time values
// and the full state serialized as JSON.
type snapshotModel struct {
	ID             int64
	GUID           string
	ConversationID string
	WorkflowID     string
	Step           string
	StateJSON      string
	CreatedAt      int64 // Unix timestamp
}

// toDomain converts a snapshot row to a domain StateSnapshot, parsing and
// version-checking the embedded state.
func (m *snapshotModel) toDomain() (domain.StateSnapshot, error) {
	state, err := decodeState(m.StateJSON)
	if err != nil {
		return domain.StateSnapshot{}, fmt.Errorf("snapshot %s: %w", m.GUID, err)
	}
	return domain.StateSnapshot{
		ID:             m.ID,
		GUID:           m.GUID,
		ConversationID: m.ConversationID,
		WorkflowID:     domain.WorkflowID(m.WorkflowID),
		Step:           m.Step,
		State:          state,
		CreatedAt:      time.Unix(m.CreatedAt, 0).UTC(),
	}, nil
}

// encodeState serializes a workflow state for storage, stamping the current
// schema version.
func encodeState(state *domain.WorkflowState) (string, error) {
	clone := state.Clone()
	clone.Version = domain.StateVersion
	raw, err := json.Marshal(clone)
	if err != nil {
		return "", fmt.Errorf("failed to encode workflow state: %w", err)
	}
	return string(raw), nil
}

// decodeState parses a stored state, rejecting schema versions newer than
// this build understands.
func decodeState(stateJSON string) (*domain.WorkflowState, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal([]byte(stateJSON), &probe); err != nil {
		return nil, fmt.Errorf("failed to decode workflow state: %w", err)
	}
	if probe.Version > domain.StateVersion {
		return nil, &domain.StateVersionError{Version: probe.Version}
	}

	var state domain.WorkflowState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, fmt.Errorf("failed to decode workflow state: %w", err)
	}
	if state.CollectedData == nil {
		state.CollectedData = map[string]any{}
	}
	return &state, nil
}
