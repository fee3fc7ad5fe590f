package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/peoplekit/peoplekit/internal/workflows/application"
	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

// stateRepository implements application.StateRepository using SQLite.
//
// Two tables back it: conversations holds the live state pointer per
// conversation, workflow_snapshots is the append-only transition history.
// SaveTransition writes both in one transaction so a crash can never leave a
// live pointer without its snapshot.
type stateRepository struct {
	db *sql.DB
}

// newStateRepository creates a new stateRepository instance.
func newStateRepository(db *sql.DB) *stateRepository {
	return &stateRepository{db: db}
}

// Ensure stateRepository implements application.StateRepository.
var _ application.StateRepository = (*stateRepository)(nil)

// LoadCurrent reconstructs the live workflow state for a conversation.
// Returns NoActiveWorkflowError if the conversation has no active workflow.
func (r *stateRepository) LoadCurrent(ctx context.Context, conversationID string) (*domain.WorkflowState, error) {
	var stateJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT state_json FROM conversations WHERE conversation_id = ?`,
		conversationID,
	).Scan(&stateJSON)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NoActiveWorkflowError{ConversationID: conversationID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load current state: %w", err)
	}
	return decodeState(stateJSON)
}

// SaveTransition appends an immutable snapshot and upserts the live state
// pointer in a single transaction, returning the appended snapshot.
func (r *stateRepository) SaveTransition(ctx context.Context, conversationID string, state *domain.WorkflowState) (retSnap *domain.StateSnapshot, retErr error) {
	stateJSON, err := encodeState(state)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	guid := uuid.NewString()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO workflow_snapshots (guid, conversation_id, workflow_id, step, state_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		guid, conversationID, string(state.WorkflowID), state.CurrentStep, stateJSON, now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}
	snapshotID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversations (conversation_id, workflow_id, current_step, state_json, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(conversation_id) DO UPDATE SET
		   workflow_id = excluded.workflow_id,
		   current_step = excluded.current_step,
		   state_json = excluded.state_json,
		   updated_at = excluded.updated_at`,
		conversationID, string(state.WorkflowID), state.CurrentStep, stateJSON, now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert conversation state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	return &domain.StateSnapshot{
		ID:             snapshotID,
		GUID:           guid,
		ConversationID: conversationID,
		WorkflowID:     state.WorkflowID,
		Step:           state.CurrentStep,
		State:          state.Clone(),
		CreatedAt:      now,
	}, nil
}

// Snapshots returns the conversation's snapshot history in append order.
func (r *stateRepository) Snapshots(ctx context.Context, conversationID string, filter application.SnapshotFilter) ([]domain.StateSnapshot, error) {
	query := `SELECT id, guid, conversation_id, workflow_id, step, state_json, created_at
			  FROM workflow_snapshots
			  WHERE conversation_id = ?`
	args := []any{conversationID}

	if filter.WorkflowID != "" {
		query += ` AND workflow_id = ?`
		args = append(args, string(filter.WorkflowID))
	}

	// Append order; snapshot ids are monotonic per insert.
	query += ` ORDER BY id ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []domain.StateSnapshot
	for rows.Next() {
		var model snapshotModel
		if err := rows.Scan(&model.ID, &model.GUID, &model.ConversationID, &model.WorkflowID, &model.Step, &model.StateJSON, &model.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshot, err := model.toDomain()
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}

	return snapshots, nil
}

// Reset discards the live state for a conversation. Snapshot history is kept.
// Returns NoActiveWorkflowError if the conversation has no active workflow.
func (r *stateRepository) Reset(ctx context.Context, conversationID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE conversation_id = ?`,
		conversationID,
	)
	if err != nil {
		return fmt.Errorf("failed to reset conversation state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.NoActiveWorkflowError{ConversationID: conversationID}
	}
	return nil
}
