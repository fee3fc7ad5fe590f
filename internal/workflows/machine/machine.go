// Package machine implements the workflow state machine: validated
// transitions through a workflow's step graph, collected-data accounting,
// and suggested-action emission. All operations are pure in-memory
// transformations; a failed validation returns the error and leaves the
// input state untouched.
package machine

import (
	"time"

	"github.com/google/uuid"

	"github.com/peoplekit/peoplekit/internal/log"
	"github.com/peoplekit/peoplekit/internal/workflows/domain"
	"github.com/peoplekit/peoplekit/internal/workflows/registry"
)

// Machine drives conversations through the step graphs of a validated rule
// table. It holds no per-conversation state and is safe for concurrent use;
// serializing operations per conversation is the caller's responsibility.
type Machine struct {
	reg *registry.Registry
}

// New creates a Machine over the given registry.
func New(reg *registry.Registry) *Machine {
	return &Machine{reg: reg}
}

// Initiate creates a fresh state at the workflow's start step with empty
// collected data. The general fallback has no steps and cannot be initiated.
func (m *Machine) Initiate(id domain.WorkflowID) (*domain.WorkflowState, error) {
	def, ok := m.reg.Get(id)
	if !ok || id.IsGeneral() {
		return nil, &domain.WorkflowNotFoundError{ID: id}
	}
	start, ok := def.StartStep()
	if !ok {
		return nil, &domain.WorkflowNotFoundError{ID: id}
	}
	now := time.Now().UTC()
	state := &domain.WorkflowState{
		Version:        domain.StateVersion,
		WorkflowID:     id,
		CurrentStep:    start.ID,
		CompletedSteps: []string{},
		CollectedData:  map[string]any{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	log.Debug(log.CatMachine, "Workflow initiated", "workflow", id, "step", start.ID)
	return state, nil
}

// SupplyData merges field values into the state's collected data. Every
// field must be declared (required or optional) by the current step or an
// already-completed step; unknown fields are rejected with a ValidationError
// and the input state is unchanged.
func (m *Machine) SupplyData(state *domain.WorkflowState, fields map[string]any) (*domain.WorkflowState, error) {
	def, ok := m.reg.Get(state.WorkflowID)
	if !ok {
		return nil, &domain.WorkflowNotFoundError{ID: state.WorkflowID}
	}
	for field := range fields {
		if !m.fieldDeclared(def, state, field) {
			return nil, &domain.ValidationError{
				Code:    domain.CodeUnknownField,
				Field:   field,
				Message: "field is not declared by the current or any completed step",
			}
		}
	}

	next := state.Clone()
	for field, value := range fields {
		next.CollectedData[field] = value
	}
	next.UpdatedAt = time.Now().UTC()
	return next, nil
}

// fieldDeclared reports whether the field belongs to the current step or any
// completed step of the workflow.
func (m *Machine) fieldDeclared(def *domain.Definition, state *domain.WorkflowState, field string) bool {
	if step, ok := def.Step(state.CurrentStep); ok && step.Declares(field) {
		return true
	}
	for _, id := range state.CompletedSteps {
		if step, ok := def.Step(id); ok && step.Declares(field) {
			return true
		}
	}
	return false
}

// Advance moves the state to the next step. It fails with a ValidationError
// when required data for the current step is missing or the current step is
// terminal; on failure the input state is unchanged. On success the current
// step joins CompletedSteps, the target step is selected by the step's
// branch rules, and the target step's configured actions are emitted.
func (m *Machine) Advance(state *domain.WorkflowState) (*domain.WorkflowState, []domain.SuggestedAction, error) {
	def, ok := m.reg.Get(state.WorkflowID)
	if !ok {
		return nil, nil, &domain.WorkflowNotFoundError{ID: state.WorkflowID}
	}
	current, ok := def.Step(state.CurrentStep)
	if !ok {
		return nil, nil, &domain.StepNotFoundError{WorkflowID: state.WorkflowID, StepID: state.CurrentStep}
	}
	if current.Terminal() {
		return nil, nil, &domain.ValidationError{
			Code:    domain.CodeWorkflowComplete,
			Message: "workflow has reached its final step",
		}
	}
	for _, field := range current.RequiredData {
		if !state.HasData(field) {
			return nil, nil, &domain.ValidationError{
				Code:    domain.CodeMissingRequiredField,
				Field:   field,
				Message: "please provide " + field + " before continuing",
			}
		}
	}

	target := selectTarget(current, state)
	actions := m.materializeActions(def, target)

	next := state.Clone()
	if !next.Completed(current.ID) {
		next.CompletedSteps = append(next.CompletedSteps, current.ID)
	}
	// Looping back reopens the target step; the current step is never listed
	// as completed.
	next.CompletedSteps = removeStep(next.CompletedSteps, target)
	next.CurrentStep = target
	next.PendingActions = actions
	next.UpdatedAt = time.Now().UTC()

	log.Debug(log.CatMachine, "Workflow advanced",
		"workflow", state.WorkflowID, "from", current.ID, "to", target, "actions", len(actions))
	return next, actions, nil
}

func removeStep(steps []string, id string) []string {
	for i, s := range steps {
		if s == id {
			return append(steps[:i], steps[i+1:]...)
		}
	}
	return steps
}

// selectTarget picks the next step for a transition: the first branch whose
// selector field is present in the collected data wins; otherwise the first
// allowed next step is the default. Both are validated at startup, so the
// result always names an existing step.
func selectTarget(step domain.Step, state *domain.WorkflowState) string {
	for _, br := range step.Branches {
		if state.HasData(br.When) {
			return br.To
		}
	}
	return step.Next[0]
}

// materializeActions instantiates the suggested actions configured for the
// step being entered. These are descriptive payloads only; execution belongs
// to an external collaborator.
func (m *Machine) materializeActions(def *domain.Definition, stepID string) []domain.SuggestedAction {
	templates := def.Actions[stepID]
	if len(templates) == 0 {
		return nil
	}
	actions := make([]domain.SuggestedAction, 0, len(templates))
	for _, tpl := range templates {
		actions = append(actions, domain.SuggestedAction{
			ID:               uuid.NewString(),
			Type:             tpl.Type,
			Label:            tpl.Label,
			Description:      tpl.Description,
			Payload:          tpl.Payload,
			RequiresApproval: tpl.RequiresApproval,
			Status:           domain.ActionPending,
		})
	}
	return actions
}

// IsComplete reports whether the state sits at a terminal step with all of
// that step's required data collected.
func (m *Machine) IsComplete(state *domain.WorkflowState) bool {
	def, ok := m.reg.Get(state.WorkflowID)
	if !ok {
		return false
	}
	step, ok := def.Step(state.CurrentStep)
	if !ok || !step.Terminal() {
		return false
	}
	for _, field := range step.RequiredData {
		if !state.HasData(field) {
			return false
		}
	}
	return true
}

// MissingData returns the current step's required fields not yet collected,
// in declaration order. Empty means Advance will not fail on data.
func (m *Machine) MissingData(state *domain.WorkflowState) []string {
	def, ok := m.reg.Get(state.WorkflowID)
	if !ok {
		return nil
	}
	step, ok := def.Step(state.CurrentStep)
	if !ok {
		return nil
	}
	var missing []string
	for _, field := range step.RequiredData {
		if !state.HasData(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// Progress returns the workflow's completion percentage based on completed
// steps over total steps.
func (m *Machine) Progress(state *domain.WorkflowState) int {
	def, ok := m.reg.Get(state.WorkflowID)
	if !ok || len(def.Steps) == 0 {
		return 0
	}
	return len(state.CompletedSteps) * 100 / len(def.Steps)
}
