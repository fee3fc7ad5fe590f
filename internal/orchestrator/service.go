// Package orchestrator coordinates intent classification, workflow state
// machine transitions, and state persistence for inbound conversation
// messages. It is the single entry point higher layers (HTTP API, CLI) use
// to drive a conversation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/peoplekit/peoplekit/internal/log"
	"github.com/peoplekit/peoplekit/internal/workflows/application"
	"github.com/peoplekit/peoplekit/internal/workflows/detect"
	"github.com/peoplekit/peoplekit/internal/workflows/domain"
	"github.com/peoplekit/peoplekit/internal/workflows/machine"
	"github.com/peoplekit/peoplekit/internal/workflows/registry"
)

// Policy tunes when a stateless conversation is upgraded into an active
// workflow.
type Policy struct {
	// ActivationThreshold is the minimum classification confidence that
	// activates a workflow immediately.
	ActivationThreshold int
	// MaxStatelessMessages is the number of user messages after which the
	// best available match activates even below the threshold.
	MaxStatelessMessages int
	// CacheTTL bounds how long a loaded state is served from memory before
	// the repository is consulted again.
	CacheTTL time.Duration
}

// DefaultPolicy returns the standard activation policy.
func DefaultPolicy() Policy {
	return Policy{
		ActivationThreshold:  75,
		MaxStatelessMessages: 5,
		CacheTTL:             5 * time.Minute,
	}
}

// Outcome is the orchestrator's verdict for one inbound message.
type Outcome struct {
	Match         domain.WorkflowMatch  `json:"match"`
	DocumentRoute *domain.DocumentRoute `json:"document_route,omitempty"`
	State         *domain.WorkflowState `json:"state,omitempty"`
	Activated     bool                  `json:"activated"`
	MissingData   []string              `json:"missing_data,omitempty"`
	Progress      int                   `json:"progress"`
}

// Service orchestrates classification and workflow execution per
// conversation. It is safe for concurrent use across conversations; callers
// must serialize operations within one conversation.
type Service struct {
	reg      *registry.Registry
	detector *detect.Detector
	machine  *machine.Machine
	states   application.StateRepository
	cache    *gocache.Cache
	tracer   trace.Tracer
	policy   Policy
}

// NewService creates a Service over a validated registry and a state
// repository. Zero policy fields fall back to DefaultPolicy values.
func NewService(reg *registry.Registry, states application.StateRepository, policy Policy) *Service {
	defaults := DefaultPolicy()
	if policy.ActivationThreshold <= 0 {
		policy.ActivationThreshold = defaults.ActivationThreshold
	}
	if policy.MaxStatelessMessages <= 0 {
		policy.MaxStatelessMessages = defaults.MaxStatelessMessages
	}
	if policy.CacheTTL <= 0 {
		policy.CacheTTL = defaults.CacheTTL
	}
	return &Service{
		reg:      reg,
		detector: detect.NewDetector(reg),
		machine:  machine.New(reg),
		states:   states,
		cache:    gocache.New(policy.CacheTTL, 2*policy.CacheTTL),
		tracer:   otel.Tracer("peoplekit/orchestrator"),
		policy:   policy,
	}
}

// Classify runs intent classification without touching conversation state.
func (s *Service) Classify(ctx context.Context, dctx domain.DetectionContext) domain.WorkflowMatch {
	_, span := s.tracer.Start(ctx, "orchestrator.Classify")
	defer span.End()

	match := s.detector.Classify(dctx)
	span.SetAttributes(
		attribute.String("workflow.id", string(match.WorkflowID)),
		attribute.Int("workflow.confidence", match.Confidence),
	)
	return match
}

// RouteDocument resolves a document-generation request to the workflow that
// owns the artifact. The second return is false when the message names no
// known document type.
func (s *Service) RouteDocument(ctx context.Context, message string) (domain.DocumentRoute, bool) {
	_, span := s.tracer.Start(ctx, "orchestrator.RouteDocument")
	defer span.End()

	route, ok := s.detector.RouteDocumentType(message)
	if ok {
		span.SetAttributes(
			attribute.String("workflow.id", string(route.WorkflowID)),
			attribute.String("document.type", route.DocumentType),
		)
	}
	return route, ok
}

// HandleMessage processes one inbound user message: classifies it against
// the rule table, routes document requests, and activates a workflow when
// the activation policy is met. A confident match for an unrelated workflow
// abandons the live state in favor of the new one; the abandoned state stays
// in snapshot history. The returned outcome always carries the
// classification; State is nil while the conversation remains stateless.
func (s *Service) HandleMessage(ctx context.Context, conversationID, message string, history []domain.ConversationMessage) (*Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "orchestrator.HandleMessage",
		trace.WithAttributes(attribute.String("conversation.id", conversationID)))
	defer span.End()

	state, err := s.loadState(ctx, conversationID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	dctx := domain.DetectionContext{
		Message:             message,
		ConversationHistory: history,
	}
	if state != nil {
		dctx.CurrentWorkflow = state.WorkflowID
	}
	match := s.detector.Classify(dctx)
	span.SetAttributes(
		attribute.String("workflow.id", string(match.WorkflowID)),
		attribute.Int("workflow.confidence", match.Confidence),
	)

	outcome := &Outcome{Match: match, State: state}

	// Document requests route directly to the owning workflow, bypassing
	// the confidence threshold when the message is an explicit action.
	target := match.WorkflowID
	if route, ok := s.detector.RouteDocumentType(message); ok {
		outcome.DocumentRoute = &route
		if detect.IsActionIntent(message) {
			target = route.WorkflowID
		}
	}

	// A confident match for a different workflow discards the live state
	// (history is kept) and starts over on the new workflow.
	if state != nil && s.shouldSwitch(state, target, match.Confidence) {
		if err := s.discard(ctx, conversationID); err != nil {
			span.RecordError(err)
			return nil, err
		}
		log.Info(log.CatOrch, "Workflow switched",
			"conversation", conversationID, "from", state.WorkflowID, "to", target)
		state = nil
		outcome.State = nil
	}

	if state == nil && s.shouldActivate(target, match.Confidence, history) {
		activated, err := s.activate(ctx, conversationID, target)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		outcome.State = activated
		outcome.Activated = true
		state = activated
	}

	if state != nil {
		outcome.MissingData = s.machine.MissingData(state)
		outcome.Progress = s.machine.Progress(state)
	}
	return outcome, nil
}

// shouldSwitch reports whether a live workflow should be abandoned for the
// newly detected target. Only a confident match for a different, non-general
// workflow switches; weak or same-workflow matches leave the state alone.
func (s *Service) shouldSwitch(state *domain.WorkflowState, target domain.WorkflowID, confidence int) bool {
	if target.IsGeneral() || target == state.WorkflowID {
		return false
	}
	return confidence >= s.policy.ActivationThreshold
}

// discard drops the live state while keeping snapshot history. A conversation
// that was already reset elsewhere is not an error.
func (s *Service) discard(ctx context.Context, conversationID string) error {
	s.cache.Delete(conversationID)
	err := s.states.Reset(ctx, conversationID)
	var notFound *domain.NoActiveWorkflowError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("failed to discard workflow state: %w", err)
	}
	return nil
}

// shouldActivate applies the stateful-upgrade policy: activate on a
// confident match, or once the conversation has gone on long enough that
// staying stateless stops helping.
func (s *Service) shouldActivate(target domain.WorkflowID, confidence int, history []domain.ConversationMessage) bool {
	if target.IsGeneral() {
		return false
	}
	if confidence >= s.policy.ActivationThreshold {
		return true
	}
	return confidence > 0 && userMessageCount(history)+1 >= s.policy.MaxStatelessMessages
}

func userMessageCount(history []domain.ConversationMessage) int {
	count := 0
	for _, msg := range history {
		if msg.Role == "user" {
			count++
		}
	}
	return count
}

// activate initiates the workflow and persists the first transition.
func (s *Service) activate(ctx context.Context, conversationID string, id domain.WorkflowID) (*domain.WorkflowState, error) {
	state, err := s.machine.Initiate(id)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, conversationID, state); err != nil {
		return nil, err
	}
	log.Info(log.CatOrch, "Workflow activated",
		"conversation", conversationID, "workflow", id, "step", state.CurrentStep)
	return state, nil
}

// SupplyData merges collected fields into the active workflow state and
// persists the transition.
func (s *Service) SupplyData(ctx context.Context, conversationID string, fields map[string]any) (*domain.WorkflowState, error) {
	ctx, span := s.tracer.Start(ctx, "orchestrator.SupplyData",
		trace.WithAttributes(attribute.String("conversation.id", conversationID)))
	defer span.End()

	state, err := s.requireState(ctx, conversationID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	next, err := s.machine.SupplyData(state, fields)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.persist(ctx, conversationID, next); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return next, nil
}

// Advance moves the active workflow to its next step and persists the
// transition, returning the suggested actions for the step entered.
func (s *Service) Advance(ctx context.Context, conversationID string) (*domain.WorkflowState, []domain.SuggestedAction, error) {
	ctx, span := s.tracer.Start(ctx, "orchestrator.Advance",
		trace.WithAttributes(attribute.String("conversation.id", conversationID)))
	defer span.End()

	state, err := s.requireState(ctx, conversationID)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	next, actions, err := s.machine.Advance(state)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	if err := s.persist(ctx, conversationID, next); err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	span.SetAttributes(attribute.String("workflow.step", next.CurrentStep))
	return next, actions, nil
}

// Status describes the active workflow of a conversation.
type Status struct {
	State       *domain.WorkflowState `json:"state"`
	MissingData []string              `json:"missing_data,omitempty"`
	Progress    int                   `json:"progress"`
	Complete    bool                  `json:"complete"`
}

// CurrentStatus reports the conversation's active workflow state along with
// derived progress information.
func (s *Service) CurrentStatus(ctx context.Context, conversationID string) (*Status, error) {
	state, err := s.requireState(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return &Status{
		State:       state,
		MissingData: s.machine.MissingData(state),
		Progress:    s.machine.Progress(state),
		Complete:    s.machine.IsComplete(state),
	}, nil
}

// Snapshots returns the conversation's transition history.
func (s *Service) Snapshots(ctx context.Context, conversationID string, filter application.SnapshotFilter) ([]domain.StateSnapshot, error) {
	return s.states.Snapshots(ctx, conversationID, filter)
}

// Reset discards the conversation's live workflow state. History is kept.
func (s *Service) Reset(ctx context.Context, conversationID string) error {
	ctx, span := s.tracer.Start(ctx, "orchestrator.Reset",
		trace.WithAttributes(attribute.String("conversation.id", conversationID)))
	defer span.End()

	s.cache.Delete(conversationID)
	if err := s.states.Reset(ctx, conversationID); err != nil {
		span.RecordError(err)
		return err
	}
	log.Info(log.CatOrch, "Workflow reset", "conversation", conversationID)
	return nil
}

// loadState returns the conversation's live state, or nil when none is
// active. The in-memory cache is consulted before the repository.
func (s *Service) loadState(ctx context.Context, conversationID string) (*domain.WorkflowState, error) {
	if cached, ok := s.cache.Get(conversationID); ok {
		return cached.(*domain.WorkflowState).Clone(), nil
	}

	state, err := s.states.LoadCurrent(ctx, conversationID)
	var notFound *domain.NoActiveWorkflowError
	if errors.As(err, &notFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow state: %w", err)
	}
	s.cache.Set(conversationID, state.Clone(), gocache.DefaultExpiration)
	return state, nil
}

// requireState is loadState for operations that need an active workflow.
func (s *Service) requireState(ctx context.Context, conversationID string) (*domain.WorkflowState, error) {
	state, err := s.loadState(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, &domain.NoActiveWorkflowError{ConversationID: conversationID}
	}
	return state, nil
}

// persist writes the transition and refreshes the cache.
func (s *Service) persist(ctx context.Context, conversationID string, state *domain.WorkflowState) error {
	if _, err := s.states.SaveTransition(ctx, conversationID, state); err != nil {
		return fmt.Errorf("failed to persist workflow transition: %w", err)
	}
	s.cache.Set(conversationID, state.Clone(), gocache.DefaultExpiration)
	return nil
}
