// Package httpapi provides the HTTP API for classification and workflow
// orchestration.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/peoplekit/peoplekit/internal/log"
	"github.com/peoplekit/peoplekit/internal/orchestrator"
	"github.com/peoplekit/peoplekit/internal/workflows/application"
	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

// maxMessageLength is the maximum allowed length for an inbound message.
const maxMessageLength = 10000

// Handler exposes the orchestrator over HTTP.
type Handler struct {
	svc *orchestrator.Service
}

// NewHandler creates a new Handler over an orchestrator service.
func NewHandler(svc *orchestrator.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the API routes on the provided mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("POST /api/classify", h.Classify)
	mux.HandleFunc("POST /api/route-document", h.RouteDocument)

	// Per-conversation workflow endpoints
	mux.HandleFunc("POST /api/conversations/{id}/messages", h.HandleMessage)
	mux.HandleFunc("POST /api/conversations/{id}/data", h.SupplyData)
	mux.HandleFunc("POST /api/conversations/{id}/advance", h.Advance)
	mux.HandleFunc("GET /api/conversations/{id}", h.CurrentStatus)
	mux.HandleFunc("GET /api/conversations/{id}/snapshots", h.Snapshots)
	mux.HandleFunc("DELETE /api/conversations/{id}", h.Reset)
}

// Health returns a simple health check response.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Classify runs stateless intent classification.
// POST /api/classify
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body", err.Error())
		return
	}
	if err := validateMessage(req.Message); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_error", err.Error(), "")
		return
	}

	match := h.svc.Classify(r.Context(), domain.DetectionContext{
		Message:             req.Message,
		ConversationHistory: req.ConversationHistory,
		CurrentWorkflow:     req.CurrentWorkflow,
	})
	h.writeJSON(w, http.StatusOK, ClassifyResponse{Match: match})
}

// RouteDocument resolves a document request to its owning workflow.
// POST /api/route-document
func (h *Handler) RouteDocument(w http.ResponseWriter, r *http.Request) {
	var req RouteDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body", err.Error())
		return
	}
	if err := validateMessage(req.Message); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_error", err.Error(), "")
		return
	}

	route, ok := h.svc.RouteDocument(r.Context(), req.Message)
	resp := RouteDocumentResponse{Matched: ok}
	if ok {
		resp.Route = &route
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleMessage processes one user message for a conversation.
// POST /api/conversations/{id}/messages
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body", err.Error())
		return
	}
	if err := validateMessage(req.Message); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_error", err.Error(), "")
		return
	}

	outcome, err := h.svc.HandleMessage(r.Context(), conversationID, req.Message, req.ConversationHistory)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, outcome)
}

// SupplyData merges collected fields into the conversation's active workflow.
// POST /api/conversations/{id}/data
func (h *Handler) SupplyData(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")

	var req SupplyDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body", err.Error())
		return
	}
	if len(req.Fields) == 0 {
		h.writeError(w, http.StatusBadRequest, "validation_error", "fields cannot be empty", "")
		return
	}

	state, err := h.svc.SupplyData(r.Context(), conversationID, req.Fields)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, StateResponse{State: state})
}

// Advance moves the conversation's workflow to its next step.
// POST /api/conversations/{id}/advance
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")

	state, actions, err := h.svc.Advance(r.Context(), conversationID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, AdvanceResponse{State: state, Actions: actions})
}

// CurrentStatus reports the conversation's active workflow and progress.
// GET /api/conversations/{id}
func (h *Handler) CurrentStatus(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")

	status, err := h.svc.CurrentStatus(r.Context(), conversationID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

// Snapshots returns the conversation's transition history.
// GET /api/conversations/{id}/snapshots?workflow_id=...&limit=...
func (h *Handler) Snapshots(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")

	filter := application.SnapshotFilter{
		WorkflowID: domain.WorkflowID(r.URL.Query().Get("workflow_id")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeError(w, http.StatusBadRequest, "validation_error", "limit must be a non-negative integer", "")
			return
		}
		filter.Limit = limit
	}

	snapshots, err := h.svc.Snapshots(r.Context(), conversationID, filter)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if snapshots == nil {
		snapshots = []domain.StateSnapshot{}
	}
	h.writeJSON(w, http.StatusOK, SnapshotsResponse{Snapshots: snapshots})
}

// Reset discards the conversation's live workflow state.
// DELETE /api/conversations/{id}
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")

	if err := h.svc.Reset(r.Context(), conversationID); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateMessage checks that a message is present and within bounds.
func validateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if len(message) > maxMessageLength {
		return fmt.Errorf("message exceeds maximum length of %d characters", maxMessageLength)
	}
	return nil
}

// writeDomainError maps domain errors to HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		h.writeError(w, http.StatusUnprocessableEntity, validation.Code, validation.Message, validation.Field)
		return
	}
	var noActive *domain.NoActiveWorkflowError
	if errors.As(err, &noActive) {
		h.writeError(w, http.StatusNotFound, "no_active_workflow", "No active workflow for conversation", noActive.ConversationID)
		return
	}
	var notFound *domain.WorkflowNotFoundError
	if errors.As(err, &notFound) {
		h.writeError(w, http.StatusNotFound, "workflow_not_found", "Workflow not found", string(notFound.ID))
		return
	}
	var stepNotFound *domain.StepNotFoundError
	if errors.As(err, &stepNotFound) {
		h.writeError(w, http.StatusConflict, "step_not_found", "Stored state references an unknown step", stepNotFound.StepID)
		return
	}
	var version *domain.StateVersionError
	if errors.As(err, &version) {
		h.writeError(w, http.StatusConflict, "state_version_unsupported", err.Error(), "")
		return
	}
	h.writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error", err.Error())
}

// writeJSON writes a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error(log.CatHTTP, "Failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response in the standard APIError format.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, APIError{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
