package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

func TestRouteDocumentType(t *testing.T) {
	d := newTestDetector(t)

	tests := []struct {
		name         string
		message      string
		workflowID   domain.WorkflowID
		documentType string
	}{
		{"offer letter", "Can you prepare an offer letter for Maria?", domain.WorkflowHiring, "offer_letter"},
		{"job description", "write a job description for a data analyst", domain.WorkflowHiring, "job_description"},
		{"jd abbreviation", "need a JD for the platform team", domain.WorkflowHiring, "job_description"},
		{"pip", "Draft a PIP for John", domain.WorkflowPerformance, "pip"},
		{"performance improvement spelled out", "start a performance improvement plan", domain.WorkflowPerformance, "pip"},
		{"performance review", "help me write a performance review", domain.WorkflowPerformance, "performance_review"},
		{"termination letter", "prepare a termination letter", domain.WorkflowOffboarding, "termination_letter"},
		{"exit checklist", "put together an exit checklist", domain.WorkflowOffboarding, "exit_checklist"},
		{"onboarding plan", "create an onboarding plan for the new hire", domain.WorkflowOnboarding, "onboarding_plan"},
		{"policy document", "draft a remote work policy", domain.WorkflowCompliance, "policy_document"},
		{"compensation proposal", "write a salary proposal for the team", domain.WorkflowCompensation, "compensation_proposal"},
		{"investigation report", "I need an investigation report template", domain.WorkflowEmployeeRelations, "investigation_report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, ok := d.RouteDocumentType(tt.message)
			require.True(t, ok)
			assert.Equal(t, tt.workflowID, route.WorkflowID)
			assert.Equal(t, tt.documentType, route.DocumentType)
		})
	}

	t.Run("no match is a defined result, not an error", func(t *testing.T) {
		route, ok := d.RouteDocumentType("how was your weekend")
		assert.False(t, ok)
		assert.Empty(t, route.WorkflowID)
		assert.Empty(t, route.DocumentType)
	})

	t.Run("first mapping wins when multiple match", func(t *testing.T) {
		// Mentions both an offer letter and a job description; the offer
		// letter mapping is declared first.
		route, ok := d.RouteDocumentType("attach the offer letter to the job description")
		require.True(t, ok)
		assert.Equal(t, "offer_letter", route.DocumentType)
	})

	t.Run("pip wins over review when both are named", func(t *testing.T) {
		route, ok := d.RouteDocumentType("turn the performance review into a pip")
		require.True(t, ok)
		assert.Equal(t, "pip", route.DocumentType)
	})
}
