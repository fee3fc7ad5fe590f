package detect

import (
	"regexp"
	"strings"

	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

// documentMapping routes artifact-generation phrasing to the workflow that
// owns the artifact. Document-type phrasing is more specific than workflow
// topic phrasing, so a hit here may override the classifier's selection.
type documentMapping struct {
	patterns     []*regexp.Regexp
	workflowID   domain.WorkflowID
	documentType string
}

// documentMappings is evaluated first-match-wins; the order is part of the
// routing contract. Patterns match against the lowercased message.
var documentMappings = []documentMapping{
	{
		patterns:     compileAll(`offer\s+letter`, `employment\s+offer`, `offer\s+package`),
		workflowID:   domain.WorkflowHiring,
		documentType: "offer_letter",
	},
	{
		patterns:     compileAll(`job\s+description`, `\bjd\b`, `job\s+posting`),
		workflowID:   domain.WorkflowHiring,
		documentType: "job_description",
	},
	{
		patterns:     compileAll(`\bpip\b`, `performance\s+improvement`, `improvement\s+plan`),
		workflowID:   domain.WorkflowPerformance,
		documentType: "pip",
	},
	{
		patterns:     compileAll(`performance\s+review`, `review\s+document`, `evaluation`),
		workflowID:   domain.WorkflowPerformance,
		documentType: "performance_review",
	},
	{
		patterns:     compileAll(`termination\s+letter`, `separation\s+letter`, `exit\s+letter`),
		workflowID:   domain.WorkflowOffboarding,
		documentType: "termination_letter",
	},
	{
		patterns:     compileAll(`exit\s+checklist`, `offboarding\s+checklist`),
		workflowID:   domain.WorkflowOffboarding,
		documentType: "exit_checklist",
	},
	{
		patterns:     compileAll(`onboarding\s+plan`, `welcome\s+packet`, `new\s+hire\s+guide`),
		workflowID:   domain.WorkflowOnboarding,
		documentType: "onboarding_plan",
	},
	{
		patterns:     compileAll(`policy`, `handbook`, `code\s+of\s+conduct`),
		workflowID:   domain.WorkflowCompliance,
		documentType: "policy_document",
	},
	{
		patterns:     compileAll(`compensation\s+proposal`, `salary\s+proposal`, `raise\s+proposal`),
		workflowID:   domain.WorkflowCompensation,
		documentType: "compensation_proposal",
	},
	{
		patterns:     compileAll(`investigation\s+report`, `er\s+case`, `complaint\s+report`),
		workflowID:   domain.WorkflowEmployeeRelations,
		documentType: "investigation_report",
	},
}

func compileAll(sources ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(sources))
	for i, src := range sources {
		out[i] = regexp.MustCompile(src)
	}
	return out
}

// RouteDocumentType maps a document-generation request to the owning
// workflow and document type. The second return is false when no mapping
// matches; that is a defined no-match result, not an error.
func (d *Detector) RouteDocumentType(message string) (domain.DocumentRoute, bool) {
	normalized := strings.ToLower(message)
	for _, mapping := range documentMappings {
		for _, pattern := range mapping.patterns {
			if pattern.MatchString(normalized) {
				return domain.DocumentRoute{
					WorkflowID:   mapping.workflowID,
					DocumentType: mapping.documentType,
				}, true
			}
		}
	}
	return domain.DocumentRoute{}, false
}
