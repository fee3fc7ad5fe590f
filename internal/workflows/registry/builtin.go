package registry

import "github.com/peoplekit/peoplekit/internal/workflows/domain"

// builtinDefinitions returns the built-in rule table. Messages are lowercased
// before matching, so patterns are written in lowercase. Declaration order is
// the classifier's tie-break priority.
func builtinDefinitions() []*domain.Definition {
	return []*domain.Definition{
		hiringWorkflow(),
		performanceWorkflow(),
		analyticsWorkflow(),
		onboardingWorkflow(),
		offboardingWorkflow(),
		compensationWorkflow(),
		employeeRelationsWorkflow(),
		complianceWorkflow(),
		generalWorkflow(),
	}
}

func hiringWorkflow() *domain.Definition {
	return &domain.Definition{
		ID:          domain.WorkflowHiring,
		Name:        "Hiring & Recruitment",
		Description: "End-to-end hiring workflows including job descriptions, interviews, offers, and candidate evaluation",
		Triggers: []domain.Trigger{
			{Pattern: `job\s+description|jd\b`, Weight: 10},
			{Pattern: `write.*jd|draft.*jd|create.*jd`, Weight: 12},
			{Pattern: `job\s+posting|job\s+ad|job\s+listing`, Weight: 10},
			{Pattern: `interview`, Weight: 8, ContextHints: []string{"guide", "questions", "scorecard"}},
			{Pattern: `candidate|applicant`, Weight: 7, ContextHints: []string{"evaluate", "score", "assess"}},
			{Pattern: `screening\s+questions`, Weight: 10},
			{Pattern: `interview\s+guide`, Weight: 12},
			{Pattern: `hire|hiring|recruit`, Weight: 7},
			{Pattern: `offer\s+letter`, Weight: 12, Capability: "offer_letters"},
			{Pattern: `headcount\s+plan`, Weight: 9, ContextHints: []string{"hiring", "recruitment"}},
			{Pattern: `skills\s+gap`, Weight: 8, ContextHints: []string{"hire", "recruit", "need"}},
		},
		Keywords: []string{"hire", "hiring", "offer", "candidate", "jd", "job", "interview", "scorecard"},
		Steps: []domain.Step{
			{
				ID:           "gather_requirements",
				Name:         "Gather Requirements",
				Description:  "Understand role, team, and hiring needs",
				RequiredData: []string{"roleTitle"},
				OptionalData: []string{"team", "level", "location"},
				Next:         []string{"draft_documents"},
			},
			{
				ID:           "draft_documents",
				Name:         "Draft Documents",
				Description:  "Create job description, interview guide, and offer template",
				RequiredData: []string{"jobDescription"},
				OptionalData: []string{"interviewGuide", "feedback"},
				Next:         []string{"execute_actions", "refine_documents"},
				Branches: []domain.Branch{
					{When: "feedback", To: "refine_documents"},
				},
			},
			{
				ID:           "refine_documents",
				Name:         "Refine Documents",
				Description:  "Iterate on documents based on feedback",
				RequiredData: []string{"feedback"},
				Next:         []string{"execute_actions"},
			},
			{
				ID:          "execute_actions",
				Name:        "Execute Actions",
				Description: "Post job, create channels, schedule interviews",
				Next:        []string{"track_candidates"},
			},
			{
				ID:           "track_candidates",
				Name:         "Track Candidates",
				Description:  "Monitor pipeline and coordinate interviews",
				OptionalData: []string{"selectedCandidate", "positionClosed"},
				Next:         []string{"make_offer", "close_workflow"},
				Branches: []domain.Branch{
					{When: "selectedCandidate", To: "make_offer"},
					{When: "positionClosed", To: "close_workflow"},
				},
			},
			{
				ID:           "make_offer",
				Name:         "Make Offer",
				Description:  "Generate and send offer letter",
				RequiredData: []string{"selectedCandidate", "compensation"},
				Next:         []string{"close_workflow"},
			},
			{
				ID:          "close_workflow",
				Name:        "Close Workflow",
				Description: "Hiring complete or position closed",
			},
		},
		Actions: map[string][]domain.ActionTemplate{
			"draft_documents": {
				{
					Type:        domain.ActionCreateDocument,
					Label:       "Save job description to Drive",
					Description: "Save this job description to the Hiring folder",
					Payload:     map[string]any{"documentType": "job_description", "folderPath": "/Hiring/Job Descriptions"},
				},
				{
					Type:        domain.ActionSendSlackMessage,
					Label:       "Post to #hiring channel",
					Description: "Share the draft with the hiring team",
					Payload:     map[string]any{"channel": "hiring"},
				},
			},
			"execute_actions": {
				{
					Type:             domain.ActionScheduleMeeting,
					Label:            "Schedule interviews",
					Description:      "Set up interviews with shortlisted candidates",
					RequiresApproval: true,
				},
			},
			"make_offer": {
				{
					Type:        domain.ActionCreateDocument,
					Label:       "Generate offer letter",
					Payload:     map[string]any{"documentType": "offer_letter"},
				},
				{
					Type:             domain.ActionSendEmail,
					Label:            "Email offer to candidate",
					RequiresApproval: true,
				},
			},
		},
	}
}

func performanceWorkflow() *domain.Definition {
	return &domain.Definition{
		ID:          domain.WorkflowPerformance,
		Name:        "Performance Management",
		Description: "Reviews, PIPs, coaching plans, feedback synthesis, and development",
		Triggers: []domain.Trigger{
			{Pattern: `performance`, Weight: 7, ContextHints: []string{"review", "evaluation", "feedback"}},
			{Pattern: `performance\s+review`, Weight: 12},
			{Pattern: `review\s+cycle`, Weight: 10},
			{Pattern: `360\s+review`, Weight: 12},
			{Pattern: `\bpip\b|performance\s+improvement`, Weight: 12},
			{Pattern: `coaching|development\s+plan`, Weight: 8},
			{Pattern: `underperform`, Weight: 9},
			{Pattern: `feedback`, Weight: 7, ContextHints: []string{"performance", "give", "synthesize"}},
			{Pattern: `one\s+on\s+one|1:1|one-on-one`, Weight: 10},
			{Pattern: `manager\s+effectiveness`, Weight: 9},
			{Pattern: `recognition|reward|award`, Weight: 8},
			{Pattern: `top\s+performer`, Weight: 9},
			{Pattern: `skills?\s+gap`, Weight: 8, ContextHints: []string{"develop", "training", "growth"}},
			{Pattern: `promotion\s+readiness`, Weight: 9},
			{Pattern: `career\s+development`, Weight: 8},
		},
		Steps: []domain.Step{
			{
				ID:           "assess_situation",
				Name:         "Assess Situation",
				Description:  "Understand performance issue or development opportunity",
				RequiredData: []string{"employeeName"},
				OptionalData: []string{"concern"},
				Next:         []string{"gather_feedback"},
			},
			{
				ID:           "gather_feedback",
				Name:         "Gather Feedback",
				Description:  "Collect 360 feedback, historical data, and context",
				RequiredData: []string{"feedbackSources"},
				Next:         []string{"create_plan"},
			},
			{
				ID:           "create_plan",
				Name:         "Create Plan",
				Description:  "Draft PIP, development plan, or review",
				RequiredData: []string{"planType"},
				OptionalData: []string{"stakeholderReview", "approved"},
				Next:         []string{"review_plan", "execute_actions"},
				Branches: []domain.Branch{
					{When: "stakeholderReview", To: "review_plan"},
					{When: "approved", To: "execute_actions"},
				},
			},
			{
				ID:           "review_plan",
				Name:         "Review Plan",
				Description:  "Get stakeholder feedback on plan",
				RequiredData: []string{"stakeholderReview"},
				Next:         []string{"execute_actions"},
			},
			{
				ID:          "execute_actions",
				Name:        "Execute Actions",
				Description: "Schedule meetings, assign training, set up check-ins",
				Next:        []string{"monitor_progress"},
			},
			{
				ID:           "monitor_progress",
				Name:         "Monitor Progress",
				Description:  "Track improvement and adjust plan",
				OptionalData: []string{"goalsMet", "planAdjustment"},
				Next:         []string{"close_workflow", "adjust_plan"},
				Branches: []domain.Branch{
					{When: "planAdjustment", To: "adjust_plan"},
				},
			},
			{
				ID:           "adjust_plan",
				Name:         "Adjust Plan",
				Description:  "Modify plan based on progress",
				RequiredData: []string{"planAdjustment"},
				Next:         []string{"monitor_progress"},
			},
			{
				ID:          "close_workflow",
				Name:        "Close Workflow",
				Description: "Goals met or next steps defined",
			},
		},
		Actions: map[string][]domain.ActionTemplate{
			"create_plan": {
				{
					Type:    domain.ActionCreateDocument,
					Label:   "Save plan to Drive",
					Payload: map[string]any{"documentType": "pip", "folderPath": "/Performance"},
				},
			},
			"execute_actions": {
				{
					Type:             domain.ActionScheduleMeeting,
					Label:            "Schedule check-ins",
					RequiresApproval: true,
				},
			},
		},
	}
}

func analyticsWorkflow() *domain.Definition {
	return &domain.Definition{
		ID:          domain.WorkflowAnalytics,
		Name:        "Analytics & Insights",
		Description: "HR metrics, trends, dashboards, and workforce insights",
		Triggers: []domain.Trigger{
			{Pattern: `analytics|metrics|dashboard`, Weight: 10},
			{Pattern: `show\s+me|tell\s+me|what('s|s|\sis)`, Weight: 6, ContextHints: []string{"headcount", "turnover", "diversity", "trend"}},
			{Pattern: `trend|forecast|predict`, Weight: 8},
			{Pattern: `headcount`, Weight: 12},
			{Pattern: `turnover|attrition|retention`, Weight: 10},
			{Pattern: `diversity|dei|inclusion`, Weight: 9, ContextHints: []string{"metrics", "report", "analysis"}},
			{Pattern: `\benps\b|engagement\s+score`, Weight: 10},
			{Pattern: `flight\s+risk`, Weight: 11},
			{Pattern: `survey`, Weight: 8, ContextHints: []string{"analysis", "results", "feedback", "engagement"}},
			{Pattern: `survey\s+results|survey\s+analysis`, Weight: 11},
			{Pattern: `compare|comparison`, Weight: 7, ContextHints: []string{"department", "team", "quarter"}},
			{Pattern: `by\s+department|by\s+team|by\s+location`, Weight: 8},
			{Pattern: `breakdown|distribution`, Weight: 7},
		},
		Keywords: []string{"headcount", "turnover", "attrition", "analytics", "metrics", "enps", "diversity"},
		Steps: []domain.Step{
			{
				ID:           "understand_question",
				Name:         "Understand Question",
				Description:  "Clarify what metrics or insights are needed",
				RequiredData: []string{"metric"},
				Next:         []string{"gather_data"},
			},
			{
				ID:          "gather_data",
				Name:        "Gather Data",
				Description: "Collect relevant employee, performance, and survey data",
				Next:        []string{"analyze"},
			},
			{
				ID:           "analyze",
				Name:         "Analyze",
				Description:  "Calculate metrics, identify trends, and generate insights",
				OptionalData: []string{"visualization"},
				Next:         []string{"visualize", "recommend_actions"},
				Branches: []domain.Branch{
					{When: "visualization", To: "visualize"},
				},
			},
			{
				ID:           "visualize",
				Name:         "Visualize",
				Description:  "Create charts, dashboards, or reports",
				RequiredData: []string{"visualization"},
				Next:         []string{"recommend_actions"},
			},
			{
				ID:           "recommend_actions",
				Name:         "Recommend Actions",
				Description:  "Suggest concrete next steps based on insights",
				OptionalData: []string{"exportRequested"},
				Next:         []string{"execute_actions", "close_workflow"},
				Branches: []domain.Branch{
					{When: "exportRequested", To: "execute_actions"},
				},
			},
			{
				ID:          "execute_actions",
				Name:        "Execute Actions",
				Description: "Export data, create reports, schedule follow-ups",
				Next:        []string{"close_workflow"},
			},
			{
				ID:          "close_workflow",
				Name:        "Close Workflow",
				Description: "Insights delivered and actions taken",
			},
		},
		Actions: map[string][]domain.ActionTemplate{
			"visualize": {
				{
					Type:    domain.ActionExportToSheets,
					Label:   "Export to spreadsheet",
					Payload: map[string]any{"format": "sheets"},
				},
			},
			"execute_actions": {
				{
					Type:  domain.ActionAnalyzeData,
					Label: "Run deeper analysis",
				},
			},
		},
	}
}

func onboardingWorkflow() *domain.Definition {
	return &domain.Definition{
		ID:          domain.WorkflowOnboarding,
		Name:        "Onboarding",
		Description: "New hire integration, 30/60/90 plans, and first-day logistics",
		Triggers: []domain.Trigger{
			{Pattern: `onboarding|onboard`, Weight: 12},
			{Pattern: `new\s+hire`, Weight: 10},
			{Pattern: `first\s+day|first\s+week`, Weight: 9},
			{Pattern: `30.?60.?90`, Weight: 12},
			{Pattern: `buddy\s+program|buddy\s+system`, Weight: 11},
			{Pattern: `welcome\s+packet`, Weight: 10},
			{Pattern: `orientation`, Weight: 8, ContextHints: []string{"new", "employee", "hire"}},
		},
		Steps: []domain.Step{
			{
				ID:           "gather_hire_info",
				Name:         "Gather Hire Info",
				Description:  "Collect new hire details and role requirements",
				RequiredData: []string{"employeeName", "startDate"},
				Next:         []string{"create_plan"},
			},
			{
				ID:           "create_plan",
				Name:         "Create Plan",
				Description:  "Draft 30/60/90 onboarding plan",
				RequiredData: []string{"planOutline"},
				Next:         []string{"coordinate_logistics"},
			},
			{
				ID:          "coordinate_logistics",
				Name:        "Coordinate Logistics",
				Description: "Arrange equipment, access, workspace",
				Next:        []string{"schedule_activities"},
			},
			{
				ID:          "schedule_activities",
				Name:        "Schedule Activities",
				Description: "Book orientations, trainings, and introductions",
				Next:        []string{"monitor_progress"},
			},
			{
				ID:          "monitor_progress",
				Name:        "Monitor Progress",
				Description: "Track onboarding completion and engagement",
				Next:        []string{"close_workflow"},
			},
			{
				ID:          "close_workflow",
				Name:        "Close Workflow",
				Description: "Onboarding complete",
			},
		},
		Actions: map[string][]domain.ActionTemplate{
			"create_plan": {
				{
					Type:    domain.ActionCreateDocument,
					Label:   "Save onboarding plan",
					Payload: map[string]any{"documentType": "onboarding_plan", "folderPath": "/Onboarding"},
				},
			},
			"schedule_activities": {
				{
					Type:             domain.ActionScheduleMeeting,
					Label:            "Book orientation sessions",
					RequiresApproval: true,
				},
				{
					Type:  domain.ActionSendEmail,
					Label: "Send pre-boarding email",
				},
			},
		},
	}
}

func offboardingWorkflow() *domain.Definition {
	return &domain.Definition{
		ID:          domain.WorkflowOffboarding,
		Name:        "Offboarding",
		Description: "Exits, knowledge transfer, and termination documentation",
		Triggers: []domain.Trigger{
			{Pattern: `offboarding|offboard`, Weight: 12},
			{Pattern: `exit|departure|leaving`, Weight: 8, ContextHints: []string{"employee", "transition", "process"}},
			{Pattern: `termination\s+letter`, Weight: 12, Capability: "termination_letters"},
			{Pattern: `exit\s+interview`, Weight: 11},
			{Pattern: `knowledge\s+transfer`, Weight: 10},
			{Pattern: `\brif\b|reduction\s+in\s+force|layoff`, Weight: 11},
			{Pattern: `last\s+day`, Weight: 8, ContextHints: []string{"employee", "departure"}},
			{Pattern: `resignation|quit|resign`, Weight: 9},
		},
		Steps: []domain.Step{
			{
				ID:           "assess_situation",
				Name:         "Assess Situation",
				Description:  "Understand departure reason and context",
				RequiredData: []string{"employeeName", "departureReason"},
				Next:         []string{"plan_transition"},
			},
			{
				ID:           "plan_transition",
				Name:         "Plan Transition",
				Description:  "Create exit timeline and checklist",
				RequiredData: []string{"lastDay"},
				Next:         []string{"execute_exit"},
			},
			{
				ID:          "execute_exit",
				Name:        "Execute Exit",
				Description: "Coordinate all exit activities",
				Next:        []string{"conduct_interview"},
			},
			{
				ID:           "conduct_interview",
				Name:         "Conduct Interview",
				Description:  "Hold exit interview and gather feedback",
				OptionalData: []string{"exitFeedback"},
				Next:         []string{"close_workflow"},
			},
			{
				ID:          "close_workflow",
				Name:        "Close Workflow",
				Description: "Exit complete, analyze insights",
			},
		},
		Actions: map[string][]domain.ActionTemplate{
			"plan_transition": {
				{
					Type:    domain.ActionCreateDocument,
					Label:   "Create exit checklist",
					Payload: map[string]any{"documentType": "exit_checklist"},
				},
			},
			"execute_exit": {
				{
					Type:             domain.ActionSendSlackMessage,
					Label:            "Notify team of departure",
					RequiresApproval: true,
				},
			},
		},
	}
}

func compensationWorkflow() *domain.Definition {
	return &domain.Definition{
		ID:          domain.WorkflowCompensation,
		Name:        "Compensation",
		Description: "Salary bands, merit cycles, equity programs, and pay equity",
		Triggers: []domain.Trigger{
			{Pattern: `compensation|comp\s+band`, Weight: 10},
			{Pattern: `salary|pay`, Weight: 7, ContextHints: []string{"band", "range", "equity", "benchmark"}},
			{Pattern: `equity|stock|rsu|options`, Weight: 9},
			{Pattern: `merit\s+cycle|merit\s+increase|annual\s+raise`, Weight: 11},
			{Pattern: `pay\s+equity|pay\s+gap`, Weight: 11},
			{Pattern: `market\s+rate|benchmarking`, Weight: 9},
			{Pattern: `raise|promotion\s+increase`, Weight: 7, ContextHints: []string{"salary", "compensation"}},
		},
		Steps: []domain.Step{
			{
				ID:           "understand_need",
				Name:         "Understand Need",
				Description:  "Clarify compensation question or initiative",
				RequiredData: []string{"topic"},
				Next:         []string{"analyze_data"},
			},
			{
				ID:          "analyze_data",
				Name:        "Analyze Data",
				Description: "Review current comp and market data",
				Next:        []string{"design_structure"},
			},
			{
				ID:           "design_structure",
				Name:         "Design Structure",
				Description:  "Create salary bands or grant framework",
				RequiredData: []string{"proposal"},
				Next:         []string{"model_impact"},
			},
			{
				ID:           "model_impact",
				Name:         "Model Impact",
				Description:  "Project budget and equity impact",
				OptionalData: []string{"budgetImpact"},
				Next:         []string{"execute_changes"},
			},
			{
				ID:          "execute_changes",
				Name:        "Execute Changes",
				Description: "Implement compensation updates",
				Next:        []string{"close_workflow"},
			},
			{
				ID:          "close_workflow",
				Name:        "Close Workflow",
				Description: "Changes complete",
			},
		},
		Actions: map[string][]domain.ActionTemplate{
			"model_impact": {
				{
					Type:    domain.ActionExportToSheets,
					Label:   "Export to planning spreadsheet",
					Payload: map[string]any{"documentType": "compensation_proposal"},
				},
			},
		},
	}
}

func employeeRelationsWorkflow() *domain.Definition {
	return &domain.Definition{
		ID:          domain.WorkflowEmployeeRelations,
		Name:        "Employee Relations",
		Description: "ER cases, investigations, accommodations, and leave administration",
		Triggers: []domain.Trigger{
			{Pattern: `employee\s+relations|\ber\s+case|\ber\b`, Weight: 11},
			{Pattern: `investigation|investigate|complaint`, Weight: 10},
			{Pattern: `accommodation|ada|disability`, Weight: 11},
			{Pattern: `\bfmla\b|leave\s+of\s+absence|parental\s+leave`, Weight: 11},
			{Pattern: `policy|handbook|code\s+of\s+conduct`, Weight: 8, ContextHints: []string{"employee", "create", "update"}},
			{Pattern: `harassment|discrimination|hostile\s+work`, Weight: 12},
			{Pattern: `grievance|dispute|conflict`, Weight: 9},
		},
		Steps: []domain.Step{
			{
				ID:           "receive_issue",
				Name:         "Receive Issue",
				Description:  "Log ER case or request",
				RequiredData: []string{"issueSummary"},
				Next:         []string{"assess_severity"},
			},
			{
				ID:           "assess_severity",
				Name:         "Assess Severity",
				Description:  "Determine urgency and response needed",
				RequiredData: []string{"severity"},
				OptionalData: []string{"investigationNeeded"},
				Next:         []string{"investigate", "recommend_action"},
				Branches: []domain.Branch{
					{When: "investigationNeeded", To: "investigate"},
				},
			},
			{
				ID:           "investigate",
				Name:         "Investigate",
				Description:  "Conduct investigation if needed",
				RequiredData: []string{"findings"},
				Next:         []string{"recommend_action"},
			},
			{
				ID:           "recommend_action",
				Name:         "Recommend Action",
				Description:  "Propose resolution or next steps",
				RequiredData: []string{"recommendation"},
				Next:         []string{"close_case"},
			},
			{
				ID:          "close_case",
				Name:        "Close Case",
				Description: "Resolve case and document outcome",
			},
		},
		Actions: map[string][]domain.ActionTemplate{
			"investigate": {
				{
					Type:             domain.ActionCreateDocument,
					Label:            "Create investigation report",
					RequiresApproval: true,
					Payload:          map[string]any{"documentType": "investigation_report"},
				},
			},
		},
	}
}

func complianceWorkflow() *domain.Definition {
	return &domain.Definition{
		ID:          domain.WorkflowCompliance,
		Name:        "Compliance",
		Description: "I-9, EEO, benefits enrollment, and regulatory requirements",
		Triggers: []domain.Trigger{
			{Pattern: `compliance|regulatory|legal\s+requirement`, Weight: 10},
			{Pattern: `\bi-?9\b|employment\s+eligibility`, Weight: 12},
			{Pattern: `\beeo\b|equal\s+employment|affirmative\s+action`, Weight: 11},
			{Pattern: `benefits?\s+enrollment|open\s+enrollment`, Weight: 10},
			{Pattern: `\bwarn\s+act\b`, Weight: 12},
			{Pattern: `\bcobra\b`, Weight: 10},
			{Pattern: `audit|compliance\s+check`, Weight: 9},
			{Pattern: `mandatory\s+training|compliance\s+training`, Weight: 9},
		},
		Steps: []domain.Step{
			{
				ID:           "identify_requirement",
				Name:         "Identify Requirement",
				Description:  "Understand compliance need",
				RequiredData: []string{"requirement"},
				Next:         []string{"assess_compliance"},
			},
			{
				ID:           "assess_compliance",
				Name:         "Assess Compliance",
				Description:  "Check current compliance status",
				RequiredData: []string{"status"},
				Next:         []string{"create_documentation"},
			},
			{
				ID:          "create_documentation",
				Name:        "Create Documentation",
				Description: "Generate required documentation",
				Next:        []string{"implement_process"},
			},
			{
				ID:          "implement_process",
				Name:        "Implement Process",
				Description: "Put compliance process in place",
				Next:        []string{"monitor_ongoing"},
			},
			{
				ID:          "monitor_ongoing",
				Name:        "Monitor Ongoing",
				Description: "Track ongoing compliance",
				Next:        []string{"close_workflow"},
			},
			{
				ID:          "close_workflow",
				Name:        "Close Workflow",
				Description: "Compliance achieved",
			},
		},
		Actions: map[string][]domain.ActionTemplate{
			"create_documentation": {
				{
					Type:    domain.ActionCreateDocument,
					Label:   "Generate policy document",
					Payload: map[string]any{"documentType": "policy_document"},
				},
			},
		},
	}
}

func generalWorkflow() *domain.Definition {
	return &domain.Definition{
		ID:          domain.WorkflowGeneral,
		Name:        "General HR Assistant",
		Description: "General HR guidance for messages that match no specific workflow",
	}
}
