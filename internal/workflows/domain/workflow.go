// Package domain defines the core types for the workflow engine: the
// declarative rule table (workflow definitions, triggers, steps), the
// classification inputs and outputs, and the per-conversation state that the
// state machine mutates and the persistence layer stores.
package domain

import (
	"fmt"
	"regexp"
)

// WorkflowID identifies one of the closed set of HR workflows.
type WorkflowID string

// The workflow identifiers. WorkflowGeneral is the fallback when no workflow
// scores above the activation threshold; it has no triggers and no steps.
const (
	WorkflowHiring            WorkflowID = "hiring"
	WorkflowPerformance       WorkflowID = "performance"
	WorkflowAnalytics         WorkflowID = "analytics"
	WorkflowOnboarding        WorkflowID = "onboarding"
	WorkflowOffboarding       WorkflowID = "offboarding"
	WorkflowCompensation      WorkflowID = "compensation"
	WorkflowEmployeeRelations WorkflowID = "employee_relations"
	WorkflowCompliance        WorkflowID = "compliance"
	WorkflowGeneral           WorkflowID = "general"
)

// IsGeneral reports whether this is the fallback workflow.
func (id WorkflowID) IsGeneral() bool {
	return id == WorkflowGeneral
}

// Trigger is a weighted pattern rule used to score a message against a
// workflow. Pattern holds the regexp source; Compile must be called before
// Matches (the registry does this at load time so a bad pattern is a startup
// error, not a per-request one).
type Trigger struct {
	Pattern      string   `yaml:"pattern"`
	Weight       int      `yaml:"weight"`
	ContextHints []string `yaml:"context_hints,omitempty"`
	Capability   string   `yaml:"capability,omitempty"`

	re *regexp.Regexp
}

// Compile parses the trigger's pattern source. The weight must be positive.
func (t *Trigger) Compile() error {
	if t.Weight <= 0 {
		return fmt.Errorf("trigger %q: weight must be positive, got %d", t.Pattern, t.Weight)
	}
	re, err := regexp.Compile(t.Pattern)
	if err != nil {
		return fmt.Errorf("trigger %q: %w", t.Pattern, err)
	}
	t.re = re
	return nil
}

// Matches tests the compiled pattern against a normalized message.
// Returns false if the trigger was never compiled.
func (t *Trigger) Matches(message string) bool {
	return t.re != nil && t.re.MatchString(message)
}

// Branch routes a multi-target step: when the selector field named by When is
// present in the collected data, Advance moves to the step named by To.
// Branches are evaluated in declaration order; the first hit wins.
type Branch struct {
	When string `yaml:"when"`
	To   string `yaml:"to"`
}

// Step is a node in a workflow's state graph. A step with no Next entries is
// terminal. RequiredData must all be collected before Advance leaves the
// step; OptionalData declares additional fields a caller may supply while the
// step is current (including branch selector fields).
type Step struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description,omitempty"`
	RequiredData []string `yaml:"required_data,omitempty"`
	OptionalData []string `yaml:"optional_data,omitempty"`
	Next         []string `yaml:"next,omitempty"`
	Branches     []Branch `yaml:"branches,omitempty"`
}

// Terminal reports whether the step has no outgoing transitions.
func (s Step) Terminal() bool {
	return len(s.Next) == 0
}

// Declares reports whether the step declares the field as required or optional.
func (s Step) Declares(field string) bool {
	for _, f := range s.RequiredData {
		if f == field {
			return true
		}
	}
	for _, f := range s.OptionalData {
		if f == field {
			return true
		}
	}
	return false
}

// ActionTemplate is the step-level configuration a suggested action is
// materialized from when the machine advances into the step.
type ActionTemplate struct {
	Type             ActionType     `yaml:"type"`
	Label            string         `yaml:"label"`
	Description      string         `yaml:"description,omitempty"`
	RequiresApproval bool           `yaml:"requires_approval,omitempty"`
	Payload          map[string]any `yaml:"payload,omitempty"`
}

// Definition is the static configuration for one workflow: its trigger
// patterns, detection keywords, step graph, and per-step suggested actions.
// Definitions are immutable after registry validation.
type Definition struct {
	ID          WorkflowID `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Triggers    []Trigger  `yaml:"triggers,omitempty"`
	Keywords    []string   `yaml:"keywords,omitempty"`
	Steps       []Step     `yaml:"steps,omitempty"`

	// Actions maps a step ID to the actions suggested on entering that step.
	Actions map[string][]ActionTemplate `yaml:"actions,omitempty"`
}

// StartStep returns the first step in the definition, which is the state
// machine's designated start step.
func (d *Definition) StartStep() (Step, bool) {
	if len(d.Steps) == 0 {
		return Step{}, false
	}
	return d.Steps[0], true
}

// Step looks up a step by ID.
func (d *Definition) Step(id string) (Step, bool) {
	for _, s := range d.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

// DeclaresField reports whether any step in the workflow declares the field.
func (d *Definition) DeclaresField(field string) bool {
	for _, s := range d.Steps {
		if s.Declares(field) {
			return true
		}
	}
	return false
}
