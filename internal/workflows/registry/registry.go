// Package registry holds the workflow rule table: the built-in workflow
// definitions, optional user-defined definitions loaded from YAML, and the
// startup validation that makes a malformed rule table a fatal configuration
// error instead of a runtime surprise.
package registry

import (
	"fmt"

	"github.com/peoplekit/peoplekit/internal/log"
	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

// Registry is the read-only rule table shared by the classifier, the document
// router, and the state machine. It is safe for concurrent use after New
// returns; nothing mutates it afterwards.
type Registry struct {
	defs  map[domain.WorkflowID]*domain.Definition
	order []domain.WorkflowID
}

// New builds a registry from definitions in declaration order, compiles every
// trigger, and validates each workflow's step graph. Declaration order is
// also the classifier's tie-break priority, so it is part of the rule table's
// contract, not incidental.
func New(defs []*domain.Definition) (*Registry, error) {
	r := &Registry{
		defs: make(map[domain.WorkflowID]*domain.Definition, len(defs)),
	}
	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("workflow definition with empty id")
		}
		if _, dup := r.defs[def.ID]; dup {
			return nil, fmt.Errorf("duplicate workflow definition %q", def.ID)
		}
		if err := validateDefinition(def); err != nil {
			return nil, fmt.Errorf("workflow %q: %w", def.ID, err)
		}
		r.defs[def.ID] = def
		r.order = append(r.order, def.ID)
	}
	if _, ok := r.defs[domain.WorkflowGeneral]; !ok {
		return nil, fmt.Errorf("rule table must include the %q fallback workflow", domain.WorkflowGeneral)
	}
	log.Debug(log.CatConfig, "Rule table validated", "workflows", len(r.order))
	return r, nil
}

// NewBuiltin builds a registry from the built-in rule table.
func NewBuiltin() (*Registry, error) {
	return New(builtinDefinitions())
}

// Get looks up a workflow definition by ID.
func (r *Registry) Get(id domain.WorkflowID) (*domain.Definition, bool) {
	def, ok := r.defs[id]
	return def, ok
}

// Definitions returns all definitions in priority (declaration) order.
func (r *Registry) Definitions() []*domain.Definition {
	out := make([]*domain.Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// Priority returns the tie-break ordering of workflow IDs.
func (r *Registry) Priority() []domain.WorkflowID {
	return append([]domain.WorkflowID(nil), r.order...)
}

// validateDefinition compiles triggers and checks the step graph invariants:
// unique step IDs, transition targets that exist, branch selector fields that
// some step declares, and a path from every step to a terminal step.
func validateDefinition(def *domain.Definition) error {
	for i := range def.Triggers {
		if err := def.Triggers[i].Compile(); err != nil {
			return err
		}
	}

	if def.ID.IsGeneral() {
		if len(def.Triggers) > 0 {
			return fmt.Errorf("fallback workflow must not declare triggers")
		}
		return nil
	}
	if len(def.Triggers) == 0 {
		return fmt.Errorf("no triggers declared")
	}
	if len(def.Steps) == 0 {
		return fmt.Errorf("no steps declared")
	}

	seen := make(map[string]domain.Step, len(def.Steps))
	for _, step := range def.Steps {
		if step.ID == "" {
			return fmt.Errorf("step with empty id")
		}
		if _, dup := seen[step.ID]; dup {
			return fmt.Errorf("duplicate step id %q", step.ID)
		}
		seen[step.ID] = step
	}

	for _, step := range def.Steps {
		for _, next := range step.Next {
			if _, ok := seen[next]; !ok {
				return fmt.Errorf("step %q: transition target %q does not exist", step.ID, next)
			}
		}
		for _, br := range step.Branches {
			if _, ok := seen[br.To]; !ok {
				return fmt.Errorf("step %q: branch target %q does not exist", step.ID, br.To)
			}
			if !containsString(step.Next, br.To) {
				return fmt.Errorf("step %q: branch target %q is not an allowed next step", step.ID, br.To)
			}
			if !def.DeclaresField(br.When) {
				return fmt.Errorf("step %q: branch selector %q is not declared by any step", step.ID, br.When)
			}
		}
	}

	// Reverse reachability from terminal steps: every step must have a path
	// to some terminal step, otherwise the workflow can never complete.
	reachesTerminal := make(map[string]bool, len(def.Steps))
	for _, step := range def.Steps {
		if step.Terminal() {
			reachesTerminal[step.ID] = true
		}
	}
	if len(reachesTerminal) == 0 {
		return fmt.Errorf("no terminal step (every step has outgoing transitions)")
	}
	for changed := true; changed; {
		changed = false
		for _, step := range def.Steps {
			if reachesTerminal[step.ID] {
				continue
			}
			for _, next := range step.Next {
				if reachesTerminal[next] {
					reachesTerminal[step.ID] = true
					changed = true
					break
				}
			}
		}
	}
	for _, step := range def.Steps {
		if !reachesTerminal[step.ID] {
			return fmt.Errorf("step %q has no path to a terminal step", step.ID)
		}
	}

	// Forward reachability from the start step: unreachable steps are dead
	// configuration and almost always a typo in a Next list.
	reachable := map[string]bool{def.Steps[0].ID: true}
	for changed := true; changed; {
		changed = false
		for _, step := range def.Steps {
			if !reachable[step.ID] {
				continue
			}
			for _, next := range step.Next {
				if !reachable[next] {
					reachable[next] = true
					changed = true
				}
			}
		}
	}
	for _, step := range def.Steps {
		if !reachable[step.ID] {
			return fmt.Errorf("step %q is unreachable from start step %q", step.ID, def.Steps[0].ID)
		}
	}

	for stepID := range def.Actions {
		if _, ok := seen[stepID]; !ok {
			return fmt.Errorf("actions declared for unknown step %q", stepID)
		}
	}

	return nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
