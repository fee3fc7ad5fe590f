// Package detect implements intent classification for inbound messages: a
// pattern-weighted scorer that assigns a message to a workflow with a
// confidence value, and a document-type router for artifact-generation
// requests. Both are pure functions over the rule table and safe for
// concurrent use.
package detect

import (
	"fmt"
	"strings"

	"github.com/peoplekit/peoplekit/internal/workflows/domain"
	"github.com/peoplekit/peoplekit/internal/workflows/registry"
)

// Scoring constants. Raw trigger weights accumulate per workflow; the winning
// score is scaled by ConfidenceScale into a 0-100 confidence, capped at 100.
const (
	// MinScoreThreshold is the minimum raw score for a workflow to win;
	// anything lower falls back to general chat.
	MinScoreThreshold = 7
	// ContextBoost is added when a matched trigger's context hint appears in
	// the message (at most once per trigger), and again when a workflow
	// keyword appears as a message token (at most once per workflow).
	ContextBoost = 10
	// ContinuityBoost keeps multi-turn conversations sticky to the workflow
	// that is already active.
	ContinuityBoost = 15
	// ConfidenceScale converts a raw score into a 0-100 confidence.
	ConfidenceScale = 10
	// HighConfidenceThreshold marks a very confident match.
	HighConfidenceThreshold = 90
)

// Detector classifies messages against a validated rule table.
type Detector struct {
	reg *registry.Registry
}

// NewDetector creates a Detector over the given registry.
func NewDetector(reg *registry.Registry) *Detector {
	return &Detector{reg: reg}
}

// Classify scores the message against every non-general workflow and returns
// the best match. Ties are broken by the registry's declaration order: the
// leader is replaced only on a strictly greater score. A top score below
// MinScoreThreshold degrades to the general workflow with confidence 0.
func (d *Detector) Classify(ctx domain.DetectionContext) domain.WorkflowMatch {
	normalized := strings.ToLower(strings.TrimSpace(ctx.Message))
	tokens := strings.Fields(normalized)

	best := domain.WorkflowMatch{WorkflowID: domain.WorkflowGeneral}
	bestScore := 0
	anyMatch := false

	for _, def := range d.reg.Definitions() {
		if def.ID.IsGeneral() {
			continue
		}

		score := 0
		var matched []domain.Trigger
		var factors []string

		for i := range def.Triggers {
			trigger := &def.Triggers[i]
			if !trigger.Matches(normalized) {
				continue
			}
			score += trigger.Weight
			matched = append(matched, *trigger)

			for _, hint := range trigger.ContextHints {
				if strings.Contains(normalized, strings.ToLower(hint)) {
					score += ContextBoost
					factors = append(factors, "context_hint: "+hint)
					break // one context hint per trigger
				}
			}
			factors = append(factors, "pattern: "+trigger.Pattern)
		}

		if score > 0 && hasKeywordToken(def.Keywords, tokens) {
			score += ContextBoost
			factors = append(factors, "keyword_boost")
		}

		if score > 0 && def.ID == ctx.CurrentWorkflow && !ctx.CurrentWorkflow.IsGeneral() {
			score += ContinuityBoost
			factors = append(factors, "conversation_continuity")
		}

		if score > 0 {
			anyMatch = true
		}
		if score > bestScore {
			bestScore = score
			best = domain.WorkflowMatch{
				WorkflowID:      def.ID,
				MatchedTriggers: matched,
				ContextFactors:  factors,
			}
		}
	}

	if !anyMatch {
		return domain.WorkflowMatch{
			WorkflowID:     domain.WorkflowGeneral,
			Confidence:     0,
			ContextFactors: []string{"no_patterns_matched"},
		}
	}
	if bestScore < MinScoreThreshold {
		return domain.WorkflowMatch{
			WorkflowID:     domain.WorkflowGeneral,
			Confidence:     0,
			ContextFactors: []string{"confidence_below_threshold"},
		}
	}

	best.Confidence = scaleConfidence(bestScore)
	return best
}

// hasKeywordToken reports whether any workflow keyword appears as a whole
// token of the message. Substring matches do not count; that is what
// trigger patterns are for.
func hasKeywordToken(keywords []string, tokens []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		for _, tok := range tokens {
			if tok == kw {
				return true
			}
		}
	}
	return false
}

func scaleConfidence(score int) int {
	confidence := score * ConfidenceScale
	if confidence > 100 {
		return 100
	}
	return confidence
}

// Explain renders a short human-readable description of a match for debug
// surfaces.
func Explain(match domain.WorkflowMatch) string {
	return fmt.Sprintf("%s (confidence %d, %d triggers, %s)",
		match.WorkflowID, match.Confidence, len(match.MatchedTriggers),
		strings.Join(match.ContextFactors, "; "))
}
