package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/peoplekit/peoplekit/internal/workflows/domain"
	"github.com/peoplekit/peoplekit/internal/workflows/registry"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	reg, err := registry.NewBuiltin()
	require.NoError(t, err)
	return NewDetector(reg)
}

func TestClassify(t *testing.T) {
	d := newTestDetector(t)

	t.Run("job description request maps to hiring with full confidence", func(t *testing.T) {
		match := d.Classify(domain.DetectionContext{
			Message: "Write a job description for a senior engineer",
		})

		assert.Equal(t, domain.WorkflowHiring, match.WorkflowID)
		assert.Equal(t, 100, match.Confidence)
		assert.NotEmpty(t, match.MatchedTriggers)
		assert.Contains(t, match.ContextFactors, "keyword_boost")
	})

	t.Run("pip request maps to performance", func(t *testing.T) {
		match := d.Classify(domain.DetectionContext{
			Message: "Draft a PIP for John",
		})

		assert.Equal(t, domain.WorkflowPerformance, match.WorkflowID)
		assert.GreaterOrEqual(t, match.Confidence, HighConfidenceThreshold)
	})

	t.Run("no trigger match falls back to general", func(t *testing.T) {
		match := d.Classify(domain.DetectionContext{
			Message: "what a lovely day outside",
		})

		assert.Equal(t, domain.WorkflowGeneral, match.WorkflowID)
		assert.Zero(t, match.Confidence)
		assert.Equal(t, []string{"no_patterns_matched"}, match.ContextFactors)
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		lower := d.Classify(domain.DetectionContext{Message: "write a job description"})
		upper := d.Classify(domain.DetectionContext{Message: "WRITE A JOB DESCRIPTION"})

		assert.Equal(t, lower.WorkflowID, upper.WorkflowID)
		assert.Equal(t, lower.Confidence, upper.Confidence)
	})

	t.Run("classification is deterministic", func(t *testing.T) {
		ctx := domain.DetectionContext{Message: "schedule interviews for the candidate pipeline"}
		first := d.Classify(ctx)
		for range 10 {
			again := d.Classify(ctx)
			assert.Equal(t, first.WorkflowID, again.WorkflowID)
			assert.Equal(t, first.Confidence, again.Confidence)
			assert.Equal(t, first.ContextFactors, again.ContextFactors)
		}
	})

	t.Run("context hint is recorded as a factor", func(t *testing.T) {
		bare := d.Classify(domain.DetectionContext{Message: "the interview is tomorrow"})
		hinted := d.Classify(domain.DetectionContext{Message: "prepare interview questions"})

		require.Equal(t, domain.WorkflowHiring, hinted.WorkflowID)
		assert.Contains(t, hinted.ContextFactors, "context_hint: questions")
		assert.NotContains(t, bare.ContextFactors, "context_hint: questions")
	})

	t.Run("continuity boost keeps the active workflow sticky", func(t *testing.T) {
		// "we might recruit soon" scores just at the threshold for hiring.
		cold := d.Classify(domain.DetectionContext{
			Message: "we might recruit soon",
		})
		warm := d.Classify(domain.DetectionContext{
			Message:         "we might recruit soon",
			CurrentWorkflow: domain.WorkflowHiring,
		})

		require.Equal(t, domain.WorkflowHiring, cold.WorkflowID)
		require.Equal(t, domain.WorkflowHiring, warm.WorkflowID)
		assert.Greater(t, warm.Confidence, cold.Confidence)
		assert.Contains(t, warm.ContextFactors, "conversation_continuity")
	})

	t.Run("no continuity boost for the general workflow", func(t *testing.T) {
		match := d.Classify(domain.DetectionContext{
			Message:         "we might recruit soon",
			CurrentWorkflow: domain.WorkflowGeneral,
		})

		assert.NotContains(t, match.ContextFactors, "conversation_continuity")
	})

	t.Run("continuity alone cannot promote a zero-score workflow", func(t *testing.T) {
		match := d.Classify(domain.DetectionContext{
			Message:         "what a lovely day outside",
			CurrentWorkflow: domain.WorkflowHiring,
		})

		assert.Equal(t, domain.WorkflowGeneral, match.WorkflowID)
		assert.Zero(t, match.Confidence)
	})

	t.Run("sub-threshold score degrades to general", func(t *testing.T) {
		reg, err := registry.New([]*domain.Definition{
			{
				ID:          domain.WorkflowID("travel"),
				Name:        "Travel",
				Description: "Travel requests",
				Triggers:    []domain.Trigger{{Pattern: `visa`, Weight: 3}},
				Steps: []domain.Step{
					{ID: "start", Name: "Start", Next: []string{"done"}},
					{ID: "done", Name: "Done"},
				},
			},
			{ID: domain.WorkflowGeneral, Name: "General", Description: "Fallback"},
		})
		require.NoError(t, err)

		match := NewDetector(reg).Classify(domain.DetectionContext{Message: "I need a visa"})

		assert.Equal(t, domain.WorkflowGeneral, match.WorkflowID)
		assert.Zero(t, match.Confidence)
		assert.Equal(t, []string{"confidence_below_threshold"}, match.ContextFactors)
	})

	t.Run("ties break toward earlier declaration", func(t *testing.T) {
		reg, err := registry.New([]*domain.Definition{
			{
				ID:          domain.WorkflowID("first"),
				Name:        "First",
				Description: "Declared first",
				Triggers:    []domain.Trigger{{Pattern: `budget`, Weight: 8}},
				Steps: []domain.Step{
					{ID: "start", Name: "Start", Next: []string{"done"}},
					{ID: "done", Name: "Done"},
				},
			},
			{
				ID:          domain.WorkflowID("second"),
				Name:        "Second",
				Description: "Declared second",
				Triggers:    []domain.Trigger{{Pattern: `budget`, Weight: 8}},
				Steps: []domain.Step{
					{ID: "start", Name: "Start", Next: []string{"done"}},
					{ID: "done", Name: "Done"},
				},
			},
			{ID: domain.WorkflowGeneral, Name: "General", Description: "Fallback"},
		})
		require.NoError(t, err)

		match := NewDetector(reg).Classify(domain.DetectionContext{Message: "plan the budget"})

		assert.Equal(t, domain.WorkflowID("first"), match.WorkflowID)
	})
}

func TestClassify_Properties(t *testing.T) {
	reg, err := registry.NewBuiltin()
	require.NoError(t, err)
	d := NewDetector(reg)

	rapid.Check(t, func(t *rapid.T) {
		message := rapid.StringMatching(`[ -~]{0,200}`).Draw(t, "message")
		match := d.Classify(domain.DetectionContext{Message: message})

		// Confidence is always an integer in [0, 100].
		if match.Confidence < 0 || match.Confidence > 100 {
			t.Fatalf("confidence %d out of range for message %q", match.Confidence, message)
		}

		// The verdict always names a registered workflow.
		if _, ok := reg.Get(match.WorkflowID); !ok {
			t.Fatalf("unknown workflow %q for message %q", match.WorkflowID, message)
		}

		// General always means zero confidence and vice versa.
		if match.WorkflowID.IsGeneral() != (match.Confidence == 0) {
			t.Fatalf("workflow %q with confidence %d for message %q",
				match.WorkflowID, match.Confidence, message)
		}
	})
}

func TestExplain(t *testing.T) {
	d := newTestDetector(t)

	match := d.Classify(domain.DetectionContext{Message: "write a job description"})
	out := Explain(match)

	assert.Contains(t, out, string(domain.WorkflowHiring))
	assert.Contains(t, out, "confidence")
	assert.True(t, strings.Contains(out, "pattern:") || strings.Contains(out, "keyword_boost"))
}
