package detect

import (
	"regexp"
	"strings"
)

// Lightweight intent helpers used by callers to enrich routing decisions.
// They share the classifier's no-NLU philosophy: keyword and pattern checks
// only, no external calls.

var employeeNamePattern = regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)`)

// departments recognized by DetectDepartmentMention, longest-phrase entries
// first so "customer success" wins over a bare "success" token elsewhere.
// Matched on word boundaries so short names like "it" and "hr" do not fire
// inside unrelated words.
var departments = []string{
	"customer success",
	"engineering",
	"operations",
	"marketing",
	"product",
	"finance",
	"design",
	"legal",
	"sales",
	"admin",
	"hr",
	"it",
}

var departmentPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(departments))
	for i, dept := range departments {
		out[i] = regexp.MustCompile(`\b` + strings.ReplaceAll(dept, " ", `\s+`) + `\b`)
	}
	return out
}()

var actionVerbPatterns = compileAll(
	`(?i)create`,
	`(?i)make`,
	`(?i)generate`,
	`(?i)draft`,
	`(?i)write`,
	`(?i)send`,
	`(?i)schedule`,
	`(?i)set\s+up`,
	`(?i)build`,
	`(?i)design`,
	`(?i)help\s+me\s+(?:create|make|draft|write)`,
)

var analysisPatterns = compileAll(
	`(?i)why`,
	`(?i)analyze`,
	`(?i)explain`,
	`(?i)insight`,
	`(?i)trend`,
	`(?i)pattern`,
	`(?i)what.*happening`,
	`(?i)what.*changed`,
	`(?i)compare`,
	`(?i)how.*different`,
)

// DetectEmployeeMention returns a capitalized First Last name mentioned in
// the message, or "" if none is found. Matching is intentionally naive;
// resolution against real employee records belongs to an external
// collaborator.
func DetectEmployeeMention(message string) string {
	return employeeNamePattern.FindString(message)
}

// DetectDepartmentMention returns the mentioned department, title-cased, or
// "" when none matches.
func DetectDepartmentMention(message string) string {
	normalized := strings.ToLower(message)
	for i, pattern := range departmentPatterns {
		if pattern.MatchString(normalized) {
			dept := departments[i]
			return strings.ToUpper(dept[:1]) + dept[1:]
		}
	}
	return ""
}

// IsActionIntent reports whether the user wants to take an action rather
// than just get information.
func IsActionIntent(message string) bool {
	for _, p := range actionVerbPatterns {
		if p.MatchString(message) {
			return true
		}
	}
	return false
}

// IsAnalysisIntent reports whether the user is asking for analysis or
// insights rather than raw data.
func IsAnalysisIntent(message string) bool {
	for _, p := range analysisPatterns {
		if p.MatchString(message) {
			return true
		}
	}
	return false
}
