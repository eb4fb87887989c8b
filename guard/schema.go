package guard

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMaxAnswerLength caps accepted answers. Anything longer than this is
// runaway generation, not a product answer.
const DefaultMaxAnswerLength = 4000

// PII patterns an answer must never carry. Matching the original detector
// set: email addresses, phone numbers, credit cards, SSNs.
var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b(?:\+?\d{1,2}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)
	cardPattern  = regexp.MustCompile(`\b(?:\d{4}[\s-]?){3}\d{4}\b`)
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
)

// confidentialMarkers are phrases that indicate the answer is leaking
// internal information instead of talking about products.
var confidentialMarkers = []string{
	"api key", "password", "credential", "internal system",
	"employee data", "salary", "supplier", "manufacturing cost",
	"company secret",
}

// ContainsPII reports whether the text carries personal data (email, phone,
// credit card or SSN). Exposed for input screening ahead of retrieval.
func ContainsPII(text string) bool {
	return emailPattern.MatchString(text) ||
		phonePattern.MatchString(text) ||
		cardPattern.MatchString(text) ||
		ssnPattern.MatchString(text)
}

// checkSchema validates the shape and content policy of a candidate answer.
// It returns one violation string per failed rule, empty when the answer is
// clean. Violations are phrased so they can be fed back to the generator as
// repair instructions.
func checkSchema(answer string, maxLength int) []string {
	var violations []string

	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return []string{"the answer is empty"}
	}
	if len(trimmed) > maxLength {
		violations = append(violations,
			fmt.Sprintf("the answer is %d characters long, the limit is %d", len(trimmed), maxLength))
	}

	if emailPattern.MatchString(trimmed) ||
		phonePattern.MatchString(trimmed) ||
		cardPattern.MatchString(trimmed) ||
		ssnPattern.MatchString(trimmed) {
		violations = append(violations,
			"the answer contains personal data (email, phone, card or SSN), which must never appear")
	}

	lower := strings.ToLower(trimmed)
	for _, marker := range confidentialMarkers {
		if strings.Contains(lower, marker) {
			violations = append(violations,
				fmt.Sprintf("the answer mentions %q, which is confidential and off limits", marker))
			break
		}
	}

	return violations
}
