package guard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cooltech/fridgebot/core"
)

// Factual claim patterns. A claim is a concrete, checkable assertion a
// shopper would rely on: a price, a capacity, a model code or a warranty
// period. Each one found in the answer must literally appear in the
// retrieved catalog text, otherwise the answer is asserting a fact the
// catalog never stated.
var (
	pricePattern    = regexp.MustCompile(`\$\d[\d,]*`)
	capacityPattern = regexp.MustCompile(`\b\d+\s?L\b`)
	modelPattern    = regexp.MustCompile(`\b[A-Z]{2,}-?\d+(?:-[A-Z0-9]+)?\b`)
	warrantyPattern = regexp.MustCompile(`\b\d+\s?(?:years?|yrs?)\b`)

	claimPatterns = []*regexp.Regexp{pricePattern, capacityPattern, modelPattern, warrantyPattern}
)

// extractClaims pulls the checkable factual claims out of an answer,
// deduplicated, in order of first appearance.
func extractClaims(answer string) []string {
	var claims []string
	seen := make(map[string]bool)
	for _, pattern := range claimPatterns {
		for _, match := range pattern.FindAllString(answer, -1) {
			key := normalizeClaim(match)
			if !seen[key] {
				seen[key] = true
				claims = append(claims, match)
			}
		}
	}
	return claims
}

// checkGrounding verifies that every factual claim in the answer traces to
// the retrieved context. Claims are compared against the claims extracted
// from the context with the same patterns, so a wrong fact is never excused
// by being a fragment of a real one ("$49" does not trace to "$499").
// It returns one violation per unsupported claim.
func checkGrounding(answer string, retrieved []core.SearchResult) []string {
	claims := extractClaims(answer)
	if len(claims) == 0 {
		return nil
	}

	supported := make(map[string]bool)
	for i := range retrieved {
		for _, pattern := range claimPatterns {
			for _, match := range pattern.FindAllString(retrieved[i].Record.Text, -1) {
				supported[normalizeClaim(match)] = true
			}
		}
	}

	var violations []string
	for _, claim := range claims {
		if !supported[normalizeClaim(claim)] {
			violations = append(violations,
				fmt.Sprintf("the claim %q does not appear in the product catalog context", claim))
		}
	}
	return violations
}

// normalizeClaim lowercases and strips spacing so "550 L" matches "550L"
// and "5 Years" matches "5 years".
func normalizeClaim(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}
