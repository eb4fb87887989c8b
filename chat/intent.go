package chat

import (
	"strings"

	"github.com/cooltech/fridgebot/guard"
)

// intent classifies an incoming query before any retrieval happens.
type intent int

const (
	intentNormal intent = iota
	intentConfidential
	intentPII
	intentToxic
)

// confidentialKeywords mark queries fishing for internal information.
var confidentialKeywords = []string{
	"api key", "password", "secret", "credential", "token",
	"employee", "salary", "internal", "confidential", "private",
	"database", "system", "admin", "backend", "server",
}

// toxicMarkers is a coarse blocklist. It is not a toxicity classifier; it
// catches the hostile phrasings worth deflecting with a calm response
// instead of a product answer.
var toxicMarkers = []string{
	"stupid", "idiot", "moron", "hate you", "useless",
	"garbage", "worst", "shut up", "screw you",
}

// detectIntent screens a query for personal data, confidential fishing and
// hostile phrasing, in that order.
func detectIntent(query string) intent {
	if guard.ContainsPII(query) {
		return intentPII
	}

	lower := strings.ToLower(query)
	for _, keyword := range confidentialKeywords {
		if strings.Contains(lower, keyword) {
			return intentConfidential
		}
	}
	for _, marker := range toxicMarkers {
		if strings.Contains(lower, marker) {
			return intentToxic
		}
	}
	return intentNormal
}
