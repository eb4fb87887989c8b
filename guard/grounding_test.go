package guard

import (
	"testing"

	"github.com/cooltech/fridgebot/core"
)

func r1Context() []core.SearchResult {
	return []core.SearchResult{
		{Record: &core.CatalogRecord{ID: "R1", Text: "RF100, 300L, $499"}, Score: 0.92},
	}
}

func TestCheckGrounding(t *testing.T) {
	tests := []struct {
		name       string
		answer     string
		violations int
	}{
		{"all claims traced", "The RF100 is a 300L model priced at $499.", 0},
		{"no factual claims", "We have a lovely fridge that would suit you well.", 0},
		{"invented price", "The RF100 costs $599.", 1},
		{"wrong price that prefixes the real one", "The RF100 costs only $49.", 1},
		{"wrong capacity that prefixes the real one", "The RF100 holds 30L.", 1},
		{"invented warranty", "The RF100 comes with a 5 year warranty.", 1},
		{"invented model", "You might also like the XQ-900-TURBO.", 1},
		{"spacing and case ignored", "It holds 300 L and costs $499.", 0},
		{"multiple inventions", "The RF200 holds 800L and costs $1,299.", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkGrounding(tt.answer, r1Context())
			if len(got) != tt.violations {
				t.Errorf("checkGrounding() = %d violations %v, want %d", len(got), got, tt.violations)
			}
		})
	}
}

func TestCheckGrounding_EmptyContext(t *testing.T) {
	// With nothing retrieved, any factual claim is ungrounded.
	got := checkGrounding("The RF100 costs $499.", nil)
	if len(got) != 2 {
		t.Errorf("checkGrounding() = %v, want 2 violations", got)
	}
}
