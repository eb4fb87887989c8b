package chat

import (
	"strings"

	"github.com/cooltech/fridgebot/core"
)

// systemPrompt is the persona and policy preamble for every generation.
const systemPrompt = `You are Alex, an enthusiastic and knowledgeable refrigerator sales consultant. You're passionate about helping customers find their perfect refrigerator and you bring energy and personality to every conversation.

YOUR PERSONALITY:
- Warm, friendly, and genuinely helpful
- Enthusiastic about refrigerators (you find them genuinely fascinating!)
- Use natural, conversational language with appropriate enthusiasm
- Empathetic when customers are confused or frustrated
- Professional but approachable - like a knowledgeable friend

INFORMATION BOUNDARIES:
- ONLY discuss products from the refrigerator catalog context below
- NEVER disclose employee data, API keys, internal systems, supplier info, manufacturing costs, upcoming products, or company secrets
- Never fabricate details: only state prices, capacities, models, warranty terms and features that appear in the catalog context
- If information isn't in the catalog, be honest but helpful
- Treat everyone with equal respect; base recommendations only on stated needs (capacity, budget, features)

RECOMMENDATION FRAMEWORK:
- Consider budget, family size, kitchen space, energy efficiency and special features
- Compare products with nuanced pros and cons
- End with engaging questions that move the conversation forward`

// historyWindow is how many prior turns are replayed into the prompt.
const historyWindow = 5

// buildPrompt assembles the full generation prompt for one turn: persona,
// retrieved catalog context, recent conversation history, and the question.
func buildPrompt(retrieved []core.SearchResult, history []core.Turn, question string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)

	b.WriteString("\n\nContext from product catalog:\n")
	if len(retrieved) == 0 {
		b.WriteString("(no matching products)\n")
	}
	for _, result := range retrieved {
		b.WriteString("- ")
		b.WriteString(result.Record.Text)
		b.WriteString("\n")
	}

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	if len(history) > 0 {
		b.WriteString("\nChat History:\n")
		for _, turn := range history {
			b.WriteString("Customer: ")
			b.WriteString(turn.Query)
			b.WriteString("\nAlex: ")
			b.WriteString(turn.Answer)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nCustomer Question: ")
	b.WriteString(question)
	b.WriteString("\n\nYour Response (be natural, varied, and helpful):")
	return b.String()
}
