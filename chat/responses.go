package chat

import (
	"math/rand/v2"
	"sync"
)

// Decline categories.
const (
	declineConfidential = "confidential_info"
	declinePII          = "pii_detected"
	declineToxic        = "toxic_language"
	declineOffTopic     = "off_topic"
)

// declineResponses holds the varied ways to turn down a query per category.
// Keeping several phrasings per category and rotating through them is
// deliberate: a fixed decline message reads robotic and invites probing.
var declineResponses = map[string][]string{
	declineConfidential: {
		"I appreciate your curiosity, but that information is confidential and outside my area of expertise. However, I'm a refrigerator specialist! Let me help you find the perfect cooling solution for your needs. What capacity are you looking for?",
		"That's actually not something I have access to - my expertise is specifically in our refrigerator products. But here's what I CAN help you with: finding the ideal refrigerator for your space, budget, and lifestyle. What matters most to you - energy efficiency, capacity, or smart features?",
		"I'm not authorized to discuss internal company matters, but I'm your go-to person for everything refrigerator-related! Whether you need help comparing models, understanding features, or finding the best fit for your budget, I'm here. What brings you shopping for a refrigerator today?",
		"That falls outside my scope - I focus exclusively on helping customers find their perfect refrigerator. Think of me as your personal cooling consultant! Tell me about your kitchen space and family size, and I'll suggest some great options.",
		"I can't help with that particular request, but what I CAN do is match you with a refrigerator that'll make your life easier! Are you looking for something compact, family-sized, or perhaps a premium model with all the bells and whistles?",
	},
	declinePII: {
		"I noticed some sensitive information in your message. For your privacy and security, I can't process requests containing personal details like that. But let's focus on finding you an amazing refrigerator! What's your budget range?",
		"Hold on - I spotted some personal information that I should skip over for your protection. No worries though! Let's talk about refrigerators instead. Are you upgrading an old unit or buying your first one?",
		"For security reasons, I need to avoid processing personal information like that. But here's what we CAN discuss: our incredible range of refrigerators from compact to commercial! What size space are we working with?",
		"I see some sensitive data in your message - let's keep things secure by focusing on what I do best: helping you choose the right refrigerator! Do you prefer traditional models or are you interested in smart features?",
	},
	declineToxic: {
		"I understand you might be frustrated, and I'm here to help make things better. Let's start fresh - what kind of refrigerator would make your day? I promise to find you some great options!",
		"I hear your frustration. Let me turn this around for you - finding the right refrigerator can actually be exciting! Tell me what disappointed you before, and I'll make sure we avoid that this time.",
		"I appreciate your honesty, even if emotions are running high. How about we channel that energy into finding you a fantastic refrigerator? What's your dream feature - ice maker, huge capacity, or maybe sleek smart controls?",
		"Let's keep our conversation positive and productive. I genuinely want to help you find a refrigerator you'll love. What's most important to you - price, features, or brand quality?",
	},
	declineOffTopic: {
		"That's an interesting question, but it's a bit outside my refrigerator expertise! I'm laser-focused on helping you find the perfect cooling solution. Speaking of which, have you considered what capacity you need?",
		"I'm flattered you'd ask, but my specialty is refrigerators through and through! Let me wow you with our product range instead. Are you team side-by-side or team French door?",
		"While I appreciate the diverse conversation, refrigerators are truly my passion! And I'd love to share that passion with you. What's your current refrigerator situation - time for an upgrade?",
		"That's outside my wheelhouse, but you know what IS in my wheelhouse? Helping you find a refrigerator that fits your life perfectly! Budget-friendly or premium - what's your vibe?",
	},
}

// conversationStarters occasionally lead an accepted answer.
var conversationStarters = []string{
	"Great question! Let me help you with that.",
	"I'm glad you asked! Here's what I can tell you:",
	"Excellent choice to explore this! Let me explain:",
	"Perfect timing - I love talking about this!",
	"That's a popular question! Here's the scoop:",
	"I'm excited to help you with this!",
	"Let me break this down for you:",
	"Good thinking! Here's what you should know:",
}

// fallbackResponse is returned when an answer cannot be validated within
// the repair bound.
const fallbackResponse = "I hit a small snag processing that request. " +
	"Could you rephrase what you're looking for? " +
	"I'm here to help you find the perfect refrigerator!"

const (
	// recentWindow is how many recent declines to avoid repeating.
	recentWindow = 5

	// maxResponseHistory caps the remembered declines.
	maxResponseHistory = 10

	// starterChance is the probability of prefixing an answer with a
	// conversation starter.
	starterChance = 0.3
)

// responder picks varied decline responses and conversation starters,
// avoiding anything used in the recent past.
type responder struct {
	mu      sync.Mutex
	rng     *rand.Rand
	history []string
}

func newResponder(rng *rand.Rand) *responder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &responder{rng: rng}
}

// decline returns a response for the category that was not used in the
// last few turns.
func (r *responder) decline(category string) string {
	pool, ok := declineResponses[category]
	if !ok {
		pool = declineResponses[declineOffTopic]
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	recent := r.history
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	available := make([]string, 0, len(pool))
	for _, resp := range pool {
		used := false
		for _, h := range recent {
			if h == resp {
				used = true
				break
			}
		}
		if !used {
			available = append(available, resp)
		}
	}
	if len(available) == 0 {
		available = pool
	}

	selected := available[r.rng.IntN(len(available))]
	r.history = append(r.history, selected)
	if len(r.history) > maxResponseHistory {
		r.history = r.history[1:]
	}
	return selected
}

// starter prefixes the answer with a conversation starter some of the
// time, unchanged otherwise.
func (r *responder) starter(answer string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rng.Float64() >= starterChance {
		return answer
	}
	return conversationStarters[r.rng.IntN(len(conversationStarters))] + " " + answer
}

// reset clears the decline history.
func (r *responder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = nil
}
