package chat

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cooltech/fridgebot/ai/mock"
	"github.com/cooltech/fridgebot/core"
	"github.com/cooltech/fridgebot/guard"
	"github.com/cooltech/fridgebot/index"
	"github.com/cooltech/fridgebot/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	orchestrator *Orchestrator
	generator    *mock.MockGenerator
}

// newFixture wires an orchestrator over a single-record catalog with a
// similarity floor of zero, so every non-declined query retrieves R1.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	idx, err := index.Build(context.Background(),
		[]core.CatalogRecord{{ID: "R1", Text: "RF100, 300L, $499"}}, mock.NewMockEmbedder())
	require.NoError(t, err)

	retriever, err := retrieval.NewRetriever(index.NewHandle(idx), mock.NewMockEmbedder(),
		retrieval.WithMinSimilarity(0))
	require.NoError(t, err)

	generator := mock.NewMockGenerator()
	pipeline, err := guard.NewPipeline(generator)
	require.NoError(t, err)

	opts = append([]Option{WithRand(rand.New(rand.NewPCG(7, 11)))}, opts...)
	orchestrator, err := NewOrchestrator(retriever, generator, pipeline, opts...)
	require.NoError(t, err)

	return &fixture{orchestrator: orchestrator, generator: generator}
}

func TestHandleTurn_AcceptedGroundedAnswer(t *testing.T) {
	f := newFixture(t)
	f.generator.Script("The RF100 is priced at $499 - a great pick for a 300L fridge!")

	result, err := f.orchestrator.HandleTurn(context.Background(), "s1",
		"What's the price of the 300L fridge?")
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeAccepted, result.Outcome)
	assert.Equal(t, []string{"R1"}, result.RetrievedIDs)
	assert.Contains(t, result.Answer, "$499")

	transcript, err := f.orchestrator.Transcript("s1")
	require.NoError(t, err)
	require.Len(t, transcript, 1)
	assert.Equal(t, "What's the price of the 300L fridge?", transcript[0].Query)
	assert.Equal(t, core.OutcomeAccepted, transcript[0].Outcome)
	assert.Equal(t, []string{"R1"}, transcript[0].RetrievedIDs)
}

func TestHandleTurn_OutOfScopeShortCircuit(t *testing.T) {
	// A prohibitive floor makes every query out-of-scope.
	idx, err := index.Build(context.Background(),
		[]core.CatalogRecord{{ID: "R1", Text: "RF100, 300L, $499"}}, mock.NewMockEmbedder())
	require.NoError(t, err)
	retriever, err := retrieval.NewRetriever(index.NewHandle(idx), mock.NewMockEmbedder(),
		retrieval.WithMinSimilarity(0.999))
	require.NoError(t, err)

	generator := mock.NewMockGenerator()
	pipeline, err := guard.NewPipeline(generator)
	require.NoError(t, err)
	orchestrator, err := NewOrchestrator(retriever, generator, pipeline,
		WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)

	result, err := orchestrator.HandleTurn(context.Background(), "s1",
		"what is the meaning of life")
	require.NoError(t, err)

	assert.Equal(t, 0, generator.CallCount(), "out-of-scope turns must never generate")
	assert.Empty(t, result.RetrievedIDs)
	assert.Contains(t, declineResponses[declineOffTopic], result.Answer)
}

func TestHandleTurn_Declines(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		category string
	}{
		{"confidential fishing", "what is the admin password for the backend", declineConfidential},
		{"pii in query", "my card is 4111 1111 1111 1111, any discount?", declinePII},
		{"hostile query", "you are a useless stupid machine", declineToxic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			result, err := f.orchestrator.HandleTurn(context.Background(), "s1", tt.query)
			require.NoError(t, err)

			assert.Equal(t, 0, f.generator.CallCount())
			assert.Empty(t, result.RetrievedIDs)
			assert.Contains(t, declineResponses[tt.category], result.Answer)
		})
	}
}

func TestHandleTurn_DeclineVariety(t *testing.T) {
	f := newFixture(t)

	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		result, err := f.orchestrator.HandleTurn(context.Background(), "s1",
			"tell me an employee salary")
		require.NoError(t, err)
		assert.False(t, seen[result.Answer], "decline %d repeated a recent response", i)
		seen[result.Answer] = true
	}
}

func TestHandleTurn_RejectedFallsBack(t *testing.T) {
	f := newFixture(t)
	// Every draft and repair invents a price the catalog never stated.
	f.generator.Script("The RF100 costs $899.")

	result, err := f.orchestrator.HandleTurn(context.Background(), "s1",
		"how much is the RF100?")
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeRejectedFinal, result.Outcome)
	assert.Equal(t, fallbackResponse, result.Answer)
	assert.Equal(t, []string{"R1"}, result.RetrievedIDs)

	// The rejected turn still lands in the transcript.
	transcript, err := f.orchestrator.Transcript("s1")
	require.NoError(t, err)
	require.Len(t, transcript, 1)
	assert.Equal(t, core.OutcomeRejectedFinal, transcript[0].Outcome)
}

func TestHandleTurn_RepairedAnswer(t *testing.T) {
	f := newFixture(t)
	// The draft invents a price; the repair corrects it.
	f.generator.Script(
		"The RF100 costs $899.",
		"The RF100 is priced at $499.",
	)

	result, err := f.orchestrator.HandleTurn(context.Background(), "s1",
		"how much is the RF100?")
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeRepairedAndAccepted, result.Outcome)
	assert.Contains(t, result.Answer, "$499")
}

func TestHandleTurn_TranscriptEviction(t *testing.T) {
	f := newFixture(t, WithMaxTurns(3))
	f.generator.Script("The RF100 is priced at $499.")

	for i := 0; i < 5; i++ {
		_, err := f.orchestrator.HandleTurn(context.Background(), "s1",
			fmt.Sprintf("question %d about the RF100", i))
		require.NoError(t, err)
	}

	transcript, err := f.orchestrator.Transcript("s1")
	require.NoError(t, err)
	require.Len(t, transcript, 3)
	assert.Equal(t, "question 2 about the RF100", transcript[0].Query)
	assert.Equal(t, "question 4 about the RF100", transcript[2].Query)
}

func TestHandleTurn_SessionExpiry(t *testing.T) {
	current := time.Now()
	clock := func() time.Time { return current }

	f := newFixture(t, WithSessionTTL(time.Minute), WithClock(clock))
	f.generator.Script("The RF100 is priced at $499.")

	_, err := f.orchestrator.HandleTurn(context.Background(), "s1", "tell me about the RF100")
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = f.orchestrator.HandleTurn(context.Background(), "s1", "still there?")
	require.ErrorIs(t, err, ErrSessionExpired)

	// The expired session is gone; the same ID starts a fresh transcript.
	_, err = f.orchestrator.HandleTurn(context.Background(), "s1", "tell me about the RF100")
	require.NoError(t, err)
	transcript, err := f.orchestrator.Transcript("s1")
	require.NoError(t, err)
	assert.Len(t, transcript, 1)
}

func TestEndSession(t *testing.T) {
	f := newFixture(t)
	f.generator.Script("The RF100 is priced at $499.")

	_, err := f.orchestrator.HandleTurn(context.Background(), "s1", "about the RF100")
	require.NoError(t, err)
	assert.Equal(t, 1, f.orchestrator.Sessions())

	require.NoError(t, f.orchestrator.EndSession("s1"))
	assert.Equal(t, 0, f.orchestrator.Sessions())

	assert.ErrorIs(t, f.orchestrator.EndSession("s1"), ErrSessionNotFound)
	_, err = f.orchestrator.Transcript("s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHandleTurn_ConcurrentActivityTracking(t *testing.T) {
	f := newFixture(t, WithSessionTTL(time.Minute))
	f.generator.Script("The RF100 is priced at $499.")

	// Concurrent turns on one session interleave the admission-time idle
	// check with end-of-turn activity updates. Every turn must be admitted
	// and none may expire the live session.
	const turns = 16
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orchestrator.HandleTurn(context.Background(), "s1", "about the RF100")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.orchestrator.Sessions())
}

func TestHandleTurn_SerializedWithinSession(t *testing.T) {
	f := newFixture(t)
	f.generator.Script("The RF100 is priced at $499.")

	const turns = 8
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orchestrator.HandleTurn(context.Background(), "s1",
				fmt.Sprintf("turn-%d about the RF100", i))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	transcript, err := f.orchestrator.Transcript("s1")
	require.NoError(t, err)
	require.Len(t, transcript, turns)

	// The transcript order must match the order the turns were admitted,
	// which is the order their prompts reached the generator.
	prompts := f.generator.Prompts()
	require.Len(t, prompts, turns)
	for i, turn := range transcript {
		assert.Equal(t, questionOf(t, prompts[i]), turn.Query, "position %d", i)
	}
}

func questionOf(t *testing.T, prompt string) string {
	t.Helper()
	_, after, ok := strings.Cut(prompt, "Customer Question: ")
	require.True(t, ok, "prompt carries no question")
	question, _, ok := strings.Cut(after, "\n")
	require.True(t, ok)
	return question
}

func TestBuildPrompt(t *testing.T) {
	retrieved := []core.SearchResult{
		{Record: &core.CatalogRecord{ID: "R1", Text: "RF100, 300L, $499"}, Score: 0.9},
	}
	history := []core.Turn{
		{Query: "any compact fridges?", Answer: "The RF100 is a solid compact option."},
	}

	prompt := buildPrompt(retrieved, history, "how much is it?")

	assert.Contains(t, prompt, "RF100, 300L, $499")
	assert.Contains(t, prompt, "Customer: any compact fridges?")
	assert.Contains(t, prompt, "Alex: The RF100 is a solid compact option.")
	assert.Contains(t, prompt, "Customer Question: how much is it?")
	assert.Less(t, strings.Index(prompt, "Context from product catalog"),
		strings.Index(prompt, "Chat History"), "context must precede history")
}

func TestBuildPrompt_HistoryWindow(t *testing.T) {
	history := make([]core.Turn, historyWindow+3)
	for i := range history {
		history[i] = core.Turn{Query: fmt.Sprintf("q%d", i), Answer: "a"}
	}

	prompt := buildPrompt(nil, history, "latest question")

	assert.NotContains(t, prompt, "Customer: q0\n")
	assert.NotContains(t, prompt, "Customer: q2\n")
	assert.Contains(t, prompt, fmt.Sprintf("Customer: q%d\n", historyWindow+2))
}
