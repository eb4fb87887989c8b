package chat

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cooltech/fridgebot/ai"
	"github.com/cooltech/fridgebot/core"
	"github.com/cooltech/fridgebot/guard"
	"github.com/cooltech/fridgebot/retrieval"
)

// TurnResult is what one handled turn returns to the caller.
type TurnResult struct {
	// Answer is the validated answer, a decline, or the safe fallback for
	// rejected candidates.
	Answer string

	// RetrievedIDs lists the catalog records the answer was grounded in,
	// in retrieval rank order. Empty for declined and out-of-scope turns.
	RetrievedIDs []string

	// Outcome is the validation outcome recorded for the turn.
	Outcome core.Outcome
}

// Orchestrator runs one request/response cycle per user turn and owns the
// session table. Turns in different sessions run concurrently; turns in the
// same session are serialized by a session-scoped lock so the transcript
// preserves admission order.
type Orchestrator struct {
	retriever *retrieval.Retriever
	generator ai.Generator
	pipeline  *guard.Pipeline
	responder *responder

	topK       int
	maxTurns   int
	sessionTTL time.Duration
	now        func() time.Time
	logger     *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithTopK sets how many records are retrieved per turn.
// Default is retrieval.DefaultTopK.
func WithTopK(k int) Option {
	return func(o *Orchestrator) error {
		if k <= 0 {
			return fmt.Errorf("top k must be > 0, got %d", k)
		}
		o.topK = k
		return nil
	}
}

// WithMaxTurns sets the transcript cap per session.
// Default is DefaultMaxTurns.
func WithMaxTurns(n int) Option {
	return func(o *Orchestrator) error {
		if n <= 0 {
			return fmt.Errorf("max turns must be > 0, got %d", n)
		}
		o.maxTurns = n
		return nil
	}
}

// WithSessionTTL sets the idle expiry for sessions.
// Default is DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(o *Orchestrator) error {
		if ttl <= 0 {
			return fmt.Errorf("session ttl must be > 0, got %v", ttl)
		}
		o.sessionTTL = ttl
		return nil
	}
}

// WithRand sets the random source for response variation. Tests inject a
// seeded source for reproducibility.
func WithRand(rng *rand.Rand) Option {
	return func(o *Orchestrator) error {
		o.responder = newResponder(rng)
		return nil
	}
}

// WithClock sets the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) error {
		if now != nil {
			o.now = now
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger.With("component", "chat")
		return nil
	}
}

// NewOrchestrator creates a conversation orchestrator.
func NewOrchestrator(retriever *retrieval.Retriever, generator ai.Generator, pipeline *guard.Pipeline, opts ...Option) (*Orchestrator, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}

	o := &Orchestrator{
		retriever:  retriever,
		generator:  generator,
		pipeline:   pipeline,
		responder:  newResponder(nil),
		topK:       retrieval.DefaultTopK,
		maxTurns:   DefaultMaxTurns,
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
		logger:     slog.Default().With("component", "chat"),
		sessions:   make(map[string]*session),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// HandleTurn runs one full turn for the session: screen the query, retrieve
// catalog context, short-circuit out-of-scope queries, generate, validate,
// and append the turn to the transcript. An unknown session ID starts a new
// session; an expired one is discarded and reported as ErrSessionExpired.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, query string) (*TurnResult, error) {
	sess, err := o.admit(sessionID)
	if err != nil {
		return nil, err
	}

	// Serialize turns within the session for the whole cycle, so the
	// transcript records turns in admission order.
	sess.mu.Lock()
	defer sess.mu.Unlock()

	result, err := o.runTurn(ctx, sess, query)
	if err != nil {
		return nil, err
	}

	sess.append(core.Turn{
		Query:        query,
		RetrievedIDs: result.RetrievedIDs,
		Answer:       result.Answer,
		Outcome:      result.Outcome,
	}, o.maxTurns)
	sess.touch(o.now())

	return result, nil
}

func (o *Orchestrator) runTurn(ctx context.Context, sess *session, query string) (*TurnResult, error) {
	// Input screening happens before any retrieval or generation spend.
	switch detectIntent(query) {
	case intentPII:
		return o.declineTurn(declinePII), nil
	case intentConfidential:
		return o.declineTurn(declineConfidential), nil
	case intentToxic:
		return o.declineTurn(declineToxic), nil
	}

	retrieved, err := o.retriever.Retrieve(ctx, query, o.topK)
	if err != nil {
		return nil, err
	}

	// Nothing relevant in the catalog: answer without touching the
	// generator.
	if len(retrieved) == 0 {
		o.logger.Debug("out-of-scope query short-circuited")
		return o.declineTurn(declineOffTopic), nil
	}

	prompt := buildPrompt(retrieved, sess.turns, query)
	draft, err := o.generator.Generate(ctx, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	verdict, err := o.pipeline.Run(ctx, draft, prompt, retrieved)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(retrieved))
	for i := range retrieved {
		ids[i] = retrieved[i].Record.ID
	}

	answer := verdict.Answer
	if verdict.Outcome == core.OutcomeRejectedFinal {
		answer = fallbackResponse
	} else {
		answer = o.responder.starter(answer)
	}

	o.logger.Info("turn handled",
		"outcome", verdict.Outcome.String(), "repairs", verdict.Repairs, "retrieved", len(ids))

	return &TurnResult{
		Answer:       answer,
		RetrievedIDs: ids,
		Outcome:      verdict.Outcome,
	}, nil
}

// declineTurn wraps a varied decline response as a completed turn. Declines
// never consult the catalog, so they carry no retrieved IDs.
func (o *Orchestrator) declineTurn(category string) *TurnResult {
	return &TurnResult{
		Answer:  o.responder.decline(category),
		Outcome: core.OutcomeAccepted,
	}
}

// admit looks up or creates the session, expiring idle ones.
func (o *Orchestrator) admit(sessionID string) (*session, error) {
	now := o.now()

	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.sessions[sessionID]
	if ok {
		if sess.idleSince(now) > o.sessionTTL {
			delete(o.sessions, sessionID)
			return nil, fmt.Errorf("%w: %q", ErrSessionExpired, sessionID)
		}
		return sess, nil
	}

	sess = &session{}
	sess.touch(now)
	o.sessions[sessionID] = sess
	return sess, nil
}

// Transcript returns a copy of the session's turns in admission order.
func (o *Orchestrator) Transcript(sessionID string) ([]core.Turn, error) {
	o.mu.RLock()
	sess, ok := o.sessions[sessionID]
	o.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// EndSession destroys the session and its transcript.
func (o *Orchestrator) EndSession(sessionID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}
	delete(o.sessions, sessionID)
	return nil
}

// Sessions reports how many sessions are live.
func (o *Orchestrator) Sessions() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.sessions)
}

// Reset clears every session and the decline history.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.sessions = make(map[string]*session)
	o.mu.Unlock()
	o.responder.reset()
}
