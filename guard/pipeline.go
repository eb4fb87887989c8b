package guard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cooltech/fridgebot/ai"
	"github.com/cooltech/fridgebot/core"
)

// DefaultMaxRepairs bounds re-generation attempts per turn.
const DefaultMaxRepairs = 2

// Verdict is the terminal result of validating one candidate answer.
type Verdict struct {
	// Answer is the validated text for accepted verdicts, or the last
	// candidate for rejected ones.
	Answer string

	// Outcome maps the terminal state onto the conversation-level enum.
	Outcome core.Outcome

	// Reason explains a rejection; ReasonNone otherwise.
	Reason Reason

	// State is the terminal machine state, StateAccepted or
	// StateRejectedFinal.
	State State

	// Repairs is how many re-generation attempts were spent.
	Repairs int

	// Violations holds the last round of violation messages for rejected
	// verdicts.
	Violations []string
}

// Pipeline validates candidate answers against the schema policy and the
// grounding requirement, re-invoking the generator with violation feedback
// while repair attempts remain. The generator output is untrusted; nothing
// reaches the caller without passing both checks.
type Pipeline struct {
	generator       ai.Generator
	maxRepairs      int
	maxAnswerLength int
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithMaxRepairs sets the repair attempt bound.
// Default is DefaultMaxRepairs.
func WithMaxRepairs(n int) Option {
	return func(p *Pipeline) error {
		if n < 0 {
			return fmt.Errorf("max repairs must be >= 0, got %d", n)
		}
		p.maxRepairs = n
		return nil
	}
}

// WithMaxAnswerLength sets the accepted answer length cap.
// Default is DefaultMaxAnswerLength.
func WithMaxAnswerLength(n int) Option {
	return func(p *Pipeline) error {
		if n <= 0 {
			return fmt.Errorf("max answer length must be > 0, got %d", n)
		}
		p.maxAnswerLength = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "guard")
		return nil
	}
}

// NewPipeline creates a validation pipeline around the given generator.
func NewPipeline(generator ai.Generator, opts ...Option) (*Pipeline, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	p := &Pipeline{
		generator:       generator,
		maxRepairs:      DefaultMaxRepairs,
		maxAnswerLength: DefaultMaxAnswerLength,
		logger:          slog.Default().With("component", "guard"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Run validates the drafted answer for one turn. prompt is the prompt the
// draft was generated from; it seeds the repair prompts. retrieved is the
// catalog context the draft must stay grounded in.
//
// Run only fails with an error when a repair re-generation itself fails.
// Policy failures are not errors: they end in a RejectedFinal verdict.
func (p *Pipeline) Run(ctx context.Context, draft, prompt string, retrieved []core.SearchResult) (*Verdict, error) {
	answer := draft
	repairs := 0
	state := StateDrafted
	p.logger.Debug("validating draft", "state", state.String(), "retrieved", len(retrieved))

	for {
		var reason Reason
		var violations []string
		state, reason, violations = p.check(answer, retrieved)
		if reason == ReasonNone {
			outcome := core.OutcomeAccepted
			if repairs > 0 {
				outcome = core.OutcomeRepairedAndAccepted
			}
			p.logger.Debug("answer accepted", "repairs", repairs)
			return &Verdict{
				Answer:  answer,
				Outcome: outcome,
				Reason:  ReasonNone,
				State:   StateAccepted,
				Repairs: repairs,
			}, nil
		}

		if repairs >= p.maxRepairs {
			if repairs > 0 {
				reason = ReasonRepairExhausted
			}
			p.logger.Warn("answer rejected", "state", state.String(),
				"reason", reason.String(), "repairs", repairs, "violations", len(violations))
			return &Verdict{
				Answer:     answer,
				Outcome:    core.OutcomeRejectedFinal,
				Reason:     reason,
				State:      StateRejectedFinal,
				Repairs:    repairs,
				Violations: violations,
			}, nil
		}

		state = StateRepairing
		repairs++
		p.logger.Debug("repairing answer", "state", state.String(),
			"attempt", repairs, "reason", reason.String(), "violations", len(violations))

		repaired, err := p.generator.Generate(ctx, repairPrompt(prompt, violations), nil)
		if err != nil {
			return nil, fmt.Errorf("%w: attempt %d: %w", ErrRepairFailed, repairs, err)
		}
		answer = repaired
	}
}

// check runs the schema stage then the grounding stage, returning the state
// the candidate reached and the first failing stage's reason with its
// violations.
func (p *Pipeline) check(answer string, retrieved []core.SearchResult) (State, Reason, []string) {
	if violations := checkSchema(answer, p.maxAnswerLength); len(violations) > 0 {
		return StateSchemaChecked, ReasonSchemaViolation, violations
	}
	if violations := checkGrounding(answer, retrieved); len(violations) > 0 {
		return StateGroundingChecked, ReasonUngroundedClaim, violations
	}
	return StateGroundingChecked, ReasonNone, nil
}

// repairPrompt augments the original prompt with the concrete violations so
// the generator knows exactly what to fix.
func repairPrompt(prompt string, violations []string) string {
	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nYour previous answer was rejected for these reasons:\n")
	for _, v := range violations {
		b.WriteString("- ")
		b.WriteString(v)
		b.WriteString("\n")
	}
	b.WriteString("\nWrite a corrected answer. Only state prices, capacities, models and " +
		"warranty terms that appear in the catalog context above, and never include " +
		"personal or internal company information.")
	return b.String()
}
