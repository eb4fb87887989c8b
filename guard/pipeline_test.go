package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/cooltech/fridgebot/ai"
	"github.com/cooltech/fridgebot/ai/mock"
	"github.com/cooltech/fridgebot/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const turnPrompt = "Customer Question: What's the price of the 300L fridge?"

func TestRun_AcceptsGroundedAnswer(t *testing.T) {
	generator := mock.NewMockGenerator()
	p, err := NewPipeline(generator)
	require.NoError(t, err)

	verdict, err := p.Run(context.Background(),
		"The RF100 is a 300L model priced at $499.", turnPrompt, r1Context())
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeAccepted, verdict.Outcome)
	assert.Equal(t, StateAccepted, verdict.State)
	assert.Equal(t, ReasonNone, verdict.Reason)
	assert.Equal(t, 0, verdict.Repairs)
	assert.Equal(t, 0, generator.CallCount(), "accepted drafts must not re-generate")
}

func TestCheck_StageStates(t *testing.T) {
	p, err := NewPipeline(mock.NewMockGenerator())
	require.NoError(t, err)

	tests := []struct {
		name   string
		answer string
		state  State
		reason Reason
	}{
		{"schema stage fails first", "", StateSchemaChecked, ReasonSchemaViolation},
		{"grounding stage fails", "The RF100 costs $599.", StateGroundingChecked, ReasonUngroundedClaim},
		{"clean answer passes both stages", "The RF100 costs $499.", StateGroundingChecked, ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, reason, _ := p.check(tt.answer, r1Context())
			assert.Equal(t, tt.state, state)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestRun_RepairsUngroundedAnswer(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.Script("The RF100 is priced at $499.")

	p, err := NewPipeline(generator)
	require.NoError(t, err)

	verdict, err := p.Run(context.Background(),
		"The RF100 costs $599.", turnPrompt, r1Context())
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeRepairedAndAccepted, verdict.Outcome)
	assert.Equal(t, 1, verdict.Repairs)
	assert.Equal(t, "The RF100 is priced at $499.", verdict.Answer)

	// The repair prompt must name the violation.
	require.Equal(t, 1, generator.CallCount())
	assert.Contains(t, generator.Prompts()[0], `"$599"`)
	assert.Contains(t, generator.Prompts()[0], turnPrompt)
}

func TestRun_RepairBound(t *testing.T) {
	// The generator keeps inventing a warranty, so repairs never converge.
	generator := mock.NewMockGenerator()
	generator.Script("The RF100 has a 5 year warranty.")

	p, err := NewPipeline(generator, WithMaxRepairs(2))
	require.NoError(t, err)

	verdict, err := p.Run(context.Background(),
		"The RF100 has a 10 year warranty.", turnPrompt, r1Context())
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeRejectedFinal, verdict.Outcome)
	assert.Equal(t, StateRejectedFinal, verdict.State)
	assert.Equal(t, ReasonRepairExhausted, verdict.Reason)
	assert.Equal(t, 2, verdict.Repairs)
	assert.Equal(t, 2, generator.CallCount(), "repair bound must cap re-generation")
	assert.NotEmpty(t, verdict.Violations)
}

func TestRun_ZeroRepairsRejectsImmediately(t *testing.T) {
	generator := mock.NewMockGenerator()
	p, err := NewPipeline(generator, WithMaxRepairs(0))
	require.NoError(t, err)

	t.Run("ungrounded claim", func(t *testing.T) {
		verdict, err := p.Run(context.Background(),
			"The RF100 costs $599.", turnPrompt, r1Context())
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeRejectedFinal, verdict.Outcome)
		assert.Equal(t, ReasonUngroundedClaim, verdict.Reason)
	})

	t.Run("schema violation", func(t *testing.T) {
		verdict, err := p.Run(context.Background(), "", turnPrompt, r1Context())
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeRejectedFinal, verdict.Outcome)
		assert.Equal(t, ReasonSchemaViolation, verdict.Reason)
	})

	assert.Equal(t, 0, generator.CallCount())
}

func TestRun_SchemaViolationRepaired(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.Script("The RF100 is a great pick at $499.")

	p, err := NewPipeline(generator)
	require.NoError(t, err)

	verdict, err := p.Run(context.Background(),
		"Email jane.doe@cooltech.com for the price.", turnPrompt, r1Context())
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeRepairedAndAccepted, verdict.Outcome)
	assert.Contains(t, generator.Prompts()[0], "personal data")
}

func TestRun_RepairGenerationFailure(t *testing.T) {
	providerDown := errors.New("provider down")
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, prompt string, schema *ai.Schema) (string, error) {
		return "", providerDown
	}

	p, err := NewPipeline(generator)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), "The RF100 costs $599.", turnPrompt, r1Context())
	require.ErrorIs(t, err, ErrRepairFailed)
	assert.ErrorIs(t, err, providerDown)
}
