package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctrl-hire/internal/storage"
)

func TestParseTurnDecisionValid(t *testing.T) {
	raw := `{
		"persona": "Alex Reed",
		"next_question": {"text": "  What drew you to backend work?  ", "question_type": "behavioral", "skill_tags": ["motivation"]},
		"next_round": "warmup",
		"is_followup": false,
		"end_interview": false
	}`

	d, err := ParseTurnDecision(raw)
	require.NoError(t, err)
	assert.Equal(t, "Alex Reed", d.Persona)
	assert.Equal(t, "What drew you to backend work?", d.NextQuestion.Text)
	assert.Equal(t, storage.PhaseWarmup, d.ProposedPhase)
	assert.False(t, d.IsFollowup)
}

func TestParseTurnDecisionNotJSON(t *testing.T) {
	_, err := ParseTurnDecision("Sure! Here is my question: tell me about yourself.")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "interviewer_turn", vErr.Contract)
}

func TestParseTurnDecisionEmptyQuestion(t *testing.T) {
	raw := `{"next_question": {"text": "   "}, "next_round": "warmup"}`

	_, err := ParseTurnDecision(raw)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Problems[0], "next_question.text")
}

func TestParseTurnDecisionEmptyQuestionAllowedOnEnd(t *testing.T) {
	raw := `{"next_question": {"text": ""}, "next_round": "finished", "end_interview": true}`

	d, err := ParseTurnDecision(raw)
	require.NoError(t, err)
	assert.True(t, d.EndInterview)
}

func TestParseTurnDecisionUnknownRound(t *testing.T) {
	raw := `{"next_question": {"text": "Why us?"}, "next_round": "small_talk"}`

	_, err := ParseTurnDecision(raw)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), "next_round")
}

func TestParseTurnDecisionReportsAllProblems(t *testing.T) {
	raw := `{"next_question": {"text": ""}, "next_round": "bogus"}`

	_, err := ParseTurnDecision(raw)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Problems, 2)
}

func TestCorrectiveInstructionListsProblems(t *testing.T) {
	vErr := &ValidationError{
		Contract: "interviewer_turn",
		Problems: []string{"problem one", "problem two"},
	}
	msg := vErr.CorrectiveInstruction()
	assert.Contains(t, msg, "problem one")
	assert.Contains(t, msg, "problem two")
	assert.Contains(t, msg, "single valid JSON object")
}

func TestGroundingViolationMatchesValidationError(t *testing.T) {
	var err error = &GroundingViolation{
		ValidationError: ValidationError{Contract: "coach_report", Problems: []string{"ungrounded"}},
		BadRefs:         []string{`per_round_feedback["culture"]`},
	}

	var gErr *GroundingViolation
	assert.True(t, errors.As(err, &gErr))
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr), "grounding violation must also match ValidationError")
}
