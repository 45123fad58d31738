package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTechnicalEvaluationValid(t *testing.T) {
	raw := `{
		"is_correct": true,
		"score": 0.85,
		"short_verdict": "Correct with minor inefficiency.",
		"detailed_feedback": "The join is right but the subquery scans twice.",
		"ideal_answer_outline": "Use a window function over the orders table."
	}`

	eval, err := ParseTechnicalEvaluation(raw)
	require.NoError(t, err)
	assert.True(t, eval.IsCorrect)
	assert.InDelta(t, 0.85, eval.Score, 1e-9)
}

func TestParseTechnicalEvaluationScoreOutOfRange(t *testing.T) {
	raw := `{"is_correct": true, "score": 1.5, "short_verdict": "ok", "detailed_feedback": "ok"}`

	_, err := ParseTechnicalEvaluation(raw)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), "score")
}

func TestParseTechnicalEvaluationMissingText(t *testing.T) {
	raw := `{"is_correct": false, "score": 0.0, "short_verdict": "", "detailed_feedback": "  "}`

	_, err := ParseTechnicalEvaluation(raw)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Problems, 2)
}

func TestParseTechnicalEvaluationNotJSON(t *testing.T) {
	_, err := ParseTechnicalEvaluation("looks good to me")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}
