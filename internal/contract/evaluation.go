package contract

import (
	"encoding/json"
	"fmt"
	"strings"

	"ctrl-hire/internal/storage"
)

// ParseTechnicalEvaluation validates raw evaluator output against the
// technical-evaluation contract.
func ParseTechnicalEvaluation(raw string) (*storage.TechnicalEvaluation, error) {
	var eval storage.TechnicalEvaluation
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		return nil, &ValidationError{
			Contract: "technical_evaluation",
			Problems: []string{"response is not a valid JSON object: " + err.Error()},
		}
	}

	var problems []string

	if eval.Score < 0 || eval.Score > 1 {
		problems = append(problems, fmt.Sprintf("score must be a number between 0 and 1, got %v", eval.Score))
	}
	if strings.TrimSpace(eval.ShortVerdict) == "" {
		problems = append(problems, "short_verdict must be non-empty text")
	}
	if strings.TrimSpace(eval.DetailedFeedback) == "" {
		problems = append(problems, "detailed_feedback must be non-empty text")
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Contract: "technical_evaluation", Problems: problems}
	}

	return &eval, nil
}
