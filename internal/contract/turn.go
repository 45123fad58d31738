package contract

import (
	"encoding/json"
	"strings"

	"ctrl-hire/internal/storage"
)

// NextQuestion carries the question text plus optional metadata the
// interviewer attaches for the UI and the evaluator.
type NextQuestion struct {
	Text         string   `json:"text"`
	QuestionType string   `json:"question_type,omitempty"`
	SkillTags    []string `json:"skill_tags,omitempty"`
}

// TurnDecision is the interviewer-turn contract: what the model proposes
// for the next exchange. The turn controller enforces the invariants the
// model cannot be trusted with.
type TurnDecision struct {
	Persona      string       `json:"persona,omitempty"`
	NextQuestion NextQuestion `json:"next_question"`
	CodeStub     string       `json:"code_stub,omitempty"`
	NextRound    string       `json:"next_round"`
	IsFollowup   bool         `json:"is_followup"`
	EndInterview bool         `json:"end_interview"`

	// ProposedPhase is NextRound parsed against the closed enumeration.
	ProposedPhase storage.Phase `json:"-"`
}

// ParseTurnDecision validates raw model output against the interviewer-turn
// contract. It returns *ValidationError on any shape or range violation.
func ParseTurnDecision(raw string) (*TurnDecision, error) {
	var d TurnDecision
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, &ValidationError{
			Contract: "interviewer_turn",
			Problems: []string{"response is not a valid JSON object: " + err.Error()},
		}
	}

	var problems []string

	if strings.TrimSpace(d.NextQuestion.Text) == "" && !d.EndInterview {
		problems = append(problems, "next_question.text must be non-empty text")
	}

	phase, err := storage.ParsePhase(d.NextRound)
	if err != nil {
		problems = append(problems, "next_round must be one of the closed round labels (intro, warmup, behavioral, role_specific, culture, wrap_up, jd_sequence, finished)")
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Contract: "interviewer_turn", Problems: problems}
	}

	d.ProposedPhase = phase
	d.NextQuestion.Text = strings.TrimSpace(d.NextQuestion.Text)
	d.CodeStub = strings.TrimSpace(d.CodeStub)
	return &d, nil
}
