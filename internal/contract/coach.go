package contract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ctrl-hire/internal/storage"
)

// MinEntriesForFullReport is the transcript size below which the coach must
// disclose that the evaluation is based on limited data.
const MinEntriesForFullReport = 3

// limitedDataPattern matches the disclosure the coach must include when the
// transcript is short.
var limitedDataPattern = regexp.MustCompile(`(?i)(limited|only\s+(one|two|\d+)\s+(question|answer|exchange)|single\s+question)`)

// CoachReport is the coach-report contract as it arrives on the wire.
type CoachReport struct {
	OverallSummary        string            `json:"overall_summary"`
	DimensionScores       map[string]int    `json:"dimension_scores"`
	Strengths             []string          `json:"strengths"`
	ImprovementAreas      []string          `json:"improvement_areas"`
	PerRoundFeedback      map[string]string `json:"per_round_feedback,omitempty"`
	SampleImprovedAnswers map[string]string `json:"sample_improved_answers,omitempty"`
}

var dimensionNames = []string{"communication", "structure", "role_knowledge", "confidence"}

// ParseCoachReport validates raw coach output against the contract and the
// grounding invariant, using rec as the only factual substrate. Shape and
// range violations return *ValidationError; references to rounds or entry
// indices absent from the transcript return *GroundingViolation.
func ParseCoachReport(raw string, rec *storage.SessionRecord) (*storage.CoachFeedback, error) {
	var r CoachReport
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, &ValidationError{
			Contract: "coach_report",
			Problems: []string{"response is not a valid JSON object: " + err.Error()},
		}
	}

	var problems []string

	if strings.TrimSpace(r.OverallSummary) == "" {
		problems = append(problems, "overall_summary must be non-empty text")
	}

	for _, name := range dimensionNames {
		score, ok := r.DimensionScores[name]
		if !ok {
			problems = append(problems, fmt.Sprintf("dimension_scores.%s is required", name))
			continue
		}
		if score < 1 || score > 5 {
			problems = append(problems, fmt.Sprintf("dimension_scores.%s must be an integer between 1 and 5, got %d", name, score))
		}
	}

	if len(r.Strengths) == 0 {
		problems = append(problems, "strengths must be a non-empty list of text")
	}
	if len(r.ImprovementAreas) == 0 {
		problems = append(problems, "improvement_areas must be a non-empty list of text")
	}

	if len(rec.Entries) < MinEntriesForFullReport && !limitedDataPattern.MatchString(r.OverallSummary) {
		problems = append(problems, fmt.Sprintf(
			"the transcript has only %d answer(s): overall_summary must explicitly state that the evaluation is based on limited data",
			len(rec.Entries)))
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Contract: "coach_report", Problems: problems}
	}

	// Grounding: every referenced round and entry index must exist in the
	// committed transcript.
	var badRefs []string

	rounds := make(map[string]bool)
	for _, round := range rec.Rounds() {
		rounds[string(round)] = true
	}
	for key := range r.PerRoundFeedback {
		if !rounds[key] {
			badRefs = append(badRefs, fmt.Sprintf("per_round_feedback[%q]: round never occurred", key))
		}
	}

	for key := range r.SampleImprovedAnswers {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(rec.Entries) {
			badRefs = append(badRefs, fmt.Sprintf("sample_improved_answers[%q]: no such entry index", key))
		}
	}

	if len(badRefs) > 0 {
		return nil, &GroundingViolation{
			ValidationError: ValidationError{
				Contract: "coach_report",
				Problems: []string{"feedback references rounds or entries that are not in the transcript"},
			},
			BadRefs: badRefs,
		}
	}

	return &storage.CoachFeedback{
		OverallSummary: strings.TrimSpace(r.OverallSummary),
		DimensionScores: storage.DimensionScores{
			Communication: r.DimensionScores["communication"],
			Structure:     r.DimensionScores["structure"],
			RoleKnowledge: r.DimensionScores["role_knowledge"],
			Confidence:    r.DimensionScores["confidence"],
		},
		Strengths:             r.Strengths,
		ImprovementAreas:      r.ImprovementAreas,
		PerRoundFeedback:      r.PerRoundFeedback,
		SampleImprovedAnswers: r.SampleImprovedAnswers,
	}, nil
}
