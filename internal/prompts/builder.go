package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"ctrl-hire/internal/config"
	"ctrl-hire/internal/contract"
	"ctrl-hire/internal/storage"
)

// Builder renders system prompts and user payloads for the three roles.
type Builder struct {
	persona *PersonaConfig
	cfg     *config.Config
}

// NewBuilder creates a prompt builder.
func NewBuilder(persona *PersonaConfig, cfg *config.Config) *Builder {
	return &Builder{persona: persona, cfg: cfg}
}

// InterviewerSystemPrompt builds the system instructions for the
// interviewer role. JD mode swaps the round plan for a flat sequence
// focused on the pasted job description.
func (b *Builder) InterviewerSystemPrompt(jdMode bool) string {
	var prompt strings.Builder

	agent := b.persona.Interviewer
	task := b.persona.InterviewerTask

	prompt.WriteString(fmt.Sprintf("You are the '%s'.\n\n", agent.Role))
	prompt.WriteString(fmt.Sprintf("GOAL:\n%s\n\n", agent.Goal))
	prompt.WriteString(fmt.Sprintf("BACKSTORY:\n%s\n\n", agent.Backstory))
	prompt.WriteString(fmt.Sprintf("TASK:\n%s\n\n", task.Description))

	prompt.WriteString("RESPONSE FORMAT:\n")
	prompt.WriteString("Always respond with a single JSON object and nothing else:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"persona\": \"your interviewer name, only on the very first turn\",\n")
	prompt.WriteString("  \"next_question\": {\"text\": \"...\", \"question_type\": \"behavioral|technical|coding|sql|generic\", \"skill_tags\": [\"...\"]},\n")
	prompt.WriteString("  \"code_stub\": \"a function or query stub, ONLY for coding/SQL questions, otherwise omit\",\n")
	if jdMode {
		prompt.WriteString("  \"next_round\": \"jd_sequence\",\n")
	} else {
		prompt.WriteString("  \"next_round\": \"one of: intro, warmup, behavioral, role_specific, culture, wrap_up\",\n")
	}
	prompt.WriteString("  \"is_followup\": true or false,\n")
	prompt.WriteString("  \"end_interview\": true or false\n")
	prompt.WriteString("}\n\n")

	prompt.WriteString("RULES:\n")
	prompt.WriteString("- Use conversation_state.qa_list to see what was already asked. Never repeat or rephrase an earlier question.\n")
	prompt.WriteString("- Ask at most two follow-up questions on the same topic before moving to a new, distinct topic.\n")
	prompt.WriteString("- Set is_followup to true only when the question continues the current topic.\n")
	if jdMode {
		prompt.WriteString("- This is a job-description-focused interview: at least 70% of your questions must be technical or core-skill questions drawn directly from the responsibilities, tools and skills in candidate_profile.job_description.\n")
		prompt.WriteString("- Do not use named rounds; keep next_round as \"jd_sequence\" throughout.\n")
	} else {
		prompt.WriteString("- Move forward through the rounds in order: intro, warmup, behavioral, role_specific, culture, wrap_up. Never go back to an earlier round.\n")
	}
	prompt.WriteString("- If answer_signal is \"confused\", re-ask more simply instead of advancing.\n")
	prompt.WriteString("- If answer_signal is \"chatty\", politely steer back and ask a tighter question.\n")
	prompt.WriteString("- If answer_signal is \"edge_case\", stay in character and redirect to the interview.\n")
	prompt.WriteString("- Do not start questions with greetings and do not restate your role once the persona has been shared.\n")
	prompt.WriteString("- Do not mention round names or meta labels like 'first question' inside next_question.text.\n")
	prompt.WriteString("- Keep each question conversational; at most 1-2 closely related sub-questions.\n")
	prompt.WriteString("- When the interview has covered enough ground, set end_interview to true and thank the candidate in next_question.text.\n")

	return prompt.String()
}

// interviewerPayload is the user-message body for a turn decision. Only a
// bounded window of the transcript is included to keep request size stable.
type interviewerPayload struct {
	CandidateProfile  storage.CandidateProfile `json:"candidate_profile"`
	ConversationState conversationWindow       `json:"conversation_state"`
	LatestAnswer      string                   `json:"latest_answer"`
	AnswerSignal      string                   `json:"answer_signal,omitempty"`
}

type conversationWindow struct {
	Phase         storage.Phase `json:"phase"`
	FollowupCount int           `json:"followup_count"`
	TotalTurns    int           `json:"total_turns"`
	QAList        []windowEntry `json:"qa_list"`
}

type windowEntry struct {
	Index    int    `json:"index"`
	Round    string `json:"round"`
	Question string `json:"question"`
	Answer   string `json:"answer_text"`
}

// InterviewerUserPayload serializes the turn-decision input.
func (b *Builder) InterviewerUserPayload(rec *storage.SessionRecord, latestAnswer, answerSignal string) (string, error) {
	window := rec.Entries
	if max := b.cfg.GetTranscriptWindow(); len(window) > max {
		window = window[len(window)-max:]
	}

	entries := make([]windowEntry, 0, len(window))
	for _, e := range window {
		entries = append(entries, windowEntry{
			Index:    e.Index,
			Round:    string(e.Round),
			Question: e.Question,
			Answer:   e.Answer,
		})
	}

	payload := interviewerPayload{
		CandidateProfile: rec.Profile,
		ConversationState: conversationWindow{
			Phase:         rec.State.Phase,
			FollowupCount: rec.State.FollowupCount,
			TotalTurns:    len(rec.Entries),
			QAList:        entries,
		},
		LatestAnswer: latestAnswer,
		AnswerSignal: answerSignal,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling interviewer payload: %w", err)
	}
	return string(data), nil
}

// CoachSystemPrompt builds the system instructions for the coach role,
// including the grounding discipline.
func (b *Builder) CoachSystemPrompt() string {
	var prompt strings.Builder

	agent := b.persona.Coach
	task := b.persona.CoachTask

	prompt.WriteString(fmt.Sprintf("You are the '%s'.\n\n", agent.Role))
	prompt.WriteString(fmt.Sprintf("GOAL:\n%s\n\n", agent.Goal))
	prompt.WriteString(fmt.Sprintf("BACKSTORY:\n%s\n\n", agent.Backstory))
	prompt.WriteString(fmt.Sprintf("TASK:\n%s\n\n", task.Description))

	prompt.WriteString("RESPONSE FORMAT:\n")
	prompt.WriteString("Always respond with a single JSON object and nothing else:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"overall_summary\": \"...\",\n")
	prompt.WriteString("  \"dimension_scores\": {\"communication\": 1-5, \"structure\": 1-5, \"role_knowledge\": 1-5, \"confidence\": 1-5},\n")
	prompt.WriteString("  \"strengths\": [\"...\"],\n")
	prompt.WriteString("  \"improvement_areas\": [\"...\"],\n")
	prompt.WriteString("  \"per_round_feedback\": {\"<round label>\": \"...\"},\n")
	prompt.WriteString("  \"sample_improved_answers\": {\"<entry index>\": \"a stronger version of that answer\"}\n")
	prompt.WriteString("}\n\n")

	prompt.WriteString("GROUNDING RULES:\n")
	prompt.WriteString("- Base ALL observations strictly on the question-answer pairs in qa_list. Quote or paraphrase specific answers where helpful.\n")
	prompt.WriteString("- Do NOT invent questions, answers, rounds or topics that do not appear in qa_list.\n")
	prompt.WriteString("- per_round_feedback may only contain round labels that actually appear in qa_list entries.\n")
	prompt.WriteString("- sample_improved_answers keys must be entry indices that exist in qa_list.\n")
	prompt.WriteString(fmt.Sprintf("- If qa_list has fewer than %d entries, say explicitly in overall_summary that the evaluation is based on limited data, and do not describe performance on questions that were never asked.\n", contract.MinEntriesForFullReport))
	prompt.WriteString("- Respect feedback_mode: 'strict' means blunt, hiring-bar framing; 'coaching' means encouraging and developmental.\n")

	return prompt.String()
}

type coachPayload struct {
	CandidateProfile storage.CandidateProfile `json:"candidate_profile"`
	QAList           []storage.QAEntry        `json:"qa_list"`
	FeedbackMode     storage.FeedbackStyle    `json:"feedback_mode"`
}

// CoachUserPayload serializes the full transcript snapshot: the coach's
// only factual substrate.
func (b *Builder) CoachUserPayload(rec *storage.SessionRecord) (string, error) {
	payload := coachPayload{
		CandidateProfile: rec.Profile,
		QAList:           rec.Entries,
		FeedbackMode:     rec.Profile.FeedbackStyle,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling coach payload: %w", err)
	}
	return string(data), nil
}

// EvaluatorSystemPrompt builds the instructions for scoring one code/query
// answer.
func (b *Builder) EvaluatorSystemPrompt(profile storage.CandidateProfile) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("You are a technical interviewer evaluating a %s candidate", profile.ExperienceLevel))
	if profile.TargetRole != "" {
		prompt.WriteString(fmt.Sprintf(" for a %s role", profile.TargetRole))
	}
	prompt.WriteString(".\n\n")

	prompt.WriteString("You will receive exactly one question, its code stub, and the candidate's answer. Judge only that answer.\n\n")
	prompt.WriteString("RESPONSE FORMAT:\n")
	prompt.WriteString("Always respond with a single JSON object and nothing else:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"is_correct\": true or false,\n")
	prompt.WriteString("  \"score\": a number between 0.0 and 1.0,\n")
	prompt.WriteString("  \"short_verdict\": \"one sentence\",\n")
	prompt.WriteString("  \"detailed_feedback\": \"what is right, what is wrong, complexity notes\",\n")
	prompt.WriteString("  \"ideal_answer_outline\": \"the shape of a strong solution\"\n")
	prompt.WriteString("}\n\n")
	prompt.WriteString("An empty or non-attempt answer is is_correct=false with score 0.0.")

	return prompt.String()
}

type evaluatorPayload struct {
	Question string `json:"question"`
	CodeStub string `json:"code_stub,omitempty"`
	Answer   string `json:"answer_text"`
}

// EvaluatorUserPayload serializes exactly one entry for scoring.
func (b *Builder) EvaluatorUserPayload(entry storage.QAEntry) (string, error) {
	payload := evaluatorPayload{
		Question: entry.Question,
		CodeStub: entry.CodeStub,
		Answer:   entry.Answer,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling evaluator payload: %w", err)
	}
	return string(data), nil
}
