package storage

import "time"

// InterviewMode selects how a session is conducted.
type InterviewMode string

const (
	ModeGeneral        InterviewMode = "general"
	ModeJobDescription InterviewMode = "job_description"
)

// FeedbackStyle controls the tone of coach feedback.
type FeedbackStyle string

const (
	FeedbackCoaching FeedbackStyle = "coaching"
	FeedbackStrict   FeedbackStyle = "strict"
)

// CandidateProfile describes the candidate. Immutable after session creation.
type CandidateProfile struct {
	UserName        string        `json:"user_name"`
	TargetRole      string        `json:"target_role"`
	ExperienceLevel string        `json:"experience_level"`
	CompanyType     string        `json:"company_type"`
	JobDescription  string        `json:"job_description,omitempty"`
	FeedbackStyle   FeedbackStyle `json:"feedback_style"`
}

// ConversationState is the mutable cursor of the interview. Only the turn
// controller writes it.
type ConversationState struct {
	Phase         Phase `json:"phase"`
	TopicID       int   `json:"topic_id"`
	FollowupCount int   `json:"followup_count"`
	JDMode        bool  `json:"jd_mode"`
	Ended         bool  `json:"ended"`

	// The question waiting for an answer. Empty once the interview ended.
	PendingQuestion string `json:"pending_question,omitempty"`
	PendingStub     string `json:"pending_stub,omitempty"`
}

// QAEntry is one committed question/answer exchange. Append-only: once in
// the transcript it is never edited, except for the additive evaluation.
type QAEntry struct {
	Index    int       `json:"index"`
	Round    Phase     `json:"round"`
	Question string    `json:"question"`
	CodeStub string    `json:"code_stub,omitempty"`
	Answer   string    `json:"answer_text"`
	AskedAt  time.Time `json:"asked_at_utc"`

	TechnicalEvaluation *TechnicalEvaluation `json:"technical_evaluation,omitempty"`
}

// TechnicalEvaluation scores a single code/query answer. Present only when
// the originating question carried a stub.
type TechnicalEvaluation struct {
	IsCorrect          bool    `json:"is_correct"`
	Score              float64 `json:"score"`
	ShortVerdict       string  `json:"short_verdict"`
	DetailedFeedback   string  `json:"detailed_feedback"`
	IdealAnswerOutline string  `json:"ideal_answer_outline"`
}

// DimensionScores are the coach's 1-5 ratings.
type DimensionScores struct {
	Communication int `json:"communication"`
	Structure     int `json:"structure"`
	RoleKnowledge int `json:"role_knowledge"`
	Confidence    int `json:"confidence"`
}

// CoachFeedback is the grounded end-of-session report. Regeneration
// replaces the whole value.
type CoachFeedback struct {
	OverallSummary   string          `json:"overall_summary"`
	DimensionScores  DimensionScores `json:"dimension_scores"`
	Strengths        []string        `json:"strengths"`
	ImprovementAreas []string        `json:"improvement_areas"`

	// Keys are round labels that appear in the transcript.
	PerRoundFeedback map[string]string `json:"per_round_feedback,omitempty"`
	// Keys are decimal entry indices present in the transcript.
	SampleImprovedAnswers map[string]string `json:"sample_improved_answers,omitempty"`
}

// SessionRecord is the full per-session document. One JSON file per session.
type SessionRecord struct {
	SessionID    string            `json:"session_id"`
	CreatedAtUTC string            `json:"created_at_utc"`
	Mode         InterviewMode     `json:"mode"`
	Persona      string            `json:"interviewer_persona,omitempty"`
	Profile      CandidateProfile  `json:"profile"`
	State        ConversationState `json:"conversation_state"`
	Entries      []QAEntry         `json:"qa_entries"`
	Coach        *CoachFeedback    `json:"coach_feedback,omitempty"`
}

// NextIndex returns the index the next appended entry must carry.
func (r *SessionRecord) NextIndex() int {
	return len(r.Entries)
}

// Rounds returns the distinct round labels present in the transcript, in
// first-seen order.
func (r *SessionRecord) Rounds() []Phase {
	seen := make(map[Phase]bool)
	var rounds []Phase
	for _, e := range r.Entries {
		if !seen[e.Round] {
			seen[e.Round] = true
			rounds = append(rounds, e.Round)
		}
	}
	return rounds
}
