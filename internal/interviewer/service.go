// Package interviewer is the turn controller: the state machine that turns
// validated model decisions into committed transcript entries while
// enforcing the invariants the model cannot be trusted to keep.
package interviewer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"ctrl-hire/internal/api"
	"ctrl-hire/internal/config"
	"ctrl-hire/internal/contract"
	"ctrl-hire/internal/metrics"
	"ctrl-hire/internal/prompts"
	"ctrl-hire/internal/storage"
)

// MaxFollowupsPerTopic is the hard ceiling on follow-up questions for one
// topic. A follow-up signalled at the ceiling forces a topic advance
// regardless of what the model proposed.
const MaxFollowupsPerTopic = 2

// Completer is the completion client the controller talks to.
type Completer interface {
	Complete(ctx context.Context, messages []api.Message) (string, error)
}

// TechnicalEvaluator attaches a score to an already-committed entry.
type TechnicalEvaluator interface {
	Evaluate(ctx context.Context, rec *storage.SessionRecord, index int) (*storage.TechnicalEvaluation, error)
}

// TurnResult is what a committed turn hands back to the caller.
type TurnResult struct {
	Entry      storage.QAEntry
	Question   string
	CodeStub   string
	Round      storage.Phase
	Finished   bool
	Evaluation *storage.TechnicalEvaluation
}

// Service drives interview sessions turn by turn.
type Service struct {
	llm     Completer
	store   *storage.Service
	prompts *prompts.Builder
	cfg     *config.Config
	metrics *metrics.Metrics
	eval    TechnicalEvaluator
}

// New creates the turn controller. eval may be nil to disable technical
// evaluation.
func New(llm Completer, store *storage.Service, builder *prompts.Builder, cfg *config.Config, m *metrics.Metrics, eval TechnicalEvaluator) *Service {
	return &Service{
		llm:     llm,
		store:   store,
		prompts: builder,
		cfg:     cfg,
		metrics: m,
		eval:    eval,
	}
}

// CreateSession creates a session document, obtains the opening question
// and persists the record. The returned record carries the pending question
// in its conversation state.
func (s *Service) CreateSession(ctx context.Context, profile storage.CandidateProfile, mode storage.InterviewMode) (*storage.SessionRecord, error) {
	if strings.TrimSpace(profile.UserName) == "" {
		return nil, fmt.Errorf("candidate name must not be empty")
	}
	if profile.FeedbackStyle == "" {
		profile.FeedbackStyle = storage.FeedbackCoaching
	}
	if mode == storage.ModeJobDescription && strings.TrimSpace(profile.JobDescription) == "" {
		return nil, fmt.Errorf("job-description mode requires a job description")
	}

	now := time.Now().UTC()
	jdMode := mode == storage.ModeJobDescription

	phase := storage.PhaseIntro
	if jdMode {
		phase = storage.PhaseJDSequence
	}

	rec := &storage.SessionRecord{
		SessionID:    makeSessionID(profile.UserName, now),
		CreatedAtUTC: now.Format("20060102_150405"),
		Mode:         mode,
		Profile:      profile,
		State: storage.ConversationState{
			Phase:  phase,
			JDMode: jdMode,
		},
		Entries: []storage.QAEntry{},
	}

	decision, err := s.decideNextTurn(ctx, rec, "", "")
	if err != nil {
		return nil, err
	}

	if decision.Persona != "" {
		rec.Persona = decision.Persona
	}
	rec.State, _ = applyDecision(rec.State, decision)

	if err := s.store.Save(rec); err != nil {
		return nil, err
	}

	s.metrics.IncrementSessionsCreated()
	return rec, nil
}

// SubmitAnswer commits one turn: it pairs the pending question with the
// answer, obtains a validated next-turn decision, enforces the follow-up
// and phase invariants, and persists exactly one new entry plus the updated
// state in a single atomic write. On any error before the write, nothing
// has been mutated and the same answer may be resubmitted.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, answer string) (*TurnResult, error) {
	rec, err := s.store.Load(sessionID)
	if err != nil {
		return nil, err
	}

	if rec.State.Ended || rec.State.Phase.Terminal() {
		return nil, &TerminalStateError{SessionID: sessionID}
	}
	if rec.State.PendingQuestion == "" {
		return nil, fmt.Errorf("session %q has no pending question", sessionID)
	}

	signal := ClassifyAnswer(answer, s.cfg.GetChattyAnswerChars())

	decision, err := s.decideNextTurn(ctx, rec, answer, signal)
	if err != nil {
		return nil, err
	}

	entry := storage.QAEntry{
		Index:    rec.NextIndex(),
		Round:    rec.State.Phase,
		Question: rec.State.PendingQuestion,
		CodeStub: rec.State.PendingStub,
		Answer:   answer,
		AskedAt:  time.Now().UTC(),
	}

	if rec.Persona == "" && decision.Persona != "" {
		rec.Persona = decision.Persona
	}

	newState, forced := applyDecision(rec.State, decision)
	rec.Entries = append(rec.Entries, entry)
	rec.State = newState

	if err := s.store.Save(rec); err != nil {
		return nil, err
	}

	s.metrics.IncrementTurnsCommitted()
	if forced {
		s.metrics.IncrementFollowupOverrides()
	}

	result := &TurnResult{
		Entry:    entry,
		Question: newState.PendingQuestion,
		CodeStub: newState.PendingStub,
		Round:    newState.Phase,
		Finished: newState.Ended,
	}

	// The evaluation is additive and best-effort: a failure leaves the
	// committed entry untouched and never blocks the next turn.
	if entry.CodeStub != "" && s.eval != nil {
		eval, err := s.eval.Evaluate(ctx, rec, entry.Index)
		if err != nil {
			log.Printf("technical evaluation failed for session %s entry %d: %v", sessionID, entry.Index, err)
		} else {
			result.Evaluation = eval
			s.metrics.IncrementEvaluationsAttached()
		}
	}

	return result, nil
}

// GetSession returns the stored record for read-only use.
func (s *Service) GetSession(sessionID string) (*storage.SessionRecord, error) {
	return s.store.Load(sessionID)
}

// ListSessions returns all stored session ids.
func (s *Service) ListSessions() ([]string, error) {
	return s.store.List()
}

// decideNextTurn runs the bounded retry-with-correction loop around the
// interviewer contract. Validation happens before any state mutation.
func (s *Service) decideNextTurn(ctx context.Context, rec *storage.SessionRecord, latestAnswer, signal string) (*contract.TurnDecision, error) {
	payload, err := s.prompts.InterviewerUserPayload(rec, latestAnswer, signal)
	if err != nil {
		return nil, err
	}

	messages := []api.Message{
		{Role: "system", Content: s.prompts.InterviewerSystemPrompt(rec.State.JDMode)},
		{Role: "user", Content: payload},
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.GetMaxValidationAttempts(); attempt++ {
		raw, err := s.complete(ctx, messages)
		if err != nil {
			return nil, err
		}

		decision, err := contract.ParseTurnDecision(raw)
		if err != nil {
			var vErr *contract.ValidationError
			if errors.As(err, &vErr) {
				lastErr = err
				messages = append(messages,
					api.Message{Role: "assistant", Content: raw},
					api.Message{Role: "user", Content: vErr.CorrectiveInstruction()},
				)
				continue
			}
			return nil, err
		}

		return decision, nil
	}

	return nil, lastErr
}

// complete calls the model with at most one internal retry on transport
// failure; anything beyond that is the caller's decision.
func (s *Service) complete(ctx context.Context, messages []api.Message) (string, error) {
	raw, err := s.llm.Complete(ctx, messages)
	if err != nil {
		var tErr *api.TransportError
		if errors.As(err, &tErr) {
			raw, err = s.llm.Complete(ctx, messages)
		}
	}
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		return "", err
	}
	return raw, nil
}

// applyDecision computes the next conversation state from a validated
// decision, enforcing the invariants. Returns the new state and whether a
// follow-up proposal was overridden by a forced advance.
func applyDecision(state storage.ConversationState, d *contract.TurnDecision) (storage.ConversationState, bool) {
	next := state

	if d.EndInterview {
		next.Ended = true
		next.Phase = storage.PhaseFinished
		next.PendingQuestion = ""
		next.PendingStub = ""
		return next, false
	}

	forced := false
	switch {
	case d.IsFollowup && next.FollowupCount >= MaxFollowupsPerTopic:
		// Hard invariant: the ceiling wins over the model's proposal.
		forced = true
		next.TopicID++
		next.FollowupCount = 0
		if !next.JDMode {
			next.Phase = next.Phase.Next()
			if next.Phase.Terminal() {
				next.Ended = true
				next.PendingQuestion = ""
				next.PendingStub = ""
				return next, forced
			}
		}
	case d.IsFollowup:
		next.FollowupCount++
	default:
		next.TopicID++
		next.FollowupCount = 0
		if !next.JDMode {
			// Phases only move forward. Backward proposals, jd labels in
			// general mode, and "finished" without the end flag are all
			// rejected by keeping the current phase.
			proposed := d.ProposedPhase
			if !proposed.Terminal() && next.Phase.Before(proposed) {
				next.Phase = proposed
			}
		}
	}

	next.PendingQuestion = d.NextQuestion.Text
	next.PendingStub = d.CodeStub
	return next, forced
}

// makeSessionID derives a unique, stable id from the candidate name and
// creation time. The uuid suffix guards against same-second collisions.
func makeSessionID(userName string, now time.Time) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, userName)
	if slug == "" {
		slug = "candidate"
	}
	return fmt.Sprintf("%s_%s_%s", slug, now.Format("20060102_150405"), uuid.NewString()[:8])
}
