// Package coach generates the end-of-interview feedback report, validated
// against the stored transcript so it cannot reference exchanges that never
// happened.
package coach

import (
	"context"
	"errors"
	"fmt"

	"ctrl-hire/internal/api"
	"ctrl-hire/internal/config"
	"ctrl-hire/internal/contract"
	"ctrl-hire/internal/metrics"
	"ctrl-hire/internal/prompts"
	"ctrl-hire/internal/storage"
)

// Completer is the completion client used for coach calls.
type Completer interface {
	Complete(ctx context.Context, messages []api.Message) (string, error)
}

// Service produces grounded coach feedback for finished (or abandoned)
// sessions.
type Service struct {
	llm     Completer
	store   *storage.Service
	prompts *prompts.Builder
	cfg     *config.Config
	metrics *metrics.Metrics
}

// New creates a coach service.
func New(llm Completer, store *storage.Service, builder *prompts.Builder, cfg *config.Config, m *metrics.Metrics) *Service {
	return &Service{llm: llm, store: store, prompts: builder, cfg: cfg, metrics: m}
}

// GenerateFeedback builds a feedback report for the session and persists it.
// The full transcript goes into the prompt regardless of the turn-time
// window. Regeneration replaces any prior report; the transcript itself is
// never modified. At least one committed entry is required.
func (s *Service) GenerateFeedback(ctx context.Context, sessionID string) (*storage.CoachFeedback, error) {
	rec, err := s.store.Load(sessionID)
	if err != nil {
		return nil, err
	}
	if len(rec.Entries) == 0 {
		return nil, fmt.Errorf("session %q has no answered questions to review", sessionID)
	}

	payload, err := s.prompts.CoachUserPayload(rec)
	if err != nil {
		return nil, err
	}

	messages := []api.Message{
		{Role: "system", Content: s.prompts.CoachSystemPrompt()},
		{Role: "user", Content: payload},
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.GetMaxValidationAttempts(); attempt++ {
		raw, err := s.complete(ctx, messages)
		if err != nil {
			return nil, err
		}

		feedback, err := contract.ParseCoachReport(raw, rec)
		if err != nil {
			// Grounding violations are validation failures and get the same
			// corrective retry as any other contract problem.
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

		rec.Coach = feedback
		if err := s.store.Save(rec); err != nil {
			return nil, err
		}
		s.metrics.IncrementCoachReportsGenerated()
		return feedback, nil
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
