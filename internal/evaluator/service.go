// Package evaluator scores individual code/query answers and attaches the
// result to the already-committed transcript entry.
package evaluator

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

// Completer is the completion client used for evaluation calls.
type Completer interface {
	Complete(ctx context.Context, messages []api.Message) (string, error)
}

// Service runs per-entry technical evaluations.
type Service struct {
	llm     Completer
	store   *storage.Service
	prompts *prompts.Builder
	cfg     *config.Config
	metrics *metrics.Metrics
}

// New creates an evaluator service.
func New(llm Completer, store *storage.Service, builder *prompts.Builder, cfg *config.Config, m *metrics.Metrics) *Service {
	return &Service{llm: llm, store: store, prompts: builder, cfg: cfg, metrics: m}
}

// Evaluate scores exactly one committed entry and attaches the result as an
// additive field. Question and answer text are never rewritten. Evaluations
// for distinct entries are independent of each other.
func (s *Service) Evaluate(ctx context.Context, rec *storage.SessionRecord, index int) (*storage.TechnicalEvaluation, error) {
	if index < 0 || index >= len(rec.Entries) {
		return nil, fmt.Errorf("no entry with index %d in session %q", index, rec.SessionID)
	}
	entry := rec.Entries[index]
	if entry.CodeStub == "" {
		return nil, fmt.Errorf("entry %d of session %q carries no code stub", index, rec.SessionID)
	}

	payload, err := s.prompts.EvaluatorUserPayload(entry)
	if err != nil {
		return nil, err
	}

	messages := []api.Message{
		{Role: "system", Content: s.prompts.EvaluatorSystemPrompt(rec.Profile)},
		{Role: "user", Content: payload},
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.GetMaxValidationAttempts(); attempt++ {
		raw, err := s.complete(ctx, messages)
		if err != nil {
			return nil, err
		}

		eval, err := contract.ParseTechnicalEvaluation(raw)
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

		rec.Entries[index].TechnicalEvaluation = eval
		if err := s.store.Save(rec); err != nil {
			rec.Entries[index].TechnicalEvaluation = nil
			return nil, err
		}
		return eval, nil
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
