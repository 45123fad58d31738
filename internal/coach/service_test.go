package coach

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctrl-hire/internal/api"
	"ctrl-hire/internal/config"
	"ctrl-hire/internal/metrics"
	"ctrl-hire/internal/prompts"
	"ctrl-hire/internal/storage"
)

type fakeLLM struct {
	responses []string
	errs      []error
	calls     [][]api.Message
}

func (f *fakeLLM) Complete(ctx context.Context, messages []api.Message) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, messages)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i >= len(f.responses) {
		return "", fmt.Errorf("fake llm: no scripted response for call %d", i)
	}
	return f.responses[i], nil
}

func newTestService(t *testing.T, llm *fakeLLM) (*Service, *storage.Service) {
	t.Helper()
	store := storage.New(t.TempDir())
	cfg := config.Default()
	builder := prompts.NewBuilder(prompts.DefaultPersonaConfig(), cfg)
	return New(llm, store, builder, cfg, metrics.New()), store
}

func saveSession(t *testing.T, store *storage.Service, entries int) *storage.SessionRecord {
	t.Helper()
	rec := &storage.SessionRecord{
		SessionID: "s1",
		Mode:      storage.ModeGeneral,
		Profile: storage.CandidateProfile{
			UserName:      "Dana",
			TargetRole:    "Backend Engineer",
			FeedbackStyle: storage.FeedbackCoaching,
		},
		State: storage.ConversationState{Phase: storage.PhaseFinished, Ended: true},
	}
	for i := 0; i < entries; i++ {
		rec.Entries = append(rec.Entries, storage.QAEntry{
			Index:    i,
			Round:    storage.PhaseIntro,
			Question: fmt.Sprintf("Q%d", i),
			Answer:   fmt.Sprintf("A%d", i),
			AskedAt:  time.Now().UTC(),
		})
	}
	require.NoError(t, store.Save(rec))
	return rec
}

const fullReport = `{
	"overall_summary": "Consistent, concrete answers across the interview.",
	"dimension_scores": {"communication": 4, "structure": 3, "role_knowledge": 4, "confidence": 4},
	"strengths": ["specific examples"],
	"improvement_areas": ["quantify outcomes"],
	"per_round_feedback": {"intro": "strong opening"}
}`

func TestGenerateFeedbackPersistsReport(t *testing.T) {
	llm := &fakeLLM{responses: []string{fullReport}}
	svc, store := newTestService(t, llm)
	saveSession(t, store, 4)

	fb, err := svc.GenerateFeedback(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, fb.DimensionScores.Communication)

	loaded, err := store.Load("s1")
	require.NoError(t, err)
	require.NotNil(t, loaded.Coach)
	assert.Equal(t, fb.OverallSummary, loaded.Coach.OverallSummary)
	assert.Len(t, loaded.Entries, 4, "feedback generation must not touch the transcript")
}

func TestGenerateFeedbackRequiresEntries(t *testing.T) {
	llm := &fakeLLM{}
	svc, store := newTestService(t, llm)
	saveSession(t, store, 0)

	_, err := svc.GenerateFeedback(context.Background(), "s1")
	require.Error(t, err)
	assert.Empty(t, llm.calls)
}

func TestGenerateFeedbackUnknownSession(t *testing.T) {
	svc, _ := newTestService(t, &fakeLLM{})

	_, err := svc.GenerateFeedback(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGenerateFeedbackRetriesUngroundedReport(t *testing.T) {
	ungrounded := `{
		"overall_summary": "Handled the culture round well.",
		"dimension_scores": {"communication": 4, "structure": 4, "role_knowledge": 4, "confidence": 4},
		"strengths": ["x"],
		"improvement_areas": ["y"],
		"per_round_feedback": {"culture": "great values answers"}
	}`
	llm := &fakeLLM{responses: []string{ungrounded, fullReport}}
	svc, store := newTestService(t, llm)
	saveSession(t, store, 4)

	fb, err := svc.GenerateFeedback(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "strong opening", fb.PerRoundFeedback["intro"])

	require.Len(t, llm.calls, 2)
	retry := llm.calls[1]
	assert.Contains(t, retry[len(retry)-1].Content, "did not satisfy the required JSON format")
}

func TestGenerateFeedbackShortTranscriptRequiresDisclosure(t *testing.T) {
	confident := `{
		"overall_summary": "A flawless interview from start to finish.",
		"dimension_scores": {"communication": 5, "structure": 5, "role_knowledge": 5, "confidence": 5},
		"strengths": ["x"],
		"improvement_areas": ["y"]
	}`
	disclosed := `{
		"overall_summary": "Based on limited data from a single question, the answer was direct and relevant.",
		"dimension_scores": {"communication": 4, "structure": 3, "role_knowledge": 3, "confidence": 4},
		"strengths": ["direct answer"],
		"improvement_areas": ["add detail"]
	}`
	llm := &fakeLLM{responses: []string{confident, disclosed}}
	svc, store := newTestService(t, llm)
	saveSession(t, store, 1)

	fb, err := svc.GenerateFeedback(context.Background(), "s1")
	require.NoError(t, err)
	assert.Contains(t, fb.OverallSummary, "limited data")
	assert.Len(t, llm.calls, 2)
}

func TestGenerateFeedbackRetriesTransportOnce(t *testing.T) {
	llm := &fakeLLM{
		responses: []string{"", fullReport},
		errs:      []error{&api.TransportError{Op: "request", Err: errors.New("timeout")}, nil},
	}
	svc, store := newTestService(t, llm)
	saveSession(t, store, 4)

	fb, err := svc.GenerateFeedback(context.Background(), "s1")
	require.NoError(t, err, "a single transient transport failure must be retried internally")
	assert.Equal(t, 4, fb.DimensionScores.Communication)
	assert.Len(t, llm.calls, 2)
}

func TestGenerateFeedbackTransportFailsTwice(t *testing.T) {
	tErr := &api.TransportError{Op: "request", Err: errors.New("connection refused")}
	llm := &fakeLLM{
		responses: []string{"", ""},
		errs:      []error{tErr, tErr},
	}
	svc, store := newTestService(t, llm)
	saveSession(t, store, 4)

	_, err := svc.GenerateFeedback(context.Background(), "s1")
	var gotErr *api.TransportError
	require.ErrorAs(t, err, &gotErr)
	assert.Len(t, llm.calls, 2, "exactly one internal retry, then surface")

	loaded, lErr := store.Load("s1")
	require.NoError(t, lErr)
	assert.Nil(t, loaded.Coach)
}

func TestGenerateFeedbackReplacesPriorReport(t *testing.T) {
	second := `{
		"overall_summary": "On reflection, the structure was stronger than first assessed.",
		"dimension_scores": {"communication": 4, "structure": 4, "role_knowledge": 4, "confidence": 4},
		"strengths": ["structure"],
		"improvement_areas": ["pacing"]
	}`
	llm := &fakeLLM{responses: []string{fullReport, second}}
	svc, store := newTestService(t, llm)
	saveSession(t, store, 4)

	_, err := svc.GenerateFeedback(context.Background(), "s1")
	require.NoError(t, err)
	fb2, err := svc.GenerateFeedback(context.Background(), "s1")
	require.NoError(t, err)

	loaded, err := store.Load("s1")
	require.NoError(t, err)
	assert.Equal(t, fb2.OverallSummary, loaded.Coach.OverallSummary)
	assert.Equal(t, []string{"structure"}, loaded.Coach.Strengths)
}
