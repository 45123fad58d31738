// Package httpapi provides HTTP handlers for the interview orchestrator.
package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"ctrl-hire/internal/api"
	"ctrl-hire/internal/coach"
	"ctrl-hire/internal/contract"
	"ctrl-hire/internal/interviewer"
	"ctrl-hire/internal/metrics"
	"ctrl-hire/internal/storage"
)

// Handler handles HTTP requests.
type Handler struct {
	interview *interviewer.Service
	coach     *coach.Service
	metrics   *metrics.Metrics
}

// NewHandler creates a new handler.
func NewHandler(interview *interviewer.Service, coachSvc *coach.Service, m *metrics.Metrics) *Handler {
	return &Handler{
		interview: interview,
		coach:     coachSvc,
		metrics:   m,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/sessions", h.CreateSession)
	e.GET("/v1/sessions", h.ListSessions)
	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.POST("/v1/sessions/:session_id/answers", h.SubmitAnswer)
	e.POST("/v1/sessions/:session_id/feedback", h.GenerateFeedback)

	e.GET("/health", h.Health)
	e.GET("/metrics", h.Metrics)
}

type createSessionRequest struct {
	UserName        string `json:"user_name"`
	TargetRole      string `json:"target_role"`
	ExperienceLevel string `json:"experience_level"`
	CompanyType     string `json:"company_type"`
	JobDescription  string `json:"job_description"`
	FeedbackStyle   string `json:"feedback_style"`
	Mode            string `json:"mode"`
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

// CreateSession starts a new interview and returns the opening question.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	mode := storage.InterviewMode(req.Mode)
	if mode == "" {
		mode = storage.ModeGeneral
	}
	if mode != storage.ModeGeneral && mode != storage.ModeJobDescription {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "mode must be general or job_description"})
	}

	profile := storage.CandidateProfile{
		UserName:        req.UserName,
		TargetRole:      req.TargetRole,
		ExperienceLevel: req.ExperienceLevel,
		CompanyType:     req.CompanyType,
		JobDescription:  req.JobDescription,
		FeedbackStyle:   storage.FeedbackStyle(req.FeedbackStyle),
	}

	rec, err := h.interview.CreateSession(ctx, profile, mode)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"session_id": rec.SessionID,
		"mode":       rec.Mode,
		"round":      rec.State.Phase,
		"question":   rec.State.PendingQuestion,
		"code_stub":  rec.State.PendingStub,
	})
}

// SubmitAnswer commits one answer and returns the next question.
// POST /v1/sessions/:session_id/answers
func (h *Handler) SubmitAnswer(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	var req submitAnswerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Answer == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "answer must not be empty"})
	}

	result, err := h.interview.SubmitAnswer(ctx, sessionID, req.Answer)
	if err != nil {
		return h.mapError(c, err)
	}

	resp := map[string]interface{}{
		"committed_index": result.Entry.Index,
		"finished":        result.Finished,
	}
	if !result.Finished {
		resp["round"] = result.Round
		resp["question"] = result.Question
		resp["code_stub"] = result.CodeStub
	}
	if result.Evaluation != nil {
		resp["technical_evaluation"] = result.Evaluation
	}
	return c.JSON(http.StatusOK, resp)
}

// GenerateFeedback produces (or regenerates) the coach report.
// POST /v1/sessions/:session_id/feedback
func (h *Handler) GenerateFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	feedback, err := h.coach.GenerateFeedback(ctx, sessionID)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, feedback)
}

// GetSession returns the full stored record.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	sessionID := c.Param("session_id")

	rec, err := h.interview.GetSession(sessionID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// ListSessions returns all stored session ids.
// GET /v1/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	ids, err := h.interview.ListSessions()
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": ids,
	})
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// Metrics returns process counters.
func (h *Handler) Metrics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.metrics.GetSnapshot())
}

// mapError translates service errors into HTTP responses. Contract failures
// from the model surface as bad-gateway: the client request was fine, the
// upstream output was not.
func (h *Handler) mapError(c echo.Context, err error) error {
	var termErr *interviewer.TerminalStateError
	if errors.As(err, &termErr) {
		return c.JSON(http.StatusConflict, map[string]string{"error": termErr.Error()})
	}
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	var vErr *contract.ValidationError
	if errors.As(err, &vErr) {
		log.Printf("ERROR: model output failed validation: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "model produced invalid output"})
	}
	var tErr *api.TransportError
	if errors.As(err, &tErr) {
		log.Printf("ERROR: model transport failure: %v", err)
		return c.JSON(http.StatusGatewayTimeout, map[string]string{"error": "model backend unavailable"})
	}
	var pErr *storage.PersistenceError
	if errors.As(err, &pErr) {
		log.Printf("ERROR: persistence failure: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to persist session"})
	}
	return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
}
