package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iei-diagnostic-server/internal/domain"
	"github.com/iei-diagnostic-server/internal/engine"
)

// answerRequest is the submit/revise answer payload.
type answerRequest struct {
	Question domain.QuestionID `json:"question"`
	Answer   domain.Answer     `json:"answer" binding:"required"`
}

// caseResponse is the common case envelope: the state plus, while the case is
// open, the engine's recommended next question.
type caseResponse struct {
	Case *domain.BeliefState `json:"case"`
	Next *engine.Candidate   `json:"next_question,omitempty"`
}

func (s *Server) handleStartCase(c *gin.Context) {
	state, next, err := s.sessions.StartCase(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, caseResponse{Case: state, Next: next})
}

func (s *Server) handleGetCase(c *gin.Context) {
	state, err := s.sessions.GetCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	resp := caseResponse{Case: state}
	if !state.Concluded() {
		if next, err := s.sessions.Engine().NextQuestion(state); err == nil {
			resp.Next = next
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListCases(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	if limit <= 0 || limit > 500 || offset < 0 {
		s.respondError(c, &domain.APIError{Code: domain.ErrCodeInvalidInput, Message: "invalid pagination parameters"})
		return
	}

	summaries, total, err := s.sessions.ListCases(c.Request.Context(), limit, offset)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cases":  summaries,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (s *Server) handleDeleteCase(c *gin.Context) {
	if err := s.sessions.DeleteCase(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSubmitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, &domain.APIError{Code: domain.ErrCodeInvalidInput, Message: "invalid request body", Details: err.Error()})
		return
	}
	if req.Question == "" {
		s.respondError(c, &domain.APIError{Code: domain.ErrCodeInvalidInput, Message: "question is required"})
		return
	}

	state, step, err := s.sessions.SubmitAnswer(c.Request.Context(), c.Param("id"), req.Question, req.Answer)
	if err != nil {
		s.respondError(c, err)
		return
	}

	resp := gin.H{
		"case": state,
		"step": step,
	}
	if !state.Concluded() {
		if next, err := s.sessions.Engine().NextQuestion(state); err == nil {
			resp["next_question"] = next
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReviseAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, &domain.APIError{Code: domain.ErrCodeInvalidInput, Message: "invalid request body", Details: err.Error()})
		return
	}

	qid := domain.QuestionID(c.Param("question"))
	state, err := s.sessions.ReviseAnswer(c.Request.Context(), c.Param("id"), qid, req.Answer)
	if err != nil {
		s.respondError(c, err)
		return
	}

	resp := caseResponse{Case: state}
	if !state.Concluded() {
		if next, err := s.sessions.Engine().NextQuestion(state); err == nil {
			resp.Next = next
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleNextQuestion(c *gin.Context) {
	next, err := s.sessions.NextQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

func (s *Server) handleRanking(c *gin.Context) {
	ranking, err := s.sessions.RankQuestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": ranking})
}

func (s *Server) handleTrace(c *gin.Context) {
	trace, err := s.sessions.Explain(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trace)
}

func (s *Server) handleExport(c *gin.Context) {
	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", `attachment; filename="cases-export.json"`)
	if err := s.sessions.Export(c.Request.Context(), c.Writer); err != nil {
		s.logger.WithError(err).Error("Case export failed")
	}
}

func (s *Server) handleCategories(c *gin.Context) {
	kb := s.sessions.Engine().Registry()
	c.JSON(http.StatusOK, gin.H{
		"categories": kb.Categories(),
		"priors":     kb.Priors(),
	})
}

func (s *Server) handleQuestions(c *gin.Context) {
	kb := s.sessions.Engine().Registry()
	questions := make([]*domain.Question, 0, kb.NumQuestions())
	for _, id := range kb.QuestionIDs() {
		q, _ := kb.Question(id)
		questions = append(questions, q)
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (s *Server) handleGetQuestion(c *gin.Context) {
	kb := s.sessions.Engine().Registry()
	q, ok := kb.Question(domain.QuestionID(c.Param("id")))
	if !ok {
		s.respondError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) handlePatterns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"patterns": s.sessions.Engine().Registry().Patterns()})
}

// respondError maps domain errors onto the standardized APIError envelope.
func (s *Server) respondError(c *gin.Context, err error) {
	requestID := c.GetString("correlation_id")

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		apiErr = domain.NewAPIError(apiErr.Code, apiErr.Message, apiErr.Details, requestID)
		c.JSON(http.StatusBadRequest, apiErr)
		return
	}

	var status int
	var code string
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, domain.ErrCodeCaseNotFound
	case errors.Is(err, domain.ErrInvalidAnswer):
		status, code = http.StatusBadRequest, domain.ErrCodeInvalidAnswer
	case errors.Is(err, domain.ErrCaseConcluded):
		status, code = http.StatusConflict, domain.ErrCodeCaseConcluded
	default:
		status, code = http.StatusInternalServerError, domain.ErrCodeInternalServer
		s.logger.WithError(err).Error("Unhandled API error")
	}
	c.JSON(status, domain.NewAPIError(code, err.Error(), "", requestID))
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}
