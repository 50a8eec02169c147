package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the reasoning engine. Callers match with errors.Is.
var (
	// ErrInvalidAnswer is returned when a submitted answer is not among the
	// question's declared options, or the question was already answered in
	// this case. Recoverable; the belief state is left unchanged.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrZeroLikelihoodUpdate flags an observed answer with zero probability
	// under every category in the current support. The update is a no-op (the
	// prior is retained) but the event is surfaced for the audit trail.
	ErrZeroLikelihoodUpdate = errors.New("zero-likelihood update")

	// ErrMalformedKnowledgeBase is fatal at load time: likelihoods out of
	// range, inconsistent per-category answer distributions, or a pattern
	// referencing an unknown question or category.
	ErrMalformedKnowledgeBase = errors.New("malformed knowledge base")

	// ErrCaseConcluded is returned when an answer is submitted to a case that
	// already reached a terminal state.
	ErrCaseConcluded = errors.New("case already concluded")

	// ErrNotFound is returned when a referenced case or question does not exist.
	ErrNotFound = errors.New("not found")
)

// InvalidAnswerError carries the offending question/answer pair. It unwraps
// to ErrInvalidAnswer.
type InvalidAnswerError struct {
	Question QuestionID
	Answer   Answer
	Reason   string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer %q for question %s: %s", e.Answer, e.Question, e.Reason)
}

func (e *InvalidAnswerError) Unwrap() error { return ErrInvalidAnswer }

// KnowledgeBaseError describes a validation failure in the knowledge base.
// It unwraps to ErrMalformedKnowledgeBase.
type KnowledgeBaseError struct {
	Element string // the question, pattern, or category at fault
	Detail  string
}

func (e *KnowledgeBaseError) Error() string {
	return fmt.Sprintf("malformed knowledge base: %s: %s", e.Element, e.Detail)
}

func (e *KnowledgeBaseError) Unwrap() error { return ErrMalformedKnowledgeBase }

// APIError is the standardized error envelope returned by the HTTP layer.
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for API failure scenarios.
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeInvalidAnswer  = "INVALID_ANSWER"
	ErrCodeCaseNotFound   = "CASE_NOT_FOUND"
	ErrCodeCaseConcluded  = "CASE_CONCLUDED"
	ErrCodeRateLimit      = "RATE_LIMIT_EXCEEDED"
	ErrCodeStorage        = "STORAGE_ERROR"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// NewAPIError creates an APIError stamped with the current time.
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}
