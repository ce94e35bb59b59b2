package services

import (
	"errors"
	"fmt"

	apperrors "github.com/quizforge/quiz-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Session state errors
	ErrNoActiveSession     = errors.New("no active quiz session - start a new quiz first")
	ErrSessionCompleted    = errors.New("quiz session already completed - start a new quiz")
	ErrSessionInProgress   = errors.New("a quiz session is already in progress")
	ErrNoCurrentQuestion   = errors.New("answer rejected - no current question")
	ErrInvalidOptionLetter = errors.New("submitted option must be A, B, C or D")

	// Question pool errors
	ErrNoQuestionsAvailable = errors.New("no questions available for the requested filters")
	ErrUnknownTopic         = errors.New("unknown topic")

	// Topic request errors
	ErrTopicRequestNotFound = errors.New("topic request not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTopicRequestNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsSessionState checks if error represents an invalid session state
// transition; these reject the request without touching the session.
func IsSessionState(err error) bool {
	return errors.Is(err, ErrNoActiveSession) ||
		errors.Is(err, ErrSessionCompleted) ||
		errors.Is(err, ErrNoCurrentQuestion)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidOptionLetter) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}
