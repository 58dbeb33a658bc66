package services

import (
	"errors"
	"fmt"

	apperrors "github.com/agile-learning-aid/quiz-analytics-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Quiz catalog errors
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuizAlreadyExists  = errors.New("quiz already exists")
	ErrQuizPastDue        = errors.New("quiz due date has passed")
	ErrQuizHasNoQuestions = errors.New("quiz has no questions")

	// Attempt submission errors
	ErrAttemptsExhausted = errors.New("maximum attempts exceeded")
	ErrAttemptMalformed  = errors.New("submission does not match quiz questions")

	// Report errors
	ErrReportNotAvailable = errors.New("diagnostic report not available yet")
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

// NewValidationError creates a new validation error using the shared type
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
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrReportNotAvailable)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrAttemptMalformed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrQuizAlreadyExists) ||
		errors.Is(err, ErrAttemptsExhausted) ||
		errors.Is(err, ErrQuizPastDue)
}
