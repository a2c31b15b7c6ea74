// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionExpired  ErrorCode = "SESSION_EXPIRED"
	ErrCodeUnknownProduct  ErrorCode = "UNKNOWN_LOAN_PRODUCT"

	ErrCodeValidationRejected ErrorCode = "VALIDATION_REJECTED"
	ErrCodeIneligible         ErrorCode = "APPLICANT_INELIGIBLE"
	ErrCodeEnumMismatch       ErrorCode = "ENUM_MISMATCH"

	ErrCodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	ErrCodeLLMTimeout       ErrorCode = "LLM_TIMEOUT"

	ErrCodeScoringUnavailable ErrorCode = "SCORING_UNAVAILABLE"
	ErrCodeScoringFailed      ErrorCode = "SCORING_FAILED"

	ErrCodeStorageFailed            ErrorCode = "STORAGE_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeIndexingFailed           ErrorCode = "INDEXING_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// NewSessionNotFoundError creates a non-retryable session lookup error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Chat session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownProductError creates a non-retryable product lookup error.
func NewUnknownProductError(loanType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownProduct,
		Message:   "Unknown loan product",
		Details:   fmt.Sprintf("loanType: %s", loanType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationRejectedError creates a non-retryable, user-facing validation error.
func NewValidationRejectedError(field, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationRejected,
		Message:   reason,
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIneligibleError creates a non-retryable hard-rule rejection.
func NewIneligibleError(field, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIneligible,
		Message:   reason,
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionFailedError creates a retryable extraction error. Callers
// normally fall back to the deterministic extractor instead of retrying.
func NewExtractionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "Field extraction failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringUnavailableError creates a retryable scoring collaborator error.
func NewScoringUnavailableError(loanType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringUnavailable,
		Message:   "Scoring model unavailable",
		Details:   fmt.Sprintf("loanType: %s, error: %s", loanType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageFailedError creates a retryable persistence error.
func NewStorageFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailed,
		Message:   "Application persistence failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexingFailedError creates a retryable search-index mirroring error.
func NewIndexingFailedError(applicationID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexingFailed,
		Message:   "Decision indexing failed",
		Details:   fmt.Sprintf("applicationId: %s, error: %s", applicationID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Decision notification send failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ToBPMNError converts a StandardError into a throwable BPMN error with a retry budget.
func (e *StandardError) ToBPMNError(retries int) *BPMNError {
	if !e.Retryable {
		retries = 0
	}
	return &BPMNError{
		Code:      string(e.Code),
		Message:   e.Message,
		Details:   e.Details,
		Retryable: e.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"failedAt": e.Timestamp.Format(time.RFC3339),
		},
	}
}
