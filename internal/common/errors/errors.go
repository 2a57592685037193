// internal/common/errors/errors.go
// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Conversation
	ErrCodeConversationNotFound  ErrorCode = "CONVERSATION_NOT_FOUND"
	ErrCodeInvalidConversationID ErrorCode = "INVALID_CONVERSATION_ID"
	ErrCodeMissingQuestion       ErrorCode = "MISSING_QUESTION"

	// Users
	ErrCodeUserValidationFailed ErrorCode = "USER_VALIDATION_FAILED"
	ErrCodeDuplicatePhone       ErrorCode = "DUPLICATE_PHONE"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeNoProfileFields      ErrorCode = "NO_PROFILE_FIELDS"

	// Storage
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseError            ErrorCode = "DATABASE_ERROR"
	ErrCodeCacheFailed              ErrorCode = "CACHE_ERROR"

	// Retrieval
	ErrCodeRetrievalFailed ErrorCode = "RETRIEVAL_FAILED"
	ErrCodeSearchTimeout   ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound   ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeRealtimeFailed  ErrorCode = "REALTIME_FETCH_FAILED"
	ErrCodeEmbeddingFailed ErrorCode = "EMBEDDING_FAILED"

	// AI
	ErrCodeIntentParsingFailed ErrorCode = "INTENT_PARSE_FAILED"
	ErrCodeIntentAPITimeout    ErrorCode = "INTENT_API_TIMEOUT"
	ErrCodeLLMTimeout          ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMSynthesisFailed  ErrorCode = "LLM_SYNTHESIS_FAILED"
	ErrCodeInputTooLarge       ErrorCode = "STRUCTURING_INPUT_TOO_LARGE"

	// Resume
	ErrCodeMissingResumeText ErrorCode = "MISSING_RESUME_TEXT"
	ErrCodeResumeTooLarge    ErrorCode = "RESUME_TOO_LARGE"

	// Response assembly
	ErrCodeResponseValidationFailed ErrorCode = "RESPONSE_VALIDATION_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
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

// As extracts a *StandardError from err's chain.
func As(err error) (*StandardError, bool) {
	var se *StandardError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CodeOf returns err's code, or ErrCodeInternal when err carries none.
func CodeOf(err error) ErrorCode {
	if se, ok := As(err); ok {
		return se.Code
	}
	return ErrCodeInternal
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

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

// ==========================
// 3. Error Constructors
// ==========================

func NewConversationNotFoundError(id string) *StandardError {
	return newError(ErrCodeConversationNotFound, "Conversation not found", id, false)
}

func NewInvalidConversationIDError(id string) *StandardError {
	return newError(ErrCodeInvalidConversationID, "Invalid conversation ID", id, false)
}

func NewMissingQuestionError() *StandardError {
	return newError(ErrCodeMissingQuestion, "No question provided", "", false)
}

func NewUserValidationError(message string) *StandardError {
	return newError(ErrCodeUserValidationFailed, message, "", false)
}

func NewDuplicatePhoneError(phone string) *StandardError {
	return newError(ErrCodeDuplicatePhone, "Phone number already in use", phone, false)
}

func NewUserNotFoundError(email string) *StandardError {
	return newError(ErrCodeUserNotFound, "User not found", email, false)
}

func NewNoProfileFieldsError() *StandardError {
	return newError(ErrCodeNoProfileFields, "No fields provided for update", "", false)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection failed", err.Error(), true)
}

func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	se := newError(ErrCodeDatabaseError, "Query execution failed", err.Error(), true)
	se.Metadata = map[string]interface{}{"operation": operation}
	return se
}

func NewCacheFailedError(err error) *StandardError {
	return newError(ErrCodeCacheFailed, "Cache operation failed", err.Error(), true)
}

func NewRetrievalFailedError(err error) *StandardError {
	return newError(ErrCodeRetrievalFailed, "Context retrieval failed", err.Error(), true)
}

func NewSearchTimeoutError(index string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Search query timeout", index, true)
}

func NewIndexNotFoundError(index string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Index not found", index, false)
}

func NewRealtimeFetchFailedError(source string, err error) *StandardError {
	se := newError(ErrCodeRealtimeFailed, "Realtime data fetch failed", err.Error(), false)
	se.Metadata = map[string]interface{}{"source": source}
	return se
}

func NewEmbeddingFailedError(err error) *StandardError {
	return newError(ErrCodeEmbeddingFailed, "Embedding generation failed", err.Error(), true)
}

func NewIntentParsingFailedError(err error) *StandardError {
	return newError(ErrCodeIntentParsingFailed, "Intent parsing failed", err.Error(), true)
}

func NewLLMTimeoutError() *StandardError {
	return newError(ErrCodeLLMTimeout, "LLM synthesis timeout", "generation exceeded its deadline", true)
}

func NewLLMSynthesisFailedError(err error) *StandardError {
	return newError(ErrCodeLLMSynthesisFailed, "LLM synthesis API error", err.Error(), true)
}

func NewInputTooLargeError(size, limit int) *StandardError {
	return newError(ErrCodeInputTooLarge, "Answer exceeds structuring limit",
		fmt.Sprintf("%d bytes > %d bytes", size, limit), false)
}

func NewMissingResumeTextError() *StandardError {
	return newError(ErrCodeMissingResumeText, "No resume text provided", "resume text is empty", false)
}

func NewResumeTooLargeError(details string) *StandardError {
	return newError(ErrCodeResumeTooLarge, "Resume text is too large", details, false)
}

func NewResponseValidationError(details string) *StandardError {
	return newError(ErrCodeResponseValidationFailed, "Response payload failed schema validation", details, false)
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError("RESOURCE_NOT_FOUND", fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Internal server error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseError,
		ErrCodeRetrievalFailed,
		ErrCodeEmbeddingFailed,
		ErrCodeIntentParsingFailed,
		ErrCodeLLMSynthesisFailed:
		return 3

	case ErrCodeSearchTimeout,
		ErrCodeIntentAPITimeout,
		ErrCodeCacheFailed:
		return 2

	case ErrCodeLLMTimeout:
		return 1

	default:
		return 0 // business errors are thrown, not retried
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN codes are the internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONVERSATION") || strings.Contains(codeStr, "QUESTION"):
		return "CONVERSATION"
	case strings.Contains(codeStr, "USER") || strings.Contains(codeStr, "PHONE") || strings.Contains(codeStr, "PROFILE"):
		return "USER"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "CACHE"):
		return "DATABASE"
	case strings.Contains(codeStr, "RETRIEVAL") || strings.Contains(codeStr, "SEARCH") ||
		strings.Contains(codeStr, "INDEX") || strings.Contains(codeStr, "REALTIME"):
		return "SEARCH"
	case strings.Contains(codeStr, "INTENT") || strings.Contains(codeStr, "LLM") ||
		strings.Contains(codeStr, "EMBEDDING") || strings.Contains(codeStr, "STRUCTURING"):
		return "AI"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// HTTPStatus maps a code to the status the chat API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMissingQuestion, ErrCodeInvalidConversationID,
		ErrCodeUserValidationFailed, ErrCodeNoProfileFields,
		ErrCodeMissingResumeText:
		return http.StatusBadRequest
	case ErrCodeResumeTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeConversationNotFound, ErrCodeUserNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicatePhone:
		return http.StatusConflict
	case ErrCodeLLMTimeout, ErrCodeSearchTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
