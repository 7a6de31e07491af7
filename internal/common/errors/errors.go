// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidCriteria    ErrorCode = "INVALID_CRITERIA"
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeRepositoryFailure  ErrorCode = "REPOSITORY_FAILURE"
	ErrCodeOperationCancelled ErrorCode = "OPERATION_CANCELLED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeCircuitOpen   ErrorCode = "CIRCUIT_OPEN"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"

	ErrCodeWorkflowEngineFailed ErrorCode = "WORKFLOW_ENGINE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code.
func (e *StandardError) Is(target error) bool {
	var other *StandardError
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// Sentinels for errors.Is checks against a code.
var (
	ErrInvalidCriteria   = &StandardError{Code: ErrCodeInvalidCriteria}
	ErrRepositoryFailure = &StandardError{Code: ErrCodeRepositoryFailure}
	ErrCircuitOpen       = &StandardError{Code: ErrCodeCircuitOpen}
	ErrCancelled         = &StandardError{Code: ErrCodeOperationCancelled}
)

// CodeOf returns the code of the first StandardError in the chain.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternalError
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

// NewInvalidCriteriaError is returned before any repository fetch.
func NewInvalidCriteriaError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCriteria,
		Message:   "Invalid search criteria",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError covers undecodable or schema-invalid job variables.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid job input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRepositoryError wraps a storage failure. Retryability follows the cause.
func NewRepositoryError(operation string, err error) *StandardError {
	retryable := true
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		retryable = stdErr.Retryable
	}
	return &StandardError{
		Code:      ErrCodeRepositoryFailure,
		Message:   "Repository operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: retryable,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewCancelledError is returned when the deadline fires between fetch and scoring.
func NewCancelledError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOperationCancelled,
		Message:   "Operation cancelled",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Elasticsearch query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Elasticsearch index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCircuitOpenError is returned while a repository breaker rejects calls.
func NewCircuitOpenError(name string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCircuitOpen,
		Message:   fmt.Sprintf("Circuit '%s' is open", name),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewWorkflowEngineError wraps a failed Zeebe gateway call.
func NewWorkflowEngineError(operation string, err error, retryable bool) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowEngineFailed,
		Message:   fmt.Sprintf("Zeebe operation '%s' failed", operation),
		Details:   err.Error(),
		Retryable: retryable,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the codes declared on BPMN boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidCriteria:               "INVALID_CRITERIA",
	ErrCodeInvalidInput:                  "INVALID_INPUT",
	ErrCodeRepositoryFailure:             "REPOSITORY_FAILURE",
	ErrCodeOperationCancelled:            "OPERATION_CANCELLED",
	ErrCodeDatabaseConnectionFailed:      "REPOSITORY_FAILURE",
	ErrCodeQueryExecutionFailed:          "REPOSITORY_FAILURE",
	ErrCodeQueryTimeout:                  "REPOSITORY_FAILURE",
	ErrCodeElasticsearchConnectionFailed: "REPOSITORY_FAILURE",
	ErrCodeSearchQueryFailed:             "REPOSITORY_FAILURE",
	ErrCodeSearchTimeout:                 "REPOSITORY_FAILURE",
	ErrCodeIndexNotFound:                 "REPOSITORY_FAILURE",
	ErrCodeCircuitOpen:                   "REPOSITORY_UNAVAILABLE",
	ErrCodeInternalError:                 "INTERNAL_ERROR",
	ErrCodeWorkflowEngineFailed:          "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRepositoryFailure,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeWorkflowEngineFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout,
		ErrCodeOperationCancelled:
		return 2

	case ErrCodeCircuitOpen:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
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
	case strings.Contains(codeStr, "CRITERIA") || strings.Contains(codeStr, "INPUT"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "REPOSITORY") || strings.Contains(codeStr, "CIRCUIT"):
		return "REPOSITORY"
	case strings.Contains(codeStr, "CANCELLED"):
		return "TIMEOUT"
	case strings.Contains(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	default:
		return "OTHER"
	}
}
