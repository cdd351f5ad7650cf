// Package errors provides standardized error handling for the support pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMailboxListFailed ErrorCode = "MAILBOX_LIST_FAILED"
	ErrCodeMailboxSendFailed ErrorCode = "MAILBOX_SEND_FAILED"
	ErrCodeDraftCreateFailed ErrorCode = "DRAFT_CREATE_FAILED"

	ErrCodeOrderLookupFailed ErrorCode = "ORDER_LOOKUP_FAILED"
	ErrCodeOrderNotFound     ErrorCode = "ORDER_NOT_FOUND"

	ErrCodeEvidenceSearchFailed ErrorCode = "EVIDENCE_SEARCH_FAILED"
	ErrCodeEvidenceIndexFailed  ErrorCode = "EVIDENCE_INDEX_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateMessage         ErrorCode = "DUPLICATE_MESSAGE"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeGenerationFailed  ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"
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

// NewMailboxListFailedError creates a retryable mailbox read error.
func NewMailboxListFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailboxListFailed,
		Message:   "Failed to list unread mailbox messages",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMailboxSendFailedError creates a retryable mailbox send error.
func NewMailboxSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailboxSendFailed,
		Message:   "Failed to send reply email",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftCreateFailedError creates a retryable draft creation error.
func NewDraftCreateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftCreateFailed,
		Message:   "Failed to create draft for review",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewOrderLookupFailedError creates a retryable commerce backend error.
func NewOrderLookupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOrderLookupFailed,
		Message:   "Order lookup against commerce backend failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewOrderNotFoundError creates a non-retryable order not found error.
func NewOrderNotFoundError(orderNumber string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOrderNotFound,
		Message:   "Order not found",
		Details:   fmt.Sprintf("orderNumber: %s", orderNumber),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEvidenceSearchFailedError creates a retryable evidence store error.
func NewEvidenceSearchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEvidenceSearchFailed,
		Message:   "Similar-response search failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEvidenceIndexFailedError creates a retryable evidence indexing error.
func NewEvidenceIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEvidenceIndexFailed,
		Message:   "Failed to index response for future retrieval",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
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
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateMessageError creates a non-retryable duplicate message error.
func NewDuplicateMessageError(messageID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateMessage,
		Message:   "Message already processed",
		Details:   fmt.Sprintf("messageId: %s", messageID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates a retryable generation provider error.
func NewGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Text generation provider error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationTimeoutError creates a retryable generation timeout error.
func NewGenerationTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Text generation timed out",
		Details:   "provider call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the recommended retry count for adapter-level retries.
// Core generation is single-attempt; these apply only to transport glue.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeMailboxListFailed,
		ErrCodeMailboxSendFailed,
		ErrCodeDraftCreateFailed,
		ErrCodeOrderLookupFailed,
		ErrCodeEvidenceSearchFailed,
		ErrCodeEvidenceIndexFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeGenerationTimeout, ErrCodeGenerationFailed:
		return 0 // single attempt per invocation, fallback handles it

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "MAILBOX") || strings.Contains(codeStr, "DRAFT"):
		return "MAIL"
	case strings.Contains(codeStr, "ORDER"):
		return "COMMERCE"
	case strings.Contains(codeStr, "EVIDENCE"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "DUPLICATE"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "GENERATION"):
		return "AI"
	default:
		return "OTHER"
	}
}
