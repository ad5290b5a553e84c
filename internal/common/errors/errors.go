package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeCapabilityUnavailable     ErrorCode = "CAPABILITY_UNAVAILABLE"
	ErrCodeCapabilityTimeout         ErrorCode = "CAPABILITY_TIMEOUT"
	ErrCodeMalformedCapabilityOutput ErrorCode = "MALFORMED_CAPABILITY_OUTPUT"

	ErrCodeInvalidSeries   ErrorCode = "INVALID_SERIES"
	ErrCodeInputOutOfRange ErrorCode = "INPUT_OUT_OF_RANGE"
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"

	ErrCodeInventoryQueryFailed ErrorCode = "INVENTORY_QUERY_FAILED"
	ErrCodeCatalogSearchFailed  ErrorCode = "CATALOG_SEARCH_FAILED"

	ErrCodeRecommendationFailed    ErrorCode = "RECOMMENDATION_FAILED"
	ErrCodePaymentSimulationFailed ErrorCode = "PAYMENT_SIMULATION_FAILED"
	ErrCodeReorderPlanFailed       ErrorCode = "REORDER_PLAN_FAILED"
	ErrCodeNotificationSendFailed  ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeRequestCancelled        ErrorCode = "REQUEST_CANCELLED"
	ErrCodeInternal                ErrorCode = "INTERNAL_ERROR"
)

// Sentinels shared by every capability client. Callers wrap them with %w and
// test with errors.Is; any of the three routes a stage to its fallback.
var (
	ErrCapabilityUnavailable = stderrors.New("CAPABILITY_UNAVAILABLE")
	ErrCapabilityTimeout     = stderrors.New("CAPABILITY_TIMEOUT")
	ErrMalformedOutput       = stderrors.New("MALFORMED_CAPABILITY_OUTPUT")
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

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

func newError(code ErrorCode, message string, cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewCapabilityUnavailableError(capability string, err error) *StandardError {
	e := newError(ErrCodeCapabilityUnavailable, fmt.Sprintf("Capability '%s' unavailable", capability), err)
	e.Metadata = map[string]interface{}{"capability": capability}
	return e
}

func NewCapabilityTimeoutError(capability string, timeout time.Duration) *StandardError {
	e := newError(ErrCodeCapabilityTimeout, fmt.Sprintf("Capability '%s' timed out", capability), nil)
	e.Details = fmt.Sprintf("call exceeded %s", timeout)
	e.Metadata = map[string]interface{}{"capability": capability}
	return e
}

func NewMalformedOutputError(capability, details string) *StandardError {
	e := newError(ErrCodeMalformedCapabilityOutput, fmt.Sprintf("Capability '%s' returned malformed output", capability), nil)
	e.Details = details
	e.Metadata = map[string]interface{}{"capability": capability}
	return e
}

func NewInvalidSeriesError(productID, details string) *StandardError {
	e := newError(ErrCodeInvalidSeries, "Inventory series is malformed", nil)
	e.Details = fmt.Sprintf("productId: %s, %s", productID, details)
	return e
}

func NewInvalidInputError(details string) *StandardError {
	e := newError(ErrCodeInvalidInput, "Invalid job input", nil)
	e.Details = details
	return e
}

func NewInventoryQueryFailedError(err error) *StandardError {
	e := newError(ErrCodeInventoryQueryFailed, "Inventory query failed", err)
	e.Retryable = true
	return e
}

func NewCatalogSearchFailedError(query string, err error) *StandardError {
	e := newError(ErrCodeCatalogSearchFailed, "Catalog search failed", err)
	e.Metadata = map[string]interface{}{"query": query}
	return e
}

func NewRecommendationFailedError(err error) *StandardError {
	return newError(ErrCodeRecommendationFailed, "Recommendation pipeline failed", err)
}

func NewPaymentSimulationFailedError(details string) *StandardError {
	e := newError(ErrCodePaymentSimulationFailed, "Payment simulation failed", nil)
	e.Details = details
	return e
}

func NewReorderPlanFailedError(details string) *StandardError {
	e := newError(ErrCodeReorderPlanFailed, "Reorder plan failed", nil)
	e.Details = details
	return e
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	e := newError(ErrCodeNotificationSendFailed, "Notification delivery failed", err)
	e.Retryable = true
	e.Metadata = map[string]interface{}{"channel": channel}
	return e
}

func NewRequestCancelledError(err error) *StandardError {
	return newError(ErrCodeRequestCancelled, "Request cancelled by caller", err)
}

// IsDegradation reports whether err should send a stage down its fallback
// path instead of failing the request.
func IsDegradation(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, ErrCapabilityUnavailable) ||
		stderrors.Is(err, ErrCapabilityTimeout) ||
		stderrors.Is(err, ErrMalformedOutput) ||
		stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		switch stdErr.Code {
		case ErrCodeCapabilityUnavailable, ErrCodeCapabilityTimeout, ErrCodeMalformedCapabilityOutput:
			return true
		}
	}
	return false
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeCapabilityUnavailable:     "CAPABILITY_UNAVAILABLE",
	ErrCodeCapabilityTimeout:         "CAPABILITY_TIMEOUT",
	ErrCodeMalformedCapabilityOutput: "MALFORMED_CAPABILITY_OUTPUT",
	ErrCodeInvalidSeries:             "INVALID_SERIES",
	ErrCodeInputOutOfRange:           "INPUT_OUT_OF_RANGE",
	ErrCodeInvalidInput:              "INVALID_INPUT",
	ErrCodeInventoryQueryFailed:      "INVENTORY_QUERY_FAILED",
	ErrCodeCatalogSearchFailed:       "CATALOG_SEARCH_FAILED",
	ErrCodeRecommendationFailed:      "RECOMMENDATION_FAILED",
	ErrCodePaymentSimulationFailed:   "PAYMENT_SIMULATION_FAILED",
	ErrCodeReorderPlanFailed:         "REORDER_PLAN_FAILED",
	ErrCodeNotificationSendFailed:    "NOTIFICATION_SEND_FAILED",
	ErrCodeRequestCancelled:          "REQUEST_CANCELLED",
}

// GetRetryCount returns how many broker retries a failure earns. The
// recommendation chain never retries capability calls, so only the
// infrastructure failures around it are retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeInventoryQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3
	default:
		return 0
	}
}

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

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CAPABILITY") || strings.HasPrefix(codeStr, "MALFORMED"):
		return "CAPABILITY"
	case strings.Contains(codeStr, "SERIES") || strings.Contains(codeStr, "INVENTORY") || strings.Contains(codeStr, "REORDER"):
		return "FORECASTING"
	case strings.Contains(codeStr, "CATALOG"):
		return "SEARCH"
	case strings.Contains(codeStr, "PAYMENT") || strings.Contains(codeStr, "RECOMMENDATION"):
		return "RECOMMENDATION"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "RANGE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
