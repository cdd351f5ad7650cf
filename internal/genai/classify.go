// internal/genai/classify.go
package genai

import (
	"context"
	"errors"
	"net"
	"strings"
)

// FailureClass is a provider-neutral bucket for a failed generation attempt.
// Distinct classes behave differently for monitoring even though they all
// route to the same composed fallback.
type FailureClass string

const (
	FailureRateLimited        FailureClass = "RATE_LIMITED"
	FailureAuthFailed         FailureClass = "AUTH_FAILED"
	FailureServiceUnavailable FailureClass = "SERVICE_UNAVAILABLE"
	FailureInvalidRequest     FailureClass = "INVALID_REQUEST"
	FailureContextTooLong     FailureClass = "CONTEXT_TOO_LONG"
	FailureNetworkUnreachable FailureClass = "NETWORK_UNREACHABLE"
	FailureUnknown            FailureClass = "UNKNOWN"
)

// Classify maps a generation error to its failure class. Status codes win
// over message text; message text is a fallback for transport errors that
// carry no status.
func Classify(err error) FailureClass {
	if err == nil {
		return FailureUnknown
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == 429:
			return FailureRateLimited
		case apiErr.Status == 401 || apiErr.Status == 403:
			return FailureAuthFailed
		case apiErr.Status >= 500:
			return FailureServiceUnavailable
		case apiErr.Status == 400:
			if isContextTooLong(apiErr.Code, apiErr.Message) {
				return FailureContextTooLong
			}
			return FailureInvalidRequest
		case apiErr.Status == 200:
			// Schema or content problems on an otherwise OK response.
			return FailureInvalidRequest
		}
		return FailureUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FailureNetworkUnreachable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return FailureNetworkUnreachable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests"):
		return FailureRateLimited
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid api key") || strings.Contains(msg, "forbidden"):
		return FailureAuthFailed
	case isContextTooLong("", msg):
		return FailureContextTooLong
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") || strings.Contains(msg, "timeout"):
		return FailureNetworkUnreachable
	case strings.Contains(msg, "unavailable") || strings.Contains(msg, "overloaded"):
		return FailureServiceUnavailable
	}

	return FailureUnknown
}

func isContextTooLong(code, message string) bool {
	if code == "context_length_exceeded" {
		return true
	}
	msg := strings.ToLower(message)
	return strings.Contains(msg, "context length") ||
		strings.Contains(msg, "context window") ||
		strings.Contains(msg, "too long") ||
		strings.Contains(msg, "maximum token")
}
