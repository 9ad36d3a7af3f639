package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ternarybob/atlas/internal/models"
)

var (
	// ErrEmptyResponse is returned when a provider answers without any text
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrRateLimited is returned when the local request budget is spent
	ErrRateLimited = errors.New("too many itinerary requests, try again in a minute")
)

// Classify maps a provider error to a failure kind. Unknown errors are
// reported as FailureUnknown rather than guessed.
func Classify(err error) models.FailureKind {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrEmptyResponse):
		return models.FailureEmptyResponse
	case errors.Is(err, ErrRateLimited):
		return models.FailureRateLimit
	case errors.Is(err, ErrMissingAPIKey):
		return models.FailureAuth
	case errors.Is(err, context.DeadlineExceeded):
		return models.FailureTimeout
	}

	var groqErr *APIError
	if errors.As(err, &groqErr) {
		if groqErr.Code == "model_not_found" || groqErr.Code == "model_decommissioned" {
			return models.FailureInvalidModel
		}
		return classifyStatus(groqErr.StatusCode)
	}

	var claudeErr *anthropic.Error
	if errors.As(err, &claudeErr) {
		return classifyStatus(claudeErr.StatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return models.FailureTimeout
		}
		return models.FailureNetwork
	}

	return classifyMessage(err.Error())
}

func classifyStatus(status int) models.FailureKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return models.FailureAuth
	case status == http.StatusTooManyRequests:
		return models.FailureRateLimit
	case status == http.StatusNotFound:
		return models.FailureInvalidModel
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return models.FailureTimeout
	case status >= 500:
		return models.FailureNetwork
	}
	return models.FailureUnknown
}

// classifyMessage inspects error text for SDKs that do not expose a typed
// status, following the codes the Gemini API embeds in its messages.
func classifyMessage(msg string) models.FailureKind {
	switch {
	case IsRateLimitError(msg):
		return models.FailureRateLimit
	case containsAny(msg, "401", "403", "UNAUTHENTICATED", "PERMISSION_DENIED", "API key not valid", "API_KEY_INVALID"):
		return models.FailureAuth
	case containsAny(msg, "404", "NOT_FOUND", "is not found for API version"):
		return models.FailureInvalidModel
	case containsAny(msg, "DEADLINE_EXCEEDED", "deadline exceeded", "timeout"):
		return models.FailureTimeout
	case containsAny(msg, "connection refused", "no such host", "connection reset", "UNAVAILABLE", "EOF"):
		return models.FailureNetwork
	}
	return models.FailureUnknown
}

// IsRateLimitError matches 429 status codes and RESOURCE_EXHAUSTED errors.
func IsRateLimitError(msg string) bool {
	return containsAny(msg, "429", "RESOURCE_EXHAUSTED", "quota", "rate limit")
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
