package models

import "time"

// FailureKind classifies why a generation attempt failed
type FailureKind string

const (
	FailureNetwork       FailureKind = "network"
	FailureAuth          FailureKind = "auth"
	FailureRateLimit     FailureKind = "rate_limit"
	FailureInvalidModel  FailureKind = "invalid_model"
	FailureTimeout       FailureKind = "timeout"
	FailureEmptyResponse FailureKind = "empty_response"
	FailureUnknown       FailureKind = "unknown"
)

// GenerationResult is either a success carrying the generated text or a
// failure carrying a human-readable reason. Build it with Success or Failure.
type GenerationResult struct {
	OK       bool          `json:"ok"`
	Text     string        `json:"text,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Kind     FailureKind   `json:"kind,omitempty"`
	Provider string        `json:"provider,omitempty"`
	Model    string        `json:"model,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// Success builds a successful result.
func Success(text string) GenerationResult {
	return GenerationResult{OK: true, Text: text}
}

// Failure builds a failed result.
func Failure(kind FailureKind, reason string) GenerationResult {
	return GenerationResult{OK: false, Kind: kind, Reason: reason}
}
