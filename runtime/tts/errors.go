package tts

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common TTS errors.
var (
	// ErrInvalidVoice is returned when the requested voice is not available.
	ErrInvalidVoice = errors.New("invalid or unsupported voice")

	// ErrEmptyText is returned when attempting to synthesize empty text.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrSynthesisFailed is returned when TTS synthesis fails.
	ErrSynthesisFailed = errors.New("speech synthesis failed")

	// ErrUnexpectedFormat is returned when a backend returns audio that cannot
	// be normalized to mono 16-bit PCM.
	ErrUnexpectedFormat = errors.New("unexpected audio format")

	// ErrRateLimited is returned when API rate limits are exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrQuotaExceeded is returned when account quota is exceeded.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrServiceUnavailable is returned when the TTS service is unavailable.
	ErrServiceUnavailable = errors.New("TTS service unavailable")

	// ErrInvalidAPIKey is returned when the backend rejects the credential.
	ErrInvalidAPIKey = errors.New("invalid API key")
)

// HTTP status code threshold for server errors.
const serverErrorThreshold = 500

// SynthesisError provides detailed error information from TTS providers.
type SynthesisError struct {
	// Provider is the TTS provider that returned the error.
	Provider string

	// Code is the provider-specific error code.
	Code string

	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int

	// Message is the error message.
	Message string

	// Cause is the underlying error (if any).
	Cause error

	// Retryable indicates if the error is transient and retry may succeed.
	// Nothing in this module retries; the flag is informational.
	Retryable bool
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	if e.Cause != nil {
		return e.Provider + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Provider + ": " + e.Message
}

// Unwrap returns the underlying error.
func (e *SynthesisError) Unwrap() error {
	return e.Cause
}

// NewSynthesisError creates a new SynthesisError.
func NewSynthesisError(provider, code, message string, cause error, retryable bool) *SynthesisError {
	return &SynthesisError{
		Provider:  provider,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: retryable,
	}
}

// apiErrorResponse covers the error envelope shared by OpenAI and Gemini:
// {"error": {"message": ..., "code": ..., "status"|"type": ...}}.
// Gemini sends a numeric code, OpenAI a string.
type apiErrorResponse struct {
	Error struct {
		Message string          `json:"message"`
		Type    string          `json:"type"`
		Status  string          `json:"status"`
		Code    json.RawMessage `json:"code"`
	} `json:"error"`
}

// newHTTPError maps a non-2xx response to a SynthesisError.
func newHTTPError(provider string, statusCode int, body []byte) *SynthesisError {
	retryable := statusCode == http.StatusTooManyRequests ||
		statusCode >= serverErrorThreshold

	var errResp apiErrorResponse
	code := ""
	message := fmt.Sprintf("HTTP %d", statusCode)
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
		code = strings.Trim(string(errResp.Error.Code), `"`)
		if errResp.Error.Status != "" {
			code = errResp.Error.Status
		}
	} else if text := strings.TrimSpace(string(body)); text != "" {
		message = truncateMessage(text)
	}

	var cause error
	switch {
	case statusCode == http.StatusTooManyRequests:
		cause = ErrRateLimited
		if code == "insufficient_quota" || strings.Contains(strings.ToLower(message), "quota") {
			cause = ErrQuotaExceeded
		}
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		cause = ErrInvalidAPIKey
	case statusCode == http.StatusBadRequest && code == "invalid_voice":
		cause = ErrInvalidVoice
	case statusCode == http.StatusServiceUnavailable:
		cause = ErrServiceUnavailable
	default:
		cause = ErrSynthesisFailed
	}

	return &SynthesisError{
		Provider:   provider,
		Code:       code,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
		Retryable:  retryable,
	}
}

const maxErrorMessage = 512

func truncateMessage(s string) string {
	if len(s) <= maxErrorMessage {
		return s
	}
	return s[:maxErrorMessage] + "..."
}
