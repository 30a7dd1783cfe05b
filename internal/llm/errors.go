package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bidforge/bidforge/internal/types"
)

// LLM error codes follow the bidforge error pattern
const (
	// Provider errors
	ErrProviderNotFound      types.ErrorCode = "LLM_PROVIDER_NOT_FOUND"
	ErrProviderInitFailed    types.ErrorCode = "LLM_PROVIDER_INIT_FAILED"
	ErrProviderUnavailable   types.ErrorCode = "LLM_PROVIDER_UNAVAILABLE"
	ErrProviderUnauthorized  types.ErrorCode = "LLM_PROVIDER_UNAUTHORIZED"
	ErrProviderRateLimited   types.ErrorCode = "LLM_PROVIDER_RATE_LIMITED"
	ErrProviderAlreadyExists types.ErrorCode = "LLM_PROVIDER_ALREADY_EXISTS"
	ErrProviderInvalidInput  types.ErrorCode = "LLM_PROVIDER_INVALID_INPUT"

	// Model errors
	ErrModelNotFound types.ErrorCode = "LLM_MODEL_NOT_FOUND"

	// Request errors
	ErrInvalidRequest types.ErrorCode = "LLM_INVALID_REQUEST"

	// Completion errors
	ErrCompletionFailed    types.ErrorCode = "LLM_COMPLETION_FAILED"
	ErrResponseParseFailed types.ErrorCode = "LLM_RESPONSE_PARSE_FAILED"
	ErrTimeoutExceeded     types.ErrorCode = "LLM_TIMEOUT_EXCEEDED"
	ErrContextCanceled     types.ErrorCode = "LLM_CONTEXT_CANCELED"

	// Network errors
	ErrNetworkFailed types.ErrorCode = "LLM_NETWORK_FAILED"

	// Usage tracking errors
	ErrUsageNotFound  types.ErrorCode = "LLM_USAGE_NOT_FOUND"
	ErrBudgetExceeded types.ErrorCode = "LLM_BUDGET_EXCEEDED"
)

// IsRetryable determines if an error is transient and may succeed on retry.
// The pipeline core never retries (each stage attempts once, then falls
// back), but callers wrapping the document extraction step use this to
// bound their retry loops.
func IsRetryable(err error) bool {
	var forgeErr *types.ForgeError
	if !errors.As(err, &forgeErr) {
		return false
	}

	if forgeErr.Retryable {
		return true
	}

	switch forgeErr.Code {
	case ErrNetworkFailed, ErrProviderRateLimited, ErrProviderUnavailable, ErrTimeoutExceeded:
		return true
	case ErrContextCanceled:
		// User-initiated, never retried
		return false
	default:
		return false
	}
}

// IsCompletionFailure reports whether err belongs to the CompletionFailed
// family: any transport, auth, rate-limit, or timeout failure talking to
// the model endpoint. Stages treat all of these identically and fall back.
func IsCompletionFailure(err error) bool {
	switch types.CodeOf(err) {
	case ErrCompletionFailed, ErrNetworkFailed, ErrProviderRateLimited,
		ErrProviderUnavailable, ErrProviderUnauthorized, ErrTimeoutExceeded,
		ErrContextCanceled:
		return true
	default:
		return false
	}
}

// NewProviderNotFoundError creates an error for when a provider is not found
func NewProviderNotFoundError(providerName string) *types.ForgeError {
	return types.NewError(ErrProviderNotFound, "provider not found: "+providerName)
}

// NewProviderUnavailableError creates a retryable error for when a provider
// is temporarily unavailable
func NewProviderUnavailableError(providerName string, cause error) *types.ForgeError {
	return &types.ForgeError{
		Code:      ErrProviderUnavailable,
		Message:   "provider temporarily unavailable: " + providerName,
		Retryable: true,
		Cause:     cause,
	}
}

// NewRateLimitError creates a retryable error for rate limiting
func NewRateLimitError(providerName string) *types.ForgeError {
	return &types.ForgeError{
		Code:      ErrProviderRateLimited,
		Message:   "rate limit exceeded for provider: " + providerName,
		Retryable: true,
	}
}

// NewAuthError creates an authentication error for a provider
func NewAuthError(providerName string, cause error) *types.ForgeError {
	return &types.ForgeError{
		Code:    ErrProviderUnauthorized,
		Message: fmt.Sprintf("provider %q authentication failed", providerName),
		Cause:   cause,
	}
}

// NewInvalidRequestError creates an error for invalid requests
func NewInvalidRequestError(message string) *types.ForgeError {
	return types.NewError(ErrInvalidRequest, message)
}

// NewCompletionError creates an error for completion failures
func NewCompletionError(message string, cause error) *types.ForgeError {
	return types.WrapError(ErrCompletionFailed, message, cause)
}

// NewParseError creates an error for responses that cannot be decoded into
// the expected shape even after cleanup
func NewParseError(message string, cause error) *types.ForgeError {
	return types.WrapError(ErrResponseParseFailed, message, cause)
}

// NewNetworkError creates a retryable error for network failures
func NewNetworkError(message string, cause error) *types.ForgeError {
	return &types.ForgeError{
		Code:      ErrNetworkFailed,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// NewTimeoutError creates a retryable error for timeout failures
func NewTimeoutError(message string) *types.ForgeError {
	return &types.ForgeError{
		Code:      ErrTimeoutExceeded,
		Message:   message,
		Retryable: true,
	}
}

// TranslateError translates generic provider/client errors into bidforge
// errors based on error message content. Providers built on langchaingo
// surface plain errors; this maps them onto the LLM error taxonomy so
// stages can treat every transport failure uniformly.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var forgeErr *types.ForgeError
	if errors.As(err, &forgeErr) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return types.WrapError(ErrContextCanceled, "completion canceled", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(fmt.Sprintf("completion deadline exceeded for provider %q", provider))
	}

	lowerMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lowerMsg, "unauthorized") || strings.Contains(lowerMsg, "authentication") || strings.Contains(lowerMsg, "api key"):
		return NewAuthError(provider, err)
	case strings.Contains(lowerMsg, "rate limit") || strings.Contains(lowerMsg, "too many requests") || strings.Contains(lowerMsg, "quota"):
		return NewRateLimitError(provider)
	case strings.Contains(lowerMsg, "timeout") || strings.Contains(lowerMsg, "deadline"):
		return NewTimeoutError(err.Error())
	case strings.Contains(lowerMsg, "network") || strings.Contains(lowerMsg, "connection"):
		return NewNetworkError(err.Error(), err)
	case strings.Contains(lowerMsg, "not found"):
		return NewProviderNotFoundError(provider)
	default:
		return NewProviderUnavailableError(provider, err)
	}
}
