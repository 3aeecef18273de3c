package provider

import (
	"context"
	"errors"
	"strings"
)

// ErrorCode classifies a ProviderError.
type ErrorCode string

const (
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeAuthFailed    ErrorCode = "AUTH_FAILED"
	CodeMetadataFetch ErrorCode = "METADATA_FETCH_FAILED"
	CodeListing       ErrorCode = "LISTING_FAILED"
	CodeEmptyFolder   ErrorCode = "EMPTY_FOLDER"
	CodeRequestFailed ErrorCode = "REQUEST_FAILED"
	CodeRateLimited   ErrorCode = "RATE_LIMITED"
	CodeUnknown       ErrorCode = "UNKNOWN"
)

// Sentinel errors for errors.Is checks. A ProviderError matches the sentinel
// carrying the same code.
var (
	ErrInvalidInput  = &ProviderError{Code: CodeInvalidInput, Message: "invalid input"}
	ErrNotFound      = &ProviderError{Code: CodeNotFound, Message: "not found"}
	ErrAuth          = &ProviderError{Code: CodeAuthFailed, Message: "authentication failed"}
	ErrMetadataFetch = &ProviderError{Code: CodeMetadataFetch, Message: "metadata fetch failed"}
	ErrListing       = &ProviderError{Code: CodeListing, Message: "folder listing failed"}
	ErrEmptyFolder   = &ProviderError{Code: CodeEmptyFolder, Message: "folder is empty"}
	ErrRequestFailed = &ProviderError{Code: CodeRequestFailed, Message: "request failed"}
)

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider   string
	Code       ErrorCode
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches any ProviderError with the same code.
func (e *ProviderError) Is(target error) bool {
	t, ok := target.(*ProviderError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError builds a ProviderError.
func NewError(providerName string, code ErrorCode, message string, cause error) *ProviderError {
	return &ProviderError{
		Provider: providerName,
		Code:     code,
		Message:  message,
		Err:      cause,
	}
}

// CodeOf returns the code of the first ProviderError in err's chain, or
// CodeUnknown.
func CodeOf(err error) ErrorCode {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeUnknown
}

// UserMessage converts any lookup error into one plain-language line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "The lookup was cancelled."
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The lookup timed out. Please try again."
	}

	switch CodeOf(err) {
	case CodeInvalidInput:
		return "Please enter a valid ID or Google Drive link."
	case CodeNotFound:
		return "Sorry! Cannot find what you're looking for."
	case CodeAuthFailed:
		return "The API key was rejected. Check your configuration."
	case CodeMetadataFetch:
		return "Could not read the Google Drive item. Is it shared publicly?"
	case CodeListing:
		return "Could not list the Google Drive folder."
	case CodeEmptyFolder:
		return "The Google Drive folder has no files."
	case CodeRateLimited:
		return "Too many requests. Please wait a moment and try again."
	case CodeRequestFailed:
		return "Failed to fetch data. Please try again."
	}

	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "Something went wrong."
	}
	return "Something went wrong: " + msg
}
