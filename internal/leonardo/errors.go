package leonardo

import (
	"errors"
	"fmt"
)

// Sentinel validation causes. They surface wrapped in a ValidationError so
// callers can branch on the reason with errors.Is while still detecting the
// class with IsValidation.
var (
	ErrEmptyPrompt          = errors.New("prompt is empty")
	ErrPromptTooLong        = errors.New("prompt is too long")
	ErrEmptyReference       = errors.New("reference image is empty")
	ErrReferenceTooLarge    = errors.New("reference image is too large")
	ErrUnsupportedReference = errors.New("unsupported reference image type")
)

// ValidationError reports input the user can fix. The conversation should
// re-prompt in place instead of advancing.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("leonardo: invalid input: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UpstreamError reports a failed call against the generation API: a refusal,
// a malformed response, a timeout, or a transport problem. StatusCode is zero
// when no HTTP response was received.
type UpstreamError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("leonardo: %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("leonardo: %s: %s: %v", e.Op, e.Message, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("leonardo: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("leonardo: %s: %s", e.Op, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstream reports whether err is an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
