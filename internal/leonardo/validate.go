package leonardo

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxImprovePromptLen is the upstream limit on prompts submitted for
	// enhancement, measured in characters the way the API measures them.
	MaxImprovePromptLen = 200

	// MaxReferenceSize bounds uploaded reference images at 20 MB.
	MaxReferenceSize = 20 * 1024 * 1024
)

// referenceExtensions maps accepted reference MIME types to the file
// extension the init-image endpoint expects.
var referenceExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

func validatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return &ValidationError{Err: ErrEmptyPrompt}
	}
	return nil
}

func validateImprovePrompt(prompt string) error {
	if err := validatePrompt(prompt); err != nil {
		return err
	}
	if utf8.RuneCountInString(prompt) > MaxImprovePromptLen {
		return &ValidationError{Err: ErrPromptTooLong}
	}
	return nil
}

func validateReference(ref *ReferenceImage) error {
	if ref == nil {
		return nil
	}
	if len(ref.Data) == 0 {
		return &ValidationError{Err: ErrEmptyReference}
	}
	if len(ref.Data) > MaxReferenceSize {
		return &ValidationError{Err: ErrReferenceTooLarge}
	}
	if _, ok := referenceExtensions[ref.MIME]; !ok {
		return &ValidationError{Err: ErrUnsupportedReference}
	}
	return nil
}

// SupportedReferenceMIME reports whether the given MIME type can be used as
// a reference image.
func SupportedReferenceMIME(mime string) bool {
	_, ok := referenceExtensions[mime]
	return ok
}
