package leonardo

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateImprovePrompt(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		wantErr error
	}{
		{name: "valid", prompt: "a fox in the snow", wantErr: nil},
		{name: "empty", prompt: "", wantErr: ErrEmptyPrompt},
		{name: "whitespace only", prompt: "   \n\t ", wantErr: ErrEmptyPrompt},
		{name: "at the limit", prompt: strings.Repeat("a", MaxImprovePromptLen), wantErr: nil},
		{name: "over the limit", prompt: strings.Repeat("a", MaxImprovePromptLen+1), wantErr: ErrPromptTooLong},
		{name: "multibyte at the limit", prompt: strings.Repeat("é", MaxImprovePromptLen), wantErr: nil},
		{name: "multibyte over the limit", prompt: strings.Repeat("é", MaxImprovePromptLen+1), wantErr: ErrPromptTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateImprovePrompt(tc.prompt)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("validateImprovePrompt() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("validateImprovePrompt() = %v, want %v", err, tc.wantErr)
			}
			if !IsValidation(err) {
				t.Fatalf("IsValidation(%v) = false, want true", err)
			}
			if IsUpstream(err) {
				t.Fatalf("IsUpstream(%v) = true, want false", err)
			}
		})
	}
}

func TestValidateReference(t *testing.T) {
	tests := []struct {
		name    string
		ref     *ReferenceImage
		wantErr error
	}{
		{name: "nil reference", ref: nil, wantErr: nil},
		{name: "jpeg", ref: &ReferenceImage{Data: []byte{0xff, 0xd8}, MIME: "image/jpeg"}, wantErr: nil},
		{name: "png", ref: &ReferenceImage{Data: []byte{0x89, 0x50}, MIME: "image/png"}, wantErr: nil},
		{name: "webp", ref: &ReferenceImage{Data: []byte{0x52, 0x49}, MIME: "image/webp"}, wantErr: nil},
		{name: "empty data", ref: &ReferenceImage{MIME: "image/jpeg"}, wantErr: ErrEmptyReference},
		{name: "too large", ref: &ReferenceImage{Data: make([]byte, MaxReferenceSize+1), MIME: "image/jpeg"}, wantErr: ErrReferenceTooLarge},
		{name: "gif rejected", ref: &ReferenceImage{Data: []byte{0x47}, MIME: "image/gif"}, wantErr: ErrUnsupportedReference},
		{name: "no mime", ref: &ReferenceImage{Data: []byte{0x01}}, wantErr: ErrUnsupportedReference},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateReference(tc.ref)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("validateReference() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("validateReference() = %v, want %v", err, tc.wantErr)
			}
			if !IsValidation(err) {
				t.Fatalf("IsValidation(%v) = false, want true", err)
			}
		})
	}
}

func TestSupportedReferenceMIME(t *testing.T) {
	if !SupportedReferenceMIME("image/jpeg") {
		t.Fatal("SupportedReferenceMIME(image/jpeg) = false, want true")
	}
	if SupportedReferenceMIME("image/gif") {
		t.Fatal("SupportedReferenceMIME(image/gif) = true, want false")
	}
}
