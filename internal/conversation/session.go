package conversation

import (
	"sync"
	"time"
)

// Reference identifies an uploaded guide image on Telegram's servers plus
// what is known about it. The bytes stay remote until generation time.
type Reference struct {
	FileID       string
	FileUniqueID string
	Width        int
	Height       int
	FileSize     int64
	MIME         string
}

// Result is a delivered generation.
type Result struct {
	GenerationID string
	URL          string
	Prompt       string
	At           time.Time
}

// Session is one user's dialogue. Every field is owned by whoever holds the
// session lock; the controller brackets each event with TryLock and Unlock,
// so an event arriving while another is mid-flight bounces instead of
// interleaving.
type Session struct {
	mu sync.Mutex

	UserID int64
	ChatID int64
	Locale string

	State State

	OriginalPrompt string
	EnhancedPrompt string
	ActivePrompt   string
	Reference      *Reference
	LastResult     *Result
}

// TryLock claims exclusive ownership of the session for one event. It never
// blocks: a false return means another event is being handled right now.
func (s *Session) TryLock() bool {
	return s.mu.TryLock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

// BeginCycle starts a fresh generation cycle from a new prompt. Enhancement
// and reference leftovers from a previous cycle are discarded.
func (s *Session) BeginCycle(prompt string) {
	s.OriginalPrompt = prompt
	s.EnhancedPrompt = ""
	s.ActivePrompt = ""
	s.Reference = nil
}

// SetEnhanced records the upstream's rewrite of the original prompt.
func (s *Session) SetEnhanced(text string) {
	s.EnhancedPrompt = text
}

// ChooseEnhanced commits the enhanced prompt for generation.
func (s *Session) ChooseEnhanced() {
	s.ActivePrompt = s.EnhancedPrompt
}

// ChooseOriginal commits the original prompt for generation. It also serves
// the fallback when enhancement fails.
func (s *Session) ChooseOriginal() {
	s.ActivePrompt = s.OriginalPrompt
}

// AttachReference records an uploaded guide image.
func (s *Session) AttachReference(ref Reference) {
	s.Reference = &ref
}

// CompleteGeneration records a delivered result.
func (s *Session) CompleteGeneration(res Result) {
	s.LastResult = &res
}

// ClearPromptCycle drops the prompts and reference ahead of a rewritten
// prompt. The last delivered result stays.
func (s *Session) ClearPromptCycle() {
	s.OriginalPrompt = ""
	s.EnhancedPrompt = ""
	s.ActivePrompt = ""
	s.Reference = nil
}

// ResetAll clears every dialogue field.
func (s *Session) ResetAll() {
	s.OriginalPrompt = ""
	s.EnhancedPrompt = ""
	s.ActivePrompt = ""
	s.Reference = nil
	s.LastResult = nil
}
