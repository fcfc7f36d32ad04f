package conversation

import (
	"testing"
	"time"
)

func TestBeginCycleDiscardsPreviousCycle(t *testing.T) {
	s := &Session{
		OriginalPrompt: "old",
		EnhancedPrompt: "old but shinier",
		ActivePrompt:   "old but shinier",
		Reference:      &Reference{FileID: "f1"},
	}

	s.BeginCycle("new prompt")

	if s.OriginalPrompt != "new prompt" {
		t.Fatalf("OriginalPrompt = %q, want %q", s.OriginalPrompt, "new prompt")
	}
	if s.EnhancedPrompt != "" || s.ActivePrompt != "" {
		t.Fatalf("prompt leftovers survived: enhanced %q active %q", s.EnhancedPrompt, s.ActivePrompt)
	}
	if s.Reference != nil {
		t.Fatal("reference from the previous cycle survived")
	}
}

func TestChooseCommitsActivePrompt(t *testing.T) {
	s := &Session{OriginalPrompt: "plain", EnhancedPrompt: "fancy"}

	s.ChooseEnhanced()
	if s.ActivePrompt != "fancy" {
		t.Fatalf("ActivePrompt = %q, want the enhanced prompt", s.ActivePrompt)
	}

	s.ChooseOriginal()
	if s.ActivePrompt != "plain" {
		t.Fatalf("ActivePrompt = %q, want the original prompt", s.ActivePrompt)
	}
}

func TestClearPromptCycleKeepsLastResult(t *testing.T) {
	s := &Session{
		OriginalPrompt: "plain",
		EnhancedPrompt: "fancy",
		ActivePrompt:   "fancy",
		Reference:      &Reference{FileID: "f1"},
		LastResult:     &Result{GenerationID: "g1", URL: "https://cdn/x.jpg", At: time.Now()},
	}

	s.ClearPromptCycle()

	if s.OriginalPrompt != "" || s.EnhancedPrompt != "" || s.ActivePrompt != "" || s.Reference != nil {
		t.Fatalf("prompt cycle not cleared: %+v", s)
	}
	if s.LastResult == nil || s.LastResult.GenerationID != "g1" {
		t.Fatal("last result should survive a prompt rewrite")
	}
}

func TestResetAllClearsEverything(t *testing.T) {
	s := &Session{
		OriginalPrompt: "plain",
		EnhancedPrompt: "fancy",
		ActivePrompt:   "fancy",
		Reference:      &Reference{FileID: "f1"},
		LastResult:     &Result{GenerationID: "g1"},
	}

	s.ResetAll()

	if s.OriginalPrompt != "" || s.EnhancedPrompt != "" || s.ActivePrompt != "" {
		t.Fatalf("prompts survived reset: %+v", s)
	}
	if s.Reference != nil || s.LastResult != nil {
		t.Fatal("reference or last result survived reset")
	}
}

func TestTryLockIsExclusive(t *testing.T) {
	s := &Session{}

	if !s.TryLock() {
		t.Fatal("first TryLock failed on a fresh session")
	}
	if s.TryLock() {
		t.Fatal("second TryLock succeeded while the session was held")
	}
	s.Unlock()
	if !s.TryLock() {
		t.Fatal("TryLock failed after the session was released")
	}
	s.Unlock()
}
