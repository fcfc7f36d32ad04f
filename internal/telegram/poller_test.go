package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type captureHandler struct {
	mu      sync.Mutex
	got     []int64
	handled chan int64
}

func newCaptureHandler() *captureHandler {
	return &captureHandler{handled: make(chan int64, 16)}
}

func (h *captureHandler) HandleUpdate(ctx context.Context, upd Update) {
	h.mu.Lock()
	h.got = append(h.got, upd.UpdateID)
	h.mu.Unlock()
	h.handled <- upd.UpdateID
}

func TestPollerDispatchesAndAdvancesOffset(t *testing.T) {
	var mu sync.Mutex
	var offsets []int64

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body getUpdatesRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		offsets = append(offsets, body.Offset)
		first := len(offsets) == 1
		mu.Unlock()

		if first {
			io.WriteString(w, `{"ok":true,"result":[`+
				`{"update_id":11,"message":{"message_id":1,"chat":{"id":1,"type":"private"},"text":"a"}},`+
				`{"update_id":12,"message":{"message_id":2,"chat":{"id":1,"type":"private"},"text":"b"}}]}`)
			return
		}
		io.WriteString(w, `{"ok":true,"result":[]}`)
	}))
	defer ts.Close()

	handler := newCaptureHandler()
	poller := NewPoller(PollerOptions{
		Client:  NewClient(Options{Token: "test-token", BaseURL: ts.URL}),
		Handler: handler,
		Logger:  zerolog.Nop(),
		Window:  10 * time.Millisecond,
		Backoff: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-handler.handled:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for updates to be dispatched")
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}

	handler.mu.Lock()
	got := append([]int64(nil), handler.got...)
	handler.mu.Unlock()
	if len(got) != 2 || got[0] != 11 || got[1] != 12 {
		t.Fatalf("handled updates = %v, want [11 12]", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(offsets) < 2 {
		t.Fatalf("polled %d times, want at least 2", len(offsets))
	}
	if offsets[0] != 0 {
		t.Fatalf("first offset = %d, want 0", offsets[0])
	}
	if offsets[1] != 13 {
		t.Fatalf("second offset = %d, want 13 after consuming update 12", offsets[1])
	}
}

func TestPollerRetriesAfterFailure(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()

		if first {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"ok":false,"error_code":500,"description":"internal"}`)
			return
		}
		io.WriteString(w, `{"ok":true,"result":[{"update_id":1,"message":{"message_id":1,"chat":{"id":1,"type":"private"},"text":"a"}}]}`)
	}))
	defer ts.Close()

	handler := newCaptureHandler()
	poller := NewPoller(PollerOptions{
		Client:  NewClient(Options{Token: "test-token", BaseURL: ts.URL}),
		Handler: handler,
		Logger:  zerolog.Nop(),
		Window:  10 * time.Millisecond,
		Backoff: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	select {
	case id := <-handler.handled:
		if id != 1 {
			t.Fatalf("handled update %d, want 1", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not recover from the failed poll")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}
