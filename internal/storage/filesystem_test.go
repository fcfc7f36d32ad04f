package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteAndReadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	key, err := store.Write(context.Background(), "7/gen-1.jpg", []byte("image-bytes"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if key != "7/gen-1.jpg" {
		t.Fatalf("Write() key = %q, want %q", key, "7/gen-1.jpg")
	}

	data, err := store.Read(context.Background(), key)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Fatalf("Read() = %q, want the written bytes", data)
	}
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "plain", key: "a/b.jpg", want: "a/b.jpg"},
		{name: "leading slash", key: "/a/b.jpg", want: "a/b.jpg"},
		{name: "dot slash", key: "./a/b.jpg", want: "a/b.jpg"},
		{name: "inner traversal collapses", key: "a/../b.jpg", want: "b.jpg"},
		{name: "escape", key: "../evil.jpg", wantErr: true},
		{name: "deep escape", key: "a/../../evil.jpg", wantErr: true},
		{name: "empty", key: "  ", wantErr: true},
		{name: "dot", key: ".", wantErr: true},
		{name: "bare double dot", key: "..", wantErr: true},
		{name: "backslashes", key: `a\b.jpg`, want: "a/b.jpg"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := sanitizeKey(tc.key)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("sanitizeKey(%q) = %q, want error", tc.key, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("sanitizeKey(%q) returned error: %v", tc.key, err)
			}
			if got != tc.want {
				t.Fatalf("sanitizeKey(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestPathStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	path, err := store.Path("7/gen-1.jpg")
	if err != nil {
		t.Fatalf("Path returned error: %v", err)
	}
	if !strings.HasPrefix(path, root) {
		t.Fatalf("Path() = %q, escapes root %q", path, root)
	}

	if _, err := store.Path("../outside.jpg"); err == nil {
		t.Fatal("Path accepted a traversal key")
	}
}

func TestSweepRemovesOnlyExpiredFiles(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	if _, err := store.Write(context.Background(), "old/a.jpg", []byte("x")); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if _, err := store.Write(context.Background(), "new/b.jpg", []byte("y")); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(root, "old", "a.jpg"), stale, stale); err != nil {
		t.Fatalf("age file: %v", err)
	}

	removed, err := store.Sweep(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("Sweep removed %d files, want 1", removed)
	}
	if _, err := store.Read(context.Background(), "old/a.jpg"); err == nil {
		t.Fatal("expired file survived the sweep")
	}
	if _, err := store.Read(context.Background(), "new/b.jpg"); err != nil {
		t.Fatalf("fresh file was swept: %v", err)
	}
}
