package scan

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/docindex/internal/extract"
	"github.com/dgallion1/docindex/internal/filter"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

// fakePool is a minimal Enqueuer that records every command it receives,
// standing in for *extract.Pool so the Scanner can be tested in isolation.
type fakePool struct {
	mu       sync.Mutex
	commands []extract.Command
}

func (f *fakePool) Enqueue(cmd extract.Command) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
}

func (f *fakePool) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.commands)
}

func (f *fakePool) snapshot() []extract.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]extract.Command, len(f.commands))
	copy(out, f.commands)
	return out
}

func TestScanner_EmitsOneCommandPerSurvivingFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "alpha")
	writeFile(t, filepath.Join(root, "b.pdf"), "not really a pdf")
	writeFile(t, filepath.Join(root, "sub", "c.txt"), "gamma")

	filters := filter.NewSet(filter.ModeAnd, filter.New().SetExtensionIs("txt"))
	input := make(chan string, 1)
	pool := &fakePool{}

	s := New(filters, input, pool, testLogger())

	done := make(chan struct{})
	go func() {
		s.Run()
		close(done)
	}()

	input <- root
	close(input)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("scanner did not stop after input closed")
	}

	if pool.len() != 2 {
		t.Fatalf("expected 2 commands emitted (txt files only), got %d", pool.len())
	}

	seen := map[string]bool{}
	for _, cmd := range pool.snapshot() {
		pd, ok := cmd.(extract.ProcessDocument)
		if !ok {
			t.Fatalf("expected ProcessDocument, got %T", cmd)
		}
		seen[pd.Scanned.Document.Filename] = true
	}
	if !seen["a.txt"] || !seen["c.txt"] {
		t.Fatalf("expected a.txt and c.txt to be scanned, got %v", seen)
	}
}

func TestScanner_StopsWhenInputClosed(t *testing.T) {
	filters := filter.NewSet(filter.ModeAnd)
	input := make(chan string)
	pool := &fakePool{}
	s := New(filters, input, pool, testLogger())

	done := make(chan struct{})
	go func() {
		s.Run()
		close(done)
	}()

	close(input)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("scanner did not stop after input was closed")
	}
}

func TestScanner_FinishesQueuedRootBeforeStopping(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "alpha")

	filters := filter.NewSet(filter.ModeAnd, filter.New().SetExtensionIs("txt"))
	input := make(chan string, 1)
	pool := &fakePool{}
	s := New(filters, input, pool, testLogger())

	input <- root
	close(input)

	done := make(chan struct{})
	go func() {
		s.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("scanner did not stop after draining its queued root")
	}
	if pool.len() != 1 {
		t.Fatalf("expected the queued root to be fully scanned before shutdown, got %d commands", pool.len())
	}
}
