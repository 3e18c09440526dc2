package pipeline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/docindex/internal/config"
	"github.com/dgallion1/docindex/internal/filter"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOrchestrator_ScanPathEndsUpIndexed(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("elephant elephant elephant zebra"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := config.Load()
	cfg.StorageDatabasePath = filepath.Join(t.TempDir(), "storage.db")
	cfg.ExtractorWorkerCount = 1
	cfg.ExtractorInsertBatchSize = 1
	cfg.ExtractorFlushInterval = 20 * time.Millisecond
	cfg.ExtractorReceiveTimeout = 5 * time.Millisecond
	cfg.ScanQueueSize = 4
	cfg.ExtractorQueueSize = 16
	cfg.StorageQueueSize = 16

	filters := filter.NewSet(filter.ModeAnd)

	orch, err := New(cfg, filters, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	orch.Start()
	defer orch.Stop()

	if err := orch.Api().ScanPath(root); err != nil {
		t.Fatalf("ScanPath: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	var filename string
	for time.Now().Before(deadline) {
		row := orch.store.DB().QueryRow("SELECT filename FROM documents_view WHERE filename = ?", "notes.txt")
		if scanErr := row.Scan(&filename); scanErr == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if filename != "notes.txt" {
		t.Fatalf("expected notes.txt to be indexed within the deadline, got filename=%q", filename)
	}

	var content string
	row := orch.store.DB().QueryRow(`
		SELECT i.content FROM index_documents i
		JOIN documents d ON d.id = i.document_id
		WHERE d.filename = ?`, "notes.txt")
	if err := row.Scan(&content); err != nil {
		t.Fatalf("scan indexed content: %v", err)
	}
	if content == "" {
		t.Errorf("expected non-empty indexed content for notes.txt")
	}
}
