package extract

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/docindex/internal/entity"
	"github.com/dgallion1/docindex/internal/filter"
	"github.com/dgallion1/docindex/internal/store"
)

func poolTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPool_FlushesByBatchSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("alpha beta"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	storageQueue := make(chan store.Command, 10)
	cfg := PoolConfig{
		WorkerCount:     1,
		InsertBatchSize: 2,
		FlushInterval:   time.Hour,
		ReceiveTimeout:  10 * time.Millisecond,
		Tokens:          TokenConfig{MinTokenLength: 3, MaxTokens: 10},
	}
	pool := NewPool(cfg, 10, storageQueue, filter.NewSet(filter.ModeAnd), poolTestLogger())
	pool.Start()

	for i := 0; i < 2; i++ {
		doc := entity.FromPath("a.txt")
		pool.Enqueue(ProcessDocument{Scanned: &entity.ScannedDocument{ContainerType: entity.ContainerFolder, Document: doc, Path: path}})
	}

	select {
	case cmd := <-storageQueue:
		bulk, ok := cmd.(store.SaveBulkDocuments)
		if !ok {
			t.Fatalf("expected SaveBulkDocuments, got %T", cmd)
		}
		if len(bulk.Documents) != 2 {
			t.Errorf("expected a flush of 2 documents once the batch size was reached, got %d", len(bulk.Documents))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a flush once InsertBatchSize was reached")
	}

	pool.Drain()
	pool.Wait()
}

func TestPool_FlushesByInterval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("alpha beta"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	storageQueue := make(chan store.Command, 10)
	cfg := PoolConfig{
		WorkerCount:     1,
		InsertBatchSize: 100,
		FlushInterval:   20 * time.Millisecond,
		ReceiveTimeout:  5 * time.Millisecond,
		Tokens:          TokenConfig{MinTokenLength: 3, MaxTokens: 10},
	}
	pool := NewPool(cfg, 10, storageQueue, filter.NewSet(filter.ModeAnd), poolTestLogger())
	pool.Start()

	doc := entity.FromPath("a.txt")
	pool.Enqueue(ProcessDocument{Scanned: &entity.ScannedDocument{ContainerType: entity.ContainerFolder, Document: doc, Path: path}})

	select {
	case cmd := <-storageQueue:
		bulk, ok := cmd.(store.SaveBulkDocuments)
		if !ok {
			t.Fatalf("expected SaveBulkDocuments, got %T", cmd)
		}
		if len(bulk.Documents) != 1 {
			t.Errorf("expected a flush of the single buffered document, got %d", len(bulk.Documents))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a time-based flush once FlushInterval elapsed")
	}

	pool.Drain()
	pool.Wait()
}

func TestPool_ArchiveEntry_MarkedExtractedWithoutReExtraction(t *testing.T) {
	storageQueue := make(chan store.Command, 10)
	cfg := PoolConfig{
		WorkerCount:     1,
		InsertBatchSize: 1,
		FlushInterval:   time.Hour,
		ReceiveTimeout:  10 * time.Millisecond,
		Tokens:          TokenConfig{MinTokenLength: 3, MaxTokens: 10},
	}
	pool := NewPool(cfg, 10, storageQueue, filter.NewSet(filter.ModeAnd), poolTestLogger())
	pool.Start()

	doc := entity.FromPath("inner.txt")
	pool.Enqueue(ProcessDocument{Scanned: &entity.ScannedDocument{ContainerType: entity.ContainerArchive, Document: doc, Path: "inner.txt"}})

	select {
	case cmd := <-storageQueue:
		bulk := cmd.(store.SaveBulkDocuments)
		if len(bulk.Documents) != 1 {
			t.Fatalf("expected 1 document, got %d", len(bulk.Documents))
		}
		if bulk.Documents[0].Document.Status != entity.StatusExtracted {
			t.Errorf("expected archive entry marked Extracted, got %v", bulk.Documents[0].Document.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected the archive entry to flush")
	}

	pool.Drain()
	pool.Wait()
}

func TestPool_DrainClosesQueueOnceIdle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("alpha"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	storageQueue := make(chan store.Command, 10)
	cfg := PoolConfig{
		WorkerCount:     2,
		InsertBatchSize: 1,
		FlushInterval:   time.Hour,
		ReceiveTimeout:  5 * time.Millisecond,
		Tokens:          TokenConfig{MinTokenLength: 3, MaxTokens: 10},
	}
	pool := NewPool(cfg, 10, storageQueue, filter.NewSet(filter.ModeAnd), poolTestLogger())
	pool.Start()

	doc := entity.FromPath("a.txt")
	pool.Enqueue(ProcessDocument{Scanned: &entity.ScannedDocument{ContainerType: entity.ContainerFolder, Document: doc, Path: path}})
	<-storageQueue

	done := make(chan struct{})
	go func() {
		pool.Drain()
		pool.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected Drain+Wait to return once the pool went idle")
	}
}
