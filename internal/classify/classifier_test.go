package classify

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/docindex/internal/entity"
	"github.com/dgallion1/docindex/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClassifier_SkipsDocumentsWithoutDescription(t *testing.T) {
	input := make(chan *entity.Document, 1)
	storageQueue := make(chan store.Command, 1)
	c := New(input, storageQueue, testLogger())
	go c.Run()

	input <- entity.FromPath("a.txt")

	select {
	case <-storageQueue:
		t.Fatalf("expected no SaveDocument for a document without a description")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClassifier_PersistsDescribedDocuments(t *testing.T) {
	input := make(chan *entity.Document, 1)
	storageQueue := make(chan store.Command, 1)
	c := New(input, storageQueue, testLogger())
	go c.Run()

	doc := entity.FromPath("a.txt")
	doc.Description = "a summary"
	input <- doc

	select {
	case cmd := <-storageQueue:
		sd, ok := cmd.(store.SaveDocument)
		if !ok {
			t.Fatalf("expected SaveDocument, got %T", cmd)
		}
		if sd.Document.Status != entity.StatusClassified {
			t.Errorf("expected status Classified, got %v", sd.Document.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected SaveDocument to be sent")
	}
}

func TestClassifier_StopsWhenInputClosed(t *testing.T) {
	input := make(chan *entity.Document)
	storageQueue := make(chan store.Command, 1)
	c := New(input, storageQueue, testLogger())

	done := make(chan struct{})
	go func() {
		c.Run()
		close(done)
	}()

	close(input)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("classifier did not stop after input was closed")
	}
}
