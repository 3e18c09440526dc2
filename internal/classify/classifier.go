// Package classify is a declared extension point with no semantic duties
// in the core pipeline. It owns its own command channel, never blocks
// storage, and may only mutate documents by sending SaveDocument commands.
// Its absence must not affect any other stage — Pool, Scanner, and Worker
// never reference it.
package classify

import (
	"log/slog"

	"github.com/dgallion1/docindex/internal/entity"
	"github.com/dgallion1/docindex/internal/store"
)

// Classifier consumes Document values on its own channel and, if it has
// anything to say about one, persists it via a fire-and-forget SaveDocument
// command. The default implementation here does no classification of its
// own — it only demonstrates the extension point's shape.
type Classifier struct {
	input        <-chan *entity.Document
	storageQueue chan<- store.Command
	log          *slog.Logger
}

// New builds a Classifier reading from input and writing to storageQueue.
func New(input <-chan *entity.Document, storageQueue chan<- store.Command, log *slog.Logger) *Classifier {
	return &Classifier{input: input, storageQueue: storageQueue, log: log}
}

// Run loops until input is closed. Shutdown has no cancellation protocol:
// whatever is already queued is classified before Run returns.
func (c *Classifier) Run() {
	c.log.Info("classifier started")
	for doc := range c.input {
		c.classify(doc)
	}
	c.log.Info("classifier stopping, queue closed")
}

// classify is the extension point: a real classifier would set
// doc.Description and send SaveDocument. The placeholder ignores documents
// with an empty Description; any document that already carries one is
// marked Classified and sent as a fire-and-forget SaveDocument.
func (c *Classifier) classify(doc *entity.Document) {
	if doc.Description == "" {
		return
	}
	doc.Status = entity.StatusClassified
	c.storageQueue <- store.SaveDocument{Document: doc}
}
