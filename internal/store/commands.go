package store

import "github.com/dgallion1/docindex/internal/entity"

// Command is the sum type the storage Worker consumes. Every variant below
// implements it; dispatch happens via a type switch in Worker.Run, mirroring
// the teacher's command-queue pattern rather than an interface with real
// behavior methods.
type Command interface {
	isStorageCommand()
}

// SaveDocument inserts a single documents row (and, when content or
// description is non-empty, a matching index_documents row). Document.
// ContainerID must already be set — SaveDocument does not resolve a parent
// container; that is SaveBulkDocuments' job. Reply is optional: nil means
// fire-and-forget.
type SaveDocument struct {
	Document *entity.Document
	Reply    chan error
}

func (SaveDocument) isStorageCommand() {}

// SaveBulkDocuments persists many scanned documents in one transaction.
// For any document missing a ContainerID, the worker resolves (and caches)
// the parent container from Path/ContainerType first. Reply is optional.
type SaveBulkDocuments struct {
	Documents []*entity.ScannedDocument
	Reply     chan error
}

func (SaveBulkDocuments) isStorageCommand() {}

// SaveArchive upserts a container row for an archive and reports it back
// with its assigned id. Reply is mandatory: the Extractor blocks on it
// before it can stamp the id into the archive's entries and re-inject them.
type SaveArchive struct {
	Archive *entity.Container
	Reply   chan SaveArchiveReply
}

func (SaveArchive) isStorageCommand() {}

// SaveArchiveReply is the single response SaveArchive's Reply channel ever
// carries.
type SaveArchiveReply struct {
	Container *entity.Container
	Err       error
}
