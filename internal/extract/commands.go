package extract

import "github.com/dgallion1/docindex/internal/entity"

// Command is the sum type the extractor pool consumes.
type Command interface {
	isExtractorCommand()
}

// ProcessDocument asks a worker to decode one file (or, for an Archive-
// sourced entry, simply mark it Extracted and buffer it — its bytes were
// already consumed when the archive was expanded).
type ProcessDocument struct {
	Scanned *entity.ScannedDocument
}

func (ProcessDocument) isExtractorCommand() {}

// ProcessCompressedDocuments carries a batch pre-expanded elsewhere: a
// container plus its documents, ready to go straight to persistence. This
// variant exists for archive formats that aren't self-extracted inline by
// a worker (reserved extension point; ZIP does not use it, since
// ExpandZip runs synchronously inside the worker that dequeues it).
type ProcessCompressedDocuments struct {
	Container *entity.Container
	Documents []*entity.ScannedDocument
}

func (ProcessCompressedDocuments) isExtractorCommand() {}
