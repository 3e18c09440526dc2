// Package entity holds the plain data types shared across pipeline stages:
// Document, Container, and the ScannedDocument transport record that pairs
// them. None of these types own a channel or a database handle — they are
// passed by value (or pointer) between the scanner, extractor pool, and
// storage worker.
package entity

import (
	"path/filepath"
	"strings"
)

// Status is the lifecycle state of a Document. Transitions are monotonic:
// New -> Scanned -> Extracted -> (Classified) | Deleted. Nothing moves
// backwards.
type Status string

const (
	StatusNew        Status = "New"
	StatusScanned    Status = "Scanned"
	StatusExtracted  Status = "Extracted"
	StatusClassified Status = "Classified"
	StatusDeleted    Status = "Deleted"
)

// FormatType classifies a Document by extension for extractor dispatch.
// It is a closed set: new formats are added by code change, not by
// registering a new type at runtime (design note: polymorphism over format
// extractors via a per-variant dispatch table, not open subtyping).
type FormatType int

const (
	FormatUnknown FormatType = iota
	FormatText
	FormatPdf
	FormatDocx
	FormatArchiveZip
)

func (f FormatType) String() string {
	switch f {
	case FormatText:
		return "Text"
	case FormatPdf:
		return "Pdf"
	case FormatDocx:
		return "Docx"
	case FormatArchiveZip:
		return "Archive(Zip)"
	default:
		return "Unknown"
	}
}

// extensionFormats maps a lowercased, dot-free extension to its FormatType.
// txt/md/markdown/html/htm/csv all resolve to FormatText: each carries its
// own decoding routine (internal/extract), but all of them produce a flat
// text corpus for the same keyword tokenizer, so they share one format
// class at the dispatch layer.
var extensionFormats = map[string]FormatType{
	"txt":      FormatText,
	"md":       FormatText,
	"markdown": FormatText,
	"html":     FormatText,
	"htm":      FormatText,
	"csv":      FormatText,
	"pdf":      FormatPdf,
	"docx":     FormatDocx,
	"zip":      FormatArchiveZip,
}

// FormatTypeForExtension resolves a lowercased extension (no leading dot)
// to its FormatType, or FormatUnknown if unrecognized.
func FormatTypeForExtension(ext string) FormatType {
	if t, ok := extensionFormats[strings.ToLower(ext)]; ok {
		return t
	}
	return FormatUnknown
}

// Document is the essential unit the pipeline moves: one file (on disk or
// inside an archive) that will become one row in the documents table.
//
// ID and ContainerID are 0 until persisted/resolved — SQLite's INTEGER
// PRIMARY KEY never assigns 0, so the zero value doubles as "unset" without
// a separate pointer or bool.
type Document struct {
	ID          int64
	Filename    string
	Extension   string // lowercased, no leading dot; may be empty
	Content     string // keyword summary; empty until extraction
	Description string // free text; empty unless set by a classifier or caller
	Status      Status
	ContainerID int64
}

// FromPath builds a new Document for a freshly discovered file. filename may
// be a bare name (Folder-sourced) or an archive-relative entry path
// (Archive-sourced, e.g. "sub/dir/report.txt") — both are stored verbatim
// as Filename so that (filename, container_id) stays unique per container.
func FromPath(filename string) *Document {
	base := filename
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	return &Document{
		Filename:  filename,
		Extension: ext,
		Status:    StatusNew,
	}
}

// FormatType resolves this document's extractor class.
func (d *Document) FormatType() FormatType {
	return FormatTypeForExtension(d.Extension)
}

// ContainerType distinguishes how a Container came to exist.
type ContainerType string

const (
	ContainerFolder  ContainerType = "Folder"
	ContainerArchive ContainerType = "Archive"
)

// Container is the persisted parent of one or more documents: a filesystem
// directory or an archive file. Path is unique across all containers.
type Container struct {
	ID   int64
	Path string
	Type ContainerType
}

// ScannedDocument pairs a Document with the kind of container it entered
// the pipeline from, plus the filesystem path used to resolve that
// container lazily. Path is never persisted as a column — the storage
// schema is container-keyed, not path-keyed (see store package) — it only
// exists in-flight to let the storage worker compute dirname(Path) the
// first time a document without a ContainerID reaches it.
type ScannedDocument struct {
	ContainerType ContainerType
	Document      *Document
	Path          string
}
