// Package scan implements the Scanner stage: one goroutine that loops on an
// input queue of root paths, walks each one with filepath.WalkDir, and
// emits a ProcessDocument command per surviving file onto the extractor
// pool. Grounded on the teacher's background-loop style (pipeline
// orchestrator) and on canopy's Engine, which drives its own file
// discovery with filepath.WalkDir.
package scan

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/dgallion1/docindex/internal/entity"
	"github.com/dgallion1/docindex/internal/extract"
	"github.com/dgallion1/docindex/internal/filter"
)

// Enqueuer accepts extractor commands and tracks them until fully handled.
// Satisfied by *extract.Pool; kept as an interface here so the Scanner
// depends only on the behavior it needs, not the pool's concrete type.
type Enqueuer interface {
	Enqueue(cmd extract.Command)
}

// Scanner holds the filter set and the pool it emits onto. Its filter set
// is read-only after construction, so one Scanner may be shared (its
// filters consulted, never mutated) wherever archive expansion needs the
// same rules — see extract.Pool, which is handed the same *filter.Set.
type Scanner struct {
	filters *filter.Set
	pool    Enqueuer
	input   <-chan string
	log     *slog.Logger
}

// New builds a Scanner reading root paths from input and emitting
// ProcessDocument commands onto pool.
func New(filters *filter.Set, input <-chan string, pool Enqueuer, log *slog.Logger) *Scanner {
	return &Scanner{filters: filters, pool: pool, input: input, log: log}
}

// Filters returns the scanner's filter set, for sharing with the extractor
// pool's archive-expansion path.
func (s *Scanner) Filters() *filter.Set { return s.filters }

// Run loops on the input queue until it is closed. There is no abrupt
// cancellation: a root already being walked always finishes, and a root
// already queued is always scanned before Run returns. Shutdown is by
// closing input, not by a context.
func (s *Scanner) Run() {
	s.log.Info("scanner started")
	for root := range s.input {
		s.scanFolder(root)
	}
	s.log.Info("scanner stopping, queue closed")
}

// scanFolder walks root recursively to completion, testing every regular
// file against the filter set. Unreadable entries (permission errors,
// broken symlinks) are skipped silently rather than aborting the walk.
func (s *Scanner) scanFolder(root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Warn("skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !s.filters.Check(path) {
			return nil
		}

		doc := entity.FromPath(filepath.Base(path))
		doc.Status = entity.StatusScanned
		s.pool.Enqueue(extract.ProcessDocument{
			Scanned: &entity.ScannedDocument{
				ContainerType: entity.ContainerFolder,
				Document:      doc,
				Path:          path,
			},
		})
		return nil
	})
	if err != nil {
		s.log.Error("scan folder failed", "root", root, "error", err)
	}
}
