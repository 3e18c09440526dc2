package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dgallion1/docindex/internal/entity"
)

// Worker is the sole consumer of a Command queue and the sole mutator of
// the Store. It owns an in-memory container cache that needs no locking
// because only this goroutine ever touches it, mirroring the original
// StorageEngine's single-threaded container-resolution guarantee.
type Worker struct {
	store *Store
	log   *slog.Logger
	queue <-chan Command

	cache map[string]*entity.Container
}

// NewWorker builds a Worker reading commands from queue. queue is owned by
// the caller, which closes it once every upstream producer has stopped.
func NewWorker(s *Store, queue <-chan Command, log *slog.Logger) *Worker {
	return &Worker{
		store: s,
		log:   log,
		queue: queue,
		cache: make(map[string]*entity.Container),
	}
}

// Run blocks, dispatching commands until the queue is closed and drained.
// A command error is logged and swallowed unless the command's reply
// channel is present, in which case it is forwarded; no error from a single
// command stops the loop. Only Open's InitializationError is fatal, and
// that is returned before Run is ever called.
func (w *Worker) Run() {
	w.log.Info("storage worker started")
	for cmd := range w.queue {
		w.dispatch(cmd)
	}
	w.log.Info("storage worker stopping, queue closed")
}

func (w *Worker) dispatch(cmd Command) {
	switch c := cmd.(type) {
	case SaveDocument:
		err := w.saveDocument(c.Document)
		w.reply(c.Reply, err)
	case SaveBulkDocuments:
		err := w.saveBulk(c.Documents)
		w.reply(c.Reply, err)
	case SaveArchive:
		container, err := w.saveArchive(c.Archive)
		if c.Reply != nil {
			c.Reply <- SaveArchiveReply{Container: container, Err: err}
		}
	default:
		w.log.Error("storage worker received unknown command", "type", fmt.Sprintf("%T", cmd))
	}
}

func (w *Worker) reply(ch chan error, err error) {
	if err != nil {
		w.log.Error("storage command failed", "error", err)
	}
	if ch != nil {
		ch <- err
	}
}

func (w *Worker) saveDocument(doc *entity.Document) error {
	res, err := w.store.db.Exec(
		"INSERT INTO documents (filename, extension, status, container_id) VALUES (?, ?, ?, ?)",
		doc.Filename, doc.Extension, string(doc.Status), doc.ContainerID,
	)
	if err != nil {
		return classifyWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return &DatabaseError{Err: err}
	}
	doc.ID = id

	if doc.Content != "" || doc.Description != "" {
		if _, err := w.store.db.Exec(
			"INSERT INTO index_documents (document_id, content, description) VALUES (?, ?, ?)",
			id, doc.Content, doc.Description,
		); err != nil {
			return classifyWriteError(err)
		}
	}
	return nil
}

// saveBulk resolves any missing container ids, then inserts every document
// and its index row inside one transaction. An empty slice is a no-op: no
// transaction is opened.
func (w *Worker) saveBulk(documents []*entity.ScannedDocument) error {
	if len(documents) == 0 {
		return nil
	}

	for _, sd := range documents {
		if sd.Document.ContainerID != 0 {
			continue
		}
		parent := filepath.Dir(sd.Path)
		container, err := w.getOrCreate(parent, sd.ContainerType)
		if err != nil {
			return err
		}
		sd.Document.ContainerID = container.ID
	}

	tx, err := w.store.db.Begin()
	if err != nil {
		return &DatabaseError{Err: err}
	}
	defer tx.Rollback()

	for _, sd := range documents {
		doc := sd.Document
		res, err := tx.Exec(
			"INSERT INTO documents (filename, extension, status, container_id) VALUES (?, ?, ?, ?)",
			doc.Filename, doc.Extension, string(doc.Status), doc.ContainerID,
		)
		if err != nil {
			return classifyWriteError(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return &DatabaseError{Err: err}
		}
		doc.ID = id

		if doc.Content == "" && doc.Description == "" {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO index_documents (document_id, content, description) VALUES (?, ?, ?)",
			id, doc.Content, doc.Description,
		); err != nil {
			return classifyWriteError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classifyWriteError(err)
	}
	return nil
}

// saveArchive upserts the archive's container row and stamps its id onto
// the passed-in Container, matching the caller's expectation that archive
// is mutated in place as well as returned.
func (w *Worker) saveArchive(archive *entity.Container) (*entity.Container, error) {
	container, err := w.getOrCreate(archive.Path, archive.Type)
	if err != nil {
		return nil, err
	}
	archive.ID = container.ID
	return archive, nil
}

// getOrCreate resolves a container by path: cache hit first, then an
// upsert-or-select round trip against the containers table. Grounded on
// Container::get_or_create in the original entities/container.rs.
func (w *Worker) getOrCreate(path string, containerType entity.ContainerType) (*entity.Container, error) {
	if c, ok := w.cache[path]; ok {
		return c, nil
	}

	row := w.store.db.QueryRow(
		`INSERT INTO containers (path, type) VALUES (?, ?)
		 ON CONFLICT(path) DO NOTHING
		 RETURNING id, path, type`,
		path, string(containerType),
	)

	container, err := scanContainer(row)
	if err == sql.ErrNoRows {
		row = w.store.db.QueryRow("SELECT id, path, type FROM containers WHERE path = ?", path)
		container, err = scanContainer(row)
	}
	if err != nil {
		return nil, &ContainerError{Err: err}
	}

	w.cache[path] = container
	return container, nil
}

func scanContainer(row *sql.Row) (*entity.Container, error) {
	var c entity.Container
	var typ string
	if err := row.Scan(&c.ID, &c.Path, &typ); err != nil {
		return nil, err
	}
	c.Type = entity.ContainerType(typ)
	return &c, nil
}
