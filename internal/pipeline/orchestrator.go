// Package pipeline wires the Store, Storage worker, Extractor pool,
// Scanner, and Classifier into one running system, and exposes the
// Command API used to submit scan requests. Grounded on the teacher's
// Orchestrator for the one-goroutine-per-stage shape; shutdown follows a
// staged close cascade rather than a shared cancellation signal, since the
// pipeline's contract has no abrupt-cancellation semantics — a root or
// document already accepted is always finished, never abandoned mid-flight.
package pipeline

import (
	"log/slog"

	"github.com/dgallion1/docindex/internal/api"
	"github.com/dgallion1/docindex/internal/classify"
	"github.com/dgallion1/docindex/internal/config"
	"github.com/dgallion1/docindex/internal/entity"
	"github.com/dgallion1/docindex/internal/extract"
	"github.com/dgallion1/docindex/internal/filter"
	"github.com/dgallion1/docindex/internal/scan"
	"github.com/dgallion1/docindex/internal/store"
)

// Orchestrator owns every queue and every stage goroutine. Cyclic ownership
// (the extractor re-injecting into its own queue) is resolved by giving the
// pool sole ownership of its queue: Scanner and the pool's own archive
// expansion both submit through Pool.Enqueue, which tracks in-flight work
// so the pool knows when it is safe to close its queue.
type Orchestrator struct {
	store      *store.Store
	storageWkr *store.Worker
	pool       *extract.Pool
	scanner    *scan.Scanner
	classifier *classify.Classifier
	api        *api.Api

	scanQueue     chan string
	classifyQueue chan *entity.Document
	storageQueue  chan store.Command

	log *slog.Logger

	scannerDone    chan struct{}
	classifierDone chan struct{}
	storageDone    chan struct{}
}

// New opens the store, applies its schema, and builds every stage without
// starting any goroutines yet. A database open/migrate failure here is the
// system's only fatal error class (InitializationError); the caller must
// not call Start in that case.
func New(cfg config.Config, filters *filter.Set, log *slog.Logger) (*Orchestrator, error) {
	pragmas := store.Pragmas{
		JournalMode: cfg.StorageDBJournalMode,
		CacheSize:   cfg.StorageDBCacheSize,
		TempStore:   cfg.StorageDBTempStore,
		LockingMode: cfg.StorageDBLockingMode,
	}
	s, err := store.Open(cfg.StorageDatabasePath, pragmas)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		store:         s,
		scanQueue:     make(chan string, cfg.ScanQueueSize),
		classifyQueue: make(chan *entity.Document, cfg.ExtractorQueueSize),
		storageQueue:  make(chan store.Command, cfg.StorageQueueSize),
		log:           log,
	}

	o.storageWkr = store.NewWorker(s, o.storageQueue, log.With("component", "storage"))
	o.pool = extract.NewPool(extract.PoolConfig{
		WorkerCount:     cfg.ExtractorWorkerCount,
		InsertBatchSize: cfg.ExtractorInsertBatchSize,
		FlushInterval:   cfg.ExtractorFlushInterval,
		ReceiveTimeout:  cfg.ExtractorReceiveTimeout,
		Tokens: extract.TokenConfig{
			MinTokenLength: cfg.ExtractorTokensMinLength,
			MaxTokens:      cfg.ExtractorMaxTokens,
		},
	}, cfg.ExtractorQueueSize, o.storageQueue, filters, log.With("component", "extractor"))
	o.scanner = scan.New(filters, o.scanQueue, o.pool, log.With("component", "scanner"))
	o.classifier = classify.New(o.classifyQueue, o.storageQueue, log.With("component", "classifier"))
	o.api = api.New(o.scanQueue)

	return o, nil
}

// Start launches one goroutine per stage. There is no shared cancellation
// context: every stage runs until its own input channel is closed and
// drained.
func (o *Orchestrator) Start() {
	o.storageDone = make(chan struct{})
	go func() {
		o.storageWkr.Run()
		close(o.storageDone)
	}()

	o.pool.Start()

	o.classifierDone = make(chan struct{})
	go func() {
		o.classifier.Run()
		close(o.classifierDone)
	}()

	o.scannerDone = make(chan struct{})
	go func() {
		o.scanner.Run()
		close(o.scannerDone)
	}()
}

// Stop runs the shutdown cascade in order: Scanner input closed → Scanner
// exits when drained → Extractor input drains once the Scanner (its only
// external producer) has stopped submitting → Extractor workers each
// perform a final flush → Classifier input closed and drained → Storage
// input closed → Storage worker exits. The store is closed last, once
// nothing can write to it anymore.
func (o *Orchestrator) Stop() {
	close(o.scanQueue)
	<-o.scannerDone

	o.pool.Drain()
	o.pool.Wait()

	close(o.classifyQueue)
	<-o.classifierDone

	close(o.storageQueue)
	<-o.storageDone

	if err := o.store.Close(); err != nil {
		o.log.Error("error closing store", "error", err)
	}
}

// Api returns the Command API surface for submitting scan requests.
func (o *Orchestrator) Api() *api.Api { return o.api }
