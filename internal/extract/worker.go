package extract

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docindex/internal/entity"
	"github.com/dgallion1/docindex/internal/filter"
	"github.com/dgallion1/docindex/internal/store"
)

// PoolConfig bounds worker count, batching, and tokenization. It carries no
// defaults of its own; the orchestrator fills it from config.Config.
type PoolConfig struct {
	WorkerCount     int
	InsertBatchSize int
	FlushInterval   time.Duration
	ReceiveTimeout  time.Duration
	Tokens          TokenConfig
}

// Pool is the extractor worker pool: WorkerCount goroutines sharing one
// command queue (fan-out, no partitioning by key). The queue is owned by
// the pool itself, not exposed raw, since archive expansion re-injects
// entries onto it internally (see Enqueue/enqueueAsync) and the pool needs
// to know exactly how many commands are in flight to shut down cleanly.
type Pool struct {
	cfg          PoolConfig
	queue        chan Command
	inflight     sync.WaitGroup
	storageQueue chan<- store.Command
	filters      *filter.Set
	log          *slog.Logger
	wg           sync.WaitGroup
}

// NewPool builds a Pool with a queue of the given capacity.
func NewPool(cfg PoolConfig, queueSize int, storageQueue chan<- store.Command, filters *filter.Set, log *slog.Logger) *Pool {
	return &Pool{
		cfg:          cfg,
		queue:        make(chan Command, queueSize),
		storageQueue: storageQueue,
		filters:      filters,
		log:          log,
	}
}

// Enqueue submits cmd to the pool and tracks it as in-flight until a worker
// finishes handling it. External producers (the Scanner) must call this
// instead of writing to a raw channel, so Drain can detect true queue
// idleness including any archive entries a submitted command re-injects.
func (p *Pool) Enqueue(cmd Command) {
	p.inflight.Add(1)
	p.queue <- cmd
}

// enqueueAsync marks cmd in-flight synchronously, then performs the
// (possibly blocking) channel send from its own goroutine. Used for
// archive re-injection: sending from the worker's own goroutine onto its
// own queue could deadlock against a full bounded channel, but Add must
// still happen before this call returns so the in-flight count cannot
// transiently reach zero while the send is still pending.
func (p *Pool) enqueueAsync(cmd Command) {
	p.inflight.Add(1)
	go func() {
		p.queue <- cmd
	}()
}

// Start launches cfg.WorkerCount goroutines. Each exits once the queue is
// closed and drained, performing one final flush first.
func (p *Pool) Start() {
	for i := 0; i < p.cfg.WorkerCount; i++ {
		p.wg.Add(1)
		go p.runWorker(i)
	}
}

// Wait blocks until every worker goroutine has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Drain blocks until every in-flight command — including any archive
// entries still being re-injected — has finished processing, then closes
// the queue so workers can exit. The caller must ensure every external
// producer has already stopped calling Enqueue before calling Drain,
// otherwise a late Enqueue will panic sending on a closed channel.
func (p *Pool) Drain() {
	p.inflight.Wait()
	close(p.queue)
}

func (p *Pool) runWorker(id int) {
	defer p.wg.Done()
	log := p.log.With("worker", id)
	log.Info("extractor worker started")

	var buf []*entity.ScannedDocument
	lastFlush := time.Now()

	for {
		select {
		case cmd, ok := <-p.queue:
			if !ok {
				p.flush(buf, log)
				log.Info("extractor worker stopping, queue closed")
				return
			}
			buf = p.handle(cmd, buf, log)
			p.inflight.Done()
		case <-time.After(p.cfg.ReceiveTimeout):
		}

		if p.shouldFlush(buf, lastFlush) {
			p.flush(buf, log)
			buf = nil
			lastFlush = time.Now()
		}
	}
}

func (p *Pool) shouldFlush(buf []*entity.ScannedDocument, lastFlush time.Time) bool {
	if len(buf) >= p.cfg.InsertBatchSize {
		return true
	}
	return len(buf) > 0 && time.Since(lastFlush) >= p.cfg.FlushInterval
}

func (p *Pool) flush(buf []*entity.ScannedDocument, log *slog.Logger) {
	if len(buf) == 0 {
		return
	}
	log.Debug("flushing documents", "count", len(buf))
	p.storageQueue <- store.SaveBulkDocuments{Documents: buf}
}

func (p *Pool) handle(cmd Command, buf []*entity.ScannedDocument, log *slog.Logger) []*entity.ScannedDocument {
	switch c := cmd.(type) {
	case ProcessDocument:
		return p.handleProcessDocument(c.Scanned, buf, log)
	case ProcessCompressedDocuments:
		for _, sd := range c.Documents {
			if sd.Document.ContainerID == 0 {
				sd.Document.ContainerID = c.Container.ID
			}
			buf = append(buf, sd)
		}
		return buf
	default:
		log.Error("extractor received unknown command")
		return buf
	}
}

func (p *Pool) handleProcessDocument(sd *entity.ScannedDocument, buf []*entity.ScannedDocument, log *slog.Logger) []*entity.ScannedDocument {
	if sd.ContainerType == entity.ContainerArchive {
		// A zip entry: its bytes were already consumed when the archive
		// was expanded, nothing further to decode.
		sd.Document.Status = entity.StatusExtracted
		return append(buf, sd)
	}

	switch sd.Document.FormatType() {
	case entity.FormatText, entity.FormatPdf, entity.FormatDocx:
		content, err := Content(sd.Path, sd.Document.FormatType(), p.cfg.Tokens)
		if err != nil {
			log.Warn("extraction failed, skipping document", "path", sd.Path, "error", err)
			return buf
		}
		sd.Document.Content = content
		sd.Document.Status = entity.StatusExtracted
		return append(buf, sd)

	case entity.FormatArchiveZip:
		p.expandArchive(sd, log)
		return buf

	default:
		log.Warn("unknown format, dropping document", "path", sd.Path)
		return buf
	}
}

// expandArchive opens the zip, registers its container with Storage, and
// re-injects one ProcessDocument per surviving entry once the container
// has a real id. The SaveArchive round trip is blocking by design: entries
// must not be persisted before their parent container exists.
func (p *Pool) expandArchive(sd *entity.ScannedDocument, log *slog.Logger) {
	archive, documents, err := ExpandZip(sd.Path, p.filters)
	if err != nil {
		log.Warn("archive expansion failed, skipping", "path", sd.Path, "error", err)
		return
	}

	reply := make(chan store.SaveArchiveReply, 1)
	p.storageQueue <- store.SaveArchive{Archive: archive, Reply: reply}
	res := <-reply
	if res.Err != nil {
		log.Error("failed to save archive container, dropping entries", "path", sd.Path, "error", res.Err)
		return
	}

	for _, entry := range documents {
		entry.Document.ContainerID = res.Container.ID
		p.enqueueAsync(ProcessDocument{Scanned: entry})
	}
}
