// Command indexer is the concrete CLI entry point: it builds a filter set,
// wires up the pipeline, submits each positional argument as a scan root,
// and waits for SIGINT/SIGTERM. Grounded on the teacher's cmd/server/main.go
// for the slog + signal-driven graceful shutdown shape.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/docindex/internal/config"
	"github.com/dgallion1/docindex/internal/filter"
	"github.com/dgallion1/docindex/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	roots := os.Args[1:]
	if len(roots) == 0 {
		log.Error("usage: indexer <root> [root...]")
		os.Exit(1)
	}

	cfg := config.Load()
	filters := buildFilters(cfg)

	orch, err := pipeline.New(cfg, filters, log)
	if err != nil {
		log.Error("failed to initialize pipeline", "error", err)
		os.Exit(1)
	}

	orch.Start()

	for _, root := range roots {
		if err := orch.Api().ScanPath(root); err != nil {
			log.Error("failed to submit scan path", "root", root, "error", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down...")
	orch.Stop()
}

// buildFilters is the minimal filter set for a bare CLI invocation: pass
// every file through. A real deployment injects its own Filter rules
// (filename/dir/extension/regex) before calling pipeline.New — the
// specification leaves filter construction to the caller.
func buildFilters(cfg config.Config) *filter.Set {
	return filter.NewSet(filter.ParseMode(cfg.ScannerFiltersMode))
}
