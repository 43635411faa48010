// Package batch processes a directory of bill documents with a fixed pool of
// independent workers.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"warikan/internal/format"
	"warikan/internal/service"
)

// Stats aggregates one batch run.
type Stats struct {
	Scanned   int // directory entries looked at
	Matched   int // bill documents dispatched to workers
	Succeeded int
	Failed    int
}

// Runner fans bill documents out to a worker pool. Workers share nothing but
// the processor, which is stateless, so no locking is needed beyond the
// outcome counters.
type Runner struct {
	Proc    *service.Processor
	Workers int
}

// NewRunner builds a runner; workers below 1 are clamped to 1.
func NewRunner(proc *service.Processor, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{Proc: proc, Workers: workers}
}

// Run discovers every .json document directly under dir and processes each
// one independently. A failing document is logged and counted, never aborts
// the batch, and never cancels a sibling; the stats are collected only after
// every worker has settled.
func (r *Runner) Run(ctx context.Context, dir string) (Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Stats{}, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var stats Stats
	var paths []string
	for _, e := range entries {
		stats.Scanned++
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !isBillDocument(path) {
			continue
		}
		paths = append(paths, path)
	}
	stats.Matched = len(paths)

	var succeeded, failed atomic.Int64
	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < r.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if r.processOne(path) {
					succeeded.Add(1)
				} else {
					failed.Add(1)
				}
			}
		}()
	}

feed:
	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	stats.Succeeded = int(succeeded.Load())
	stats.Failed = int(failed.Load())
	slog.Info("batch finished",
		"dir", dir,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)
	return stats, nil
}

// processOne handles a single document and reports whether it succeeded.
func (r *Runner) processOne(path string) bool {
	jobID := uuid.NewString()
	artifact, err := r.Proc.ProcessFile(path)
	if err != nil {
		slog.Error("document failed", "job_id", jobID, "path", path, "error", err)
		return false
	}
	slog.Info("document processed", "job_id", jobID, "path", path, "artifact", artifact)
	return true
}

// isBillDocument filters discovery to .json inputs that are not artifacts of
// a previous run.
func isBillDocument(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return false
	}
	return !format.IsArtifact(path)
}
