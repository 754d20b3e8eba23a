package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/pxldyrk/getcontext/walk"
)

// Content is the extraction result for one eligible file. Err is non-nil
// when extraction failed; the entry still carries its path so the
// combiner can frame an explicit failure marker.
type Content struct {
	RelativePath string
	Text         string
	Err          error
}

// DefaultWorkers bounds the extraction pool when no worker count is given.
const DefaultWorkers = 8

// Batch extracts many files concurrently over one registry.
type Batch struct {
	Registry *Registry
	Workers  int
	Logger   *slog.Logger
}

// ExtractAll resolves every eligible file under root to content. Files
// are independent, so they are fanned out to a bounded worker pool; the
// result order is unspecified and the combiner sorts. Per-file failures
// are recorded in the returned slice, never fatal. A cancelled context
// aborts the batch and discards partial results.
func (b *Batch) ExtractAll(ctx context.Context, root string, files []walk.File) ([]Content, error) {
	workers := b.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	jobs := make(chan walk.File)
	results := make([]Content, 0, len(files))
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				text, err := b.Registry.Extract(filepath.Join(root, filepath.FromSlash(file.RelativePath)), file.Classification)
				if err != nil && b.Logger != nil {
					b.Logger.Debug("extraction failed", "path", file.RelativePath, "error", err)
				}
				mu.Lock()
				results = append(results, Content{RelativePath: file.RelativePath, Text: text, Err: err})
				mu.Unlock()
			}
		}()
	}

	var cancelled error
feed:
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case jobs <- file:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return results, nil
}
