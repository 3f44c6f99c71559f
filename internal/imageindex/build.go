package imageindex

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/kamusis/chroma/internal/features"
	"github.com/kamusis/chroma/internal/pixels"
)

// ProgressFunc receives build progress. fraction is in [0,1]; done is true
// on the final call.
type ProgressFunc func(description string, fraction float64, done bool)

// BuildOptions controls corpus indexing.
type BuildOptions struct {
	Name     string
	Roots    []string
	Discover pixels.DiscoverOptions
	Reader   pixels.Reader
	// Workers is the number of concurrent extractions. Zero means NumCPU.
	Workers  int
	Progress ProgressFunc
}

// Failure records an image that could not be indexed.
type Failure struct {
	Path string
	Err  error
}

// BuildReport summarises a build.
type BuildReport struct {
	Discovered int
	Indexed    int
	Failures   []Failure
}

type extractJob struct {
	pos  int
	path string
}

type extractResult struct {
	pos int
	rec features.Record
	err error
}

// Build discovers the images under the configured roots and indexes them.
// Images are read and extracted concurrently, then appended in sorted path
// order so the result does not depend on scheduling. An image that fails is
// reported and skipped. Cancelling ctx stops the build between images.
func Build(ctx context.Context, opts BuildOptions) (*Index, BuildReport, error) {
	var report BuildReport
	if opts.Reader == nil {
		return nil, report, fmt.Errorf("pixel reader is required")
	}
	paths, err := pixels.Discover(opts.Roots, opts.Discover)
	if err != nil {
		return nil, report, err
	}
	report.Discovered = len(paths)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(string, float64, bool) {}
	}

	var (
		wg      = new(sync.WaitGroup)
		jobs    = make(chan extractJob)
		results = make(chan extractResult, workers)
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go extractWorker(ctx, opts.Reader, jobs, results, wg)
	}
	go func() {
		defer close(jobs)
		for i, p := range paths {
			select {
			case jobs <- extractJob{pos: i, path: p}:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]*extractResult, len(paths))
	done := 0
	for res := range results {
		collected[res.pos] = &res
		done++
		progress(paths[res.pos], float64(done)/float64(max(len(paths), 1)), false)
	}
	if err := ctx.Err(); err != nil {
		progress("cancelled", float64(done)/float64(max(len(paths), 1)), true)
		return nil, report, err
	}

	idx := New(opts.Name)
	for i, res := range collected {
		if res == nil {
			continue
		}
		err := res.err
		if err == nil {
			err = idx.Add(paths[i], res.rec)
		}
		if err != nil {
			report.Failures = append(report.Failures, Failure{Path: paths[i], Err: err})
			continue
		}
		report.Indexed++
	}
	progress("done", 1, true)
	return idx, report, nil
}

func extractWorker(ctx context.Context, reader pixels.Reader, jobs <-chan extractJob, results chan<- extractResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range jobs {
		if ctx.Err() != nil {
			continue
		}
		px, err := reader.ReadPixels(j.path)
		if err != nil {
			results <- extractResult{pos: j.pos, err: err}
			continue
		}
		results <- extractResult{pos: j.pos, rec: features.Extract(features.ComputeID(j.path), px)}
	}
}
