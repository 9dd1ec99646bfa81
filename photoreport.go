// Package photoreport turns a folder tree of photos into a normalized image
// tree plus a single .docx report mirroring the hierarchy.
//
// The pipeline has three sequential stages:
//
// 1. Scanner (pkg/scanner): recursively lists folders containing images
// 2. Transcoder (pkg/transcoder): resizes and re-encodes every image as JPEG
// 3. Report (pkg/report): assembles headings, pictures and captions into .docx
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/rcsoft/photoreport"
//	)
//
//	func main() {
//		pipeline := photoreport.New()
//		stats, err := pipeline.Run(context.Background(), "./photos", "./out", "./report.docx")
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("processed %d images in %d folders", stats.Images, stats.Folders)
//	}
//
// Transcoded files land under the output root at the same relative path as
// their source, filename untouched; the report reads them back through the
// same mapping (pkg/pathmap). Errors are never recovered from: the first
// failure in any stage aborts the run and surfaces to the caller.
package photoreport

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rcsoft/photoreport/internal/utils"
	"github.com/rcsoft/photoreport/pkg/pathmap"
	"github.com/rcsoft/photoreport/pkg/report"
	"github.com/rcsoft/photoreport/pkg/scanner"
	"github.com/rcsoft/photoreport/pkg/transcoder"
)

// Version of the photoreport library
const Version = "1.0.0"

// Pipeline runs the scan, transcode and report stages in order.
type Pipeline struct {
	scanner    *scanner.Scanner
	transcoder *transcoder.Transcoder
	builder    *report.Builder
	workers    int
}

// Stats summarizes a completed run.
type Stats struct {
	// Folders is the number of folders that contained at least one image.
	Folders int
	// Images is the number of images transcoded and embedded.
	Images int
}

// New creates a new Pipeline with default configuration
func New() *Pipeline {
	return &Pipeline{
		scanner:    scanner.New(),
		transcoder: transcoder.New(),
		builder:    report.New(),
		workers:    runtime.NumCPU(),
	}
}

// NewWithConfig creates a new Pipeline with custom configuration. workers
// bounds concurrent transcodes; 1 runs them fully sequentially.
func NewWithConfig(scanConfig scanner.Config, params transcoder.Params, opts report.Options, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		scanner:    scanner.NewWithConfig(scanConfig),
		transcoder: transcoder.NewWithParams(params),
		builder:    report.NewWithOptions(opts),
		workers:    workers,
	}
}

// Run scans inputDir, writes normalized JPEGs mirrored under outputDir, and
// saves the assembled document at docPath. Any error aborts the run;
// partially written output files are left in place.
func (p *Pipeline) Run(ctx context.Context, inputDir, outputDir, docPath string) (Stats, error) {
	entries, err := p.scanner.Scan(inputDir)
	if err != nil {
		return Stats{}, fmt.Errorf("scan of %s failed: %w", inputDir, err)
	}

	stats := Stats{Folders: len(entries)}
	for _, entry := range entries {
		stats.Images += len(entry.Images)
	}

	if err := p.transcodeAll(ctx, entries, inputDir, outputDir); err != nil {
		return stats, err
	}

	if err := p.builder.Build(entries, inputDir, outputDir, docPath); err != nil {
		return stats, fmt.Errorf("report generation failed: %w", err)
	}
	return stats, nil
}

// transcodeAll processes every discovered image on a bounded worker pool.
// All destination directories exist before the first worker starts, the
// source-to-destination mapping is independent of execution order, and the
// group wait is a barrier: the report stage never sees an unfinished tree.
func (p *Pipeline) transcodeAll(ctx context.Context, entries []scanner.FolderEntry, inputDir, outputDir string) error {
	for _, entry := range entries {
		dir, err := pathmap.OutputPath(inputDir, outputDir, entry.Path, "")
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, entry := range entries {
		for _, name := range entry.Images {
			src := filepath.Join(entry.Path, name)
			dst, err := pathmap.OutputPath(inputDir, outputDir, entry.Path, name)
			if err != nil {
				return err
			}
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := p.transcoder.Transcode(src, dst); err != nil {
					return fmt.Errorf("failed to process %s: %w", src, err)
				}
				return nil
			})
		}
	}

	return g.Wait()
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
