package album

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/arts-link/gordon-landreth-photography/internal/imaging"
)

// ArtifactName is the per-album artifact filename, written into the album
// directory where the site generator picks it up.
const ArtifactName = "ocr_captions.json"

// ScanConfig controls which albums are scanned and how.
type ScanConfig struct {
	// ContentDir is the root holding one subdirectory per album.
	ContentDir string

	// Album restricts the scan to a single album directory name under
	// ContentDir. Empty scans every album.
	Album string

	// Limit caps the pages processed per album, for sampling runs while
	// tuning thresholds. Zero means all pages.
	Limit int

	// Workers sizes the page worker pool. Zero or negative means one worker
	// per available CPU.
	Workers int

	// OverlayDir, when set, receives a candidate-region overlay PNG per page
	// under a subdirectory named after the album.
	OverlayDir string
}

// Scanner drives the pipeline over album directories and writes the
// per-album artifacts.
type Scanner struct {
	cfg      ScanConfig
	pipe     *Pipeline
	progress io.Writer
}

// NewScanner returns a scanner writing progress summaries to stderr.
func NewScanner(cfg ScanConfig, pipe *Pipeline) *Scanner {
	return &Scanner{cfg: cfg, pipe: pipe, progress: os.Stderr}
}

// DiscoverAlbums returns the direct subdirectories of contentDir containing
// at least one page image, sorted by directory name.
func DiscoverAlbums(contentDir string) ([]string, error) {
	entries, err := os.ReadDir(contentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(contentDir, entry.Name())
		pages, err := imaging.DiscoverPages(dir)
		if err != nil {
			slog.Warn("skipping unreadable album directory",
				"dir", dir,
				"error", err)
			continue
		}
		if len(pages) == 0 {
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

// ScanAll scans every selected album and returns their records in album
// directory order.
//
// A failing album is logged and skipped so one bad directory cannot sink a
// multi-hour run; only context cancellation stops the scan early.
func (s *Scanner) ScanAll(ctx context.Context) ([]Record, error) {
	dirs, err := s.albumDirs()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(dirs))
	for _, dir := range dirs {
		rec, err := s.ScanAlbum(ctx, dir)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			slog.Error("album scan failed, skipping",
				"album", filepath.Base(dir),
				"error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// albumDirs resolves the configured album selection to directories.
func (s *Scanner) albumDirs() ([]string, error) {
	if s.cfg.Album == "" {
		return DiscoverAlbums(s.cfg.ContentDir)
	}

	dir := filepath.Join(s.cfg.ContentDir, s.cfg.Album)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("album directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("album path %s is not a directory", dir)
	}
	return []string{dir}, nil
}

// ScanAlbum processes every page of one album directory and writes its
// artifact.
//
// Pages run concurrently on the worker pool; results are reduced back into
// sorted filename order, so the artifact does not depend on scheduling.
// Unreadable pages are logged and omitted from the record. If ctx is
// cancelled the artifact is not written, leaving any previous artifact for
// this album intact.
func (s *Scanner) ScanAlbum(ctx context.Context, dir string) (Record, error) {
	start := time.Now()

	pages, err := imaging.DiscoverPages(dir)
	if err != nil {
		return Record{}, err
	}
	if s.cfg.Limit > 0 && len(pages) > s.cfg.Limit {
		pages = pages[:s.cfg.Limit]
	}

	workers := s.cfg.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	type pageResult struct {
		record PageRecord
		ok     bool
	}
	results := make([]pageResult, len(pages))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, path := range pages {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			img, err := imaging.LoadPage(path)
			if err != nil {
				slog.Warn("unreadable page image, skipping",
					"path", path,
					"error", err)
				return
			}

			regions := s.pipe.DetectRegions(img)
			record := s.pipe.BuildRecord(ctx, img, path, regions)
			if s.cfg.OverlayDir != "" {
				s.writeOverlay(img, dir, path, regions)
			}
			results[i] = pageResult{record: record, ok: true}
		}(i, path)
	}
	wg.Wait()

	// A cancelled scan must not replace the previous artifact with records
	// whose recognition was cut short.
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	meta := LoadMetadata(dir)
	rec := Record{
		Album:  filepath.Base(dir),
		Title:  meta.Title,
		Weight: meta.Weight,
		Pages:  make([]PageRecord, 0, len(pages)),
	}
	for _, r := range results {
		if r.ok {
			rec.Pages = append(rec.Pages, r.record)
		}
	}

	if err := WriteJSON(filepath.Join(dir, ArtifactName), rec); err != nil {
		return Record{}, err
	}

	color.New(color.FgGreen).Fprintf(s.progress, "✓ %s: %d pages, %d blocks (%.1fs)\n",
		rec.Album, len(rec.Pages), rec.BlockCount(), time.Since(start).Seconds())
	return rec, nil
}

// writeOverlay renders the candidate-region overlay for one page. Overlay
// problems are diagnostics, never scan failures.
func (s *Scanner) writeOverlay(img image.Image, albumDir, pagePath string, regions []image.Rectangle) {
	stem := strings.TrimSuffix(filepath.Base(pagePath), filepath.Ext(pagePath))
	out := filepath.Join(s.cfg.OverlayDir, filepath.Base(albumDir), stem+"_regions.png")

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		slog.Warn("failed to create overlay directory",
			"dir", filepath.Dir(out),
			"error", err)
		return
	}
	if err := imaging.SaveOverlay(imaging.RegionOverlay(img, regions), out); err != nil {
		slog.Warn("failed to write region overlay",
			"path", out,
			"error", err)
	}
}
