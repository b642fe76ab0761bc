package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arts-link/gordon-landreth-photography/internal/album"
)

// Entry is one record of the merged search index. The index is a
// heterogeneous JSON array, so the concrete types AlbumEntry and PageEntry
// marshal to their own shapes behind this common interface.
type Entry interface {
	entryKind() string
}

// AlbumEntry makes a whole album findable by its title.
type AlbumEntry struct {
	Type           string `json:"type"`
	Album          string `json:"album"`
	AlbumTitle     string `json:"album_title"`
	AlbumURLSlug   string `json:"album_url_slug"`
	AlbumPath      string `json:"album_path"`
	SearchableText string `json:"searchable_text"`
}

func (AlbumEntry) entryKind() string { return "album" }

// PageEntry makes a single page findable by its captions. ImageIndex is the
// page's zero-based rank under ascending filename sort and must match the
// gallery's display order exactly.
type PageEntry struct {
	Type           string   `json:"type"`
	Album          string   `json:"album"`
	AlbumTitle     string   `json:"album_title"`
	AlbumURLSlug   string   `json:"album_url_slug"`
	PageFilename   string   `json:"page_filename"`
	PagePath       string   `json:"page_path"`
	ImageIndex     int      `json:"image_index"`
	Captions       []string `json:"captions"`
	CaptionText    string   `json:"caption_text"`
	SearchableText string   `json:"searchable_text"`
}

func (PageEntry) entryKind() string { return "page" }

// Build assembles search entries from scanned album records, in the order
// given. Each album contributes its album entry followed by its page entries
// with image_index assigned by ascending filename.
func Build(records []album.Record) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, buildAlbum(rec)...)
	}
	return entries
}

// buildAlbum emits one album's entries.
func buildAlbum(rec album.Record) []Entry {
	slug := AlbumSlug(rec.Album)

	entries := make([]Entry, 0, len(rec.Pages)+1)
	entries = append(entries, AlbumEntry{
		Type:           "album",
		Album:          rec.Album,
		AlbumTitle:     rec.Title,
		AlbumURLSlug:   slug,
		AlbumPath:      rec.Album + "/",
		SearchableText: rec.Title,
	})

	// Page records arrive in path order; the gallery orders by bare
	// filename, so re-sort before assigning ranks.
	pages := make([]album.PageRecord, len(rec.Pages))
	copy(pages, rec.Pages)
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Filename < pages[j].Filename
	})

	for idx, page := range pages {
		captions := page.Captions
		if captions == nil {
			captions = []string{}
		}
		entries = append(entries, PageEntry{
			Type:           "page",
			Album:          rec.Album,
			AlbumTitle:     rec.Title,
			AlbumURLSlug:   slug,
			PageFilename:   page.Filename,
			PagePath:       page.Path,
			ImageIndex:     idx,
			Captions:       captions,
			CaptionText:    page.CaptionText,
			SearchableText: strings.Join(captions, " ") + " " + page.Filename,
		})
	}
	return entries
}

// Rebuild regenerates search entries from the artifacts already on disk,
// without re-running detection or recognition.
//
// Every direct subdirectory of contentDir holding an artifact contributes,
// in ascending directory-name order; albums without artifacts are skipped.
// Titles and weights come fresh from each album's front matter rather than
// from the artifact, so metadata edits take effect on rebuild.
func Rebuild(contentDir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(contentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}

	var entries []Entry
	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() {
			continue
		}
		dir := filepath.Join(contentDir, dirEntry.Name())
		artifact := filepath.Join(dir, album.ArtifactName)
		if _, err := os.Stat(artifact); err != nil {
			continue
		}

		rec, err := album.ReadRecord(artifact)
		if err != nil {
			slog.Warn("skipping album with unreadable artifact",
				"album", dirEntry.Name(),
				"error", err)
			continue
		}

		meta := album.LoadMetadata(dir)
		rec.Album = dirEntry.Name()
		rec.Title = meta.Title
		rec.Weight = meta.Weight

		entries = append(entries, buildAlbum(rec)...)
	}
	return entries, nil
}

// WriteIndex persists entries as the merged search index JSON at path.
func WriteIndex(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	return album.WriteJSON(path, entries)
}
