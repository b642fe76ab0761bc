package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// pageExtensions lists the image formats album scans arrive in.
var pageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsPageImage reports whether name refers to a scannable page image.
//
// macOS resource forks ("._*"), Finder metadata (.DS_Store), and Windows
// thumbnail caches (Thumbs.db) are rejected along with any file whose
// extension is not a supported image format.
func IsPageImage(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "._") {
		return false
	}
	switch base {
	case ".DS_Store", "Thumbs.db":
		return false
	}
	return pageExtensions[strings.ToLower(filepath.Ext(base))]
}

// DiscoverPages returns the page images under an album directory.
//
// The walk is recursive so albums that keep scans in per-roll subfolders
// still contribute every page. Results are sorted by full path in ascending
// order, which matches physical page order for the scanner's zero-padded
// filenames.
//
// Parameters:
//   - dir: Album directory to search
//
// Returns:
//   - []string: Sorted page image paths
//   - error: Non-nil if the directory cannot be walked
func DiscoverPages(dir string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if IsPageImage(path) {
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk album directory: %w", err)
	}
	sort.Strings(pages)
	return pages, nil
}

// LoadPage opens and decodes a single page image from disk.
//
// Parameters:
//   - path: Path to a JPEG or PNG file
//
// Returns:
//   - image.Image: The decoded image
//   - error: Non-nil if the file is missing, unreadable, or not a decodable image
func LoadPage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
