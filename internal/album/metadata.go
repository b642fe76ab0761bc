package album

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the album front matter the gallery site reads: a display title
// and a sort weight.
type Metadata struct {
	Title  string `yaml:"title"`
	Weight int    `yaml:"weight"`
}

// LoadMetadata reads album metadata from the YAML front matter of
// dir/index.md.
//
// The front matter is the text between the leading "---" delimiters, the
// same framing the site generator parses. A missing index.md, a file without
// front matter, or unparsable YAML all fall back to the defaults: the album
// directory name as the title and weight 0. Metadata problems are never
// fatal to a scan.
func LoadMetadata(dir string) Metadata {
	meta := Metadata{Title: filepath.Base(dir)}

	path := filepath.Join(dir, "index.md")
	raw, err := os.ReadFile(path)
	if err != nil {
		return meta
	}

	front, ok := frontMatter(string(raw))
	if !ok {
		return meta
	}

	var parsed Metadata
	if err := yaml.Unmarshal([]byte(front), &parsed); err != nil {
		slog.Warn("unparsable album front matter, using defaults",
			"path", path,
			"error", err)
		return meta
	}

	if parsed.Title != "" {
		meta.Title = parsed.Title
	}
	meta.Weight = parsed.Weight
	return meta
}

// frontMatter extracts the YAML between the first pair of "---" delimiters.
func frontMatter(content string) (string, bool) {
	if !strings.HasPrefix(content, "---") {
		return "", false
	}
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return "", false
	}
	return parts[1], true
}
