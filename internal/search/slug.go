package search

import "strings"

// apostrophes are the variants the slug transform strips: the ASCII
// apostrophe plus the curly forms (U+2018, U+2019) and the rare reversed
// form (U+201B) that crept into album folder names via macOS Finder.
var apostrophes = []string{"'", "‘", "’", "‛"}

// AlbumSlug converts an album folder name to its URL slug, matching the site
// generator's derivation exactly.
//
// The transform lowercases the name, replaces " & " with a double dash,
// strips every apostrophe variant, and turns remaining spaces into dashes.
// Other punctuation (periods, plus signs, brackets) passes through
// untouched:
//
//	"1931-1939 courting & marriage" -> "1931-1939-courting--marriage"
//	"1968-1969 Louise's marriage"   -> "1968-1969-louises-marriage"
func AlbumSlug(name string) string {
	slug := strings.ToLower(name)

	// " & " must collapse before spaces become dashes, or the surrounding
	// spaces would turn into extra dashes.
	slug = strings.ReplaceAll(slug, " & ", "--")

	for _, a := range apostrophes {
		slug = strings.ReplaceAll(slug, a, "")
	}
	return strings.ReplaceAll(slug, " ", "-")
}
