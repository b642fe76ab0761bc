// Package search builds the cross-album search index the gallery site
// queries.
//
// The index is a single JSON array mixing two entry shapes: one album entry
// per album followed by one page entry per page. Page entries carry an
// image_index, the page's zero-based rank under ascending filename sort.
// The gallery positions its lightbox by that rank, so image_index must match
// the site generator's own page ordering exactly; it is the only linkage
// between a search hit and an on-screen photo.
//
// # URL Slugs
//
// AlbumSlug reproduces the site generator's URL slug derivation bit for bit,
// including its treatment of ampersands and the Unicode apostrophe variants
// scanned album names contain. Any drift here breaks every album link in the
// search results, which is why the transform lives next to the index builder
// rather than borrowing a generic slugger.
//
// # Rebuilding
//
// Rebuild regenerates the index from existing per-album artifacts without
// re-running detection or recognition. Album titles are re-read from front
// matter, so a title fix in index.md reaches the search index in seconds
// instead of the hours a full scan takes.
package search
