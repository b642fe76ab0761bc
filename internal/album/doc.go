// Package album runs the caption extraction pipeline over album directories
// and produces the persisted page records.
//
// An album is one directory of page scans under the content root, optionally
// with an index.md whose YAML front matter carries the album title and sort
// weight. Scanning an album detects candidate caption regions on every page,
// recognizes and filters their text, and writes the results to the album's
// ocr_captions.json artifact.
//
// # Processing Model
//
// Pages are independent units of work. The scanner fans them out to a worker
// pool sized to the CPU count (configurable), then reduces the results back
// into sorted filename order, so the artifact is byte-identical regardless of
// completion order. Only the loaded image is shared within a page, and
// nothing is shared across pages.
//
// # Failure Policy
//
// Unreadable page images are logged and skipped; an album with a failed page
// still produces an artifact holding every page that did process. Recognizer
// failures degrade to an empty-text region, which the block filter then
// rejects. Cancelling the context aborts the album before its artifact is
// replaced, so a previous successful run survives an interrupted one.
//
// # Artifacts
//
// Artifacts are written through an atomic temp-file-and-rename so a crash or
// cancellation mid-write never leaves a truncated JSON file behind. Pages
// with no accepted captions still appear in the artifact with empty blocks;
// a caption-less page is a normal outcome.
package album
