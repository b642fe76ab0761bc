package album

import (
	"image"
	"sort"
	"strings"

	"github.com/arts-link/gordon-landreth-photography/internal/textfilter"
)

// BBox is a block bounding box in page pixel coordinates, stored as
// [x1, y1, x2, y2]. The gallery front end indexes into it positionally, so
// the element order is part of the artifact contract.
type BBox [4]int

// BBoxFromRect converts an image.Rectangle to the persisted form.
func BBoxFromRect(r image.Rectangle) BBox {
	return BBox{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}

// Rect converts the persisted form back to an image.Rectangle.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b[0], b[1], b[2], b[3])
}

// Block is one accepted caption region: where it sits on the page and what
// it says. Text is never empty; regions whose text failed filtering do not
// become blocks.
type Block struct {
	BBox BBox   `json:"bbox"`
	Text string `json:"text"`
}

// PageRecord is the extraction result for a single page image. Blocks are in
// reading order (top, then left); FullText and CaptionText are the block
// texts joined by blank lines. A page with no accepted captions has empty
// Blocks and Captions, never a missing record.
type PageRecord struct {
	Filename    string   `json:"filename"`
	Path        string   `json:"path"`
	Blocks      []Block  `json:"blocks"`
	FullText    string   `json:"full_text"`
	Captions    []string `json:"captions"`
	CaptionText string   `json:"caption_text"`
}

// Record is the per-album artifact persisted as ocr_captions.json inside the
// album directory.
type Record struct {
	Album  string       `json:"album"`
	Title  string       `json:"album_title"`
	Weight int          `json:"album_weight"`
	Pages  []PageRecord `json:"pages"`
}

// BlockCount returns the total accepted blocks across all pages.
func (r Record) BlockCount() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Blocks)
	}
	return n
}

// AssemblePage composes the page record from its accepted blocks.
//
// Blocks are sorted by (top, left) as a reading order approximation, the
// captions list mirrors the sorted block texts, and the joined text fields
// are normalized so a page assembled twice is identical. Zero blocks is
// valid: the record is still emitted with empty lists.
func AssemblePage(filename, path string, blocks []Block) PageRecord {
	if blocks == nil {
		blocks = []Block{}
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].BBox[1] != blocks[j].BBox[1] {
			return blocks[i].BBox[1] < blocks[j].BBox[1]
		}
		return blocks[i].BBox[0] < blocks[j].BBox[0]
	})

	captions := make([]string, 0, len(blocks))
	for _, b := range blocks {
		captions = append(captions, b.Text)
	}
	joined := textfilter.Normalize(strings.Join(captions, "\n\n"))

	return PageRecord{
		Filename:    filename,
		Path:        path,
		Blocks:      blocks,
		FullText:    joined,
		Captions:    captions,
		CaptionText: joined,
	}
}
