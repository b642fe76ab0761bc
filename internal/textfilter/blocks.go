package textfilter

import (
	"image"
	"regexp"
	"strings"
)

// nonLetter strips everything but ASCII letters when sizing words for the
// no-long-words rule, so "J.R." counts its letters rather than its dots.
var nonLetter = regexp.MustCompile(`[^A-Za-z]`)

// BlockConfig holds the whole-block quality thresholds.
type BlockConfig struct {
	// MaxAreaFrac rejects regions covering more of the page than any caption
	// plausibly does. This is the only geometry-only rule and the only one
	// that can run before recognition.
	MaxAreaFrac float64

	// MinWordsLong and MinWordsAny are the two ways a block passes the word
	// count rule: MinWordsLong words of 4+ letters, or MinWordsAny words of
	// 3+ letters.
	MinWordsLong int
	MinWordsAny  int

	// ShortMinLen, ShortMaxLen, and ShortMaxSymbolFrac describe the valid
	// short block escape hatch for one-line captions like "Niagara Falls
	// 1936".
	ShortMinLen        int
	ShortMaxLen        int
	ShortMaxSymbolFrac float64

	// TallHeightFrac and TallWidthFrac mark a region as suspiciously large,
	// which raises the evidence bar to TallMinLetters letters at
	// TallMinLetterFrac density. Large regions are usually photo collages
	// the detector mistook for text.
	TallHeightFrac    float64
	TallWidthFrac     float64
	TallMinLetters    int
	TallMinLetterFrac float64

	// MinTextLen and MinLetters reject blocks with almost no content.
	MinTextLen int
	MinLetters int

	// MinDensityFrac is the floor for both letter and alphanumeric density.
	MinDensityFrac float64

	// LongWordTriggerLetters arms the no-long-words rule: a block with this
	// many letters but no word of 3+ letters is shredded noise.
	LongWordTriggerLetters int

	// ShreddedMaxFrac rejects blocks where more than this fraction of
	// non-blank lines are 1-2 characters long.
	ShreddedMaxFrac float64
}

// DefaultBlockConfig returns the block thresholds tuned on the Landreth
// albums.
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		MaxAreaFrac:            0.14,
		MinWordsLong:           2,
		MinWordsAny:            4,
		ShortMinLen:            8,
		ShortMaxLen:            50,
		ShortMaxSymbolFrac:     0.25,
		TallHeightFrac:         0.22,
		TallWidthFrac:          0.40,
		TallMinLetters:         80,
		TallMinLetterFrac:      0.30,
		MinTextLen:             4,
		MinLetters:             4,
		MinDensityFrac:         0.12,
		LongWordTriggerLetters: 18,
		ShreddedMaxFrac:        0.60,
	}
}

// BlockFilter decides whether a recognized block is caption text worth
// keeping or detector noise.
type BlockFilter struct {
	cfg BlockConfig
}

// NewBlockFilter returns a filter using the given thresholds.
func NewBlockFilter(cfg BlockConfig) *BlockFilter {
	return &BlockFilter{cfg: cfg}
}

// blockEval carries everything the rules inspect, computed once per block.
type blockEval struct {
	text      string
	stats     textStats
	wordsAny  int // words of 3+ letters
	wordsLong int // words of 4+ letters
	region    image.Rectangle
	pageW     int
	pageH     int
}

// blockRule is one ordered rejection rule. Rules run in sequence and the
// first rule that fires names the rejection.
type blockRule struct {
	name   string
	reject func(cfg BlockConfig, ev *blockEval) bool
}

var blockRules = []blockRule{
	{name: "oversize", reject: func(cfg BlockConfig, ev *blockEval) bool {
		pageArea := float64(ev.pageW * ev.pageH)
		if pageArea == 0 {
			return false
		}
		area := float64(ev.region.Dx() * ev.region.Dy())
		return area/pageArea > cfg.MaxAreaFrac
	}},
	{name: "empty", reject: func(cfg BlockConfig, ev *blockEval) bool {
		return ev.text == ""
	}},
	{name: "too-few-words", reject: func(cfg BlockConfig, ev *blockEval) bool {
		if ev.wordsLong >= cfg.MinWordsLong || ev.wordsAny >= cfg.MinWordsAny {
			return false
		}
		return !validShortBlock(cfg, ev)
	}},
	{name: "tall-low-text", reject: func(cfg BlockConfig, ev *blockEval) bool {
		tall := float64(ev.region.Dy()) > cfg.TallHeightFrac*float64(ev.pageH) &&
			float64(ev.region.Dx()) > cfg.TallWidthFrac*float64(ev.pageW)
		if !tall {
			return false
		}
		dense := ev.stats.letters >= cfg.TallMinLetters &&
			float64(ev.stats.letters)/float64(ev.stats.total) >= cfg.TallMinLetterFrac
		return !dense
	}},
	{name: "short-text", reject: func(cfg BlockConfig, ev *blockEval) bool {
		return ev.stats.total < cfg.MinTextLen
	}},
	{name: "few-letters", reject: func(cfg BlockConfig, ev *blockEval) bool {
		return ev.stats.letters < cfg.MinLetters
	}},
	{name: "low-density", reject: func(cfg BlockConfig, ev *blockEval) bool {
		total := float64(ev.stats.total)
		return float64(ev.stats.letters)/total < cfg.MinDensityFrac ||
			float64(ev.stats.alnum)/total < cfg.MinDensityFrac
	}},
	{name: "no-long-words", reject: func(cfg BlockConfig, ev *blockEval) bool {
		if ev.stats.letters < cfg.LongWordTriggerLetters {
			return false
		}
		for _, token := range strings.Fields(ev.text) {
			if len(nonLetter.ReplaceAllString(token, "")) >= 3 {
				return false
			}
		}
		return true
	}},
	{name: "shredded", reject: func(cfg BlockConfig, ev *blockEval) bool {
		lines := 0
		short := 0
		for _, raw := range strings.Split(ev.text, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			lines++
			if len([]rune(line)) <= 2 {
				short++
			}
		}
		if lines == 0 {
			return false
		}
		return float64(short)/float64(lines) > cfg.ShreddedMaxFrac
	}},
}

// validShortBlock is the escape hatch for legitimate one-line captions that
// cannot meet the word count rule.
func validShortBlock(cfg BlockConfig, ev *blockEval) bool {
	if ev.stats.total < cfg.ShortMinLen || ev.stats.total > cfg.ShortMaxLen {
		return false
	}
	if ev.wordsAny == 0 {
		return false
	}
	if !ev.stats.hasUpper {
		return false
	}
	return float64(ev.stats.symbols)/float64(ev.stats.total) < cfg.ShortMaxSymbolFrac
}

// Oversize reports whether the region alone disqualifies the block. It is
// the one rule that needs no text, so the pipeline checks it before paying
// for recognition.
func (f *BlockFilter) Oversize(region image.Rectangle, pageW, pageH int) bool {
	ev := blockEval{region: region, pageW: pageW, pageH: pageH}
	return blockRules[0].reject(f.cfg, &ev)
}

// Evaluate runs the full rule ladder over a block's filtered text and
// geometry. It returns true to keep the block, or false with the name of the
// first rule that rejected it.
func (f *BlockFilter) Evaluate(text string, region image.Rectangle, pageW, pageH int) (bool, string) {
	ev := blockEval{
		text:   text,
		stats:  statsFor(text),
		region: region,
		pageW:  pageW,
		pageH:  pageH,
	}
	for _, w := range wordPattern.FindAllString(text, -1) {
		ev.wordsAny++
		if len(w) >= 4 {
			ev.wordsLong++
		}
	}

	for _, rule := range blockRules {
		if rule.reject(f.cfg, &ev) {
			return false, rule.name
		}
	}
	return true, ""
}
