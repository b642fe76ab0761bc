package textfilter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordPattern matches a word for quality purposes: a run of 3 or more ASCII
// letters. OCR noise rarely produces those; real caption text is full of
// them.
var wordPattern = regexp.MustCompile(`[A-Za-z]{3,}`)

// continuationCues are prepositions that, when they end a caption line,
// signal the next short line continues the same sentence ("standing near" /
// "the barn").
var continuationCues = map[string]bool{
	"near": true,
	"from": true,
	"in":   true,
	"at":   true,
	"to":   true,
	"of":   true,
	"by":   true,
	"with": true,
}

// LineConfig holds the per-line quality thresholds.
type LineConfig struct {
	// MinLetters rejects lines with fewer letters outright.
	MinLetters int
	// MinLetterFrac is the minimum fraction of letter characters.
	MinLetterFrac float64
	// MaxSymbolFrac is the maximum fraction of symbol characters.
	MaxSymbolFrac float64

	// ShortMinLen and ShortMaxLen bound the length of an acceptable short
	// line such as a name or place ("Louise at Put-in-Bay").
	ShortMinLen int
	ShortMaxLen int
	// ShortMaxSymbolFrac is the tighter symbol ceiling short lines must meet.
	ShortMaxSymbolFrac float64

	// ContinuationMaxWords, ContinuationMaxLen, and ContinuationMinLetterFrac
	// bound the trailing fragments accepted as continuations of the line
	// before them.
	ContinuationMaxWords      int
	ContinuationMaxLen        int
	ContinuationMinLetterFrac float64
}

// DefaultLineConfig returns the line thresholds tuned on the Landreth albums.
func DefaultLineConfig() LineConfig {
	return LineConfig{
		MinLetters:                4,
		MinLetterFrac:             0.25,
		MaxSymbolFrac:             0.35,
		ShortMinLen:               8,
		ShortMaxLen:               50,
		ShortMaxSymbolFrac:        0.20,
		ContinuationMaxWords:      2,
		ContinuationMaxLen:        24,
		ContinuationMinLetterFrac: 0.50,
	}
}

// LineFilter drops recognizer lines that read as noise rather than caption
// text.
type LineFilter struct {
	cfg LineConfig
}

// NewLineFilter returns a filter using the given thresholds.
func NewLineFilter(cfg LineConfig) *LineFilter {
	return &LineFilter{cfg: cfg}
}

// textStats aggregates the character classes the quality rules key on.
type textStats struct {
	total    int
	letters  int
	alnum    int
	symbols  int
	hasUpper bool
}

// statsFor counts character classes in s. Whitespace contributes to the
// total but is neither letter, digit, nor symbol.
func statsFor(s string) textStats {
	var st textStats
	for _, r := range s {
		st.total++
		switch {
		case unicode.IsLetter(r):
			st.letters++
			st.alnum++
			if unicode.IsUpper(r) {
				st.hasUpper = true
			}
		case unicode.IsDigit(r):
			st.alnum++
		case unicode.IsSpace(r):
		default:
			st.symbols++
		}
	}
	return st
}

// Filter keeps the lines of text that look like caption content and drops
// the rest. Surviving lines are rejoined with single newlines; blank lines
// never survive.
//
// A line passes by one of three routes:
//
//   - strict: at least 2 words of 4+ letters, or at least 3 words of 3+
//     letters
//   - short: total length within the short-line window with a word, an
//     uppercase letter, and few symbols
//   - continuation: a fragment of at most 2 words that plausibly completes
//     the previously accepted line
//
// Every route also requires the baseline letter count, letter fraction, and
// symbol fraction checks to pass first.
func (f *LineFilter) Filter(text string) string {
	var kept []string
	var prev string

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		st := statsFor(line)
		if st.letters < f.cfg.MinLetters {
			continue
		}
		if float64(st.letters)/float64(st.total) < f.cfg.MinLetterFrac {
			continue
		}
		if float64(st.symbols)/float64(st.total) > f.cfg.MaxSymbolFrac {
			continue
		}

		words := wordPattern.FindAllString(line, -1)
		long := 0
		for _, w := range words {
			if len(w) >= 4 {
				long++
			}
		}

		switch {
		case long >= 2 || len(words) >= 3:
			// strict route
		case f.acceptableShortLine(st, words):
		case len(kept) > 0 && f.continuesPrevious(line, st, words, prev):
		default:
			continue
		}

		kept = append(kept, line)
		prev = line
	}
	return strings.Join(kept, "\n")
}

// acceptableShortLine admits name and place lines that are too short for the
// strict route but clearly deliberate text.
func (f *LineFilter) acceptableShortLine(st textStats, words []string) bool {
	if st.total < f.cfg.ShortMinLen || st.total > f.cfg.ShortMaxLen {
		return false
	}
	if len(words) == 0 {
		return false
	}
	if !st.hasUpper {
		return false
	}
	return float64(st.symbols)/float64(st.total) < f.cfg.ShortMaxSymbolFrac
}

// continuesPrevious admits a short trailing fragment when the previously
// accepted line invites one: it ends mid-sentence, ends in a joining
// preposition, trails off with an ellipsis, or the fragment opens a new
// sentence with a capital.
func (f *LineFilter) continuesPrevious(line string, st textStats, words []string, prev string) bool {
	if len(words) > f.cfg.ContinuationMaxWords {
		return false
	}
	if st.total > f.cfg.ContinuationMaxLen {
		return false
	}
	if float64(st.letters)/float64(st.total) < f.cfg.ContinuationMinLetterFrac {
		return false
	}

	if !strings.HasSuffix(prev, ".") && !strings.HasSuffix(prev, "!") && !strings.HasSuffix(prev, "?") {
		return true
	}
	if endsWithCue(prev) {
		return true
	}
	if strings.HasSuffix(prev, "...") {
		return true
	}
	first, _ := utf8.DecodeRuneInString(line)
	return unicode.IsUpper(first)
}

// endsWithCue reports whether any of the last 4 whitespace-separated tokens
// of prev, lowercased, is a continuation cue.
func endsWithCue(prev string) bool {
	tokens := strings.Fields(strings.ToLower(prev))
	if len(tokens) > 4 {
		tokens = tokens[len(tokens)-4:]
	}
	for _, tok := range tokens {
		if continuationCues[tok] {
			return true
		}
	}
	return false
}
