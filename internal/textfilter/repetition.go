package textfilter

import (
	"regexp"
	"strings"
	"unicode"
)

// sentenceWordPattern extracts the lowercase words that decide whether two
// sentences say the same thing. Words shorter than 4 letters carry too little
// signal to compare on.
var sentenceWordPattern = regexp.MustCompile(`[a-z]{4,}`)

// FilterRepetition strips the degenerate output modes of generative
// recognizers: lines degraded into repeated-letter noise, and outputs that
// loop the same sentence over and over.
//
// Lines containing three or more runs of the same letter repeated 4+ times,
// or any single run of 7+ identical letters, are dropped. Then the remaining
// text is cut at the first sentence that shares more than half of its
// significant words with an earlier sentence; everything from that sentence
// on is discarded.
//
// Classical engines fail by emitting garbage symbols, not by looping, so this
// filter only runs on text from engines that may synthesize output.
func FilterRepetition(text string) string {
	if text == "" {
		return text
	}

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if hasDegenerateRuns(line) {
			continue
		}
		kept = append(kept, line)
	}
	return truncateLoopedSentences(strings.Join(kept, "\n"))
}

// hasDegenerateRuns reports whether line reads as repeated-letter noise.
func hasDegenerateRuns(line string) bool {
	rs := []rune(line)
	runs := 0
	for i := 0; i < len(rs); {
		if !unicode.IsLetter(rs[i]) {
			i++
			continue
		}
		j := i + 1
		for j < len(rs) && rs[j] == rs[i] {
			j++
		}
		if n := j - i; n >= 7 {
			return true
		} else if n >= 4 {
			runs++
			if runs >= 3 {
				return true
			}
		}
		i = j
	}
	return false
}

// truncateLoopedSentences cuts text at the first sentence that mostly repeats
// an earlier one. Sentences end at '.', '!', or '?'.
func truncateLoopedSentences(text string) string {
	type span struct {
		start, end int
	}

	var spans []span
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			spans = append(spans, span{start, i + 1})
			start = i + 1
		}
	}
	if start < len(text) {
		spans = append(spans, span{start, len(text)})
	}
	if len(spans) < 2 {
		return text
	}

	var seen []map[string]struct{}
	for _, sp := range spans {
		words := significantWords(text[sp.start:sp.end])
		if repeatsEarlier(words, seen) {
			return strings.TrimSpace(text[:sp.start])
		}
		seen = append(seen, words)
	}
	return text
}

// significantWords returns the set of comparison words in a sentence.
func significantWords(sentence string) map[string]struct{} {
	words := sentenceWordPattern.FindAllString(strings.ToLower(sentence), -1)
	if len(words) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// repeatsEarlier reports whether more than half of words appear in any one
// earlier sentence's word set.
func repeatsEarlier(words map[string]struct{}, seen []map[string]struct{}) bool {
	if len(words) == 0 {
		return false
	}
	for _, earlier := range seen {
		shared := 0
		for w := range words {
			if _, ok := earlier[w]; ok {
				shared++
			}
		}
		if float64(shared) > 0.5*float64(len(words)) {
			return true
		}
	}
	return false
}
