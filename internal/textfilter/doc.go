// Package textfilter turns raw recognizer output into publishable caption
// text.
//
// OCR on 90-year-old album pages produces real captions mixed with noise:
// film grain read as symbols, photo edges read as letter shreds, and (from
// generative engines) hallucinated repetition. This package is the quality
// gate between recognition and the published gallery artifacts.
//
// # Filter Stages
//
// Text flows through the stages in a fixed order:
//
//  1. Normalize: canonicalize whitespace and line endings (idempotent)
//  2. FilterRepetition: drop generative degeneration, only applied to
//     engines that may synthesize output
//  3. LineFilter: per-line keep/drop decisions with a continuation heuristic
//  4. BlockFilter: whole-block verdict with named rejection rules
//
// Each stage consumes the previous stage's output, so thresholds are tuned
// against cleaned rather than raw text.
//
// # Rejection Reasons
//
// BlockFilter evaluates an ordered rule ladder and reports the name of the
// first rule that fires ("oversize", "empty", "too-few-words", ...). The
// scanner logs these names per region, which is how new threshold choices
// get validated against a corpus of already-reviewed pages.
package textfilter
