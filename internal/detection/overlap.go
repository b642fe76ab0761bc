package detection

import "image"

// IoU returns the intersection-over-union of two rectangles, in [0, 1].
func IoU(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	interArea := inter.Dx() * inter.Dy()
	union := a.Dx()*a.Dy() + b.Dx()*b.Dy() - interArea
	if union <= 0 {
		return 0
	}
	return float64(interArea) / float64(union)
}

// MergeOverlapping deduplicates candidate rectangles that cover the same
// caption strip.
//
// Candidates are taken in the order given (reading order from FindCandidates)
// and compared against the kept list. The first kept rectangle whose IoU with
// the candidate exceeds threshold wins the comparison: the larger of the two
// survives in place and the candidate is not compared against any later kept
// rectangle. Candidates that overlap nothing are appended.
//
// A candidate bridging two kept rectangles merges only with the first; the
// second stays, so side-by-side captions do not collapse into one region.
func MergeOverlapping(rects []image.Rectangle, threshold float64) []image.Rectangle {
	if len(rects) == 0 {
		return nil
	}

	kept := make([]image.Rectangle, 0, len(rects))
	for _, r := range rects {
		merged := false
		for i := range kept {
			if IoU(r, kept[i]) > threshold {
				if rectArea(r) > rectArea(kept[i]) {
					kept[i] = r
				}
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, r)
		}
	}
	return kept
}

func rectArea(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}
