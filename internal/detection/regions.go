package detection

import (
	"image"
	"sort"
)

// Config holds the geometric thresholds that decide which connected
// components of a binarized page count as caption candidates.
type Config struct {
	// MinAreaFrac and MaxAreaFrac bound a component's foreground pixel
	// count as a fraction of the page area. Below the minimum is specks
	// and film grain; above the maximum is washed-out page background.
	MinAreaFrac float64
	MaxAreaFrac float64

	// MinAspect is the lower bound on bounding-box width/height. Caption
	// strips are wider than tall; roughly square blobs are photos.
	MinAspect float64

	// PadFrac expands each accepted box outward by this fraction of the
	// page's shorter side, so descenders and edge strokes clipped by
	// thresholding stay inside the recognized crop.
	PadFrac float64
}

// DefaultConfig returns the thresholds tuned on the Landreth album scans.
func DefaultConfig() Config {
	return Config{
		MinAreaFrac: 0.0008,
		MaxAreaFrac: 0.35,
		MinAspect:   1.15,
		PadFrac:     0.01,
	}
}

// component is one 8-connected foreground region of a binary image.
type component struct {
	bounds image.Rectangle
	area   int // foreground pixel count, not bounding box area
}

// FindCandidates extracts candidate caption rectangles from a binarized page.
//
// # Algorithm
//
//  1. Label the 8-connected foreground (white) components of the binary image
//  2. Drop components whose pixel area falls outside [MinAreaFrac, MaxAreaFrac]
//     of the page area
//  3. Drop components whose bounding box is not wide enough (width/height
//     below MinAspect)
//  4. Pad each surviving box outward by PadFrac of the page's shorter side,
//     clamped to the page
//  5. Sort by (top, left) so candidates come out in reading order
//
// Parameters:
//   - bin: Binary page image with foreground pixels at 255
//   - cfg: Geometric thresholds, usually DefaultConfig()
//
// Returns the candidate rectangles in reading order. Overlap resolution is a
// separate pass; see MergeOverlapping.
func FindCandidates(bin *image.Gray, cfg Config) []image.Rectangle {
	bounds := bin.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pageArea := float64(width * height)
	if pageArea == 0 {
		return nil
	}

	pad := int(cfg.PadFrac * float64(minInt(width, height)))

	var candidates []image.Rectangle
	for _, comp := range findComponents(bin) {
		frac := float64(comp.area) / pageArea
		if frac < cfg.MinAreaFrac || frac > cfg.MaxAreaFrac {
			continue
		}
		w := comp.bounds.Dx()
		h := comp.bounds.Dy()
		if float64(w)/float64(maxInt(1, h)) < cfg.MinAspect {
			continue
		}

		padded := image.Rect(
			comp.bounds.Min.X-pad,
			comp.bounds.Min.Y-pad,
			comp.bounds.Max.X+pad,
			comp.bounds.Max.Y+pad,
		).Intersect(bounds)
		candidates = append(candidates, padded)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Min.Y != candidates[j].Min.Y {
			return candidates[i].Min.Y < candidates[j].Min.Y
		}
		return candidates[i].Min.X < candidates[j].Min.X
	})
	return candidates
}

// findComponents labels the 8-connected foreground components of bin.
func findComponents(bin *image.Gray) []component {
	bounds := bin.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	var comps []component
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y][x] || !isForeground(bin, bounds, x, y) {
				continue
			}
			comps = append(comps, traceComponent(bin, bounds, visited, x, y))
		}
	}
	return comps
}

// traceComponent flood-fills one component from (startX, startY) using an
// explicit stack, and returns its bounding box and pixel count. Coordinates
// are 0-based within the image bounds.
func traceComponent(bin *image.Gray, bounds image.Rectangle, visited [][]bool, startX, startY int) component {
	width, height := bounds.Dx(), bounds.Dy()
	stack := []image.Point{{X: startX, Y: startY}}

	minX, minY := startX, startY
	maxX, maxY := startX, startY
	area := 0

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !isForeground(bin, bounds, p.X, p.Y) {
			continue
		}

		visited[p.Y][p.X] = true
		area++
		minX = minInt(minX, p.X)
		minY = minInt(minY, p.Y)
		maxX = maxInt(maxX, p.X)
		maxY = maxInt(maxY, p.Y)

		// Push all 8 neighbors.
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}

	return component{
		bounds: image.Rect(minX, minY, maxX+1, maxY+1).Add(bounds.Min),
		area:   area,
	}
}

// isForeground reports whether the pixel at 0-based (x, y) is foreground.
func isForeground(bin *image.Gray, bounds image.Rectangle, x, y int) bool {
	return bin.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y >= 128
}

// minInt returns the smaller of two integers
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// maxInt returns the larger of two integers
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
