package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// Grayscale converts a page image to 8-bit grayscale.
//
// Conversion uses standard luminance weighting, so the faded sepia tones of
// older album pages keep their relative contrast.
func Grayscale(img image.Image) *image.Gray {
	rgba := effect.Grayscale(img)
	bounds := rgba.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Pix[gray.PixOffset(x, y)] = rgba.Pix[rgba.PixOffset(x, y)]
		}
	}
	return gray
}

// NormalizeContrast stretches gray levels linearly so the darkest pixel maps
// to 0 and the brightest to 255.
//
// Album scans cluster in a narrow band of the gray range once the paper has
// yellowed; stretching first means the threshold constants behave the same
// across light and dark scans. A uniform image is returned as an unmodified
// copy, since it has no contrast to stretch.
func NormalizeContrast(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)

	lo, hi := uint8(255), uint8(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := gray.Pix[gray.PixOffset(x, y)]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi <= lo {
		copy(out.Pix, gray.Pix)
		return out
	}

	scale := 255.0 / float64(hi-lo)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := gray.Pix[gray.PixOffset(x, y)]
			out.Pix[out.PixOffset(x, y)] = uint8(float64(v-lo)*scale + 0.5)
		}
	}
	return out
}

// AdaptiveThreshold binarizes gray against a local Gaussian mean.
//
// A pixel becomes foreground (white) when it is brighter than the mean of its
// neighborhood minus offset. The neighborhood is a Gaussian window spanning
// 2*radius+1 pixels per side. Comparing against a local rather than global
// mean keeps light caption strips solid even when page illumination falls off
// toward the edges of the scan.
//
// Parameters:
//   - gray: Grayscale page image
//   - radius: Gaussian window radius in pixels
//   - offset: Subtracted from the local mean before comparison
//
// Returns a binary image with foreground pixels set to 255.
func AdaptiveThreshold(gray *image.Gray, radius, offset int) *image.Gray {
	mean := blur.Gaussian(gray, float64(radius))
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			local := int(mean.Pix[mean.PixOffset(x, y)]) - offset
			if int(gray.Pix[gray.PixOffset(x, y)]) > local {
				out.Pix[out.PixOffset(x, y)] = 255
			}
		}
	}
	return out
}

// OtsuThreshold binarizes gray at the global level Otsu's method selects.
//
// Useful when page lighting is even enough that a single split separates
// captions from background, and as the engine-side binarization step before
// character recognition.
func OtsuThreshold(gray *image.Gray) *image.Gray {
	// segment.Threshold treats pixels >= level as foreground, but Otsu's
	// split keeps the level itself in the background class.
	level := OtsuLevel(gray)
	if level < 255 {
		level++
	}
	return segment.Threshold(gray, level)
}

// OtsuLevel computes the histogram threshold that maximizes between-class
// variance, the standard Otsu criterion.
func OtsuLevel(gray *image.Gray) uint8 {
	var hist [256]int
	bounds := gray.Bounds()
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.Pix[gray.PixOffset(x, y)]]++
			total++
		}
	}
	if total == 0 {
		return 0
	}

	var sum float64
	for level, count := range hist {
		sum += float64(level * count)
	}

	var sumBack, weightBack float64
	best := 0.0
	threshold := uint8(0)
	for level := 0; level < 256; level++ {
		weightBack += float64(hist[level])
		if weightBack == 0 {
			continue
		}
		weightFore := float64(total) - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(level * hist[level])
		meanBack := sumBack / weightBack
		meanFore := (sum - sumBack) / weightFore
		between := weightBack * weightFore * (meanBack - meanFore) * (meanBack - meanFore)
		if between > best {
			best = between
			threshold = uint8(level)
		}
	}
	return threshold
}
