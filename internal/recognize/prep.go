package recognize

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"

	pageimaging "github.com/arts-link/gordon-landreth-photography/internal/imaging"
)

// CropRegion cuts rect out of the page image. The returned crop has its own
// zero-based bounds.
func CropRegion(page image.Image, rect image.Rectangle) image.Image {
	return imaging.Crop(page, rect)
}

// EnhanceForOCR prepares a region crop for a classical recognition engine.
//
// Typed captions on album stock are small and low contrast, so the crop is
// converted to grayscale, upscaled 2x with Catmull-Rom interpolation,
// smoothed with a 3x3 Gaussian to knock down paper grain, and binarized at
// the Otsu level. Tesseract reads the result far more reliably than the raw
// sepia crop.
//
// Vision engines skip this entirely; they want the original pixels.
func EnhanceForOCR(region image.Image) image.Image {
	gray := pageimaging.Grayscale(region)
	bounds := gray.Bounds()

	upscaled := transform.Resize(gray, bounds.Dx()*2, bounds.Dy()*2, transform.CatmullRom)
	smoothed := blur.Gaussian(upscaled, 1)

	return pageimaging.OtsuThreshold(pageimaging.Grayscale(smoothed))
}
