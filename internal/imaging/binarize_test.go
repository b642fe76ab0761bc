package imaging

import (
	"image"
	"image/color"
	"testing"
)

// grayPage builds a grayscale image filled with the background level and a
// brighter horizontal strip, mimicking a caption strip pasted on a page.
func grayPage(width, height int, background, strip uint8, stripTop, stripBottom int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		v := background
		if y >= stripTop && y < stripBottom {
			v = strip
		}
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestGrayscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}

	gray := Grayscale(img)
	if gray.Bounds().Dx() != 10 || gray.Bounds().Dy() != 10 {
		t.Fatalf("dimensions: got %dx%d, want 10x10", gray.Bounds().Dx(), gray.Bounds().Dy())
	}

	// A neutral gray input should map to roughly the same gray level.
	got := gray.GrayAt(5, 5).Y
	if got < 115 || got > 125 {
		t.Errorf("gray level: got %d, want ~120", got)
	}
}

func TestNormalizeContrast(t *testing.T) {
	// Levels compressed into [60, 210] must stretch to the full range.
	img := grayPage(40, 40, 60, 210, 10, 20)

	out := NormalizeContrast(img)

	if got := out.GrayAt(20, 5).Y; got != 0 {
		t.Errorf("darkest level: got %d, want 0", got)
	}
	if got := out.GrayAt(20, 15).Y; got != 255 {
		t.Errorf("brightest level: got %d, want 255", got)
	}

	// The input is untouched.
	if got := img.GrayAt(20, 5).Y; got != 60 {
		t.Errorf("source was modified: got %d, want 60", got)
	}
}

func TestNormalizeContrast_UniformImage(t *testing.T) {
	img := grayPage(20, 20, 128, 128, 0, 0)

	out := NormalizeContrast(img)

	for i, p := range out.Pix {
		if p != 128 {
			t.Fatalf("pixel %d: got %d, want 128", i, p)
		}
	}
}

func TestAdaptiveThreshold(t *testing.T) {
	// Dark page with a bright caption strip across the middle.
	img := grayPage(120, 120, 60, 210, 50, 70)

	bin := AdaptiveThreshold(img, 10, 5)

	// The strip is well above its local mean, so it must be foreground.
	if got := bin.GrayAt(60, 60).Y; got != 255 {
		t.Errorf("strip pixel: got %d, want 255", got)
	}

	// Dark pixels adjacent to the strip sit below a mean pulled up by the
	// strip, so they must be background.
	if got := bin.GrayAt(60, 48).Y; got != 0 {
		t.Errorf("dark pixel beside strip: got %d, want 0", got)
	}
	if got := bin.GrayAt(60, 72).Y; got != 0 {
		t.Errorf("dark pixel below strip: got %d, want 0", got)
	}
}

func TestAdaptiveThreshold_DarkSpotStaysBackground(t *testing.T) {
	img := grayPage(60, 60, 230, 230, 0, 0)
	img.SetGray(30, 30, color.Gray{Y: 10})

	bin := AdaptiveThreshold(img, 5, 5)

	if got := bin.GrayAt(30, 30).Y; got != 0 {
		t.Errorf("dark spot: got %d, want 0", got)
	}
}

func TestOtsuLevel_Bimodal(t *testing.T) {
	// Half the pixels at 50, half at 200: the split must land between the
	// two modes.
	img := grayPage(100, 100, 50, 200, 0, 50)

	level := OtsuLevel(img)
	if level < 50 || level >= 200 {
		t.Errorf("level: got %d, want within [50, 200)", level)
	}
}

func TestOtsuThreshold(t *testing.T) {
	img := grayPage(100, 100, 50, 200, 0, 50)

	bin := OtsuThreshold(img)

	if got := bin.GrayAt(50, 25).Y; got != 255 {
		t.Errorf("bright pixel: got %d, want 255", got)
	}
	if got := bin.GrayAt(50, 75).Y; got != 0 {
		t.Errorf("dark pixel: got %d, want 0", got)
	}
}

func TestOtsuLevel_EmptyImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 0, 0))
	if level := OtsuLevel(img); level != 0 {
		t.Errorf("empty image level: got %d, want 0", level)
	}
}
