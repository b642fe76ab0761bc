package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RegionOverlay draws numbered outlines of detected regions on a copy of the
// page image, one distinct hue per region. The overlays exist to eyeball
// detector output when tuning thresholds against a new batch of scans.
func RegionOverlay(page image.Image, regions []image.Rectangle) *image.RGBA {
	bounds := page.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, page, bounds.Min, draw.Src)

	for i, region := range regions {
		c := regionColor(i, len(regions))
		drawBox(out, region.Intersect(bounds), c)
		drawTag(out, region.Min.X+2, region.Min.Y+2, strconv.Itoa(i+1), c)
	}
	return out
}

// SaveOverlay writes an overlay image to path. The encoder is chosen from the
// file extension.
func SaveOverlay(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	return nil
}

// regionColor spaces hues evenly around the wheel so neighboring regions get
// visually distinct borders.
func regionColor(index, count int) color.RGBA {
	if count < 1 {
		count = 1
	}
	hue := float64(index%count) / float64(count) * 360.0
	r, g, b := colorful.Hsv(hue, 0.95, 0.95).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// drawBox outlines r with a 2-pixel border.
func drawBox(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	for t := 0; t < 2; t++ {
		x1, y1 := r.Min.X+t, r.Min.Y+t
		x2, y2 := r.Max.X-1-t, r.Max.Y-1-t
		if x2 < x1 || y2 < y1 {
			break
		}
		for x := x1; x <= x2; x++ {
			img.SetRGBA(x, y1, c)
			img.SetRGBA(x, y2, c)
		}
		for y := y1; y <= y2; y++ {
			img.SetRGBA(x1, y, c)
			img.SetRGBA(x2, y, c)
		}
	}
}

// drawTag renders label on a small filled box so the region number stays
// readable over photo content.
func drawTag(img *image.RGBA, x, y int, label string, c color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, label).Ceil()
	bg := image.Rect(x, y, x+width+6, y+face.Height+2)
	draw.Draw(img, bg.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(x+3, y+face.Ascent),
	}
	d.DrawString(label)
}
