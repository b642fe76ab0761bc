package detection

import (
	"image"
	"image/color"
	"testing"
)

// binaryPage creates an all-background binary image.
func binaryPage(width, height int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, width, height))
}

// paintForeground fills r with foreground pixels.
func paintForeground(img *image.Gray, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
}

func TestFindCandidates(t *testing.T) {
	page := binaryPage(200, 100)

	// A caption-shaped strip: wide, mid-sized.
	paintForeground(page, image.Rect(20, 10, 120, 25))
	// A square blob the aspect filter must reject.
	paintForeground(page, image.Rect(20, 50, 45, 75))
	// A speck below the area floor.
	paintForeground(page, image.Rect(150, 50, 153, 52))

	got := FindCandidates(page, DefaultConfig())

	if len(got) != 1 {
		t.Fatalf("candidate count: got %d (%v), want 1", len(got), got)
	}

	// Pad is 1% of the shorter page side (1px here), clamped to the page.
	want := image.Rect(19, 9, 121, 26)
	if got[0] != want {
		t.Errorf("candidate bounds: got %v, want %v", got[0], want)
	}
}

func TestFindCandidates_ReadingOrder(t *testing.T) {
	page := binaryPage(200, 100)

	topRight := image.Rect(120, 10, 190, 20)
	topLeft := image.Rect(10, 10, 80, 20)
	bottom := image.Rect(10, 60, 90, 70)
	for _, r := range []image.Rectangle{topRight, topLeft, bottom} {
		paintForeground(page, r)
	}

	got := FindCandidates(page, DefaultConfig())
	if len(got) != 3 {
		t.Fatalf("candidate count: got %d, want 3", len(got))
	}

	// Top row left-to-right, then the lower strip.
	want := []image.Rectangle{
		image.Rect(9, 9, 81, 21),
		image.Rect(119, 9, 191, 21),
		image.Rect(9, 59, 91, 71),
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindCandidates_RejectsPageSizedComponent(t *testing.T) {
	page := binaryPage(200, 100)

	// 80% of the page: over the area ceiling even though it is wide.
	paintForeground(page, image.Rect(0, 0, 200, 80))

	if got := FindCandidates(page, DefaultConfig()); len(got) != 0 {
		t.Errorf("candidate count: got %d (%v), want 0", len(got), got)
	}
}

func TestFindCandidates_EmptyPage(t *testing.T) {
	page := binaryPage(150, 150)
	if got := FindCandidates(page, DefaultConfig()); len(got) != 0 {
		t.Errorf("candidate count: got %d, want 0", len(got))
	}
}

func TestFindCandidates_PadClampedAtPageEdge(t *testing.T) {
	page := binaryPage(200, 100)

	// Strip flush against the top-left corner: padding cannot go negative.
	paintForeground(page, image.Rect(0, 0, 100, 12))

	got := FindCandidates(page, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("candidate count: got %d, want 1", len(got))
	}
	want := image.Rect(0, 0, 101, 13)
	if got[0] != want {
		t.Errorf("candidate bounds: got %v, want %v", got[0], want)
	}
}

func TestFindCandidates_DiagonalTouchIsOneComponent(t *testing.T) {
	page := binaryPage(200, 100)

	// Two strips meeting only at a corner: 8-connectivity joins them.
	paintForeground(page, image.Rect(10, 10, 30, 14))
	paintForeground(page, image.Rect(30, 14, 50, 18))

	got := FindCandidates(page, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("candidate count: got %d (%v), want 1", len(got), got)
	}
	want := image.Rect(9, 9, 51, 19)
	if got[0] != want {
		t.Errorf("candidate bounds: got %v, want %v", got[0], want)
	}
}

func TestFindCandidates_ZeroSizePage(t *testing.T) {
	page := binaryPage(0, 0)
	if got := FindCandidates(page, DefaultConfig()); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
