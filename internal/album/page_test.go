package album

import (
	"context"
	"image"
	"image/color"
	"sync/atomic"
	"testing"
)

// stubRecognizer returns the same canned text for every region.
type stubRecognizer struct {
	text  string
	err   error
	calls atomic.Int32
}

func (s *stubRecognizer) Name() string { return "stub" }

func (s *stubRecognizer) Recognize(ctx context.Context, region image.Image) (string, error) {
	s.calls.Add(1)
	return s.text, s.err
}

// generativeStub is a stubRecognizer that reports generative output.
type generativeStub struct {
	stubRecognizer
}

func (g *generativeStub) Generative() bool { return true }

// pageWithStrips paints light caption strips on a dark page, mimicking
// caption stock pasted onto album paper.
func pageWithStrips(width, height int, strips ...image.Rectangle) *image.RGBA {
	dark := color.RGBA{40, 35, 30, 255}
	light := color.RGBA{235, 225, 205, 255}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := dark
			for _, s := range strips {
				if image.Pt(x, y).In(s) {
					c = light
					break
				}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// otsuPipeline builds a pipeline with global thresholding, which is exact on
// the synthetic two-level test pages.
func otsuPipeline(rec *stubRecognizer) *Pipeline {
	cfg := DefaultPipelineConfig()
	cfg.Threshold = ThresholdOtsu
	return NewPipeline(cfg, rec)
}

func TestDetectRegions(t *testing.T) {
	page := pageWithStrips(200, 100, image.Rect(20, 10, 120, 25))

	pipe := otsuPipeline(&stubRecognizer{})
	regions := pipe.DetectRegions(page)

	if len(regions) != 1 {
		t.Fatalf("region count: got %d (%v), want 1", len(regions), regions)
	}
	// The strip padded by 1% of the shorter page side (1px).
	want := image.Rect(19, 9, 121, 26)
	if regions[0] != want {
		t.Errorf("region: got %v, want %v", regions[0], want)
	}
}

func TestDetectRegions_PlainPageHasNone(t *testing.T) {
	page := pageWithStrips(200, 100)

	pipe := otsuPipeline(&stubRecognizer{})
	if regions := pipe.DetectRegions(page); len(regions) != 0 {
		t.Errorf("region count: got %d (%v), want 0", len(regions), regions)
	}
}

func TestBuildRecord_AcceptsCaption(t *testing.T) {
	page := pageWithStrips(200, 100, image.Rect(20, 10, 120, 25))
	rec := &stubRecognizer{text: "1949 Boston trip\n"}
	pipe := otsuPipeline(rec)

	regions := pipe.DetectRegions(page)
	record := pipe.BuildRecord(context.Background(), page, "album/page_001.png", regions)

	if record.Filename != "page_001.png" {
		t.Errorf("filename: got %q, want %q", record.Filename, "page_001.png")
	}
	if len(record.Blocks) != 1 {
		t.Fatalf("block count: got %d, want 1", len(record.Blocks))
	}
	if record.Blocks[0].Text != "1949 Boston trip" {
		t.Errorf("block text: got %q, want %q", record.Blocks[0].Text, "1949 Boston trip")
	}
	if got, want := record.Blocks[0].BBox, (BBox{19, 9, 121, 26}); got != want {
		t.Errorf("block bbox: got %v, want %v", got, want)
	}
	if record.FullText != "1949 Boston trip" {
		t.Errorf("full text: got %q, want %q", record.FullText, "1949 Boston trip")
	}
	if record.CaptionText != "1949 Boston trip" {
		t.Errorf("caption text: got %q, want %q", record.CaptionText, "1949 Boston trip")
	}
}

func TestBuildRecord_NoisyTextRejected(t *testing.T) {
	page := pageWithStrips(200, 100, image.Rect(20, 10, 120, 25))
	rec := &stubRecognizer{text: "|| ~~ .. ##"}
	pipe := otsuPipeline(rec)

	regions := pipe.DetectRegions(page)
	record := pipe.BuildRecord(context.Background(), page, "album/page_001.png", regions)

	if len(record.Blocks) != 0 {
		t.Errorf("block count: got %d, want 0", len(record.Blocks))
	}
	if record.FullText != "" {
		t.Errorf("full text: got %q, want empty", record.FullText)
	}
}

func TestBuildRecord_RecognizerFailureYieldsEmptyPage(t *testing.T) {
	page := pageWithStrips(200, 100, image.Rect(20, 10, 120, 25))
	rec := &stubRecognizer{err: context.DeadlineExceeded}
	pipe := otsuPipeline(rec)

	regions := pipe.DetectRegions(page)
	record := pipe.BuildRecord(context.Background(), page, "album/page_001.png", regions)

	// The page is still assembled; the failed region just has no text.
	if len(record.Blocks) != 0 {
		t.Errorf("block count: got %d, want 0", len(record.Blocks))
	}
	if record.Captions == nil {
		t.Error("captions: got nil, want empty list")
	}
}

func TestBuildRecord_OversizeRegionSkipsRecognition(t *testing.T) {
	// The strip covers 27% of the page, over the 14% block ceiling.
	page := pageWithStrips(200, 100, image.Rect(10, 10, 190, 40))
	rec := &stubRecognizer{text: "should never be asked"}
	pipe := otsuPipeline(rec)

	regions := pipe.DetectRegions(page)
	if len(regions) != 1 {
		t.Fatalf("region count: got %d, want 1", len(regions))
	}

	record := pipe.BuildRecord(context.Background(), page, "album/page_001.png", regions)
	if len(record.Blocks) != 0 {
		t.Errorf("block count: got %d, want 0", len(record.Blocks))
	}
	if got := rec.calls.Load(); got != 0 {
		t.Errorf("recognizer calls: got %d, want 0", got)
	}
}

func TestBuildRecord_GenerativeEngineGetsRepetitionFilter(t *testing.T) {
	looped := "Louise by the shore. Louise by the shore itself."
	page := pageWithStrips(200, 100, image.Rect(20, 10, 120, 25))

	gen := &generativeStub{stubRecognizer{text: looped}}
	genPipeCfg := DefaultPipelineConfig()
	genPipeCfg.Threshold = ThresholdOtsu
	genRecord := NewPipeline(genPipeCfg, gen).BuildRecord(
		context.Background(), page, "p.png",
		[]image.Rectangle{image.Rect(19, 9, 121, 26)})

	if len(genRecord.Blocks) != 1 {
		t.Fatalf("generative block count: got %d, want 1", len(genRecord.Blocks))
	}
	if got, want := genRecord.Blocks[0].Text, "Louise by the shore."; got != want {
		t.Errorf("generative block text: got %q, want %q", got, want)
	}

	// A classical engine's output is taken as transcribed; no truncation.
	plain := &stubRecognizer{text: looped}
	plainRecord := otsuPipeline(plain).BuildRecord(
		context.Background(), page, "p.png",
		[]image.Rectangle{image.Rect(19, 9, 121, 26)})

	if len(plainRecord.Blocks) != 1 {
		t.Fatalf("classical block count: got %d, want 1", len(plainRecord.Blocks))
	}
	if got := plainRecord.Blocks[0].Text; got != looped {
		t.Errorf("classical block text: got %q, want %q", got, looped)
	}
}

func TestBuildRecord_BlocksInReadingOrder(t *testing.T) {
	// Two strips: one lower-left, one upper-right. Reading order puts the
	// upper one first regardless of detection order.
	upper := image.Rect(120, 10, 190, 22)
	lower := image.Rect(10, 60, 110, 75)
	page := pageWithStrips(200, 100, upper, lower)

	rec := &stubRecognizer{text: "Gordon and Louise at home"}
	pipe := otsuPipeline(rec)

	regions := pipe.DetectRegions(page)
	if len(regions) != 2 {
		t.Fatalf("region count: got %d (%v), want 2", len(regions), regions)
	}

	record := pipe.BuildRecord(context.Background(), page, "p.png", regions)
	if len(record.Blocks) != 2 {
		t.Fatalf("block count: got %d, want 2", len(record.Blocks))
	}
	if record.Blocks[0].BBox[1] > record.Blocks[1].BBox[1] {
		t.Errorf("blocks out of reading order: %v before %v",
			record.Blocks[0].BBox, record.Blocks[1].BBox)
	}
}
