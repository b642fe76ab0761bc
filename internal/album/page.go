package album

import (
	"context"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/arts-link/gordon-landreth-photography/internal/detection"
	"github.com/arts-link/gordon-landreth-photography/internal/imaging"
	"github.com/arts-link/gordon-landreth-photography/internal/recognize"
	"github.com/arts-link/gordon-landreth-photography/internal/textfilter"
)

// Threshold method names accepted by PipelineConfig.
const (
	ThresholdAdaptive = "adaptive"
	ThresholdOtsu     = "otsu"
)

// PipelineConfig collects every tunable of the per-page pipeline. Passing it
// at construction keeps concurrent scans with different settings from
// interfering with each other.
type PipelineConfig struct {
	// Threshold selects the binarization method, ThresholdAdaptive or
	// ThresholdOtsu. Adaptive handles the uneven illumination of flatbed
	// scans; Otsu is the fallback for evenly lit pages.
	Threshold string

	// AdaptiveRadius and AdaptiveOffset parameterize adaptive thresholding:
	// a Gaussian window of 2*radius+1 pixels per side, with the offset
	// subtracted from the local mean.
	AdaptiveRadius int
	AdaptiveOffset int

	// Detection holds the candidate-region geometry thresholds.
	Detection detection.Config

	// MergeIoU is the intersection-over-union above which two candidate
	// rectangles count as the same region.
	MergeIoU float64

	// Lines and Blocks hold the text quality thresholds.
	Lines  textfilter.LineConfig
	Blocks textfilter.BlockConfig
}

// DefaultPipelineConfig returns the settings tuned on the Landreth albums.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Threshold:      ThresholdAdaptive,
		AdaptiveRadius: 25,
		AdaptiveOffset: 5,
		Detection:      detection.DefaultConfig(),
		MergeIoU:       0.25,
		Lines:          textfilter.DefaultLineConfig(),
		Blocks:         textfilter.DefaultBlockConfig(),
	}
}

// Pipeline runs the full extraction sequence for single pages: binarize,
// detect candidate regions, recognize each region, filter the text, and
// assemble the page record.
//
// A Pipeline is safe for concurrent use; it holds only configuration and the
// recognizer, which is itself required to be concurrency-safe.
type Pipeline struct {
	cfg        PipelineConfig
	recognizer recognize.Recognizer
	generative bool
	lines      *textfilter.LineFilter
	blocks     *textfilter.BlockFilter
}

// NewPipeline builds a pipeline around the given recognizer. Whether the
// repetition filter runs is decided here, from the recognizer's capabilities,
// so the per-region path has no engine-specific branches.
func NewPipeline(cfg PipelineConfig, rec recognize.Recognizer) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		recognizer: rec,
		generative: recognize.IsGenerative(rec),
		lines:      textfilter.NewLineFilter(cfg.Lines),
		blocks:     textfilter.NewBlockFilter(cfg.Blocks),
	}
}

// DetectRegions returns the merged candidate caption regions of a page.
//
// The page is grayscaled, contrast-stretched, and binarized with the
// configured threshold method; connected-component analysis and overlap
// merging then produce the final rectangles in reading order. No recognizer
// is involved, which makes this the right entry point for overlay rendering
// and threshold tuning.
func (p *Pipeline) DetectRegions(page image.Image) []image.Rectangle {
	gray := imaging.NormalizeContrast(imaging.Grayscale(page))

	var bin *image.Gray
	if p.cfg.Threshold == ThresholdOtsu {
		bin = imaging.OtsuThreshold(gray)
	} else {
		bin = imaging.AdaptiveThreshold(gray, p.cfg.AdaptiveRadius, p.cfg.AdaptiveOffset)
	}

	candidates := detection.FindCandidates(bin, p.cfg.Detection)
	return detection.MergeOverlapping(candidates, p.cfg.MergeIoU)
}

// BuildRecord recognizes and filters each candidate region of a loaded page
// and assembles the page record.
//
// Regions whose geometry alone disqualifies them are skipped before any
// recognition runs. For the rest, recognized text flows through
// normalization, the repetition filter (generative engines only), the line
// filter, and the block filter; rejections are logged at debug level with
// the name of the rule that fired. Recognition failures degrade to empty
// text rather than failing the page.
func (p *Pipeline) BuildRecord(ctx context.Context, page image.Image, path string, regions []image.Rectangle) PageRecord {
	bounds := page.Bounds()
	pageW, pageH := bounds.Dx(), bounds.Dy()

	blocks := make([]Block, 0, len(regions))
	for _, region := range regions {
		if p.blocks.Oversize(region, pageW, pageH) {
			slog.Debug("region rejected before recognition",
				"page", path,
				"region", region.String(),
				"reason", "oversize")
			continue
		}

		text := p.recognizeRegion(ctx, page, region, path)
		text = textfilter.Normalize(text)
		if p.generative {
			text = textfilter.FilterRepetition(text)
		}
		text = p.lines.Filter(text)

		keep, reason := p.blocks.Evaluate(text, region, pageW, pageH)
		if !keep {
			slog.Debug("region rejected",
				"page", path,
				"region", region.String(),
				"reason", reason)
			continue
		}

		blocks = append(blocks, Block{BBox: BBoxFromRect(region), Text: text})
	}

	slog.Debug("page processed",
		"page", path,
		"candidates", len(regions),
		"blocks", len(blocks))
	return AssemblePage(filepath.Base(path), path, blocks)
}

// recognizeRegion crops and recognizes one region. Failures are reported as
// empty text; the block filter rejects the region downstream, and the rest
// of the page is unaffected.
func (p *Pipeline) recognizeRegion(ctx context.Context, page image.Image, region image.Rectangle, path string) string {
	crop := recognize.CropRegion(page, region)
	text, err := p.recognizer.Recognize(ctx, crop)
	if err != nil {
		slog.Warn("recognition failed, treating region as empty",
			"page", path,
			"region", region.String(),
			"recognizer", p.recognizer.Name(),
			"error", err)
		return ""
	}
	return text
}
