package recognize

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable reports that a recognizer cannot run in this environment,
// for example a vision engine with no endpoint configured. Callers treat it
// as a configuration problem rather than a per-region failure.
var ErrUnavailable = errors.New("recognizer unavailable")

// Recognizer turns a cropped page region into raw text. Implementations own
// their preprocessing; the pipeline hands every engine the same raw crop.
//
// Recognize must be safe for concurrent use because the page worker pool
// shares one recognizer across goroutines.
type Recognizer interface {
	// Name identifies the engine in logs and diagnostics.
	Name() string

	// Recognize extracts text from a region crop. The returned text is raw
	// engine output; normalization and filtering happen downstream.
	Recognize(ctx context.Context, region image.Image) (string, error)
}

// Generative is an optional capability interface. Engines that may
// synthesize output rather than transcribe it (vision language models)
// report true, which switches on the repetition filter downstream.
type Generative interface {
	Generative() bool
}

// IsGenerative reports whether r may produce synthesized rather than
// transcribed text.
func IsGenerative(r Recognizer) bool {
	g, ok := r.(Generative)
	return ok && g.Generative()
}
