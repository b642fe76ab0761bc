// Package recognize extracts text from page regions through interchangeable
// engines.
//
// Two engines are provided: Tesseract (local, via gosseract) for clean typed
// captions, and Vision (a hosted vision language model over HTTP) for
// handwriting and faded typescript. A Cascade chains them with a per-call
// timeout so one stalled region cannot wedge an album scan.
//
// # Prerequisites
//
// The Tesseract engine needs the system library and language data installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The Vision engine needs an endpoint URL, usually supplied through the
// ALBUMSCAN_VISION_URL environment variable, plus optional API key and model
// selection.
//
// # Preprocessing
//
// Engines own their preprocessing. Tesseract receives a grayscale, 2x
// upscaled, smoothed, Otsu-binarized version of the crop (EnhanceForOCR);
// the vision engine receives the untouched crop because hosted models do
// their own enhancement and lose accuracy on pre-binarized input.
//
// # Generative Output
//
// Vision models occasionally synthesize text instead of transcribing it.
// Engines with that failure mode implement the Generative capability
// interface, which downstream filtering uses to decide whether repetition
// artifacts need to be stripped.
package recognize
