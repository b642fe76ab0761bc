// Package imaging provides page image loading, binarization, and debug
// overlays for the album scanner.
//
// This package handles everything between the album directory layout and
// the detection stage: discovering page images, decoding them, converting
// to grayscale, and thresholding into binary foreground/background masks.
// All operations work with standard Go image.Image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Binarization
//
// Two thresholding strategies are provided:
//
//   - AdaptiveThreshold: compares each pixel against a local Gaussian mean,
//     which tolerates the uneven illumination typical of flatbed scans of
//     thick album pages
//   - OtsuThreshold: a single global split chosen by Otsu's criterion,
//     suitable for evenly lit pages and for engine-side preprocessing
//
// In both cases foreground (the light caption strips pasted onto darker
// album pages) comes out white (255) and background black (0).
//
// # Thread Safety
//
// All functions are stateless and safe to call concurrently on different
// images. Pages are decoded fresh per call; the scanner visits each page
// exactly once, so there is nothing to cache.
//
// # Error Handling
//
// Functions return errors for missing or undecodable image files and for
// overlay encoding failures. Pure pixel transforms do not fail.
package imaging
