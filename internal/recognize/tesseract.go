package recognize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract runs a local Tesseract engine through gosseract.
//
// Each Recognize call builds a fresh client from clientFactory, so one
// Tesseract value can serve concurrent page workers without sharing native
// engine state.
type Tesseract struct {
	language      string
	clientFactory func() *gosseract.Client
}

// NewTesseract returns a recognizer for the given Tesseract language code
// ("eng", "deu", ...).
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{
		language:      language,
		clientFactory: gosseract.NewClient,
	}
}

// Name identifies the engine in logs.
func (t *Tesseract) Name() string {
	return "tesseract"
}

// Recognize binarizes and upscales the crop, then extracts text with page
// segmentation mode 6 (a single uniform block), which matches the shape of a
// caption strip.
func (t *Tesseract) Recognize(ctx context.Context, region image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, EnhanceForOCR(region)); err != nil {
		return "", fmt.Errorf("encode region: %w", err)
	}

	client := t.clientFactory()
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	// Caption strips separate names with wide gaps; keep them as spaces.
	if err := client.SetVariable(gosseract.SettableVariable("preserve_interword_spaces"), "1"); err != nil {
		return "", fmt.Errorf("set variable: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
