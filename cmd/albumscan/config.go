package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/arts-link/gordon-landreth-photography/internal/album"
	"github.com/arts-link/gordon-landreth-photography/internal/detection"
)

// Config is the albumscan configuration file. Every value has a default, so
// a missing file means a default run, and flags override file values.
type Config struct {
	Scan       ScanSection       `toml:"scan"`
	Detection  DetectionSection  `toml:"detection"`
	Recognizer RecognizerSection `toml:"recognizer"`
}

// ScanSection selects inputs, outputs, and parallelism.
type ScanSection struct {
	ContentDir string `toml:"content_dir"`
	IndexPath  string `toml:"index_path"`
	Workers    int    `toml:"workers"`
	Limit      int    `toml:"limit"`
	OverlayDir string `toml:"overlay_dir"`
}

// DetectionSection exposes the region-detection tunables.
type DetectionSection struct {
	Threshold   string  `toml:"threshold"`
	MinAreaFrac float64 `toml:"min_area_frac"`
	MaxAreaFrac float64 `toml:"max_area_frac"`
	MinAspect   float64 `toml:"min_aspect"`
	PadFrac     float64 `toml:"pad_frac"`
	MergeIoU    float64 `toml:"merge_iou"`
}

// RecognizerSection selects the recognition engines. Vision credentials come
// from the environment, not the config file.
type RecognizerSection struct {
	Engine         string `toml:"engine"`
	Fallback       string `toml:"fallback"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// NewDefaultConfig returns the built-in defaults: the site layout the
// gallery repo uses, the detection thresholds tuned on the Landreth albums,
// and a tesseract-only recognizer.
func NewDefaultConfig() *Config {
	det := detection.DefaultConfig()
	return &Config{
		Scan: ScanSection{
			ContentDir: "content",
			IndexPath:  filepath.Join("static", "search", "search-index.json"),
		},
		Detection: DetectionSection{
			Threshold:   album.ThresholdAdaptive,
			MinAreaFrac: det.MinAreaFrac,
			MaxAreaFrac: det.MaxAreaFrac,
			MinAspect:   det.MinAspect,
			PadFrac:     det.PadFrac,
			MergeIoU:    0.25,
		},
		Recognizer: RecognizerSection{
			Engine:         "tesseract",
			Language:       "eng",
			TimeoutSeconds: 120,
		},
	}
}

// DefaultConfigPath returns the XDG location of the config file.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "albumscan", "config.toml")
}

// LoadConfigFromFile reads path over the defaults. A missing file is not an
// error; a present but malformed file is.
func LoadConfigFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil // no config file, return defaults
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}

	return config, nil
}

// Validate rejects configurations the pipeline cannot run with. Violations
// are fatal before any work begins.
func (c *Config) Validate() error {
	if c.Scan.ContentDir == "" {
		return fmt.Errorf("scan.content_dir must not be empty")
	}
	switch c.Detection.Threshold {
	case album.ThresholdAdaptive, album.ThresholdOtsu:
	default:
		return fmt.Errorf("detection.threshold %q is not %q or %q",
			c.Detection.Threshold, album.ThresholdAdaptive, album.ThresholdOtsu)
	}
	if err := validEngine(c.Recognizer.Engine); err != nil {
		return fmt.Errorf("recognizer.engine: %w", err)
	}
	if c.Recognizer.Fallback != "" {
		if err := validEngine(c.Recognizer.Fallback); err != nil {
			return fmt.Errorf("recognizer.fallback: %w", err)
		}
		if c.Recognizer.Fallback == c.Recognizer.Engine {
			return fmt.Errorf("recognizer.fallback must differ from recognizer.engine")
		}
	}
	if c.Recognizer.TimeoutSeconds < 0 {
		return fmt.Errorf("recognizer.timeout_seconds must not be negative")
	}
	return nil
}

// validEngine reports whether name is a known recognition engine.
func validEngine(name string) error {
	switch name {
	case "tesseract", "vision":
		return nil
	default:
		return fmt.Errorf("unknown engine %q (want tesseract or vision)", name)
	}
}
