package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arts-link/gordon-landreth-photography/internal/album"
	"github.com/arts-link/gordon-landreth-photography/internal/recognize"
	"github.com/arts-link/gordon-landreth-photography/internal/search"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var logLevel string

	root := &cobra.Command{
		Use:   "albumscan",
		Short: "Extract caption text from scanned photo-album pages",
		Long: "albumscan detects caption regions on scanned album pages, runs them\n" +
			"through a recognition engine, filters the text, and writes per-album\n" +
			"caption artifacts plus the merged search index for the gallery site.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(logLevel)
			if err := godotenv.Load(); err == nil {
				slog.Debug("loaded environment from .env")
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", DefaultConfigPath(), "Path to the TOML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newScanCommand(&configPath))
	root.AddCommand(newIndexCommand(&configPath))
	root.AddCommand(newVersionCommand())
	return root
}

// initLogging routes slog to stderr at the requested level; stdout stays
// clean for anything scripted around the tool.
func initLogging(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

// scanOptions holds the scan flag values; only flags the user actually set
// override the config file.
type scanOptions struct {
	contentDir string
	albumName  string
	indexPath  string
	workers    int
	limit      int
	overlayDir string
	threshold  string
	engine     string
}

func newScanCommand(configPath *string) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan album directories and write caption artifacts and the search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfigFromFile(*configPath)
			if err != nil {
				return err
			}
			applyScanOverrides(cmd, cfg, opts)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runScan(cmd.Context(), cfg, opts.albumName)
		},
	}

	cmd.Flags().StringVar(&opts.contentDir, "content", "", "Content root holding one directory per album")
	cmd.Flags().StringVar(&opts.albumName, "album", "", "Scan only this album directory name")
	cmd.Flags().StringVar(&opts.indexPath, "index", "", "Merged search index output path")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Page worker count (0 = one per CPU)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Max pages per album (0 = all)")
	cmd.Flags().StringVar(&opts.overlayDir, "overlay-dir", "", "Write candidate-region overlay PNGs under this directory")
	cmd.Flags().StringVar(&opts.threshold, "threshold", "", "Binarization method (adaptive or otsu)")
	cmd.Flags().StringVar(&opts.engine, "recognizer", "", "Recognition engine (tesseract or vision)")
	return cmd
}

// applyScanOverrides copies set flags over the file configuration.
func applyScanOverrides(cmd *cobra.Command, cfg *Config, opts *scanOptions) {
	flags := cmd.Flags()
	if flags.Changed("content") {
		cfg.Scan.ContentDir = opts.contentDir
	}
	if flags.Changed("index") {
		cfg.Scan.IndexPath = opts.indexPath
	}
	if flags.Changed("workers") {
		cfg.Scan.Workers = opts.workers
	}
	if flags.Changed("limit") {
		cfg.Scan.Limit = opts.limit
	}
	if flags.Changed("overlay-dir") {
		cfg.Scan.OverlayDir = opts.overlayDir
	}
	if flags.Changed("threshold") {
		cfg.Detection.Threshold = opts.threshold
	}
	if flags.Changed("recognizer") {
		cfg.Recognizer.Engine = opts.engine
	}
}

func runScan(ctx context.Context, cfg *Config, albumName string) error {
	if _, err := os.Stat(cfg.Scan.ContentDir); err != nil {
		return fmt.Errorf("content directory: %w", err)
	}

	rec, err := buildRecognizer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	slog.Info("scan starting",
		"run_id", runID,
		"content", cfg.Scan.ContentDir,
		"recognizer", rec.Name(),
		"threshold", cfg.Detection.Threshold)

	scanner := album.NewScanner(album.ScanConfig{
		ContentDir: cfg.Scan.ContentDir,
		Album:      albumName,
		Limit:      cfg.Scan.Limit,
		Workers:    cfg.Scan.Workers,
		OverlayDir: cfg.Scan.OverlayDir,
	}, album.NewPipeline(pipelineConfig(cfg), rec))

	records, err := scanner.ScanAll(ctx)
	if err != nil {
		return err
	}

	// A single-album scan must not shrink the merged index to one album, so
	// it rebuilds from every artifact on disk instead of from this run.
	var entries []search.Entry
	if albumName == "" {
		entries = search.Build(records)
	} else {
		entries, err = search.Rebuild(cfg.Scan.ContentDir)
		if err != nil {
			return err
		}
	}
	if err := search.WriteIndex(cfg.Scan.IndexPath, entries); err != nil {
		return err
	}

	slog.Info("scan complete",
		"run_id", runID,
		"albums", len(records),
		"entries", len(entries),
		"index", cfg.Scan.IndexPath)
	return nil
}

// pipelineConfig maps the file configuration onto the pipeline tunables,
// leaving the text-filter thresholds at their tuned defaults.
func pipelineConfig(cfg *Config) album.PipelineConfig {
	pc := album.DefaultPipelineConfig()
	pc.Threshold = cfg.Detection.Threshold
	pc.Detection.MinAreaFrac = cfg.Detection.MinAreaFrac
	pc.Detection.MaxAreaFrac = cfg.Detection.MaxAreaFrac
	pc.Detection.MinAspect = cfg.Detection.MinAspect
	pc.Detection.PadFrac = cfg.Detection.PadFrac
	pc.MergeIoU = cfg.Detection.MergeIoU
	return pc
}

// buildRecognizer assembles the configured engine chain. Even a single
// engine runs inside a cascade so every recognition call gets the per-call
// timeout.
func buildRecognizer(cfg *Config) (recognize.Recognizer, error) {
	timeout := time.Duration(cfg.Recognizer.TimeoutSeconds) * time.Second

	primary, err := engineByName(cfg.Recognizer.Engine, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Recognizer.Fallback == "" {
		return recognize.NewCascade(primary, nil, timeout), nil
	}

	fallback, err := engineByName(cfg.Recognizer.Fallback, cfg)
	if err != nil {
		return nil, err
	}
	return recognize.NewCascade(primary, fallback, timeout), nil
}

func engineByName(name string, cfg *Config) (recognize.Recognizer, error) {
	switch name {
	case "tesseract":
		return recognize.NewTesseract(cfg.Recognizer.Language), nil
	case "vision":
		return recognize.NewVision(visionConfig(cfg))
	default:
		return nil, fmt.Errorf("unknown recognizer %q (want tesseract or vision)", name)
	}
}

// visionConfig reads the vision service credentials from the environment,
// where .env loading put them.
func visionConfig(cfg *Config) recognize.VisionConfig {
	return recognize.VisionConfig{
		Endpoint: os.Getenv("ALBUMSCAN_VISION_URL"),
		APIKey:   os.Getenv("ALBUMSCAN_VISION_API_KEY"),
		Model:    os.Getenv("ALBUMSCAN_VISION_MODEL"),
		Language: cfg.Recognizer.Language,
		Timeout:  time.Duration(cfg.Recognizer.TimeoutSeconds) * time.Second,
	}
}

func newIndexCommand(configPath *string) *cobra.Command {
	var contentDir string
	var indexPath string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the merged search index from existing caption artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfigFromFile(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("content") {
				cfg.Scan.ContentDir = contentDir
			}
			if cmd.Flags().Changed("index") {
				cfg.Scan.IndexPath = indexPath
			}
			if cfg.Scan.ContentDir == "" {
				return fmt.Errorf("scan.content_dir must not be empty")
			}
			if _, err := os.Stat(cfg.Scan.ContentDir); err != nil {
				return fmt.Errorf("content directory: %w", err)
			}

			entries, err := search.Rebuild(cfg.Scan.ContentDir)
			if err != nil {
				return err
			}
			if err := search.WriteIndex(cfg.Scan.IndexPath, entries); err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(os.Stderr, "✓ search index rebuilt: %d entries -> %s\n",
				len(entries), cfg.Scan.IndexPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&contentDir, "content", "", "Content root holding one directory per album")
	cmd.Flags().StringVar(&indexPath, "index", "", "Merged search index output path")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("albumscan %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
		},
	}
}
