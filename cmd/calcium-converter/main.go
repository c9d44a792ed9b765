// Command calcium-converter converts a calcium imaging xlsx export
// into an annotated analysis workbook: it segments the recording by
// treatment labels, converts fluorescence ratios to calcium
// concentration and derives base, peak and area per region per
// treatment.
//
// Usage:
//
//	calcium-converter <file> [-base N] [-peak {1,2}] [--post-std-time-to-search SECONDS]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"calciumcli/internal/config"
	"calciumcli/internal/dataprocessing"
	"calciumcli/internal/infrastructure"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("calcium-converter", flag.ContinueOnError)
	base := fs.Int("base", config.DefaultBaseCycles,
		"number of cycles before drug application to average for the base; 0 uses the whole standard bath window")
	peak := fs.Int("peak", config.DefaultPeakMode,
		"enter 1 to compute the peak from the highest value, 2 to use the average of the three highest")
	postStd := fs.Float64("post-std-time-to-search", config.DefaultPostStdSearchSeconds,
		"number of seconds after treatment start to search for a peak")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: calcium-converter <file> [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Converts a calcium imaging file. The file must be an xlsx workbook,\n")
		fmt.Fprintf(fs.Output(), "preferably named XXXX_XX_XX_Y.xlsx where XXXX_XX_XX is a date and Y a\n")
		fmt.Fprintf(fs.Output(), "run label. The analysis is written to <file>_analysis.xlsx.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	// Accept flags after the positional file argument as well.
	positional := fs.Args()
	if len(positional) > 1 {
		if err := fs.Parse(positional[1:]); err != nil {
			return 2
		}
		if fs.NArg() > 0 {
			fmt.Fprintln(os.Stderr, "calcium-converter: expected exactly one input file")
			fs.Usage()
			return 2
		}
	}
	if len(positional) == 0 {
		fmt.Fprintln(os.Stderr, "calcium-converter: expected exactly one input file")
		fs.Usage()
		return 2
	}

	opts := config.Options{
		InputFile:            positional[0],
		BaseCycles:           *base,
		PeakMode:             *peak,
		PostStdSearchSeconds: *postStd,
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "calcium-converter: %v\n", err)
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{Logging: config.LoggingConfig{Level: "info", Format: "json", Output: "stderr"}}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := infrastructure.ContextWithTraceID(context.Background())
	logger.InfoContext(ctx, "starting conversion",
		slog.String("file", opts.InputFile),
		slog.Int("base", opts.BaseCycles),
		slog.Int("peak", opts.PeakMode),
		slog.Float64("post_std_time_to_search", opts.PostStdSearchSeconds))

	outPath, err := dataprocessing.NewPipeline(logger, opts).Convert(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "conversion failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "calcium-converter: %v\n", err)
		return 1
	}

	logger.InfoContext(ctx, "conversion completed", slog.String("output", outPath))
	fmt.Printf("SUCCESS! Your file was written to %s\n", outPath)
	return 0
}
