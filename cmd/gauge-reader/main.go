package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ironsheep/gauge-reader/internal/gauge"
	"github.com/ironsheep/gauge-reader/internal/imaging"
	"github.com/ironsheep/gauge-reader/internal/sink"
	"github.com/ironsheep/gauge-reader/internal/source"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gauge-reader:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := gauge.DefaultConfig()

	var (
		images       string
		thresholdStr string
		outDir       string
		debug        bool
		verbose      bool
		showVersion  bool
		warnInterval time.Duration
		warnSilence  time.Duration
	)

	flag.StringVar(&images, "images", "", "glob pattern of gauge images to read (required)")
	flag.StringVar(&cfg.Sensor, "sensor", cfg.Sensor, "sensor name used in published readings")

	flag.Float64Var(&cfg.MinAngle, "min-angle", cfg.MinAngle, "needle angle (degrees) at the lowest scale mark")
	flag.Float64Var(&cfg.MaxAngle, "max-angle", cfg.MaxAngle, "needle angle (degrees) at the highest scale mark")
	flag.Float64Var(&cfg.MinValue, "min-value", cfg.MinValue, "gauge value at the lowest scale mark")
	flag.Float64Var(&cfg.MaxValue, "max-value", cfg.MaxValue, "gauge value at the highest scale mark")
	flag.StringVar(&cfg.Unit, "unit", cfg.Unit, "unit label for calibrated readings")

	flag.Float64Var(&cfg.MinWarn, "min-warn", cfg.MinWarn, "alert when the median reading drops to this value")
	flag.Float64Var(&cfg.MaxWarn, "max-warn", cfg.MaxWarn, "alert when the median reading rises to this value")
	warnInterval = cfg.WarnInterval
	warnSilence = cfg.WarnNoDetections
	flag.DurationVar(&warnInterval, "warn-interval", warnInterval, "minimum time between value alerts")
	flag.DurationVar(&warnSilence, "warn-no-detections", warnSilence, "alert after this long without a successful reading")
	flag.StringVar(&cfg.AlertTemplate, "alert-template", cfg.AlertTemplate, "alert text, $value and $time are substituted")

	flag.StringVar(&thresholdStr, "threshold-mode", "", "binarization mode: binary, gray, gauss or otsu")
	level := flag.Int("threshold", int(cfg.ThresholdLevel), "binarization level (0-255)")
	flag.IntVar(&cfg.BlurSize, "blur-size", cfg.BlurSize, "odd kernel width of the pre-detection blur")
	flag.BoolVar(&cfg.UseLineFilter, "line-filter", cfg.UseLineFilter, "apply the edge-based cleanup pass before segment detection")

	flag.Float64Var(&cfg.MinDialFrac, "min-dial", cfg.MinDialFrac, "minimum dial diameter as a fraction of the frame")
	flag.Float64Var(&cfg.MaxDialFrac, "max-dial", cfg.MaxDialFrac, "maximum dial diameter as a fraction of the frame")
	flag.IntVar(&cfg.DialWindow, "dial-window", cfg.DialWindow, "frames in the dial stabilization window")
	flag.IntVar(&cfg.ValueWindow, "value-window", cfg.ValueWindow, "readings in the alerting median window")
	flag.DurationVar(&cfg.MinInterval, "min-interval", cfg.MinInterval, "minimum time per processing loop iteration")

	flag.StringVar(&outDir, "out", "", "directory for annotated output images")
	flag.BoolVar(&debug, "debug", false, "also write intermediate pipeline images")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("gauge-reader %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return nil
	}
	if images == "" {
		flag.Usage()
		return fmt.Errorf("-images is required")
	}

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	log.Info("gauge-reader starting", "version", Version, "commit", GitCommit)

	mode, err := imaging.ParseThresholdMode(thresholdStr)
	if err != nil {
		return err
	}
	cfg.ThresholdMode = mode
	if *level < 0 || *level > 255 {
		return fmt.Errorf("-threshold must be in 0-255, got %d", *level)
	}
	cfg.ThresholdLevel = uint8(*level)
	cfg.WarnInterval = warnInterval
	cfg.WarnNoDetections = warnSilence

	src, err := source.NewFileSource(images, log)
	if err != nil {
		return err
	}

	sinks := gauge.Sinks{
		Alerts: &sink.LogAlertSink{Log: log},
		Values: &sink.CSVValueSink{W: os.Stdout},
	}
	if outDir != "" {
		dirSink, err := sink.NewDirectorySink(outDir, debug, log)
		if err != nil {
			return err
		}
		sinks.Debug = dirSink
	}

	reader, err := gauge.NewReader(cfg, src, sinks, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return reader.Run(ctx)
}
