// Package main provides the CLI entry point for framepipe.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framepipe/pkg/adapters/filesink"
	"github.com/user/framepipe/pkg/adapters/ggrenderer"
	"github.com/user/framepipe/pkg/adapters/imagesource"
	"github.com/user/framepipe/pkg/adapters/logger"
	"github.com/user/framepipe/pkg/adapters/models"
	"github.com/user/framepipe/pkg/adapters/nullsink"
	"github.com/user/framepipe/pkg/adapters/osfilesystem"
	"github.com/user/framepipe/pkg/adapters/patternsource"
	"github.com/user/framepipe/pkg/config"
	"github.com/user/framepipe/pkg/framepipe"
	"github.com/user/framepipe/pkg/orchestrator"
	"github.com/user/framepipe/pkg/ports"
	"github.com/user/framepipe/pkg/summarizer"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "framepipe",
		Usage:   l10n.T("Run frames through a bounded capture, transform and fan-out pipeline"),
		Version: version,
		Commands: []*cli.Command{
			runCommand(),
			modelsCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	const (
		catInput   = "Input"
		catModel   = "Model"
		catBuffers = "Buffers"
		catCapture = "Capture"
		catOutput  = "Output"
		catDebug   = "Debug"
		catLogging = "Logging"
	)

	return &cli.Command{
		Name:        "run",
		Usage:       l10n.T("Run the pipeline"),
		Description: l10n.T("Capture frames from an image directory or a test pattern, crop them around a cursor, apply a model and fan the results out to every output."),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: l10n.T(catInput)},
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: l10n.T("Directory of images to read (default: test pattern)"), Category: l10n.T(catInput)},
			&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Usage: l10n.T("Number of test pattern frames"), Category: l10n.T(catInput)},
			&cli.StringFlag{Name: "pattern-size", Usage: l10n.T("Test pattern size (WxH)"), Category: l10n.T(catInput)},

			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: l10n.T("Model to apply (see the models command)"), Category: l10n.T(catModel)},
			&cli.StringFlag{Name: "resize", Usage: l10n.T("Resize target for the resize model (WxH)"), Category: l10n.T(catModel)},
			&cli.DurationFlag{Name: "latency", Usage: l10n.T("Simulated inference time per frame"), Category: l10n.T(catModel)},

			&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: l10n.T("Buffer preset (realtime, balanced, throughput)"), Category: l10n.T(catBuffers)},
			&cli.IntFlag{Name: "input-capacity", Usage: l10n.T("Capacity of the buffer between capture and model"), Category: l10n.T(catBuffers)},
			&cli.IntFlag{Name: "output-capacity", Usage: l10n.T("Default capacity of each output buffer"), Category: l10n.T(catBuffers)},
			&cli.DurationFlag{Name: "poll-interval", Usage: l10n.T("Wait between checks of empty or full buffers"), Category: l10n.T(catBuffers)},

			&cli.StringFlag{Name: "crop", Usage: l10n.T("Crop window size (WxH)"), Category: l10n.T(catCapture)},
			&cli.StringFlag{Name: "cursor", Usage: l10n.T("Initial crop centre (X,Y)"), Category: l10n.T(catCapture)},
			&cli.BoolFlag{Name: "cursor-stdin", Usage: l10n.T("Read cursor moves as \"X Y\" lines from stdin"), Category: l10n.T(catCapture)},
			&cli.Float64Flag{Name: "fps", Usage: l10n.T("Source read rate (0 = as fast as possible)"), Category: l10n.T(catCapture)},
			&cli.IntFlag{Name: "max-frames", Usage: l10n.T("Stop after this many source frames (0 = unlimited)"), Category: l10n.T(catCapture)},

			&cli.StringSliceFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output as NAME[=DIR][:CAPACITY], repeatable; without DIR frames are discarded"), Category: l10n.T(catOutput)},
			&cli.StringFlag{Name: "summary", Usage: l10n.T("Output execution summary to file (Markdown format)"), Category: l10n.T(catOutput)},

			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: l10n.T(catDebug)},
			&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: l10n.T(catDebug)},
			&cli.StringFlag{Name: "preview-color", Usage: l10n.T("Crop rectangle colour in previews (hex)"), Category: l10n.T(catDebug)},

			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T(catLogging)},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T(catLogging)},
		},
		Action: runAction,
	}
}

func modelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: l10n.T("List available models"),
		Action: func(c *cli.Context) error {
			for _, name := range models.Names() {
				fmt.Fprintln(c.App.Writer, name)
			}
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:        "version",
		Usage:       l10n.T("Show version information"),
		Description: l10n.T("Display the version of framepipe."),
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, l10n.F("framepipe version %s", version))
			return nil
		},
	}
}

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	// Create logger
	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var source ports.FrameSource
	sourceName := "pattern"
	if cfg.SourceDir != "" {
		src, err := imagesource.Open(cfg.SourceDir, fs, renderer)
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		source, sourceName = src, cfg.SourceDir
	} else {
		src, err := patternsource.New(cfg.PatternOptions())
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		source = src
	}

	modelOpts := cfg.ModelOptions()
	modelOpts.Renderer = renderer
	transform, err := models.Lookup(cfg.Model, modelOpts)
	if err != nil {
		return err
	}

	sinks := make([]orchestrator.NamedSink, 0, len(cfg.Outputs))
	for _, o := range cfg.Outputs {
		var sink ports.FrameSink = nullsink.New()
		if o.Dir != "" {
			if err := fs.MkdirAll(o.Dir); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			sink = filesink.New(o.Dir, fs, renderer)
		}
		sinks = append(sinks, orchestrator.NamedSink{Name: o.Name, Sink: sink, Capacity: o.Capacity})
	}

	// Create debug sink
	var debug ports.DebugSink = nullsink.New()
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		d := filesink.NewDebug(cfg.DebugDir, fs, renderer)
		if cfg.PreviewColor != "" {
			outline, _ := config.ParseColor(cfg.PreviewColor)
			d.WithOutlineColor(outline)
		}
		debug = d
	}

	orch := orchestrator.New(source, transform, sinks, debug, log)

	if c.Bool("cursor-stdin") {
		go followStdin(ctx, orch, log)
	}

	orchConfig := cfg.ToOrchestratorConfig()
	log.Info(l10n.F("Processing %s with model %s", sourceName, cfg.Model))

	result, runErr := orch.Run(ctx, orchConfig)

	if cfg.SummaryPath != "" {
		bounds := source.Bounds()
		summary := summarizer.NewBuilder().
			WithSource(sourceName, bounds.Width, bounds.Height).
			WithSettings(summarizer.Settings{
				Model:        cfg.Model,
				Preset:       cfg.Preset,
				CropWidth:    orchConfig.Capture.CropWidth,
				CropHeight:   orchConfig.Capture.CropHeight,
				PollInterval: orchConfig.PollInterval,
			}).
			WithResult(result).
			WithError(runErr).
			Build()

		writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		), fs)
		if err := writer.Write(cfg.SummaryPath, summary); err != nil {
			log.Warn(l10n.F("Failed to write summary: %s", err))
		} else {
			log.Info(l10n.F("Summary saved to %s", cfg.SummaryPath))
		}
	}

	return runErr
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}

	if c.IsSet("source") {
		cfg.SourceDir = c.String("source")
	}
	if c.IsSet("frames") {
		cfg.Pattern.Count = c.Int("frames")
	}
	if c.IsSet("pattern-size") {
		w, h, err := parseSize(c.String("pattern-size"))
		if err != nil {
			return cfg, fmt.Errorf("--pattern-size: %w", err)
		}
		cfg.Pattern.Width, cfg.Pattern.Height = w, h
	}

	if c.IsSet("model") {
		cfg.Model = c.String("model")
	}
	if c.IsSet("resize") {
		w, h, err := parseSize(c.String("resize"))
		if err != nil {
			return cfg, fmt.Errorf("--resize: %w", err)
		}
		cfg.ResizeWidth, cfg.ResizeHeight = w, h
	}
	if c.IsSet("latency") {
		cfg.Latency = c.Duration("latency")
	}

	if c.IsSet("preset") {
		cfg.Preset = c.String("preset")
	}
	if c.IsSet("input-capacity") {
		cfg.InputCapacity = c.Int("input-capacity")
	}
	if c.IsSet("output-capacity") {
		cfg.OutputCapacity = c.Int("output-capacity")
	}
	if c.IsSet("poll-interval") {
		cfg.PollInterval = c.Duration("poll-interval")
	}

	if c.IsSet("crop") {
		w, h, err := parseSize(c.String("crop"))
		if err != nil {
			return cfg, fmt.Errorf("--crop: %w", err)
		}
		cfg.CropWidth, cfg.CropHeight = w, h
	}
	if c.IsSet("cursor") {
		x, y, err := parsePoint(c.String("cursor"))
		if err != nil {
			return cfg, fmt.Errorf("--cursor: %w", err)
		}
		cfg.CursorX, cfg.CursorY = x, y
	}
	if c.IsSet("fps") {
		cfg.FrameInterval = framepipe.FPSToInterval(c.Float64("fps"))
	}
	if c.IsSet("max-frames") {
		cfg.MaxFrames = c.Int("max-frames")
	}

	if c.IsSet("output") {
		cfg.Outputs = nil
		for _, spec := range c.StringSlice("output") {
			o, err := parseOutput(spec)
			if err != nil {
				return cfg, fmt.Errorf("--output: %w", err)
			}
			cfg.Outputs = append(cfg.Outputs, o)
		}
	}
	if c.IsSet("summary") {
		cfg.SummaryPath = c.String("summary")
	}

	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("preview-color") {
		cfg.PreviewColor = c.String("preview-color")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	return cfg, nil
}

// followStdin moves the crop centre for every "X Y" line read from stdin.
func followStdin(ctx context.Context, orch *orchestrator.Orchestrator, log ports.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		x, errX := strconv.Atoi(fields[0])
		y, errY := strconv.Atoi(fields[1])
		if errX != nil || errY != nil {
			log.Warn(l10n.F("Ignoring cursor input %q", scanner.Text()))
			continue
		}
		orch.MoveCursor(x, y)
	}
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("expected WxH, got %q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q", w)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q", h)
	}
	return width, height, nil
}

// parsePoint parses "X,Y".
func parsePoint(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected X,Y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q", ys)
	}
	return x, y, nil
}

// parseOutput parses "NAME[=DIR][:CAPACITY]".
func parseOutput(s string) (config.OutputConfig, error) {
	var o config.OutputConfig

	rest := s
	if i := strings.LastIndex(rest, ":"); i >= 0 {
		if n, err := strconv.Atoi(rest[i+1:]); err == nil {
			o.Capacity = n
			rest = rest[:i]
		}
	}

	name, dir, _ := strings.Cut(rest, "=")
	if name == "" {
		return o, fmt.Errorf("missing name in %q", s)
	}
	o.Name, o.Dir = name, dir
	return o, nil
}
