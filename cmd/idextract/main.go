package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "golang.org/x/image/tiff"

	"github.com/wudi/idkit/collect"
	"github.com/wudi/idkit/config"
	"github.com/wudi/idkit/extract"
	"github.com/wudi/idkit/observability"
	"github.com/wudi/idkit/observability/zaplog"
	_ "github.com/wudi/idkit/ocr/tesseract"
	"github.com/wudi/idkit/report"
)

type options struct {
	imagePaths []string
	configPath string
	scriptPath string
	format     string
	verbose    bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "idextract: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "idextract: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: idextract [flags] <image> [variant-image...]\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Variant images are progressively preprocessed copies of the first image.\n")
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "Configuration file (YAML)")
	scriptPath := flag.String("rules", "", "JavaScript rule file applied after extraction")
	format := flag.String("format", "json", "Output format: json, markdown or html")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing image path")
	}
	opts.imagePaths = flag.Args()
	opts.configPath = *configPath
	opts.scriptPath = *scriptPath
	opts.format = *format
	opts.verbose = *verbose

	switch opts.format {
	case "json", "markdown", "html":
	default:
		return options{}, fmt.Errorf("unknown format %q", opts.format)
	}
	return opts, nil
}

func run(opts options) error {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	log, err := newLogger(cfg.Log, opts.verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	extractorOpts := []extract.ExtractorOption{
		extract.WithLogger(log),
		extract.WithConfig(cfg),
	}
	if opts.scriptPath != "" {
		script, err := os.ReadFile(opts.scriptPath)
		if err != nil {
			return fmt.Errorf("read rules %s: %w", opts.scriptPath, err)
		}
		extractorOpts = append(extractorOpts, extract.WithRuleScript(string(script)))
	}

	variants, err := loadVariants(opts.imagePaths)
	if err != nil {
		return err
	}

	engine := extract.New(extractorOpts...)
	rec, err := engine.Extract(context.Background(), variants)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	switch opts.format {
	case "json":
		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		fmt.Println(string(out))
	case "markdown":
		fmt.Print(report.Markdown(rec))
	case "html":
		html, err := report.HTML(rec)
		if err != nil {
			return err
		}
		fmt.Print(html)
	}
	return nil
}

func newLogger(cfg config.LogConfig, verbose bool) (observability.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development || verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return zaplog.New(l), nil
}

func loadVariants(paths []string) ([]collect.Variant, error) {
	variants := make([]collect.Variant, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		variants = append(variants, collect.Variant{Name: name, Image: img})
	}
	return variants, nil
}
