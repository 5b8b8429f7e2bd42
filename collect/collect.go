// Package collect gathers raw text observations from identity-document
// images. It drives one OCR engine through several passes per image variant
// (different page-segmentation assumptions, per-language runs, a
// confidence-annotated run, and fixed sub-region runs) and returns the
// ordered observation list the field extractors consume, together with the
// per-token confidence side table used for confidence estimation.
package collect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/wudi/idkit/observability"
	"github.com/wudi/idkit/ocr"
)

// ErrNoInput is returned when the caller supplies no image variants at all.
var ErrNoInput = errors.New("collect: no input images")

// Variant is one named, preprocessed rendition of the document image (e.g.
// "original", "grayscale", "binarized"). Order matters: observations from
// earlier variants take precedence in first-match-wins extractors, so callers
// should list variants from most to least reliable.
type Variant struct {
	Name  string
	Image image.Image
}

// Observation is one text block from one (variant, OCR pass) combination.
// Immutable once produced; the slice of all observations for one request is
// the unit the field extractors operate on.
type Observation struct {
	// Source encodes the variant and pass name, e.g. "binarized_single_line".
	Source string
	// Text is the raw OCR output, untrimmed beyond leading/trailing space.
	Text string
}

// Collector runs the multi-pass observation sweep. It is stateless across
// calls; all per-request state lives in the returned values.
type Collector struct {
	engine    ocr.Engine
	log       observability.Logger
	threshold float64
	languages []string
	dpi       int
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger for pass-level diagnostics.
func WithLogger(log observability.Logger) Option {
	return func(c *Collector) { c.log = log }
}

// WithThreshold sets the token confidence cutoff (0-100) for the synthetic
// high-confidence observation. Default 60.
func WithThreshold(threshold float64) Option {
	return func(c *Collector) { c.threshold = threshold }
}

// WithLanguages sets the per-language pass list. Default eng then ara.
func WithLanguages(langs ...string) Option {
	return func(c *Collector) { c.languages = append([]string(nil), langs...) }
}

// WithDPI sets the DPI hint forwarded to the OCR engine.
func WithDPI(dpi int) Option {
	return func(c *Collector) { c.dpi = dpi }
}

// NewCollector constructs a Collector around the given engine. A nil engine
// selects the library default.
func NewCollector(engine ocr.Engine, opts ...Option) *Collector {
	if engine == nil {
		engine = ocr.DefaultEngine()
	}
	c := &Collector{
		engine:    engine,
		log:       observability.NopLogger{},
		threshold: 60,
		languages: []string{"eng", "ara"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// genericPasses are the full-page segmentation assumptions, ordered from
// most to least reliable for passport layouts.
var genericPasses = []struct {
	name string
	psm  int
}{
	{"standard", 3},
	{"single_column", 4},
	{"uniform_block", 6},
	{"single_line", 7},
}

// regionPasses are fixed geometric crops, as fractions of image size, biased
// toward where passport fields are conventionally printed.
var regionPasses = []struct {
	name                 string
	x0, y0, width, height float64
}{
	{"top_right", 0.4, 0.0, 0.6, 0.4},
	{"center", 0.0, 0.2, 1.0, 0.6},
	{"bottom", 0.0, 0.6, 1.0, 0.4},
}

// Collect runs every pass over every variant in order. A failing pass is
// logged and skipped; only an empty variant list is an error. The returned
// observations preserve (variant, pass) order.
func (c *Collector) Collect(ctx context.Context, variants []Variant) ([]Observation, *TokenConfidences, error) {
	if len(variants) == 0 {
		return nil, nil, ErrNoInput
	}
	var observations []Observation
	table := NewTokenConfidences()

	for _, v := range variants {
		base, err := c.encode(v)
		if err != nil {
			c.log.Error("encode variant failed", observability.String("variant", v.Name), observability.Error("err", err))
			continue
		}
		obs, err := c.collectVariant(ctx, v, base, table)
		if err != nil {
			return nil, nil, err
		}
		observations = append(observations, obs...)
	}
	c.log.Debug("collection complete", observability.Int("observations", len(observations)))
	return observations, table, nil
}

func (c *Collector) encode(v Variant) (ocr.Input, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, v.Image); err != nil {
		return ocr.Input{}, fmt.Errorf("encode %s: %w", v.Name, err)
	}
	return ocr.Input{Image: buf.Bytes(), Format: ocr.ImageFormatPNG, DPI: c.dpi}, nil
}

func (c *Collector) collectVariant(ctx context.Context, v Variant, base ocr.Input, table *TokenConfidences) ([]Observation, error) {
	var observations []Observation
	add := func(pass, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		observations = append(observations, Observation{Source: v.Name + "_" + pass, Text: text})
	}

	for _, p := range genericPasses {
		res, err := c.run(ctx, base, v.Name+"_"+p.name, ocr.WithTesseractPSM(p.psm))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		add(p.name, res.PlainText)
	}

	for _, lang := range c.languages {
		res, err := c.run(ctx, base, v.Name+"_"+lang+"_lang", ocr.WithLanguages(lang))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		add(lang+"_lang", res.PlainText)
	}

	if res, err := c.run(ctx, base, v.Name+"_high_confidence"); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	} else {
		words := res.Words()
		tokens := make([]string, 0, len(words))
		confs := make([]float64, 0, len(words))
		var highConf []string
		for _, w := range words {
			conf := w.Confidence * 100
			tokens = append(tokens, w.Text)
			confs = append(confs, conf)
			if conf > c.threshold && strings.TrimSpace(w.Text) != "" {
				highConf = append(highConf, w.Text)
			}
		}
		table.Add(v.Name, tokens, confs)
		add("high_confidence", strings.Join(highConf, " "))
	}

	bounds := v.Image.Bounds()
	width, height := float64(bounds.Dx()), float64(bounds.Dy())
	for _, r := range regionPasses {
		region := ocr.Region{X: r.x0 * width, Y: r.y0 * height, Width: r.width * width, Height: r.height * height}
		res, err := c.run(ctx, base, v.Name+"_region_"+r.name, ocr.WithTesseractPSM(6), ocr.WithRegion(region))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		add("region_"+r.name, res.PlainText)
	}

	return observations, nil
}

func (c *Collector) run(ctx context.Context, base ocr.Input, id string, opts ...ocr.InputOption) (ocr.Result, error) {
	in := base
	in.ID = id
	in.Metadata = nil
	in.Languages = nil
	in.Region = nil
	for _, opt := range opts {
		opt(&in)
	}
	res, err := c.engine.Recognize(ctx, in)
	if err != nil {
		c.log.Debug("ocr pass failed", observability.String("pass", id), observability.Error("err", err))
		return ocr.Result{}, err
	}
	return res, nil
}
