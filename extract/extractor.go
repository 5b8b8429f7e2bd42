package extract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wudi/idkit/collect"
	"github.com/wudi/idkit/config"
	"github.com/wudi/idkit/mrz"
	"github.com/wudi/idkit/observability"
	"github.com/wudi/idkit/ocr"
	"github.com/wudi/idkit/patterns"
	"github.com/wudi/idkit/scripting"
)

// steps is the fixed extraction pipeline. Order matters twice over: passport
// and name extraction depend on observation precedence, and nationality runs
// last among the pattern steps so its indicator scan sees everything.
var steps = []func(*session, *Record){
	extractPassportNumber,
	extractNationalID,
	extractDates,
	extractName,
	extractSex,
	extractPlaceOfBirth,
	extractPlaceOfIssue,
	extractNationality,
}

// Extractor is the top-level engine: one instance serves many concurrent
// Extract calls.
type Extractor struct {
	catalog  *patterns.Catalog
	engine   ocr.Engine
	log      observability.Logger
	tracer   observability.Tracer
	decoder  mrz.Decoder
	script   scripting.Engine
	ruleSrc  string
	fallback bool
	cfg      config.OCRConfig

	collector *collect.Collector
	resolver  *mrz.Resolver
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithEngine sets the OCR engine. Default is the library default engine.
func WithEngine(engine ocr.Engine) ExtractorOption {
	return func(e *Extractor) { e.engine = engine }
}

// WithLogger sets the logger.
func WithLogger(log observability.Logger) ExtractorOption {
	return func(e *Extractor) { e.log = log }
}

// WithTracer sets the tracer.
func WithTracer(tracer observability.Tracer) ExtractorOption {
	return func(e *Extractor) { e.tracer = tracer }
}

// WithCatalog replaces the default pattern catalog.
func WithCatalog(c *patterns.Catalog) ExtractorOption {
	return func(e *Extractor) { e.catalog = c }
}

// WithConfig applies a loaded configuration.
func WithConfig(cfg config.Config) ExtractorOption {
	return func(e *Extractor) {
		e.cfg = cfg.OCR
		e.fallback = cfg.MRZ.FallbackEnabled
	}
}

// WithMRZDecoder installs a specialized MRZ decoder tried before the OCR
// fallback.
func WithMRZDecoder(d mrz.Decoder) ExtractorOption {
	return func(e *Extractor) { e.decoder = d }
}

// WithRuleScript installs a JavaScript rule run against every record after
// fusion. Script failures are logged, never fatal.
func WithRuleScript(script string) ExtractorOption {
	return func(e *Extractor) {
		e.script = scripting.NewEngine()
		e.ruleSrc = script
	}
}

// New constructs an Extractor.
func New(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		catalog:  patterns.Default(),
		engine:   ocr.DefaultEngine(),
		log:      observability.NopLogger{},
		tracer:   observability.NopTracer(),
		fallback: true,
		cfg:      config.Default().OCR,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.collector = collect.NewCollector(e.engine,
		collect.WithLogger(e.log),
		collect.WithThreshold(e.cfg.ConfidenceThreshold),
		collect.WithLanguages(e.cfg.Languages...),
		collect.WithDPI(e.cfg.DPI),
	)
	resolverOpts := []mrz.Option{
		mrz.WithEngine(e.engine),
		mrz.WithLogger(e.log),
		mrz.WithFallback(e.fallback),
	}
	if e.decoder != nil {
		resolverOpts = append(resolverOpts, mrz.WithDecoder(e.decoder))
	}
	e.resolver = mrz.NewResolver(resolverOpts...)
	return e
}

// Extract runs the full pipeline over the supplied image variants: the
// multi-pass observation sweep, the pattern extractors in order, MRZ
// resolution on the first (primary) variant with fusion when a zone was
// read, the optional rule script, then scoring. The first variant should be
// the least-processed rendition; later variants are progressively enhanced
// copies.
func (e *Extractor) Extract(ctx context.Context, variants []collect.Variant) (*Record, error) {
	start := time.Now()
	ctx, span := e.tracer.StartSpan(ctx, "extract")
	defer span.Finish()

	log := e.log.With(observability.String("session", uuid.NewString()))

	observations, confidences, err := e.collector.Collect(ctx, variants)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	log.Info("observations collected",
		observability.Int("observations", len(observations)),
		observability.Int("tokens", confidences.Len()))

	s := newSession(uuid.NewString(), e.catalog, observations, confidences, log)
	rec := NewRecord()
	for _, step := range steps {
		step(s, rec)
	}

	if e.fallback || e.decoder != nil {
		m := e.resolver.Resolve(ctx, variants[0].Image)
		if m.Text != "" {
			log.Info("mrz fused",
				observability.String("method", string(m.Method)),
				observability.Float64("confidence", m.Confidence))
			fuseMRZ(rec, m)
		}
	}

	if e.script != nil {
		if err := e.runScript(ctx, rec); err != nil {
			log.Error("rule script failed", observability.Error("err", err))
		}
	}

	finalizeScore(rec)
	span.SetTag("score", rec.Score)
	log.Info("extraction complete",
		observability.Float64("score", rec.Score),
		observability.String("summary", rec.Summary),
		observability.Float64("duration_ms", float64(time.Since(start).Milliseconds())))
	return rec, nil
}

func (e *Extractor) runScript(ctx context.Context, rec *Record) error {
	if err := e.script.RegisterRecord(rec); err != nil {
		return err
	}
	_, err := e.script.Execute(ctx, e.ruleSrc)
	return err
}
