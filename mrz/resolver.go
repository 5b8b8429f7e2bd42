package mrz

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/wudi/idkit/observability"
	"github.com/wudi/idkit/ocr"
)

const whitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789<"

// Resolver extracts an MRZ record from a document image. A specialized
// decoder runs first when configured; the OCR fallback takes over when the
// decoder is absent, fails, or finds nothing, unless it has been disabled.
type Resolver struct {
	decoder  Decoder
	engine   ocr.Engine
	log      observability.Logger
	fallback bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDecoder installs a specialized MRZ decoder tried before the fallback.
func WithDecoder(d Decoder) Option {
	return func(r *Resolver) { r.decoder = d }
}

// WithEngine sets the OCR engine used by the fallback pass.
func WithEngine(engine ocr.Engine) Option {
	return func(r *Resolver) { r.engine = engine }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log observability.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithFallback toggles the band-location OCR fallback, enabled by default.
// With it disabled, resolution is limited to the specialized decoder.
func WithFallback(enabled bool) Option {
	return func(r *Resolver) { r.fallback = enabled }
}

// NewResolver constructs a Resolver. Without options it uses no specialized
// decoder and the library's default OCR engine.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		engine:   ocr.DefaultEngine(),
		log:      observability.NopLogger{},
		fallback: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces the MRZ record for one image. It never returns an error:
// decode failures are recorded in the Method field and an empty Text marks a
// record that contributes nothing downstream.
func (r *Resolver) Resolve(ctx context.Context, img image.Image) Record {
	rec := Record{Method: MethodNone}

	if r.decoder != nil {
		rec = r.resolveWithDecoder(ctx, img, rec)
	}
	if rec.Text == "" && r.fallback {
		rec = r.resolveWithFallback(ctx, img, rec)
	}
	return rec
}

func (r *Resolver) resolveWithDecoder(ctx context.Context, img image.Image, rec Record) Record {
	decoded, err := r.decoder.Decode(ctx, img)
	if err != nil {
		r.log.Error("mrz decoder failed", observability.String("decoder", r.decoder.Name()), observability.Error("err", err))
		rec.Method = MethodDecoderFailed
		return rec
	}
	if decoded.Text == "" {
		return rec
	}

	rec.Text = decoded.Text
	rec.Method = MethodDecoder
	rec.PassportNumber = decoded.DocumentNumber
	rec.Nationality = decoded.Nationality
	rec.Sex = decoded.Sex
	rec.Names = decoded.Names
	rec.DocumentType = decoded.DocumentType
	rec.IssuingCountry = decoded.IssuingCountry
	if formatted, ok := FormatYYMMDD(decoded.DateOfBirth); ok {
		rec.DateOfBirth = formatted
	}
	if formatted, ok := FormatYYMMDD(decoded.DateOfExpiry); ok {
		rec.DateOfExpiry = formatted
	}
	rec.Confidence = confidence(rec)
	r.log.Info("mrz decoded", observability.String("method", string(rec.Method)), observability.Float64("confidence", rec.Confidence))
	return rec
}

func (r *Resolver) resolveWithFallback(ctx context.Context, img image.Image, rec Record) Record {
	band := locateBand(img)
	if band == nil {
		r.log.Warn("mrz band not found")
		return rec
	}
	text, err := r.readBand(ctx, band)
	if err != nil {
		r.log.Error("mrz fallback failed", observability.Error("err", err))
		rec.Method = MethodFallbackFailed
		return rec
	}
	if text == "" {
		return rec
	}

	rec.Text = text
	rec.Method = MethodFallback
	parseTD3(text, &rec)
	rec.Confidence = confidence(rec)
	r.log.Info("mrz decoded", observability.String("method", string(rec.Method)), observability.Float64("confidence", rec.Confidence))
	return rec
}

// readBand OCRs the prepared MRZ crop with the TD3 character whitelist and a
// uniform-block segmentation assumption.
func (r *Resolver) readBand(ctx context.Context, band *image.Gray) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, band); err != nil {
		return "", fmt.Errorf("encode mrz band: %w", err)
	}
	in := ocr.Input{ID: "mrz_band", Image: buf.Bytes(), Format: ocr.ImageFormatPNG}
	ocr.WithTesseractPSM(6)(&in)
	ocr.WithTesseractWhitelist(whitelist)(&in)

	res, err := r.engine.Recognize(ctx, in)
	if err != nil {
		return "", fmt.Errorf("ocr mrz band: %w", err)
	}
	return cleanLines(res.PlainText), nil
}
