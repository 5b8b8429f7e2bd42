package ocr

import "context"

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// Region describes a rectangular area in pixel coordinates with the origin in
// the upper-left corner of the image.
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Input encapsulates a single image submitted for OCR.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in the
	// corresponding Result. The extraction pipeline encodes the image variant
	// and pass name here (e.g. "binarized_single_line").
	ID string
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/png).
	Format ImageFormat
	// DPI carries the effective dots-per-inch for the image. Providers such as
	// Tesseract use this for scaling and layout heuristics; zero means unknown.
	DPI int
	// Languages is a list of trained-data hints (e.g., "eng", "ara") that
	// providers can use to select models. Empty means provider default.
	Languages []string
	// Region restricts recognition to a subsection of the image. Nil means the
	// full image should be processed.
	Region *Region
	// Metadata allows callers to pass through engine-specific knobs (e.g.,
	// page segmentation mode for Tesseract) without hard-coding them into the
	// API surface.
	Metadata map[string]string
}

// TextWord represents a single recognized token. Confidence is the engine's
// self-reported certainty normalized to [0,1].
type TextWord struct {
	Text       string
	Bounds     Region
	Confidence float64
}

// TextLine groups words that share a baseline.
type TextLine struct {
	Text       string
	Bounds     Region
	Words      []TextWord
	Confidence float64
}

// TextBlock aggregates lines that form a logical block (paragraph, label/value
// row, MRZ band, etc).
type TextBlock struct {
	Text       string
	Bounds     Region
	Lines      []TextLine
	Confidence float64
}

// Result captures OCR output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// PlainText contains the linearized text extracted from the image.
	PlainText string
	// Blocks carries the structured layout with positional metadata and
	// per-word confidences.
	Blocks []TextBlock
	// Language indicates the dominant language detected, if known.
	Language string
}

// Words flattens the structured blocks into the ordered token stream with
// per-token confidences. Callers that only need the confidence side table
// use this instead of walking the block tree.
func (r Result) Words() []TextWord {
	var words []TextWord
	for _, b := range r.Blocks {
		for _, l := range b.Lines {
			words = append(words, l.Words...)
		}
	}
	return words
}

// Engine is the simplest OCR provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// BatchEngine handles multiple images in a single call, enabling providers
// that amortize setup costs or remote round-trips.
type BatchEngine interface {
	Engine
	RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error)
}
