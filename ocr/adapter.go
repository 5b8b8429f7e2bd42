package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// InputOption mutates an OCR input generated from an image.
type InputOption func(*Input)

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithRegion sets the recognition region on the OCR input.
func WithRegion(region Region) InputOption {
	return func(in *Input) {
		if region.IsEmpty() {
			in.Region = nil
			return
		}
		in.Region = &region
	}
}

// WithDPI overrides the DPI value on the OCR input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// InputFromImage converts a decoded image into an OCR input using PNG
// encoding. The ID should be stable for the (variant, pass) pair so results
// can be correlated with the observation that produced them.
func InputFromImage(id string, img image.Image, opts ...InputOption) (Input, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Input{}, fmt.Errorf("encode image %s: %w", id, err)
	}
	in := Input{
		ID:     id,
		Image:  buf.Bytes(),
		Format: ImageFormatPNG,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in, nil
}
