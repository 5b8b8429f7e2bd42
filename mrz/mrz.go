// Package mrz resolves the Machine-Readable Zone of an identity document
// into a structured record. It prefers a pluggable specialized decoder and
// falls back to locating the MRZ band geometrically and reading it with a
// character-whitelisted OCR pass. Checksum digits present in the MRZ are
// parsed positionally and never validated; that is a documented limitation
// carried over deliberately, not an oversight to fix silently.
package mrz

import (
	"context"
	"image"
)

// Method identifies how the MRZ record was obtained. The string values are
// part of the output contract consumed by downstream systems.
type Method string

const (
	MethodNone           Method = "none"
	MethodDecoder        Method = "fastmrz"
	MethodDecoderFailed  Method = "fastmrz_failed"
	MethodFallback       Method = "fallback_ocr"
	MethodFallbackFailed Method = "fallback_failed"
)

// Record is the structured MRZ result. Produced once per request and never
// mutated after creation; empty strings mean the field was not recovered.
// Dates are formatted DD-MM-YYYY.
type Record struct {
	Text           string
	PassportNumber string
	Nationality    string
	DateOfBirth    string
	DateOfExpiry   string
	Sex            string
	Names          string
	DocumentType   string
	IssuingCountry string
	Confidence     float64
	Method         Method
}

// coreFields is the field count the confidence fraction is computed over.
const coreFields = 6

// confidence scores a record by completeness: the fraction of the six core
// fields populated, plus 0.2 when any MRZ text was obtained and 0.1 when the
// primary decoder (not the OCR fallback) produced it, capped at 1.0.
func confidence(r Record) float64 {
	filled := 0
	for _, v := range []string{r.PassportNumber, r.Nationality, r.DateOfBirth, r.DateOfExpiry, r.Sex, r.Names} {
		if v != "" {
			filled++
		}
	}
	score := float64(filled) / coreFields
	if r.Text != "" {
		score += 0.2
	}
	if r.Method == MethodDecoder {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Decoded is the raw output of a specialized MRZ decoder. Dates are in the
// MRZ's native YYMMDD form; the resolver formats them.
type Decoded struct {
	Text           string
	DocumentNumber string
	Nationality    string
	DateOfBirth    string
	DateOfExpiry   string
	Sex            string
	Names          string
	DocumentType   string
	IssuingCountry string
}

// Decoder is an optional MRZ-specialized decoder. A Decoded with empty Text
// means the decoder found no MRZ; errors are recorded, not propagated.
type Decoder interface {
	Name() string
	Decode(ctx context.Context, img image.Image) (Decoded, error)
}
