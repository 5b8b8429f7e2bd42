package extract

import (
	"math"
	"strings"
)

// Base confidences are static per-field priors reflecting how reliable each
// extraction strategy's pattern family generally is.
const (
	basePassportNumber = 0.95
	baseNationalID     = 0.90
	baseDateOfBirth    = 0.85
	baseDateOfIssue    = 0.80
	baseDateOfExpiry   = 0.85
	baseFullName       = 0.85
	baseSex            = 0.95
	basePlaceOfBirth   = 0.85
	basePlaceOfIssue   = 0.80

	// nationalityConfidence is assigned directly; indicator matching has no
	// per-token corroboration to blend against.
	nationalityConfidence = 0.98
)

// Blend weights for corroborated values: the engine's self-reported token
// certainty dominates, the static prior anchors it.
const (
	ocrWeight  = 0.6
	baseWeight = 0.4

	// uncorroboratedPenalty halves the prior when no OCR token anywhere
	// matches the extracted value.
	uncorroboratedPenalty = 0.5
)

// dynamicConfidence ties a field's confidence to independent OCR-engine
// self-reported certainty rather than the pattern family's prior alone. The
// value's whitespace tokens are matched (uppercased, exact) against every
// token in the session's confidence table; matched raw confidences (0-100)
// are averaged, normalized and blended with the prior, clamped to 1.0 and
// rounded to two decimals. A value with no corroborating token anywhere gets
// the halved prior.
func (s *session) dynamicConfidence(value string, base float64) float64 {
	if value == "" || s.confidences == nil {
		return base * uncorroboratedPenalty
	}
	matched := s.confidences.Corroborate(strings.Fields(strings.ToUpper(value)))
	if len(matched) == 0 {
		return base * uncorroboratedPenalty
	}
	var sum float64
	for _, c := range matched {
		sum += c
	}
	avg := sum / float64(len(matched)) / 100.0
	blended := avg*ocrWeight + base*baseWeight
	if blended > 1.0 {
		blended = 1.0
	}
	return math.Round(blended*100) / 100
}
