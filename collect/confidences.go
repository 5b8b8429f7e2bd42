package collect

import "strings"

type tokenEntry struct {
	tokens []string
	confs  []float64
}

// TokenConfidences is the per-request side table of raw OCR tokens and their
// engine-reported confidences (0-100), keyed by image variant. It is filled
// by the confidence-annotated pass and read by the confidence model; it is
// used only for confidence estimation, never for value extraction. The table
// belongs to one extraction session and must not be shared across requests.
type TokenConfidences struct {
	entries map[string]tokenEntry
	order   []string
}

// NewTokenConfidences returns an empty table.
func NewTokenConfidences() *TokenConfidences {
	return &TokenConfidences{entries: make(map[string]tokenEntry)}
}

// Add records the token/confidence arrays for one variant. Both slices are
// copied; they must be the same length.
func (t *TokenConfidences) Add(key string, tokens []string, confs []float64) {
	if _, exists := t.entries[key]; !exists {
		t.order = append(t.order, key)
	}
	t.entries[key] = tokenEntry{
		tokens: append([]string(nil), tokens...),
		confs:  append([]float64(nil), confs...),
	}
}

// Len returns the number of variants with recorded tokens.
func (t *TokenConfidences) Len() int { return len(t.entries) }

// Corroborate scans every recorded token across all variants and returns the
// positive confidences of tokens whose uppercased text exactly matches one of
// the given words. Iteration order is insertion order, so results are
// deterministic for a fixed collection run.
func (t *TokenConfidences) Corroborate(words []string) []float64 {
	if len(words) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(words))
	for _, w := range words {
		want[strings.ToUpper(w)] = struct{}{}
	}
	var out []float64
	for _, key := range t.order {
		e := t.entries[key]
		for i, tok := range e.tokens {
			tok = strings.ToUpper(strings.TrimSpace(tok))
			if tok == "" {
				continue
			}
			if _, ok := want[tok]; ok && e.confs[i] > 0 {
				out = append(out, e.confs[i])
			}
		}
	}
	return out
}
