package extract

import (
	"fmt"
	"math"
)

// finalizeScore derives the aggregate score and the human-readable summary.
// The score is the populated fraction of the nine important fields as a
// percentage; the summary counts over the wider eleven-field checklist, so
// the two can legitimately disagree.
func finalizeScore(rec *Record) {
	populated := 0
	for _, f := range importantFields {
		if _, ok := rec.Value(f); ok {
			populated++
		}
	}
	rec.Score = math.Round(float64(populated)/float64(len(importantFields))*100*100) / 100

	counted := 0
	for _, f := range summaryFields {
		if _, ok := rec.Value(f); ok {
			counted++
		}
	}
	rec.Summary = fmt.Sprintf("%d/%d fields extracted", counted, len(summaryFields))
}
