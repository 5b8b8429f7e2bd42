package extract

import (
	"strings"

	"github.com/wudi/idkit/collect"
	"github.com/wudi/idkit/observability"
	"github.com/wudi/idkit/patterns"
)

// session carries one request's extraction state: the ordered observations,
// their concatenation, and the token confidence table. Sessions are never
// shared across requests; the catalog is the only shared input and is
// read-only.
type session struct {
	id           string
	catalog      *patterns.Catalog
	observations []collect.Observation
	combined     string
	confidences  *collect.TokenConfidences
	log          observability.Logger
}

func newSession(id string, catalog *patterns.Catalog, obs []collect.Observation, confs *collect.TokenConfidences, log observability.Logger) *session {
	texts := make([]string, len(obs))
	for i, o := range obs {
		texts[i] = o.Text
	}
	return &session{
		id:           id,
		catalog:      catalog,
		observations: obs,
		combined:     strings.Join(texts, "\n"),
		confidences:  confs,
		log:          log,
	}
}
