package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/wudi/idkit/observability"
)

// The extractors below run in a fixed order (see pipeline in extractor.go);
// later extractors may rely on fields set earlier. Each is a transformation
// of the draft record: failure leaves the field null and logs a diagnostic,
// never an error.

var (
	passportShape = regexp.MustCompile(`^[A-Z]?[0-9]{8,9}$`)
	nationalShape = regexp.MustCompile(`^\d{3}-\d{4}-\d{4,5}$`)
	idSeparators  = regexp.MustCompile(`[\s.]`)
	arabicTail    = regexp.MustCompile(`\s*/\s*[\x{0600}-\x{06FF}\s]+`)
)

// extractPassportNumber walks observations in order and patterns in order;
// the first candidate surviving normalization and the shape check wins. OCR
// passes are ordered from most to least reliable, so earlier observations
// take precedence by construction.
func extractPassportNumber(s *session, rec *Record) {
	for _, obs := range s.observations {
		for _, re := range s.catalog.PassportNumber {
			for _, m := range re.FindAllStringSubmatch(obs.Text, -1) {
				candidate := m[0]
				if len(m) > 1 {
					candidate = m[1]
				}
				candidate = strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(candidate, "O", "0"), " ", ""))
				if passportShape.MatchString(candidate) {
					rec.Set(FieldPassportNumber, candidate)
					rec.SetMethod(FieldPassportNumber, obs.Source)
					rec.SetConfidence(FieldPassportNumber, s.dynamicConfidence(candidate, basePassportNumber))
					return
				}
			}
		}
	}
	s.log.Warn("passport number could not be extracted")
}

// extractNationalID searches the combined text; separators are normalized
// to hyphens before the shape check.
func extractNationalID(s *session, rec *Record) {
	for _, re := range s.catalog.NationalID {
		for _, m := range re.FindAllStringSubmatch(s.combined, -1) {
			candidate := m[0]
			if len(m) > 1 {
				candidate = m[1]
			}
			candidate = idSeparators.ReplaceAllString(candidate, "-")
			if nationalShape.MatchString(candidate) {
				rec.Set(FieldNationalID, candidate)
				rec.SetConfidence(FieldNationalID, s.dynamicConfidence(candidate, baseNationalID))
				return
			}
		}
	}
	s.log.Warn("national id could not be extracted")
}

// extractDates collects every valid date in text-occurrence order and
// assigns them positionally: first to birth, second to issue, last (when
// three or more were found) to expiry. Positional, not chronological,
// assignment is a compatibility requirement; it can misassign on layouts
// that print the fields in a different order.
func extractDates(s *session, rec *Record) {
	// The patterns in the family cover one separator style each, so matches
	// are gathered with their byte offsets and re-sorted into text order
	// before assignment. Mixed-separator documents depend on this.
	type span struct {
		pos  int
		text string
	}
	var spans []span
	for _, re := range s.catalog.Date {
		for _, loc := range re.FindAllStringIndex(s.combined, -1) {
			spans = append(spans, span{pos: loc[0], text: s.combined[loc[0]:loc[1]]})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].pos < spans[j].pos })

	var valid []string
	for _, sp := range spans {
		if day, month, year, ok := ParseDate(sp.text); ok {
			valid = append(valid, FormatDate(day, month, year))
		}
	}
	if len(valid) == 0 {
		s.log.Warn("no valid dates found")
		return
	}
	rec.Set(FieldDateOfBirth, valid[0])
	rec.SetConfidence(FieldDateOfBirth, s.dynamicConfidence(valid[0], baseDateOfBirth))
	if len(valid) >= 2 {
		rec.Set(FieldDateOfIssue, valid[1])
		rec.SetConfidence(FieldDateOfIssue, s.dynamicConfidence(valid[1], baseDateOfIssue))
	}
	if len(valid) >= 3 {
		last := valid[len(valid)-1]
		rec.Set(FieldDateOfExpiry, last)
		rec.SetConfidence(FieldDateOfExpiry, s.dynamicConfidence(last, baseDateOfExpiry))
	}
}

// extractName collects candidates from every observation and pattern,
// filters out boilerplate and implausible lengths, and keeps the longest
// survivor: the longest candidate is the most complete rendition of a
// multi-part name.
func extractName(s *session, rec *Record) {
	var candidates []string
	sources := make(map[string]string)
	for _, obs := range s.observations {
		for _, re := range s.catalog.Name {
			for _, m := range re.FindAllStringSubmatch(obs.Text, -1) {
				name := m[0]
				if len(m) > 1 {
					name = strings.Join(m[1:], " ")
				}
				name = strings.ToUpper(strings.TrimSpace(name))
				if name == "" || s.catalog.ContainsStopWord(name) {
					continue
				}
				if len(name) < 10 || len(name) > 60 {
					continue
				}
				candidates = append(candidates, name)
				if _, seen := sources[name]; !seen {
					sources[name] = obs.Source
				}
			}
		}
	}
	if len(candidates) == 0 {
		s.log.Warn("name could not be extracted")
		return
	}
	best := longest(candidates)
	rec.Set(FieldFullName, best)
	rec.SetMethod(FieldFullName, sources[best])
	rec.SetConfidence(FieldFullName, s.dynamicConfidence(best, baseFullName))
}

// extractSex tries the bilingual label/value patterns in order and accepts
// the first capturing group whose first rune uppercases to exactly M or F.
// Patterns whose first group captured the Arabic word instead fall through
// to the next pattern.
func extractSex(s *session, rec *Record) {
	for _, re := range s.catalog.Sex {
		m := re.FindStringSubmatch(s.combined)
		if m == nil {
			continue
		}
		value := m[0]
		if len(m) > 1 {
			value = m[1]
		}
		if value == "" {
			continue
		}
		first := strings.ToUpper(string([]rune(value)[0]))
		if first == "M" || first == "F" {
			rec.Set(FieldSex, first)
			rec.SetMethod(FieldSex, "regex_search")
			rec.SetConfidence(FieldSex, s.dynamicConfidence(first, baseSex))
			return
		}
	}
	s.log.Warn("sex could not be extracted")
}

func extractPlaceOfBirth(s *session, rec *Record) {
	extractPlace(s, rec, s.catalog.BirthPlace, FieldPlaceOfBirth, basePlaceOfBirth)
}

func extractPlaceOfIssue(s *session, rec *Record) {
	extractPlace(s, rec, s.catalog.IssuePlace, FieldPlaceOfIssue, basePlaceOfIssue)
}

// extractPlace is the shared label/value strategy for place fields. Place
// labels are short and repeat verbatim across OCR passes, so the most
// frequent exact candidate beats both first-match and longest-match here.
func extractPlace(s *session, rec *Record, res []*regexp.Regexp, field Field, base float64) {
	var candidates []string
	for _, obs := range s.observations {
		for _, re := range res {
			for _, m := range re.FindAllStringSubmatch(obs.Text, -1) {
				candidate := strings.TrimSpace(m[2])
				// A trailing non-Latin segment is the parallel-language
				// transliteration; only the Latin value is kept.
				candidate = arabicTail.ReplaceAllString(candidate, "")
				candidate = strings.ToUpper(strings.TrimSpace(strings.SplitN(candidate, "\n", 2)[0]))
				if len(candidate) <= 3 || len(candidate) >= 25 {
					continue
				}
				if s.catalog.IsStopWord(candidate) {
					continue
				}
				candidates = append(candidates, candidate)
				s.log.Debug("place candidate",
					observability.String("field", string(field)),
					observability.String("candidate", candidate),
					observability.String("source", obs.Source))
			}
		}
	}
	if len(candidates) == 0 {
		s.log.Warn("place could not be extracted", observability.String("field", string(field)))
		return
	}
	best := mostFrequent(candidates)
	rec.Set(field, best)
	rec.SetMethod(field, "regex_candidate_selection")
	rec.SetConfidence(field, s.dynamicConfidence(best, base))
}

// extractNationality does a substring scan of the indicator table over the
// uppercased combined text. A hit sets the nationality together with its
// bundled country code and document type.
func extractNationality(s *session, rec *Record) {
	text := strings.ToUpper(s.combined)
	for _, rule := range s.catalog.Nationalities {
		for _, indicator := range rule.Indicators {
			// Arabic indicators pass through ToUpper unchanged, so one
			// uppercased haystack serves both scripts.
			if !strings.Contains(text, strings.ToUpper(indicator)) {
				continue
			}
			rec.Set(FieldNationality, rule.Nationality)
			rec.Set(FieldCountryCode, rule.CountryCode)
			rec.Set(FieldPassportType, rule.DocumentType)
			rec.SetConfidence(FieldNationality, nationalityConfidence)
			return
		}
	}
	s.log.Warn("nationality could not be extracted")
}
