// Package patterns holds the static pattern catalog for identity-document
// field extraction: ordered regular-expression families per field, plus the
// lexicons (stop words, known places, nationality indicators) the extractors
// use to filter and disambiguate candidates. A Catalog is immutable after
// construction and safe to share across concurrent extraction sessions.
package patterns

import (
	"fmt"
	"regexp"
	"strings"
)

// NationalityRule maps indicator substrings found in OCR text to the bundled
// nationality, ISO country code, and document type they imply.
type NationalityRule struct {
	Indicators   []string
	Nationality  string
	CountryCode  string
	DocumentType string
}

// Catalog is the compiled pattern set. Slice order encodes precedence:
// earlier patterns are tried first and a match short-circuits the rest of the
// family for that extractor invocation.
type Catalog struct {
	PassportNumber []*regexp.Regexp
	NationalID     []*regexp.Regexp
	Date           []*regexp.Regexp
	Name           []*regexp.Regexp
	Sex            []*regexp.Regexp

	// BirthPlace and IssuePlace are label/value patterns built from the
	// bilingual label synonyms below; group 2 captures the place candidate.
	BirthPlace []*regexp.Regexp
	IssuePlace []*regexp.Regexp

	BirthLabels []string
	IssueLabels []string

	// Places is the known-places lexicon. A birth-context pattern built
	// from it is appended to BirthPlace so lexicon entries near birth
	// wording become candidates even without an explicit label.
	Places        []string
	StopWords     []string
	Nationalities []NationalityRule

	stopWordSet map[string]struct{}
}

// New compiles the default catalog. The pattern data targets bilingual
// (English/Arabic) passports; callers with other document families construct
// their own Catalog value with the same shape.
func New() *Catalog {
	c := &Catalog{
		PassportNumber: compileAll(`(?i)`,
			`P\s*[0-9]{8,9}`,
			`P[0-9]{8,9}`,
			`Passport\s*No\.?\s*:?\s*([A-Z0-9]{8,10})`,
			`No\.?\s*:?\s*([A-Z0-9]{8,10})`,
			`([A-Z]{1,2}\s*[0-9]{6,9})`,
			`P\s*O\s*[0-9]{7,9}`,
			`[PD][0-9O]{8,9}`,
			`جواز\s*رقم\s*:?\s*([A-Z0-9]{8,10})`,
			`B[0-9]{8}`,
			`[A-Z][0-9]{8}`,
			`P\s*[0-9]{8}\s*[0-9]?`,
			`[Pp][0-9]{8,9}`,
			`(?:رقم|No\.?)\s*:?\s*([A-Z0-9]{8,10})`,
			`(?:Passport\s*No\.?|رقم\s*الجواز)\s*:?\s*([A-Z][0-9]{8})`,
		),
		NationalID: compileAll(``,
			`\d{3}[-\s]?\d{4}[-\s]?\d{4,5}`,
			`\d{3}\s*[-\s]?\s*\d{4}\s*[-\s]?\s*\d{4,5}`,
			`National\s*No\.?\s*:?\s*(\d{3}[-\s]?\d{4}[-\s]?\d{4,5})`,
			`\d{11,12}`,
			`[0-9]{3}[\s\-.][0-9]{4}[\s\-.][0-9]{4,5}`,
			`الرقم\s*الوطني\s*:?\s*(\d{3}[-\s]?\d{4}[-\s]?\d{4,5})`,
			`(\d{3}-\d{4}-\d{4})`,
			`(?:National\s*No\.?|الرقم\s*الوطني)\s*:?\s*(\d{3}-?\d{4}-?\d{4})`,
		),
		Date: compileAll(``,
			`\d{1,2}\.\d{1,2}\.\d{4}`,
			`\d{1,2}/\d{1,2}/\d{4}`,
			`\d{1,2}-\d{1,2}-\d{4}`,
			`\d{1,2}\s+\d{1,2}\s+\d{4}`,
		),
		Name: compileAll(``,
			`[A-Z]{3,}\s+[A-Z]{3,}(?:\s+[A-Z]{3,})*`,
			`[A-Z][A-Z\s\-']{10,50}`,
			`(?:Name|NAME)\s*:?\s*([A-Z\s]+)`,
			`Full\s*Name\s*:?\s*([A-Z\s]+)`,
			`[A-Z]+(?:\s+[A-Z]+){1,5}`,
			`الاسم\s*:?\s*([A-Z\s]+)`,
			`الاسم\s*الكامل\s*:?\s*([A-Z\s]+)`,
			`([A-Z]{4,}\s+[A-Z]{4,}\s+[A-Z]{4,}\s+[A-Z]{4,})`,
			`(?:Full\s*Name|الاسم\s*الكامل)\s*:?\s*([A-Z\s]{15,50})`,
		),
		Sex: compileAll(`(?is)`,
			`(?:الجنس|Sex)\s*:?\s*(ذكر|أنثى)\s*([MF])`,
			`(?:الجنس|Sex)\s*:?\s*([MF])\s*(ذكر|أنثى)`,
			`(?:الجنس|Sex)\s*:?\s*([MF])/?\s*ذكر`,
			`(?:الجنس|Sex)\s*:?\s*([MF])/?\s*أنثى`,
			`ذكر\s*([MF])`,
			`أنثى\s*([MF])`,
			`([MF])\s*ذكر`,
			`([MF])\s*أنثى`,
		),
		BirthLabels: []string{"Place of Birth", "مكان الميلاد"},
		IssueLabels: []string{"Place of Issue", "Authority", "مكان الإصدار", "جهة الإصدار"},
		Places: []string{
			"KHARTOUM", "OMDURMAN", "BAHRI", "KASSALA", "PORTSUDAN",
			"NYALA", "ELOBEID", "GEDAREF", "WAD MADANI", "KOSTI",
			"ALFASHER", "DAMAZIN", "KADUGLI", "DONGOLA", "ATBARA",
			"SENNAR", "RABAK", "GENEINA", "DILLING", "ALAYYAT",
			"UMM RUWABA", "ZALINGEI", "ALQADARIF", "AD DOUIEM",
			"HALFA", "ALBYNEIA",
			"KUWAIT", "RIYADH", "JEDDAH", "MECCA",
			"SAUDI ARABIA", "SAUDI", "IRAN", "TUNISIA", "ALGERIA",
			"MOROCCO", "LIBYA", "TURKEY", "SYRIA",
			"LEBANON", "JORDAN", "IRAQ", "EGYPT",
			"الخرطوم", "أم درمان", "بحري", "كسلا", "بورتسودان",
			"نيالا", "الأبيض", "القضارف", "ود مدني", "كوستي",
			"الفاشر", "الدمازين", "كادقلي", "دنقلا", "عطبرة",
			"حلفا", "البينية", "الكويت", "الرياض", "جدة", "مكة",
		},
		StopWords: []string{
			"REPUBLIC", "SUDAN", "PASSPORT", "TYPE", "NATIONAL",
			"NUMBER", "DATE", "BIRTH", "ISSUE", "EXPIRY", "SEX",
			"PLACE", "NATIONALITY", "SIGNATURE", "HOLDER", "AUTHORITY",
			"GENDER", "COUNTRY", "CODE", "DOCUMENT", "IDENTIFICATION",
			"جمهورية", "السودان", "جواز", "نوع", "رقم",
			"تاريخ", "ميلاد", "إصدار", "انتهاء", "مكان",
			"SDN",
		},
		Nationalities: []NationalityRule{
			{
				Indicators: []string{
					"SDN", "SUDAN", "REPUBLIC OF SUDAN", "REPUBLIC OF THE SUDAN",
					"السودان", "جمهورية السودان", "SUDANESE", "سوداني",
				},
				Nationality:  "SUDANESE",
				CountryCode:  "SDN",
				DocumentType: "PC",
			},
		},
	}
	c.BirthPlace = append(placePatterns(c.BirthLabels),
		placeContextPattern([]string{"Birth", "Born", "ميلاد", "ولادة"}, c.Places))
	c.IssuePlace = placePatterns(c.IssueLabels)
	c.stopWordSet = make(map[string]struct{}, len(c.StopWords))
	for _, w := range c.StopWords {
		c.stopWordSet[w] = struct{}{}
	}
	return c
}

var defaultCatalog = New()

// Default returns the shared process-wide catalog.
func Default() *Catalog { return defaultCatalog }

// IsStopWord reports whether s is exactly a boilerplate term. Used by the
// place extractors, which compare whole candidates.
func (c *Catalog) IsStopWord(s string) bool {
	_, ok := c.stopWordSet[s]
	return ok
}

// ContainsStopWord reports whether s contains any boilerplate term as a
// substring. Used by the name extractor, where a single embedded label word
// disqualifies the whole candidate.
func (c *Catalog) ContainsStopWord(s string) bool {
	for _, w := range c.StopWords {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// placePatterns builds label/value patterns of the form "label, optional
// separator, then 4-25 uppercase letters/spaces/slash". Group 2 is the value.
func placePatterns(labels []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(labels))
	for _, label := range labels {
		out = append(out, regexp.MustCompile(fmt.Sprintf(`(?is)(%s)\s*[:/]?\s*([A-Z][A-Z\s/]{3,25})`, label)))
	}
	return out
}

// placeContextPattern matches a known place from the lexicon only when one of
// the context words precedes it, disambiguating lexicon hits from incidental
// mentions elsewhere on the page. Group 2 is the place.
func placeContextPattern(words, places []string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?is)(%s)[\s\w]*?:?\s*(%s)`,
		strings.Join(words, "|"), strings.Join(places, "|")))
}

func compileAll(flags string, exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(flags+e))
	}
	return out
}
