// Package report renders extraction records into human-readable markdown and
// HTML review documents. The markdown form is the canonical layout; HTML is a
// straight conversion of it for embedding in review tooling.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/wudi/idkit/extract"
)

// fieldLabels maps fields to their report headings, in render order.
var fieldLabels = []struct {
	field extract.Field
	label string
}{
	{extract.FieldPassportType, "Document Type"},
	{extract.FieldCountryCode, "Country Code"},
	{extract.FieldPassportNumber, "Passport Number"},
	{extract.FieldFullName, "Full Name"},
	{extract.FieldNationality, "Nationality"},
	{extract.FieldNationalID, "National ID"},
	{extract.FieldDateOfBirth, "Date of Birth"},
	{extract.FieldDateOfIssue, "Date of Issue"},
	{extract.FieldDateOfExpiry, "Date of Expiry"},
	{extract.FieldSex, "Sex"},
	{extract.FieldPlaceOfBirth, "Place of Birth"},
	{extract.FieldPlaceOfIssue, "Place of Issue"},
}

// Markdown renders the record as a review document: a field table with
// per-field confidence and provenance, the aggregate score, and the MRZ block
// when one was read.
func Markdown(rec *extract.Record) string {
	var b strings.Builder
	b.WriteString("# Extraction Report\n\n")
	fmt.Fprintf(&b, "**Score:** %.2f\n\n", rec.Score)
	fmt.Fprintf(&b, "**Summary:** %s\n\n", rec.Summary)

	b.WriteString("| Field | Value | Confidence | Method |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, fl := range fieldLabels {
		value, ok := rec.Value(fl.field)
		if !ok {
			fmt.Fprintf(&b, "| %s | — | | |\n", fl.label)
			continue
		}
		conf := ""
		if c := rec.Confidence(fl.field); c > 0 {
			conf = fmt.Sprintf("%.2f", c)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", fl.label, value, conf, rec.Method(fl.field))
	}

	if rec.MRZText != "" {
		b.WriteString("\n## Machine-Readable Zone\n\n")
		fmt.Fprintf(&b, "Method: %s, confidence %.2f\n\n", rec.MRZMethod, rec.MRZConfidence)
		b.WriteString("```\n")
		b.WriteString(rec.MRZText)
		b.WriteString("\n```\n")
	}
	return b.String()
}

// HTML converts the markdown report to HTML.
func HTML(rec *extract.Record) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(rec)), &buf); err != nil {
		return "", fmt.Errorf("report: convert markdown: %w", err)
	}
	return buf.String(), nil
}
