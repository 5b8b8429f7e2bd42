package mrz

import (
	"math"
	"testing"
)

const (
	sampleLine1 = "P<SDNABOURAS<<KASEM<ABDULSALAM<MOHAMED<<<<<<"
	sampleLine2 = "B000132854SDN8506151M2809095<<<<<<<<<<<<<<06"
)

func TestParseTD3(t *testing.T) {
	rec := Record{}
	parseTD3(sampleLine1+"\n"+sampleLine2, &rec)

	if rec.IssuingCountry != "SDN" {
		t.Fatalf("issuing country = %q", rec.IssuingCountry)
	}
	if rec.DocumentType != "P" {
		t.Fatalf("document type = %q", rec.DocumentType)
	}
	if rec.Names != "KASEM ABDULSALAM MOHAMED ABOURAS" {
		t.Fatalf("names = %q", rec.Names)
	}
	if rec.PassportNumber != "B00013285" {
		t.Fatalf("passport number = %q", rec.PassportNumber)
	}
	if rec.DateOfBirth != "15-06-1985" {
		t.Fatalf("date of birth = %q", rec.DateOfBirth)
	}
	if rec.Sex != "M" {
		t.Fatalf("sex = %q", rec.Sex)
	}
	if rec.DateOfExpiry != "09-09-2028" {
		t.Fatalf("date of expiry = %q", rec.DateOfExpiry)
	}
}

func TestParseTD3ShortSecondLine(t *testing.T) {
	rec := Record{}
	parseTD3(sampleLine1+"\nB0001328", &rec)
	if rec.PassportNumber != "" {
		t.Fatalf("short line 2 must not be sliced: %q", rec.PassportNumber)
	}
	if rec.Names == "" {
		t.Fatalf("line 1 should still parse")
	}
}

func TestFormatYYMMDDCenturyCutoff(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"850615", "15-06-1985"},
		{"050101", "01-01-2005"},
		{"291231", "31-12-2029"},
		{"300101", "01-01-1930"},
	}
	for _, tc := range cases {
		got, ok := FormatYYMMDD(tc.in)
		if !ok || got != tc.want {
			t.Fatalf("FormatYYMMDD(%q) = %q, %v; want %q", tc.in, got, ok, tc.want)
		}
	}
}

func TestFormatYYMMDDRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "85061", "8506155", "851315", "850632", "85a615", "<<<<<<"} {
		if got, ok := FormatYYMMDD(in); ok {
			t.Fatalf("FormatYYMMDD(%q) = %q, want rejection", in, got)
		}
	}
}

func TestConfidenceBonuses(t *testing.T) {
	empty := Record{}
	if got := confidence(empty); got != 0 {
		t.Fatalf("empty record confidence = %v", got)
	}

	textOnly := Record{Text: "P<..."}
	if got := confidence(textOnly); got != 0.2 {
		t.Fatalf("text-only confidence = %v", got)
	}

	half := Record{Text: "x", PassportNumber: "B00013285", Sex: "M", Names: "A B", Method: MethodDecoder}
	// 3/6 fields + 0.2 text + 0.1 primary decoder.
	if got := confidence(half); math.Abs(got-0.8) > 1e-9 {
		t.Fatalf("half-filled confidence = %v", got)
	}

	full := Record{
		Text: "x", PassportNumber: "B00013285", Nationality: "SDN",
		DateOfBirth: "15-06-1985", DateOfExpiry: "09-09-2028", Sex: "M",
		Names: "A B", Method: MethodDecoder,
	}
	if got := confidence(full); got != 1.0 {
		t.Fatalf("full record must cap at 1.0, got %v", got)
	}
}

func TestCleanLinesDropsShortLines(t *testing.T) {
	text := "NOISE\n" + sampleLine1 + "\n  " + sampleLine2 + "  \nP<"
	got := cleanLines(text)
	want := sampleLine1 + "\n" + sampleLine2
	if got != want {
		t.Fatalf("cleanLines = %q, want %q", got, want)
	}
}
