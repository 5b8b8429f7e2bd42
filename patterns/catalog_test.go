package patterns

import "testing"

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Fatalf("Default() must return the same catalog instance")
	}
}

func TestPassportNumberPrecedence(t *testing.T) {
	c := New()
	if len(c.PassportNumber) == 0 {
		t.Fatalf("expected passport number patterns")
	}
	// The bare "P + digits" family outranks labeled fallbacks.
	if got := c.PassportNumber[0].String(); got != `(?i)P\s*[0-9]{8,9}` {
		t.Fatalf("unexpected first passport pattern: %s", got)
	}
	if !c.PassportNumber[0].MatchString("P 12345678") {
		t.Fatalf("expected first pattern to match spaced number")
	}
}

func TestStopWordSemantics(t *testing.T) {
	c := New()
	if c.IsStopWord("KHARTOUM") {
		t.Fatalf("place names must not be stop words")
	}
	if !c.IsStopWord("AUTHORITY") {
		t.Fatalf("AUTHORITY should be a stop word")
	}
	// Exact membership: a candidate merely containing a stop word passes.
	if c.IsStopWord("PASSPORT OFFICE") {
		t.Fatalf("exact stop-word check must not match supersets")
	}
	// Substring membership: used for name filtering.
	if !c.ContainsStopWord("ALI PASSPORT HASSAN") {
		t.Fatalf("substring stop-word check should match embedded terms")
	}
}

func TestPlacePatternsCaptureValue(t *testing.T) {
	c := New()
	text := "Place of Birth : KHARTOUM / الخرطوم"
	var got string
	for _, re := range c.BirthPlace {
		if m := re.FindStringSubmatch(text); m != nil {
			got = m[2]
			break
		}
	}
	if got == "" {
		t.Fatalf("expected a birth place match in %q", text)
	}
}

func TestBirthPlaceLexiconContext(t *testing.T) {
	c := New()
	re := c.BirthPlace[len(c.BirthPlace)-1]
	if m := re.FindStringSubmatch("Born in OMDURMAN"); m == nil || m[2] != "OMDURMAN" {
		t.Fatalf("lexicon context pattern did not capture the place: %+v", m)
	}
	// Birth wording is required; a bare lexicon hit is not a candidate.
	if re.MatchString("Issued at OMDURMAN") {
		t.Fatalf("lexicon hit without birth context must not match")
	}
}

func TestSexPatternsBilingual(t *testing.T) {
	c := New()
	cases := []string{"Sex: M ذكر", "الجنس : F أنثى", "ذكر M"}
	for _, text := range cases {
		matched := false
		for _, re := range c.Sex {
			if m := re.FindStringSubmatch(text); m != nil {
				matched = true
				break
			}
		}
		if !matched {
			t.Fatalf("no sex pattern matched %q", text)
		}
	}
}

func TestNationalityTableSeed(t *testing.T) {
	c := New()
	if len(c.Nationalities) == 0 {
		t.Fatalf("expected at least one nationality rule")
	}
	rule := c.Nationalities[0]
	if rule.Nationality != "SUDANESE" || rule.CountryCode != "SDN" || rule.DocumentType != "PC" {
		t.Fatalf("unexpected seed rule: %+v", rule)
	}
}
