package extract

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/wudi/idkit/mrz"
)

func TestFinalizeScore(t *testing.T) {
	rec := NewRecord()
	for _, f := range []Field{
		FieldPassportNumber, FieldFullName, FieldNationality,
		FieldDateOfBirth, FieldSex,
	} {
		rec.Set(f, "x")
	}
	finalizeScore(rec)

	if math.Abs(rec.Score-55.56) > 1e-9 {
		t.Fatalf("score = %v, want 55.56", rec.Score)
	}
	if rec.Summary != "5/11 fields extracted" {
		t.Fatalf("summary = %q", rec.Summary)
	}
}

func TestFinalizeScoreCountsSummaryFieldsSeparately(t *testing.T) {
	rec := NewRecord()
	// national_id and country_code count toward the summary but not the score.
	rec.Set(FieldNationalID, "123-4567-8901")
	rec.Set(FieldCountryCode, "SDN")
	finalizeScore(rec)

	if rec.Score != 0 {
		t.Fatalf("score = %v, want 0", rec.Score)
	}
	if rec.Summary != "2/11 fields extracted" {
		t.Fatalf("summary = %q", rec.Summary)
	}
}

func TestFuseMRZFillsEmptyFields(t *testing.T) {
	rec := NewRecord()
	m := mrz.Record{
		Text:           "P<SDN...",
		PassportNumber: "B00013285",
		Sex:            "M",
		IssuingCountry: "SDN",
		Confidence:     0.7,
		Method:         mrz.MethodFallback,
	}
	fuseMRZ(rec, m)

	if got, _ := rec.Value(FieldSex); got != "M" {
		t.Fatalf("sex = %q, want M", got)
	}
	if got, _ := rec.Value(FieldCountryCode); got != "SDN" {
		t.Fatalf("country code = %q, want SDN", got)
	}
	if c := rec.Confidence(FieldSex); c != 0.7 {
		t.Fatalf("sex confidence = %v, want 0.7", c)
	}
	if m := rec.Method(FieldSex); m != "fallback_ocr" {
		t.Fatalf("sex method = %q, want fallback_ocr", m)
	}
	if rec.MRZText != "P<SDN..." || rec.MRZMethod != "fallback_ocr" {
		t.Fatalf("mrz block not recorded: %q %q", rec.MRZText, rec.MRZMethod)
	}
}

func TestFuseMRZKeepsHigherConfidenceValue(t *testing.T) {
	rec := NewRecord()
	rec.Set(FieldSex, "F")
	rec.SetConfidence(FieldSex, 0.9)
	rec.SetMethod(FieldSex, "regex_search")

	fuseMRZ(rec, mrz.Record{Text: "x", Sex: "M", Confidence: 0.7, Method: mrz.MethodFallback})

	if got, _ := rec.Value(FieldSex); got != "F" {
		t.Fatalf("sex = %q, want pattern value F", got)
	}
	if m := rec.Method(FieldSex); m != "regex_search" {
		t.Fatalf("method = %q, want regex_search", m)
	}
}

func TestFuseMRZOverridesLowerConfidenceValue(t *testing.T) {
	rec := NewRecord()
	rec.Set(FieldPassportNumber, "C11111111")
	rec.SetConfidence(FieldPassportNumber, 0.5)

	fuseMRZ(rec, mrz.Record{Text: "x", PassportNumber: "B00013285", Confidence: 0.95, Method: mrz.MethodDecoder})

	if got, _ := rec.Value(FieldPassportNumber); got != "B00013285" {
		t.Fatalf("passport = %q, want MRZ value", got)
	}
	if c := rec.Confidence(FieldPassportNumber); c != 0.95 {
		t.Fatalf("confidence = %v, want 0.95", c)
	}
}

func TestFuseMRZSkipsEmptyMRZFields(t *testing.T) {
	rec := NewRecord()
	rec.Set(FieldFullName, "KASEM ABOURAS SALAM")
	rec.SetConfidence(FieldFullName, 0.3)

	fuseMRZ(rec, mrz.Record{Text: "x", Confidence: 0.99, Method: mrz.MethodDecoder})

	if got, _ := rec.Value(FieldFullName); got != "KASEM ABOURAS SALAM" {
		t.Fatalf("empty MRZ field must not clear the pattern value, got %q", got)
	}
}

func TestRecordScriptFieldAccess(t *testing.T) {
	rec := NewRecord()
	rec.Set(FieldSex, "M")

	if v, ok := rec.GetField("sex"); !ok || v != "M" {
		t.Fatalf("GetField(sex) = %q, %v", v, ok)
	}
	if _, ok := rec.GetField("full_name"); ok {
		t.Fatal("GetField on unpopulated field should report absent")
	}
	if _, ok := rec.GetField("not_a_field"); ok {
		t.Fatal("GetField on unknown field should report absent")
	}
	if !rec.SetField("full_name", "ALI HASSAN OMAR") {
		t.Fatal("SetField on known field should succeed")
	}
	if rec.SetField("not_a_field", "x") {
		t.Fatal("SetField on unknown field should fail")
	}
}

func TestRecordScriptClearsFieldWithEmptyValue(t *testing.T) {
	rec := NewRecord()
	rec.Set(FieldSex, "M")
	rec.SetConfidence(FieldSex, 0.95)
	rec.SetMethod(FieldSex, "regex_search")

	if !rec.SetField("sex", "") {
		t.Fatal("clearing a known field should succeed")
	}
	if _, ok := rec.Value(FieldSex); ok {
		t.Fatal("cleared field must not stay populated")
	}
	if c := rec.Confidence(FieldSex); c != 0 {
		t.Fatalf("confidence survived the clear: %v", c)
	}
	if m := rec.Method(FieldSex); m != "" {
		t.Fatalf("method survived the clear: %q", m)
	}

	finalizeScore(rec)
	if rec.Score != 0 {
		t.Fatalf("cleared field still counted toward the score: %v", rec.Score)
	}
}

func TestRecordMarshalJSON(t *testing.T) {
	rec := NewRecord()
	rec.Set(FieldPassportNumber, "B00013285")
	rec.SetConfidence(FieldPassportNumber, 0.92)
	rec.SetMethod(FieldPassportNumber, "original_standard")
	finalizeScore(rec)

	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out["passport_number"] != "B00013285" {
		t.Fatalf("passport_number = %v", out["passport_number"])
	}
	if v, present := out["full_name"]; !present || v != nil {
		t.Fatalf("full_name should be an explicit null, got %v (present=%v)", v, present)
	}
	conf, ok := out["confidence_scores"].(map[string]interface{})
	if !ok || conf["passport_number"] != 0.92 {
		t.Fatalf("confidence_scores = %v", out["confidence_scores"])
	}
	methods, ok := out["extraction_method"].(map[string]interface{})
	if !ok || methods["passport_number"] != "original_standard" {
		t.Fatalf("extraction_method = %v", out["extraction_method"])
	}
	if out["extraction_summary"] != "1/11 fields extracted" {
		t.Fatalf("extraction_summary = %v", out["extraction_summary"])
	}
	if _, present := out["mrz_text"]; present {
		t.Fatal("mrz keys must be absent when MRZ never ran")
	}

	fuseMRZ(rec, mrz.Record{Text: "P<SDN", Confidence: 0.5, Method: mrz.MethodFallback})
	raw, err = json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out = map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["mrz_text"] != "P<SDN" || out["mrz_extraction_method"] != "fallback_ocr" {
		t.Fatalf("mrz block = %v / %v", out["mrz_text"], out["mrz_extraction_method"])
	}
}
