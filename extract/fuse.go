package extract

import "github.com/wudi/idkit/mrz"

// fuseMRZ merges the MRZ record into the draft. Each MRZ field overrides the
// pattern-extracted value only when the field is still empty or the MRZ
// confidence strictly exceeds the recorded confidence; ties keep the pattern
// value. The MRZ block on the record is always set so callers can audit the
// zone even when nothing was overridden.
func fuseMRZ(rec *Record, m mrz.Record) {
	rec.MRZText = m.Text
	rec.MRZConfidence = m.Confidence
	rec.MRZMethod = string(m.Method)
	rec.mrzRan = true

	fuse := func(f Field, value string) {
		if value == "" {
			return
		}
		if _, ok := rec.Value(f); ok && m.Confidence <= rec.Confidence(f) {
			return
		}
		rec.Set(f, value)
		rec.SetConfidence(f, m.Confidence)
		rec.SetMethod(f, string(m.Method))
	}

	fuse(FieldPassportNumber, m.PassportNumber)
	fuse(FieldNationality, m.Nationality)
	fuse(FieldDateOfBirth, m.DateOfBirth)
	fuse(FieldDateOfExpiry, m.DateOfExpiry)
	fuse(FieldSex, m.Sex)
	fuse(FieldFullName, m.Names)
	fuse(FieldCountryCode, m.IssuingCountry)
}
