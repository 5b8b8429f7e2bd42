// Package extract implements the field-extraction and confidence-fusion
// engine: it turns the ordered observation bag produced by the collector and
// the independently resolved MRZ record into one best-guess value per
// document field, each with a confidence score and a provenance tag.
package extract

import "encoding/json"

// Field names the document fields the engine produces. The string values are
// the keys of the serialized record.
type Field string

const (
	FieldPassportType   Field = "passport_type"
	FieldCountryCode    Field = "country_code"
	FieldPassportNumber Field = "passport_number"
	FieldFullName       Field = "full_name"
	FieldNationality    Field = "nationality"
	FieldPlaceOfBirth   Field = "place_of_birth"
	FieldPlaceOfIssue   Field = "place_of_issue"
	FieldSex            Field = "sex"
	FieldDateOfBirth    Field = "date_of_birth"
	FieldDateOfIssue    Field = "date_of_issue"
	FieldDateOfExpiry   Field = "date_of_expiry"
	FieldNationalID     Field = "national_id"
)

// AllFields lists every field, in serialization order. Every one of these is
// always present as a key in the marshaled record, null when unpopulated.
var AllFields = []Field{
	FieldPassportType, FieldCountryCode, FieldPassportNumber, FieldFullName,
	FieldNationality, FieldPlaceOfBirth, FieldPlaceOfIssue, FieldSex,
	FieldDateOfBirth, FieldDateOfIssue, FieldDateOfExpiry, FieldNationalID,
}

// importantFields is the 9-field list the extraction score is computed over.
var importantFields = []Field{
	FieldPassportNumber, FieldFullName, FieldNationality, FieldDateOfBirth,
	FieldDateOfIssue, FieldDateOfExpiry, FieldSex, FieldPlaceOfBirth,
	FieldPlaceOfIssue,
}

// summaryFields is the 11-field checklist behind the human-readable summary.
// Deliberately distinct from importantFields.
var summaryFields = []Field{
	FieldPassportNumber, FieldFullName, FieldNationality, FieldNationalID,
	FieldDateOfBirth, FieldDateOfIssue, FieldDateOfExpiry, FieldSex,
	FieldPlaceOfBirth, FieldPlaceOfIssue, FieldCountryCode,
}

// Record is the aggregate extraction result for one request. The confidence
// and method maps hold entries only for fields that were actually populated;
// Score and Summary are derived once extraction and fusion finish.
type Record struct {
	values      map[Field]string
	confidences map[Field]float64
	methods     map[Field]string

	Score   float64
	Summary string

	MRZText       string
	MRZConfidence float64
	MRZMethod     string
	mrzRan        bool
}

// NewRecord returns an empty draft record.
func NewRecord() *Record {
	return &Record{
		values:      make(map[Field]string),
		confidences: make(map[Field]float64),
		methods:     make(map[Field]string),
	}
}

// Set stores a field value. Empty values are ignored.
func (r *Record) Set(f Field, value string) {
	if value == "" {
		return
	}
	r.values[f] = value
}

// SetConfidence records the confidence for a populated field.
func (r *Record) SetConfidence(f Field, confidence float64) {
	r.confidences[f] = confidence
}

// SetMethod records the provenance tag for a populated field. The tag is an
// opaque debugging aid, never an input to scoring.
func (r *Record) SetMethod(f Field, method string) {
	r.methods[f] = method
}

// Value returns the field value and whether it is populated.
func (r *Record) Value(f Field) (string, bool) {
	v, ok := r.values[f]
	return v, ok
}

// Confidence returns the recorded confidence, zero when absent.
func (r *Record) Confidence(f Field) float64 {
	return r.confidences[f]
}

// Method returns the recorded provenance tag, empty when absent.
func (r *Record) Method(f Field) string {
	return r.methods[f]
}

// GetField exposes values to the scripting hook by field name.
func (r *Record) GetField(name string) (string, bool) {
	if !validField(Field(name)) {
		return "", false
	}
	return r.Value(Field(name))
}

// SetField updates a field by name on behalf of the scripting hook. An empty
// value clears the field along with its confidence and method, keeping the
// populated-fields invariant intact; otherwise the recorded confidence and
// method are left untouched, since scripts normalize values rather than
// re-score them.
func (r *Record) SetField(name, value string) bool {
	f := Field(name)
	if !validField(f) {
		return false
	}
	if value == "" {
		delete(r.values, f)
		delete(r.confidences, f)
		delete(r.methods, f)
		return true
	}
	r.values[f] = value
	return true
}

func validField(f Field) bool {
	for _, known := range AllFields {
		if known == f {
			return true
		}
	}
	return false
}

// MarshalJSON serializes the flat field map with explicit nulls plus the
// confidence/method sub-maps, the derived score and summary, and the MRZ
// block when an MRZ was obtained.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(AllFields)+6)
	for _, f := range AllFields {
		if v, ok := r.values[f]; ok {
			out[string(f)] = v
		} else {
			out[string(f)] = nil
		}
	}
	conf := make(map[string]float64, len(r.confidences))
	for f, c := range r.confidences {
		conf[string(f)] = c
	}
	methods := make(map[string]string, len(r.methods))
	for f, m := range r.methods {
		methods[string(f)] = m
	}
	out["confidence_scores"] = conf
	out["extraction_method"] = methods
	out["extraction_score"] = r.Score
	out["extraction_summary"] = r.Summary
	if r.mrzRan {
		out["mrz_text"] = r.MRZText
		out["mrz_confidence"] = r.MRZConfidence
		out["mrz_extraction_method"] = r.MRZMethod
	}
	return json.Marshal(out)
}
