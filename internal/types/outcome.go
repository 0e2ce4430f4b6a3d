package types

// FailureKind classifies why a document produced no result.
type FailureKind string

// Failure kinds written to errors.json.
const (
	FailureUnsupportedFormat FailureKind = "unsupported_format"
	FailureCorruptDocument   FailureKind = "corrupt_document"
	FailureEmptyDocument     FailureKind = "empty_document"
	FailureReadError         FailureKind = "read_error"
	FailureOutputError       FailureKind = "output_error"
	FailureUnknown           FailureKind = "unknown"
)

// FieldStatus is the per-field result of one coordinator run.
type FieldStatus string

// Field statuses.
const (
	FieldFound  FieldStatus = "found"
	FieldAbsent FieldStatus = "absent"
	FieldFailed FieldStatus = "failed"
)

// FieldDiagnostic records how one field was resolved for one document.
type FieldDiagnostic struct {
	Field    string      `json:"field"`
	Status   FieldStatus `json:"status"`
	Strategy string      `json:"strategy,omitempty"` // strategy that produced the value
	Error    string      `json:"error,omitempty"`    // terminal hard failure, if any
}

// Outcome is the result of running the document pipeline on one file:
// either a success carrying ResumeData or a failure carrying an error.
type Outcome struct {
	path        string
	data        *ResumeData
	diagnostics []FieldDiagnostic
	kind        FailureKind
	err         error
}

// Success builds a successful outcome.
func Success(path string, data *ResumeData, diagnostics []FieldDiagnostic) Outcome {
	return Outcome{path: path, data: data, diagnostics: diagnostics}
}

// Failure builds a failed outcome. An empty kind becomes FailureUnknown.
func Failure(path string, kind FailureKind, err error) Outcome {
	if kind == "" {
		kind = FailureUnknown
	}
	return Outcome{path: path, kind: kind, err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool { return o.data != nil }

// Path returns the source path the outcome belongs to.
func (o Outcome) Path() string { return o.path }

// Data returns the extracted data; nil for failures.
func (o Outcome) Data() *ResumeData { return o.data }

// Diagnostics returns the per-field report of a success.
func (o Outcome) Diagnostics() []FieldDiagnostic { return o.diagnostics }

// FailedFields returns diagnostics whose status is FieldFailed.
func (o Outcome) FailedFields() []FieldDiagnostic {
	var out []FieldDiagnostic
	for _, d := range o.diagnostics {
		if d.Status == FieldFailed {
			out = append(out, d)
		}
	}
	return out
}

// Err returns the failure cause; nil for successes.
func (o Outcome) Err() error { return o.err }

// Kind returns the failure classification; empty for successes.
func (o Outcome) Kind() FailureKind { return o.kind }

// ErrorDescription returns the failure message, or "" for successes.
func (o Outcome) ErrorDescription() string {
	if o.OK() {
		return ""
	}
	if o.err == nil {
		return "unknown error"
	}
	return o.err.Error()
}
