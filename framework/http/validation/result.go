package validation

import "encoding/json"

// Valid is the status of a field that satisfied all of its rules.
const Valid = "valid"

// FieldResult is the outcome for one field. Violation is empty when valid.
type FieldResult struct {
	Field     string `json:"field"`
	Violation Kind   `json:"violation,omitempty"`
}

// Status returns "valid" or the violated rule's kind.
func (f FieldResult) Status() string {
	if f.Violation == "" {
		return Valid
	}
	return string(f.Violation)
}

// Result holds one entry per validated field, in schema order.
type Result struct {
	fields []FieldResult
	index  map[string]int
}

func newResult(n int) Result {
	return Result{
		fields: make([]FieldResult, 0, n),
		index:  make(map[string]int, n),
	}
}

func (r *Result) set(field string, violation Kind) {
	r.index[field] = len(r.fields)
	r.fields = append(r.fields, FieldResult{Field: field, Violation: violation})
}

// Fields returns every entry in schema order.
func (r Result) Fields() []FieldResult {
	out := make([]FieldResult, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of entries.
func (r Result) Len() int { return len(r.fields) }

// Violation returns the violated kind for field, if any.
func (r Result) Violation(field string) (Kind, bool) {
	i, ok := r.index[field]
	if !ok || r.fields[i].Violation == "" {
		return "", false
	}
	return r.fields[i].Violation, true
}

// Status returns "valid" or the violated kind for field. Fields that were
// not validated report "".
func (r Result) Status(field string) string {
	i, ok := r.index[field]
	if !ok {
		return ""
	}
	return r.fields[i].Status()
}

// Failed returns the names of the fields with a violation, in schema order.
func (r Result) Failed() []string {
	var out []string
	for _, f := range r.fields {
		if f.Violation != "" {
			out = append(out, f.Field)
		}
	}
	return out
}

// Passes returns true if every field is valid.
func (r Result) Passes() bool {
	for _, f := range r.fields {
		if f.Violation != "" {
			return false
		}
	}
	return true
}

// Fails returns true if any field has a violation.
func (r Result) Fails() bool { return !r.Passes() }

// Map returns field → status.
func (r Result) Map() map[string]string {
	out := make(map[string]string, len(r.fields))
	for _, f := range r.fields {
		out[f.Field] = f.Status()
	}
	return out
}

// MarshalJSON encodes the result as {"field": "valid" | "<kind>"}.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}
