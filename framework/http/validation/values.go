package validation

import (
	"fmt"
	"strconv"
)

// Values is a read-only snapshot of every field's current value, keyed by
// field name. Values are strings or bools; anything else is compared by its
// fmt representation.
type Values map[string]any

// String returns the value of name as a string. Missing values are "".
func (v Values) String(name string) string {
	switch val := v[name].(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// Bool returns the value of name when it is a boolean. Missing or
// non-boolean values are false.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Without returns a copy of v with the named keys removed.
func (v Values) Without(names ...string) Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	for _, n := range names {
		delete(out, n)
	}
	return out
}

// value is a field's value after missing entries have been filled in.
type value struct {
	str    string
	b      bool
	isBool bool
}

func (v Values) lookup(f *FieldSchema) value {
	raw, ok := v[f.Name]
	if !ok || raw == nil {
		if f.Type == TypeCheckbox {
			return value{str: "false", isBool: true}
		}
		return value{}
	}
	if b, ok := raw.(bool); ok {
		return value{str: strconv.FormatBool(b), b: b, isBool: true}
	}
	return value{str: v.String(f.Name)}
}

func (val value) empty() bool {
	if val.isBool {
		return !val.b
	}
	return val.str == ""
}
