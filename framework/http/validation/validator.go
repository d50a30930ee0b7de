package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// ── Validation ───────────────────────────────────────────────────────────────

// Validate checks every field of schema against values and returns one entry
// per field. Rules run in declared order and stop at the first failure for
// that field; other fields are still checked. Missing values count as ""
// (false for checkbox fields).
//
//	res := validation.Validate(signup, validation.Values{
//	    "email":     "x@y.com",
//	    "agreement": true,
//	})
//	if res.Fails() { ... res.Status("password") ... }
func Validate(schema *FormSchema, values Values) Result {
	res := newResult(len(schema.fields))
	for i := range schema.fields {
		f := &schema.fields[i]
		res.set(f.Name, check(f, values))
	}
	return res
}

// ValidateField checks a single field, e.g. on blur. values must still hold
// the whole form so cross-field rules can see their siblings. ok is false if
// the schema has no such field.
func ValidateField(schema *FormSchema, name string, values Values) (res Result, ok bool) {
	i, ok := schema.index[name]
	if !ok {
		return Result{}, false
	}
	f := &schema.fields[i]
	res = newResult(1)
	res.set(f.Name, check(f, values))
	return res, true
}

// check returns the kind of the first failing rule, or "".
func check(f *FieldSchema, values Values) Kind {
	val := values.lookup(f)
	for i := range f.Rules {
		if !passes(&f.Rules[i], val, values) {
			return f.Rules[i].Kind
		}
	}
	return ""
}

// passes reports whether val satisfies r.
func passes(r *Rule, val value, values Values) bool {
	switch r.Kind {
	case KindRequired:
		return !val.empty()

	case KindEmail:
		return !val.isBool && isEmail(val.str)

	case KindMinLength:
		return utf8.RuneCountInString(val.str) >= r.Bound

	case KindMaxLength:
		return utf8.RuneCountInString(val.str) <= r.Bound

	case KindPattern:
		if r.re == nil {
			return false
		}
		ok, err := r.re.MatchString(val.str)
		return err == nil && ok

	case KindEqualsField:
		return val.str == values.String(r.Field)

	case KindMustBeTrue:
		return val.isBool && val.b
	}

	return false
}

// isEmail accepts a bare ASCII local-part@domain address whose domain has
// at least one dot and no empty or hyphen-edged labels.
func isEmail(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	if !strings.Contains(domain, ".") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" || label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
	}
	return true
}
