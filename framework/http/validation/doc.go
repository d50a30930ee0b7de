// Package validation checks form submissions against declarative schemas.
//
// # Overview
//
// A FormSchema is an ordered list of fields, each with an ordered list of
// rules. Validate runs every field's rules in the declared order and records
// the kind of the first rule that fails; the remaining rules of that field
// are not consulted. Fields are independent, so every field gets an entry.
//
// Violations are data, not errors. The only error this package returns comes
// from NewFormSchema, when a schema is misconfigured.
//
// # Basic Usage
//
//	signup := validation.MustFormSchema("signup",
//	    validation.FieldSchema{Name: "email", Type: validation.TypeEmail,
//	        Rules: []validation.Rule{validation.Required(), validation.Email()}},
//	    validation.FieldSchema{Name: "emailConfirm", Type: validation.TypeEmail,
//	        Rules: []validation.Rule{validation.Required(), validation.Email(),
//	            validation.EqualsField("email")}},
//	)
//
//	res := validation.Validate(signup, validation.Values{
//	    "email":        "a@b.com",
//	    "emailConfirm": "a@b.co",
//	})
//	res.Status("emailConfirm") // "equals_field"
//
// # Rule Kinds
//
//   - required:     non-empty string, or boolean true
//   - email:        local-part@domain, dotted domain
//   - min_length:   at least n characters (inclusive)
//   - max_length:   at most n characters (inclusive)
//   - pattern:      regular expression, search or full match; lookarounds allowed
//   - equals_field: identical to a sibling field's current value
//   - must_be_true: boolean true
//
// # Pipe Syntax
//
// ParseRules accepts the compact form used in schema files:
//
//	required|email
//	required|min:8|max:16
//	between:8,16
//	regex:/^(?=.*\d)(?=.*[a-z])(?=.*[A-Z]).{8,}$/m
//	regex_full:[a-z]+
//	same:email
//	accepted
//
// The canonical kind names (min_length:8, equals_field:email, must_be_true,
// pattern:...) are accepted too.
package validation
