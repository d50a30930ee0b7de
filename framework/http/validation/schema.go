package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

// Schema configuration errors. NewFormSchema reports them as a *SchemaError,
// so errors.Is matches them and errors.As still finds the
// criterio.FieldErrors keyed by the offending field path.
var (
	ErrEmptyName      = errors.New("name is empty")
	ErrDuplicateField = errors.New("duplicate field")
	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownKind    = errors.New("unknown rule kind")
	ErrInvalidParam   = errors.New("invalid rule parameter")
)

// patternTimeout bounds a single pattern match.
const patternTimeout = 250 * time.Millisecond

// SchemaError is every configuration problem found in one form.
type SchemaError struct {
	Form   string
	Fields criterio.FieldErrors
}

func (e *SchemaError) Error() string { return e.Fields.Error() }

// Unwrap exposes the field errors and each of their causes.
func (e *SchemaError) Unwrap() []error {
	out := make([]error, 0, len(e.Fields)+1)
	out = append(out, e.Fields)
	for _, fe := range e.Fields {
		out = append(out, fe.Err)
	}
	return out
}

// FieldType describes the input a field is collected from. It decides the
// zero value used when a submission omits the field.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeEmail    FieldType = "email"
	TypePassword FieldType = "password"
	TypeCheckbox FieldType = "checkbox"
)

func (t FieldType) valid() bool {
	switch t {
	case TypeText, TypeEmail, TypePassword, TypeCheckbox:
		return true
	}
	return false
}

// FieldSchema holds the ordered rules for one input field.
type FieldSchema struct {
	Name  string
	Type  FieldType
	Rules []Rule
}

// Has reports whether the field declares a rule of kind k.
func (f FieldSchema) Has(k Kind) bool {
	for _, r := range f.Rules {
		if r.Kind == k {
			return true
		}
	}
	return false
}

// FormSchema is an immutable, ordered set of fields. Build one with
// NewFormSchema; the zero value has no fields.
type FormSchema struct {
	name   string
	fields []FieldSchema
	index  map[string]int
}

// NewFormSchema checks and compiles the fields of a form. Every problem is
// reported, not just the first, in a *SchemaError whose field paths look
// like "signup.emailConfirm.rules[2]".
func NewFormSchema(name string, fields ...FieldSchema) (*FormSchema, error) {
	var errs criterio.FieldErrorsBuilder

	name = strings.TrimSpace(name)
	if name == "" {
		errs = errs.Append("form", ErrEmptyName)
	}

	s := &FormSchema{
		name:   name,
		fields: make([]FieldSchema, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for i, f := range fields {
		path := fmt.Sprintf("%s.fields[%d]", name, i)
		if f.Name == "" {
			errs = errs.Append(path, ErrEmptyName)
			continue
		}
		path = name + "." + f.Name
		if _, dup := s.index[f.Name]; dup {
			errs = errs.Append(path, fmt.Errorf("%w: %q", ErrDuplicateField, f.Name))
			continue
		}
		if f.Type == "" {
			f.Type = TypeText
		}
		if !f.Type.valid() {
			errs = errs.Append(path+".type", fmt.Errorf("%w: field type %q", ErrInvalidParam, f.Type))
		}

		compiled := make([]Rule, len(f.Rules))
		for j, r := range f.Rules {
			c, err := r.compile()
			if err == nil {
				err = checkRule(c)
			}
			if err != nil {
				errs = errs.Append(fmt.Sprintf("%s.rules[%d]", path, j), err)
			}
			compiled[j] = c
		}
		f.Rules = compiled
		if lo, hi, ok := lengthBounds(compiled); ok && lo > hi {
			errs = errs.Append(path, fmt.Errorf("%w: min_length %d exceeds max_length %d", ErrInvalidParam, lo, hi))
		}

		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	// Sibling references are resolved once every name is known.
	for _, f := range s.fields {
		for j, r := range f.Rules {
			if r.Kind != KindEqualsField || r.Field == "" {
				continue
			}
			path := fmt.Sprintf("%s.%s.rules[%d]", name, f.Name, j)
			if _, ok := s.index[r.Field]; !ok {
				errs = errs.Append(path, fmt.Errorf("%w: equals_field references %q", ErrUnknownField, r.Field))
			} else if r.Field == f.Name {
				errs = errs.Append(path, fmt.Errorf("%w: equals_field references itself", ErrInvalidParam))
			}
		}
	}

	if err := errs.ToError(); err != nil {
		var fields criterio.FieldErrors
		if !errors.As(err, &fields) {
			return nil, err
		}
		return nil, &SchemaError{Form: name, Fields: fields}
	}
	return s, nil
}

// MustFormSchema is like NewFormSchema but panics on error.
func MustFormSchema(name string, fields ...FieldSchema) *FormSchema {
	s, err := NewFormSchema(name, fields...)
	if err != nil {
		panic(fmt.Sprintf("validation: form %q: %v", name, err))
	}
	return s
}

func checkRule(r Rule) error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
	switch r.Kind {
	case KindMinLength, KindMaxLength:
		if r.Bound < 0 {
			return fmt.Errorf("%w: %s bound %d is negative", ErrInvalidParam, r.Kind, r.Bound)
		}
	case KindPattern:
		if r.Expr == "" {
			return fmt.Errorf("%w: empty pattern", ErrInvalidParam)
		}
	case KindEqualsField:
		if r.Field == "" {
			return fmt.Errorf("%w: equals_field without a field name", ErrInvalidParam)
		}
	}
	return nil
}

func lengthBounds(rules []Rule) (lo, hi int, both bool) {
	var hasLo, hasHi bool
	for _, r := range rules {
		switch r.Kind {
		case KindMinLength:
			lo, hasLo = r.Bound, true
		case KindMaxLength:
			hi, hasHi = r.Bound, true
		}
	}
	return lo, hi, hasLo && hasHi
}

// Name returns the form name.
func (s *FormSchema) Name() string { return s.name }

// Len returns the number of fields.
func (s *FormSchema) Len() int { return len(s.fields) }

// Fields returns the fields in declaration order.
func (s *FormSchema) Fields() []FieldSchema {
	out := make([]FieldSchema, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field by name.
func (s *FormSchema) Field(name string) (FieldSchema, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldSchema{}, false
	}
	return s.fields[i], true
}
