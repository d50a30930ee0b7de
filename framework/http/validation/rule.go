package validation

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// ── Kinds ────────────────────────────────────────────────────────────────────

// Kind identifies a rule. A violated rule is reported by its Kind.
type Kind string

const (
	KindRequired    Kind = "required"
	KindEmail       Kind = "email"
	KindMinLength   Kind = "min_length"
	KindMaxLength   Kind = "max_length"
	KindPattern     Kind = "pattern"
	KindEqualsField Kind = "equals_field"
	KindMustBeTrue  Kind = "must_be_true"
)

// Kinds returns every supported rule kind.
func Kinds() []Kind {
	return []Kind{
		KindRequired,
		KindEmail,
		KindMinLength,
		KindMaxLength,
		KindPattern,
		KindEqualsField,
		KindMustBeTrue,
	}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// MatchMode selects how a pattern rule is applied to a value.
type MatchMode string

const (
	// MatchSearch passes when the expression matches anywhere in the value.
	MatchSearch MatchMode = "search"
	// MatchFull passes only when the expression matches the whole value.
	MatchFull MatchMode = "full"
)

// ── Rule ─────────────────────────────────────────────────────────────────────

// Rule is a single declarative predicate attached to a field.
// Only the parameters relevant to Kind are read.
type Rule struct {
	Kind Kind

	// Bound is the inclusive limit for min_length / max_length.
	Bound int

	// Expr, Mode and Flags configure a pattern rule. Expressions follow
	// JavaScript syntax. Flags accepts the letters i (ignore case),
	// m (multiline) and s (dot matches newline); g is tolerated and ignored.
	Expr  string
	Mode  MatchMode
	Flags string

	// Field names the sibling field for equals_field.
	Field string

	re *regexp2.Regexp
}

// Required fails on an empty string or false.
func Required() Rule { return Rule{Kind: KindRequired} }

// Email fails unless the value is local-part@domain with a dotted domain.
func Email() Rule { return Rule{Kind: KindEmail} }

// MinLength fails when the value has fewer than n characters.
func MinLength(n int) Rule { return Rule{Kind: KindMinLength, Bound: n} }

// MaxLength fails when the value has more than n characters.
func MaxLength(n int) Rule { return Rule{Kind: KindMaxLength, Bound: n} }

// Pattern fails unless expr matches the value under mode.
func Pattern(expr string, mode MatchMode, flags ...string) Rule {
	return Rule{Kind: KindPattern, Expr: expr, Mode: mode, Flags: strings.Join(flags, "")}
}

// EqualsField fails unless the value equals the current value of field.
func EqualsField(field string) Rule { return Rule{Kind: KindEqualsField, Field: field} }

// MustBeTrue fails unless the value is boolean true.
func MustBeTrue() Rule { return Rule{Kind: KindMustBeTrue} }

// String renders the rule in pipe syntax, e.g. "min:8" or "same:email".
func (r Rule) String() string {
	switch r.Kind {
	case KindMinLength:
		return fmt.Sprintf("min:%d", r.Bound)
	case KindMaxLength:
		return fmt.Sprintf("max:%d", r.Bound)
	case KindEqualsField:
		return "same:" + r.Field
	case KindMustBeTrue:
		return "accepted"
	case KindPattern:
		name := "regex"
		if r.Mode == MatchFull {
			name = "regex_full"
		}
		if r.Flags != "" {
			return fmt.Sprintf("%s:/%s/%s", name, r.Expr, r.Flags)
		}
		return name + ":" + r.Expr
	default:
		return string(r.Kind)
	}
}

// compile prepares a pattern rule. Other kinds are returned unchanged.
func (r Rule) compile() (Rule, error) {
	if r.Kind != KindPattern {
		return r, nil
	}
	if r.Mode == "" {
		r.Mode = MatchSearch
	}

	expr := r.Expr
	switch r.Mode {
	case MatchSearch:
	case MatchFull:
		expr = `\A(?:` + expr + `)\z`
	default:
		return r, fmt.Errorf("%w: match mode %q", ErrInvalidParam, r.Mode)
	}

	// ECMAScript mode keeps \d and \w to ASCII, as in JavaScript.
	var opts regexp2.RegexOptions = regexp2.ECMAScript
	for _, f := range r.Flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'g':
		default:
			return r, fmt.Errorf("%w: pattern flag %q", ErrInvalidParam, f)
		}
	}

	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return r, fmt.Errorf("%w: pattern %q: %v", ErrInvalidParam, r.Expr, err)
	}
	re.MatchTimeout = patternTimeout
	r.re = re
	return r, nil
}
