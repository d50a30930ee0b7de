package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRules parses a pipe-separated rule string into rules, in order.
//
//	rules, err := validation.ParseRules("required|min:8|max:16")
//
// Patterns containing "|" cannot be expressed here; use ParseRule on each
// rule instead.
func ParseRules(spec string) ([]Rule, error) {
	var rules []Rule
	for _, raw := range strings.Split(spec, "|") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parsed, err := parseRule(raw)
		if err != nil {
			return nil, err
		}
		rules = append(rules, parsed...)
	}
	return rules, nil
}

// ParseRule parses exactly one rule string. "between:a,b" yields two rules,
// so the result is a slice.
func ParseRule(raw string) ([]Rule, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty rule", ErrUnknownKind)
	}
	return parseRule(raw)
}

// parseRule understands the Laravel-style names (min, max, between, regex,
// same, accepted) as well as the canonical kind names.
func parseRule(raw string) ([]Rule, error) {
	name, param, hasParam := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)

	needParam := func() error {
		if !hasParam || strings.TrimSpace(param) == "" {
			return fmt.Errorf("%w: rule %q needs a parameter", ErrInvalidParam, name)
		}
		return nil
	}

	switch name {
	case "required":
		return []Rule{Required()}, nil

	case "email":
		return []Rule{Email()}, nil

	case "min", "min_length":
		if err := needParam(); err != nil {
			return nil, err
		}
		n, err := parseBound(name, param)
		if err != nil {
			return nil, err
		}
		return []Rule{MinLength(n)}, nil

	case "max", "max_length":
		if err := needParam(); err != nil {
			return nil, err
		}
		n, err := parseBound(name, param)
		if err != nil {
			return nil, err
		}
		return []Rule{MaxLength(n)}, nil

	case "between":
		if err := needParam(); err != nil {
			return nil, err
		}
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return nil, fmt.Errorf("%w: between needs min,max, got %q", ErrInvalidParam, param)
		}
		lower, err := parseBound(name, lo)
		if err != nil {
			return nil, err
		}
		upper, err := parseBound(name, hi)
		if err != nil {
			return nil, err
		}
		return []Rule{MinLength(lower), MaxLength(upper)}, nil

	case "regex", "pattern", "regex_full":
		if err := needParam(); err != nil {
			return nil, err
		}
		mode := MatchSearch
		if name == "regex_full" {
			mode = MatchFull
		}
		expr, flags := splitDelimited(param)
		return []Rule{Pattern(expr, mode, flags)}, nil

	case "same", "equals_field":
		if err := needParam(); err != nil {
			return nil, err
		}
		return []Rule{EqualsField(strings.TrimSpace(param))}, nil

	case "accepted", "must_be_true":
		return []Rule{MustBeTrue()}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

func parseBound(rule, param string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(param))
	if err != nil {
		return 0, fmt.Errorf("%w: %s bound %q is not an integer", ErrInvalidParam, rule, param)
	}
	return n, nil
}

// splitDelimited unwraps "/expr/flags". Anything else is returned verbatim.
func splitDelimited(param string) (expr, flags string) {
	if len(param) < 2 || param[0] != '/' {
		return param, ""
	}
	end := strings.LastIndexByte(param, '/')
	if end == 0 {
		return param, ""
	}
	tail := param[end+1:]
	if strings.Trim(tail, "gims") != "" {
		return param, ""
	}
	return param[1:end], tail
}
