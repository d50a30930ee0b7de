package validation_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/km-arc/authforms/framework/http/validation"
)

func TestParseRules(t *testing.T) {
	tests := []struct {
		spec string
		want []validation.Rule
	}{
		{"required|email", []validation.Rule{validation.Required(), validation.Email()}},
		{"required|min:8|max:16", []validation.Rule{validation.Required(), validation.MinLength(8), validation.MaxLength(16)}},
		{"between:8,16", []validation.Rule{validation.MinLength(8), validation.MaxLength(16)}},
		{"min_length:2|max_length:4", []validation.Rule{validation.MinLength(2), validation.MaxLength(4)}},
		{"same:email", []validation.Rule{validation.EqualsField("email")}},
		{"equals_field:email", []validation.Rule{validation.EqualsField("email")}},
		{"accepted", []validation.Rule{validation.MustBeTrue()}},
		{"must_be_true", []validation.Rule{validation.MustBeTrue()}},
		{"regex:^[a-z]+$", []validation.Rule{validation.Pattern("^[a-z]+$", validation.MatchSearch)}},
		{"regex:/^a.c$/gm", []validation.Rule{validation.Pattern("^a.c$", validation.MatchSearch, "gm")}},
		{"regex_full:[0-9]+", []validation.Rule{validation.Pattern("[0-9]+", validation.MatchFull)}},
		{"regex:a:b", []validation.Rule{validation.Pattern("a:b", validation.MatchSearch)}},
		{" required | | email ", []validation.Rule{validation.Required(), validation.Email()}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := validation.ParseRules(tt.spec)
			if err != nil {
				t.Fatalf("ParseRules(%q): %v", tt.spec, err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreUnexported(validation.Rule{})); diff != "" {
				t.Errorf("rules mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRules_Errors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"numeric", validation.ErrUnknownKind},
		{"min", validation.ErrInvalidParam},
		{"min:abc", validation.ErrInvalidParam},
		{"between:8", validation.ErrInvalidParam},
		{"same:", validation.ErrInvalidParam},
		{"regex", validation.ErrInvalidParam},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := validation.ParseRules(tt.spec)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseRules(%q): got %v, want %v", tt.spec, err, tt.want)
			}
		})
	}
}

func TestParseRule_KeepsPipes(t *testing.T) {
	got, err := validation.ParseRule("regex:^(a|b)$")
	if err != nil {
		t.Fatal(err)
	}
	want := []validation.Rule{validation.Pattern("^(a|b)$", validation.MatchSearch)}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(validation.Rule{})); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestRule_String_RoundTrips(t *testing.T) {
	for _, spec := range []string{"required", "email", "min:8", "max:16", "same:email", "accepted", "regex_full:[0-9]+", "regex:/^a$/m"} {
		rules, err := validation.ParseRule(spec)
		if err != nil {
			t.Fatalf("ParseRule(%q): %v", spec, err)
		}
		if got := rules[0].String(); got != spec {
			t.Errorf("String: got %q want %q", got, spec)
		}
	}
}
