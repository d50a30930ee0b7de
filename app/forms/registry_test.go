package forms_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/authforms/app/forms"
	"github.com/km-arc/authforms/framework/http/validation"
)

func TestDefault_DeclaresThreeForms(t *testing.T) {
	reg, err := forms.Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"login", "signup", "reset-password"}, reg.Names())

	signup, err := reg.Get("signup")
	require.NoError(t, err)
	assert.Equal(t, "/signup", signup.Path)
	assert.Equal(t, []string{"password"}, signup.Secret())
}

func TestDefault_RuleOrder(t *testing.T) {
	reg, err := forms.Default()
	require.NoError(t, err)

	kinds := func(form, field string) []validation.Kind {
		f, err := reg.Get(form)
		require.NoError(t, err)
		fs, ok := f.Schema.Field(field)
		require.True(t, ok)
		var out []validation.Kind
		for _, r := range fs.Rules {
			out = append(out, r.Kind)
		}
		return out
	}

	assert.Equal(t, []validation.Kind{"required", "email"}, kinds("login", "email"))
	assert.Equal(t, []validation.Kind{"required"}, kinds("login", "password"))
	assert.Equal(t, []validation.Kind{"required", "email", "equals_field"}, kinds("signup", "emailConfirm"))
	assert.Equal(t, []validation.Kind{"required", "min_length", "max_length", "pattern"}, kinds("signup", "password"))
	assert.Equal(t, []validation.Kind{"must_be_true"}, kinds("signup", "agreement"))
	assert.Equal(t, []validation.Kind{"required", "email"}, kinds("reset-password", "email"))
}

func TestDefault_SignupScenario(t *testing.T) {
	reg, err := forms.Default()
	require.NoError(t, err)
	signup, _ := reg.Get("signup")

	values := validation.Values{
		"email":        "x@y.com",
		"emailConfirm": "x@y.com",
		"password":     "Abcdefg1",
		"agreement":    true,
	}
	res := validation.Validate(signup.Schema, values)
	assert.True(t, res.Passes(), "got %v", res.Map())

	values["password"] = "short1A"
	res = validation.Validate(signup.Schema, values)
	assert.Equal(t, []string{"password"}, res.Failed())
	assert.Equal(t, "min_length", res.Status("password"))

	values["password"] = "abcdefgh"
	res = validation.Validate(signup.Schema, values)
	assert.Equal(t, "pattern", res.Status("password"))
}

func TestGet_Unknown(t *testing.T) {
	reg, err := forms.Default()
	require.NoError(t, err)

	_, err = reg.Get("checkout")
	assert.ErrorIs(t, err, forms.ErrNotFound)
	assert.ErrorContains(t, err, "have login, signup, reset-password")
}

func TestParse_UnknownSibling(t *testing.T) {
	_, err := forms.Parse([]byte(`
forms:
  - name: signup
    fields:
      - name: email
      - name: emailConfirm
        rules: required|same:mail
`))
	require.Error(t, err)

	assert.ErrorIs(t, err, validation.ErrUnknownField)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, errors.Is(fieldErrs[0].Err, validation.ErrUnknownField))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", `forms: []`, "no forms declared"},
		{"bad yaml", `forms: [`, "parse forms"},
		{"unknown rule", "forms:\n  - name: a\n    fields:\n      - name: x\n        rules: numeric\n", "unknown rule kind"},
		{"rules mapping", "forms:\n  - name: a\n    fields:\n      - name: x\n        rules: {a: b}\n", "string or a list"},
		{"duplicate form", "forms:\n  - name: a\n  - name: a\n", "declared twice"},
		{"duplicate path", "forms:\n  - name: a\n    path: /x\n  - name: b\n    path: /x\n", "already used"},
		{"relative path", "forms:\n  - name: a\n    path: x\n", "must start with /"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := forms.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_DefaultPath(t *testing.T) {
	reg, err := forms.Parse([]byte("forms:\n  - name: contact\n    fields:\n      - name: email\n        rules: required\n"))
	require.NoError(t, err)
	f, _ := reg.Get("contact")
	assert.Equal(t, "/contact", f.Path)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forms:\n  - name: only\n"), 0o644))

	reg, err := forms.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, reg.Names())

	_, err = forms.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	reg, err = forms.LoadFile("")
	require.NoError(t, err)
	assert.Len(t, reg.All(), 3)
}

func TestLoad_Reader(t *testing.T) {
	reg, err := forms.Load(strings.NewReader("forms:\n  - name: only\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, reg.Names())
}
