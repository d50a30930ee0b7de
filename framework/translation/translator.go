// Package translation loads YAML language catalogs and turns validation
// violations into localized messages.
//
// Catalog files are named after their locale (pt-BR.yaml, en.yaml). Nested
// keys are flattened with dots, so
//
//	validation:
//	  required: The :attribute field is required.
//
// is looked up as "validation.required". Keys ending in "_html" hold inline
// markup, which is sanitized before it reaches a template.
package translation

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/authforms/framework/http/validation"
)

// ErrNoCatalogs is returned when a directory holds no *.yaml catalogs.
var ErrNoCatalogs = errors.New("translation: no catalogs found")

// Translator holds one catalog per locale and a fallback locale used for
// missing keys.
type Translator struct {
	catalogs map[string]map[string]string
	locales  []string // fallback first
	fallback string
	matcher  language.Matcher
	policy   *bluemonday.Policy
}

// Load reads every *.yaml file at the root of fsys. fallback must be one of
// the loaded locales.
func Load(fsys fs.FS, fallback string) (*Translator, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("translation: list catalogs: %w", err)
	}
	if len(names) == 0 {
		return nil, ErrNoCatalogs
	}

	catalogs := make(map[string]map[string]string, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("translation: read %s: %w", name, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("translation: parse %s: %w", name, err)
		}
		entries := make(map[string]string)
		flatten("", tree, entries)
		catalogs[strings.TrimSuffix(path.Base(name), ".yaml")] = entries
	}

	return New(catalogs, fallback)
}

// New builds a Translator from in-memory catalogs keyed by locale.
func New(catalogs map[string]map[string]string, fallback string) (*Translator, error) {
	if _, ok := catalogs[fallback]; !ok {
		return nil, fmt.Errorf("translation: fallback locale %q has no catalog", fallback)
	}

	locales := make([]string, 0, len(catalogs))
	for locale := range catalogs {
		if locale != fallback {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales)
	locales = append([]string{fallback}, locales...)

	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("translation: locale %q: %w", l, err)
		}
		tags[i] = tag
	}

	return &Translator{
		catalogs: catalogs,
		locales:  locales,
		fallback: fallback,
		matcher:  language.NewMatcher(tags),
		policy:   markupPolicy(),
	}, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = strings.TrimSpace(val)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func markupPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Locales returns the loaded locales, fallback first.
func (t *Translator) Locales() []string {
	out := make([]string, len(t.locales))
	copy(out, t.locales)
	return out
}

// Fallback returns the fallback locale.
func (t *Translator) Fallback() string { return t.fallback }

// Negotiate picks the best loaded locale for the given preferences, each of
// which may be a single tag ("en") or an Accept-Language header value.
// Preferences that are empty, malformed or match nothing are skipped; with
// none left the fallback wins.
func (t *Translator) Negotiate(prefs ...string) string {
	for _, p := range prefs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, conf := t.matcher.Match(tags...)
		if conf == language.No {
			continue
		}
		return t.locales[idx]
	}
	return t.fallback
}

// Get looks key up in locale, then in the fallback locale.
func (t *Translator) Get(locale, key string) (string, bool) {
	if s, ok := t.catalogs[locale][key]; ok {
		return s, true
	}
	s, ok := t.catalogs[t.fallback][key]
	return s, ok
}

// Text returns the message for key with ":name" placeholders replaced.
// Unknown keys come back as the key itself.
func (t *Translator) Text(locale, key string, replace map[string]string) string {
	s, ok := t.Get(locale, key)
	if !ok {
		return key
	}
	return substitute(s, replace)
}

// HTML returns the sanitized markup stored under key, or "" if missing.
func (t *Translator) HTML(locale, key string) template.HTML {
	s, ok := t.Get(locale, key)
	if !ok {
		return ""
	}
	// The policy strips anything that is not plain inline markup.
	return template.HTML(t.policy.Sanitize(s)) //nolint:gosec
}

// Label returns the display name of a field.
func (t *Translator) Label(locale, field string) string {
	if s, ok := t.Get(locale, "fields."+field+".label"); ok {
		return s
	}
	return field
}

// Message maps a violation on field of form to its localized message.
// Lookup order: custom.<form>.<field>.<kind>, then validation.<kind>.
// Placeholders: :attribute, :min, :max, :other.
func (t *Translator) Message(locale, form string, field validation.FieldSchema, kind validation.Kind) string {
	replace := map[string]string{"attribute": t.Label(locale, field.Name)}
	for _, r := range field.Rules {
		switch r.Kind {
		case validation.KindMinLength:
			replace["min"] = strconv.Itoa(r.Bound)
		case validation.KindMaxLength:
			replace["max"] = strconv.Itoa(r.Bound)
		case validation.KindEqualsField:
			replace["other"] = t.Label(locale, r.Field)
		}
	}

	if s, ok := t.Get(locale, "custom."+form+"."+field.Name+"."+string(kind)); ok {
		return substitute(s, replace)
	}
	return t.Text(locale, "validation."+string(kind), replace)
}

// Messages maps every violation in res to its message, keyed by field.
func (t *Translator) Messages(locale string, schema *validation.FormSchema, res validation.Result) map[string]string {
	out := make(map[string]string)
	for _, f := range schema.Fields() {
		if kind, ok := res.Violation(f.Name); ok {
			out[f.Name] = t.Message(locale, schema.Name(), f, kind)
		}
	}
	return out
}

// substitute replaces Laravel-style ":name" placeholders. Longer names are
// replaced first so ":max" never clobbers ":maximum".
func substitute(s string, replace map[string]string) string {
	if len(replace) == 0 || !strings.Contains(s, ":") {
		return s
	}
	keys := make([]string, 0, len(replace))
	for k := range replace {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		s = strings.ReplaceAll(s, ":"+k, replace[k])
	}
	return s
}
