// Package forms declares the application's form schemas and the pages that
// serve them. Schemas are data: they are read from forms.yaml (embedded) or
// from a file named by FORMS_FILE.
package forms

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/authforms/framework/http/validation"
)

//go:embed forms.yaml
var defaultForms []byte

// ErrNotFound is returned by Registry.Get for an unknown form name.
var ErrNotFound = errors.New("form not found")

// Form is a validated schema plus the page that renders it.
type Form struct {
	Schema *validation.FormSchema
	Path   string
}

// Name returns the schema name.
func (f *Form) Name() string { return f.Schema.Name() }

// Secret returns the password fields, which are never echoed back or logged.
func (f *Form) Secret() []string {
	var out []string
	for _, field := range f.Schema.Fields() {
		if field.Type == validation.TypePassword {
			out = append(out, field.Name)
		}
	}
	return out
}

// Registry is the ordered set of forms, read-only after Load.
type Registry struct {
	forms  []*Form
	byName map[string]*Form
}

// ── YAML shape ───────────────────────────────────────────────────────────────

type fileSpec struct {
	Forms []formSpec `yaml:"forms"`
}

type formSpec struct {
	Name   string      `yaml:"name"`
	Path   string      `yaml:"path"`
	Fields []fieldSpec `yaml:"fields"`
}

type fieldSpec struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Rules ruleList `yaml:"rules"`
}

// ruleList accepts either a pipe-separated string or a sequence with one
// rule per item. Use the sequence form for patterns containing "|".
type ruleList []validation.Rule

func (l *ruleList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		rules, err := validation.ParseRules(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*l = rules
	case yaml.SequenceNode:
		var out []validation.Rule
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: rule must be a string", item.Line)
			}
			rules, err := validation.ParseRule(item.Value)
			if err != nil {
				return fmt.Errorf("line %d: %w", item.Line, err)
			}
			out = append(out, rules...)
		}
		*l = out
	default:
		return fmt.Errorf("line %d: rules must be a string or a list", node.Line)
	}
	return nil
}

// ── Loading ──────────────────────────────────────────────────────────────────

// Default returns the embedded forms.
func Default() (*Registry, error) {
	return Parse(defaultForms)
}

// LoadFile reads forms from path, or the embedded set when path is empty.
func LoadFile(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forms file: %w", err)
	}
	reg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Load reads forms from r.
func Load(r io.Reader) (*Registry, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read forms: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and checks a forms document. Every misconfigured form is
// reported, joined into one error.
func Parse(raw []byte) (*Registry, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse forms: %w", err)
	}
	if len(spec.Forms) == 0 {
		return nil, errors.New("parse forms: no forms declared")
	}

	reg := &Registry{byName: make(map[string]*Form, len(spec.Forms))}
	paths := make(map[string]string, len(spec.Forms))

	var errs []error
	for _, decl := range spec.Forms {
		fields := make([]validation.FieldSchema, len(decl.Fields))
		for i, f := range decl.Fields {
			fields[i] = validation.FieldSchema{
				Name:  f.Name,
				Type:  validation.FieldType(f.Type),
				Rules: []validation.Rule(f.Rules),
			}
		}

		schema, err := validation.NewFormSchema(decl.Name, fields...)
		if err != nil {
			errs = append(errs, fmt.Errorf("form %q: %w", decl.Name, err))
			continue
		}
		if _, dup := reg.byName[schema.Name()]; dup {
			errs = append(errs, fmt.Errorf("form %q: declared twice", schema.Name()))
			continue
		}

		path := decl.Path
		if path == "" {
			path = "/" + schema.Name()
		}
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, fmt.Errorf("form %q: path %q must start with /", schema.Name(), path))
			continue
		}
		if other, dup := paths[path]; dup {
			errs = append(errs, fmt.Errorf("form %q: path %s already used by %q", schema.Name(), path, other))
			continue
		}
		paths[path] = schema.Name()

		form := &Form{Schema: schema, Path: path}
		reg.forms = append(reg.forms, form)
		reg.byName[schema.Name()] = form
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return reg, nil
}

// ── Lookup ───────────────────────────────────────────────────────────────────

// Get returns the named form.
func (r *Registry) Get(name string) (*Form, error) {
	f, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrNotFound, name, strings.Join(r.Names(), ", "))
	}
	return f, nil
}

// All returns the forms in declaration order.
func (r *Registry) All() []*Form {
	out := make([]*Form, len(r.forms))
	copy(out, r.forms)
	return out
}

// Names returns the form names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.forms))
	for i, f := range r.forms {
		out[i] = f.Name()
	}
	return out
}
