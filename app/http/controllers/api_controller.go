package controllers

import (
	"net/http"

	"github.com/km-arc/authforms/app/forms"
	"github.com/km-arc/authforms/framework/app"
	"github.com/km-arc/authforms/framework/http/validation"
	"github.com/km-arc/authforms/framework/translation"
)

// APIController answers on-blur validation requests and describes schemas.
//
//	POST /api/forms/{form}/validate[?field=name]
//	GET  /api/forms/{form}
type APIController struct {
	app.Controller

	forms *forms.Registry
	tr    *translation.Translator
}

func NewAPIController(registry *forms.Registry, tr *translation.Translator) *APIController {
	return &APIController{forms: registry, tr: tr}
}

// Validate evaluates the posted values against the form and answers 200 with
// the per-field statuses, whether or not they pass.
func (c *APIController) Validate(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	f, err := c.forms.Get(req.RouteParam("form"))
	if err != nil {
		res.NotFound(err.Error())
		return
	}

	values, err := req.Values(f.Schema)
	if err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}

	result := validation.Validate(f.Schema, values)
	if field := req.Query("field"); field != "" {
		var ok bool
		if result, ok = validation.ValidateField(f.Schema, field, values); !ok {
			res.NotFound("unknown field: " + field)
			return
		}
	}

	res.Validation(result, c.tr.Messages(Locale(c.tr, r), f.Schema, result))
}

// ── Schema description ───────────────────────────────────────────────────────

type schemaJSON struct {
	Name   string      `json:"name"`
	Path   string      `json:"path"`
	Fields []fieldJSON `json:"fields"`
}

type fieldJSON struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Rules    []string `json:"rules"`
}

// Schema describes a form: its fields, their types and rules in pipe syntax.
func (c *APIController) Schema(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	f, err := c.forms.Get(req.RouteParam("form"))
	if err != nil {
		res.NotFound(err.Error())
		return
	}

	res.Success(Describe(f, c.tr, Locale(c.tr, r)))
}

// Describe builds the JSON description of f.
func Describe(f *forms.Form, tr *translation.Translator, locale string) any {
	out := schemaJSON{Name: f.Name(), Path: f.Path}
	for _, field := range f.Schema.Fields() {
		fj := fieldJSON{
			Name:     field.Name,
			Type:     string(field.Type),
			Label:    tr.Label(locale, field.Name),
			Required: field.Has(validation.KindRequired) || field.Has(validation.KindMustBeTrue),
			Rules:    make([]string, len(field.Rules)),
		}
		for i, rule := range field.Rules {
			fj.Rules[i] = rule.String()
		}
		out.Fields = append(out.Fields, fj)
	}
	return out
}
