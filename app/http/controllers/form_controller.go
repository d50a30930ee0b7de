package controllers

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/km-arc/authforms/app/forms"
	"github.com/km-arc/authforms/app/submission"
	"github.com/km-arc/authforms/framework/app"
	gohttp "github.com/km-arc/authforms/framework/http"
	"github.com/km-arc/authforms/framework/http/validation"
	"github.com/km-arc/authforms/framework/translation"
)

const (
	layout   = "layouts/app"
	formView = "form"
)

// FormController serves the HTML page of each form: GET renders it empty,
// POST validates the submission and either re-renders it with messages
// (422) or hands it to the submission handler.
type FormController struct {
	app.Controller

	views   *gohttp.ViewEngine
	tr      *translation.Translator
	handler submission.Handler
}

func NewFormController(views *gohttp.ViewEngine, tr *translation.Translator, handler submission.Handler) *FormController {
	return &FormController{views: views, tr: tr, handler: handler}
}

// ── View model ───────────────────────────────────────────────────────────────

type page struct {
	Locale      string
	Title       string
	Description string
	Heading     string
	Intro       template.HTML
	Footer      template.HTML
	Notice      string
	Submit      string
	Form        string
	Action      string
	ValidateURL string
	Fields      []fieldView
}

type fieldView struct {
	Name      string
	Type      string
	Label     string
	LabelHTML template.HTML
	Value     string
	Checked   bool
	Violation string
	Error     string
}

// ── Actions ──────────────────────────────────────────────────────────────────

// Show renders the empty form.
func (c *FormController) Show(f *forms.Form) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := Locale(c.tr, r)
		c.render(w, r, http.StatusOK, c.page(locale, f, nil, validation.Result{}, ""))
	}
}

// Submit validates a posted form.
func (c *FormController) Submit(f *forms.Form) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := c.Request(r)
		log := zerolog.Ctx(r.Context())
		locale := Locale(c.tr, r)

		values, err := req.Values(f.Schema)
		if err != nil {
			log.Warn().Err(err).Str("form", f.Name()).Msg("unreadable form body")
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		result := validation.Validate(f.Schema, values)
		if result.Fails() {
			log.Debug().Str("form", f.Name()).Strs("failed", result.Failed()).Msg("form rejected")
			c.render(w, r, http.StatusUnprocessableEntity, c.page(locale, f, values.Without(f.Secret()...), result, ""))
			return
		}

		err = c.handler.Handle(r.Context(), submission.Submission{
			Form:       f.Name(),
			Values:     values,
			Secret:     f.Secret(),
			RequestID:  middleware.GetReqID(r.Context()),
			RemoteAddr: req.IP(),
		})
		if err != nil {
			log.Error().Err(err).Str("form", f.Name()).Msg("submission handler failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		notice := c.tr.Text(locale, "pages."+f.Name()+".success", nil)
		c.render(w, r, http.StatusOK, c.page(locale, f, nil, validation.Result{}, notice))
	}
}

// ── Rendering ────────────────────────────────────────────────────────────────

func (c *FormController) render(w http.ResponseWriter, r *http.Request, status int, p page) {
	if err := c.views.ViewWithLayout(w, status, layout, formView, p); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("form", p.Form).Msg("render form")
	}
}

// page builds the view model. values are echoed back into the inputs and
// result supplies the per-field messages; both may be empty.
func (c *FormController) page(locale string, f *forms.Form, values validation.Values, result validation.Result, notice string) page {
	name := f.Name()
	key := func(k string) string { return "pages." + name + "." + k }

	p := page{
		Locale:      locale,
		Title:       c.tr.Text(locale, key("title"), nil),
		Description: c.tr.Text(locale, key("description"), nil),
		Heading:     c.tr.Text(locale, key("heading"), nil),
		Intro:       c.tr.HTML(locale, key("intro_html")),
		Footer:      c.tr.HTML(locale, key("footer_html")),
		Submit:      c.tr.Text(locale, key("submit"), nil),
		Notice:      notice,
		Form:        name,
		Action:      f.Path,
		ValidateURL: "/api/forms/" + name + "/validate",
	}

	for _, field := range f.Schema.Fields() {
		fv := fieldView{
			Name:  field.Name,
			Type:  string(field.Type),
			Label: c.tr.Label(locale, field.Name),
		}
		if field.Type == validation.TypeCheckbox {
			fv.LabelHTML = c.tr.HTML(locale, "fields."+field.Name+".label_html")
			if fv.LabelHTML == "" {
				fv.LabelHTML = template.HTML(template.HTMLEscapeString(fv.Label)) //nolint:gosec
			}
			fv.Checked = values.Bool(field.Name)
		} else {
			fv.Value = values.String(field.Name)
		}
		if kind, ok := result.Violation(field.Name); ok {
			fv.Violation = string(kind)
			fv.Error = c.tr.Message(locale, name, field, kind)
		}
		p.Fields = append(p.Fields, fv)
	}
	return p
}

// Locale picks the page language from ?lang=, then Accept-Language, then
// the configured default.
func Locale(tr *translation.Translator, r *http.Request) string {
	req := gohttp.NewRequest(r)
	return tr.Negotiate(req.Query("lang"), req.Header("Accept-Language"))
}
