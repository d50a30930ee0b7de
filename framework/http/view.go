package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sync"
)

// ── View / Templates ─────────────────────────────────────────────────────────

// ViewEngine renders html/template files from a filesystem. Parsed
// layout+view pairs are cached unless the engine was created with reload.
type ViewEngine struct {
	fsys   fs.FS
	ext    string
	reload bool

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewViewEngine creates a ViewEngine over fsys. ext is the file extension
// (e.g. ".html"). With reload set every render parses the files again,
// which is convenient while editing templates.
func NewViewEngine(fsys fs.FS, ext string, reload bool) *ViewEngine {
	return &ViewEngine{
		fsys:   fsys,
		ext:    ext,
		reload: reload,
		cache:  make(map[string]*template.Template),
	}
}

// Render executes name inside layout into buf. layout defines the page and
// calls {{ template "content" . }}, which name must define.
func (ve *ViewEngine) Render(buf *bytes.Buffer, layout, name string, data any) error {
	tmpl, err := ve.lookup(layout, name)
	if err != nil {
		return err
	}
	if err := tmpl.ExecuteTemplate(buf, path.Base(layout)+ve.ext, data); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}
	return nil
}

// ViewWithLayout renders a template with a base layout and writes it with
// status. The page is fully rendered before anything is written, so a
// template error still produces a clean 500.
func (ve *ViewEngine) ViewWithLayout(w http.ResponseWriter, status int, layout, name string, data any) error {
	var buf bytes.Buffer
	if err := ve.Render(&buf, layout, name, data); err != nil {
		http.Error(w, "Render error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (ve *ViewEngine) lookup(layout, name string) (*template.Template, error) {
	key := layout + "|" + name
	if !ve.reload {
		ve.mu.RLock()
		tmpl, ok := ve.cache[key]
		ve.mu.RUnlock()
		if ok {
			return tmpl, nil
		}
	}

	tmpl, err := template.New(path.Base(layout)+ve.ext).ParseFS(ve.fsys, layout+ve.ext, name+ve.ext)
	if err != nil {
		return nil, fmt.Errorf("view: parse %s: %w", name, err)
	}

	if !ve.reload {
		ve.mu.Lock()
		ve.cache[key] = tmpl
		ve.mu.Unlock()
	}
	return tmpl, nil
}
