package presenter

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer writes views as HTML pages.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the confirmation page for v.
func (r *Renderer) Render(w io.Writer, v View) error {
	if err := r.tmpl.ExecuteTemplate(w, "page.html", v); err != nil {
		return fmt.Errorf("error rendering view: %w", err)
	}
	return nil
}

// RenderHome writes the landing page served at the home route.
func (r *Renderer) RenderHome(w io.Writer) error {
	if err := r.tmpl.ExecuteTemplate(w, "home.html", nil); err != nil {
		return fmt.Errorf("error rendering home: %w", err)
	}
	return nil
}

// RenderJSON writes v as JSON, for callers that ask for application/json.
func (r *Renderer) RenderJSON(w io.Writer, v View) error {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("error encoding view: %w", err)
	}
	return nil
}
