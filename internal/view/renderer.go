package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"ai-storefront/internal/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer renders the storefront shell. Templates are parsed once.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"noticeClass": func(level string) string {
			switch level {
			case "error":
				return "notice notice-error"
			case "warning":
				return "notice notice-warning"
			default:
				return "notice notice-info"
			}
		},
	}

	tmpl, err := template.New("_root").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Shell renders a full page.
func (r *Renderer) Shell(shell *dto.ShellView) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "layout", shell); err != nil {
		return nil, fmt.Errorf("render shell: %w", err)
	}
	return buf.Bytes(), nil
}
