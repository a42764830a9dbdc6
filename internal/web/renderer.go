// Package web renders the server-side form pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutName = "layout.html"

// TemplateRenderer implements echo.Renderer over the embedded pages. Every
// page is parsed together with the layout into its own set.
type TemplateRenderer struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer(logger *zap.Logger) (*TemplateRenderer, error) {
	return newTemplateRenderer(templateFS, "templates", logger)
}

func newTemplateRenderer(fsys fs.FS, dir string, logger *zap.Logger) (*TemplateRenderer, error) {
	layout, err := template.New(layoutName).Funcs(funcMap).ParseFS(fsys, path.Join(dir, layoutName))
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	r := &TemplateRenderer{pages: make(map[string]*template.Template), logger: logger.Named("TemplateRenderer")}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == layoutName || !strings.HasSuffix(name, ".html") {
			continue
		}
		page, err := template.Must(layout.Clone()).ParseFS(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = page
	}
	r.logger.Info("Templates loaded", zap.Int("pages", len(r.pages)))
	return r, nil
}

var funcMap = template.FuncMap{
	"upper": strings.ToUpper,
}

// Render executes the layout with the named page.
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	page, ok := t.pages[name]
	if !ok {
		t.logger.Error("Template not found", zap.String("templateName", name))
		return fmt.Errorf("template %s not found", name)
	}
	if err := page.ExecuteTemplate(w, layoutName, data); err != nil {
		t.logger.Error("Failed to execute template", zap.String("templateName", name), zap.Error(err))
		return fmt.Errorf("template execution failed for %s: %w", name, err)
	}
	return nil
}
