package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/tdewolff/minify"
	"github.com/vlatan/video-notes/internal/models"
	"github.com/vlatan/video-notes/web"
)

// Locations within the embedded web filesystem
const (
	baseTemplate  = "templates/base.html"
	pageTemplates = "templates/partials/*.html"
)

// parseTemplates builds one template per page.
// Each page is parsed onto its own clone of the base,
// so the blocks one page defines never leak into another.
func parseTemplates(m *minify.M) (models.TemplateMap, error) {

	base, err := minifyTemplate(m, template.New(path.Base(baseTemplate)), baseTemplate)
	if err != nil {
		return nil, err
	}

	pages, err := fs.Glob(web.Files, pageTemplates)
	if err != nil {
		return nil, err
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no templates match %s", pageTemplates)
	}

	tm := make(models.TemplateMap, len(pages))
	for _, page := range pages {

		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("couldn't clone the base for %s; %w", page, err)
		}

		name := path.Base(page)
		if tm[name], err = minifyTemplate(m, clone.New(name), page); err != nil {
			return nil, err
		}
	}

	return tm, nil
}

// minifyTemplate reads an HTML template, minifies it and parses it into tmpl
func minifyTemplate(m *minify.M, tmpl *template.Template, file string) (*template.Template, error) {

	if path.Ext(file) != ".html" {
		return nil, fmt.Errorf("not an HTML template: %s", file)
	}

	b, err := fs.ReadFile(web.Files, file)
	if err != nil {
		return nil, err
	}

	mb, err := m.Bytes("text/html", b)
	if err != nil {
		return nil, fmt.Errorf("couldn't minify %s; %w", file, err)
	}

	return tmpl.Parse(strings.TrimSpace(string(mb)))
}
