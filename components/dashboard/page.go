package dashboard

import (
	"bytes"
	"embed"
	"fmt"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// PageTemplate is the template name of the page shell.
const PageTemplate = "page"

// PageOptions configures the page shell a Document is parsed from.
type PageOptions struct {
	Title      string
	Lang       string
	EventsPath string
	StreamPath string
	Renderer   Renderer
}

// NewTemplateRenderer creates a go-template renderer backed by the embedded templates.
func NewTemplateRenderer() (Renderer, error) {
	return template.NewRenderer(
		template.WithFS(embeddedTemplates),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}

// NewDocument renders the page shell and parses it into a live document.
func NewDocument(opts PageOptions) (*Document, error) {
	renderer := opts.Renderer
	if renderer == nil {
		var err error
		if renderer, err = NewTemplateRenderer(); err != nil {
			return nil, fmt.Errorf("dashboard: page renderer: %w", err)
		}
	}
	if opts.Title == "" {
		opts.Title = "Dashboard"
	}
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	var buf bytes.Buffer
	if _, err := renderer.Render(PageTemplate, map[string]any{
		"title":       opts.Title,
		"lang":        opts.Lang,
		"events_path": opts.EventsPath,
		"stream_path": opts.StreamPath,
	}, &buf); err != nil {
		return nil, fmt.Errorf("dashboard: render page: %w", err)
	}
	return ParseDocument(&buf)
}
