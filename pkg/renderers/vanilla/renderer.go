package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

const (
	formTemplate   = "templates/form.tmpl"
	reviewTemplate = "templates/review.tmpl"

	defaultFormTitle   = "Form preview"
	defaultReviewTitle = "Review"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       *string
	backURL          string
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// templates/form.tmpl and templates/review.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet replaces the inlined default CSS. An empty string disables it.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = &css
	}
}

// WithBackURL sets the link the review page offers back to the form.
func WithBackURL(url string) Option {
	return func(cfg *config) {
		cfg.backURL = url
	}
}

// Renderer renders the form preview and the review page as HTML.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
	backURL    string
}

var (
	_ render.Renderer       = (*Renderer)(nil)
	_ render.ReviewRenderer = (*Renderer)(nil)
)

// New constructs the vanilla renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	engine := cfg.templateRenderer
	if engine == nil {
		e, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithFilter("sanitize", sanitizeFilter),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		engine = e
	}

	stylesheet := defaultStylesheet()
	if cfg.stylesheet != nil {
		stylesheet = *cfg.stylesheet
	}
	return &Renderer{templates: engine, stylesheet: stylesheet, backURL: cfg.backURL}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the editable form page.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page := buildFormPage(form, opts, r.stylesheet)
	return r.execute(formTemplate, page)
}

// RenderReview produces the read-only review page.
func (r *Renderer) RenderReview(ctx context.Context, payload submission.Payload, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page := buildReviewPage(payload, opts, r.stylesheet, r.backURL)
	return r.execute(reviewTemplate, page)
}

func (r *Renderer) execute(name string, page any) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	out, err := r.templates.RenderTemplate(name, map[string]any{"page": page})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(out), nil
}

func sanitizeFilter(input any, _ any) (any, error) {
	text, _ := input.(string)
	return gotemplate.Safe(render.SanitizeText(text)), nil
}
