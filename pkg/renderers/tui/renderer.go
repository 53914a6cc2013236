package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

const defaultWordWrap = 80

// Renderer prints the form preview and the review as terminal markdown.
type Renderer struct {
	cfg config
}

var (
	_ render.Renderer       = (*Renderer)(nil)
	_ render.ReviewRenderer = (*Renderer)(nil)
)

// New constructs the terminal renderer. The prompt driver defaults to the
// survey backed implementation and markdown goes through glamour.
func New(options ...Option) (*Renderer, error) {
	cfg, err := newConfig(options...)
	if err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg}, nil
}

func newConfig(options ...Option) (config, error) {
	cfg := config{
		out:    os.Stdout,
		wrap:   defaultWordWrap,
		theme:  Theme{InfoPrefix: "", ErrorPrefix: "! "},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.driver == nil {
		cfg.driver = NewSurveyDriver(cfg.out)
	}
	if cfg.markdown == nil {
		fn, err := glamourRenderer(cfg.style, cfg.wrap)
		if err != nil {
			return config{}, err
		}
		cfg.markdown = fn
	}
	return cfg, nil
}

func glamourRenderer(style string, wrap int) (MarkdownRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	term, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil, fmt.Errorf("tui: configure markdown renderer: %w", err)
	}
	return term.Render, nil
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render prints the current questions with their values and any errors.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := r.cfg.markdown(FormMarkdown(form, opts))
	if err != nil {
		return nil, fmt.Errorf("tui: render form: %w", err)
	}
	return []byte(out), nil
}

// RenderReview prints a submitted payload.
func (r *Renderer) RenderReview(ctx context.Context, payload submission.Payload, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := r.cfg.markdown(ReviewMarkdown(payload, opts.Title))
	if err != nil {
		return nil, fmt.Errorf("tui: render review: %w", err)
	}
	return []byte(out), nil
}

// FormMarkdown describes the form as markdown.
func FormMarkdown(form model.FormModel, opts render.RenderOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", titleOr(opts.Title, "Form preview"))
	if opts.Notice != "" {
		fmt.Fprintf(&b, "> %s\n\n", opts.Notice)
	}
	for _, msg := range opts.FormErrors {
		fmt.Fprintf(&b, "**Error:** %s\n\n", msg)
	}
	if form.Len() == 0 {
		b.WriteString("_No questions yet._\n")
		return b.String()
	}
	for i, node := range form.Nodes {
		fmt.Fprintf(&b, "## %d. %s%s\n\n", i+1, node.Question(), requiredMark(node))
		switch typed := node.(type) {
		case *model.ParagraphNode:
			if typed.Answer == "" {
				b.WriteString("_(no answer)_\n\n")
			} else {
				fmt.Fprintf(&b, "%s\n\n", typed.Answer)
			}
		case *model.CheckboxNode:
			for j, opt := range typed.Options {
				mark := " "
				if opt.Selected {
					mark = "x"
				}
				label := opt.Label
				if typed.AllowOther && j == len(typed.Options)-1 && typed.OtherValue != "" {
					label += ": " + typed.OtherValue
				}
				fmt.Fprintf(&b, "- [%s] %s\n", mark, label)
			}
			b.WriteString("\n")
		}
		for _, msg := range opts.Errors[render.FieldKey(i)] {
			fmt.Fprintf(&b, "**Error:** %s\n\n", msg)
		}
	}
	return b.String()
}

// ReviewMarkdown lists each question with its submitted answer.
func ReviewMarkdown(payload submission.Payload, title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", titleOr(title, "Review"))
	if payload.Len() == 0 {
		b.WriteString("_No answers were submitted._\n")
		return b.String()
	}
	for i, entry := range payload.Entries {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, entry.Question)
		answer := entry.Display()
		if answer == "" {
			answer = "_(no answer)_"
		}
		fmt.Fprintf(&b, "%s\n\n", answer)
	}
	return b.String()
}

func requiredMark(node model.Node) string {
	for _, rule := range node.Rules() {
		if rule.Kind == model.ValidationRuleRequired || rule.Kind == model.ValidationRuleMinSelected {
			return " *"
		}
	}
	return ""
}

func titleOr(title, fallback string) string {
	if strings.TrimSpace(title) == "" {
		return fallback
	}
	return title
}
