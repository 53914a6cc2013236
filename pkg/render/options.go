package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/question"
)

// RenderOptions carries per-request data renderers use without touching the
// form model.
type RenderOptions struct {
	// Title heads the page. Renderers fall back to their own default.
	Title string
	// Action is the URL answers are posted to.
	Action string
	// BuilderAction is the URL new question drafts are posted to. Empty hides
	// the builder form.
	BuilderAction string
	// Types lists the question types offered by the builder form.
	Types []question.TypeOption
	// Errors surfaces validation feedback keyed by FieldKey.
	Errors map[string][]string
	// BuilderErrors surfaces draft validation feedback keyed by draft field.
	BuilderErrors map[string][]string
	// FormErrors are messages not tied to a single question.
	FormErrors []string
	// Notice is an informational banner, e.g. after a redirect.
	Notice string
	// Hidden adds hidden inputs to rendered forms.
	Hidden map[string]string
	// Theme is the resolved go-theme configuration. Nil renders unthemed.
	Theme *theme.RendererConfig
}
