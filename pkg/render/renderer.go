package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// Renderer turns the live form model into a byte representation (HTML,
// terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}

// ReviewRenderer renders a submitted payload. Renderers that can show the
// review page implement it next to Renderer.
type ReviewRenderer interface {
	RenderReview(ctx context.Context, payload submission.Payload, options RenderOptions) ([]byte, error)
}
