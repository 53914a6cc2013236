package orchestrator

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Transformer rewrites the detached form model handed to a renderer. The live
// model held by the synthesizer is never touched.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}
