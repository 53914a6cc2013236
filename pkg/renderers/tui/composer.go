package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/question"
)

// Composer walks an author through a new question and hands the draft to the
// builder. A rejected draft is reported and, when the author agrees, edited
// again with the previous input as defaults.
type Composer struct {
	builder *builder.Builder
	cfg     config
}

// NewComposer constructs a composer appending through b.
func NewComposer(b *builder.Builder, options ...Option) (*Composer, error) {
	if b == nil {
		return nil, errors.New("tui: composer requires a builder")
	}
	cfg, err := newConfig(options...)
	if err != nil {
		return nil, err
	}
	return &Composer{builder: b, cfg: cfg}, nil
}

// Compose prompts for a question and appends it. The returned definition
// carries the identity assigned by the store.
func (c *Composer) Compose(ctx context.Context) (question.Definition, error) {
	draft := &builder.Draft{}
	for {
		if err := c.fill(ctx, draft); err != nil {
			return question.Definition{}, err
		}
		closed := false
		def, err := c.builder.Submit(draft, builder.SurfaceFunc(func() { closed = true }))
		if err == nil {
			if closed {
				_ = c.info(ctx, "Question added.")
			}
			return def, nil
		}

		var invalid *builder.DefinitionValidationError
		if !errors.As(err, &invalid) {
			return question.Definition{}, err
		}
		for _, issue := range invalid.Issues {
			if err := c.fail(ctx, issue.String()); err != nil {
				return question.Definition{}, err
			}
		}
		retry, err := c.cfg.driver.Confirm(ctx, ConfirmConfig{Message: "Edit the question again?", Default: true})
		if err != nil {
			return question.Definition{}, err
		}
		if !retry {
			return question.Definition{}, invalid
		}
	}
}

func (c *Composer) fill(ctx context.Context, draft *builder.Draft) error {
	types := question.Types()
	labels := make([]string, len(types))
	current := 0
	for i, opt := range types {
		labels[i] = opt.Label
		if opt.Type == draft.Type() {
			current = i
		}
	}
	idx, err := c.cfg.driver.Select(ctx, SelectConfig{Message: "Question type", Options: labels, DefaultIndex: current})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(types) {
		return fmt.Errorf("tui: invalid type selection %d", idx)
	}
	draft.SetType(types[idx].Type)

	text, err := c.cfg.driver.Input(ctx, InputConfig{Message: "Question", Default: draft.Question()})
	if err != nil {
		return err
	}
	draft.SetQuestion(strings.TrimSpace(text))

	required, err := c.cfg.driver.Confirm(ctx, ConfirmConfig{Message: "Required?", Default: draft.Required()})
	if err != nil {
		return err
	}
	draft.SetRequired(required)

	if !draft.HasChoices() {
		return nil
	}
	return c.fillChoices(ctx, draft)
}

func (c *Composer) fillChoices(ctx context.Context, draft *builder.Draft) error {
	for i, choice := range draft.Choices() {
		value, err := c.cfg.driver.Input(ctx, InputConfig{Message: fmt.Sprintf("Choice %d", i+1), Default: choice})
		if err != nil {
			return err
		}
		if err := draft.SetChoice(i, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	for {
		more, err := c.cfg.driver.Confirm(ctx, ConfirmConfig{Message: "Add another choice?"})
		if err != nil {
			return err
		}
		if !more {
			break
		}
		value, err := c.cfg.driver.Input(ctx, InputConfig{Message: fmt.Sprintf("Choice %d", len(draft.Choices())+1)})
		if err != nil {
			return err
		}
		if err := draft.AddChoice(strings.TrimSpace(value)); err != nil {
			return err
		}
	}

	allowOther, err := c.cfg.driver.Confirm(ctx, ConfirmConfig{Message: `Offer an "Other" answer?`, Default: draft.AllowOther()})
	if err != nil {
		return err
	}
	if err := draft.SetAllowOther(allowOther); err != nil {
		return err
	}

	raw, err := c.cfg.driver.Input(ctx, InputConfig{
		Message:   "Maximum selections (0 for no limit)",
		Default:   strconv.Itoa(draft.MaxSelections()),
		Validator: validateCount,
	})
	if err != nil {
		return err
	}
	n, err := parseCount(raw)
	if err != nil {
		return err
	}
	return draft.SetMaxSelections(n)
}

func (c *Composer) info(ctx context.Context, msg string) error {
	return c.cfg.driver.Info(ctx, c.cfg.theme.InfoPrefix+msg)
}

func (c *Composer) fail(ctx context.Context, msg string) error {
	return c.cfg.driver.Info(ctx, c.cfg.theme.ErrorPrefix+msg)
}

func validateCount(raw string) error {
	_, err := parseCount(raw)
	return err
}

func parseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("tui: %q is not a non-negative number", raw)
	}
	return n, nil
}
