package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// Submitter validates the live form and hands the payload to the review.
type Submitter interface {
	Submit() (submission.Payload, error)
}

// Menu entries in display order.
const (
	ActionAdd     = "Add question"
	ActionPreview = "Preview form"
	ActionAnswer  = "Answer questions"
	ActionSubmit  = "Submit"
	ActionReview  = "Review"
	ActionQuit    = "Quit"
)

var menu = []string{ActionAdd, ActionPreview, ActionAnswer, ActionSubmit, ActionReview, ActionQuit}

// App is the interactive terminal session: author questions, answer them,
// submit and review.
type App struct {
	composer  *Composer
	answerer  *Answerer
	reviewer  *Reviewer
	renderer  *Renderer
	form      Editor
	submitter Submitter
	cfg       config
}

// AppDeps are the session components the app drives.
type AppDeps struct {
	Composer  *Composer
	Answerer  *Answerer
	Reviewer  *Reviewer
	Form      Editor
	Submitter Submitter
}

// NewApp wires the terminal session.
func NewApp(deps AppDeps, options ...Option) (*App, error) {
	if deps.Composer == nil || deps.Answerer == nil || deps.Reviewer == nil || deps.Form == nil || deps.Submitter == nil {
		return nil, errors.New("tui: app requires composer, answerer, reviewer, form and submitter")
	}
	r, err := New(options...)
	if err != nil {
		return nil, err
	}
	return &App{
		composer:  deps.Composer,
		answerer:  deps.Answerer,
		reviewer:  deps.Reviewer,
		renderer:  r,
		form:      deps.Form,
		submitter: deps.Submitter,
		cfg:       r.cfg,
	}, nil
}

// Run shows the menu until the user quits or aborts. An abort is not an error.
func (a *App) Run(ctx context.Context) error {
	for {
		idx, err := a.cfg.driver.Select(ctx, SelectConfig{Message: "What next?", Options: menu})
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}
		if idx < 0 || idx >= len(menu) {
			return fmt.Errorf("tui: invalid menu selection %d", idx)
		}
		action := menu[idx]
		if action == ActionQuit {
			return nil
		}
		if err := a.dispatch(ctx, action); err != nil {
			if errors.Is(err, ErrAborted) {
				continue
			}
			return err
		}
	}
}

func (a *App) dispatch(ctx context.Context, action string) error {
	switch action {
	case ActionAdd:
		_, err := a.composer.Compose(ctx)
		var invalid *builder.DefinitionValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return err
	case ActionPreview:
		return a.preview(ctx, render.ErrorMapping{})
	case ActionAnswer:
		return a.answerer.AnswerAll(ctx)
	case ActionSubmit:
		return a.submit(ctx)
	case ActionReview:
		return a.review(ctx)
	}
	return nil
}

func (a *App) preview(ctx context.Context, errs render.ErrorMapping) error {
	out, err := a.renderer.Render(ctx, a.form.Current(), render.RenderOptions{Errors: errs.Fields, FormErrors: errs.Form})
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.cfg.out, string(out))
	return err
}

func (a *App) submit(ctx context.Context) error {
	_, err := a.submitter.Submit()
	var invalid *submission.ValidationError
	if errors.As(err, &invalid) {
		for _, issue := range invalid.Issues {
			msg := fmt.Sprintf("%d. %s: %s", issue.Index+1, issue.Question, issue.Message)
			if err := a.cfg.driver.Info(ctx, a.cfg.theme.ErrorPrefix+msg); err != nil {
				return err
			}
		}
		return a.preview(ctx, render.MapIssues(invalid.Issues))
	}
	if err != nil {
		return err
	}
	return a.review(ctx)
}

func (a *App) review(ctx context.Context) error {
	_, err := a.reviewer.Review(ctx)
	var missing *submission.MissingSubmissionError
	if errors.As(err, &missing) {
		return nil
	}
	return err
}

var _ Editor = (*model.Synthesizer)(nil)
