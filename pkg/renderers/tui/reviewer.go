package tui

import (
	"context"
	"errors"
	"io"

	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// Source hands out the pending submission once.
type Source interface {
	Take() (submission.Payload, error)
}

// Reviewer shows a submitted payload. The payload is consumed when shown; the
// reviewer asks before leaving so answers are not discarded by accident.
type Reviewer struct {
	source   Source
	renderer *Renderer
	cfg      config
}

// NewReviewer constructs a reviewer reading from source.
func NewReviewer(source Source, options ...Option) (*Reviewer, error) {
	if source == nil {
		return nil, errors.New("tui: reviewer requires a source")
	}
	r, err := New(options...)
	if err != nil {
		return nil, err
	}
	return &Reviewer{source: source, renderer: r, cfg: r.cfg}, nil
}

// Review takes the pending payload and prints it. Without a pending payload it
// tells the user and returns *submission.MissingSubmissionError so the caller
// can go back.
func (r *Reviewer) Review(ctx context.Context) (submission.Payload, error) {
	payload, err := r.source.Take()
	if err != nil {
		var missing *submission.MissingSubmissionError
		if errors.As(err, &missing) {
			r.cfg.logger.Warn("review opened without a submission")
			_ = r.cfg.driver.Info(ctx, r.cfg.theme.ErrorPrefix+"Missing submission data")
		}
		return submission.Payload{}, err
	}

	out, err := r.renderer.RenderReview(ctx, payload, render.RenderOptions{})
	if err != nil {
		return submission.Payload{}, err
	}
	if _, err := io.WriteString(r.cfg.out, string(out)); err != nil {
		return submission.Payload{}, err
	}

	for {
		leave, err := r.cfg.driver.Confirm(ctx, ConfirmConfig{
			Message: "Leave the review? The answers shown will be discarded.",
		})
		if err != nil {
			return payload, err
		}
		if leave {
			return payload, nil
		}
	}
}
