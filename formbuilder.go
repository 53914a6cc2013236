// Package formbuilder is the entry point for building a survey out of typed
// questions, answering it and reviewing the submission. A Session owns every
// piece of state; nothing is process wide.
package formbuilder

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/question"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// Session is one form-building session. Close it when done.
type Session = orchestrator.Orchestrator

// Option configures a Session.
type Option = orchestrator.Option

// Request selects the renderer and per-request options of a render.
type Request = orchestrator.Request

// RenderOptions describes per-request values renderers can use, such as
// validation errors and the theme.
type RenderOptions = render.RenderOptions

// NewSession constructs a session with the built-in store, synthesizer,
// builder and vanilla HTML renderer unless options replace them.
func NewSession(options ...Option) *Session {
	return orchestrator.New(options...)
}

// NewSessionFromFile constructs a session preloaded with the questions of a
// JSON or YAML survey document.
func NewSessionFromFile(path string, options ...Option) (*Session, error) {
	doc, err := question.LoadFile(path)
	if err != nil {
		return nil, err
	}
	session := orchestrator.New(options...)
	if err := session.LoadDocument(doc); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("formbuilder: %w", err)
	}
	return session, nil
}

// GenerateHTML renders the questions of doc as an HTML preview with an empty
// answer set, using a throwaway session.
func GenerateHTML(ctx context.Context, doc question.Document, options ...Option) ([]byte, error) {
	session := orchestrator.New(options...)
	defer session.Close()
	if err := session.LoadDocument(doc); err != nil {
		return nil, fmt.Errorf("formbuilder: %w", err)
	}
	return session.Render(ctx, Request{})
}
