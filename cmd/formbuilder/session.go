package main

import (
	"fmt"
	"log/slog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/metrics"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/question"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
)

// newSession wires a session from cfg: both renderers, the optional theme,
// metrics when m is not nil and the preloaded survey document.
func newSession(cfg config.Config, logger *slog.Logger, m *metrics.Metrics) (*orchestrator.Orchestrator, error) {
	key, err := cfg.RestoreKey()
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	term, err := tui.New(tui.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for _, r := range []render.Renderer{html, term} {
		if err := registry.Register(r); err != nil {
			return nil, err
		}
	}

	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(cfg.Renderer),
		orchestrator.WithRestoreKey(key),
		orchestrator.WithTitle(cfg.Title),
		orchestrator.WithLogger(logger),
	}
	if cfg.Theme.Name != "" || len(cfg.Theme.Tokens) > 0 {
		manifest := &theme.Manifest{Name: cfg.Theme.Name, Tokens: cfg.Theme.Tokens}
		options = append(options, orchestrator.WithThemeSelector(
			render.StaticSelector{Manifest: manifest}, cfg.Theme.Name, cfg.Theme.Variant,
		))
	}
	if m != nil {
		options = append(options, orchestrator.WithSubmissionHook(m))
	}

	session := orchestrator.New(options...)
	if m != nil {
		session.OnClose(session.Store().Subscribe(m.ObserveDefinitions()))
		session.OnClose(session.Form().OnRebuild(m.Rebuilt))
	}

	if cfg.Questions != "" {
		doc, err := question.LoadFile(cfg.Questions)
		if err != nil {
			_ = session.Close()
			return nil, err
		}
		if err := session.LoadDocument(doc); err != nil {
			_ = session.Close()
			return nil, fmt.Errorf("load %s: %w", cfg.Questions, err)
		}
		logger.Info("survey loaded", "path", cfg.Questions, "questions", len(doc.Questions))
	}
	return session, nil
}
