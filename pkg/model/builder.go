package model

import (
	internalmodel "github.com/goliatone/go-formbuilder/internal/model"
	"github.com/goliatone/go-formbuilder/pkg/question"
)

// Builder converts definition lists into fresh form models.
type Builder interface {
	Build(defs []question.Definition) FormModel
	BuildNode(def question.Definition) Node
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	rules    map[question.Type]Rule
	fallback Rule
}

// WithRule registers the synthesis rule for a question type, replacing the
// built-in one when present.
func WithRule(t question.Type, rule Rule) BuilderOption {
	return func(opts *builderOptions) {
		if rule == nil {
			return
		}
		if opts.rules == nil {
			opts.rules = make(map[question.Type]Rule)
		}
		opts.rules[t] = rule
	}
}

// WithFallbackRule overrides the rule used for unknown types (paragraph by
// default).
func WithFallbackRule(rule Rule) BuilderOption {
	return func(opts *builderOptions) {
		opts.fallback = rule
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return internalmodel.New(internalmodel.Options{
		Rules:    cfg.rules,
		Fallback: cfg.fallback,
	})
}

// ParagraphRule is the built-in synthesis rule for paragraph questions.
func ParagraphRule(def question.Definition) Node { return internalmodel.ParagraphRule(def) }

// CheckBoxRule is the built-in synthesis rule for checkbox questions.
func CheckBoxRule(def question.Definition) Node { return internalmodel.CheckBoxRule(def) }
