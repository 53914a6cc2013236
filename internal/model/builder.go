package model

import (
	"strconv"

	"github.com/goliatone/go-formbuilder/pkg/question"
)

// Options configures the Builder. Rules registered here take precedence over
// the built-in ones; Fallback handles definitions whose type has no rule.
type Options struct {
	Rules    map[question.Type]Rule
	Fallback Rule
}

func defaultOptions() Options {
	return Options{
		Rules: map[question.Type]Rule{
			question.TypeParagraph:  ParagraphRule,
			question.TypeCheckBoxes: CheckBoxRule,
		},
		Fallback: ParagraphRule,
	}
}

// Builder turns definition lists into fresh form models. It holds no state
// between calls; value preservation is handled by the caller through Capture
// and Restore.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options merged over the defaults.
func New(options Options) *Builder {
	opts := defaultOptions()
	for t, rule := range options.Rules {
		if rule != nil {
			opts.Rules[t] = rule
		}
	}
	if options.Fallback != nil {
		opts.Fallback = options.Fallback
	}
	return &Builder{opts: opts}
}

// Build synthesises one node per definition, in order. The result always has
// exactly len(defs) nodes.
func (b *Builder) Build(defs []question.Definition) FormModel {
	form := FormModel{Nodes: make([]Node, 0, len(defs))}
	for _, def := range defs {
		form.Nodes = append(form.Nodes, b.BuildNode(def))
	}
	return form
}

// BuildNode applies the rule registered for the definition's type.
func (b *Builder) BuildNode(def question.Definition) Node {
	rule, ok := b.opts.Rules[def.Type]
	if !ok || rule == nil {
		rule = b.opts.Fallback
	}
	node := rule(def)
	if node == nil {
		node = ParagraphRule(def)
	}
	return node
}

// ParagraphRule builds a free-text node. The answer is required iff the
// definition is.
func ParagraphRule(def question.Definition) Node {
	node := &ParagraphNode{
		ID:   def.ID,
		Text: def.Question(),
	}
	if def.Required() {
		node.Validations = append(node.Validations, ValidationRule{Kind: ValidationRuleRequired})
	}
	return node
}

// CheckBoxRule builds an option group with one unticked option per choice,
// plus a trailing "Other" option when the definition allows free text.
// Definitions that do not carry a CheckBoxConfig are built as paragraphs.
func CheckBoxRule(def question.Definition) Node {
	cfg, ok := def.Config.(question.CheckBoxConfig)
	if !ok {
		return ParagraphRule(def)
	}

	node := &CheckboxNode{
		ID:         def.ID,
		Text:       cfg.Question,
		Options:    make([]Option, 0, len(cfg.Choices)+1),
		AllowOther: cfg.AllowOther,
	}
	for _, choice := range cfg.Choices {
		node.Options = append(node.Options, Option{Label: choice})
	}
	if cfg.AllowOther {
		node.Options = append(node.Options, Option{Label: OtherLabel})
	}

	if cfg.Required {
		node.Validations = append(node.Validations, ValidationRule{
			Kind:   ValidationRuleMinSelected,
			Params: map[string]string{"value": "1"},
		})
	}
	if cfg.MaxSelections > 0 {
		node.Validations = append(node.Validations, ValidationRule{
			Kind:   ValidationRuleMaxSelected,
			Params: map[string]string{"value": strconv.Itoa(cfg.MaxSelections)},
		})
	}
	return node
}
