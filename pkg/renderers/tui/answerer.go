package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Editor is the part of the synthesizer the answerer writes through.
type Editor interface {
	Current() model.FormModel
	SetAnswer(index int, answer string) error
	SelectOptions(index int, options ...int) error
	SetOther(index int, text string) error
}

// Answerer prompts for a value on every question of the live form, using the
// current values as defaults.
type Answerer struct {
	form Editor
	cfg  config
}

// NewAnswerer constructs an answerer writing into form.
func NewAnswerer(form Editor, options ...Option) (*Answerer, error) {
	if form == nil {
		return nil, errors.New("tui: answerer requires a form")
	}
	cfg, err := newConfig(options...)
	if err != nil {
		return nil, err
	}
	return &Answerer{form: form, cfg: cfg}, nil
}

// AnswerAll walks the form in display order.
func (a *Answerer) AnswerAll(ctx context.Context) error {
	form := a.form.Current()
	if form.Len() == 0 {
		return a.cfg.driver.Info(ctx, a.cfg.theme.InfoPrefix+"There are no questions to answer yet.")
	}
	for i := range form.Nodes {
		if err := a.Answer(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// Answer prompts for the question at index.
func (a *Answerer) Answer(ctx context.Context, index int) error {
	form := a.form.Current()
	if index < 0 || index >= form.Len() {
		return fmt.Errorf("%w: question %d", model.ErrIndexOutOfRange, index)
	}
	switch node := form.Nodes[index].(type) {
	case *model.ParagraphNode:
		text, err := a.cfg.driver.TextArea(ctx, TextAreaConfig{
			Message: promptFor(index, node),
			Default: node.Answer,
		})
		if err != nil {
			return err
		}
		return a.form.SetAnswer(index, text)
	case *model.CheckboxNode:
		return a.answerChoices(ctx, index, node)
	default:
		return fmt.Errorf("tui: unsupported node kind %q", node.Kind())
	}
}

func (a *Answerer) answerChoices(ctx context.Context, index int, node *model.CheckboxNode) error {
	labels := make([]string, len(node.Options))
	var defaults []int
	for i, opt := range node.Options {
		labels[i] = opt.Label
		if opt.Selected {
			defaults = append(defaults, i)
		}
	}
	picked, err := a.cfg.driver.MultiSelect(ctx, SelectConfig{
		Message:  promptFor(index, node),
		Options:  labels,
		Defaults: defaults,
	})
	if err != nil {
		return err
	}
	// The free-text option is always the last one.
	otherIndex := -1
	if node.AllowOther {
		otherIndex = len(node.Options) - 1
	}
	selected := make([]int, 0, len(picked))
	other := false
	for _, idx := range picked {
		if idx < 0 || idx >= len(labels) {
			continue
		}
		selected = append(selected, idx)
		if idx == otherIndex {
			other = true
		}
	}
	if err := a.form.SelectOptions(index, selected...); err != nil {
		return err
	}
	if !other {
		return nil
	}
	text, err := a.cfg.driver.Input(ctx, InputConfig{Message: "Other", Default: node.OtherValue})
	if err != nil {
		return err
	}
	return a.form.SetOther(index, strings.TrimSpace(text))
}

func promptFor(index int, node model.Node) string {
	return fmt.Sprintf("%d. %s%s", index+1, node.Question(), requiredMark(node))
}
