package model

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	internalmodel "github.com/goliatone/go-formbuilder/internal/model"
	"github.com/goliatone/go-formbuilder/pkg/question"
)

var (
	// ErrIndexOutOfRange is returned when a setter targets a missing node or
	// option.
	ErrIndexOutOfRange = errors.New("model: index out of range")
	// ErrKindMismatch is returned when a setter does not fit the node kind.
	ErrKindMismatch = errors.New("model: operation does not match node kind")
	// ErrOtherNotAllowed is returned when writing free text to a checkbox node
	// without an "Other" option.
	ErrOtherNotAllowed = errors.New("model: question does not allow other")
)

// Source publishes definition lists. *store.Store satisfies it.
type Source interface {
	Subscribe(fn func([]question.Definition)) (unsubscribe func())
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithBuilder overrides the node builder.
func WithBuilder(builder Builder) SynthesizerOption {
	return func(s *Synthesizer) {
		if builder != nil {
			s.builder = builder
		}
	}
}

// WithRestoreKey selects how user input is carried across rebuilds.
func WithRestoreKey(key RestoreKey) SynthesizerOption {
	return func(s *Synthesizer) {
		s.restoreKey = key
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) SynthesizerOption {
	return func(s *Synthesizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Synthesizer owns the live FormModel. Every new definition list replaces the
// model wholesale, then the answers captured from the previous model are
// written back. Callers edit answers through the setters; the model itself is
// only ever handed out as a copy.
type Synthesizer struct {
	mu         sync.RWMutex
	builder    Builder
	restoreKey RestoreKey
	logger     *slog.Logger

	form      FormModel
	defs      []question.Definition
	listeners map[int]func(FormModel)
	nextID    int
}

// NewSynthesizer constructs a Synthesizer holding an empty model.
func NewSynthesizer(options ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		builder:    NewBuilder(),
		restoreKey: RestoreByPosition,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		listeners:  make(map[int]func(FormModel)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Bind subscribes the synthesizer to src. The returned function detaches it.
func (s *Synthesizer) Bind(src Source) (stop func()) {
	if src == nil {
		return func() {}
	}
	return src.Subscribe(s.Rebuild)
}

// Rebuild replaces the model with one synthesised from defs and restores the
// answers held by the previous model.
func (s *Synthesizer) Rebuild(defs []question.Definition) {
	s.mu.Lock()
	values := internalmodel.Capture(s.form)
	form := s.builder.Build(defs)
	internalmodel.Restore(form, values, s.restoreKey)
	s.form = form
	s.defs = question.CloneList(defs)
	listeners := s.snapshotListeners()
	published := form.Clone()
	s.mu.Unlock()

	s.logger.Debug("form model rebuilt",
		"nodes", published.Len(),
		"restore", s.restoreKey.String(),
	)

	for _, fn := range listeners {
		fn(published.Clone())
	}
}

// OnRebuild registers fn to receive a copy of every rebuilt model. Value
// edits do not trigger it.
func (s *Synthesizer) OnRebuild(fn func(FormModel)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Current returns a deep copy of the live model.
func (s *Synthesizer) Current() FormModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form.Clone()
}

// Definitions returns the definition list the model was last built from.
func (s *Synthesizer) Definitions() []question.Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return question.CloneList(s.defs)
}

// Len reports the number of nodes.
func (s *Synthesizer) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form.Len()
}

// Validate evaluates the live model.
func (s *Synthesizer) Validate() []Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Validate(s.form)
}

// SetAnswer writes the free-text answer of a paragraph node.
func (s *Synthesizer) SetAnswer(index int, answer string) error {
	return s.edit(index, func(node Node) error {
		paragraph, ok := node.(*ParagraphNode)
		if !ok {
			return fmt.Errorf("%w: node %d is %s", ErrKindMismatch, index, node.Kind())
		}
		paragraph.Answer = answer
		return nil
	})
}

// SetSelected ticks or unticks one option of a checkbox node.
func (s *Synthesizer) SetSelected(index, option int, selected bool) error {
	return s.edit(index, func(node Node) error {
		group, ok := node.(*CheckboxNode)
		if !ok {
			return fmt.Errorf("%w: node %d is %s", ErrKindMismatch, index, node.Kind())
		}
		if option < 0 || option >= len(group.Options) {
			return fmt.Errorf("%w: option %d of node %d", ErrIndexOutOfRange, option, index)
		}
		group.Options[option].Selected = selected
		return nil
	})
}

// SetSelectedLabels ticks exactly the named options of a checkbox node,
// keeping its free-text value.
func (s *Synthesizer) SetSelectedLabels(index int, labels ...string) error {
	return s.edit(index, func(node Node) error {
		group, ok := node.(*CheckboxNode)
		if !ok {
			return fmt.Errorf("%w: node %d is %s", ErrKindMismatch, index, node.Kind())
		}
		return internalmodel.ApplyAnswer(group, Answer{Selected: labels, Other: group.OtherValue})
	})
}

// SelectOptions ticks exactly the options at the given indexes of a checkbox
// node, keeping its free-text value. Unlike SetSelectedLabels it tells apart
// options that share a label.
func (s *Synthesizer) SelectOptions(index int, options ...int) error {
	return s.edit(index, func(node Node) error {
		if _, ok := node.(*CheckboxNode); !ok {
			return fmt.Errorf("%w: node %d is %s", ErrKindMismatch, index, node.Kind())
		}
		if err := internalmodel.SelectOptions(node, options...); err != nil {
			return fmt.Errorf("%w: %v", ErrIndexOutOfRange, err)
		}
		return nil
	})
}

// SetOther writes the free text accompanying the "Other" option.
func (s *Synthesizer) SetOther(index int, text string) error {
	return s.edit(index, func(node Node) error {
		group, ok := node.(*CheckboxNode)
		if !ok {
			return fmt.Errorf("%w: node %d is %s", ErrKindMismatch, index, node.Kind())
		}
		if !group.AllowOther {
			return ErrOtherNotAllowed
		}
		group.OtherValue = text
		return nil
	})
}

// Apply writes answers by position. Either every answer applies or none do.
func (s *Synthesizer) Apply(answers []Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(answers) > len(s.form.Nodes) {
		return fmt.Errorf("%w: %d answers for %d questions", ErrIndexOutOfRange, len(answers), len(s.form.Nodes))
	}
	draft := s.form.Clone()
	for i, answer := range answers {
		if err := internalmodel.ApplyAnswer(draft.Nodes[i], answer); err != nil {
			return err
		}
	}
	s.form = draft
	return nil
}

func (s *Synthesizer) edit(index int, fn func(Node) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.form.Nodes) {
		return fmt.Errorf("%w: node %d", ErrIndexOutOfRange, index)
	}
	return fn(s.form.Nodes[index])
}

func (s *Synthesizer) snapshotListeners() []func(FormModel) {
	if len(s.listeners) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	// registration order
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	out := make([]func(FormModel), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}
