package builder

import (
	"errors"

	"github.com/goliatone/go-formbuilder/pkg/question"
)

// ErrNoChoices is returned by choice editing on a draft whose type is not
// CheckBoxes.
var ErrNoChoices = errors.New("builder: draft has no choices")

// defaultChoiceSlots is the number of empty choices a CheckBoxes draft starts
// with.
const defaultChoiceSlots = 2

// Draft is the in-progress input of a single question. Its shape follows the
// selected type: only CheckBoxes drafts carry choices and the allow-other flag.
// The zero value is an empty, untyped draft.
type Draft struct {
	typ           question.Type
	question      string
	required      bool
	choices       []string
	allowOther    bool
	maxSelections int
}

// NewDraft returns an empty draft of type t.
func NewDraft(t question.Type) *Draft {
	d := &Draft{}
	d.SetType(t)
	return d
}

// SetType selects the question type and reshapes the draft. Choosing
// CheckBoxes adds two empty choice slots unless choices already exist; any
// other type drops the choice fields. Calling it again with the same type is a
// no-op.
func (d *Draft) SetType(t question.Type) {
	d.typ = t
	if t == question.TypeCheckBoxes {
		if d.choices == nil {
			d.choices = make([]string, defaultChoiceSlots)
			d.allowOther = false
		}
		return
	}
	d.choices = nil
	d.allowOther = false
	d.maxSelections = 0
}

// SetQuestion sets the prompt text.
func (d *Draft) SetQuestion(text string) { d.question = text }

// SetRequired sets whether answering is mandatory.
func (d *Draft) SetRequired(required bool) { d.required = required }

// SetChoice overwrites the choice at index.
func (d *Draft) SetChoice(index int, value string) error {
	if !d.hasChoices() {
		return ErrNoChoices
	}
	if index < 0 || index >= len(d.choices) {
		return errors.New("builder: choice index out of range")
	}
	d.choices[index] = value
	return nil
}

// AddChoice appends a choice slot holding value.
func (d *Draft) AddChoice(value string) error {
	if !d.hasChoices() {
		return ErrNoChoices
	}
	d.choices = append(d.choices, value)
	return nil
}

// RemoveChoice drops the choice at index.
func (d *Draft) RemoveChoice(index int) error {
	if !d.hasChoices() {
		return ErrNoChoices
	}
	if index < 0 || index >= len(d.choices) {
		return errors.New("builder: choice index out of range")
	}
	d.choices = append(d.choices[:index:index], d.choices[index+1:]...)
	return nil
}

// SetChoices replaces every choice slot at once.
func (d *Draft) SetChoices(values ...string) error {
	if !d.hasChoices() {
		return ErrNoChoices
	}
	d.choices = append(make([]string, 0, len(values)), values...)
	return nil
}

// SetAllowOther toggles the free-text "Other" option.
func (d *Draft) SetAllowOther(allow bool) error {
	if !d.hasChoices() {
		return ErrNoChoices
	}
	d.allowOther = allow
	return nil
}

// SetMaxSelections caps how many options may be ticked. Zero disables the cap.
func (d *Draft) SetMaxSelections(n int) error {
	if !d.hasChoices() {
		return ErrNoChoices
	}
	d.maxSelections = n
	return nil
}

// Type returns the question type the draft was created or switched to.
func (d *Draft) Type() question.Type { return d.typ }

// Question returns the prompt text as entered, untrimmed.
func (d *Draft) Question() string { return d.question }

// Required reports whether an answer will be mandatory.
func (d *Draft) Required() bool { return d.required }

// AllowOther reports whether the free-text option is enabled. Always false
// for drafts without choices.
func (d *Draft) AllowOther() bool { return d.allowOther }

// MaxSelections returns the selection cap, zero when uncapped.
func (d *Draft) MaxSelections() int { return d.maxSelections }

// Choices returns a copy of the choice slots, nil unless the draft is a
// CheckBoxes draft.
func (d *Draft) Choices() []string {
	if d.choices == nil {
		return nil
	}
	return append([]string(nil), d.choices...)
}

// HasChoices reports whether the draft currently carries choice fields.
func (d *Draft) HasChoices() bool { return d.hasChoices() }

// Reset clears the draft back to its zero value.
func (d *Draft) Reset() { *d = Draft{} }

func (d *Draft) hasChoices() bool {
	return d.choices != nil
}
