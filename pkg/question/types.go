package question

import (
	"errors"
	"fmt"
	"strings"
)

// Type identifies the shape of a question definition.
type Type string

const (
	TypeParagraph  Type = "Paragraph"
	TypeCheckBoxes Type = "Checkboxes"
)

// TypeOption pairs a Type with the label shown to authors picking a type.
type TypeOption struct {
	Type  Type   `json:"type" yaml:"type"`
	Label string `json:"label" yaml:"label"`
}

// Types returns the catalogue of question types authors can pick from, in
// display order.
func Types() []TypeOption {
	return []TypeOption{
		{Type: TypeParagraph, Label: "Paragraph"},
		{Type: TypeCheckBoxes, Label: "CheckBox"},
	}
}

// Known reports whether t is one of the supported types.
func (t Type) Known() bool {
	switch t {
	case TypeParagraph, TypeCheckBoxes:
		return true
	default:
		return false
	}
}

// ParseType resolves raw input (case-insensitive, accepting the catalogue
// labels) into a Type. Unknown input is returned unchanged so callers can
// decide how to treat it.
func ParseType(raw string) Type {
	trimmed := strings.TrimSpace(raw)
	for _, opt := range Types() {
		if strings.EqualFold(trimmed, string(opt.Type)) || strings.EqualFold(trimmed, opt.Label) {
			return opt.Type
		}
	}
	return Type(trimmed)
}

// Config is the type-specific configuration carried by a Definition. The
// interface is sealed; ParagraphConfig and CheckBoxConfig are the only
// implementations.
type Config interface {
	Common() Common
	clone() Config
}

// Common holds the fields every question shares.
type Common struct {
	Question string `json:"question" yaml:"question" mapstructure:"question"`
	Required bool   `json:"required" yaml:"required" mapstructure:"required"`
}

// ParagraphConfig configures a free-text question.
type ParagraphConfig struct {
	Question string `json:"question" yaml:"question" mapstructure:"question"`
	Required bool   `json:"required" yaml:"required" mapstructure:"required"`
}

func (c ParagraphConfig) Common() Common {
	return Common{Question: c.Question, Required: c.Required}
}

func (c ParagraphConfig) clone() Config { return c }

// CheckBoxConfig configures a multiple-choice question. MaxSelections caps
// how many options may be ticked; zero means unlimited.
type CheckBoxConfig struct {
	Question      string   `json:"question" yaml:"question" mapstructure:"question"`
	Required      bool     `json:"required" yaml:"required" mapstructure:"required"`
	Choices       []string `json:"choices" yaml:"choices" mapstructure:"choices"`
	AllowOther    bool     `json:"allowOther" yaml:"allowOther" mapstructure:"allowOther"`
	MaxSelections int      `json:"maxSelections,omitempty" yaml:"maxSelections,omitempty" mapstructure:"maxSelections"`
}

func (c CheckBoxConfig) Common() Common {
	return Common{Question: c.Question, Required: c.Required}
}

// checkChoices rejects labels that would make answering by label ambiguous.
func (c CheckBoxConfig) checkChoices() error {
	seen := make(map[string]struct{}, len(c.Choices))
	for _, choice := range c.Choices {
		if c.AllowOther && choice == OtherLabel {
			return fmt.Errorf("%w: %q is used by the free-text option", ErrReservedChoice, choice)
		}
		if _, dup := seen[choice]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateChoice, choice)
		}
		seen[choice] = struct{}{}
	}
	return nil
}

func (c CheckBoxConfig) clone() Config {
	c.Choices = append([]string(nil), c.Choices...)
	return c
}

// Definition is one authored question: a type tag plus the matching config.
type Definition struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Type   Type   `json:"type" yaml:"type"`
	Config Config `json:"config" yaml:"config"`
}

// OtherLabel is the label of the free-text option a CheckBoxes question gains
// when AllowOther is set. Authored choices may not reuse it.
const OtherLabel = "Other"

var (
	// ErrConfigMissing is returned when a definition carries no config.
	ErrConfigMissing = errors.New("question: config is required")
	// ErrDuplicateChoice is returned when a CheckBoxes config repeats a label.
	ErrDuplicateChoice = errors.New("question: duplicate choice")
	// ErrReservedChoice is returned when a choice collides with OtherLabel
	// while AllowOther is set.
	ErrReservedChoice = errors.New("question: choice is reserved")
)

// Validate checks that the config shape matches the type tag. Unknown tags
// are accepted as long as they carry a ParagraphConfig, since they synthesise
// as paragraphs.
func (d Definition) Validate() error {
	if d.Config == nil {
		return ErrConfigMissing
	}
	switch d.Type {
	case TypeCheckBoxes:
		cfg, ok := d.Config.(CheckBoxConfig)
		if !ok {
			return fmt.Errorf("question: %s definition requires CheckBoxConfig, got %T", d.Type, d.Config)
		}
		return cfg.checkChoices()
	default:
		if _, ok := d.Config.(ParagraphConfig); !ok {
			return fmt.Errorf("question: %s definition requires ParagraphConfig, got %T", d.Type, d.Config)
		}
	}
	return nil
}

// Question returns the question text regardless of the variant.
func (d Definition) Question() string {
	if d.Config == nil {
		return ""
	}
	return d.Config.Common().Question
}

// Required reports whether the question demands an answer.
func (d Definition) Required() bool {
	if d.Config == nil {
		return false
	}
	return d.Config.Common().Required
}

// Clone returns a deep copy so callers can never alias a stored slice.
func (d Definition) Clone() Definition {
	if d.Config != nil {
		d.Config = d.Config.clone()
	}
	return d
}

// CloneList deep copies a definition list.
func CloneList(defs []Definition) []Definition {
	if defs == nil {
		return nil
	}
	out := make([]Definition, len(defs))
	for i, def := range defs {
		out[i] = def.Clone()
	}
	return out
}
