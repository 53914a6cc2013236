package model

import internalmodel "github.com/goliatone/go-formbuilder/internal/model"

// Kind re-exports the internal node kind enumeration.
type Kind = internalmodel.Kind

const (
	KindParagraph = internalmodel.KindParagraph
	KindCheckbox  = internalmodel.KindCheckbox
)

const (
	ValidationRuleRequired    = internalmodel.ValidationRuleRequired
	ValidationRuleMinSelected = internalmodel.ValidationRuleMinSelected
	ValidationRuleMaxSelected = internalmodel.ValidationRuleMaxSelected
)

// OtherLabel is the label of the synthetic free-text option.
const OtherLabel = internalmodel.OtherLabel

type (
	ValidationRule = internalmodel.ValidationRule
	Node           = internalmodel.Node
	ParagraphNode  = internalmodel.ParagraphNode
	CheckboxNode   = internalmodel.CheckboxNode
	Option         = internalmodel.Option
	FormModel      = internalmodel.FormModel
	Rule           = internalmodel.Rule
	Issue          = internalmodel.Issue
	Answer         = internalmodel.Answer
	RestoreKey     = internalmodel.RestoreKey
)

const (
	RestoreByPosition = internalmodel.RestoreByPosition
	RestoreByIdentity = internalmodel.RestoreByIdentity
)

// ParseRestoreKey maps "position" / "identity" onto a RestoreKey.
func ParseRestoreKey(raw string) (RestoreKey, error) {
	return internalmodel.ParseRestoreKey(raw)
}

// Validate evaluates every node of form.
func Validate(form FormModel) []Issue {
	return internalmodel.Validate(form)
}

// ValidateNode evaluates a single node.
func ValidateNode(node Node) []Issue {
	return internalmodel.ValidateNode(node)
}

// AnswerOf converts a node's live values into an Answer.
func AnswerOf(node Node) Answer {
	return internalmodel.AnswerOf(node)
}
