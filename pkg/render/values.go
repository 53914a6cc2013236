package render

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// AnswerField is the input name carrying a paragraph answer.
func AnswerField(index int) string { return FieldKey(index) + ".answer" }

// SelectedField is the input name carrying ticked option labels.
func SelectedField(index int) string { return FieldKey(index) + ".selected" }

// OtherField is the input name carrying the "Other" free text.
func OtherField(index int) string { return FieldKey(index) + ".other" }

// ParseAnswers reads posted form values back into one Answer per node. An
// "Other" text without the option ticked is kept so the value survives a
// failed submit.
func ParseAnswers(form model.FormModel, values map[string][]string) []model.Answer {
	answers := make([]model.Answer, form.Len())
	for i, node := range form.Nodes {
		switch node.Kind() {
		case model.KindParagraph:
			answers[i].Answer = first(values[AnswerField(i)])
		case model.KindCheckbox:
			for _, label := range values[SelectedField(i)] {
				if label = strings.TrimSpace(label); label != "" {
					answers[i].Selected = append(answers[i].Selected, label)
				}
			}
			answers[i].Other = first(values[OtherField(i)])
		}
	}
	return answers
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
