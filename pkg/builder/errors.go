package builder

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Issue describes one rejected draft field.
type Issue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s", i.Field, i.Message)
}

// DefinitionValidationError is returned when a draft cannot be finalised. The
// draft is left untouched so the author can correct it.
type DefinitionValidationError struct {
	Issues []Issue
}

func (e *DefinitionValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "builder: invalid definition"
	case 1:
		return "builder: invalid definition: " + e.Issues[0].String()
	default:
		return fmt.Sprintf("builder: invalid definition: %d field errors", len(e.Issues))
	}
}

// Fields returns the issues grouped by field, in the order they were found.
func (e *DefinitionValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Issues))
	for _, issue := range e.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

func toIssues(err error) []Issue {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Issue{{Field: "draft", Message: err.Error()}}
	}
	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, Issue{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: messageFor(fe),
			Value:   fe.Value(),
		})
	}
	return issues
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Field() == "choices" {
			return fmt.Sprintf("must have at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "question_type":
		return "must be a known question type (Paragraph, Checkboxes)"
	case "not_blank":
		return "must not be blank"
	case "unique":
		return "must not repeat a choice"
	case "reserved_other":
		return fmt.Sprintf("must not include %q while the free-text option is allowed", fe.Param())
	default:
		return fmt.Sprintf("validation failed for rule '%s'", fe.Tag())
	}
}
