package builder

import (
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formbuilder/pkg/question"
)

// Appender receives finalised definitions. *store.Store satisfies it.
type Appender interface {
	Append(t question.Type, cfg question.Config) (question.Definition, error)
}

// Surface is the overlay hosting the builder. The builder only ever closes it.
type Surface interface {
	Close()
}

// SurfaceFunc adapts a plain function to Surface.
type SurfaceFunc func()

func (f SurfaceFunc) Close() {
	if f != nil {
		f()
	}
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithValidator replaces the validator instance. Custom tags registered by
// New are added to it.
func WithValidator(v *validator.Validate) Option {
	return func(b *Builder) {
		if v != nil {
			b.validate = v
		}
	}
}

// Builder finalises drafts into definitions and hands them to the store.
type Builder struct {
	target   Appender
	validate *validator.Validate
	logger   *slog.Logger
}

// New constructs a Builder appending to target.
func New(target Appender, options ...Option) *Builder {
	b := &Builder{
		target: target,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	if b.validate == nil {
		b.validate = validator.New()
	}
	registerValidators(b.validate)
	return b
}

// paragraphInput is the validated view of a draft without choices.
type paragraphInput struct {
	Type     string `json:"type" validate:"required,question_type"`
	Question string `json:"question" validate:"required,not_blank"`
}

// checkBoxInput is the validated view of a CheckBoxes draft.
type checkBoxInput struct {
	Type          string   `json:"type" validate:"required,question_type"`
	Question      string   `json:"question" validate:"required,not_blank"`
	Choices       []string `json:"choices" validate:"min=2,unique,dive,not_blank"`
	AllowOther    bool     `json:"allowOther"`
	MaxSelections int      `json:"maxSelections" validate:"min=0"`
}

// Finalize validates the draft and converts it into a definition. The type
// becomes the definition tag; the config carries no type field. A failure
// returns *DefinitionValidationError.
func (b *Builder) Finalize(d *Draft) (question.Definition, error) {
	if d == nil {
		d = &Draft{}
	}
	var input any = paragraphInput{Type: string(d.Type()), Question: d.Question()}
	if d.Type() == question.TypeCheckBoxes {
		input = checkBoxInput{
			Type:          string(d.Type()),
			Question:      d.Question(),
			Choices:       d.Choices(),
			AllowOther:    d.AllowOther(),
			MaxSelections: d.MaxSelections(),
		}
	}
	if err := b.validate.Struct(input); err != nil {
		return question.Definition{}, &DefinitionValidationError{Issues: toIssues(err)}
	}

	def := question.Definition{Type: d.Type()}
	if d.Type() == question.TypeCheckBoxes {
		def.Config = question.CheckBoxConfig{
			Question:      d.Question(),
			Required:      d.Required(),
			Choices:       d.Choices(),
			AllowOther:    d.AllowOther(),
			MaxSelections: d.MaxSelections(),
		}
	} else {
		def.Config = question.ParagraphConfig{
			Question: d.Question(),
			Required: d.Required(),
		}
	}
	return def, nil
}

// Submit finalises the draft, appends it and closes the surface. On any
// failure nothing is appended and the surface stays open.
func (b *Builder) Submit(d *Draft, surface Surface) (question.Definition, error) {
	def, err := b.Finalize(d)
	if err != nil {
		b.logger.Debug("draft rejected", "err", err)
		return question.Definition{}, err
	}
	appended, err := b.target.Append(def.Type, def.Config)
	if err != nil {
		return question.Definition{}, err
	}
	b.logger.Info("question added", "id", appended.ID, "type", string(appended.Type))
	if surface != nil {
		surface.Close()
	}
	return appended, nil
}

func registerValidators(v *validator.Validate) {
	_ = v.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		return question.Type(fl.Field().String()).Known()
	})
	_ = v.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterStructValidation(reservedOtherChoice, checkBoxInput{})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// reservedOtherChoice rejects an authored choice that would shadow the
// free-text option.
func reservedOtherChoice(sl validator.StructLevel) {
	input, ok := sl.Current().Interface().(checkBoxInput)
	if !ok || !input.AllowOther {
		return
	}
	for _, choice := range input.Choices {
		if strings.TrimSpace(choice) == question.OtherLabel {
			sl.ReportError(input.Choices, "choices", "Choices", "reserved_other", question.OtherLabel)
			return
		}
	}
}
