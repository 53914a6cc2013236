package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/question"
)

const (
	// AnswersSchemaName is the component name of the answers schema.
	AnswersSchemaName = "Answers"

	defaultTitle   = "Form submission"
	defaultVersion = "1.0.0"
	defaultPath    = "/api/submissions"
	operationID    = "submitAnswers"

	selectedKey = "selected"
	otherKey    = "other"
)

// Option configures the generated document.
type Option func(*config)

type config struct {
	title   string
	version string
	path    string
}

// WithTitle sets info.title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(title) != "" {
			cfg.title = title
		}
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(version) != "" {
			cfg.version = version
		}
	}
}

// WithPath sets the path of the submit operation.
func WithPath(path string) Option {
	return func(cfg *config) {
		if strings.HasPrefix(path, "/") {
			cfg.path = path
		}
	}
}

// Document is the OpenAPI description of one definition list.
type Document struct {
	spec    *openapi3.T
	answers *openapi3.Schema
	keys    []string
	defs    []question.Definition
}

// AnswerKey is the property name of the definition at index: its ID, or a
// positional key when the definition has none.
func AnswerKey(def question.Definition, index int) string {
	if def.ID != "" {
		return def.ID
	}
	return fmt.Sprintf("q%d", index+1)
}

// Build generates the document for defs. Every definition must validate.
func Build(defs []question.Definition, options ...Option) (*Document, error) {
	cfg := config{title: defaultTitle, version: defaultVersion, path: defaultPath}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	answers := openapi3.NewObjectSchema()
	answers.Description = "Answers keyed by question ID."
	answers.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.BoolPtr(false)}
	var required []string
	keys := make([]string, len(defs))

	for i, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("openapi: definition %d: %w", i, err)
		}
		key := AnswerKey(def, i)
		keys[i] = key
		answers.WithProperty(key, schemaFor(def))
		if def.Required() {
			required = append(required, key)
		}
	}
	if len(required) > 0 {
		answers.WithRequired(required)
	}

	op := openapi3.NewOperation()
	op.OperationID = operationID
	op.Summary = "Submit answers"
	op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/"+AnswersSchemaName, answers))}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusCreated, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission accepted")}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Answers failed validation")}),
	)

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: cfg.title, Version: cfg.version},
		Paths:   openapi3.NewPaths(openapi3.WithPath(cfg.path, &openapi3.PathItem{Post: op})),
		Components: &openapi3.Components{Schemas: openapi3.Schemas{
			AnswersSchemaName: openapi3.NewSchemaRef("", answers),
		}},
	}
	return &Document{spec: spec, answers: answers, keys: keys, defs: question.CloneList(defs)}, nil
}

func schemaFor(def question.Definition) *openapi3.Schema {
	cfg, ok := def.Config.(question.CheckBoxConfig)
	if !ok || def.Type != question.TypeCheckBoxes {
		schema := openapi3.NewStringSchema()
		schema.Title = def.Question()
		if def.Required() {
			schema.WithMinLength(1)
		}
		return schema
	}

	labels := make([]any, 0, len(cfg.Choices)+1)
	for _, choice := range cfg.Choices {
		labels = append(labels, choice)
	}
	if cfg.AllowOther {
		labels = append(labels, model.OtherLabel)
	}
	selected := openapi3.NewArraySchema().
		WithItems(openapi3.NewStringSchema().WithEnum(labels...)).
		WithUniqueItems(true)
	if cfg.Required {
		selected.WithMinItems(1)
	}
	if cfg.MaxSelections > 0 {
		selected.WithMaxItems(int64(cfg.MaxSelections))
	}

	schema := openapi3.NewObjectSchema().WithProperty(selectedKey, selected)
	schema.Title = cfg.Question
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.BoolPtr(false)}
	if cfg.AllowOther {
		schema.WithProperty(otherKey, openapi3.NewStringSchema())
	}
	if cfg.Required {
		schema.WithRequired([]string{selectedKey})
	}
	return schema
}

// Spec returns the underlying kin-openapi document.
func (d *Document) Spec() *openapi3.T { return d.spec }

// AnswersSchema returns the schema submissions are validated against.
func (d *Document) AnswersSchema() *openapi3.Schema { return d.answers }

// Keys returns the answer property names in definition order.
func (d *Document) Keys() []string { return append([]string(nil), d.keys...) }

// Validate checks the generated document against the OpenAPI rules.
func (d *Document) Validate(ctx context.Context) error {
	if err := d.spec.Validate(ctx); err != nil {
		return fmt.Errorf("openapi: invalid document: %w", err)
	}
	return nil
}

// JSON renders the document as indented JSON.
func (d *Document) JSON() ([]byte, error) { return MarshalJSON(d.spec) }

// YAML renders the document as YAML.
func (d *Document) YAML() ([]byte, error) { return MarshalYAML(d.spec) }

// MarshalJSON renders a document or schema as indented JSON.
func MarshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal json: %w", err)
	}
	return data, nil
}

// MarshalYAML renders a document or schema as YAML. Values go through their
// JSON form so extension and ref fields keep their OpenAPI names.
func MarshalYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal json: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("openapi: decode json: %w", err)
	}
	data, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal yaml: %w", err)
	}
	return data, nil
}

var errNotObject = errors.New("openapi: answers must be a JSON object")
