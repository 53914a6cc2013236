package question

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Decode converts a loosely typed payload into a Definition. Both the nested
// form ({type, config: {...}}) and the flat form ({type, question, ...}) are
// accepted; in the flat form the type and id keys are metadata and are not
// part of the resulting config.
func Decode(raw map[string]any) (Definition, error) {
	if raw == nil {
		return Definition{}, fmt.Errorf("question: decode: payload is empty")
	}

	typeName, _ := raw["type"].(string)
	def := Definition{Type: ParseType(typeName)}
	if id, ok := raw["id"].(string); ok {
		def.ID = strings.TrimSpace(id)
	}

	body := raw
	if nested, ok := raw["config"].(map[string]any); ok {
		body = nested
	}

	switch def.Type {
	case TypeCheckBoxes:
		var cfg CheckBoxConfig
		if err := decodeConfig(body, &cfg); err != nil {
			return Definition{}, err
		}
		def.Config = cfg
	default:
		var cfg ParagraphConfig
		if err := decodeConfig(body, &cfg); err != nil {
			return Definition{}, err
		}
		def.Config = cfg
	}
	return def, nil
}

func decodeConfig(input map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("question: decode: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("question: decode: %w", err)
	}
	return nil
}

// UnmarshalJSON decodes either payload form into the tagged union.
func (d *Definition) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("question: unmarshal json: %w", err)
	}
	decoded, err := Decode(raw)
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}

// UnmarshalYAML decodes either payload form into the tagged union.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("question: unmarshal yaml: %w", err)
	}
	decoded, err := Decode(raw)
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}
