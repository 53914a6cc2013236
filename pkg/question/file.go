package question

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk representation of an authored survey.
type Document struct {
	Title     string       `json:"title,omitempty" yaml:"title,omitempty"`
	Questions []Definition `json:"questions" yaml:"questions"`
}

// LoadFile reads a JSON or YAML survey document from disk.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("question: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a survey document from fsys.
func LoadFS(fsys fs.FS, path string) (Document, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Document{}, fmt.Errorf("question: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data using the format implied by the file extension. Files
// without a recognised extension are parsed as YAML, which also accepts JSON.
func Parse(data []byte, path string) (Document, error) {
	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("question: parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("question: parse %s: %w", path, err)
		}
	}

	for i, def := range doc.Questions {
		if err := def.Validate(); err != nil {
			return Document{}, fmt.Errorf("question: %s: question %d: %w", path, i, err)
		}
	}
	return doc, nil
}
