package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/question"
)

// SampleDocument returns a two-question survey: a required paragraph and a
// checkbox group that allows "Other".
func SampleDocument() question.Document {
	return question.Document{
		Title: "Onboarding",
		Questions: []question.Definition{
			{ID: "name", Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "Name?", Required: true}},
			{ID: "tools", Type: question.TypeCheckBoxes, Config: question.CheckBoxConfig{
				Question:   "Tools",
				Choices:    []string{"Go", "Rust"},
				AllowOther: true,
			}},
		},
	}
}

// NewSession builds a session preloaded with SampleDocument and closes it
// when the test ends.
func NewSession(t *testing.T, options ...orchestrator.Option) *orchestrator.Orchestrator {
	t.Helper()

	session := orchestrator.New(options...)
	t.Cleanup(func() { _ = session.Close() })
	if err := session.LoadDocument(SampleDocument()); err != nil {
		t.Fatalf("load sample document: %v", err)
	}
	return session
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// AssertGolden compares got with the golden file at path. With UPDATE_GOLDENS
// set the file is rewritten instead.
func AssertGolden(t *testing.T, path string, got []byte) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", filepath.Base(path), diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
