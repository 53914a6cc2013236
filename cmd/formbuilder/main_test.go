package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/submission"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

const surveyYAML = `
title: Onboarding
questions:
  - id: name
    type: Paragraph
    question: Name?
    required: true
  - id: tools
    type: Checkboxes
    question: Tools
    choices: [Go, Rust]
    allowOther: true
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	survey := testsupport.WriteFile(t, dir, "survey.yaml", surveyYAML)
	answers := testsupport.WriteFile(t, dir, "answers.yaml", `
- answer: Ada
- selected: [Go, Other]
  other: Zig
`)

	out, err := execute(t, "export", "--questions", survey, "--answers", answers, "--format", "json", "--log-level", "error")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var payload submission.Payload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	want := []string{"Ada", "Go, Other: Zig"}
	var got []string
	for _, entry := range payload.Entries {
		got = append(got, entry.Display())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestExportRejectsInvalidAnswers(t *testing.T) {
	dir := t.TempDir()
	survey := testsupport.WriteFile(t, dir, "survey.yaml", surveyYAML)
	answers := testsupport.WriteFile(t, dir, "answers.json", `[{"answer": ""}]`)

	_, err := execute(t, "export", "--questions", survey, "--answers", answers, "--format", "json", "--log-level", "error")
	var invalid *submission.ValidationError
	if !errors.As(err, &invalid) || len(invalid.Issues) != 1 {
		t.Fatalf("expected one validation issue, got %v", err)
	}
}

func TestSchemaYAML(t *testing.T) {
	dir := t.TempDir()
	survey := testsupport.WriteFile(t, dir, "survey.yaml", surveyYAML)

	out, err := execute(t, "schema", "--questions", survey, "--format", "yaml", "--answers-only=false", "--log-level", "error")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	for _, want := range []string{"openapi: 3.0.3", "/api/submissions:", "title: Onboarding"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected schema to contain %q:\n%s", want, out)
		}
	}
}

func TestSchemaAnswersOnly(t *testing.T) {
	dir := t.TempDir()
	survey := testsupport.WriteFile(t, dir, "survey.yaml", surveyYAML)

	out, err := execute(t, "schema", "--questions", survey, "--format", "json", "--answers-only", "--log-level", "error")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var schema struct {
		Type       string                     `json:"type"`
		Required   []string                   `json:"required"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if diff := cmp.Diff([]string{"name"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if _, ok := schema.Properties["tools"]; !ok || schema.Type != "object" {
		t.Fatalf("unexpected answers schema:\n%s", out)
	}
	if strings.Contains(out, "openapi") {
		t.Fatalf("answers-only output should not carry the document:\n%s", out)
	}
}
