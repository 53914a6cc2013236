// Package model defines the editable form model synthesised from question
// definitions. Every definition yields exactly one Node: a ParagraphNode with a
// free-text answer or a CheckboxNode with an option group (plus a trailing
// "Other" option and free-text value when the definition allows it).
// Constraints are attached as ValidationRule values using the canonical
// identifiers required, minSelected and maxSelected, with numeric thresholds
// stored in Params["value"]. Builders live in internal/model; this package
// re-exports their types and adds the Synthesizer, which keeps a model in step
// with a changing definition list while preserving user input.
package model
