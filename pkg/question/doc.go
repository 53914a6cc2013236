// Package question defines the authored question definitions a survey is
// built from. A Definition is a tagged union: the Type selects which Config
// variant it carries (ParagraphConfig or CheckBoxConfig) and the variant alone
// determines the shape of the synthesised form node. Definitions can be
// decoded from loosely typed maps (JSON, YAML, form posts) via Decode, which
// accepts both the nested {type, config} layout and the flat layout where the
// type sits next to the question fields.
package question
