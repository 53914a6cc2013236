package model

import "encoding/json"

// MarshalJSON includes the node kind so serialised models stay self-describing.
func (n *ParagraphNode) MarshalJSON() ([]byte, error) {
	type alias ParagraphNode
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*alias
	}{Kind: KindParagraph, alias: (*alias)(n)})
}

// MarshalJSON includes the node kind so serialised models stay self-describing.
func (n *CheckboxNode) MarshalJSON() ([]byte, error) {
	type alias CheckboxNode
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*alias
	}{Kind: KindCheckbox, alias: (*alias)(n)})
}
