// Package orchestrator wires one form-building session: the definition store,
// the synthesizer bound to it, the definition builder appending into the
// store, the submission transfer and the renderer registry. Every dependency
// can be injected; missing ones fall back to the built-in implementations.
package orchestrator
