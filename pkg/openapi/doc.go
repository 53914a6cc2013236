// Package openapi describes the answers a survey accepts as an OpenAPI 3
// document built with kin-openapi. The document carries one schema keyed by
// definition ID; it validates JSON answer submissions before they reach the
// form model and can be published for API clients.
package openapi
