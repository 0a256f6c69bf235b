// Package template renders module assets with Go's text/template in strict
// mode.
package template

import "errors"

// Sentinel errors for template rendering.
var (
	// ErrTemplateParse indicates the template source is malformed.
	ErrTemplateParse = errors.New("template: parse failed")

	// ErrMissingTemplateKey indicates the template referenced a key absent
	// from the context.
	ErrMissingTemplateKey = errors.New("template: missing key")

	// ErrUnexpandedToken indicates a dynamic token survived rendering.
	ErrUnexpandedToken = errors.New("template: unexpanded token in output")
)
