// Package sanitize provides HTML sanitization for user-generated note
// content. Uses bluemonday to strip dangerous HTML (script tags, event
// handlers, javascript: URLs) while preserving basic formatting, since
// note bodies are rendered as HTML on the profile page.
package sanitize

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Policies are initialized once via sync.Once for thread-safe lazy
// initialization.
var (
	ugcPolicy    *bluemonday.Policy
	strictPolicy *bluemonday.Policy
	policyOnce   sync.Once
)

func initPolicies() {
	policyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// Content sanitizes a note body by stripping dangerous elements (script,
// iframe, event handlers, javascript: URLs) while keeping safe formatting
// tags such as <b>, <em>, <ul>, <a>.
//
// This MUST be called on note content before storing it in the database.
// The sanitized output is safe for rendering in browsers without further
// escaping.
func Content(input string) string {
	if input == "" {
		return ""
	}
	initPolicies()
	return ugcPolicy.Sanitize(input)
}

// Text strips ALL HTML from the input, leaving plain text only. Used for
// note titles, which are rendered in contexts where markup is never wanted.
//
// The strict policy entity-encodes whatever survives tag stripping, so the
// result is unescaped back to literal text. Callers store the output as
// plain text and rely on template escaping at render time; "Milk & Cookies"
// stays "Milk & Cookies" all the way through.
func Text(input string) string {
	if input == "" {
		return ""
	}
	initPolicies()
	return html.UnescapeString(strictPolicy.Sanitize(input))
}
