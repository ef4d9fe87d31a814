// Package errors provides the classified error type used across catpages.
//
// Errors carry a category (config, content, render, filesystem, ...), a
// severity and a retry strategy, built through a fluent builder:
//
//	err := errors.RenderError("category page has a non-category slug").
//		WithContext("slug", slug).
//		Build()
//
// The CLI adapter maps categories to process exit codes.
package errors
