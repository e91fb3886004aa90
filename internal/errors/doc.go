// Package errors provides structured, actionable error messages for the
// cellstore tooling surface (CLI, config loading, inspector).
//
// Each registered error has a unique code (e.g. "E101") mapping to a short
// message, a detailed explanation, and a suggestion. The core cell package
// does not use this: store and selector failures there are plain propagated
// errors and panics surfaced to the immediate caller.
//
// Usage:
//
//	err := errors.New("E101").
//	    Wrap(ioErr).
//	    WithSuggestion("Run `cellstore demo` from the directory holding cellstore.toml")
package errors
