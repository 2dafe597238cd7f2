// Package api defines the wire-level contract of the gateway: the
// execution error taxonomy, its HTTP status mapping, and the response
// body shapes.
//
// Every component constructs errors of exactly one kind; the HTTP layer
// never re-labels a kind except to wrap unclassified failures as
// gateway errors.
package api
