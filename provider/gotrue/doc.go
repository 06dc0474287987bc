// Package gotrue implements the identity client against a
// GoTrue-compatible auth service: local token decoding, server-side
// session verification, password and refresh grants, sign out, and
// ordered identity change events.
package gotrue
