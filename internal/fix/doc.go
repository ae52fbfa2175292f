// Package fix holds the semantic fixups applied to a parsed document before
// it is rendered again.
//
// Every fixup takes an event stream and returns a new one; the input slice is
// never modified. Stream-level failures are classified errors from
// internal/errors. Findings that do not stop rendering, such as a link that
// cannot be resolved, are reported through a Diagnostics sink.
package fix

// Diagnostics receives non-fatal findings as they are encountered.
type Diagnostics interface {
	// UnresolvedLink reports a link target missing from the link config.
	// The link is left in the document as written.
	UnresolvedLink(target string)
}

// DiagnosticsFunc adapts a function to Diagnostics.
type DiagnosticsFunc func(target string)

func (f DiagnosticsFunc) UnresolvedLink(target string) { f(target) }

// Discard drops every finding.
var Discard Diagnostics = DiagnosticsFunc(func(string) {})
