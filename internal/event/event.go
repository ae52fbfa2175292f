// Package event defines the Markdown event stream that every fixup consumes
// and produces.
//
// A stream is a flat, ordered slice of events. Container constructs are
// bracketed by a Start and an End carrying tags of the same Family; leaf
// content (text, code spans, breaks) appears between them. Both Event and Tag
// are closed: their marker methods are unexported, so the variants declared
// here are the only ones a type switch has to handle.
package event

import "fmt"

// Event is one token of a Markdown event stream.
type Event interface {
	isEvent()
}

// Start opens a container tag.
type Start struct{ Tag Tag }

// End closes the container opened by the matching Start.
type End struct{ Tag Tag }

// Text is literal Markdown source text.
type Text struct{ Text string }

// Code is an inline code span.
type Code struct{ Text string }

// HTML is raw HTML, inline or as a line of an HTMLBlock.
type HTML struct{ Text string }

// SoftBreak is a line ending inside a paragraph.
type SoftBreak struct{}

// HardBreak is a forced line break.
type HardBreak struct{}

// Rule is a thematic break.
type Rule struct{}

// FootnoteReference is a `[^label]` reference.
type FootnoteReference struct{ Label string }

// TaskListMarker is the `[ ]` / `[x]` marker of a task list item.
type TaskListMarker struct{ Checked bool }

func (Start) isEvent()             {}
func (End) isEvent()               {}
func (Text) isEvent()              {}
func (Code) isEvent()              {}
func (HTML) isEvent()              {}
func (SoftBreak) isEvent()         {}
func (HardBreak) isEvent()         {}
func (Rule) isEvent()              {}
func (FootnoteReference) isEvent() {}
func (TaskListMarker) isEvent()    {}

// IsText reports whether e is a Text event with exactly the given content.
func IsText(e Event, s string) bool {
	t, ok := e.(Text)
	return ok && t.Text == s
}

// String renders e for diagnostics.
func String(e Event) string {
	switch e := e.(type) {
	case Start:
		return fmt.Sprintf("Start(%s)", e.Tag.Family())
	case End:
		return fmt.Sprintf("End(%s)", e.Tag.Family())
	case Text:
		return fmt.Sprintf("Text(%q)", e.Text)
	case Code:
		return fmt.Sprintf("Code(%q)", e.Text)
	case HTML:
		return fmt.Sprintf("HTML(%q)", e.Text)
	case SoftBreak:
		return "SoftBreak"
	case HardBreak:
		return "HardBreak"
	case Rule:
		return "Rule"
	case FootnoteReference:
		return fmt.Sprintf("FootnoteReference(%q)", e.Label)
	case TaskListMarker:
		return fmt.Sprintf("TaskListMarker(%t)", e.Checked)
	default:
		return fmt.Sprintf("unknown event %T", e)
	}
}
