package fix

import (
	"strings"

	"github.com/agentflare-ai/go-onedoc/internal/errors"
	"github.com/agentflare-ai/go-onedoc/internal/event"
)

// Language describes the language documentation examples are written in.
type Language struct {
	// Name is the fence info string of the language.
	Name string
	// HiddenMarker starts lines that are compiled but not shown. Empty
	// means the language has no hidden lines.
	HiddenMarker string
}

var (
	Rust = Language{Name: "rust", HiddenMarker: "#"}
	Go   = Language{Name: "go"}
)

// Primary reports whether a block belongs to the language: indented blocks,
// fenced blocks without an info string and fenced blocks tagged with Name.
func (l Language) Primary(tag event.CodeBlock) bool {
	if tag.Kind == event.Indented {
		return true
	}
	return tag.Info == "" || tag.Info == l.Name
}

// Hidden reports whether a code line is a hidden line.
func (l Language) Hidden(line string) bool {
	if l.HiddenMarker == "" {
		return false
	}
	trimmed := strings.TrimSpace(line)
	return trimmed == l.HiddenMarker || strings.HasPrefix(trimmed, l.HiddenMarker+" ")
}

// CodeBlocks normalizes the code blocks written in lang. Fenced blocks
// without an info string are tagged with the language name and hidden lines
// are removed from the body. Blocks in other languages are left untouched.
//
// A code block must consist of its Start, any number of Text events and a
// matching End; anything else is a MalformedStream error.
func CodeBlocks(events []event.Event, lang Language) ([]event.Event, error) {
	out := make([]event.Event, 0, len(events))
	for i := 0; i < len(events); i++ {
		start, ok := events[i].(event.Start)
		if !ok {
			out = append(out, events[i])
			continue
		}
		tag, ok := start.Tag.(event.CodeBlock)
		if !ok || !lang.Primary(tag) {
			out = append(out, events[i])
			continue
		}
		if tag.Kind == event.Fenced && tag.Info == "" {
			tag.Info = lang.Name
		}
		out = append(out, event.Start{Tag: tag})

		j := i + 1
	body:
		for ; ; j++ {
			if j == len(events) {
				return nil, errors.New(errors.KindMalformedStream, "code block is never closed").
					WithContext("event", i).
					Build()
			}
			switch e := events[j].(type) {
			case event.Text:
				if code := lang.filter(e.Text); code != "" {
					out = append(out, event.Text{Text: code})
				}
			case event.End:
				if e.Tag.Family() != event.FamilyCodeBlock {
					return nil, unexpectedInCodeBlock(e, j)
				}
				out = append(out, event.End{Tag: tag})
				break body
			default:
				return nil, unexpectedInCodeBlock(e, j)
			}
		}
		i = j
	}
	return out, nil
}

func unexpectedInCodeBlock(e event.Event, index int) error {
	return errors.Newf(errors.KindMalformedStream,
		"expected End(CodeBlock), got %s", event.String(e)).
		WithContext("event", index).
		Build()
}

// filter drops hidden lines and terminates every remaining line with "\n".
func (l Language) filter(code string) string {
	var b strings.Builder
	for _, line := range lines(code) {
		if l.Hidden(line) {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// lines splits s into lines without their terminators. A final terminator
// does not start another line, and "\r\n" counts as one terminator.
func lines(s string) []string {
	if s == "" {
		return nil
	}
	out := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, line := range out {
		out[i] = strings.TrimSuffix(line, "\r")
	}
	return out
}
