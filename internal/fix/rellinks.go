package fix

import (
	"regexp"
	"strings"

	"github.com/agentflare-ai/go-onedoc/internal/errors"
	"github.com/agentflare-ai/go-onedoc/internal/event"
)

// absoluteDest matches same-page fragments and URLs with an authority.
var absoluteDest = regexp.MustCompile(`^(#|([a-z+]+:)?//)`)

// IsRelative reports whether dest points at a local path.
func IsRelative(dest string) bool {
	return !absoluteDest.MatchString(dest)
}

// SplitFragment splits dest at its first '#'. The fragment keeps the '#'.
func SplitFragment(dest string) (path, fragment string) {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		return dest[:i], dest[i:]
	}
	return dest, ""
}

// RelLinks rewrites inline links to local paths through links, keeping any
// fragment: with "guide.md" mapped to "https://x/guide", a link to
// "guide.md#setup" becomes "https://x/guide#setup". Paths missing from links
// are reported to diag and the link is kept as written.
func RelLinks(events []event.Event, links map[string]string, diag Diagnostics) ([]event.Event, error) {
	if diag == nil {
		diag = Discard
	}
	out := make([]event.Event, 0, len(events))
	for i := 0; i < len(events); i++ {
		start, ok := events[i].(event.Start)
		if !ok {
			out = append(out, events[i])
			continue
		}
		tag, ok := start.Tag.(event.Link)
		if !ok || tag.Type != event.Inline || !IsRelative(tag.Dest) {
			out = append(out, events[i])
			continue
		}

		end, err := closingLink(events, i)
		if err != nil {
			return nil, err
		}
		path, fragment := SplitFragment(tag.Dest)
		mapped, ok := links[path]
		if !ok {
			diag.UnresolvedLink(path)
			out = append(out, events[i:end+1]...)
			i = end
			continue
		}
		tag.Dest = mapped + fragment
		out = append(out, event.Start{Tag: tag})
		out = append(out, events[i+1:end]...)
		out = append(out, event.End{Tag: tag})
		i = end
	}
	return out, nil
}

// closingLink returns the index of the End matching the link started at
// events[start].
func closingLink(events []event.Event, start int) (int, error) {
	depth := 0
	for j := start; j < len(events); j++ {
		switch e := events[j].(type) {
		case event.Start:
			if e.Tag.Family() == event.FamilyLink {
				depth++
			}
		case event.End:
			if e.Tag.Family() == event.FamilyLink {
				depth--
				if depth == 0 {
					return j, nil
				}
			}
		}
	}
	return 0, errors.New(errors.KindMalformedStream, "link is never closed").
		WithContext("event", start).
		Build()
}
