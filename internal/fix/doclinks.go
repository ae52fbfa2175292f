package fix

import (
	"github.com/agentflare-ai/go-onedoc/internal/errors"
	"github.com/agentflare-ai/go-onedoc/internal/event"
	"github.com/agentflare-ai/go-onedoc/internal/linktable"
)

type scanState int

const (
	outside scanState = iota
	collecting
)

// linkScanner recognizes bracket groups: a Text("["), the events after it and
// the first Text("]").
type linkScanner struct {
	links map[string]string
	table *linktable.Table
	diag  Diagnostics

	out   []event.Event
	state scanState
	group []event.Event
	// suffix is set while collecting a group that directly follows another
	// one; such a group is dropped once it closes.
	suffix bool
	// closed is set right after a group closes, for the one-event lookahead.
	closed bool
}

// DocLinks turns the [`Name`] convention into reference links.
//
// When the code span text is a key of links, the group becomes a Reference
// link around the code span, with an identifier taken from table. An
// unknown name is reported to diag and left as written. Groups holding
// anything other than one code span are ordinary prose and pass through. A
// group directly followed by another group, as in [`Name`][], loses the
// second one. A group still open at the end of the stream is passed through.
func DocLinks(events []event.Event, links map[string]string, table *linktable.Table, diag Diagnostics) ([]event.Event, error) {
	if diag == nil {
		diag = Discard
	}
	s := &linkScanner{
		links: links,
		table: table,
		diag:  diag,
		out:   make([]event.Event, 0, len(events)),
	}
	for _, e := range events {
		if err := s.step(e); err != nil {
			return nil, err
		}
	}
	// Unclosed groups degrade to text. An unclosed suffix is kept as well.
	s.out = append(s.out, s.group...)
	return s.out, nil
}

func (s *linkScanner) step(e event.Event) error {
	switch s.state {
	case outside:
		if event.IsText(e, "[") {
			s.suffix = s.closed
			s.closed = false
			s.state = collecting
			s.group = []event.Event{e}
			return nil
		}
		s.closed = false
		s.out = append(s.out, e)
		return nil

	case collecting:
		s.group = append(s.group, e)
		if !event.IsText(e, "]") {
			return nil
		}
		group := s.group
		s.group = nil
		s.state = outside
		if s.suffix {
			s.suffix = false
			return nil
		}
		s.closed = true
		return s.resolve(group)
	}
	return nil
}

// resolve emits a closed group, including its brackets.
func (s *linkScanner) resolve(group []event.Event) error {
	interior := group[1 : len(group)-1]
	if len(interior) != 1 {
		s.out = append(s.out, group...)
		return nil
	}
	code, ok := interior[0].(event.Code)
	if !ok {
		s.out = append(s.out, group...)
		return nil
	}
	dest, ok := s.links[code.Text]
	if !ok {
		s.diag.UnresolvedLink(code.Text)
		s.out = append(s.out, group...)
		return nil
	}

	id, err := s.table.LookupOrRegister(linktable.RefName(code.Text), dest)
	if err != nil {
		return errors.Wrap(err, errors.KindConfig, "link has no usable reference name").
			WithContext("link", code.Text).
			Build()
	}
	tag := event.Link{Type: event.Reference, Dest: id}
	s.out = append(s.out, event.Start{Tag: tag}, code, event.End{Tag: tag})
	return nil
}
