package fix

import (
	"github.com/agentflare-ai/go-onedoc/internal/errors"
	"github.com/agentflare-ai/go-onedoc/internal/event"
)

// Valid heading levels.
const (
	MinHeadingLevel = 1
	MaxHeadingLevel = 6
)

// Headings moves every heading one level down, so the document title the
// template supplies stays the only level-1 heading.
func Headings(events []event.Event) ([]event.Event, error) {
	return ShiftHeadings(events, 1)
}

// ShiftHeadings adds by to the level of every heading. A level that leaves
// the 1-6 range is a HeadingLevelOverflow error rather than being clamped.
func ShiftHeadings(events []event.Event, by int) ([]event.Event, error) {
	out := make([]event.Event, 0, len(events))
	for i, e := range events {
		switch e := e.(type) {
		case event.Start:
			if h, ok := e.Tag.(event.Heading); ok {
				shifted, err := shiftHeading(h, by, i)
				if err != nil {
					return nil, err
				}
				out = append(out, event.Start{Tag: shifted})
				continue
			}
		case event.End:
			if h, ok := e.Tag.(event.Heading); ok {
				shifted, err := shiftHeading(h, by, i)
				if err != nil {
					return nil, err
				}
				out = append(out, event.End{Tag: shifted})
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func shiftHeading(h event.Heading, by, index int) (event.Heading, error) {
	level := h.Level + by
	if level < MinHeadingLevel || level > MaxHeadingLevel {
		return h, errors.Newf(errors.KindHeadingLevelOverflow,
			"heading level %d cannot be shifted by %d", h.Level, by).
			WithContext("level", h.Level).
			WithContext("event", index).
			Build()
	}
	h.Level = level
	return h, nil
}
