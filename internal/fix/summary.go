package fix

import "github.com/agentflare-ai/go-onedoc/internal/event"

// Summary splits events after the first top-level paragraph. The summary
// ends where the paragraph depth first returns to zero; a stream without
// paragraphs is all summary.
//
// Markdown paragraphs do not nest, so in practice the split always follows
// the first paragraph. A parser that nested them would move the split point
// further into the document.
func Summary(events []event.Event) (summary, rest []event.Event) {
	depth := 0
	for i, e := range events {
		switch {
		case event.IsStart(e, event.FamilyParagraph):
			depth++
		case event.IsEnd(e, event.FamilyParagraph):
			depth--
			if depth == 0 {
				return events[:i+1:i+1], events[i+1:]
			}
		}
	}
	return events, nil
}
