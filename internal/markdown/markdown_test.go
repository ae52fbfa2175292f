package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-onedoc/internal/errors"
	"github.com/agentflare-ai/go-onedoc/internal/event"
)

func TestParse_SplitsUnresolvedBrackets(t *testing.T) {
	events := Parse("See [`Foo`] here.")
	require.Equal(t, []event.Event{
		event.Start{Tag: event.Paragraph{}},
		event.Text{Text: "See "},
		event.Text{Text: "["},
		event.Code{Text: "Foo"},
		event.Text{Text: "]"},
		event.Text{Text: " here."},
		event.End{Tag: event.Paragraph{}},
	}, events)
}

func TestParse_KeepsEscapedBrackets(t *testing.T) {
	events := Parse(`a \[b\] c`)
	require.Equal(t, []event.Event{
		event.Start{Tag: event.Paragraph{}},
		event.Text{Text: `a \[b\] c`},
		event.End{Tag: event.Paragraph{}},
	}, events)
}

func TestParse_FencedCodeBlock(t *testing.T) {
	events := Parse("```\nfn main() {}\n```\n")
	tag := event.CodeBlock{Kind: event.Fenced}
	require.Equal(t, []event.Event{
		event.Start{Tag: tag},
		event.Text{Text: "fn main() {}\n"},
		event.End{Tag: tag},
	}, events)
}

func TestParse_InlineLink(t *testing.T) {
	events := Parse("[docs](guide.md#setup)")
	tag := event.Link{Type: event.Inline, Dest: "guide.md#setup"}
	require.Equal(t, []event.Event{
		event.Start{Tag: event.Paragraph{}},
		event.Start{Tag: tag},
		event.Text{Text: "docs"},
		event.End{Tag: tag},
		event.End{Tag: event.Paragraph{}},
	}, events)
}

func TestParse_ProducesBalancedStreams(t *testing.T) {
	require.NoError(t, event.Validate(Parse(sampleDocument)))
}

func TestRender_Conventions(t *testing.T) {
	code := event.CodeBlock{Kind: event.Fenced, Info: "rust"}
	list := event.List{Tight: true}
	events := []event.Event{
		event.Start{Tag: event.Heading{Level: 2}},
		event.Text{Text: "Usage"},
		event.End{Tag: event.Heading{Level: 2}},
		event.Start{Tag: list},
		event.Start{Tag: event.Item{}},
		event.Text{Text: "one"},
		event.End{Tag: event.Item{}},
		event.Start{Tag: event.Item{}},
		event.Start{Tag: event.Emphasis{}},
		event.Text{Text: "two"},
		event.End{Tag: event.Emphasis{}},
		event.End{Tag: event.Item{}},
		event.End{Tag: list},
		event.Start{Tag: code},
		event.Text{Text: "let x = 1;\n"},
		event.End{Tag: code},
		event.Rule{},
	}
	out, err := Render(events)
	require.NoError(t, err)
	require.Equal(t, events, Parse(out))
	require.Contains(t, out, "\n\n```rust\nlet x = 1;\n```\n")
}

func TestRender_ReferenceLink(t *testing.T) {
	tag := event.Link{Type: event.Reference, Dest: "foo"}
	out, err := Render([]event.Event{
		event.Start{Tag: event.Paragraph{}},
		event.Text{Text: "Use "},
		event.Start{Tag: tag},
		event.Code{Text: "Foo"},
		event.End{Tag: tag},
		event.Text{Text: "."},
		event.End{Tag: event.Paragraph{}},
	})
	require.NoError(t, err)
	require.Equal(t, "Use [`Foo`][foo].", out)
}

func TestRender_OrderedLooseListAndQuote(t *testing.T) {
	list := event.List{Ordered: true, Start: 3}
	events := []event.Event{
		event.Start{Tag: list},
		event.Start{Tag: event.Item{}},
		event.Start{Tag: event.Paragraph{}},
		event.Text{Text: "first"},
		event.SoftBreak{},
		event.Text{Text: "wrapped"},
		event.End{Tag: event.Paragraph{}},
		event.End{Tag: event.Item{}},
		event.Start{Tag: event.Item{}},
		event.Start{Tag: event.Paragraph{}},
		event.Text{Text: "second"},
		event.End{Tag: event.Paragraph{}},
		event.End{Tag: event.Item{}},
		event.End{Tag: list},
		event.Start{Tag: event.BlockQuote{}},
		event.Start{Tag: event.Paragraph{}},
		event.Text{Text: "quoted"},
		event.End{Tag: event.Paragraph{}},
		event.End{Tag: event.BlockQuote{}},
	}
	out, err := Render(events)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "3."), out)
	require.True(t, strings.HasSuffix(out, "\n\n> quoted"), out)
	require.Equal(t, events, Parse(out))
}

func TestRender_CodeSpanBackticks(t *testing.T) {
	require.Equal(t, "`a`", codeSpan("a"))
	require.Equal(t, "``a`b ``", codeSpan("a`b "))
	require.Equal(t, "`` `x ``", codeSpan("`x"))
	require.Equal(t, "`` ` ``", codeSpan("`"))
}

func TestRender_LongerFenceWhenBodyHasFence(t *testing.T) {
	code := event.CodeBlock{Kind: event.Fenced, Info: "markdown"}
	out, err := Render([]event.Event{
		event.Start{Tag: code},
		event.Text{Text: "```\nx\n```\n"},
		event.End{Tag: code},
	})
	require.NoError(t, err)
	require.Equal(t, "````markdown\n```\nx\n```\n````", out)
}

func TestRender_HeadingsReadBack(t *testing.T) {
	for _, src := range []string{
		"# Title",
		"## Usage",
		"## - not a list",
		"## 1. not a list either",
		"## Section {#section .lead}",
		"### Deep [`Foo`][foo]\n\n[foo]: https://x/foo",
		"- item\n  ## inside",
	} {
		events := Parse(src)
		out, err := Render(events)
		require.NoError(t, err, src)
		require.Equal(t, events, Parse(out), "%q rendered as %q", src, out)
	}
}

func TestRender_GoBlocksKeptVerbatim(t *testing.T) {
	code := event.CodeBlock{Kind: event.Fenced, Info: "go"}
	out, err := Render([]event.Event{
		event.Start{Tag: code},
		event.Text{Text: "x :=   1\n"},
		event.End{Tag: code},
	})
	require.NoError(t, err)
	require.Equal(t, "```go\nx :=   1\n```", out)
}

func TestRender_PartialStreams(t *testing.T) {
	out, err := Render([]event.Event{
		event.End{Tag: event.Item{}},
		event.Start{Tag: event.Paragraph{}},
		event.Text{Text: "tail"},
		event.End{Tag: event.Paragraph{}},
		event.End{Tag: event.List{}},
	})
	require.NoError(t, err)
	require.Equal(t, "tail", out)

	out, err = Render([]event.Event{
		event.Start{Tag: event.Paragraph{}},
		event.Text{Text: "open"},
	})
	require.NoError(t, err)
	require.Equal(t, "open", out)
}

func TestRender_MismatchedEnd(t *testing.T) {
	_, err := Render([]event.Event{
		event.Start{Tag: event.Paragraph{}},
		event.End{Tag: event.Heading{Level: 1}},
	})
	require.Error(t, err)
	require.True(t, errors.IsKind(err, errors.KindMalformedStream))
}

func TestRender_Deterministic(t *testing.T) {
	events := Parse(sampleDocument)
	a, err := Render(events)
	require.NoError(t, err)
	b, err := Render(events)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

const sampleDocument = `Setext title
============

Intro with _emphasis_, **strong**, ~~gone~~, ` + "`code`" + ` and a [link](https://example.com "Example").
Line with hard break\
next line and an image ![logo](logo.png).

## Section {#section .lead}

1) first
2) second
   - nested

* loose one

* loose two

> quoted
> text

    indented code

` + "```rust\nfn main() {}\n```" + `

| left | right |
| :--- | ----: |
| a    | b     |

- [x] done
- [ ] todo

<div>
raw html
</div>

Autolink <https://example.com/x> and inline <span>html</span>.

Plain [brackets] and [` + "`Code`" + `][] suffix.

A note[^n].

[^n]: The footnote.
`

func TestRoundTrip_IsIdempotent(t *testing.T) {
	first := Parse(sampleDocument)
	out, err := Render(first)
	require.NoError(t, err)

	second := Parse(out)
	require.Equal(t, first, second)

	again, err := Render(second)
	require.NoError(t, err)
	require.Equal(t, out, again)
}
