package pipeline

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-onedoc/internal/errors"
	"github.com/agentflare-ai/go-onedoc/internal/event"
	"github.com/agentflare-ai/go-onedoc/internal/markdown"
	"github.com/agentflare-ai/go-onedoc/internal/source"
)

const crateDoc = "# Crate\n\n" +
	"Short summary with [`Foo`].\n\n" +
	"## Usage\n\n" +
	"```\n# use demo::Foo;\nlet f = Foo::new();\n```\n\n" +
	"See [`Bar`][] too."

func newTestProcessor(links map[string]string) (*Processor, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return New(links, logger), &logs
}

func TestProcess_RustDoc(t *testing.T) {
	p, logs := newTestProcessor(map[string]string{"Foo": "https://x/foo"})
	res, err := p.Process([]source.Document{{Path: "src/lib.rs", Kind: source.RustDoc, Text: crateDoc}})
	require.NoError(t, err)

	assert.Equal(t, markdown.Parse("## Crate\n\nShort summary with [`Foo`][foo]."), markdown.Parse(res.Summary))
	assert.True(t, strings.HasSuffix(res.Summary, "\n\nShort summary with [`Foo`][foo]."), res.Summary)
	assert.Equal(t, "### Usage\n\n```rust\nlet f = Foo::new();\n```\n\nSee [`Bar`] too.", res.Contents)
	assert.Equal(t, res.Summary+"\n\n"+res.Contents, res.FullContents)
	assert.Equal(t, "- [Crate](#crate)\n  - [Usage](#usage)", res.TOC)
	assert.Equal(t, "\n\n[foo]: https://x/foo\n", res.Footer)

	assert.Contains(t, logs.String(), "unprocessed link")
	assert.Contains(t, logs.String(), "link=Bar")
	assert.Contains(t, logs.String(), "file=src/lib.rs")
}

func TestProcess_GoDocKeepsHashLines(t *testing.T) {
	p, _ := newTestProcessor(nil)
	text := "Package demo does things.\n\n```\n# not hidden in Go\n```"
	res, err := p.Process([]source.Document{{Path: "doc.go", Kind: source.GoDoc, Text: text}})
	require.NoError(t, err)
	assert.Equal(t, "Package demo does things.", res.Summary)
	assert.Equal(t, "```go\n# not hidden in Go\n```", res.Contents)
}

func TestProcess_MarkdownRelativeLinks(t *testing.T) {
	p, logs := newTestProcessor(map[string]string{"setup.md": "https://x/setup"})
	docs := []source.Document{
		{Path: "intro.md", Kind: source.Markdown, Text: "# Guide\n\nRead [setup](setup.md#install) and [more](more.md)."},
		{Path: "extra.md", Kind: source.Markdown, Text: "Appendix [`Foo`]."},
	}
	res, err := p.Process(docs)
	require.NoError(t, err)

	assert.Equal(t, markdown.Parse("## Guide\n\nRead [setup](https://x/setup#install) and [more](more.md)."), markdown.Parse(res.Summary))
	assert.Equal(t, "Appendix [`Foo`].", res.Contents)
	assert.Equal(t, "", res.Footer)
	assert.Contains(t, logs.String(), "link=more.md")
}

func TestProcess_TableSharedAcrossDocuments(t *testing.T) {
	p, _ := newTestProcessor(map[string]string{"Foo": "https://x/foo"})
	_, err := p.Process([]source.Document{{Path: "a.rs", Kind: source.RustDoc, Text: "Uses [`Foo`]."}})
	require.NoError(t, err)
	res, err := p.Process([]source.Document{{Path: "b.rs", Kind: source.RustDoc, Text: "Also [`Foo`]."}})
	require.NoError(t, err)

	assert.Equal(t, "Also [`Foo`][foo].", res.Summary)
	assert.Equal(t, 1, p.Table().Len())
}

func TestProcess_FooterListsOnlyOwnLinks(t *testing.T) {
	p, _ := newTestProcessor(map[string]string{"Foo": "https://x/foo", "foo()": "https://x/foo-fn", "Bar": "https://x/bar"})
	first, err := p.Process([]source.Document{{Path: "a.rs", Kind: source.RustDoc, Text: "Uses [`Foo`] and [`Bar`]."}})
	require.NoError(t, err)
	assert.Equal(t, "\n\n[bar]: https://x/bar\n[foo]: https://x/foo\n", first.Footer)

	second, err := p.Process([]source.Document{{Path: "b.rs", Kind: source.RustDoc, Text: "Calls [`foo()`]."}})
	require.NoError(t, err)
	assert.Equal(t, "Calls [`foo()`][foo-1].", second.Summary)
	assert.Equal(t, "\n\n[foo-1]: https://x/foo-fn\n", second.Footer)

	third, err := p.Process([]source.Document{{Path: "c.md", Kind: source.Markdown, Text: "Plain prose."}})
	require.NoError(t, err)
	assert.Equal(t, "", third.Footer)
}

func TestProcess_TOCResolvesLinksInHeadings(t *testing.T) {
	p, _ := newTestProcessor(map[string]string{"Foo": "https://x/foo"})
	res, err := p.Process([]source.Document{{Path: "src/lib.rs", Kind: source.RustDoc, Text: "Summary.\n\n# Using [`Foo`]\n\nBody."}})
	require.NoError(t, err)

	assert.Equal(t, "- [Using `Foo`](#using-foo)", res.TOC)
	assert.Contains(t, res.Contents, "Using [`Foo`][foo]")
	assert.Equal(t, "\n\n[foo]: https://x/foo\n", res.Footer)
}

func TestBalanced(t *testing.T) {
	require.NoError(t, balanced(markdown.Parse("# Title\n\nText."), "a.md"))

	err := balanced([]event.Event{event.Start{Tag: event.Paragraph{}}, event.Text{Text: "open"}}, "a.md")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindMalformedStream))
	assert.Equal(t, "a.md", errors.PathOf(err))
}

func TestProcess_ErrorsCarryPath(t *testing.T) {
	p, _ := newTestProcessor(nil)
	_, err := p.Process([]source.Document{{Path: "deep.md", Kind: source.Markdown, Text: "###### Too deep"}})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindHeadingLevelOverflow))
	assert.Equal(t, "deep.md", errors.PathOf(err))

	_, err = p.Process([]source.Document{{Path: "x.txt", Text: "text"}})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindUnsupportedFileKind))
}

func TestProcess_OutputIsStableUnderReparse(t *testing.T) {
	p, _ := newTestProcessor(map[string]string{"Foo": "https://x/foo"})
	events, err := p.Fix(source.Document{Path: "src/lib.rs", Kind: source.RustDoc, Text: crateDoc})
	require.NoError(t, err)

	first, err := markdown.Render(events)
	require.NoError(t, err)
	second, err := markdown.Render(markdown.Parse(first))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNew_NilLogger(t *testing.T) {
	p := New(nil, nil)
	_, err := p.Process([]source.Document{{Path: "a.rs", Kind: source.RustDoc, Text: "[`Missing`]"}})
	require.NoError(t, err)
}
