// Package markdown converts between Markdown text and the event stream.
//
// Parsing is delegated to goldmark; the resulting AST is flattened into
// events. Text events keep the raw source of the text they cover, escapes
// included, so rendering them back reproduces valid Markdown without having
// to re-escape anything. Every unescaped '[' and ']' in text becomes an event
// of its own, so bracketed prose that did not form a link is visible to the
// fixups regardless of how goldmark merged the surrounding text.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/agentflare-ai/go-onedoc/internal/event"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.Footnote,
		),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
}

// ParseAST parses source with the same parser configuration Parse uses.
func ParseAST(source []byte) gmast.Node {
	return newMarkdown().Parser().Parse(text.NewReader(source))
}

// Parse tokenizes Markdown source into an event stream.
func Parse(source string) []event.Event {
	src := []byte(source)
	root := ParseAST(src)
	c := &converter{source: src, footnotes: footnoteLabels(root)}
	_ = gmast.Walk(root, c.walk)
	return c.events
}

type converter struct {
	source    []byte
	events    []event.Event
	footnotes map[int]string
}

func (c *converter) emit(events ...event.Event) {
	c.events = append(c.events, events...)
}

func (c *converter) container(entering bool, tag event.Tag) {
	if entering {
		c.emit(event.Start{Tag: tag})
	} else {
		c.emit(event.End{Tag: tag})
	}
}

func (c *converter) walk(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
	switch node := n.(type) {
	case *gmast.Document, *gmast.TextBlock, *extast.FootnoteList:
	case *gmast.Paragraph:
		c.container(entering, event.Paragraph{})
	case *gmast.Heading:
		c.container(entering, c.heading(node))
	case *gmast.Blockquote:
		c.container(entering, event.BlockQuote{})
	case *gmast.List:
		c.container(entering, event.List{Ordered: node.IsOrdered(), Start: node.Start, Tight: node.IsTight})
	case *gmast.ListItem:
		c.container(entering, event.Item{})
	case *gmast.ThematicBreak:
		if entering {
			c.emit(event.Rule{})
		}
	case *gmast.CodeBlock:
		if entering {
			c.codeBlock(event.CodeBlock{Kind: event.Indented}, node.Lines())
		}
		return gmast.WalkSkipChildren, nil
	case *gmast.FencedCodeBlock:
		if entering {
			tag := event.CodeBlock{Kind: event.Fenced}
			if node.Info != nil {
				tag.Info = string(node.Info.Segment.Value(c.source))
			}
			c.codeBlock(tag, node.Lines())
		}
		return gmast.WalkSkipChildren, nil
	case *gmast.HTMLBlock:
		if entering {
			c.htmlBlock(node)
		}
		return gmast.WalkSkipChildren, nil
	case *gmast.Text:
		if entering {
			c.splitText(string(node.Segment.Value(c.source)))
			switch {
			case node.HardLineBreak():
				c.emit(event.HardBreak{})
			case node.SoftLineBreak():
				c.emit(event.SoftBreak{})
			}
		}
	case *gmast.String:
		if entering {
			c.splitText(string(node.Value))
		}
	case *gmast.CodeSpan:
		if entering {
			c.emit(event.Code{Text: c.codeSpan(node)})
		}
		return gmast.WalkSkipChildren, nil
	case *gmast.Emphasis:
		if node.Level >= 2 {
			c.container(entering, event.Strong{})
		} else {
			c.container(entering, event.Emphasis{})
		}
	case *gmast.Link:
		c.container(entering, event.Link{Type: event.Inline, Dest: string(node.Destination), Title: string(node.Title)})
	case *gmast.Image:
		c.container(entering, event.Image{Type: event.Inline, Dest: string(node.Destination), Title: string(node.Title)})
	case *gmast.AutoLink:
		if entering {
			tag := event.Link{Type: event.Autolink, Dest: string(node.URL(c.source))}
			c.emit(event.Start{Tag: tag}, event.Text{Text: string(node.Label(c.source))}, event.End{Tag: tag})
		}
		return gmast.WalkSkipChildren, nil
	case *gmast.RawHTML:
		if entering {
			var b strings.Builder
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				b.Write(seg.Value(c.source))
			}
			c.emit(event.HTML{Text: b.String()})
		}
		return gmast.WalkSkipChildren, nil
	case *extast.Strikethrough:
		c.container(entering, event.Strikethrough{})
	case *extast.TaskCheckBox:
		if entering {
			c.emit(event.TaskListMarker{Checked: node.IsChecked})
		}
	case *extast.Table:
		c.container(entering, event.Table{Alignments: alignments(node.Alignments)})
	case *extast.TableHeader:
		c.container(entering, event.TableHead{})
	case *extast.TableRow:
		c.container(entering, event.TableRow{})
	case *extast.TableCell:
		c.container(entering, event.TableCell{})
	case *extast.Footnote:
		c.container(entering, event.FootnoteDefinition{Label: string(node.Ref)})
	case *extast.FootnoteLink:
		if entering {
			c.emit(event.FootnoteReference{Label: c.footnotes[node.Index]})
		}
	case *extast.FootnoteBacklink:
		return gmast.WalkSkipChildren, nil
	}
	return gmast.WalkContinue, nil
}

func (c *converter) heading(node *gmast.Heading) event.Heading {
	tag := event.Heading{Level: node.Level}
	if v, ok := node.AttributeString("id"); ok {
		if b, ok := v.([]byte); ok {
			tag.ID = string(b)
		}
	}
	if v, ok := node.AttributeString("class"); ok {
		if b, ok := v.([]byte); ok {
			tag.Classes = strings.Fields(string(b))
		}
	}
	return tag
}

func (c *converter) codeBlock(tag event.CodeBlock, lines *text.Segments) {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	c.emit(event.Start{Tag: tag})
	if b.Len() > 0 {
		c.emit(event.Text{Text: b.String()})
	}
	c.emit(event.End{Tag: tag})
}

func (c *converter) htmlBlock(node *gmast.HTMLBlock) {
	c.emit(event.Start{Tag: event.HTMLBlock{}})
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		c.emit(event.HTML{Text: string(seg.Value(c.source))})
	}
	if node.HasClosure() {
		c.emit(event.HTML{Text: string(node.ClosureLine.Value(c.source))})
	}
	c.emit(event.End{Tag: event.HTMLBlock{}})
}

func (c *converter) codeSpan(node *gmast.CodeSpan) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		t, ok := child.(*gmast.Text)
		if !ok {
			continue
		}
		value := string(t.Segment.Value(c.source))
		if strings.HasSuffix(value, "\n") {
			value = strings.TrimSuffix(value, "\n") + " "
		}
		b.WriteString(value)
	}
	return b.String()
}

// splitText emits s as Text events, giving each unescaped bracket its own
// event.
func (c *converter) splitText(s string) {
	start := 0
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '[', ']':
			if i > start {
				c.emit(event.Text{Text: s[start:i]})
			}
			c.emit(event.Text{Text: s[i : i+1]})
			start = i + 1
		}
	}
	if start < len(s) {
		c.emit(event.Text{Text: s[start:]})
	}
}

func alignments(in []extast.Alignment) []event.Alignment {
	out := make([]event.Alignment, len(in))
	for i, a := range in {
		switch a {
		case extast.AlignLeft:
			out[i] = event.AlignLeft
		case extast.AlignCenter:
			out[i] = event.AlignCenter
		case extast.AlignRight:
			out[i] = event.AlignRight
		default:
			out[i] = event.AlignNone
		}
	}
	return out
}

func footnoteLabels(root gmast.Node) map[int]string {
	labels := make(map[int]string)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if fn, ok := n.(*extast.Footnote); ok && entering {
			labels[fn.Index] = string(fn.Ref)
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return labels
}
