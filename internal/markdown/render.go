package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/russross/blackfriday"
	mdfmt "github.com/shurcooL/markdownfmt/markdown"

	"github.com/agentflare-ai/go-onedoc/internal/errors"
	"github.com/agentflare-ai/go-onedoc/internal/event"
)

// FenceWidth is the number of backticks used for code fences.
const FenceWidth = 3

// node is one element of the tree rebuilt from a stream. Containers have a
// tag; leaves carry their event.
type node struct {
	tag      event.Tag
	leaf     event.Event
	children []*node
}

// Render serializes events as Markdown through markdownfmt's renderer.
// Streams cut out of a larger stream are accepted: End events with nothing
// open are dropped and containers left open are closed at the end. An End
// that does not match the innermost open Start is a MalformedStream error.
func Render(events []event.Event) (string, error) {
	root, err := buildTree(events)
	if err != nil {
		return "", err
	}
	w := &writer{r: mdfmt.NewRenderer(nil)}
	var out bytes.Buffer
	w.blocks(&out, root.children, false)
	return strings.TrimRight(out.String(), "\n"), nil
}

func buildTree(events []event.Event) (*node, error) {
	root := &node{}
	stack := []*node{root}
	for i, e := range events {
		top := stack[len(stack)-1]
		switch e := e.(type) {
		case event.Start:
			n := &node{tag: e.Tag}
			top.children = append(top.children, n)
			stack = append(stack, n)
		case event.End:
			if len(stack) == 1 {
				continue
			}
			if top.tag.Family() != e.Tag.Family() {
				return nil, errors.Newf(errors.KindMalformedStream,
					"expected End(%s), got %s", top.tag.Family(), event.String(e)).
					WithContext("event", i).
					Build()
			}
			stack = stack[:len(stack)-1]
		default:
			top.children = append(top.children, &node{leaf: e})
		}
	}
	return root, nil
}

func isInline(n *node) bool {
	if n.leaf != nil {
		_, rule := n.leaf.(event.Rule)
		return !rule
	}
	switch n.tag.(type) {
	case event.Emphasis, event.Strong, event.Strikethrough, event.Link, event.Image:
		return true
	default:
		return false
	}
}

// writer walks the tree and drives a markdownfmt renderer. It writes the
// constructs markdownfmt has no callback for itself: reference links,
// autolinks, footnotes, task markers, heading attributes and code fences that
// need more than three backticks.
type writer struct {
	r blackfriday.Renderer
}

// blocks renders sibling nodes. Consecutive inline nodes form a paragraph,
// or bare text inside a tight list item.
func (w *writer) blocks(out *bytes.Buffer, children []*node, tight bool) {
	var run []*node
	flush := func() {
		if len(run) == 0 {
			return
		}
		inlines := run
		run = nil
		if tight {
			w.inlines(out, inlines)
			return
		}
		w.r.Paragraph(out, func() bool {
			w.inlines(out, inlines)
			return true
		})
	}
	for _, child := range children {
		if isInline(child) {
			run = append(run, child)
			continue
		}
		flush()
		w.block(out, child, tight)
	}
	flush()
}

func (w *writer) block(out *bytes.Buffer, n *node, tight bool) {
	if n.leaf != nil {
		w.rule(out)
		return
	}
	switch tag := n.tag.(type) {
	case event.Paragraph:
		w.r.Paragraph(out, func() bool {
			w.inlines(out, n.children)
			return true
		})
	case event.Heading:
		w.heading(out, tag, n.children)
	case event.BlockQuote:
		var inner bytes.Buffer
		w.blocks(&inner, n.children, false)
		if inner.Len() == 0 {
			doubleSpace(out)
			out.WriteString(">\n")
			return
		}
		w.r.BlockQuote(out, inner.Bytes())
	case event.CodeBlock:
		w.codeBlock(out, tag, n.children)
	case event.HTMLBlock:
		var html bytes.Buffer
		for _, child := range n.children {
			if h, ok := child.leaf.(event.HTML); ok {
				html.WriteString(h.Text)
			}
		}
		w.r.BlockHtml(out, bytes.TrimRight(html.Bytes(), "\n"))
	case event.List:
		w.list(out, tag, n.children)
	case event.Item:
		w.list(out, event.List{Tight: true}, []*node{n})
	case event.FootnoteDefinition:
		var body bytes.Buffer
		w.blocks(&body, n.children, false)
		doubleSpace(out)
		out.WriteString(indentRest("[^"+tag.Label+"]: ", strings.TrimRight(body.String(), "\n"), "    "))
		out.WriteByte('\n')
	case event.Table:
		w.table(out, tag, n.children)
	default:
		w.blocks(out, n.children, tight)
	}
}

// rule writes a thematic break. markdownfmt's "---" would turn a directly
// preceding line into a setext heading, so "***" is used there.
func (w *writer) rule(out *bytes.Buffer) {
	if out.Len() == 0 || bytes.HasSuffix(out.Bytes(), []byte("\n")) {
		w.r.HRule(out)
		return
	}
	doubleSpace(out)
	out.WriteString("***\n")
}

func (w *writer) heading(out *bytes.Buffer, tag event.Heading, children []*node) {
	var text bytes.Buffer
	w.inlines(&text, children)
	content := strings.ReplaceAll(text.String(), "\n", " ")
	attrs := headingAttributes(tag)

	afterLine := out.Len() > 0 && !bytes.HasSuffix(out.Bytes(), []byte("\n"))
	if tag.Level <= 2 && (attrs != "" || afterLine || !setextSafe(content)) {
		doubleSpace(out)
		out.WriteString(strings.Repeat("#", tag.Level))
		if content != "" {
			out.WriteString(" " + content)
		}
		out.WriteString(attrs + "\n")
		return
	}
	w.r.Header(out, func() bool {
		out.WriteString(content + attrs)
		return true
	}, tag.Level, tag.ID)
}

func headingAttributes(tag event.Heading) string {
	if tag.ID == "" && len(tag.Classes) == 0 {
		return ""
	}
	var attrs []string
	if tag.ID != "" {
		attrs = append(attrs, "#"+tag.ID)
	}
	for _, c := range tag.Classes {
		attrs = append(attrs, "."+c)
	}
	return " {" + strings.Join(attrs, " ") + "}"
}

// setextSafe reports whether content reads back as heading text when
// underlined.
func setextSafe(content string) bool {
	if strings.TrimSpace(content) == "" || content != strings.TrimLeft(content, " \t") {
		return false
	}
	switch c := content[0]; {
	case c >= '0' && c <= '9':
		return false
	case strings.IndexByte("-+*_>#<=`~|[", c) >= 0:
		return false
	}
	return true
}

func (w *writer) codeBlock(out *bytes.Buffer, tag event.CodeBlock, children []*node) {
	var body strings.Builder
	for _, child := range children {
		if t, ok := child.leaf.(event.Text); ok {
			body.WriteString(t.Text)
		}
	}
	code := body.String()
	if code != "" && !strings.HasSuffix(code, "\n") {
		code += "\n"
	}

	if tag.Kind == event.Indented {
		doubleSpace(out)
		out.WriteString(prefixLines(strings.TrimRight(code, "\n"), "    ", ""))
		out.WriteByte('\n')
		return
	}
	width := fenceWidth(code)
	// markdownfmt reformats Go blocks with gofmt and only keeps the first
	// word of the info string. Examples are written as they are.
	if width == FenceWidth && !strings.ContainsAny(tag.Info, " \t.") && tag.Info != "go" && tag.Info != "Go" {
		w.r.BlockCode(out, []byte(code), tag.Info)
		return
	}
	fence := strings.Repeat("`", width)
	doubleSpace(out)
	out.WriteString(fence + tag.Info + "\n")
	out.WriteString(code)
	out.WriteString(fence + "\n")
}

// fenceWidth is FenceWidth unless the body contains a backtick fence of its own.
func fenceWidth(code string) int {
	width := FenceWidth
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimLeft(line, " ")
		n := 0
		for n < len(line) && line[n] == '`' {
			n++
		}
		if n >= width {
			width = n + 1
		}
	}
	return width
}

func (w *writer) list(out *bytes.Buffer, tag event.List, children []*node) {
	flags := 0
	if tag.Ordered {
		flags |= blackfriday.LIST_TYPE_ORDERED
	}
	w.r.List(out, func() bool {
		first := out.Len()
		for i, item := range children {
			if _, ok := item.tag.(event.Item); !ok {
				w.block(out, item, tag.Tight)
				continue
			}
			var body bytes.Buffer
			w.blocks(&body, item.children, tag.Tight)
			if !tag.Tight {
				// Marks the item loose so a blank line follows it.
				w.r.Paragraph(&body, func() bool { return false })
			}
			itemFlags := flags
			if i == len(children)-1 {
				itemFlags |= blackfriday.LIST_ITEM_END_OF_LIST
			}
			w.r.ListItem(out, bytes.TrimRight(body.Bytes(), "\n"), itemFlags)
		}
		if tag.Ordered && tag.Start != 1 && bytes.HasPrefix(out.Bytes()[first:], []byte("1.")) {
			rest := append([]byte(strconv.Itoa(tag.Start)+"."), out.Bytes()[first+2:]...)
			out.Truncate(first)
			out.Write(rest)
		}
		return true
	}, flags)
}

func (w *writer) table(out *bytes.Buffer, tag event.Table, children []*node) {
	columns := make([]int, len(tag.Alignments))
	for i, a := range tag.Alignments {
		switch a {
		case event.AlignLeft:
			columns[i] = blackfriday.TABLE_ALIGNMENT_LEFT
		case event.AlignCenter:
			columns[i] = blackfriday.TABLE_ALIGNMENT_CENTER
		case event.AlignRight:
			columns[i] = blackfriday.TABLE_ALIGNMENT_RIGHT
		}
	}

	var header, body bytes.Buffer
	for _, child := range children {
		cells := child.children
		if len(cells) > len(columns) {
			cells = cells[:len(columns)]
		}
		var row bytes.Buffer
		for i := range columns {
			var text bytes.Buffer
			if i < len(cells) {
				w.inlines(&text, cells[i].children)
			}
			cell := bytes.ReplaceAll(text.Bytes(), []byte("\n"), []byte(" "))
			if _, ok := child.tag.(event.TableHead); ok {
				w.r.TableHeaderCell(&row, cell, columns[i])
			} else {
				w.r.TableCell(&row, cell, columns[i])
			}
		}
		if _, ok := child.tag.(event.TableHead); ok {
			w.r.TableRow(&header, row.Bytes())
		} else {
			w.r.TableRow(&body, row.Bytes())
		}
	}
	w.r.Table(out, header.Bytes(), body.Bytes(), columns)
}

func (w *writer) inlines(out *bytes.Buffer, nodes []*node) {
	for _, n := range nodes {
		w.inline(out, n)
	}
}

func (w *writer) inline(out *bytes.Buffer, n *node) {
	if n.leaf != nil {
		switch e := n.leaf.(type) {
		case event.Text:
			out.WriteString(e.Text)
		case event.Code:
			span := codeSpan(e.Text)
			if span == "`"+e.Text+"`" {
				w.r.CodeSpan(out, []byte(e.Text))
			} else {
				out.WriteString(span)
			}
		case event.HTML:
			w.r.RawHtmlTag(out, []byte(e.Text))
		case event.SoftBreak:
			out.WriteByte('\n')
		case event.HardBreak:
			w.r.LineBreak(out)
		case event.Rule:
			out.WriteString("***")
		case event.FootnoteReference:
			out.WriteString("[^" + e.Label + "]")
		case event.TaskListMarker:
			if e.Checked {
				out.WriteString("[x] ")
			} else {
				out.WriteString("[ ] ")
			}
		}
		return
	}
	var content bytes.Buffer
	w.inlines(&content, n.children)
	switch tag := n.tag.(type) {
	case event.Emphasis:
		w.r.Emphasis(out, content.Bytes())
	case event.Strong:
		w.r.DoubleEmphasis(out, content.Bytes())
	case event.Strikethrough:
		w.r.StrikeThrough(out, content.Bytes())
	case event.Link:
		switch tag.Type {
		case event.Reference:
			out.WriteString("[" + content.String() + "][" + tag.Dest + "]")
		case event.Autolink:
			out.WriteString("<" + content.String() + ">")
		default:
			w.r.Link(out, []byte(destination(tag.Dest)), []byte(title(tag.Title)), content.Bytes())
		}
	case event.Image:
		if tag.Type == event.Reference {
			out.WriteString("![" + content.String() + "][" + tag.Dest + "]")
			return
		}
		w.r.Image(out, []byte(destination(tag.Dest)), []byte(title(tag.Title)), content.Bytes())
	default:
		var block bytes.Buffer
		w.block(&block, n, true)
		out.Write(bytes.TrimRight(block.Bytes(), "\n"))
	}
}

func doubleSpace(out *bytes.Buffer) {
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
}

func destination(dest string) string {
	if dest == "" || strings.ContainsAny(dest, " \t<>") || strings.Count(dest, "(") != strings.Count(dest, ")") {
		return "<" + strings.ReplaceAll(strings.ReplaceAll(dest, "<", `\<`), ">", `\>`) + ">"
	}
	return dest
}

func title(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func codeSpan(code string) string {
	longest, run := 0, 0
	for i := 0; i < len(code); i++ {
		if code[i] == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	ticks := strings.Repeat("`", longest+1)
	pad := strings.HasPrefix(code, "`") || strings.HasSuffix(code, "`") ||
		(len(code) > 1 && strings.HasPrefix(code, " ") && strings.HasSuffix(code, " ") && strings.TrimSpace(code) != "")
	if pad {
		return ticks + " " + code + " " + ticks
	}
	return ticks + code + ticks
}

// prefixLines prefixes every line of s; empty lines get blank instead.
func prefixLines(s, prefix, blank string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = blank
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// indentRest puts first before the first line of s and indents the others.
func indentRest(first, s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			lines[i] = first + line
		case line != "":
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}
