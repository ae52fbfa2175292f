// Package toc builds a table of contents from rendered Markdown.
package toc

import (
	"fmt"
	"strings"
	"unicode"

	gmast "github.com/yuin/goldmark/ast"

	"github.com/agentflare-ai/go-onedoc/internal/markdown"
)

// Levels covered by Generate. Level 1 is reserved for the document title.
const (
	MinLevel = 2
	MaxLevel = 6
)

// Entry is one heading listed in the table of contents.
type Entry struct {
	Level  int
	Title  string
	Anchor string
}

// Entries lists the headings of source between MinLevel and MaxLevel, in
// document order, with anchors unique within the document.
func Entries(source string) []Entry {
	src := []byte(source)
	root := markdown.ParseAST(src)
	seen := make(map[string]int)

	var entries []Entry
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		h, ok := n.(*gmast.Heading)
		if !ok || !entering {
			return gmast.WalkContinue, nil
		}
		if h.Level < MinLevel || h.Level > MaxLevel {
			return gmast.WalkSkipChildren, nil
		}
		var title, plain strings.Builder
		collect(h, src, &title, &plain)

		anchor := explicitID(h)
		if anchor == "" {
			anchor = Slug(plain.String())
		}
		if n := seen[anchor]; n > 0 {
			seen[anchor] = n + 1
			anchor = fmt.Sprintf("%s-%d", anchor, n)
		} else {
			seen[anchor] = 1
		}
		entries = append(entries, Entry{
			Level:  h.Level,
			Title:  strings.TrimSpace(title.String()),
			Anchor: anchor,
		})
		return gmast.WalkSkipChildren, nil
	})
	return entries
}

// Generate renders the table of contents of source as a nested list of
// links. It is empty when source has no eligible headings.
func Generate(source string) string {
	var b strings.Builder
	for i, e := range Entries(source) {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("  ", e.Level-MinLevel))
		fmt.Fprintf(&b, "- [%s](#%s)", e.Title, e.Anchor)
	}
	return b.String()
}

// Slug derives a GitHub-style anchor: lower-case, punctuation removed and
// spaces turned into hyphens.
func Slug(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

func explicitID(h *gmast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return ""
}

// collect writes the Markdown of a heading's content to title and its plain
// text to plain.
func collect(n gmast.Node, src []byte, title, plain *strings.Builder) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *gmast.Text:
			v := string(c.Segment.Value(src))
			title.WriteString(v)
			plain.WriteString(v)
			if c.SoftLineBreak() || c.HardLineBreak() {
				title.WriteByte(' ')
				plain.WriteByte(' ')
			}
		case *gmast.String:
			title.Write(c.Value)
			plain.Write(c.Value)
		case *gmast.CodeSpan:
			var code strings.Builder
			collect(c, src, &code, &strings.Builder{})
			title.WriteString("`" + code.String() + "`")
			plain.WriteString(code.String())
		default:
			collect(c, src, title, plain)
		}
	}
}
