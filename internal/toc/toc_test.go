package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	src := `# Title

## Install

### From source

#### Linux

## Usage

Text.

## Usage
`
	want := "- [Install](#install)\n" +
		"  - [From source](#from-source)\n" +
		"    - [Linux](#linux)\n" +
		"- [Usage](#usage)\n" +
		"- [Usage](#usage-1)"
	assert.Equal(t, want, Generate(src))
}

func TestGenerate_InlineMarkup(t *testing.T) {
	got := Generate("## The `Foo` type!\n\n## *Fast* mode\n\n## Custom {#custom-id}")
	assert.Equal(t,
		"- [The `Foo` type!](#the-foo-type)\n- [Fast mode](#fast-mode)\n- [Custom](#custom-id)",
		got)
}

func TestGenerate_NoHeadings(t *testing.T) {
	assert.Equal(t, "", Generate("# Only a title\n\nAnd a paragraph."))
}

func TestEntries(t *testing.T) {
	entries := Entries("## A\n\n###### F\n\n## A")
	assert.Equal(t, []Entry{
		{Level: 2, Title: "A", Anchor: "a"},
		{Level: 6, Title: "F", Anchor: "f"},
		{Level: 2, Title: "A", Anchor: "a-1"},
	}, entries)
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Hello World":       "hello-world",
		"  Trim me ":        "trim-me",
		"snake_case & more": "snake_case--more",
		"Ünïcode Title":     "ünïcode-title",
		"v1.2.3":            "v123",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), in)
	}
}
