// Package source reads documentation inputs and decides how each is fixed up.
package source

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentflare-ai/go-onedoc/internal/errors"
)

// Kind selects the fixups applied to an input.
type Kind int

const (
	// RustDoc is the leading //! comment of a Rust source file.
	RustDoc Kind = iota + 1
	// GoDoc is the package doc comment of a Go source file.
	GoDoc
	// Markdown is an existing Markdown file.
	Markdown
)

func (k Kind) String() string {
	switch k {
	case RustDoc:
		return "rustdoc"
	case GoDoc:
		return "godoc"
	case Markdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// IsDocComment reports whether inputs of this kind come from source code
// comments rather than prose files.
func (k Kind) IsDocComment() bool {
	return k == RustDoc || k == GoDoc
}

// KindOf picks the kind from the file extension. Unknown extensions are an
// UnsupportedFileKind error.
func KindOf(path string) (Kind, error) {
	switch filepath.Ext(path) {
	case ".rs":
		return RustDoc, nil
	case ".go":
		return GoDoc, nil
	case ".md":
		return Markdown, nil
	default:
		return 0, errors.Newf(errors.KindUnsupportedFileKind, "unsupported file extension %q", filepath.Ext(path)).
			WithPath(path).
			Build()
	}
}

// Document is the Markdown text of one input.
type Document struct {
	Path string
	Kind Kind
	Text string
}

// Load reads path and extracts its Markdown.
func Load(path string) (Document, error) {
	kind, err := KindOf(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrap(err, errors.KindIO, "failed to read input").
			WithPath(path).
			Build()
	}

	doc := Document{Path: path, Kind: kind}
	switch kind {
	case RustDoc:
		doc.Text = ModuleComment(string(data))
	case GoDoc:
		doc.Text, err = PackageComment(path, data)
		if err != nil {
			return Document{}, err
		}
	case Markdown:
		doc.Text = string(data)
	}
	return doc, nil
}

// ModuleComment returns the leading //! lines of a Rust source file with the
// comment markers removed.
func ModuleComment(src string) string {
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, "//!") {
			break
		}
		line = strings.TrimPrefix(line, "//! ")
		line = strings.TrimPrefix(line, "//!")
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// PackageComment returns the package doc comment of a Go source file, comment
// markers removed.
func PackageComment(path string, src []byte) (string, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.PackageClauseOnly|parser.ParseComments)
	if err != nil {
		return "", errors.Wrap(err, errors.KindIO, "failed to parse Go source").
			WithPath(path).
			Build()
	}
	if f.Doc == nil {
		return "", nil
	}
	return dedent(strings.TrimRight(f.Doc.Text(), "\n")), nil
}

// dedent removes the indentation every non-blank line shares. Block comments
// keep their source indentation otherwise.
func dedent(src string) string {
	lines := strings.Split(src, "\n")
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := leadingWhitespace(line)
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return src
	}
	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(line string) int {
	count := 0
	for _, r := range line {
		if r == ' ' || r == '\t' {
			count++
			continue
		}
		break
	}
	return count
}
