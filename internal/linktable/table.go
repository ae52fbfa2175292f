// Package linktable tracks the reference-style links emitted during one
// rendering run.
//
// Each reference name maps to the distinct destinations requested under it,
// in first-seen order. The position of a destination decides its identifier:
// the first is the bare name, later ones get a numeric suffix ("name-1",
// "name-2", ...). One Table is shared by every document of a run so the same
// link text is numbered consistently across them.
package linktable

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

var invalidRefChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// RefName derives the reference name for a link's display text: anything from
// the first '<' on is dropped, the rest is lower-cased, spaces become hyphens
// and every character outside [A-Za-z0-9_-] is removed.
func RefName(text string) string {
	if i := strings.IndexByte(text, '<'); i >= 0 {
		text = text[:i]
	}
	text = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '-'
		case 'A' <= r && r <= 'Z':
			return r + ('a' - 'A')
		}
		return r
	}, text)
	return invalidRefChars.ReplaceAllString(text, "")
}

// Identifier returns the identifier emitted for the destination at index i of
// name.
func Identifier(name string, i int) string {
	if i == 0 {
		return name
	}
	return fmt.Sprintf("%s-%d", name, i)
}

// Definition is one footer line: [ID]: Dest.
type Definition struct {
	ID   string
	Dest string
}

// Table maps reference names to their destinations. The zero value is ready
// to use.
type Table struct {
	entries map[string][]string
}

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// LookupOrRegister returns the identifier for dest under name, appending dest
// when it has not been seen under that name before.
func (t *Table) LookupOrRegister(name, dest string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty reference name for %q", dest)
	}
	if t.entries == nil {
		t.entries = make(map[string][]string)
	}
	dests := t.entries[name]
	i := slices.Index(dests, dest)
	if i < 0 {
		i = len(dests)
		t.entries[name] = append(dests, dest)
	}
	return Identifier(name, i), nil
}

// Destinations returns the destinations registered under name.
func (t *Table) Destinations(name string) []string {
	return slices.Clone(t.entries[name])
}

// Len returns the number of registered destinations across all names.
func (t *Table) Len() int {
	n := 0
	for _, dests := range t.entries {
		n += len(dests)
	}
	return n
}

func (t *Table) Empty() bool { return t.Len() == 0 }

// Definitions lists every entry ordered by name, then by index.
func (t *Table) Definitions() []Definition {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]Definition, 0, t.Len())
	for _, name := range names {
		for i, dest := range t.entries[name] {
			defs = append(defs, Definition{ID: Identifier(name, i), Dest: dest})
		}
	}
	return defs
}

// FooterOf renders the reference definitions block for the given
// identifiers, in the order of Definitions. Numbering stays that of the whole
// table. It is empty when none of ids is registered.
func (t *Table) FooterOf(ids []string) string {
	var b strings.Builder
	for _, d := range t.Definitions() {
		if slices.Contains(ids, d.ID) {
			fmt.Fprintf(&b, "[%s]: %s\n", d.ID, d.Dest)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "\n\n" + b.String()
}
