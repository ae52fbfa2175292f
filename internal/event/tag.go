package event

// Family identifies the kind of a Tag independent of its attributes. A Start
// and its End always share a Family.
type Family int

const (
	FamilyParagraph Family = iota + 1
	FamilyHeading
	FamilyBlockQuote
	FamilyCodeBlock
	FamilyList
	FamilyItem
	FamilyFootnoteDefinition
	FamilyTable
	FamilyTableHead
	FamilyTableRow
	FamilyTableCell
	FamilyEmphasis
	FamilyStrong
	FamilyStrikethrough
	FamilyLink
	FamilyImage
	FamilyHTMLBlock
)

var familyNames = map[Family]string{
	FamilyParagraph:          "Paragraph",
	FamilyHeading:            "Heading",
	FamilyBlockQuote:         "BlockQuote",
	FamilyCodeBlock:          "CodeBlock",
	FamilyList:               "List",
	FamilyItem:               "Item",
	FamilyFootnoteDefinition: "FootnoteDefinition",
	FamilyTable:              "Table",
	FamilyTableHead:          "TableHead",
	FamilyTableRow:           "TableRow",
	FamilyTableCell:          "TableCell",
	FamilyEmphasis:           "Emphasis",
	FamilyStrong:             "Strong",
	FamilyStrikethrough:      "Strikethrough",
	FamilyLink:               "Link",
	FamilyImage:              "Image",
	FamilyHTMLBlock:          "HTMLBlock",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return "Unknown"
}

// Tag is the payload of Start and End events.
type Tag interface {
	Family() Family
	isTag()
}

type Paragraph struct{}

// Heading levels range from 1 to 6.
type Heading struct {
	Level   int
	ID      string
	Classes []string
}

type BlockQuote struct{}

// CodeBlockKind distinguishes indented from fenced code blocks.
type CodeBlockKind int

const (
	Indented CodeBlockKind = iota
	Fenced
)

// CodeBlock carries the info string of a fenced block; it is always empty for
// indented blocks.
type CodeBlock struct {
	Kind CodeBlockKind
	Info string
}

type List struct {
	Ordered bool
	Start   int
	Tight   bool
}

type Item struct{}

type FootnoteDefinition struct{ Label string }

// Alignment of a table column.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

type Table struct{ Alignments []Alignment }

type TableHead struct{}

type TableRow struct{}

type TableCell struct{}

type Emphasis struct{}

type Strong struct{}

type Strikethrough struct{}

// LinkType records how a link is written in Markdown source.
type LinkType int

const (
	// Inline links carry their destination in place: [text](dest).
	Inline LinkType = iota
	// Reference links name a definition listed elsewhere: [text][dest].
	Reference
	// Autolink destinations are their own text: <dest>.
	Autolink
)

func (t LinkType) String() string {
	switch t {
	case Inline:
		return "Inline"
	case Reference:
		return "Reference"
	case Autolink:
		return "Autolink"
	default:
		return "Unknown"
	}
}

// Link is a hyperlink. For Reference links Dest holds the reference identifier.
type Link struct {
	Type  LinkType
	Dest  string
	Title string
}

type Image struct {
	Type  LinkType
	Dest  string
	Title string
}

// HTMLBlock wraps the HTML lines of a raw HTML block.
type HTMLBlock struct{}

func (Paragraph) Family() Family          { return FamilyParagraph }
func (Heading) Family() Family            { return FamilyHeading }
func (BlockQuote) Family() Family         { return FamilyBlockQuote }
func (CodeBlock) Family() Family          { return FamilyCodeBlock }
func (List) Family() Family               { return FamilyList }
func (Item) Family() Family               { return FamilyItem }
func (FootnoteDefinition) Family() Family { return FamilyFootnoteDefinition }
func (Table) Family() Family              { return FamilyTable }
func (TableHead) Family() Family          { return FamilyTableHead }
func (TableRow) Family() Family           { return FamilyTableRow }
func (TableCell) Family() Family          { return FamilyTableCell }
func (Emphasis) Family() Family           { return FamilyEmphasis }
func (Strong) Family() Family             { return FamilyStrong }
func (Strikethrough) Family() Family      { return FamilyStrikethrough }
func (Link) Family() Family               { return FamilyLink }
func (Image) Family() Family              { return FamilyImage }
func (HTMLBlock) Family() Family          { return FamilyHTMLBlock }

func (Paragraph) isTag()          {}
func (Heading) isTag()            {}
func (BlockQuote) isTag()         {}
func (CodeBlock) isTag()          {}
func (List) isTag()               {}
func (Item) isTag()               {}
func (FootnoteDefinition) isTag() {}
func (Table) isTag()              {}
func (TableHead) isTag()          {}
func (TableRow) isTag()           {}
func (TableCell) isTag()          {}
func (Emphasis) isTag()           {}
func (Strong) isTag()             {}
func (Strikethrough) isTag()      {}
func (Link) isTag()               {}
func (Image) isTag()              {}
func (HTMLBlock) isTag()          {}

// IsStart reports whether e opens a tag of family f.
func IsStart(e Event, f Family) bool {
	s, ok := e.(Start)
	return ok && s.Tag.Family() == f
}

// IsEnd reports whether e closes a tag of family f.
func IsEnd(e Event, f Family) bool {
	s, ok := e.(End)
	return ok && s.Tag.Family() == f
}
