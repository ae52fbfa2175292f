package fix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-onedoc/internal/errors"
	"github.com/agentflare-ai/go-onedoc/internal/event"
	"github.com/agentflare-ai/go-onedoc/internal/linktable"
	"github.com/agentflare-ai/go-onedoc/internal/markdown"
)

type recorder struct {
	unresolved []string
}

func (r *recorder) UnresolvedLink(target string) {
	r.unresolved = append(r.unresolved, target)
}

func docLinks(t *testing.T, src string, links map[string]string, table *linktable.Table) (string, *recorder) {
	t.Helper()
	diag := &recorder{}
	out, err := DocLinks(markdown.Parse(src), links, table, diag)
	require.NoError(t, err)
	rendered, err := markdown.Render(out)
	require.NoError(t, err)
	return rendered, diag
}

func TestDocLinks_Resolves(t *testing.T) {
	table := linktable.New()
	out, diag := docLinks(t, "See [`Foo`] here.", map[string]string{"Foo": "https://x/a"}, table)
	assert.Equal(t, "See [`Foo`][foo] here.", out)
	assert.Empty(t, diag.unresolved)
	assert.Equal(t, []linktable.Definition{{ID: "foo", Dest: "https://x/a"}}, table.Definitions())
}

func TestDocLinks_EmitsReferenceLinkAroundCode(t *testing.T) {
	in := []event.Event{event.Text{Text: "["}, event.Code{Text: "Foo"}, event.Text{Text: "]"}}
	out, err := DocLinks(in, map[string]string{"Foo": "https://x/a"}, linktable.New(), nil)
	require.NoError(t, err)

	tag := event.Link{Type: event.Reference, Dest: "foo"}
	assert.Equal(t, []event.Event{event.Start{Tag: tag}, event.Code{Text: "Foo"}, event.End{Tag: tag}}, out)
}

func TestDocLinks_KeyedByReferenceName(t *testing.T) {
	links := map[string]string{"Foo": "https://x/a", "Bar": "https://x/a"}
	table := linktable.New()
	out, _ := docLinks(t, "[`Foo`] and [`Bar`]", links, table)
	assert.Equal(t, "[`Foo`][foo] and [`Bar`][bar]", out)
	assert.Equal(t, []linktable.Definition{
		{ID: "bar", Dest: "https://x/a"},
		{ID: "foo", Dest: "https://x/a"},
	}, table.Definitions())
}

func TestDocLinks_SameNameDifferentDestinations(t *testing.T) {
	links := map[string]string{"Foo": "https://x/a", "foo": "https://x/b"}
	table := linktable.New()
	out, _ := docLinks(t, "[`Foo`], [`foo`] and [`Foo`] again.", links, table)
	assert.Equal(t, "[`Foo`][foo], [`foo`][foo-1] and [`Foo`][foo] again.", out)
	assert.Equal(t, []string{"https://x/a", "https://x/b"}, table.Destinations("foo"))
}

func TestDocLinks_TableSharedAcrossDocuments(t *testing.T) {
	table := linktable.New()
	first, _ := docLinks(t, "[`Foo`]", map[string]string{"Foo": "https://x/a"}, table)
	second, _ := docLinks(t, "[`Foo`]", map[string]string{"Foo": "https://x/b"}, table)
	assert.Equal(t, "[`Foo`][foo]", first)
	assert.Equal(t, "[`Foo`][foo-1]", second)
}

func TestDocLinks_UnresolvedLeftLiteral(t *testing.T) {
	table := linktable.New()
	out, diag := docLinks(t, "Uses [`Unknown`] here.", map[string]string{}, table)
	assert.Equal(t, "Uses [`Unknown`] here.", out)
	assert.Equal(t, []string{"Unknown"}, diag.unresolved)
	assert.True(t, table.Empty())
}

func TestDocLinks_ProseBracketsIgnored(t *testing.T) {
	links := map[string]string{"a": "https://x/a"}
	for _, src := range []string{
		"A [plain] remark.",
		"An [*emphasised*] remark.",
		"Two [`a` and `b`] spans.",
		"Ranges [0, 1] and [`a` b].",
	} {
		out, diag := docLinks(t, src, links, linktable.New())
		assert.Equal(t, src, out)
		assert.Empty(t, diag.unresolved, src)
	}
}

func TestDocLinks_ShortcutSuffixDiscarded(t *testing.T) {
	links := map[string]string{"Foo": "https://x/a"}
	out, _ := docLinks(t, "Use [`Foo`][] now.", links, linktable.New())
	assert.Equal(t, "Use [`Foo`][foo] now.", out)

	out, _ = docLinks(t, "Use [`Foo`][foo] now.", links, linktable.New())
	assert.Equal(t, "Use [`Foo`][foo] now.", out)

	out, diag := docLinks(t, "Use [`Nope`][] now.", links, linktable.New())
	assert.Equal(t, "Use [`Nope`] now.", out)
	assert.Equal(t, []string{"Nope"}, diag.unresolved)
}

func TestDocLinks_SuffixMustFollowImmediately(t *testing.T) {
	links := map[string]string{"Foo": "https://x/a"}
	out, _ := docLinks(t, "Use [`Foo`] [note] now.", links, linktable.New())
	assert.Equal(t, "Use [`Foo`][foo] [note] now.", out)
}

func TestDocLinks_UnclosedGroupPassesThrough(t *testing.T) {
	in := []event.Event{
		event.Start{Tag: event.Paragraph{}},
		event.Text{Text: "["},
		event.Code{Text: "Foo"},
		event.End{Tag: event.Paragraph{}},
	}
	out, err := DocLinks(in, map[string]string{"Foo": "https://x/a"}, linktable.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDocLinks_EmptyReferenceName(t *testing.T) {
	in := []event.Event{event.Text{Text: "["}, event.Code{Text: "::"}, event.Text{Text: "]"}}
	_, err := DocLinks(in, map[string]string{"::": "https://x"}, linktable.New(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}

func TestDocLinks_IdempotentOnFixedOutput(t *testing.T) {
	links := map[string]string{"Foo": "https://x/a"}
	once, _ := docLinks(t, "See [`Foo`] and [`Foo`][].", links, linktable.New())
	twice, _ := docLinks(t, once, links, linktable.New())
	assert.Equal(t, "See [`Foo`][foo] and [`Foo`][foo].", once)
	assert.Equal(t, once, twice)
}
