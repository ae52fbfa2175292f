package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_Balanced(t *testing.T) {
	events := []Event{
		Start{Paragraph{}},
		Text{"see "},
		Start{Link{Type: Inline, Dest: "a.md"}},
		Code{"A"},
		End{Link{Type: Inline, Dest: "a.md"}},
		End{Paragraph{}},
		Rule{},
	}
	require.NoError(t, Validate(events))
}

func TestValidate_Mismatched(t *testing.T) {
	err := Validate([]Event{Start{Paragraph{}}, End{Heading{Level: 2}}})
	var unbalanced *UnbalancedError
	require.ErrorAs(t, err, &unbalanced)
	require.Equal(t, 1, unbalanced.Index)
	require.Equal(t, FamilyParagraph, unbalanced.Expected)
	require.Contains(t, err.Error(), "expected End(Paragraph), got End(Heading)")
}

func TestValidate_Unclosed(t *testing.T) {
	err := Validate([]Event{Start{CodeBlock{Kind: Fenced}}, Text{"x\n"}})
	require.ErrorContains(t, err, "stream ended with CodeBlock still open")
}

func TestValidate_StrayEnd(t *testing.T) {
	err := Validate([]Event{End{Item{}}})
	require.ErrorContains(t, err, "unexpected End(Item) with nothing open")
}

func TestPredicates(t *testing.T) {
	require.True(t, IsText(Text{"["}, "["))
	require.False(t, IsText(Code{"["}, "["))
	require.True(t, IsStart(Start{Heading{Level: 1}}, FamilyHeading))
	require.False(t, IsStart(End{Heading{Level: 1}}, FamilyHeading))
	require.True(t, IsEnd(End{Paragraph{}}, FamilyParagraph))
}
