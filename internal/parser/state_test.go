package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/resumemd/internal/resume"
)

func stepAll(s State, lines ...string) State {
	for _, l := range lines {
		s = Step(s, Classify(l))
	}
	return s
}

func TestStep_DocumentTitleLastWins(t *testing.T) {
	s := stepAll(NewState(), "# First", "## A", "# Second")
	assert.Equal(t, "Second", s.Header.Name)
	require.NotNil(t, s.Section, "document title must not close the open section")
	assert.Equal(t, "A", s.Section.Title)
}

func TestStep_ContactLastWins(t *testing.T) {
	s := stepAll(NewState(), "a ｜ 求职意向 one", "b ｜ 求职意向 two")
	assert.Equal(t, "b ｜ 求职意向 two", s.Header.Contact)
	assert.Empty(t, s.Sections)
}

func TestStep_ContentWithoutSectionIsDiscarded(t *testing.T) {
	s := stepAll(NewState(), "preamble", "", "more")
	assert.Nil(t, s.ItemBuffer)
	assert.Nil(t, s.SectionBuffer)
	assert.Nil(t, s.Section)
}

func TestStep_ContentRouting(t *testing.T) {
	s := stepAll(NewState(), "## A", "body", "")
	assert.Equal(t, []string{"body", ""}, s.SectionBuffer)
	assert.Nil(t, s.ItemBuffer)

	s = stepAll(s, "### X", "  detail", "")
	assert.Nil(t, s.SectionBuffer, "item title clears pending section text")
	assert.Equal(t, []string{"  detail", ""}, s.ItemBuffer)
}

func TestStep_ItemTitleFlushesPreviousItem(t *testing.T) {
	s := stepAll(NewState(), "## A", "### X", "one", "#### Y")
	require.NotNil(t, s.Section)
	require.Len(t, s.Section.Items, 1)
	assert.Equal(t, resume.Item{Title: "X", Level: resume.Level(3), Content: "one"}, s.Section.Items[0])
	require.NotNil(t, s.Item)
	assert.Equal(t, "Y", s.Item.Title)
	assert.Equal(t, 4, *s.Item.Level)
	assert.Nil(t, s.ItemBuffer)
}

func TestStep_SectionTitleSealsEverything(t *testing.T) {
	s := stepAll(NewState(), "## A", "bare text", "## B")
	require.Len(t, s.Sections, 1)
	assert.Equal(t, []resume.Item{{Content: "bare text"}}, s.Sections[0].Items)
	require.NotNil(t, s.Section)
	assert.Equal(t, resume.Section{ID: "B", Title: "B", Items: []resume.Item{}}, *s.Section)
	assert.Nil(t, s.SectionBuffer)
}

func TestStep_WhitespaceOnlySectionTextYieldsNoItem(t *testing.T) {
	s := stepAll(NewState(), "## A", "   ", "", "## B")
	require.Len(t, s.Sections, 1)
	assert.Empty(t, s.Sections[0].Items)
	assert.NotNil(t, s.Sections[0].Items)
}

func TestStep_DoesNotMutateInput(t *testing.T) {
	base := stepAll(NewState(), "## A", "### X", "one")
	snapshotBuf := append([]string(nil), base.ItemBuffer...)

	// Two divergent continuations from the same state.
	left := stepAll(base, "left", "### L")
	right := stepAll(base, "right", "## B")

	assert.Equal(t, snapshotBuf, base.ItemBuffer)
	assert.Empty(t, base.Section.Items)
	assert.Empty(t, base.Sections)

	require.Len(t, left.Section.Items, 1)
	assert.Equal(t, "one\nleft", left.Section.Items[0].Content)
	require.Len(t, right.Sections, 1)
	assert.Equal(t, "one\nright", right.Sections[0].Items[0].Content)
}

func TestStep_ItemBeforeAnySectionCarriesIntoFirstSection(t *testing.T) {
	s := stepAll(NewState(), "### Early", "dropped", "## A", "kept")
	doc := Finish(s)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, []resume.Item{{Title: "Early", Level: resume.Level(3), Content: "kept"}}, doc.Sections[0].Items)
}

func TestFinish_ItemWithoutSectionIsDropped(t *testing.T) {
	doc := Finish(stepAll(NewState(), "### Orphan", "text"))
	assert.NotNil(t, doc.Sections)
	assert.Empty(t, doc.Sections)
}

func TestFinish_MatchesSectionBoundaryFlush(t *testing.T) {
	lines := []string{"## A", "intro", "### X", "body"}
	atEOF := Finish(stepAll(NewState(), lines...))
	atBoundary := stepAll(NewState(), append(lines, "## Next")...)

	require.Len(t, atBoundary.Sections, 1)
	assert.Equal(t, atEOF.Sections, atBoundary.Sections)
}

func TestFinish_DoesNotMutateInput(t *testing.T) {
	base := stepAll(NewState(), "## A", "### X", "one", "## B", "### Y", "two")

	first := Finish(base)
	cont := Finish(stepAll(base, "three", "### Z"))
	again := Finish(base)

	assert.Equal(t, first, again)
	require.Len(t, cont.Sections, 2)
	require.Len(t, cont.Sections[1].Items, 2)
	assert.Equal(t, "two\nthree", cont.Sections[1].Items[0].Content)
	assert.Equal(t, "two", again.Sections[1].Items[0].Content)
	assert.Len(t, again.Sections[1].Items, 1)
}

func TestStep_MatchesParse(t *testing.T) {
	input := "# N\n## A\nintro\n### X\nbody\n\nmore\n## B\n#### Y\ny\n"
	s := NewState()
	for _, line := range SplitLines(input) {
		s = Step(s, Classify(line))
	}
	assert.Equal(t, Parse(input), Finish(s))
}
