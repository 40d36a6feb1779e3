package query

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	dom "github.com/seowalex/cvwo/internal/domain"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		text string
		tags []string
	}{
		{name: "empty", raw: "", text: "", tags: nil},
		{name: "whitespace only", raw: "  \t ", text: "", tags: nil},
		{name: "plain only", raw: "call of cthulhu", text: "call of cthulhu"},
		{name: "plain and tag", raw: "cthulhu #horror", text: "cthulhu", tags: []string{"horror"}},
		{name: "tags only", raw: "#horror #mythos", text: "", tags: []string{"horror", "mythos"}},
		{name: "tag first", raw: "#horror dreams", text: "dreams", tags: []string{"horror"}},
		{name: "hash mid word is plain", raw: "c#sharp issue#12", text: "c#sharp issue#12"},
		{name: "bare hash dropped", raw: "read # book", text: "read book"},
		{name: "duplicate tag kept once", raw: "#a x #a", text: "x", tags: []string{"a"}},
		{name: "inner hash kept in tag", raw: "##x #a#b", tags: []string{"#x", "a#b"}},
		{name: "case sensitive tags", raw: "#Work #work", tags: []string{"Work", "work"}},
		{name: "collapses spacing", raw: "  buy   milk \n #home ", text: "buy milk", tags: []string{"home"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTags(tt.raw)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.tags, got.Tags)
		})
	}
}

func TestExtractTags_PreservesTokenMultiset(t *testing.T) {
	inputs := []string{
		"cthulhu #horror",
		"#a b #c d e #a",
		"one two three",
		"# #x y## z",
		"\tleading and trailing\n",
	}
	for _, raw := range inputs {
		got := ExtractTags(raw)

		var rebuilt []string
		if got.Text != "" {
			rebuilt = append(rebuilt, strings.Fields(got.Text)...)
		}
		for _, tok := range strings.Fields(raw) {
			if tok[0] == TagPrefix {
				rebuilt = append(rebuilt, tok)
			}
		}
		want := strings.Fields(raw)
		sort.Strings(want)
		sort.Strings(rebuilt)
		assert.Equal(t, want, rebuilt, "raw=%q", raw)
	}
}

func TestSearch_Matches(t *testing.T) {
	task := dom.Task{Title: "Call of Cthulhu", TagList: []string{"horror", "mythos"}}

	assert.True(t, ExtractTags("").Matches(task))
	assert.True(t, ExtractTags("CTHULHU").Matches(task))
	assert.True(t, ExtractTags("of cth #mythos").Matches(task))
	assert.True(t, ExtractTags("#mythos #horror").Matches(task))
	assert.False(t, ExtractTags("#mythos #scifi").Matches(task))
	assert.False(t, ExtractTags("#Horror").Matches(task))
	assert.False(t, ExtractTags("dagon #horror").Matches(task))
}
