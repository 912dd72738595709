package biz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var fivePages = strings.Join([]string{"P0", "P1", "P2", "P3", "P4"}, "\n\n")

func TestKeywordExcerptSelector_PageMode(t *testing.T) {
	tests := []struct {
		name string
		page int
		want string
	}{
		{"中间页", 2, "P1\n\nP2\n\nP3"},
		{"首页", 0, "P0\n\nP1"},
		{"末页", 4, "P3\n\nP4"},
		{"第三页", 3, "P2\n\nP3\n\nP4"},
		{"负数页", -1, "P0"},
	}

	s := NewKeywordExcerptSelector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Select(fivePages, "anything", intPtr(tt.page)))
		})
	}
}

func TestKeywordExcerptSelector_PageBeyondRange(t *testing.T) {
	s := NewKeywordExcerptSelector()

	assert.NotPanics(t, func() {
		got := s.Select(fivePages, "q", intPtr(99))
		assert.Equal(t, fivePages, got, "empty window falls back to document head")
	})
	assert.NotPanics(t, func() {
		s.Select(fivePages, "q", intPtr(-99))
	})
}

func TestKeywordExcerptSelector_BlankLinesWithWhitespace(t *testing.T) {
	doc := "first page\n  \t\nsecond page\n\n\n\nthird page"
	assert.Equal(t, []string{"first page", "second page", "third page"}, SplitPages(doc))

	s := NewKeywordExcerptSelector()
	assert.Equal(t, "first page\n\nsecond page", s.Select(doc, "", intPtr(0)))
}

func TestKeywordExcerptSelector_KeywordMode(t *testing.T) {
	lines := []string{
		"The museum opened in 1990.",
		"Dinosaurs lived millions of years ago.",
		"Visitors walk through the halls.",
		"Some dinosaurs were plant lovers.",
		"The gift shop sells postcards.",
		"Fossils are kept behind glass.",
		"Children like the big skeleton.",
		"Scientists study DINOSAURS carefully.",
		"The cafe closes at five.",
		"Tickets cost ten dollars.",
		"Parking is free on Sundays.",
		"The building has three floors.",
	}
	doc := strings.Join(lines, "\n")

	s := NewKeywordExcerptSelector()
	got := s.Select(doc, "what do dinosaurs eat", nil)

	assert.Equal(t, strings.Join([]string{lines[1], lines[3], lines[7]}, "\n"), got)
}

func TestKeywordExcerptSelector_KeywordModeCapsLines(t *testing.T) {
	var lines []string
	for i := 0; i < 25; i++ {
		lines = append(lines, fmt.Sprintf("line %d mentions volcano activity", i))
	}
	doc := strings.Join(lines, "\n")

	got := NewKeywordExcerptSelector().Select(doc, "tell me about volcano", nil)
	gotLines := strings.Split(got, "\n")

	assert.Len(t, gotLines, 10)
	assert.Equal(t, lines[0], gotLines[0])
	assert.Equal(t, lines[9], gotLines[9])
}

func TestKeywordExcerptSelector_ShortTokensIgnored(t *testing.T) {
	doc := "an ox is in a pen\nnothing else here"
	s := NewKeywordExcerptSelector()

	// every token has at most 2 characters, so there are no keywords
	assert.Equal(t, doc, s.Select(doc, "an ox is in", nil))
}

func TestKeywordExcerptSelector_Fallback(t *testing.T) {
	long := strings.Repeat("가나다라마바사아자차", 150)
	s := NewKeywordExcerptSelector()

	got := s.Select(long, "unrelated question words", nil)
	assert.Equal(t, 1000, len([]rune(got)))
	assert.Equal(t, string([]rune(long)[:1000]), got)

	short := "a single short paragraph without matches"
	assert.Equal(t, short, s.Select(short, "zebra giraffe", nil))
}

func TestKeywordExcerptSelector_EmptyDocument(t *testing.T) {
	s := NewKeywordExcerptSelector()
	assert.Equal(t, "", s.Select("", "what do dinosaurs eat", nil))
	assert.Equal(t, "", s.Select("", "q", intPtr(2)))
}
