package render

import (
	"strings"
	"testing"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestHeader(t *testing.T) {
	assert.Contains(t, Header(HeaderState{}), "[no buffer]")

	out := Header(HeaderState{Path: "main.go", Index: 1, Total: 3, Layers: []string{"find"}})
	assert.Contains(t, out, "[2/3] main.go")
	assert.Contains(t, out, "scrollmap: find")

	assert.NotContains(t, Header(HeaderState{Path: "a/very/long/path.go", Total: 1, Width: 10}), "path.go")
}

func TestLines(t *testing.T) {
	out := Lines([]string{"alpha", "beta", "gamma"}, map[int]bool{0: true, 2: true}, 2)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "1 ")
	assert.Contains(t, lines[0], "alpha")
	assert.Contains(t, lines[1], "beta")
	assert.Contains(t, lines[2], "gamma")
}

func TestGutter(t *testing.T) {
	out := Gutter(GutterState{Cells: []int{0, 1, 0, 3}, ThumbStart: 0, ThumbEnd: 2})

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], gutterEmpty)
	assert.Contains(t, lines[1], gutterSingle)
	assert.Contains(t, lines[3], gutterMany)
	assert.Equal(t, 2, strings.Count(out, gutterEmpty))
	assert.Empty(t, Gutter(GutterState{}))
}

func TestFooterSearchStatus(t *testing.T) {
	tests := []struct {
		name  string
		state FooterState
		want  []string
	}{
		{name: "no query", state: FooterState{}, want: []string{"no search", "/: search"}},
		{
			name:  "matches with selection",
			state: FooterState{Query: "foo", Mode: "regex", Matches: 4, Current: 1, Visible: true, IgnoreCase: true},
			want:  []string{`"foo"`, "regex", "ignore-case", "2/4", "panel shown"},
		},
		{
			name:  "suppressed",
			state: FooterState{Query: "foo", Mode: "substring", Matches: 9, Current: -1, Threshold: 5, Permanent: true},
			want:  []string{"9 matches", "panel hidden", "permanent", "suppressed (> 5)"},
		},
		{
			name:  "no matches",
			state: FooterState{Query: "zzz", Mode: "token", Current: -1},
			want:  []string{"no matches"},
		},
		{
			name:  "search mode",
			state: FooterState{SearchMode: true, SearchInput: "typ"},
			want:  []string{"Search: typ", "Enter: apply", "ESC: cancel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Footer(tt.state)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestFooterStatusMessageReplacesSearchStatus(t *testing.T) {
	out := Footer(FooterState{Query: "foo", StatusMessage: "sync failed", StatusType: errors.MessageTypeError})

	assert.Contains(t, out, "Error: sync failed")
	assert.NotContains(t, out, `"foo"`)
}

func TestAnsiColorNumber(t *testing.T) {
	assert.Equal(t, "34", ansiColorNumber("\033[0;34m"))
	assert.Equal(t, "", ansiColorNumber("x"))
	assert.Equal(t, "", ansiColorNumber("\033[0m"))
}
