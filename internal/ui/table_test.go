package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableColumnWidths(t *testing.T) {
	table := &Table{
		Headers: []string{"SANDBOX", "CPU", "MEM%"},
		Rows: [][]string{
			{"sb-a1b", "2 cores", "41"},
			{"sb-c2d", "16 cores", "7"},
		},
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 7, widths[0]) // header "SANDBOX" is widest
	assert.Equal(t, 8, widths[1]) // "16 cores"
	assert.Equal(t, 4, widths[2]) // header "MEM%"
}

func TestTableColumnWidthsCapped(t *testing.T) {
	table := &Table{
		Headers:  []string{"ID", "TITLE"},
		Rows:     [][]string{{"spec-1", "Implement resumable uploads for artifact storage"}},
		MaxWidth: 24,
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 6, widths[0])
	assert.Equal(t, 24, widths[1])
}

func TestTableRenderContents(t *testing.T) {
	table := &Table{
		Headers: []string{"SANDBOX", "STATUS"},
		Rows: [][]string{
			{"sb-a1b", "running"},
			{"sb-c2d", "paused"},
		},
	}

	out := table.Render()

	assert.Contains(t, out, "SANDBOX")
	assert.Contains(t, out, "sb-a1b")
	assert.Contains(t, out, "paused")
	assert.Contains(t, out, "─")
}

func TestTableRenderEmpty(t *testing.T) {
	table := &Table{}
	assert.Empty(t, table.Render())
}

func TestTableClipIsRuneAware(t *testing.T) {
	// A multibyte glyph must not be split mid-rune.
	assert.Equal(t, "résu…", clip("résumable", 5))
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "…", clip("long", 1))
}

func TestTableRenderClipsWideCells(t *testing.T) {
	table := &Table{
		Headers:  []string{"TITLE"},
		Rows:     [][]string{{"Implement resumable uploads for artifact storage"}},
		MaxWidth: 12,
	}

	assert.Contains(t, table.Render(), "…")
}

func TestTablePad(t *testing.T) {
	tests := []struct {
		in    string
		width int
		right bool
		want  string
	}{
		{"85", 4, true, "  85"},
		{"sb-a1b", 8, false, "sb-a1b  "},
		{"exact", 5, false, "exact"},
		{"over", 2, true, "over"},
		{"", 3, false, "   "},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, pad(tc.in, tc.width, tc.right))
	}
}

func TestTableRightAlignedColumns(t *testing.T) {
	table := &Table{
		Headers:    []string{"SANDBOX", "CPU%"},
		Rows:       [][]string{{"sb-a1b", "7"}},
		AlignRight: []int{1},
	}

	// The percent value pads on the left so figures line up under the header.
	assert.Contains(t, table.Render(), "   7")
}

func TestTableShortRows(t *testing.T) {
	table := &Table{
		Headers: []string{"SANDBOX", "CPU", "STATUS"},
		Rows:    [][]string{{"sb-a1b", "2 cores"}},
	}

	out := table.Render()

	assert.Contains(t, out, "sb-a1b")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, 3, len(lines)) // header, rule, one row
}

func TestTruncateID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sb-7c2f91d4", "sb-7c2"},
		{"sb-9", "sb-9"},
		{"", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, TruncateID(tc.in))
	}
}
