package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders sandbox, spec, and agent listings as a fixed-width text
// table for the non-interactive commands. Columns size to their widest cell
// with an optional cap; numeric columns can be right-aligned so usage
// figures line up.
type Table struct {
	Headers    []string
	Rows       [][]string
	MaxWidth   int   // per-column cap; 0 sizes to content
	AlignRight []int // column indexes padded on the left
}

// ColumnWidths returns the rendered width of each column.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	if t.MaxWidth > 0 {
		for i, w := range widths {
			if w > t.MaxWidth {
				widths[i] = t.MaxWidth
			}
		}
	}
	return widths
}

func (t *Table) rightAligned(col int) bool {
	for _, c := range t.AlignRight {
		if c == col {
			return true
		}
	}
	return false
}

// Render outputs the table to a string.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.ColumnWidths()
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	cellStyle := lipgloss.NewStyle().Foreground(ColorText)
	ruleStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	var b strings.Builder

	header := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = headerStyle.Render(pad(h, widths[i], t.rightAligned(i)))
	}
	b.WriteString(" " + strings.Join(header, "  ") + "\n")

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = ruleStyle.Render(strings.Repeat("─", w))
	}
	b.WriteString(" " + strings.Join(rule, "──") + "\n")

	for _, row := range t.Rows {
		cells := make([]string, len(t.Headers))
		for i := range t.Headers {
			val := ""
			if i < len(row) {
				val = clip(row[i], widths[i])
			}
			cells[i] = cellStyle.Render(pad(val, widths[i], t.rightAligned(i)))
		}
		b.WriteString(" " + strings.Join(cells, "  ") + "\n")
	}

	return b.String()
}

// clip shortens a cell to width runes, marking the cut with an ellipsis.
func clip(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 2 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// pad fills a cell to width runes on the right, or on the left for
// right-aligned columns.
func pad(s string, width int, right bool) string {
	gap := width - len([]rune(s))
	if gap <= 0 {
		return s
	}
	fill := strings.Repeat(" ", gap)
	if right {
		return fill + s
	}
	return s + fill
}

// TruncateID shortens a sandbox, spec, or task ID to its 6-char prefix,
// which is enough to tell records apart in a table cell.
func TruncateID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}
