package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// columnGap is the number of spaces between columns.
const columnGap = 2

// Table renders column-aligned output. Rows are buffered until Flush so
// column widths can be fitted to the terminal; cells in a narrowed column
// wrap onto continuation lines. Empty tables produce no output.
type Table struct {
	out      io.Writer
	headers  []string
	rows     [][]string
	prefix   string
	maxWidth int
}

// NewTable creates a table with the given column headers, written to stdout.
func NewTable(headers ...string) *Table {
	return NewTableTo(os.Stdout, headers...)
}

// NewTableTo creates a table that writes to w. Output to a non-terminal is
// never narrowed unless WithMaxWidth is set.
func NewTableTo(w io.Writer, headers ...string) *Table {
	t := &Table{out: w, headers: headers}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			t.maxWidth = width
		}
	}
	return t
}

// WithPrefix sets a string prepended to each line (headers, divider, rows).
// Useful for indenting sub-tables within larger output.
func (t *Table) WithPrefix(prefix string) *Table {
	t.prefix = prefix
	return t
}

// WithMaxWidth caps the rendered width. Zero disables the cap.
func (t *Table) WithMaxWidth(width int) *Table {
	t.maxWidth = width
	return t
}

// Row buffers a row. Missing trailing cells render empty.
func (t *Table) Row(values ...string) {
	t.rows = append(t.rows, values)
}

// Flush writes the table. If no rows were added, nothing is printed.
func (t *Table) Flush() {
	if len(t.rows) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visualLen(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if n := visualLen(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}
	if t.maxWidth > 0 {
		widths = capWidths(widths, t.headers, t.maxWidth, visualLen(t.prefix))
	}

	dividers := make([]string, len(t.headers))
	for i, h := range t.headers {
		dividers[i] = strings.Repeat("-", visualLen(h))
	}
	t.writeLine(t.headers, widths)
	t.writeLine(dividers, widths)

	for _, row := range t.rows {
		wrapped := make([][]string, len(widths))
		lines := 1
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			wrapped[i] = wrapCell(cell, widths[i])
			if len(wrapped[i]) > lines {
				lines = len(wrapped[i])
			}
		}
		for l := 0; l < lines; l++ {
			cells := make([]string, len(widths))
			for i := range widths {
				if l < len(wrapped[i]) {
					cells[i] = wrapped[i][l]
				}
			}
			t.writeLine(cells, widths)
		}
	}
	t.rows = nil
}

func (t *Table) writeLine(cells []string, widths []int) {
	var b strings.Builder
	b.WriteString(t.prefix)
	for i, cell := range cells {
		b.WriteString(cell)
		if i == len(cells)-1 {
			break
		}
		pad := widths[i] - visualLen(cell) + columnGap
		if pad < columnGap {
			pad = columnGap
		}
		b.WriteString(strings.Repeat(" ", pad))
	}
	fmt.Fprintln(t.out, strings.TrimRight(b.String(), " "))
}

// capWidths narrows the widest columns until the table fits termWidth.
// No column goes below its header width.
func capWidths(widths []int, headers []string, termWidth, prefixLen int) []int {
	out := append([]int(nil), widths...)
	minWidths := make([]int, len(headers))
	for i, h := range headers {
		minWidths[i] = visualLen(h)
	}

	total := func() int {
		sum := prefixLen + columnGap*(len(out)-1)
		for _, w := range out {
			sum += w
		}
		return sum
	}

	for excess := total() - termWidth; excess > 0; excess = total() - termWidth {
		widest := -1
		for i, w := range out {
			if w > minWidths[i] && (widest < 0 || w > out[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		reduce := out[widest] - minWidths[widest]
		if reduce > excess {
			reduce = excess
		}
		out[widest] -= reduce
	}
	return out
}

// wrapCell splits s into lines of at most width visible characters,
// breaking at spaces and hard-breaking words longer than width. Color
// codes are kept only when the cell fits unchanged.
func wrapCell(s string, width int) []string {
	if visualLen(s) <= width || width <= 0 {
		return []string{s}
	}
	plain := ansiPattern.ReplaceAllString(s, "")

	var lines []string
	var cur string
	for _, word := range strings.Fields(plain) {
		for utf8.RuneCountInString(word) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			r := []rune(word)
			lines = append(lines, string(r[:width]))
			word = string(r[width:])
		}
		switch {
		case cur == "":
			cur = word
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visualLen is the number of visible characters in s, ignoring color codes.
func visualLen(s string) int {
	return utf8.RuneCountInString(ansiPattern.ReplaceAllString(s, ""))
}
