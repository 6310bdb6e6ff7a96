package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// ColumnDef defines a column in a ResultsTable.
type ColumnDef struct {
	Name       string
	WidthRatio float64 // proportion of available width, 0 means fixed
	MinWidth   int
	MaxWidth   int // 0 = no limit
	Align      Alignment
	Style      lipgloss.Style
}

// ResultsTable renders rows in aligned columns sized to the terminal.
type ResultsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    [][]string
}

// Standard column definitions.
var (
	// ColKind is a short classifier column (fixed width, muted).
	ColKind = ColumnDef{
		Name:     "kind",
		MinWidth: 6,
		MaxWidth: 8,
		Align:    AlignLeft,
		Style:    Muted,
	}

	// ColID is the entry ID column.
	ColID = ColumnDef{
		Name:       "id",
		WidthRatio: 0.35,
		MinWidth:   16,
		MaxWidth:   48,
		Align:      AlignLeft,
	}

	// ColDetail is the flexible detail column.
	ColDetail = ColumnDef{
		Name:       "detail",
		WidthRatio: 0.65,
		MinWidth:   24,
		MaxWidth:   120,
		Align:      AlignLeft,
		Style:      Muted,
	}
)

// ProblemLayout is used for verification problems: [kind, id, detail].
var ProblemLayout = []ColumnDef{ColKind, ColID, ColDetail}

// NewResultsTable creates a ResultsTable with the given display context
// and column layout.
func NewResultsTable(display *DisplayContext, columns []ColumnDef) *ResultsTable {
	return &ResultsTable{
		display: display,
		columns: columns,
	}
}

// AddRow adds a row. Missing cells render empty.
func (t *ResultsTable) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// calculateWidths computes column widths from the terminal size.
func (t *ResultsTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	var totalRatio float64
	var fixedWidth int
	const columnPadding = 2

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			widths[i] = col.MinWidth
			if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
				widths[i] = col.MaxWidth
			}
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	totalPadding := (len(t.columns) - 1) * columnPadding
	leftMargin := 2
	available := t.display.TermWidth - fixedWidth - totalPadding - leftMargin
	if available < 0 {
		available = 0
	}

	for i, col := range t.columns {
		if col.WidthRatio > 0 {
			width := int(float64(available) * (col.WidthRatio / totalRatio))
			if width < col.MinWidth {
				width = col.MinWidth
			}
			if col.MaxWidth > 0 && width > col.MaxWidth {
				width = col.MaxWidth
			}
			widths[i] = width
		}
	}

	return widths
}

// Render generates the table output as a string.
func (t *ResultsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := t.calculateWidths()

	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Left:   "",
			Right:  "",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}

			colDef := t.columns[col]
			style := colDef.Style
			if style.Value() == "" {
				style = lipgloss.NewStyle()
			}
			style = style.Width(widths[col])

			switch colDef.Align {
			case AlignRight:
				style = style.Align(lipgloss.Right)
			case AlignCenter:
				style = style.Align(lipgloss.Center)
			default:
				style = style.Align(lipgloss.Left)
			}

			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}

			return style
		}).
		Rows(t.rows...)

	return tbl.Render()
}

// TruncateWithEllipsis truncates a string to maxLen, adding ellipsis
// if needed. It tries to break at word boundaries.
func TruncateWithEllipsis(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}

	truncated := s[:maxLen-3]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
