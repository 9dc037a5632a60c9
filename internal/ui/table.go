package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// TableColumn defines a column in the table
type TableColumn struct {
	Title      string
	Width      int     // 0 means flexible width
	MinWidth   int     // Minimum width for flexible columns
	MaxWidth   int     // Maximum width for flexible columns (0 = no limit)
	FlexWeight float64 // Weight for distributing available space
	Align      Alignment
}

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// TableRow represents a single row of data
type TableRow interface {
	GetCell(columnIndex int) string
	// GetCellStyle returns the style for a cell, or nil for the default.
	GetCellStyle(columnIndex int, selected bool) *tcell.Style
}

// Table is a scrollable, selectable list of rows.
type Table struct {
	columns      []TableColumn
	rows         []TableRow
	selectedIdx  int
	scrollOffset int

	x, y          int
	width, height int
	showHeader    bool

	selectionIndicator string

	headerStyle   tcell.Style
	defaultStyle  tcell.Style
	selectedStyle tcell.Style

	columnWidths []int
}

func NewTable() *Table {
	return &Table{
		showHeader:         true,
		selectionIndicator: "> ",
		headerStyle:        styleHeader,
		defaultStyle:       styleDefault,
		selectedStyle:      styleSelected,
	}
}

func (t *Table) SetColumns(columns []TableColumn) {
	t.columns = columns
	t.calculateColumnWidths()
}

func (t *Table) SetRows(rows []TableRow) {
	t.rows = rows
	t.adjustSelection()
}

// SetBounds places the table and recomputes column widths.
func (t *Table) SetBounds(x, y, width, height int) {
	t.x, t.y = x, y
	t.width, t.height = width, height
	t.calculateColumnWidths()
}

func (t *Table) GetSelectedIndex() int {
	return t.selectedIdx
}

func (t *Table) GetSelectedRow() TableRow {
	if t.selectedIdx >= 0 && t.selectedIdx < len(t.rows) {
		return t.rows[t.selectedIdx]
	}
	return nil
}

// Select moves the selection to idx when it is a valid row.
func (t *Table) Select(idx int) bool {
	if idx < 0 || idx >= len(t.rows) {
		return false
	}
	t.selectedIdx = idx
	t.ensureVisible()
	return true
}

func (t *Table) SelectNext() bool {
	return t.Select(t.selectedIdx + 1)
}

func (t *Table) SelectPrevious() bool {
	return t.Select(t.selectedIdx - 1)
}

func (t *Table) SelectFirst() {
	t.selectedIdx = 0
	t.scrollOffset = 0
}

func (t *Table) SelectLast() {
	t.Select(len(t.rows) - 1)
}

// PageDown moves selection down by one page
func (t *Table) PageDown() bool {
	page := max(t.getVisibleHeight()-1, 1)
	return t.Select(min(t.selectedIdx+page, len(t.rows)-1))
}

// PageUp moves selection up by one page
func (t *Table) PageUp() bool {
	page := max(t.getVisibleHeight()-1, 1)
	return t.Select(max(t.selectedIdx-page, 0))
}

// RowAt returns the row index drawn at screen line y.
func (t *Table) RowAt(y int) (int, bool) {
	first := t.y
	if t.showHeader {
		first++
	}
	idx := y - first + t.scrollOffset
	if y < first || y >= t.y+t.height || idx >= len(t.rows) {
		return 0, false
	}
	return idx, true
}

func (t *Table) Draw(s tcell.Screen) {
	if t.width <= 0 || t.height <= 0 {
		return
	}

	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			s.SetContent(t.x+x, t.y+y, ' ', nil, t.defaultStyle)
		}
	}

	currentY := t.y
	if t.showHeader {
		t.drawHeader(s, currentY)
		currentY++
	}

	visibleHeight := t.getVisibleHeight()
	for i := 0; i < visibleHeight && i+t.scrollOffset < len(t.rows); i++ {
		rowIdx := i + t.scrollOffset
		t.drawRow(s, currentY+i, t.rows[rowIdx], rowIdx == t.selectedIdx)
	}
}

// GetScrollInfo returns information about the current scroll position
func (t *Table) GetScrollInfo() (firstVisible, lastVisible, total int) {
	firstVisible = t.scrollOffset + 1
	lastVisible = min(t.scrollOffset+t.getVisibleHeight(), len(t.rows))
	return firstVisible, lastVisible, len(t.rows)
}

func (t *Table) getVisibleHeight() int {
	height := t.height
	if t.showHeader {
		height--
	}
	return max(height, 0)
}

func (t *Table) ensureVisible() {
	visibleHeight := t.getVisibleHeight()
	if visibleHeight <= 0 {
		return
	}

	// keep the selection centered when possible
	maxOffset := max(len(t.rows)-visibleHeight, 0)
	t.scrollOffset = min(max(t.selectedIdx-visibleHeight/2, 0), maxOffset)
}

func (t *Table) adjustSelection() {
	if len(t.rows) == 0 {
		t.selectedIdx = 0
		t.scrollOffset = 0
		return
	}
	t.selectedIdx = min(max(t.selectedIdx, 0), len(t.rows)-1)
	t.ensureVisible()
}

func (t *Table) calculateColumnWidths() {
	if len(t.columns) == 0 || t.width <= 0 {
		return
	}

	t.columnWidths = make([]int, len(t.columns))
	indicatorWidth := len([]rune(t.selectionIndicator))

	fixedWidth := 0
	totalFlexWeight := 0.0
	for i, col := range t.columns {
		if col.Width > 0 {
			width := col.Width
			if i == 0 {
				width += indicatorWidth
			}
			t.columnWidths[i] = width
			fixedWidth += width
			continue
		}
		totalFlexWeight += weightOf(col)
	}

	padding := len(t.columns) - 1
	available := t.width - fixedWidth - padding
	if available <= 0 || totalFlexWeight == 0 {
		return
	}

	for i, col := range t.columns {
		if col.Width > 0 {
			continue
		}
		width := int(float64(available) * (weightOf(col) / totalFlexWeight))
		if col.MinWidth > 0 {
			width = max(width, col.MinWidth)
		}
		if col.MaxWidth > 0 {
			width = min(width, col.MaxWidth)
		}
		if i == 0 {
			width += indicatorWidth
		}
		t.columnWidths[i] = width
	}
}

func weightOf(col TableColumn) float64 {
	if col.FlexWeight > 0 {
		return col.FlexWeight
	}
	return 1.0
}

func (t *Table) drawHeader(s tcell.Screen, y int) {
	x := t.x
	for i, col := range t.columns {
		if i > 0 {
			x++
		}
		offset := 0
		if i == 0 {
			offset = len([]rune(t.selectionIndicator))
		}
		if col.Title != "" {
			t.drawText(s, x+offset, y, t.columnWidths[i]-offset, col.Title, t.headerStyle, col.Align)
		}
		x += t.columnWidths[i]
	}
}

func (t *Table) drawRow(s tcell.Screen, y int, row TableRow, selected bool) {
	if selected {
		for x := 0; x < t.width; x++ {
			s.SetContent(t.x+x, y, ' ', nil, t.selectedStyle)
		}
	}

	x := t.x
	for i, col := range t.columns {
		if i > 0 {
			x++
		}

		content := row.GetCell(i)
		if i == 0 {
			if selected {
				content = t.selectionIndicator + content
			} else {
				content = strings.Repeat(" ", len([]rune(t.selectionIndicator))) + content
			}
		}

		style := t.defaultStyle
		if selected {
			style = t.selectedStyle
		}
		if cellStyle := row.GetCellStyle(i, selected); cellStyle != nil {
			style = *cellStyle
		}

		t.drawText(s, x, y, t.columnWidths[i], content, style, col.Align)
		x += t.columnWidths[i]
	}
}

func (t *Table) drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style, align Alignment) {
	if width <= 0 {
		return
	}

	display := truncate(text, width)
	textWidth := len([]rune(display))

	startX := x
	switch align {
	case AlignCenter:
		startX = x + (width-textWidth)/2
	case AlignRight:
		startX = x + width - textWidth
	}

	drawText(s, startX, y, style, display)
}
