package ui

import (
	"fmt"

	"github.com/csams/nutshell/internal/listing"
	"github.com/gdamore/tcell/v2"
)

// ShowListRow adapts a listing.Row to the table.
type ShowListRow struct {
	row listing.Row
}

func (r *ShowListRow) GetCell(columnIndex int) string {
	switch columnIndex {
	case 0:
		switch {
		case r.row.Playing:
			return "♪"
		case !r.row.HasAudio:
			return "-"
		}
		return " "
	case 1:
		return r.row.Title
	case 2:
		return r.row.Date
	case 3:
		return r.row.Duration
	}
	return ""
}

func (r *ShowListRow) GetCellStyle(columnIndex int, selected bool) *tcell.Style {
	if !r.row.Playing {
		return nil
	}
	style := styleDefault.Foreground(ColorPlaying)
	if selected {
		style = styleSelected.Foreground(ColorPlaying)
	}
	return &style
}

// ShowListView is the show page: every episode, newest first, with the
// playing one marked.
type ShowListView struct {
	table *Table
	title string
	act   Actions
}

func NewShowListView(title string, act Actions) *ShowListView {
	table := NewTable()
	table.SetColumns([]TableColumn{
		{Title: "", Width: 1},
		{Title: "Title", FlexWeight: 1, MinWidth: 20},
		{Title: "Published", Width: 18},
		{Title: "Length", Width: 8, Align: AlignRight},
	})
	return &ShowListView{table: table, title: title, act: act}
}

func (v *ShowListView) SetRows(rows []listing.Row) {
	tableRows := make([]TableRow, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, &ShowListRow{row: row})
	}
	v.table.SetRows(tableRows)
}

func (v *ShowListView) selectedSlug() (string, bool) {
	row, ok := v.table.GetSelectedRow().(*ShowListRow)
	if !ok {
		return "", false
	}
	return row.row.Slug, true
}

func (v *ShowListView) Draw(s tcell.Screen, hits *HitMap, height int) {
	w, _ := s.Size()

	drawClipped(s, 1, 0, w-2, styleHeader, v.title)
	first, last, total := v.table.GetScrollInfo()
	if total > 0 {
		info := fmt.Sprintf("%d-%d of %d", first, last, total)
		drawText(s, w-len(info)-1, 0, styleDimmed, info)
	}

	v.table.SetBounds(0, 2, w, height-2)
	v.table.Draw(s)

	for y := 3; y < height; y++ {
		idx, ok := v.table.RowAt(y)
		if !ok {
			break
		}
		row := idx
		hits.Add(0, y, w, 1, func() {
			v.table.Select(row)
			if slug, ok := v.selectedSlug(); ok {
				v.act.OpenEpisode(slug)
			}
		})
	}
}

func (v *ShowListView) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyDown:
		return v.table.SelectNext()
	case tcell.KeyUp:
		return v.table.SelectPrevious()
	case tcell.KeyCtrlF, tcell.KeyPgDn:
		return v.table.PageDown()
	case tcell.KeyCtrlB, tcell.KeyPgUp:
		return v.table.PageUp()
	case tcell.KeyEnter:
		if slug, ok := v.selectedSlug(); ok {
			v.act.OpenEpisode(slug)
		}
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'j':
			return v.table.SelectNext()
		case 'k':
			return v.table.SelectPrevious()
		case 'g':
			v.table.SelectFirst()
			return true
		case 'G':
			v.table.SelectLast()
			return true
		}
	}
	return false
}
