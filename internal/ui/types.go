package ui

import (
	"github.com/csams/nutshell/internal/text"
	"github.com/gdamore/tcell/v2"
)

// GetTcellStyle maps a description span style onto base.
func GetTcellStyle(base tcell.Style, style text.Style) tcell.Style {
	switch style {
	case text.Bold:
		return base.Bold(true)
	case text.Italic:
		return base.Italic(true)
	case text.Link:
		return base.Foreground(ColorLink).Underline(true)
	case text.Header:
		return base.Foreground(ColorHeader).Bold(true)
	default:
		return base
	}
}
