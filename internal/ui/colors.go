package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mikueye/mikueye/internal/models"
)

var styles = NewPalette("#39c5bb", "#2ecc71", "#ff6b6b", "#f1c40f", "#8892a6")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// statusStyle colors a status badge with the app's per-status palette.
func statusStyle(s models.Status) lipgloss.Style {
	switch s {
	case models.StatusGraveyard:
		return NewStyle("#636e72")
	case models.StatusWIP:
		return NewStyle("#e67e22")
	case models.StatusRanked:
		return NewBold("#2ecc71")
	case models.StatusApproved:
		return NewBold("#3498db")
	case models.StatusQualified:
		return NewStyle("#00d2d3")
	case models.StatusLoved:
		return NewBold("#ff9ff3")
	default:
		return NewStyle("#f1c40f")
	}
}
