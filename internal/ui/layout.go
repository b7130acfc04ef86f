package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailspace/internal/theme"
)

// Layout manages the three-column terminal layout: sidebar, message list
// and reading pane.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

const (
	minSidebarWidth = 24
	minListWidth    = 36
	panelFrame      = 2
)

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.StatusBarHeight, 0)
}

// SidebarWidth is a fifth of the screen, never narrower than the address
// column needs.
func (l Layout) SidebarWidth() int {
	return max(l.Width/5, minSidebarWidth)
}

// ListWidth is a third of the screen.
func (l Layout) ListWidth() int {
	return max(l.Width/3, minListWidth)
}

// ReaderWidth is whatever the sidebar and list leave over.
func (l Layout) ReaderWidth() int {
	return max(l.Width-l.SidebarWidth()-l.ListWidth(), 0)
}

// PanelInner returns the inner size of a bordered panel of outer width w.
func (l Layout) PanelInner(w int) (width, height int) {
	return max(w-panelFrame, 0), max(l.ContentHeight()-panelFrame, 0)
}

// RenderColumns joins the three panels side by side, framing the focused
// one. focus is the zero-based column index.
func (l Layout) RenderColumns(focus int, columns ...string) string {
	widths := []int{l.SidebarWidth(), l.ListWidth(), l.ReaderWidth()}
	rendered := make([]string, 0, len(columns))
	for i, col := range columns {
		if i >= len(widths) || widths[i] == 0 {
			break
		}
		style := theme.PanelStyle
		if i == focus {
			style = theme.FocusedPanelStyle
		}
		w, h := l.PanelInner(widths[i])
		rendered = append(rendered, style.Width(w).Height(h).MaxHeight(h+panelFrame).Render(col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// RenderHeader renders the top header bar with a title and the account.
func (l Layout) RenderHeader(title string, account string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(account)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints or
// the latest notice.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
