// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FB7185"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E6EDF3")).Bold(true)
	cursorStyle    = pendingStyle.Copy().Underline(true)
	placeholdStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9FB1C7"))
	goodStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80"))
	badStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FB7185"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9FB1C7"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	overlayStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7AA2F7")).
			Padding(1, 2)
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildTargetRunes styles each target rune against the typed buffer: typed
// positions are judged right or wrong in place, a missed space shows as a
// bullet, the rune at the cursor is underlined, and the rest stays pending.
func buildTargetRunes(target, typed []rune) []styledRune {
	out := make([]styledRune, 0, len(target))
	for i, r := range target {
		displayed := r
		style := pendingStyle
		switch {
		case i < len(typed):
			switch {
			case r == ' ' && typed[i] != ' ':
				displayed = '•'
				style = incorrectStyle
			case typed[i] == r:
				style = correctStyle
			default:
				style = incorrectStyle
			}
		case i == len(typed):
			style = cursorStyle
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: r == ' ',
		})
	}
	return out
}

func renderStyled(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyled lays styled runes into lines no wider than width, breaking at
// the last space on the line when one exists. Widths travel with the runes
// because the rendered strings carry ANSI sequences.
func wrapStyled(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyled(runes)
	}
	var out strings.Builder
	var line []styledRune
	lineWidth := 0
	lastSpace := -1

	flush := func(upto int) {
		out.WriteString(renderStyled(line[:upto]))
		out.WriteRune('\n')
	}
	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				flush(lastSpace)
				line = append([]styledRune(nil), line[lastSpace+1:]...)
			} else {
				flush(len(line))
				line = line[:0]
			}
			lineWidth = 0
			lastSpace = -1
			for j, carried := range line {
				lineWidth += carried.width
				if carried.isSpace {
					lastSpace = j
				}
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyled(line))
	return out.String()
}

// truncateToWidth cuts a plain string to the display width, appending an
// ellipsis when anything was dropped. Styled strings must not pass through
// here since escape sequences would count toward the width.
func truncateToWidth(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
