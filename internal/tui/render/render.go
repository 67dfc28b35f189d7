// Package render draws the pieces of the viewer: header, buffer lines,
// scrollmap gutter and footer.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/colors"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/errors"
)

// GutterWidth is the number of columns the scrollmap gutter takes, including
// its left padding.
const GutterWidth = 2

const (
	gutterEmpty  = "│"
	gutterSingle = "▪"
	gutterMany   = "■"
	lineNoWidth  = 4
)

// HeaderState defines the inputs needed to render the header.
type HeaderState struct {
	Path   string
	Index  int
	Total  int
	Width  int
	Layers []string
}

// Header renders the buffer title line.
func Header(state HeaderState) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))

	title := "[no buffer]"
	if state.Total > 0 {
		title = fmt.Sprintf("[%d/%d] %s", state.Index+1, state.Total, state.Path)
	}
	if len(state.Layers) > 0 {
		title += "  scrollmap: " + strings.Join(state.Layers, ",")
	}
	return style.Render(truncate(title, state.Width))
}

// Lines renders buffer lines with line numbers. Rows in marked are
// highlighted; current is the row of the selected result, or -1.
func Lines(lines []string, marked map[int]bool, current int) string {
	numberStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	matchStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow)))
	currentStyle := matchStyle.Bold(true).Reverse(true)

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(numberStyle.Render(fmt.Sprintf("%*d ", lineNoWidth, i+1)))
		switch {
		case i == current:
			b.WriteString(currentStyle.Render(line))
		case marked[i]:
			b.WriteString(matchStyle.Render(line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}

// GutterState defines the inputs needed to render the scrollmap gutter.
type GutterState struct {
	// Cells holds the number of marks per gutter cell, top to bottom.
	Cells []int
	// ThumbStart and ThumbEnd delimit the visible part of the buffer in
	// cells, end exclusive.
	ThumbStart int
	ThumbEnd   int
}

// Gutter renders the scrollmap column, one line per cell.
func Gutter(state GutterState) string {
	markStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow)))
	trackStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	thumbStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	cells := make([]string, len(state.Cells))
	for i, n := range state.Cells {
		inThumb := i >= state.ThumbStart && i < state.ThumbEnd
		var cell string
		switch {
		case n == 1:
			cell = markStyle.Render(gutterSingle)
		case n > 1:
			cell = markStyle.Render(gutterMany)
		case inThumb:
			cell = thumbStyle.Render(gutterEmpty)
		default:
			cell = trackStyle.Render(gutterEmpty)
		}
		cells[i] = " " + cell
	}
	return strings.Join(cells, "\n")
}

// FooterState defines the inputs needed to render footer help text.
type FooterState struct {
	SearchMode    bool
	SearchInput   string
	Query         string
	Mode          string
	IgnoreCase    bool
	Visible       bool
	Permanent     bool
	Threshold     int
	Matches       int
	Current       int
	StatusMessage string
	StatusType    errors.MessageType
	Width         int
}

// Footer renders the search status line and the help line.
func Footer(state FooterState) string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	status := searchStatus(state)
	if state.StatusMessage != "" {
		status = statusStyle(state.StatusType).Render(statusPrefix(state.StatusType) + state.StatusMessage)
	}

	var help []string
	if state.SearchMode {
		help = append(help, "Search: "+state.SearchInput)
		help = append(help, "Enter: apply")
		help = append(help, "ESC: cancel")
	} else {
		help = append(help, "/: search")
		help = append(help, "n/N: next/prev")
		help = append(help, "ESC: hide panel")
		help = append(help, "p: permanent")
		help = append(help, "m: mode")
		help = append(help, "i: case")
		help = append(help, "tab: buffer")
		help = append(help, "q: quit")
	}

	return status + "\n" + helpStyle.Render(truncate(strings.Join(help, "  |  "), state.Width))
}

func searchStatus(state FooterState) string {
	if state.Query == "" {
		return "no search"
	}
	parts := []string{fmt.Sprintf("%q", state.Query), state.Mode}
	if state.IgnoreCase {
		parts = append(parts, "ignore-case")
	}
	if state.Matches == 0 {
		parts = append(parts, "no matches")
	} else if state.Current >= 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", state.Current+1, state.Matches))
	} else {
		parts = append(parts, fmt.Sprintf("%d matches", state.Matches))
	}
	if state.Visible {
		parts = append(parts, "panel shown")
	} else {
		parts = append(parts, "panel hidden")
	}
	if state.Permanent {
		parts = append(parts, "permanent")
	}
	if state.Threshold > 0 && state.Matches > state.Threshold {
		parts = append(parts, fmt.Sprintf("scrollmap suppressed (> %d)", state.Threshold))
	}
	return strings.Join(parts, " · ")
}

func statusStyle(t errors.MessageType) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch t {
	case errors.MessageTypeError:
		return style.Foreground(lipgloss.Color(ansiColorNumber(colors.Red)))
	case errors.MessageTypeWarning:
		return style.Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow)))
	case errors.MessageTypeSuccess:
		return style.Foreground(lipgloss.Color(ansiColorNumber(colors.Green)))
	default:
		return style.Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))
	}
}

func statusPrefix(t errors.MessageType) string {
	switch t {
	case errors.MessageTypeError:
		return "Error: "
	case errors.MessageTypeWarning:
		return "Warning: "
	default:
		return ""
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width])
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
