package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
)

// RenderMarkdown renders md for the terminal. With noColor the plain
// "notty" style is used. Rendering failures fall back to md itself.
func RenderMarkdown(md string, noColor bool, width int) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	style := glamour.WithAutoStyle()
	if noColor {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// Columns pads every cell but the last of each row to the widest cell of
// its column, measured in terminal cells, and joins cells with two spaces.
func Columns(rows [][]string) []string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	out := make([]string, len(rows))
	for r, row := range rows {
		var sb strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString("  ")
		}
		out[r] = strings.TrimRight(sb.String(), " ")
	}
	return out
}
