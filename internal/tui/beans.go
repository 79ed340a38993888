package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	filledBean = "☕"
	emptyBean  = "◯"
)

type styledItem struct {
	s     string
	width int
}

func beanItems(beans []bool) []styledItem {
	items := make([]styledItem, 0, len(beans))
	for _, done := range beans {
		if done {
			items = append(items, styledItem{s: beanDoneStyle.Render(filledBean), width: runewidth.StringWidth(filledBean)})
			continue
		}
		items = append(items, styledItem{s: beanTodoStyle.Render(emptyBean), width: runewidth.StringWidth(emptyBean)})
	}
	return items
}

// wrapItems joins items with single spaces, breaking lines so no line is
// wider than width. An item wider than width gets a line of its own.
func wrapItems(items []styledItem, width int) []string {
	if len(items) == 0 {
		return nil
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, item := range items {
		if lineWidth > 0 && width > 0 && lineWidth+1+item.width > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(item.s)
		lineWidth += item.width
	}
	return append(lines, line.String())
}

func renderBeans(beans []bool, width int) string {
	return strings.Join(wrapItems(beanItems(beans), width), "\n")
}
