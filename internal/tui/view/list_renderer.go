package view

import (
	"strings"
)

// RenderRows writes rows [start, end) through render, one per line.
func RenderRows(start, end, cursor int, render func(i int, active bool) string) string {
	if start >= end || start < 0 {
		return ""
	}
	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(render(i, i == cursor))
		b.WriteString("\n")
	}
	return b.String()
}
