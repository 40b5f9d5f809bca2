package view

import (
	"fmt"
	"strings"
)

// TruncateTextToWidth cuts off the front of over-wide lines, marking the
// cut with an ellipsis. Lines are padded to the full width with spaces.
func TruncateTextToWidth(width int, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case len(line) <= width:
			lines[i] = fmt.Sprintf("%-*s", width, line)
		case width > 3:
			lines[i] = "..." + line[len(line)-width+3:]
		default:
			lines[i] = line[len(line)-width:]
		}
	}
	return strings.Join(lines, "\n")
}

// TrimTextToWidth cuts off the end of every line longer than width. Lines
// are padded to the full width with spaces.
func TrimTextToWidth(width int, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if len(line) > width {
			lines[i] = line[:width]
		} else {
			lines[i] = fmt.Sprintf("%-*s", width, line)
		}
	}
	return strings.Join(lines, "\n")
}
