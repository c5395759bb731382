// Copyright © 2026 The apexls authors

package analysis

import "strings"

// OffsetAt converts a 0-based line and byte column into a byte offset into
// text. Columns past the end of the line clamp to the line end and lines
// past the end of text clamp to len(text).
func OffsetAt(text string, line, char int) int {
	if line < 0 || char < 0 {
		return 0
	}
	offset := 0
	for l := 0; l < line; l++ {
		i := indexNewline(text, offset)
		if i < 0 {
			return len(text)
		}
		offset = i + 1
	}
	end := indexNewline(text, offset)
	if end < 0 {
		end = len(text)
	}
	if offset+char > end {
		return end
	}
	return offset + char
}

// PositionAt converts a byte offset into a 0-based line and byte column.
func PositionAt(text string, offset int) (line, char int) {
	if offset > len(text) {
		offset = len(text)
	}
	start := 0
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return line, offset - start
}

func indexNewline(text string, from int) int {
	i := strings.IndexByte(text[from:], '\n')
	if i < 0 {
		return -1
	}
	return from + i
}
