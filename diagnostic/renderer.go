// Copyright © 2026 The apexls authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/luthersystems/apexls/parser/token"
)

// Renderer formats diagnostics as annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode
	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	f, _ := w.(*os.File)
	p := choosePalette(r.Color, f)
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	for _, span := range d.Spans {
		r.writeSpan(ew, span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	color := p.boldRed
	switch d.Severity {
	case SeverityWarning:
		color = p.yellow
	case SeverityNote:
		color = p.boldCyan
	}
	ew.printf("%s%s%s%s: %s%s%s\n", color, p.bold, d.Severity, p.reset, p.bold, d.Message, p.reset)
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	loc := span.File
	if span.Line > 0 {
		loc += ":" + strconv.Itoa(span.Line)
		if span.Col > 0 {
			loc += ":" + strconv.Itoa(span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source, ok := r.sourceLine(span.File, span.Line)
	if !ok {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	num := strconv.Itoa(span.Line)
	pad := strings.Repeat(" ", len(num))
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, num, p.reset, strings.ReplaceAll(source, "\t", "    "))

	col := max(span.Col, 1)
	end := span.EndCol
	if end <= 0 {
		end = tokenEndCol(source, col)
	}
	end = max(end, col)
	indent := ""
	if col-1 <= len(source) {
		indent = strings.Repeat(" ", displayWidth(source[:col-1]))
	}
	ew.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, pad, p.reset, indent, p.boldRed, strings.Repeat("^", end-col+1), p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", p.boldRed, span.Label, p.reset)
	}
	ew.printf("\n %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) sourceLine(file string, line int) (string, bool) {
	if line <= 0 || file == "" {
		return "", false
	}
	read := r.SourceReader
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(file)
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(data), "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[line-1], "\r"), true
}

// tokenEndCol returns the 1-based column of the last byte of the
// identifier starting at col, or col for any other character.
func tokenEndCol(source string, col int) int {
	if col > len(source) {
		return col
	}
	end := col - 1
	for end < len(source) && token.IsIdentChar(source[end]) {
		end++
	}
	if end == col-1 {
		return col
	}
	return end
}

// displayWidth returns the display width of s with tabs expanded to 4
// spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}
