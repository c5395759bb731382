// Copyright © 2026 The apexls authors

package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/completion"
	"github.com/luthersystems/apexls/diagnostic"
	"github.com/luthersystems/apexls/hover"
	"github.com/luthersystems/apexls/logger"
	"github.com/luthersystems/apexls/parser/rdparser"
	"github.com/muesli/reflow/padding"
)

const helpText = `Type Apex code to list the completions at the end of the line. The line
is inserted into the buffer at the insertion point first.

Commands:
  :hover CODE   describe the symbol ending CODE
  :at LINE      move the insertion point to the start of LINE
  :load FILE    replace the buffer with FILE
  :check        report the buffer's syntax errors
  :help         show this text
  :quit         leave the shell
`

// session holds the buffer the shell completes against.
type session struct {
	engine *completion.Engine
	lookup completion.TypeLookup
	out    io.Writer
	width  int

	name string
	text string
	// at is the byte offset where input lines are inserted.
	at int
}

func newSession(cfg *config) *session {
	s := &session{
		engine: cfg.engine,
		lookup: cfg.lookup,
		out:    cfg.stdout,
		width:  cfg.width,
	}
	s.load(cfg.name, cfg.text)
	return s
}

func (s *session) load(name, text string) {
	s.name, s.text = name, text
	s.at = insertionPoint(text)
}

// insertionPoint returns the offset just inside the closing brace of the
// last method or constructor body of the first type in text, or the end
// of text when there is none.
func insertionPoint(text string) int {
	for _, d := range analysis.IndexSource(text) {
		t, ok := d.(*analysis.TypeDecl)
		if !ok {
			continue
		}
		at := -1
		for _, m := range t.Members {
			var body *analysis.Block
			switch m := m.(type) {
			case *analysis.MethodDecl:
				body = m.Body
			case *analysis.ConstructorDecl:
				body = m.Body
			}
			if body != nil && body.Range.End > 0 && body.Range.End <= len(text) && text[body.Range.End-1] == '}' {
				at = body.Range.End - 1
			}
		}
		if at >= 0 {
			return at
		}
		break
	}
	return len(text)
}

// document returns the buffer with input inserted and the offset at the
// end of input.
func (s *session) document(input string) (string, int) {
	return s.text[:s.at] + input + s.text[s.at:], s.at + len(input)
}

func (s *session) complete(ctx context.Context, input string) (*completion.Result, error) {
	text, offset := s.document(input)
	return s.engine.CompleteSource(ctx, text, offset)
}

func (s *session) hover(ctx context.Context, input string) *hover.Info {
	text, offset := s.document(input)
	return hover.At(ctx, text, offset, analysis.IndexSource(text), s.lookup)
}

func (s *session) describe() string {
	if s.name == "" {
		return "empty buffer; :help lists commands"
	}
	line, _ := analysis.PositionAt(s.text, s.at)
	return fmt.Sprintf("%s loaded, inserting at line %d; :help lists commands", s.name, line+1)
}

// handle runs one input line and reports whether the shell should exit.
func (s *session) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":quit", ":q":
		return true
	case ":help":
		s.printf("%s", helpText)
	case ":hover":
		if info := s.hover(ctx, arg); info != nil {
			s.printf("%s", info.Text(s.width))
		} else {
			s.printf("nothing to describe\n")
		}
	case ":at":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			s.printf("usage: :at LINE\n")
			break
		}
		s.at = analysis.OffsetAt(s.text, n-1, 0)
		line, _ := analysis.PositionAt(s.text, s.at)
		s.printf("inserting at line %d\n", line+1)
	case ":load":
		b, err := os.ReadFile(arg) //nolint:gosec // user-specified file
		if err != nil {
			s.printf("%v\n", err)
			break
		}
		s.load(arg, string(b))
		s.printf("%s\n", s.describe())
	case ":check":
		s.check()
	default:
		if strings.HasPrefix(cmd, ":") {
			s.printf("unknown command %s; :help lists commands\n", cmd)
			break
		}
		s.list(ctx, line)
	}
	return false
}

// list prints the completions at the end of input, best first.
func (s *session) list(ctx context.Context, input string) {
	res, err := s.complete(ctx, input)
	if errors.Is(err, completion.ErrUnsupported) {
		s.printf("no completions here\n")
		return
	}
	if err != nil {
		s.printf("%v\n", err)
		return
	}
	if len(res.Items) == 0 {
		s.printf("no completions\n")
		return
	}
	width := 0
	for _, c := range res.Items {
		width = max(width, len(c.Name()))
	}
	for _, c := range res.Items {
		s.printf("%s  %s  %s\n",
			padding.String(c.Name(), uint(width)), //nolint:gosec // non-negative
			padding.String(c.Label(), 11),
			c.Detail())
	}
	if res.IsIncomplete {
		s.printf("...\n")
	}
}

// check renders the buffer's syntax errors.
func (s *session) check() {
	name := s.name
	if name == "" {
		name = "<buffer>"
	}
	_, err := rdparser.New(name).Parse([]byte(s.text))
	diags := diagnostic.FromSyntaxErrors(rdparser.SyntaxErrors(err))
	if len(diags) == 0 {
		s.printf("no syntax errors\n")
		return
	}
	r := &diagnostic.Renderer{
		Color: diagnostic.ColorNever,
		SourceReader: func(string) ([]byte, error) {
			return []byte(s.text), nil
		},
	}
	if err := r.RenderAll(s.out, diags); err != nil {
		logger.Logger.Debugw("render diagnostics", logger.FieldError, err)
	}
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
