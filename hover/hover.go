// Copyright © 2026 The apexls authors

// Package hover describes the symbol under the cursor.
package hover

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/completion"
	"github.com/luthersystems/apexls/parser/token"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// Info describes a resolved symbol.
type Info struct {
	// Kind is the label shown in bold, such as "method" or "class".
	Kind   string
	Name   string
	Detail string
	// Range is the extent of the hovered identifier in the document.
	Range analysis.Range
	// Decl is the resolved declaration. It may come from another file when
	// resolved through a TypeLookup.
	Decl analysis.Declaration
}

// Markdown renders the hover text.
func (i *Info) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`", i.Kind, i.Detail)
	if i.Decl == nil {
		return sb.String()
	}
	if p := i.Decl.Info().Parent; p != nil {
		fmt.Fprintf(&sb, "\n\n*Declared in `%s`*", p.QualifiedName())
	}
	return sb.String()
}

// Text renders the hover for a terminal: the signature line, then the
// declaring type wrapped at width and indented below it.
func (i *Info) Text(width int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", i.Kind, i.Detail)
	if i.Decl == nil {
		return sb.String()
	}
	if p := i.Decl.Info().Parent; p != nil {
		body := wordwrap.String("declared in "+analysis.Detail(p), max(width-2, 1))
		sb.WriteString(indent.String(body, 2))
		sb.WriteString("\n")
	}
	return sb.String()
}

// At resolves the identifier at offset. The declaration whose name spans
// offset wins; otherwise a member access "recv.name" resolves name in the
// receiver's type, and a bare name resolves to the innermost visible
// declaration. It returns nil when nothing resolves.
func At(ctx context.Context, text string, offset int, decls []analysis.Declaration, lookup completion.TypeLookup) *Info {
	start, end, ok := wordAt(text, offset)
	if !ok {
		return nil
	}
	word := text[start:end]
	all := analysis.Expand(decls, offset)

	for _, d := range all {
		if d.Info().NameRange.Contains(offset) && strings.EqualFold(d.Info().Name, word) {
			return newInfo(d, start, end)
		}
	}

	c, err := completion.Detect(text, end, all)
	switch {
	case err == nil && c.Kind == completion.None:
		// Comment or string.
		return nil
	case c.Kind == completion.Member:
		if err != nil {
			return nil
		}
		t := completion.ResolveType(ctx, c, all, lookup)
		if t == nil {
			return nil
		}
		if m := t.Member(word); m != nil {
			return newInfo(m, start, end)
		}
		return nil
	case err != nil && !errors.Is(err, completion.ErrUnsupported):
		return nil
	}

	if d := analysis.Lookup(all, word, offset); d != nil {
		return newInfo(d, start, end)
	}
	if t := analysis.FindType(all, word); t != nil {
		return newInfo(t, start, end)
	}
	if lookup != nil {
		if t, err := lookup(ctx, word); err == nil && t != nil {
			return newInfo(t, start, end)
		}
	}
	return nil
}

func newInfo(d analysis.Declaration, start, end int) *Info {
	info := &Info{
		Kind:   label(d),
		Name:   d.Info().Name,
		Detail: analysis.Detail(d),
		Range:  analysis.Range{Start: start, End: end},
		Decl:   d,
	}
	if t, ok := d.(*analysis.TypeDecl); ok {
		info.Detail = strings.TrimPrefix(info.Detail, t.TypeKind.String()+" ")
	}
	return info
}

func label(d analysis.Declaration) string {
	switch d := d.(type) {
	case *analysis.TypeDecl:
		return d.TypeKind.String()
	case *analysis.LocalDecl:
		if d.Param {
			return "parameter"
		}
	}
	return d.Kind().String()
}

// wordAt returns the identifier containing offset, or ending at it.
func wordAt(text string, offset int) (int, int, bool) {
	if offset < 0 || offset > len(text) {
		return 0, 0, false
	}
	start, end := offset, offset
	for start > 0 && token.IsIdentChar(text[start-1]) {
		start--
	}
	for end < len(text) && token.IsIdentChar(text[end]) {
		end++
	}
	if start == end || isDigit(text[start]) {
		return 0, 0, false
	}
	return start, end, true
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
