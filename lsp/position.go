// Copyright © 2026 The apexls authors

package lsp

import (
	"math"
	"strings"

	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/completion"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Positions are exchanged as 0-based lines and byte columns.

// offsetOf converts an LSP position to a byte offset in text.
func offsetOf(text string, pos protocol.Position) int {
	return analysis.OffsetAt(text, int(pos.Line), int(pos.Character))
}

// positionOf converts a byte offset in text to an LSP position.
func positionOf(text string, offset int) protocol.Position {
	line, char := analysis.PositionAt(text, offset)
	return protocol.Position{Line: safeUint(line), Character: safeUint(char)}
}

// rangeOf converts a byte range to an LSP range.
func rangeOf(text string, start, end int) protocol.Range {
	return protocol.Range{Start: positionOf(text, start), End: positionOf(text, end)}
}

// declRange returns the full and name ranges of a declaration. Missing
// ranges collapse onto whichever one is present.
func declRange(text string, d analysis.Declaration) (full, name protocol.Range) {
	info := d.Info()
	r, n := info.Range, info.NameRange
	switch {
	case r == nil && n == nil:
		return protocol.Range{}, protocol.Range{}
	case r == nil:
		r = n
	case n == nil:
		n = &analysis.Range{Start: r.Start, End: r.Start}
	}
	return rangeOf(text, r.Start, r.End), rangeOf(text, n.Start, n.End)
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to 0 and values above the uint32 range to its maximum.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return protocol.UInteger(n)
}

func mapSymbolKind(d analysis.Declaration) protocol.SymbolKind {
	switch d := d.(type) {
	case *analysis.TypeDecl:
		switch d.TypeKind {
		case analysis.TypeInterface:
			return protocol.SymbolKindInterface
		case analysis.TypeEnum:
			return protocol.SymbolKindEnum
		}
		return protocol.SymbolKindClass
	case *analysis.FieldDecl:
		if d.Static && d.HasModifier("final") {
			return protocol.SymbolKindConstant
		}
		return protocol.SymbolKindField
	case *analysis.PropertyDecl:
		return protocol.SymbolKindProperty
	case *analysis.MethodDecl:
		return protocol.SymbolKindMethod
	case *analysis.ConstructorDecl:
		return protocol.SymbolKindConstructor
	case *analysis.EnumValueDecl:
		return protocol.SymbolKindEnumMember
	}
	return protocol.SymbolKindVariable
}

func mapCompletionItemKind(c completion.Candidate) protocol.CompletionItemKind {
	if c.Tag == completion.TagKeyword {
		return protocol.CompletionItemKindKeyword
	}
	switch d := c.Decl.(type) {
	case *analysis.TypeDecl:
		switch d.TypeKind {
		case analysis.TypeInterface:
			return protocol.CompletionItemKindInterface
		case analysis.TypeEnum:
			return protocol.CompletionItemKindEnum
		}
		return protocol.CompletionItemKindClass
	case *analysis.FieldDecl:
		return protocol.CompletionItemKindField
	case *analysis.PropertyDecl:
		return protocol.CompletionItemKindProperty
	case *analysis.MethodDecl:
		return protocol.CompletionItemKindMethod
	case *analysis.EnumValueDecl:
		return protocol.CompletionItemKindEnumMember
	}
	return protocol.CompletionItemKindVariable
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts an absolute filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
