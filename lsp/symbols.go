// Copyright © 2026 The apexls authors

package lsp

import (
	"github.com/luthersystems/apexls/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol
// request with the hierarchical form: types contain their members.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	text, decls := doc.snapshot()
	return documentSymbols(text, decls), nil
}

func documentSymbols(text string, decls []analysis.Declaration) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	for _, d := range decls {
		info := d.Info()
		if info.Name == "" || info.Range == nil {
			continue
		}
		full, name := declRange(text, d)
		detail := analysis.Detail(d)
		sym := protocol.DocumentSymbol{
			Name:           info.Name,
			Detail:         &detail,
			Kind:           mapSymbolKind(d),
			Range:          full,
			SelectionRange: name,
		}
		if t, ok := d.(*analysis.TypeDecl); ok {
			sym.Children = documentSymbols(text, t.Members)
		}
		symbols = append(symbols, sym)
	}
	return symbols
}
