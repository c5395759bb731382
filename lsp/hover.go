// Copyright © 2026 The apexls authors

package lsp

import (
	"context"

	"github.com/luthersystems/apexls/hover"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	text, decls := doc.snapshot()

	info := hover.At(context.Background(), text, offsetOf(text, params.Position), decls, s.lookupType)
	if info == nil {
		return nil, nil
	}
	r := rangeOf(text, info.Range.Start, info.Range.End)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: info.Markdown(),
		},
		Range: &r,
	}, nil
}
