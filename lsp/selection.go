// Copyright © 2026 The apexls authors

package lsp

import (
	"github.com/luthersystems/apexls/astutil"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentSelectionRange handles the textDocument/selectionRange
// request. Each position expands outward through the syntax nodes that
// contain it.
func (s *Server) textDocumentSelectionRange(_ *glsp.Context, params *protocol.SelectionRangeParams) ([]protocol.SelectionRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	doc.mu.Lock()
	root := doc.root
	content := doc.Content
	doc.mu.Unlock()

	out := make([]protocol.SelectionRange, 0, len(params.Positions))
	for _, pos := range params.Positions {
		offset := offsetOf(content, pos)
		var sel *protocol.SelectionRange
		lastStart, lastEnd := -1, -1
		for _, n := range astutil.Path(root, offset) {
			// nodes sharing their parent's extent add nothing
			if n.Start == lastStart && n.End == lastEnd {
				continue
			}
			lastStart, lastEnd = n.Start, n.End
			sel = &protocol.SelectionRange{Range: rangeOf(content, n.Start, n.End), Parent: sel}
		}
		if sel == nil {
			sel = &protocol.SelectionRange{Range: protocol.Range{Start: pos, End: pos}}
		}
		out = append(out, *sel)
	}
	return out, nil
}
