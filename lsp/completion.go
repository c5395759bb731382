// Copyright © 2026 The apexls authors

package lsp

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/completion"
	"github.com/luthersystems/apexls/logger"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion handles the textDocument/completion request. It
// always answers with a CompletionList so the client learns whether the
// result was truncated.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	text, decls := doc.snapshot()

	res, err := s.engine.Complete(context.Background(), text, offsetOf(text, params.Position), decls)
	if err != nil {
		if !errors.Is(err, completion.ErrUnsupported) {
			s.log.Warnw("completion failed", logger.FieldURI, doc.URI, logger.FieldError, err)
		}
		return protocol.CompletionList{Items: []protocol.CompletionItem{}}, nil
	}

	items := make([]protocol.CompletionItem, len(res.Items))
	for i, c := range res.Items {
		items[i] = completionItem(c, i)
	}
	return protocol.CompletionList{
		IsIncomplete: res.IsIncomplete,
		Items:        items,
	}, nil
}

// completionItem converts a ranked candidate. SortText preserves the rank
// because clients otherwise sort by label.
func completionItem(c completion.Candidate, rank int) protocol.CompletionItem {
	kind := mapCompletionItemKind(c)
	sortText := fmt.Sprintf("%04d", rank)
	item := protocol.CompletionItem{
		Label:    c.Name(),
		Kind:     &kind,
		SortText: &sortText,
	}
	if c.Decl != nil {
		detail := analysis.Detail(c.Decl)
		item.Detail = &detail
	}
	return item
}
