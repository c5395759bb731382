// Copyright © 2026 The apexls authors

package lsp

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/astutil"
	"github.com/luthersystems/apexls/logger"
	"github.com/luthersystems/apexls/parser/token"
	"github.com/luthersystems/apexls/syntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const diagnosticSource = "apexls"

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.publishDiagnostics(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	// Debounce: delay publishing to avoid thrashing during rapid edits.
	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(s.debounceDelay, func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Errorw("diagnostics panic", logger.FieldURI, doc.URI, "panic", r)
			}
		}()
		if d := s.docs.Get(doc.URI); d != nil {
			s.publishDiagnostics(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)

	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}
	s.publishDiagnostics(doc)

	// Refresh the saved file's types in the workspace index.
	if ix := s.workspaceIndex(); ix != nil {
		text, _ := doc.snapshot()
		path := uriToPath(doc.URI)
		go func() {
			if err := ix.IndexText(context.Background(), path, text, time.Now()); err != nil {
				s.log.Warnw("index saved file", logger.FieldFile, path, logger.FieldError, err)
			}
		}()
	}
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// publishDiagnostics reports the document's syntax errors to the client.
func (s *Server) publishDiagnostics(doc *Document) {
	doc.mu.Lock()
	diags := syntaxDiagnostics(doc.Content, doc.errs, astutil.Errors(doc.root))
	uri := doc.URI
	doc.mu.Unlock()

	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// syntaxDiagnostics converts parser errors to diagnostics. Error nodes in
// the tree that no parser error points into are reported as well.
func syntaxDiagnostics(text string, errs []*token.LocationError, nodes []*syntax.Node) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	for _, e := range errs {
		start := 0
		if e.Source != nil {
			start = e.Source.Pos
		}
		diags = append(diags, protocol.Diagnostic{
			Range:    rangeOf(text, start, tokenEnd(text, start)),
			Severity: severity(protocol.DiagnosticSeverityError),
			Source:   strPtr(diagnosticSource),
			Message:  errorMessage(e),
		})
	}
nodes:
	for _, n := range nodes {
		for _, e := range errs {
			if e.Source != nil && n.Start <= e.Source.Pos && e.Source.Pos <= n.End {
				continue nodes
			}
		}
		diags = append(diags, protocol.Diagnostic{
			Range:    rangeOf(text, n.Start, n.End),
			Severity: severity(protocol.DiagnosticSeverityError),
			Source:   strPtr(diagnosticSource),
			Message:  "unexpected input",
		})
	}
	return diags
}

// errorMessage strips the location prefix of a parser error.
func errorMessage(e *token.LocationError) string {
	if e.Err == nil {
		return e.Error()
	}
	var inner *token.LocationError
	if errors.As(e.Err, &inner) {
		return errorMessage(inner)
	}
	return e.Err.Error()
}

// tokenEnd returns the end of the identifier or single character at
// offset, so an error highlights the offending token.
func tokenEnd(text string, offset int) int {
	if offset >= len(text) {
		return len(text)
	}
	end := offset
	for end < len(text) && token.IsIdentChar(text[end]) {
		end++
	}
	if end == offset {
		end++
	}
	return end
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func strPtr(s string) *string {
	return &s
}
