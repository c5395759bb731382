// Copyright © 2026 The apexls authors

package lsp

import (
	"context"
	"os"

	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/hover"
	"github.com/luthersystems/apexls/logger"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition handles the textDocument/definition request. The
// symbol is resolved as for hover; its declaration is searched in the
// current document, the other open documents and the workspace index.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	text, decls := doc.snapshot()
	ctx := context.Background()

	info := hover.At(ctx, text, offsetOf(text, params.Position), decls, s.lookupType)
	if info == nil {
		return nil, nil
	}
	d := info.Decl

	for _, other := range append([]*Document{doc}, s.docs.All()...) {
		otherText, otherDecls := other.snapshot()
		if d.Info().NameRange != nil && containsDecl(otherDecls, d) {
			n := d.Info().NameRange
			return protocol.Location{URI: other.URI, Range: rangeOf(otherText, n.Start, n.End)}, nil
		}
	}

	ix := s.workspaceIndex()
	if ix == nil {
		return nil, nil
	}
	file, offset, err := ix.Locate(ctx, qualifiedName(d))
	if err != nil {
		s.log.Debugw("definition not indexed", "name", qualifiedName(d), logger.FieldError, err)
		return nil, nil
	}
	uri := pathToURI(file)
	var fileText string
	if open := s.docs.Get(uri); open != nil {
		fileText, _ = open.snapshot()
	} else {
		b, err := os.ReadFile(file) //nolint:gosec // indexed workspace file
		if err != nil {
			return nil, nil
		}
		fileText = string(b)
	}
	return protocol.Location{
		URI:   uri,
		Range: rangeOf(fileText, offset, offset+len(d.Info().Name)),
	}, nil
}

// qualifiedName names a type or type member the way workspace.Index.Locate
// expects.
func qualifiedName(d analysis.Declaration) string {
	if t, ok := d.(*analysis.TypeDecl); ok {
		return t.QualifiedName()
	}
	if p := d.Info().Parent; p != nil {
		return p.QualifiedName() + "." + d.Info().Name
	}
	return d.Info().Name
}

// containsDecl reports whether target is one of decls or nested in them.
func containsDecl(decls []analysis.Declaration, target analysis.Declaration) bool {
	found := false
	walkDecls(decls, func(d analysis.Declaration) bool {
		if d == target {
			found = true
		}
		return !found
	})
	return found
}

// walkDecls visits every declaration reachable from decls, including
// members, parameters and block locals, until fn returns false.
func walkDecls(decls []analysis.Declaration, fn func(analysis.Declaration) bool) bool {
	for _, d := range decls {
		if !fn(d) {
			return false
		}
		var nested []analysis.Declaration
		switch d := d.(type) {
		case *analysis.TypeDecl:
			nested = append(nested, d.Members...)
			for _, b := range d.StaticInits {
				nested = appendBlock(nested, b)
			}
			for _, b := range d.InstanceInits {
				nested = appendBlock(nested, b)
			}
		case *analysis.MethodDecl:
			nested = appendLocals(nested, d.Params)
			nested = appendBlock(nested, d.Body)
		case *analysis.ConstructorDecl:
			nested = appendLocals(nested, d.Params)
			nested = appendBlock(nested, d.Body)
		case *analysis.PropertyDecl:
			nested = appendBlock(nested, d.Getter)
			nested = appendBlock(nested, d.Setter)
		}
		if !walkDecls(nested, fn) {
			return false
		}
	}
	return true
}

func appendBlock(out []analysis.Declaration, b *analysis.Block) []analysis.Declaration {
	if b == nil {
		return out
	}
	return appendLocals(out, b.Decls)
}

func appendLocals(out []analysis.Declaration, locals []*analysis.LocalDecl) []analysis.Declaration {
	for _, l := range locals {
		out = append(out, l)
	}
	return out
}
