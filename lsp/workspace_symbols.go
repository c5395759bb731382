// Copyright © 2026 The apexls authors

package lsp

import (
	"context"
	"os"
	"strings"

	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/logger"
	"github.com/luthersystems/apexls/workspace"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// workspaceSymbol handles the workspace/symbol request. It returns the
// types and type members across the workspace whose name matches the
// query. An empty query returns all symbols.
func (s *Server) workspaceSymbol(_ *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	results := []protocol.SymbolInformation{}
	seen := make(map[string]bool)

	// Open documents first: they may be ahead of the index.
	for _, doc := range s.docs.All() {
		text, decls := doc.snapshot()
		seen[uriToPath(doc.URI)] = true
		walkDecls(decls, func(d analysis.Declaration) bool {
			info := d.Info()
			if info.Name == "" || info.NameRange == nil || d.Kind() == analysis.KindLocal {
				return true
			}
			if matchesQuery(info.Name, query) {
				results = append(results, protocol.SymbolInformation{
					Name:          info.Name,
					Kind:          mapSymbolKind(d),
					Location:      protocol.Location{URI: doc.URI, Range: rangeOf(text, info.NameRange.Start, info.NameRange.End)},
					ContainerName: containerName(info.Parent),
				})
			}
			return true
		})
	}

	ix := s.workspaceIndex()
	if ix == nil {
		return results, nil
	}
	recs, err := ix.Records(context.Background())
	if err != nil {
		s.log.Warnw("list workspace symbols", logger.FieldError, err)
		return results, nil
	}
	texts := make(map[string]string)
	for _, r := range recs {
		if seen[r.File] {
			continue
		}
		results = appendRecordSymbols(results, r.File, texts, r.Decl, "", query)
	}
	return results, nil
}

// appendRecordSymbols adds the matching symbols of a type record. Offsets
// are converted with the file text, read once per file.
func appendRecordSymbols(out []protocol.SymbolInformation, file string, texts map[string]string, d workspace.DeclRecord, container, query string) []protocol.SymbolInformation {
	if d.Kind == analysis.KindLocal.String() || d.Kind == analysis.KindConstructor.String() {
		return out
	}
	if matchesQuery(d.Name, query) {
		text, ok := texts[file]
		if !ok {
			b, err := os.ReadFile(file) //nolint:gosec // indexed workspace file
			if err == nil {
				text = string(b)
			}
			texts[file] = text
		}
		var kind protocol.SymbolKind
		if d.Kind == analysis.KindType.String() {
			switch d.TypeKind {
			case analysis.TypeInterface.String():
				kind = protocol.SymbolKindInterface
			case analysis.TypeEnum.String():
				kind = protocol.SymbolKindEnum
			default:
				kind = protocol.SymbolKindClass
			}
		} else {
			kind = recordMemberKind(d.Kind)
		}
		si := protocol.SymbolInformation{
			Name:     d.Name,
			Kind:     kind,
			Location: protocol.Location{URI: pathToURI(file), Range: rangeOf(text, d.Offset, d.Offset+len(d.Name))},
		}
		if container != "" {
			si.ContainerName = &container
		}
		out = append(out, si)
	}
	if d.Kind == analysis.KindType.String() {
		name := d.Name
		if container != "" {
			name = container + "." + name
		}
		for _, m := range d.Members {
			out = appendRecordSymbols(out, file, texts, m, name, query)
		}
	}
	return out
}

func recordMemberKind(kind string) protocol.SymbolKind {
	switch kind {
	case analysis.KindField.String():
		return protocol.SymbolKindField
	case analysis.KindProperty.String():
		return protocol.SymbolKindProperty
	case analysis.KindMethod.String():
		return protocol.SymbolKindMethod
	case analysis.KindEnumValue.String():
		return protocol.SymbolKindEnumMember
	}
	return protocol.SymbolKindVariable
}

func containerName(t *analysis.TypeDecl) *string {
	if t == nil {
		return nil
	}
	name := t.QualifiedName()
	return &name
}

// matchesQuery performs case-insensitive substring matching. An empty query
// matches everything; clients send "" to request all symbols.
func matchesQuery(name, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), lowerQuery)
}
