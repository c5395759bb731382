// Copyright © 2026 The apexls authors

package completion

import (
	"context"

	"github.com/luthersystems/apexls/analysis"
)

// Source produces raw candidates for a context. Candidates are filtered by
// prefix and ranked by the Engine.
type Source interface {
	Candidates(ctx context.Context, c Context, decls []analysis.Declaration) []Candidate
}

// DeclarationSource offers the document's declarations and, for member
// access, the members of types found through Lookup.
type DeclarationSource struct {
	Lookup TypeLookup
}

// Candidates implements Source.
func (s DeclarationSource) Candidates(ctx context.Context, c Context, decls []analysis.Declaration) []Candidate {
	return Resolve(ctx, c, decls, s.Lookup)
}

// KeywordSource offers language keywords at the top level.
type KeywordSource struct {
	// Keywords defaults to Keywords when nil.
	Keywords []string
}

// Candidates implements Source.
func (s KeywordSource) Candidates(_ context.Context, c Context, _ []analysis.Declaration) []Candidate {
	if c.Kind != TopLevel {
		return nil
	}
	words := s.Keywords
	if words == nil {
		words = Keywords
	}
	out := make([]Candidate, len(words))
	for i, w := range words {
		out[i] = Candidate{Keyword: w, Tag: TagKeyword}
	}
	return out
}

// Keywords are the Apex reserved words offered by KeywordSource.
var Keywords = []string{
	"abstract", "break", "catch", "class", "continue", "delete", "do",
	"else", "enum", "extends", "false", "final", "finally", "for", "get",
	"global", "if", "implements", "inherited", "insert", "instanceof",
	"interface", "merge", "new", "null", "on", "override", "private",
	"protected", "public", "return", "set", "sharing", "static", "super",
	"switch", "testmethod", "this", "throw", "transient", "true", "try",
	"undelete", "update", "upsert", "virtual", "void", "webservice", "when",
	"while", "with", "without",
}
