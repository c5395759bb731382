// Copyright © 2026 The apexls authors

package completion

import (
	"context"

	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/logger"
)

// Tag is the presentation class of a candidate.
type Tag int

const (
	TagType Tag = iota
	TagMember
	TagVariable
	TagKeyword
)

func (t Tag) String() string {
	switch t {
	case TagType:
		return "type"
	case TagMember:
		return "member"
	case TagVariable:
		return "variable"
	case TagKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

// Candidate is one completion proposal. Exactly one of Decl and Keyword is
// set.
type Candidate struct {
	Decl    analysis.Declaration
	Keyword string
	Tag     Tag
	// Parent is the type owning a member candidate.
	Parent *analysis.TypeDecl
	Static bool
}

// Name returns the text inserted by the candidate.
func (c Candidate) Name() string {
	if c.Decl != nil {
		return c.Decl.Info().Name
	}
	return c.Keyword
}

// Label names the kind of candidate for display: the type kind for types
// ("class", "enum"), the declaration kind for members and variables, and
// "keyword" for keywords.
func (c Candidate) Label() string {
	switch d := c.Decl.(type) {
	case nil:
		return c.Tag.String()
	case *analysis.TypeDecl:
		return d.TypeKind.String()
	}
	return c.Decl.Kind().String()
}

// Detail returns the candidate's one-line signature, or "" for keywords.
func (c Candidate) Detail() string {
	if c.Decl == nil {
		return ""
	}
	return analysis.Detail(c.Decl)
}

// TypeLookup resolves a type name declared outside the current document.
// A nil result with a nil error means the type is unknown.
type TypeLookup func(ctx context.Context, typeName string) (*analysis.TypeDecl, error)

// Resolve enumerates the declarations eligible at c. decls should be
// expanded for c.Offset. lookup may be nil.
func Resolve(ctx context.Context, c Context, decls []analysis.Declaration, lookup TypeLookup) []Candidate {
	switch c.Kind {
	case TopLevel:
		return topLevel(c, decls)
	case Member:
		t := ResolveType(ctx, c, decls, lookup)
		if t == nil {
			return nil
		}
		return members(t, c.StaticAccess)
	}
	return nil
}

func topLevel(c Context, decls []analysis.Declaration) []Candidate {
	var out []Candidate
	for _, d := range decls {
		info := d.Info()
		if info.Name == "" || !analysis.IsVisibleAt(d, c.Offset) {
			continue
		}
		switch d.Kind() {
		case analysis.KindConstructor:
			continue
		case analysis.KindType:
			out = append(out, Candidate{Decl: d, Tag: TagType, Parent: info.Parent, Static: analysis.IsStatic(d)})
		case analysis.KindLocal:
			out = append(out, Candidate{Decl: d, Tag: TagVariable})
		case analysis.KindField, analysis.KindProperty, analysis.KindMethod, analysis.KindEnumValue:
			out = append(out, Candidate{Decl: d, Tag: TagMember, Parent: info.Parent, Static: analysis.IsStatic(d)})
		}
	}
	return out
}

// ResolveType finds the declaration of c.TypeName: by name, through a
// same-named local's declared type, one level qualified, and finally
// through lookup.
func ResolveType(ctx context.Context, c Context, decls []analysis.Declaration, lookup TypeLookup) *analysis.TypeDecl {
	name := c.TypeName
	if name == "" {
		return nil
	}
	if t := analysis.FindType(decls, name); t != nil {
		return t
	}
	if l, ok := analysis.Lookup(decls, name, c.Offset).(*analysis.LocalDecl); ok {
		if t := analysis.FindType(decls, analysis.BaseType(l.Type)); t != nil {
			return t
		}
	}
	if t, ok := analysis.LookupQualified(decls, name).(*analysis.TypeDecl); ok {
		return t
	}
	if lookup == nil {
		return nil
	}
	t, err := lookup(ctx, name)
	if err != nil {
		logger.Named("completion").Warnw("type lookup failed",
			logger.FieldType, name,
			logger.FieldError, err)
		return nil
	}
	return t
}

func members(t *analysis.TypeDecl, static bool) []Candidate {
	var out []Candidate
	for _, m := range t.Members {
		if m.Info().Name == "" {
			continue
		}
		cand := Candidate{Decl: m, Tag: TagMember, Parent: t, Static: analysis.IsStatic(m)}
		switch t.TypeKind {
		case analysis.TypeClass:
			switch m.Kind() {
			case analysis.KindConstructor:
				continue
			case analysis.KindType:
				cand.Tag = TagType
			case analysis.KindField, analysis.KindProperty, analysis.KindMethod,
				analysis.KindEnumValue, analysis.KindLocal:
			}
			if cand.Static != static {
				continue
			}
		case analysis.TypeInterface:
			if m.Kind() != analysis.KindMethod {
				continue
			}
		case analysis.TypeEnum:
			if m.Kind() != analysis.KindEnumValue {
				continue
			}
		}
		out = append(out, cand)
	}
	return out
}
