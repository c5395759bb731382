// Copyright © 2026 The apexls authors

package analysis

import "strings"

// Expand returns decls followed by every declaration reachable at offset
// that Index keeps nested: the members of each type whose range encloses
// offset (recursively through nested types), and the parameters and locals
// of the method, constructor, accessor or initializer body containing
// offset. The input slice is not modified.
func Expand(decls []Declaration, offset int) []Declaration {
	out := make([]Declaration, 0, len(decls))
	out = append(out, decls...)
	for _, d := range decls {
		if t, ok := d.(*TypeDecl); ok {
			out = expandType(out, t, offset)
		}
	}
	return out
}

func expandType(out []Declaration, t *TypeDecl, offset int) []Declaration {
	if !t.Range.Contains(offset) {
		return out
	}
	out = append(out, t.Members...)
	for _, m := range t.Members {
		switch m := m.(type) {
		case *TypeDecl:
			out = expandType(out, m, offset)
		case *MethodDecl:
			if m.Range.Contains(offset) {
				out = appendLocals(out, m.Params...)
				out = expandBlock(out, m.Body, offset)
			}
		case *ConstructorDecl:
			if m.Range.Contains(offset) {
				out = appendLocals(out, m.Params...)
				out = expandBlock(out, m.Body, offset)
			}
		case *PropertyDecl:
			out = expandBlock(out, m.Getter, offset)
			out = expandBlock(out, m.Setter, offset)
		}
	}
	for _, b := range t.StaticInits {
		out = expandBlock(out, b, offset)
	}
	for _, b := range t.InstanceInits {
		out = expandBlock(out, b, offset)
	}
	return out
}

func expandBlock(out []Declaration, b *Block, offset int) []Declaration {
	if b == nil || !b.Range.Contains(offset) {
		return out
	}
	return appendLocals(out, b.Decls...)
}

func appendLocals(out []Declaration, locals ...*LocalDecl) []Declaration {
	for _, l := range locals {
		out = append(out, l)
	}
	return out
}

// EnclosingType returns the innermost type declaration whose range
// contains offset, or nil.
func EnclosingType(decls []Declaration, offset int) *TypeDecl {
	var found *TypeDecl
	for _, d := range decls {
		t, ok := d.(*TypeDecl)
		if !ok || !t.Range.Contains(offset) {
			continue
		}
		found = t
		if inner := EnclosingType(t.Members, offset); inner != nil {
			found = inner
		}
		break
	}
	return found
}

// Lookup returns the declaration named name, compared case-insensitively.
// Declarations visible at offset are preferred; among several visible
// ones the last (innermost, since Expand appends nested scopes after their
// owners) wins. Constructors are skipped.
func Lookup(decls []Declaration, name string, offset int) Declaration {
	if name == "" {
		return nil
	}
	var first, visible Declaration
	for _, d := range decls {
		if d.Kind() == KindConstructor || !strings.EqualFold(d.Info().Name, name) {
			continue
		}
		if first == nil {
			first = d
		}
		if IsVisibleAt(d, offset) {
			visible = d
		}
	}
	if visible != nil {
		return visible
	}
	return first
}

// FindType returns the type declaration named name among decls and their
// nested types. A dotted name is resolved through one level of nesting.
func FindType(decls []Declaration, name string) *TypeDecl {
	if outer, inner, ok := strings.Cut(name, "."); ok {
		t := FindType(decls, outer)
		if t == nil {
			return nil
		}
		nested, _ := t.Member(inner).(*TypeDecl)
		return nested
	}
	for _, d := range decls {
		if t, ok := d.(*TypeDecl); ok && strings.EqualFold(t.Name, name) {
			return t
		}
	}
	for _, d := range decls {
		if t, ok := d.(*TypeDecl); ok {
			for _, m := range t.Members {
				if nested, ok := m.(*TypeDecl); ok && strings.EqualFold(nested.Name, name) {
					return nested
				}
			}
		}
	}
	return nil
}

// LookupQualified resolves "Outer.member" one level deep: the type named
// Outer among decls and its member named member.
func LookupQualified(decls []Declaration, name string) Declaration {
	outer, member, ok := strings.Cut(name, ".")
	if !ok {
		return nil
	}
	t := FindType(decls, outer)
	if t == nil {
		return nil
	}
	return t.Member(member)
}
