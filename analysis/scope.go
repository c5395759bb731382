// Copyright © 2026 The apexls authors

package analysis

// VisibilityKind classifies where a declaration may be suggested.
type VisibilityKind int

const (
	AlwaysVisible           VisibilityKind = iota // types, members, enum values
	NeverVisible                                  // constructors
	VisibleAfterDeclaration                       // unscoped locals, parameters without a body
	VisibleInScope                                // scoped locals, parameters, loop variables
)

func (k VisibilityKind) String() string {
	switch k {
	case AlwaysVisible:
		return "always"
	case NeverVisible:
		return "never"
	case VisibleAfterDeclaration:
		return "after-declaration"
	case VisibleInScope:
		return "in-scope"
	default:
		return "unknown"
	}
}

// Visibility is the byte interval over which a declaration may legally be
// suggested. ScopeEnd is only meaningful for VisibleInScope.
type Visibility struct {
	Kind     VisibilityKind
	ScopeEnd int
}

// Always returns the AlwaysVisible rule.
func Always() Visibility { return Visibility{Kind: AlwaysVisible} }

// Never returns the NeverVisible rule.
func Never() Visibility { return Visibility{Kind: NeverVisible} }

// AfterDeclaration returns the VisibleAfterDeclaration rule.
func AfterDeclaration() Visibility { return Visibility{Kind: VisibleAfterDeclaration} }

// InScope returns a rule visible from the declaration start through
// scopeEnd inclusive.
func InScope(scopeEnd int) Visibility {
	return Visibility{Kind: VisibleInScope, ScopeEnd: scopeEnd}
}

// scoped returns InScope(scopeEnd), or AfterDeclaration when there is no
// enclosing scope (scopeEnd < 0).
func scoped(scopeEnd int) Visibility {
	if scopeEnd < 0 {
		return AfterDeclaration()
	}
	return InScope(scopeEnd)
}

// IsVisibleAt reports whether d may be suggested at offset. A declaration
// without a range is treated as starting at offset zero.
func IsVisibleAt(d Declaration, offset int) bool {
	info := d.Info()
	start := 0
	if info.Range != nil {
		start = info.Range.Start
	}
	switch info.Visibility.Kind {
	case AlwaysVisible:
		return true
	case NeverVisible:
		return false
	case VisibleAfterDeclaration:
		return offset >= start
	case VisibleInScope:
		return start <= offset && offset <= info.Visibility.ScopeEnd
	}
	return false
}
