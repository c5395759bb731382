// Copyright © 2026 The apexls authors

package analysis

import (
	"strings"
)

// DeclKind discriminates the Declaration variants.
type DeclKind int

const (
	KindType        DeclKind = iota // class, interface or enum
	KindField                       // plain field
	KindProperty                    // field with get/set accessors
	KindMethod                      // method or interface signature
	KindConstructor                 // constructor
	KindEnumValue                   // enum constant
	KindLocal                       // local variable, parameter or loop variable
)

func (k DeclKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	case KindEnumValue:
		return "enum value"
	case KindLocal:
		return "variable"
	default:
		return "unknown"
	}
}

// TypeKind classifies a type declaration.
type TypeKind int

const (
	TypeClass TypeKind = iota
	TypeInterface
	TypeEnum
)

func (k TypeKind) String() string {
	switch k {
	case TypeClass:
		return "class"
	case TypeInterface:
		return "interface"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Range is a byte range into a document. End is the offset just past the
// last byte, but Contains also accepts End itself.
type Range struct {
	Start int
	End   int
}

// Contains reports whether offset lies within r. End is inclusive so a
// cursor placed right after the last byte still counts. A nil range
// contains nothing.
func (r *Range) Contains(offset int) bool {
	return r != nil && r.Start <= offset && offset <= r.End
}

// Declaration is a referenceable symbol extracted from a document. The set
// of implementations is closed; switch on Kind to handle each variant.
type Declaration interface {
	Kind() DeclKind
	Info() *DeclInfo
	declaration()
}

// DeclInfo holds the attributes shared by every declaration.
type DeclInfo struct {
	// Name is compared case-insensitively.
	Name string
	// Range is the full extent of the declaration, nil for declarations
	// loaded without a textual location.
	Range *Range
	// NameRange is the extent of the name token.
	NameRange  *Range
	Visibility Visibility
	// Parent is the nearest enclosing type, nil at top level.
	Parent *TypeDecl
	// Modifiers are lower-cased modifier keywords and annotations.
	Modifiers []string
}

// Info returns d itself.
func (d *DeclInfo) Info() *DeclInfo { return d }

func (*DeclInfo) declaration() {}

// HasModifier reports whether the declaration carries the given modifier,
// compared case-insensitively.
func (d *DeclInfo) HasModifier(mod string) bool {
	for _, m := range d.Modifiers {
		if strings.EqualFold(m, mod) {
			return true
		}
	}
	return false
}

// TypeDecl is a class, interface or enum.
type TypeDecl struct {
	DeclInfo
	TypeKind TypeKind
	// Members holds fields, properties, methods, constructors, nested types
	// and enum values in source order.
	Members []Declaration
	// StaticInits holds the bodies of static initializer blocks.
	StaticInits []*Block
	// InstanceInits holds the bodies of instance initializer blocks.
	InstanceInits []*Block
	Super         string
	Interfaces    []string
}

func (*TypeDecl) Kind() DeclKind { return KindType }

// QualifiedName returns the name prefixed by the enclosing type names.
func (t *TypeDecl) QualifiedName() string {
	if t.Parent == nil {
		return t.Name
	}
	return t.Parent.QualifiedName() + "." + t.Name
}

// Member returns the first member named name, or nil.
func (t *TypeDecl) Member(name string) Declaration {
	for _, m := range t.Members {
		if m.Kind() != KindConstructor && strings.EqualFold(m.Info().Name, name) {
			return m
		}
	}
	return nil
}

// FieldDecl is a plain field.
type FieldDecl struct {
	DeclInfo
	Type   string
	Static bool
}

func (*FieldDecl) Kind() DeclKind { return KindField }

// PropertyDecl is a field with accessors. Accessors lists the declared
// accessor keywords ("get", "set"); Getter and Setter are nil for accessors
// without a body.
type PropertyDecl struct {
	DeclInfo
	Type      string
	Static    bool
	Accessors []string
	Getter    *Block
	Setter    *Block
}

func (*PropertyDecl) Kind() DeclKind { return KindProperty }

// MethodDecl is a method. Body is nil for interface signatures and
// abstract methods.
type MethodDecl struct {
	DeclInfo
	ReturnType string
	Params     []*LocalDecl
	Static     bool
	Body       *Block
}

func (*MethodDecl) Kind() DeclKind { return KindMethod }

// ConstructorDecl is a constructor.
type ConstructorDecl struct {
	DeclInfo
	Params []*LocalDecl
	Body   *Block
}

func (*ConstructorDecl) Kind() DeclKind { return KindConstructor }

// EnumValueDecl is an enum constant.
type EnumValueDecl struct {
	DeclInfo
	Enum string
}

func (*EnumValueDecl) Kind() DeclKind { return KindEnumValue }

// LocalDecl is a local variable, loop variable, catch parameter or method
// parameter.
type LocalDecl struct {
	DeclInfo
	Type  string
	Param bool
}

func (*LocalDecl) Kind() DeclKind { return KindLocal }

// Block groups the locals declared anywhere inside one body. Each local
// carries its own scoped visibility.
type Block struct {
	Range Range
	Decls []*LocalDecl
}

// IsStatic reports whether d is accessed through its type rather than an
// instance. Enum values and nested types are static.
func IsStatic(d Declaration) bool {
	switch d := d.(type) {
	case *FieldDecl:
		return d.Static
	case *PropertyDecl:
		return d.Static
	case *MethodDecl:
		return d.Static
	case *EnumValueDecl:
		return true
	case *TypeDecl:
		return d.Parent != nil
	}
	return false
}

// DeclaredType returns the static type of a value declaration with generic
// arguments and array suffixes removed, or "" for declarations without a
// value type.
func DeclaredType(d Declaration) string {
	switch d := d.(type) {
	case *FieldDecl:
		return BaseType(d.Type)
	case *PropertyDecl:
		return BaseType(d.Type)
	case *LocalDecl:
		return BaseType(d.Type)
	case *EnumValueDecl:
		return d.Enum
	case *TypeDecl:
		return d.QualifiedName()
	}
	return ""
}

// BaseType strips generic arguments, array suffixes and whitespace from a
// type reference: "List<Account>" becomes "List".
func BaseType(typ string) string {
	if i := strings.IndexAny(typ, "<["); i >= 0 {
		typ = typ[:i]
	}
	return strings.TrimSpace(typ)
}

// Detail renders a one-line signature for d, such as
// "Integer add(Integer a, Integer b)".
func Detail(d Declaration) string {
	switch d := d.(type) {
	case *TypeDecl:
		s := d.TypeKind.String() + " " + d.QualifiedName()
		if d.Super != "" {
			s += " extends " + d.Super
		}
		if len(d.Interfaces) > 0 {
			if d.TypeKind == TypeInterface {
				s += " extends "
			} else {
				s += " implements "
			}
			s += strings.Join(d.Interfaces, ", ")
		}
		return s
	case *FieldDecl:
		return staticPrefix(d.Static) + d.Type + " " + d.Name
	case *PropertyDecl:
		s := staticPrefix(d.Static) + d.Type + " " + d.Name
		if len(d.Accessors) > 0 {
			s += " { " + strings.Join(d.Accessors, "; ") + "; }"
		}
		return s
	case *MethodDecl:
		return staticPrefix(d.Static) + d.ReturnType + " " + d.Name + paramList(d.Params)
	case *ConstructorDecl:
		return d.Name + paramList(d.Params)
	case *EnumValueDecl:
		if d.Enum == "" {
			return d.Name
		}
		return d.Enum + "." + d.Name
	case *LocalDecl:
		return d.Type + " " + d.Name
	}
	return ""
}

func staticPrefix(static bool) string {
	if static {
		return "static "
	}
	return ""
}

func paramList(params []*LocalDecl) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type + " " + p.Name
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
