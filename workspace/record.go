// Copyright © 2026 The apexls authors

package workspace

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
)

// Record is one indexed top-level type.
type Record struct {
	// Name is the type name as declared.
	Name string
	// File is the absolute path of the declaring file.
	File    string
	ModTime time.Time
	Decl    DeclRecord
}

// Key returns the store key of the record.
func (r *Record) Key() string { return Key(r.Name) }

// Key normalizes a type name for storage. Apex names are case-insensitive.
func Key(name string) string { return strings.ToLower(name) }

// DeclRecord is the serialized form of a declaration. It carries no
// visibility: every record is a type or a type member and is always
// visible. Offset is the byte offset of the name in the declaring file.
type DeclRecord struct {
	Kind       string       `json:"kind"`
	Name       string       `json:"name"`
	Offset     int          `json:"offset"`
	TypeKind   string       `json:"typeKind,omitempty"`
	Type       string       `json:"type,omitempty"`
	Static     bool         `json:"static,omitempty"`
	Modifiers  []string     `json:"modifiers,omitempty"`
	Accessors  []string     `json:"accessors,omitempty"`
	Params     []DeclRecord `json:"params,omitempty"`
	Super      string       `json:"super,omitempty"`
	Interfaces []string     `json:"interfaces,omitempty"`
	Members    []DeclRecord `json:"members,omitempty"`
}

// FromDecl converts a type, member or parameter declaration. Locals other
// than parameters are not recorded.
func FromDecl(d analysis.Declaration) DeclRecord {
	info := d.Info()
	r := DeclRecord{
		Kind:      d.Kind().String(),
		Name:      info.Name,
		Modifiers: info.Modifiers,
	}
	if info.NameRange != nil {
		r.Offset = info.NameRange.Start
	}
	switch d := d.(type) {
	case *analysis.TypeDecl:
		r.TypeKind = d.TypeKind.String()
		r.Super = d.Super
		r.Interfaces = d.Interfaces
		for _, m := range d.Members {
			r.Members = append(r.Members, FromDecl(m))
		}
	case *analysis.FieldDecl:
		r.Type, r.Static = d.Type, d.Static
	case *analysis.PropertyDecl:
		r.Type, r.Static, r.Accessors = d.Type, d.Static, d.Accessors
	case *analysis.MethodDecl:
		r.Type, r.Static = d.ReturnType, d.Static
		r.Params = params(d.Params)
	case *analysis.ConstructorDecl:
		r.Params = params(d.Params)
	case *analysis.LocalDecl:
		r.Type = d.Type
	}
	return r
}

func params(ps []*analysis.LocalDecl) []DeclRecord {
	out := make([]DeclRecord, len(ps))
	for i, p := range ps {
		out[i] = FromDecl(p)
	}
	return out
}

// ToType rebuilds the type declaration held by r. Ranges are nil: the
// declaration does not belong to the document being edited.
func (r DeclRecord) ToType() (*analysis.TypeDecl, error) {
	t, ok := r.toDecl(nil).(*analysis.TypeDecl)
	if !ok {
		return nil, errors.Newf("record %q is a %s, not a type", r.Name, r.Kind)
	}
	return t, nil
}

func (r DeclRecord) toDecl(parent *analysis.TypeDecl) analysis.Declaration {
	info := analysis.DeclInfo{
		Name:       r.Name,
		Visibility: analysis.Always(),
		Parent:     parent,
		Modifiers:  r.Modifiers,
	}
	switch r.Kind {
	case analysis.KindType.String():
		t := &analysis.TypeDecl{
			DeclInfo:   info,
			TypeKind:   parseTypeKind(r.TypeKind),
			Super:      r.Super,
			Interfaces: r.Interfaces,
		}
		for _, m := range r.Members {
			t.Members = append(t.Members, m.toDecl(t))
		}
		return t
	case analysis.KindField.String():
		return &analysis.FieldDecl{DeclInfo: info, Type: r.Type, Static: r.Static}
	case analysis.KindProperty.String():
		return &analysis.PropertyDecl{DeclInfo: info, Type: r.Type, Static: r.Static, Accessors: r.Accessors}
	case analysis.KindMethod.String():
		return &analysis.MethodDecl{DeclInfo: info, ReturnType: r.Type, Static: r.Static, Params: r.localParams()}
	case analysis.KindConstructor.String():
		info.Visibility = analysis.Never()
		return &analysis.ConstructorDecl{DeclInfo: info, Params: r.localParams()}
	case analysis.KindEnumValue.String():
		enum := ""
		if parent != nil {
			enum = parent.QualifiedName()
		}
		return &analysis.EnumValueDecl{DeclInfo: info, Enum: enum}
	}
	return &analysis.LocalDecl{DeclInfo: info, Type: r.Type, Param: true}
}

func (r DeclRecord) localParams() []*analysis.LocalDecl {
	out := make([]*analysis.LocalDecl, len(r.Params))
	for i, p := range r.Params {
		out[i] = &analysis.LocalDecl{
			DeclInfo: analysis.DeclInfo{Name: p.Name, Visibility: analysis.Never()},
			Type:     p.Type,
			Param:    true,
		}
	}
	return out
}

func parseTypeKind(s string) analysis.TypeKind {
	switch s {
	case analysis.TypeInterface.String():
		return analysis.TypeInterface
	case analysis.TypeEnum.String():
		return analysis.TypeEnum
	}
	return analysis.TypeClass
}

// Find returns the member record named name, compared case-insensitively.
func (r DeclRecord) Find(name string) (DeclRecord, bool) {
	for _, m := range r.Members {
		if m.Kind != analysis.KindConstructor.String() && strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return DeclRecord{}, false
}

func encodeDecl(r DeclRecord) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", errors.Wrapf(err, "encode %s", r.Name)
	}
	return string(b), nil
}

func decodeDecl(s string) (DeclRecord, error) {
	var r DeclRecord
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return r, errors.Wrap(err, "decode type record")
	}
	return r, nil
}
