// Package types is the semantic type registry consumed by interface builders,
// plus the decoded value model carried by contract state.
//
// Types are identified by a semantic ID: a sha2-256 digest over the type's
// qualified name and its definition. A registry snapshot is identified by the
// digest of all its (name, semantic ID) pairs in name order.
package types

import (
	"encoding/hex"
	"fmt"
	"sort"

	"xdao.co/iface/cidutil"
)

const (
	semIDDomain    = "xdao.co/iface/types:v1"
	systemIDDomain = "xdao.co/iface/typesys:v1"
)

// SemID is the semantic identity of a named type.
type SemID [32]byte

func (s SemID) String() string { return hex.EncodeToString(s[:]) }

// TypeRef is a resolved reference to a registry type.
type TypeRef struct {
	Name  string
	SemID SemID
}

// Def is a type definition: a qualified name and a stable textual definition.
type Def struct {
	Name string
	Spec string
}

// SemID derives the semantic ID of the definition.
func (d Def) SemID() SemID {
	msg := make([]byte, 0, len(semIDDomain)+len(d.Name)+len(d.Spec)+2)
	msg = append(msg, semIDDomain...)
	msg = append(msg, 0)
	msg = append(msg, d.Name...)
	msg = append(msg, 0)
	msg = append(msg, d.Spec...)
	return SemID(cidutil.SHA256(msg))
}

// Registry resolves type names for schema builders.
type Registry interface {
	Lookup(name string) (TypeRef, bool)
	// SystemID identifies the registry snapshot.
	SystemID() SemID
}

// MustGet resolves name or panics. Builders call it with names they declare
// statically, so a miss is a build-time defect.
func MustGet(reg Registry, name string) TypeRef {
	ref, ok := reg.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("types: registry has no type %q", name))
	}
	return ref
}

// System is an immutable registry snapshot.
type System struct {
	refs map[string]TypeRef
	id   SemID
}

// NewSystem builds a registry snapshot from defs. Duplicate names are rejected.
func NewSystem(defs ...Def) (*System, error) {
	refs := make(map[string]TypeRef, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("types: empty type name")
		}
		if len(d.Name) > 255 {
			return nil, fmt.Errorf("types: type name %q too long", d.Name)
		}
		if _, dup := refs[d.Name]; dup {
			return nil, fmt.Errorf("types: duplicate type %q", d.Name)
		}
		refs[d.Name] = TypeRef{Name: d.Name, SemID: d.SemID()}
	}
	if len(refs) > 255 {
		return nil, fmt.Errorf("types: too many types (%d)", len(refs))
	}
	return &System{refs: refs, id: systemID(refs)}, nil
}

func systemID(refs map[string]TypeRef) SemID {
	names := make([]string, 0, len(refs))
	for n := range refs {
		names = append(names, n)
	}
	sort.Strings(names)

	msg := append([]byte(systemIDDomain), 0, byte(len(names)))
	for _, n := range names {
		ref := refs[n]
		msg = append(msg, byte(len(n)))
		msg = append(msg, n...)
		msg = append(msg, ref.SemID[:]...)
	}
	return SemID(cidutil.SHA256(msg))
}

func (s *System) Lookup(name string) (TypeRef, bool) {
	ref, ok := s.refs[name]
	return ref, ok
}

func (s *System) SystemID() SemID { return s.id }

// Names returns the registered type names, sorted.
func (s *System) Names() []string {
	out := make([]string, 0, len(s.refs))
	for n := range s.refs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
