// Package iface implements the interface meta-model for contract asset standards.
//
// An Iface declares the global state a contract publishes, its owned-state
// assignment slots, and the genesis, transition and extension operations that
// may create or change them. Ifaces are plain data: built once, never mutated,
// and identified by the sha2-256 digest of their canonical encoding (see ID).
//
// Maps in the model are unordered. Canonical encoding serializes every map and
// set in byte-wise key order, so construction order never affects identity.
package iface

import (
	"sort"

	"xdao.co/iface/types"
)

// VerNo is the meta-model version.
type VerNo uint8

const V1 VerNo = 1

// Visibility tags an assignment slot. Enforcement belongs to the transfer layer.
type Visibility uint8

const (
	Private Visibility = 0
	Public  Visibility = 1
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Public:
		return "public"
	default:
		return "invalid"
	}
}

// OwnedState is the kind of state carried by an assignment.
type OwnedState uint8

const (
	OwnedAny        OwnedState = 0
	OwnedRights     OwnedState = 1
	OwnedAmount     OwnedState = 2
	OwnedData       OwnedState = 3
	OwnedAttachment OwnedState = 4
)

func (o OwnedState) String() string {
	switch o {
	case OwnedAny:
		return "any"
	case OwnedRights:
		return "rights"
	case OwnedAmount:
		return "amount"
	case OwnedData:
		return "data"
	case OwnedAttachment:
		return "attachment"
	default:
		return "invalid"
	}
}

// GlobalIface declares a global state field.
type GlobalIface struct {
	Type types.TypeRef
	Req  Occurrences
}

func Required(t types.TypeRef) GlobalIface { return GlobalIface{Type: t, Req: Once} }
func Optional(t types.TypeRef) GlobalIface { return GlobalIface{Type: t, Req: ZeroOrOne} }
func NoneOrMany(t types.TypeRef) GlobalIface { return GlobalIface{Type: t, Req: ZeroOrMore} }
func OneOrMany(t types.TypeRef) GlobalIface { return GlobalIface{Type: t, Req: OnceOrMore} }

// AssignIface declares an owned-state slot.
type AssignIface struct {
	Visibility Visibility
	OwnedState OwnedState
	Req        Occurrences
}

func PublicAssign(s OwnedState, req Occurrences) AssignIface {
	return AssignIface{Visibility: Public, OwnedState: s, Req: req}
}

func PrivateAssign(s OwnedState, req Occurrences) AssignIface {
	return AssignIface{Visibility: Private, OwnedState: s, Req: req}
}

// ErrorVariant is one entry of a schema's error taxonomy. Its code is the key
// of Iface.Errors.
type ErrorVariant struct {
	Name        string
	Description string
}

// NameSet is an unordered set of names.
type NameSet map[string]struct{}

// Names builds a NameSet. It returns nil for no names.
func Names(names ...string) NameSet {
	if len(names) == 0 {
		return nil
	}
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s NameSet) Has(n string) bool {
	_, ok := s[n]
	return ok
}

// Sorted returns the members in byte-wise order.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// CodeSet is an unordered set of error codes.
type CodeSet map[uint8]struct{}

// Codes builds a CodeSet. It returns nil for no codes.
func Codes(codes ...uint8) CodeSet {
	if len(codes) == 0 {
		return nil
	}
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s CodeSet) Has(c uint8) bool {
	_, ok := s[c]
	return ok
}

func (s CodeSet) Sorted() []uint8 {
	out := make([]uint8, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sortUint8(out)
	return out
}

func sortUint8(s []uint8) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}

// OccurrencesMap maps field names to the occurrences an operation requires.
type OccurrencesMap map[string]Occurrences

// GenesisIface declares the issuance operation.
type GenesisIface struct {
	Metadata    *types.TypeRef
	Globals     OccurrencesMap
	Assignments OccurrencesMap
	Valencies   NameSet
	Errors      CodeSet
}

// TransitionIface declares a state transition. Optional marks operations a
// conforming schema implementation need not support.
type TransitionIface struct {
	Optional          bool
	Metadata          *types.TypeRef
	Globals           OccurrencesMap
	Inputs            OccurrencesMap
	Assignments       OccurrencesMap
	Valencies         NameSet
	Errors            CodeSet
	DefaultAssignment *string
}

// ExtensionIface declares a state extension, which redeems valencies instead
// of spending assignments.
type ExtensionIface struct {
	Optional          bool
	Metadata          *types.TypeRef
	Globals           OccurrencesMap
	Redeems           NameSet
	Assignments       OccurrencesMap
	Valencies         NameSet
	Errors            CodeSet
	DefaultAssignment *string
}

// Iface is an interface schema.
type Iface struct {
	Version          VerNo
	Name             string
	GlobalState      map[string]GlobalIface
	Assignments      map[string]AssignIface
	Valencies        NameSet
	Genesis          GenesisIface
	Transitions      map[string]TransitionIface
	Extensions       map[string]ExtensionIface
	Errors           map[uint8]ErrorVariant
	DefaultOperation *string
	// Types identifies the type registry snapshot the schema was built against.
	Types types.SemID
}

// NamePtr returns a pointer to name, for optional name fields.
func NamePtr(name string) *string { return &name }

// TypeRefPtr returns a pointer to t, for optional metadata fields.
func TypeRefPtr(t types.TypeRef) *types.TypeRef { return &t }

// ErrorVariant returns the variant registered under code.
func (i *Iface) ErrorVariant(code uint8) (ErrorVariant, bool) {
	v, ok := i.Errors[code]
	return v, ok
}

// ErrorCode resolves a variant name to its code.
func (i *Iface) ErrorCode(name string) (uint8, bool) {
	for code, v := range i.Errors {
		if v.Name == name {
			return code, true
		}
	}
	return 0, false
}

// Operations names every transition and extension, sorted.
func (i *Iface) Operations() []string {
	out := make([]string, 0, len(i.Transitions)+len(i.Extensions))
	for n := range i.Transitions {
		out = append(out, n)
	}
	for n := range i.Extensions {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
