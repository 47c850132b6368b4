package types

import "sort"

// Kind is the shape of a decoded value.
type Kind uint8

const (
	KindUnit Kind = iota
	KindUint
	KindString
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindUint:
		return "uint"
	case KindString:
		return "string"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Value is a decoded state value as handed over by the contract state provider.
// Values are immutable once constructed.
type Value struct {
	kind   Kind
	u      uint64
	s      string
	fields map[string]Value
}

func Unit() Value { return Value{kind: KindUnit} }
func Uint(v uint64) Value { return Value{kind: KindUint, u: v} }
func String(v string) Value { return Value{kind: KindString, s: v} }

// Struct builds a struct value. The field map is copied.
func Struct(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Value{kind: KindStruct, fields: cp}
}

func (v Value) Kind() Kind { return v.kind }

// AsUint returns the unsigned payload; ok is false for other kinds.
func (v Value) AsUint() (uint64, bool) { return v.u, v.kind == KindUint }

// AsString returns the string payload; ok is false for other kinds.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Field returns a struct field; ok is false when v is not a struct or lacks the field.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindStruct {
		return Value{}, false
	}
	f, ok := v.fields[name]
	return f, ok
}

// FieldNames returns the struct's field names, sorted.
func (v Value) FieldNames() []string {
	out := make([]string, 0, len(v.fields))
	for k := range v.fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Equal reports structural equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindUint:
		return v.u == o.u
	case KindString:
		return v.s == o.s
	case KindStruct:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for k, fv := range v.fields {
			ov, ok := o.fields[k]
			if !ok || !fv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
