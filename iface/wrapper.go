package iface

import (
	"fmt"

	"xdao.co/iface/types"
)

// ContractState is the read-only view of contract state that a validator has
// already checked against exactly one interface.
type ContractState interface {
	// IfaceID is the interface the state was validated against.
	IfaceID() ID
	// Global returns the values bound to a global field in order. ok is false
	// when the field is absent, which is distinct from present with no values.
	Global(field string) (vals []types.Value, ok bool)
}

// Wrapper is implemented by typed views over a single interface.
type Wrapper interface {
	IfaceName() string
	IfaceID() ID
}

// Binding ties a ContractState to one expected interface. It holds no derived
// state; every read goes back to the underlying ContractState.
type Binding struct {
	state ContractState
	name  string
	id    ID
}

// Bind checks that state was validated against want. On mismatch it returns
// an error wrapping ErrBindingMismatch; the state was never validated against
// this interface and must not be read through it.
func Bind(state ContractState, name string, want ID) (Binding, error) {
	if state == nil {
		return Binding{}, wrapError(KindBinding, "IFACE-BIND-001", name+": nil contract state", ErrBindingMismatch)
	}
	if got := state.IfaceID(); got != want {
		return Binding{}, wrapError(KindBinding, "IFACE-BIND-002",
			fmt.Sprintf("contract state implements interface %s, not %s (%s)", got, name, want), ErrBindingMismatch)
	}
	return Binding{state: state, name: name, id: want}, nil
}

func (b Binding) IfaceName() string { return b.name }

func (b Binding) IfaceID() ID { return b.id }

func (b Binding) State() ContractState { return b.state }

// Values returns every value bound to field. Absent fields yield nil.
func (b Binding) Values(field string) []types.Value {
	vals, _ := b.state.Global(field)
	return vals
}

// Required returns the first value of a field the interface declares Once.
//
// It panics when the field is absent or empty: validated state always carries
// it, so a miss means the caller broke the binding contract.
func (b Binding) Required(field string) types.Value {
	vals, ok := b.state.Global(field)
	if !ok || len(vals) == 0 {
		panic(fmt.Sprintf("%s interface requires global `%s`", b.name, field))
	}
	return vals[0]
}

// Optional returns the value of a ZeroOrOne field, if any.
func (b Binding) Optional(field string) (types.Value, bool) {
	vals, ok := b.state.Global(field)
	if !ok || len(vals) == 0 {
		return types.Value{}, false
	}
	return vals[0], true
}
