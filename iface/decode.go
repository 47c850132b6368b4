package iface

import (
	"bytes"
	"fmt"

	"xdao.co/iface/types"
)

// Decode parses a canonical v1 encoding and checks the resulting schema.
//
// Non-canonical input is rejected: unsorted or duplicate keys, option or flag
// bytes other than 0/1, and trailing bytes all fail. As a final guard the
// decoded schema is re-encoded and must reproduce data byte for byte.
func Decode(data []byte) (*Iface, error) {
	d := &decoder{buf: data}
	i := &Iface{}

	i.Version = VerNo(d.u8())
	if d.err == nil && i.Version != V1 {
		return nil, newError(KindEncoding, "IFACE-ENC-010", fmt.Sprintf("unsupported interface version %d", i.Version))
	}
	i.Name = d.str()

	if n := d.u8(); n > 0 {
		i.GlobalState = make(map[string]GlobalIface, n)
		prev := ""
		for j := 0; j < int(n) && d.err == nil; j++ {
			name := d.key(&prev, j)
			g := GlobalIface{Type: d.typeRef()}
			g.Req = Occurrences(d.u8())
			i.GlobalState[name] = g
		}
	}

	if n := d.u8(); n > 0 {
		i.Assignments = make(map[string]AssignIface, n)
		prev := ""
		for j := 0; j < int(n) && d.err == nil; j++ {
			name := d.key(&prev, j)
			a := AssignIface{
				Visibility: Visibility(d.u8()),
				OwnedState: OwnedState(d.u8()),
				Req:        Occurrences(d.u8()),
			}
			i.Assignments[name] = a
		}
	}

	i.Valencies = d.nameSet()

	i.Genesis = GenesisIface{
		Metadata:    d.optTypeRef(),
		Globals:     d.occMap(),
		Assignments: d.occMap(),
		Valencies:   d.nameSet(),
		Errors:      d.codeSet(),
	}

	if n := d.u8(); n > 0 {
		i.Transitions = make(map[string]TransitionIface, n)
		prev := ""
		for j := 0; j < int(n) && d.err == nil; j++ {
			name := d.key(&prev, j)
			t := TransitionIface{Optional: d.boolean()}
			t.Metadata = d.optTypeRef()
			t.Globals = d.occMap()
			t.Inputs = d.occMap()
			t.Assignments = d.occMap()
			t.Valencies = d.nameSet()
			t.Errors = d.codeSet()
			t.DefaultAssignment = d.optStr()
			i.Transitions[name] = t
		}
	}

	if n := d.u8(); n > 0 {
		i.Extensions = make(map[string]ExtensionIface, n)
		prev := ""
		for j := 0; j < int(n) && d.err == nil; j++ {
			name := d.key(&prev, j)
			x := ExtensionIface{Optional: d.boolean()}
			x.Metadata = d.optTypeRef()
			x.Globals = d.occMap()
			x.Redeems = d.nameSet()
			x.Assignments = d.occMap()
			x.Valencies = d.nameSet()
			x.Errors = d.codeSet()
			x.DefaultAssignment = d.optStr()
			i.Extensions[name] = x
		}
	}

	if n := d.u8(); n > 0 {
		i.Errors = make(map[uint8]ErrorVariant, n)
		var prev uint8
		for j := 0; j < int(n) && d.err == nil; j++ {
			code := d.u8()
			if j > 0 && code <= prev {
				d.fail("IFACE-ENC-020", "error codes not in strictly increasing order")
			}
			prev = code
			v := ErrorVariant{Name: d.str()}
			v.Description = d.str()
			i.Errors[code] = v
		}
	}

	i.DefaultOperation = d.optStr()
	copy(i.Types[:], d.take(len(i.Types)))

	if d.err != nil {
		return nil, d.err
	}
	if d.off != len(d.buf) {
		return nil, newError(KindEncoding, "IFACE-ENC-011", fmt.Sprintf("%d trailing bytes", len(d.buf)-d.off))
	}

	again, err := i.Encode()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(again, data) {
		return nil, newError(KindEncoding, "IFACE-ENC-012", "non-canonical interface encoding")
	}
	if err := i.Check(); err != nil {
		return nil, err
	}
	return i, nil
}

type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) fail(ruleID, msg string) {
	if d.err == nil {
		d.err = newError(KindEncoding, ruleID, msg)
	}
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.buf)-d.off < n {
		d.fail("IFACE-ENC-013", "unexpected end of data")
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) boolean() bool {
	switch d.u8() {
	case 0:
		return false
	case 1:
		return true
	default:
		d.fail("IFACE-ENC-014", "flag byte must be 0 or 1")
		return false
	}
}

func (d *decoder) present() bool {
	switch d.u8() {
	case 0:
		return false
	case 1:
		return true
	default:
		d.fail("IFACE-ENC-015", "option tag must be 0 or 1")
		return false
	}
}

func (d *decoder) str() string {
	n := d.u8()
	return string(d.take(int(n)))
}

func (d *decoder) optStr() *string {
	if !d.present() {
		return nil
	}
	s := d.str()
	return &s
}

// key reads the j-th key of a sorted collection and enforces strict order.
func (d *decoder) key(prev *string, j int) string {
	k := d.str()
	if j > 0 && k <= *prev {
		d.fail("IFACE-ENC-020", fmt.Sprintf("key %q not in strictly increasing order", k))
	}
	*prev = k
	return k
}

func (d *decoder) typeRef() types.TypeRef {
	t := types.TypeRef{Name: d.str()}
	copy(t.SemID[:], d.take(len(t.SemID)))
	return t
}

func (d *decoder) optTypeRef() *types.TypeRef {
	if !d.present() {
		return nil
	}
	t := d.typeRef()
	return &t
}

func (d *decoder) occMap() OccurrencesMap {
	n := d.u8()
	if n == 0 {
		return nil
	}
	m := make(OccurrencesMap, n)
	prev := ""
	for j := 0; j < int(n) && d.err == nil; j++ {
		k := d.key(&prev, j)
		m[k] = Occurrences(d.u8())
	}
	return m
}

func (d *decoder) nameSet() NameSet {
	n := d.u8()
	if n == 0 {
		return nil
	}
	s := make(NameSet, n)
	prev := ""
	for j := 0; j < int(n) && d.err == nil; j++ {
		s[d.key(&prev, j)] = struct{}{}
	}
	return s
}

func (d *decoder) codeSet() CodeSet {
	n := d.u8()
	if n == 0 {
		return nil
	}
	s := make(CodeSet, n)
	var prev uint8
	for j := 0; j < int(n) && d.err == nil; j++ {
		c := d.u8()
		if j > 0 && c <= prev {
			d.fail("IFACE-ENC-020", "codes not in strictly increasing order")
		}
		prev = c
		s[c] = struct{}{}
	}
	return s
}
