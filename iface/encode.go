package iface

import (
	"fmt"

	"xdao.co/iface/types"
)

// Encode returns the canonical v1 encoding of the schema.
//
// Layout: little-endian scalars, u8-prefixed strings, u8-counted collections,
// options as 0x00 | 0x01 value. Every map and set is written in byte-wise key
// order; the result depends only on the schema's content.
//
// Encode does not run Check. Use Must or Check first for closure guarantees.
func (i *Iface) Encode() ([]byte, error) {
	if i == nil {
		return nil, newError(KindEncoding, "IFACE-ENC-001", "nil interface")
	}
	e := &encoder{}
	e.u8(uint8(i.Version))
	e.str(i.Name)

	e.count("globals", len(i.GlobalState))
	for _, n := range sortedKeys(i.GlobalState) {
		g := i.GlobalState[n]
		e.str(n)
		e.typeRef(g.Type)
		e.u8(uint8(g.Req))
	}

	e.count("assignments", len(i.Assignments))
	for _, n := range sortedKeys(i.Assignments) {
		a := i.Assignments[n]
		e.str(n)
		e.u8(uint8(a.Visibility))
		e.u8(uint8(a.OwnedState))
		e.u8(uint8(a.Req))
	}

	e.nameSet("valencies", i.Valencies)

	g := i.Genesis
	e.optTypeRef(g.Metadata)
	e.occMap("genesis globals", g.Globals)
	e.occMap("genesis assignments", g.Assignments)
	e.nameSet("genesis valencies", g.Valencies)
	e.codeSet("genesis errors", g.Errors)

	e.count("transitions", len(i.Transitions))
	for _, n := range sortedKeys(i.Transitions) {
		t := i.Transitions[n]
		e.str(n)
		e.boolean(t.Optional)
		e.optTypeRef(t.Metadata)
		e.occMap("transition globals", t.Globals)
		e.occMap("transition inputs", t.Inputs)
		e.occMap("transition assignments", t.Assignments)
		e.nameSet("transition valencies", t.Valencies)
		e.codeSet("transition errors", t.Errors)
		e.optStr(t.DefaultAssignment)
	}

	e.count("extensions", len(i.Extensions))
	for _, n := range sortedKeys(i.Extensions) {
		x := i.Extensions[n]
		e.str(n)
		e.boolean(x.Optional)
		e.optTypeRef(x.Metadata)
		e.occMap("extension globals", x.Globals)
		e.nameSet("extension redeems", x.Redeems)
		e.occMap("extension assignments", x.Assignments)
		e.nameSet("extension valencies", x.Valencies)
		e.codeSet("extension errors", x.Errors)
		e.optStr(x.DefaultAssignment)
	}

	e.count("errors", len(i.Errors))
	for _, c := range sortedCodes(i.Errors) {
		v := i.Errors[c]
		e.u8(c)
		e.str(v.Name)
		e.str(v.Description)
	}

	e.optStr(i.DefaultOperation)
	e.raw(i.Types[:])

	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}

// Equal reports whether a and b have the same canonical encoding.
func Equal(a, b *Iface) bool {
	ea, err := a.Encode()
	if err != nil {
		return false
	}
	eb, err := b.Encode()
	if err != nil {
		return false
	}
	return string(ea) == string(eb)
}

type encoder struct {
	buf []byte
	err error
}

func (e *encoder) fail(ruleID, msg string) {
	if e.err == nil {
		e.err = newError(KindEncoding, ruleID, msg)
	}
}

func (e *encoder) u8(b uint8) { e.buf = append(e.buf, b) }

func (e *encoder) raw(b []byte) { e.buf = append(e.buf, b...) }

func (e *encoder) boolean(b bool) {
	if b {
		e.u8(1)
		return
	}
	e.u8(0)
}

func (e *encoder) count(what string, n int) {
	if n > 255 {
		e.fail("IFACE-ENC-002", fmt.Sprintf("too many %s (%d > 255)", what, n))
		return
	}
	e.u8(uint8(n))
}

func (e *encoder) str(s string) {
	if len(s) > 255 {
		e.fail("IFACE-ENC-003", fmt.Sprintf("string of %d bytes exceeds 255", len(s)))
		return
	}
	e.u8(uint8(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) optStr(s *string) {
	if s == nil {
		e.u8(0)
		return
	}
	e.u8(1)
	e.str(*s)
}

func (e *encoder) typeRef(t types.TypeRef) {
	e.str(t.Name)
	e.raw(t.SemID[:])
}

func (e *encoder) optTypeRef(t *types.TypeRef) {
	if t == nil {
		e.u8(0)
		return
	}
	e.u8(1)
	e.typeRef(*t)
}

func (e *encoder) occMap(what string, m OccurrencesMap) {
	e.count(what, len(m))
	for _, n := range sortedKeys(m) {
		e.str(n)
		e.u8(uint8(m[n]))
	}
}

func (e *encoder) nameSet(what string, s NameSet) {
	e.count(what, len(s))
	for _, n := range s.Sorted() {
		e.str(n)
	}
}

func (e *encoder) codeSet(what string, s CodeSet) {
	e.count(what, len(s))
	for _, c := range s.Sorted() {
		e.u8(c)
	}
}
