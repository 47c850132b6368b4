package model

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/iface/iface"
	"xdao.co/iface/release"
	"xdao.co/iface/rgb25"
	"xdao.co/iface/storage"
	"xdao.co/iface/types"
)

// FromIface projects a checked schema. It fails only when i cannot be
// encoded.
func FromIface(i *iface.Iface) (*Interface, error) {
	data, err := i.Encode()
	if err != nil {
		return nil, err
	}
	id := iface.IDOf(data)

	out := &Interface{
		ID:          id.String(),
		CID:         id.CID().String(),
		Name:        i.Name,
		Version:     uint8(i.Version),
		Types:       i.Types.String(),
		GlobalState: []Global{},
		Assignments: []Assignment{},
		Valencies:   names(i.Valencies),
		Transitions: []Operation{},
		Extensions:  []Operation{},
		Errors:      []ErrorVariant{},
	}
	for _, n := range sorted(i.GlobalState) {
		g := i.GlobalState[n]
		out.GlobalState = append(out.GlobalState, Global{
			Name:        n,
			Type:        g.Type.Name,
			TypeID:      g.Type.SemID.String(),
			Occurrences: g.Req.String(),
		})
	}
	for _, n := range sorted(i.Assignments) {
		a := i.Assignments[n]
		out.Assignments = append(out.Assignments, Assignment{
			Name:        n,
			Visibility:  a.Visibility.String(),
			OwnedState:  a.OwnedState.String(),
			Occurrences: a.Req.String(),
		})
	}

	g := i.Genesis
	out.Genesis = Operation{
		Name:        "genesis",
		Kind:        "genesis",
		Metadata:    typeName(g.Metadata),
		Globals:     fields(g.Globals),
		Assignments: fields(g.Assignments),
		Valencies:   names(g.Valencies),
		Errors:      codes(g.Errors),
	}
	for _, n := range sorted(i.Transitions) {
		t := i.Transitions[n]
		out.Transitions = append(out.Transitions, Operation{
			Name:              n,
			Kind:              "transition",
			Optional:          t.Optional,
			Metadata:          typeName(t.Metadata),
			Globals:           fields(t.Globals),
			Inputs:            fields(t.Inputs),
			Assignments:       fields(t.Assignments),
			Valencies:         names(t.Valencies),
			Errors:            codes(t.Errors),
			DefaultAssignment: deref(t.DefaultAssignment),
		})
	}
	for _, n := range sorted(i.Extensions) {
		e := i.Extensions[n]
		out.Extensions = append(out.Extensions, Operation{
			Name:              n,
			Kind:              "extension",
			Optional:          e.Optional,
			Metadata:          typeName(e.Metadata),
			Globals:           fields(e.Globals),
			Redeems:           e.Redeems.Sorted(),
			Assignments:       fields(e.Assignments),
			Valencies:         names(e.Valencies),
			Errors:            codes(e.Errors),
			DefaultAssignment: deref(e.DefaultAssignment),
		})
	}
	errCodes := make(iface.CodeSet, len(i.Errors))
	for c := range i.Errors {
		errCodes[c] = struct{}{}
	}
	for _, c := range errCodes.Sorted() {
		v := i.Errors[c]
		out.Errors = append(out.Errors, ErrorVariant{Code: c, Name: v.Name, Description: v.Description})
	}
	out.DefaultOperation = deref(i.DefaultOperation)
	return out, nil
}

// FromRGB25 reads every RGB25 accessor once.
func FromRGB25(r *rgb25.RGB25) RGB25State {
	terms := r.Terms()
	out := RGB25State{
		Interface:         r.IfaceID().String(),
		Name:              string(r.Name()),
		Precision:         uint8(r.Precision()),
		Terms:             Terms{Text: terms.Text, Media: terms.Media},
		TotalIssuedSupply: uint64(r.TotalIssuedSupply()),
		TotalBurnedSupply: uint64(r.TotalBurnedSupply()),
	}
	if d, ok := r.Details(); ok {
		out.Details = string(d)
	}
	return out
}

// FromRelease projects a parsed release; verified records the outcome of
// Verify as seen by the caller.
func FromRelease(r *release.Release, verified bool) Release {
	out := Release{
		InterfaceID:   r.InterfaceID().String(),
		InterfaceName: r.InterfaceName(),
		InterfaceCID:  r.InterfaceID().CID().String(),
		IssuerKey:     r.IssuerKey(),
		SignatureAlg:  r.SignatureAlg(),
		HashAlg:       r.HashAlg(),
		Verified:      verified,
	}
	for k, v := range r.Document().Subject {
		switch k {
		case release.KeyInterfaceID, release.KeyInterfaceName, release.KeyInterfaceCID:
			continue
		}
		if out.Subject == nil {
			out.Subject = map[string]string{}
		}
		out.Subject[k] = v
	}
	return out
}

type LoadOptions struct {
	CAS storage.CAS
}

// Load hydrates an interface from inline bytes or by CID through a CAS and
// projects it. Failures are returned as *CodedError.
func Load(ref BlobRef, opts LoadOptions) (*iface.Iface, *Interface, error) {
	var (
		i   *iface.Iface
		err error
	)
	switch {
	case ref.CID != "" && len(ref.Bytes) != 0:
		return nil, nil, NewError(ErrInvalidRequest, "exactly one of cid or bytes must be set")
	case len(ref.Bytes) != 0:
		i, err = iface.Decode(ref.Bytes)
		if err != nil {
			return nil, nil, NewError(ErrInvalidIface, err.Error())
		}
	case ref.CID != "":
		if opts.CAS == nil {
			return nil, nil, NewError(ErrMissingCAS, "cid reference requires a CAS")
		}
		c, perr := cid.Decode(ref.CID)
		if perr != nil {
			return nil, nil, NewError(ErrInvalidCID, perr.Error())
		}
		id, perr := iface.IDFromCID(c)
		if perr != nil {
			return nil, nil, NewError(ErrInvalidCID, perr.Error())
		}
		i, err = storage.GetIface(opts.CAS, id)
		if err != nil {
			return nil, nil, storageError(err)
		}
	default:
		return nil, nil, NewError(ErrInvalidRequest, "exactly one of cid or bytes must be set")
	}

	view, err := FromIface(i)
	if err != nil {
		return nil, nil, NewError(ErrInternal, err.Error())
	}
	return i, view, nil
}

func storageError(err error) *CodedError {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return NewError(ErrNotFound, err.Error())
	case errors.Is(err, storage.ErrIDMismatch):
		return NewError(ErrIDMismatch, err.Error())
	case errors.Is(err, storage.ErrNotIface):
		return NewError(ErrInvalidIface, err.Error())
	case errors.Is(err, storage.ErrInvalidCID):
		return NewError(ErrInvalidCID, err.Error())
	default:
		return NewError(ErrInternal, fmt.Sprintf("load interface: %v", err))
	}
}

func sorted[V any](m map[string]V) []string {
	s := make(iface.NameSet, len(m))
	for k := range m {
		s[k] = struct{}{}
	}
	return s.Sorted()
}

func fields(m iface.OccurrencesMap) []Field {
	out := []Field{}
	for _, n := range sorted(m) {
		out = append(out, Field{Name: n, Occurrences: m[n].String()})
	}
	return out
}

func names(s iface.NameSet) []string { return s.Sorted() }

func codes(s iface.CodeSet) []uint8 { return s.Sorted() }

func typeName(t *types.TypeRef) string {
	if t == nil {
		return ""
	}
	return t.Name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
