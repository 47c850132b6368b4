package storage

import (
	"fmt"

	"xdao.co/iface/iface"
)

// PutIface checks i and stores its canonical encoding. The returned ID is
// both i.ID() and the digest of the CID the backend reported.
func PutIface(cas CAS, i *iface.Iface) (iface.ID, error) {
	if err := i.Check(); err != nil {
		return iface.ID{}, err
	}
	data, err := i.Encode()
	if err != nil {
		return iface.ID{}, err
	}
	c, err := cas.Put(data)
	if err != nil {
		return iface.ID{}, err
	}
	got, err := iface.IDFromCID(c)
	if err != nil {
		return iface.ID{}, ErrInvalidCID
	}
	if want := iface.IDOf(data); got != want {
		return iface.ID{}, ErrCIDMismatch
	}
	return got, nil
}

// GetIface loads and strictly decodes the interface stored under id.
func GetIface(cas CAS, id iface.ID) (*iface.Iface, error) {
	data, err := cas.Get(id.CID())
	if err != nil {
		return nil, err
	}
	if iface.IDOf(data) != id {
		return nil, ErrIDMismatch
	}
	i, err := iface.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotIface, err)
	}
	return i, nil
}
