package storage

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/iface/cidutil"
)

// NamedCAS labels a store so replication results can be reported per backend.
type NamedCAS struct {
	Name string
	CAS  CAS
}

// ReplicatingCAS publishes every write to all backends and reads from the
// first backend that has the object.
type ReplicatingCAS struct {
	Backends []NamedCAS
}

var _ CAS = ReplicatingCAS{}

// PutAll writes data to every backend in order and returns the CID derived
// from data together with the CID each backend reported. It stops at the
// first backend that fails or reports a different CID.
func (r ReplicatingCAS) PutAll(data []byte) (cid.Cid, map[string]cid.Cid, error) {
	if len(r.Backends) == 0 {
		return cid.Undef, nil, fmt.Errorf("storage: ReplicatingCAS has no backends")
	}
	want, err := cidutil.CIDv1RawSHA256CID(data)
	if err != nil {
		return cid.Undef, nil, err
	}

	got := make(map[string]cid.Cid, len(r.Backends))
	for _, b := range r.Backends {
		if b.CAS == nil {
			return cid.Undef, got, fmt.Errorf("storage: backend %q has no store", b.Name)
		}
		c, err := b.CAS.Put(data)
		if err != nil {
			return cid.Undef, got, fmt.Errorf("storage: backend %q: %w", b.Name, err)
		}
		got[b.Name] = c
		if !c.Equals(want) {
			return cid.Undef, got, ErrCIDMismatch
		}
	}
	return want, got, nil
}

func (r ReplicatingCAS) Put(data []byte) (cid.Cid, error) {
	c, _, err := r.PutAll(data)
	return c, err
}

func (r ReplicatingCAS) Get(id cid.Cid) ([]byte, error) {
	return r.reader().Get(id)
}

func (r ReplicatingCAS) Has(id cid.Cid) bool {
	return r.reader().Has(id)
}

func (r ReplicatingCAS) reader() MultiCAS {
	m := MultiCAS{Adapters: make([]CAS, 0, len(r.Backends))}
	for _, b := range r.Backends {
		if b.CAS != nil {
			m.Adapters = append(m.Adapters, b.CAS)
		}
	}
	return m
}
