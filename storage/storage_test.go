package storage_test

import (
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/iface/cidutil"
	"xdao.co/iface/rgb25"
	"xdao.co/iface/storage"
	"xdao.co/iface/storage/testkit"
)

func TestMemory_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		return storage.NewMemory()
	})
}

func TestMultiCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		return storage.MultiCAS{Adapters: []storage.CAS{storage.NewMemory(), storage.NewMemory()}}
	})
}

func TestReplicatingCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		return storage.ReplicatingCAS{Backends: []storage.NamedCAS{
			{Name: "a", CAS: storage.NewMemory()},
			{Name: "b", CAS: storage.NewMemory()},
		}}
	})
}

func TestMultiCAS_FallbackOrder(t *testing.T) {
	cache, remote := storage.NewMemory(), storage.NewMemory()
	m := storage.MultiCAS{Adapters: []storage.CAS{cache, remote}}

	id, err := storage.PutIface(remote, rgb25.Iface())
	if err != nil {
		t.Fatalf("PutIface failed: %v", err)
	}
	if id != rgb25.IfaceID {
		t.Fatalf("PutIface id: got %s want %s", id, rgb25.IfaceID)
	}
	got, err := storage.GetIface(m, id)
	if err != nil {
		t.Fatalf("GetIface through fallback failed: %v", err)
	}
	if got.Name != rgb25.IfaceName {
		t.Fatalf("unexpected interface %q", got.Name)
	}

	c, err := m.Put([]byte("cached"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !cache.Has(c) || remote.Has(c) {
		t.Fatalf("MultiCAS.Put must write only to the first adapter")
	}

	if _, err := (storage.MultiCAS{}).Put([]byte("x")); err == nil {
		t.Fatalf("empty MultiCAS accepted a write")
	}
}

type failingCAS struct{ err error }

func (f failingCAS) Put([]byte) (cid.Cid, error) { return cid.Undef, f.err }
func (f failingCAS) Get(cid.Cid) ([]byte, error) { return nil, f.err }
func (f failingCAS) Has(cid.Cid) bool { return false }

func TestMultiCAS_StopsOnHardError(t *testing.T) {
	boom := errors.New("disk on fire")
	backup := storage.NewMemory()
	c, err := backup.Put([]byte("x"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	m := storage.MultiCAS{Adapters: []storage.CAS{failingCAS{err: boom}, backup}}
	if _, err := m.Get(c); !errors.Is(err, boom) {
		t.Fatalf("Get: got %v want %v", err, boom)
	}
}

type lyingCAS struct{ *storage.Memory }

func (l lyingCAS) Put(data []byte) (cid.Cid, error) {
	return cidutil.CIDv1RawSHA256CID(append([]byte("salt"), data...))
}

func (l lyingCAS) Get(cid.Cid) ([]byte, error) { return []byte("something else"), nil }

func TestReplicatingCAS_PerBackendResults(t *testing.T) {
	a, b := storage.NewMemory(), storage.NewMemory()
	r := storage.ReplicatingCAS{Backends: []storage.NamedCAS{{Name: "a", CAS: a}, {Name: "b", CAS: b}}}

	c, got, err := r.PutAll([]byte("replicated"))
	if err != nil {
		t.Fatalf("PutAll failed: %v", err)
	}
	if len(got) != 2 || got["a"] != c || got["b"] != c {
		t.Fatalf("PutAll results: %v", got)
	}
	if !a.Has(c) || !b.Has(c) {
		t.Fatalf("object not written to every backend")
	}

	r.Backends = append(r.Backends, storage.NamedCAS{Name: "liar", CAS: lyingCAS{storage.NewMemory()}})
	if _, _, err := r.PutAll([]byte("again")); !errors.Is(err, storage.ErrCIDMismatch) {
		t.Fatalf("PutAll with lying backend: got %v", err)
	}
	if _, _, err := (storage.ReplicatingCAS{}).PutAll([]byte("x")); err == nil {
		t.Fatalf("empty ReplicatingCAS accepted a write")
	}
}

func TestGetIface_DetectsForeignBytes(t *testing.T) {
	l := lyingCAS{storage.NewMemory()}
	if _, err := storage.GetIface(l, rgb25.IfaceID); !errors.Is(err, storage.ErrIDMismatch) {
		t.Fatalf("GetIface: got %v want ErrIDMismatch", err)
	}
	if _, err := storage.PutIface(l, rgb25.Iface()); !errors.Is(err, storage.ErrCIDMismatch) {
		t.Fatalf("PutIface: got %v want ErrCIDMismatch", err)
	}
}
