// Package testkit holds conformance suites shared by storage backends.
package testkit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/iface/cidutil"
	"xdao.co/iface/iface"
	"xdao.co/iface/storage"
	"xdao.co/iface/types"
)

// NewCAS constructs a fresh, empty CAS for one subtest. Instances must not
// share state.
type NewCAS func(t *testing.T) storage.CAS

// RunCASConformance checks the storage.CAS contract plus interface
// persistence through storage.PutIface and storage.GetIface.
func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := []byte("canonical interface bytes")

		id, err := cas.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := cidutil.CIDv1RawSHA256CID(want)
		if err != nil {
			t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("same bytes")

		id1, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("missing")
		id, err := cidutil.CIDv1RawSHA256CID(b)
		if err != nil {
			t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
		}

		if cas.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		if _, err := cas.Get(id); !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}
		if _, err := cas.Put(b); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		if cas.Has(cid.Undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := cas.Get(cid.Undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})

	t.Run("InterfaceRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := conformanceIface()

		id, err := storage.PutIface(cas, want)
		if err != nil {
			t.Fatalf("PutIface failed: %v", err)
		}
		if id != want.ID() {
			t.Fatalf("PutIface id: got %s want %s", id, want.ID())
		}
		if !cas.Has(id.CID()) {
			t.Fatalf("Has(id.CID()) returned false after PutIface")
		}

		got, err := storage.GetIface(cas, id)
		if err != nil {
			t.Fatalf("GetIface failed: %v", err)
		}
		if !iface.Equal(got, want) {
			t.Fatalf("GetIface returned a different interface")
		}

		other := want.ID()
		other[31] ^= 1
		if _, err := storage.GetIface(cas, other); !storage.IsNotFound(err) {
			t.Fatalf("GetIface missing: got %v want ErrNotFound", err)
		}
	})

	t.Run("NonInterfaceBytes", func(t *testing.T) {
		cas := newCAS(t)
		c, err := cas.Put([]byte("not an interface"))
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		id, err := iface.IDFromCID(c)
		if err != nil {
			t.Fatalf("IDFromCID failed: %v", err)
		}
		if _, err := storage.GetIface(cas, id); !errors.Is(err, storage.ErrNotIface) {
			t.Fatalf("GetIface: got %v want ErrNotIface", err)
		}
	})
}

func conformanceIface() *iface.Iface {
	amount := types.MustGet(types.Standard(), types.TypeAmount)
	return iface.Must(&iface.Iface{
		Version: iface.V1,
		Name:    "Conformance",
		GlobalState: map[string]iface.GlobalIface{
			"supply": iface.Required(amount),
		},
		Assignments: map[string]iface.AssignIface{
			"owner": iface.PrivateAssign(iface.OwnedAmount, iface.OnceOrMore),
		},
		Genesis: iface.GenesisIface{
			Globals:     iface.OccurrencesMap{"supply": iface.Once},
			Assignments: iface.OccurrencesMap{"owner": iface.OnceOrMore},
		},
		Types: types.Standard().SystemID(),
	})
}
