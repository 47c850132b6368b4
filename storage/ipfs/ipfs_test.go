package ipfs

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/iface/rgb25"
	"xdao.co/iface/storage"
	"xdao.co/iface/storage/testkit"
)

func TestIPFS_Conformance(t *testing.T) {
	bin, err := exec.LookPath("ipfs")
	if err != nil {
		t.Skip("ipfs CLI not installed")
	}
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		repo := t.TempDir()
		cmd := exec.Command(bin, "init", "--profile=test")
		cmd.Env = append(os.Environ(), "IPFS_PATH="+repo)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("ipfs init: %v: %s", err, out)
		}
		return New(Options{Bin: bin, Path: repo})
	})
}

func TestIPFS_MissingBinary(t *testing.T) {
	cas := New(Options{Bin: filepath.Join(t.TempDir(), "no-such-ipfs")})
	if _, err := cas.Put([]byte("x")); err == nil {
		t.Fatalf("Put succeeded without an ipfs binary")
	}
	if cas.Has(rgb25.IfaceID.CID()) {
		t.Fatalf("Has returned true without an ipfs binary")
	}
	if _, err := cas.Get(cid.Undef); !errors.Is(err, storage.ErrInvalidCID) {
		t.Fatalf("Get(undef): got %v", err)
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(errors.New("ipfs: Error: block was not found locally (offline)")) {
		t.Fatalf("expected not-found classification")
	}
	if isNotFound(errors.New("ipfs: permission denied")) || isNotFound(nil) {
		t.Fatalf("unexpected not-found classification")
	}
}
