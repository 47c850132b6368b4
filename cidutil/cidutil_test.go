package cidutil

import (
	"crypto/sha256"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

func TestSHA256(t *testing.T) {
	data := []byte("interface bytes")
	if got, want := SHA256(data), sha256.Sum256(data); got != want {
		t.Fatalf("SHA256: got %x want %x", got, want)
	}
}

func TestDigestRoundTrip(t *testing.T) {
	data := []byte("interface bytes")
	c, err := CIDv1RawSHA256CID(data)
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
	}
	if c.String() != CIDv1RawSHA256(data) {
		t.Fatalf("string form mismatch")
	}

	d, err := Digest(c)
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	if d != SHA256(data) {
		t.Fatalf("Digest: got %x", d)
	}

	back, err := FromDigest(d)
	if err != nil {
		t.Fatalf("FromDigest failed: %v", err)
	}
	if !back.Equals(c) {
		t.Fatalf("FromDigest: got %s want %s", back, c)
	}
}

func TestDigest_Rejects(t *testing.T) {
	if _, err := Digest(cid.Undef); err == nil {
		t.Fatalf("expected error for undefined cid")
	}
	mh, err := multihash.Sum([]byte("x"), multihash.SHA2_512, -1)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	if _, err := Digest(cid.NewCidV1(cid.Raw, mh)); err == nil {
		t.Fatalf("expected error for sha2-512 cid")
	}
}
