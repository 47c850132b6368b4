package iface

import (
	"encoding/hex"
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/iface/cidutil"
)

// ID is the interface identity: the sha2-256 digest of the canonical encoding.
// Two schemas are the same interface iff their IDs are equal.
type ID [32]byte

// ID computes the schema's identity.
//
// It panics if the schema cannot be encoded; schemas reaching this point have
// passed Must, so an encoding failure is a build-time defect.
func (i *Iface) ID() ID {
	b, err := i.Encode()
	if err != nil {
		panic(err)
	}
	return IDOf(b)
}

// IDOf returns the identity of canonical interface bytes.
func IDOf(canonical []byte) ID { return ID(cidutil.SHA256(canonical)) }

func (id ID) String() string { return hex.EncodeToString(id[:]) }

func (id ID) IsZero() bool { return id == ID{} }

// CID expresses the ID as a CIDv1 (raw + sha2-256). It names the canonical
// encoding in any content-addressed store.
func (id ID) CID() cid.Cid {
	c, err := cidutil.FromDigest(id)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseID parses the 64-hex-digit form produced by ID.String.
func ParseID(s string) (ID, error) {
	var id ID
	if len(s) != 2*len(id) {
		return id, newError(KindEncoding, "IFACE-ID-001", fmt.Sprintf("interface id must be %d hex digits", 2*len(id)))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return ID{}, wrapError(KindEncoding, "IFACE-ID-002", "invalid interface id hex", err)
	}
	return id, nil
}

// MustParseID is ParseID for compile-time constants.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IDFromCID recovers an ID from a CIDv1 produced by ID.CID.
func IDFromCID(c cid.Cid) (ID, error) {
	if !c.Defined() {
		return ID{}, newError(KindEncoding, "IFACE-ID-005", "undefined interface cid")
	}
	if c.Prefix().Codec != cid.Raw {
		return ID{}, newError(KindEncoding, "IFACE-ID-003", "interface cid must use the raw codec")
	}
	d, err := cidutil.Digest(c)
	if err != nil {
		return ID{}, wrapError(KindEncoding, "IFACE-ID-004", "interface cid must carry a sha2-256 digest", err)
	}
	return ID(d), nil
}
