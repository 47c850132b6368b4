// Package cidutil derives content identifiers for canonical interface bytes.
//
// Every digest in this module is a sha2-256 multihash, so an interface ID and the
// CIDv1 (raw codec) of its canonical encoding carry the same 32 digest bytes.
package cidutil

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// DigestSize is the width of a sha2-256 digest.
const DigestSize = 32

// SHA256 returns the sha2-256 digest of data.
func SHA256(data []byte) [DigestSize]byte {
	var out [DigestSize]byte
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only errors for unknown codes or bad lengths; neither applies here.
		panic(fmt.Sprintf("cidutil: sha2-256 multihash: %v", err))
	}
	dec, err := multihash.Decode(sum)
	if err != nil {
		panic(fmt.Sprintf("cidutil: decode multihash: %v", err))
	}
	copy(out[:], dec.Digest)
	return out
}

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	id, err := CIDv1RawSHA256CID(data)
	if err != nil {
		return ""
	}
	return id.String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// FromDigest wraps an existing sha2-256 digest into a CIDv1 (raw).
func FromDigest(digest [DigestSize]byte) (cid.Cid, error) {
	mh, err := multihash.Encode(digest[:], multihash.SHA2_256)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// Digest extracts the sha2-256 digest carried by id.
func Digest(id cid.Cid) ([DigestSize]byte, error) {
	var out [DigestSize]byte
	if !id.Defined() {
		return out, errors.New("cidutil: undefined cid")
	}
	dec, err := multihash.Decode(id.Hash())
	if err != nil {
		return out, err
	}
	if dec.Code != multihash.SHA2_256 || len(dec.Digest) != DigestSize {
		return out, fmt.Errorf("cidutil: unsupported multihash %s/%d", multihash.Codes[dec.Code], len(dec.Digest))
	}
	copy(out[:], dec.Digest)
	return out, nil
}
