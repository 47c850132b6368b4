package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
)

const kdfDomain = "xdao-iface-release-keys-v1"

// GenerateIssuerKeyFromSeed returns the issuer key of an Ed25519 seed.
func GenerateIssuerKeyFromSeed(seed []byte) string {
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	k, _ := IssuerKeyFromPublicKey(pub)
	return k
}

// DeriveRoleSeed derives a role-specific Ed25519 seed from a root seed:
//
//	sha256(root || 0x00 || domain || 0x00 || "role:" || role)[:32]
func DeriveRoleSeed(rootSeed []byte, role string) ([]byte, error) {
	if len(rootSeed) != ed25519.SeedSize {
		return nil, fmt.Errorf("root seed must be %d bytes", ed25519.SeedSize)
	}
	if err := CheckRole(role); err != nil {
		return nil, err
	}

	h := sha256.New()
	_, _ = h.Write(rootSeed)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(kdfDomain))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("role:"))
	_, _ = h.Write([]byte(role))
	return h.Sum(nil)[:ed25519.SeedSize], nil
}
