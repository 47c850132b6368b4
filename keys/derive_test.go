package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"strings"
	"testing"
)

func TestDeriveRoleSeedDeterministic(t *testing.T) {
	root := make([]byte, ed25519.SeedSize)
	for i := range root {
		root[i] = byte(i)
	}

	a, err := DeriveRoleSeed(root, "publisher")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	b, err := DeriveRoleSeed(root, "publisher")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("expected deterministic derivation")
	}

	c, err := DeriveRoleSeed(root, "reviewer")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if string(a) == string(c) {
		t.Fatalf("expected different roles to derive different seeds")
	}
}

func TestDeriveRoleSeedRejects(t *testing.T) {
	if _, err := DeriveRoleSeed(make([]byte, 8), "publisher"); err == nil {
		t.Fatalf("expected short root seed error")
	}
	if _, err := DeriveRoleSeed(make([]byte, ed25519.SeedSize), "bad role"); err == nil {
		t.Fatalf("expected invalid role error")
	}
}

func TestGenerateIssuerKeyFromSeedFormat(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = 0x42
	}
	issuerKey := GenerateIssuerKeyFromSeed(seed)
	b64, ok := strings.CutPrefix(issuerKey, "ed25519:")
	if !ok {
		t.Fatalf("expected ed25519 prefix, got %q", issuerKey)
	}
	pub, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("expected valid base64: %v", err)
	}
	if len(pub) != ed25519.PublicKeySize {
		t.Fatalf("expected %d pubkey bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
}
