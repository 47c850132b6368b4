package main

import (
	"crypto/ed25519"
	"flag"
	"fmt"
	"os"
	"strings"

	"xdao.co/iface/keys"
	"xdao.co/iface/release"
	"xdao.co/iface/rgb25"
)

func mustSigner(seedByte byte) release.Signer {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = seedByte
	}
	s, err := release.Ed25519Signer(ed25519.NewKeyFromSeed(seed), keys.HashSHA256)
	if err != nil {
		panic(err)
	}
	return s
}

// idLiteral formats id the way rgb25.IfaceID is declared.
func idLiteral(id [32]byte) string {
	var sb strings.Builder
	sb.WriteString("var IfaceID = iface.ID{\n")
	for row := 0; row < 2; row++ {
		sb.WriteString("\t")
		for i := 0; i < 16; i++ {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "0x%02x,", id[row*16+i])
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func main() {
	out := flag.String("out", "", "Write the armored RGB25 fixture to this path")
	flag.Parse()

	i := rgb25.Iface()
	armored, err := i.Armor()
	if err != nil {
		panic(err)
	}
	id := i.ID()

	if *out != "" {
		if err := os.WriteFile(*out, armored, 0o644); err != nil {
			panic(err)
		}
	}

	r, err := release.SignIface(i, mustSigner(0xA1), map[string]string{"Publisher": "conformance"})
	if err != nil {
		panic(err)
	}
	if err := r.Verify(); err != nil {
		panic(err)
	}

	fmt.Printf("ID=%s\n", id)
	fmt.Printf("CID=%s\n", id.CID())
	fmt.Printf("%s\n", idLiteral(id))
	fmt.Printf("---BEGIN IFACE---\n%s\n---END IFACE---\n", armored)
	fmt.Printf("---BEGIN RELEASE---\n%s\n---END RELEASE---\n", r.Bytes())
}
