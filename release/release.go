// Package release signs and verifies interface release attestations: short
// canonical text documents binding a publisher key to one interface identity.
package release

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"xdao.co/iface/iface"
	"xdao.co/iface/keys"
)

// Release is a parsed canonical release. Accessors read the parsed view.
type Release struct {
	doc Document
	raw []byte
	id  iface.ID
}

// Parse accepts only canonical release text with a well-formed subject.
// Signatures are checked separately by Verify.
func Parse(data []byte) (*Release, error) {
	if bytes.Contains(data, []byte("\r")) {
		return nil, newError(KindParse, "REL-STR-001", "CR line endings not allowed")
	}
	if len(data) > 0 && data[len(data)-1] == '\n' {
		return nil, newError(KindParse, "REL-STR-002", "trailing newline not allowed")
	}
	if !bytes.HasPrefix(data, []byte(Preamble+"\n")) {
		return nil, newError(KindParse, "REL-STR-003", "missing release preamble")
	}
	if len(data) < len(Preamble)+len(Postamble)+2 || !bytes.HasSuffix(data, []byte("\n"+Postamble)) {
		return nil, newError(KindParse, "REL-STR-004", "missing release postamble")
	}

	inner := string(data[len(Preamble)+1 : len(data)-len(Postamble)-1])
	subject, crypto, ok := strings.Cut(inner, "\n\n")
	if !ok {
		return nil, newError(KindParse, "REL-STR-005", "missing blank line between sections")
	}
	doc := Document{}
	var err error
	if doc.Subject, err = parseSection(sectionSubject, subject); err != nil {
		return nil, err
	}
	if doc.Crypto, err = parseSection(sectionCrypto, crypto); err != nil {
		return nil, err
	}

	canon, err := Render(doc)
	if err != nil {
		return nil, wrapError(KindCanonical, "REL-CANON-001", "release cannot be rendered canonically", err)
	}
	if !bytes.Equal(canon, data) {
		return nil, newError(KindCanonical, "REL-CANON-002", "non-canonical release text")
	}

	id, err := checkSubject(doc.Subject)
	if err != nil {
		return nil, err
	}
	return &Release{doc: doc, raw: append([]byte(nil), data...), id: id}, nil
}

func parseSection(name, text string) (map[string]string, error) {
	lines := strings.Split(text, "\n")
	if lines[0] != name {
		return nil, newError(KindParse, "REL-STR-006", fmt.Sprintf("expected section %s", name))
	}
	pairs := make(map[string]string, len(lines)-1)
	for _, line := range lines[1:] {
		k, v, ok := strings.Cut(line, ": ")
		if !ok || k == "" {
			return nil, newError(KindParse, "REL-STR-007", fmt.Sprintf("invalid %s line %q", name, line))
		}
		if _, dup := pairs[k]; dup {
			return nil, newError(KindParse, "REL-STR-008", fmt.Sprintf("duplicate %s key %q", name, k))
		}
		pairs[k] = v
	}
	return pairs, nil
}

func checkSubject(s map[string]string) (iface.ID, error) {
	hexID, ok := s[KeyInterfaceID]
	if !ok {
		return iface.ID{}, newError(KindSubject, "REL-SUBJ-001", "missing Interface-Id")
	}
	id, err := iface.ParseID(hexID)
	if err != nil {
		return iface.ID{}, wrapError(KindSubject, "REL-SUBJ-002", "invalid Interface-Id", err)
	}
	if s[KeyInterfaceName] == "" {
		return iface.ID{}, newError(KindSubject, "REL-SUBJ-003", "missing Interface-Name")
	}
	if got, want := s[KeyInterfaceCID], id.CID().String(); got != want {
		return iface.ID{}, newError(KindSubject, "REL-SUBJ-004", fmt.Sprintf("Interface-Cid %q does not match Interface-Id (want %s)", got, want))
	}
	return id, nil
}

// Bytes returns a copy of the canonical text.
func (r *Release) Bytes() []byte { return append([]byte(nil), r.raw...) }

func (r *Release) InterfaceID() iface.ID { return r.id }

func (r *Release) InterfaceName() string { return r.doc.Subject[KeyInterfaceName] }

func (r *Release) IssuerKey() string { return r.doc.Crypto[KeyIssuerKey] }

func (r *Release) SignatureAlg() string { return r.doc.Crypto[KeySignatureAlg] }

func (r *Release) HashAlg() string { return r.doc.Crypto[KeyHashAlg] }

// Subject returns a subject value, including publisher-supplied extras.
func (r *Release) Subject(key string) (string, bool) {
	v, ok := r.doc.Subject[key]
	return v, ok
}

// Document returns a copy of the parsed document.
func (r *Release) Document() Document { return r.doc.clone() }

// Matches reports whether the release names i.
func (r *Release) Matches(i *iface.Iface) error {
	if i == nil {
		return newError(KindSubject, "REL-SUBJ-010", "nil interface")
	}
	data, err := i.Encode()
	if err != nil {
		return err
	}
	if got := iface.IDOf(data); got != r.id {
		return newError(KindSubject, "REL-SUBJ-011", fmt.Sprintf("release is for %s, interface is %s", r.id, got))
	}
	if i.Name != r.InterfaceName() {
		return newError(KindSubject, "REL-SUBJ-012", fmt.Sprintf("release names %q, interface is %q", r.InterfaceName(), i.Name))
	}
	return nil
}

// Signer produces release signatures. Build one with Ed25519Signer or
// Dilithium3Signer.
type Signer struct {
	Alg       string
	HashAlg   string
	IssuerKey string

	sign func(message []byte, hashAlg string) (string, error)
}

// Ed25519Signer signs hashAlg digests with priv.
func Ed25519Signer(priv ed25519.PrivateKey, hashAlg string) (Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return Signer{}, newError(KindCrypto, "REL-CRYPTO-001", "invalid ed25519 private key")
	}
	if _, err := keys.Digest(hashAlg, nil); err != nil {
		return Signer{}, wrapError(KindCrypto, "REL-CRYPTO-201", "unsupported Hash-Alg", err)
	}
	issuer, err := keys.IssuerKeyFromPublicKey(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return Signer{}, err
	}
	return Signer{
		Alg:       keys.AlgEd25519,
		HashAlg:   hashAlg,
		IssuerKey: issuer,
		sign: func(m []byte, h string) (string, error) {
			return keys.SignEd25519(m, h, priv)
		},
	}, nil
}

// Dilithium3Signer signs hashAlg digests with the post-quantum key pair.
func Dilithium3Signer(pub *mode3.PublicKey, priv *mode3.PrivateKey, hashAlg string) (Signer, error) {
	if pub == nil || priv == nil {
		return Signer{}, newError(KindCrypto, "REL-CRYPTO-002", "missing dilithium3 key")
	}
	if _, err := keys.Digest(hashAlg, nil); err != nil {
		return Signer{}, wrapError(KindCrypto, "REL-CRYPTO-201", "unsupported Hash-Alg", err)
	}
	issuer, err := keys.IssuerKeyFromDilithium3(pub)
	if err != nil {
		return Signer{}, err
	}
	return Signer{
		Alg:       keys.AlgDilithium3,
		HashAlg:   hashAlg,
		IssuerKey: issuer,
		sign: func(m []byte, h string) (string, error) {
			return keys.SignDilithium3(m, h, priv)
		},
	}, nil
}

// Sign attests that signer publishes the interface with the given identity
// and name. extra adds publisher subject fields (e.g. "Publisher", "Note");
// it cannot override the interface keys.
func Sign(id iface.ID, name string, signer Signer, extra map[string]string) (*Release, error) {
	if signer.sign == nil {
		return nil, newError(KindCrypto, "REL-CRYPTO-003", "signer not initialized")
	}
	doc := Document{Subject: map[string]string{}, Crypto: map[string]string{}}
	for k, v := range extra {
		doc.Subject[k] = v
	}
	for _, k := range []string{KeyInterfaceID, KeyInterfaceName, KeyInterfaceCID} {
		if _, ok := doc.Subject[k]; ok {
			return nil, newError(KindSubject, "REL-SUBJ-020", fmt.Sprintf("extra subject field %q is reserved", k))
		}
	}
	doc.Subject[KeyInterfaceID] = id.String()
	doc.Subject[KeyInterfaceName] = name
	doc.Subject[KeyInterfaceCID] = id.CID().String()
	doc.Crypto[KeyHashAlg] = signer.HashAlg
	doc.Crypto[KeyIssuerKey] = signer.IssuerKey
	doc.Crypto[KeySignatureAlg] = signer.Alg

	scope, err := signedScope(doc)
	if err != nil {
		return nil, err
	}
	sig, err := signer.sign(scope, signer.HashAlg)
	if err != nil {
		return nil, wrapError(KindCrypto, "REL-CRYPTO-004", "signing failed", err)
	}
	doc.Crypto[KeySignature] = sig

	out, err := Render(doc)
	if err != nil {
		return nil, err
	}
	return Parse(out)
}

// SignIface is Sign for a built interface.
func SignIface(i *iface.Iface, signer Signer, extra map[string]string) (*Release, error) {
	data, err := i.Encode()
	if err != nil {
		return nil, err
	}
	return Sign(iface.IDOf(data), i.Name, signer, extra)
}

// Verify checks the signature over the canonical text minus its Signature
// line. The receiver's bytes are re-parsed first so a mutated Release cannot
// bypass canonicalization.
func (r *Release) Verify() error {
	if r == nil {
		return newError(KindCrypto, "REL-CRYPTO-100", "nil release")
	}
	p, err := Parse(r.raw)
	if err != nil {
		return err
	}
	c := p.doc.Crypto

	alg, hashAlg, issuer := c[KeySignatureAlg], c[KeyHashAlg], c[KeyIssuerKey]
	switch {
	case alg == "":
		return newError(KindCrypto, "REL-CRYPTO-101", "missing Signature-Alg")
	case hashAlg == "":
		return newError(KindCrypto, "REL-CRYPTO-102", "missing Hash-Alg")
	case issuer == "":
		return newError(KindCrypto, "REL-CRYPTO-103", "missing Issuer-Key")
	case c[KeySignature] == "":
		return newError(KindCrypto, "REL-CRYPTO-104", "missing Signature")
	}

	issuerAlg, pubB64, ok := strings.Cut(issuer, ":")
	if !ok {
		return newError(KindCrypto, "REL-CRYPTO-111", "invalid Issuer-Key encoding")
	}
	if issuerAlg != alg {
		return newError(KindCrypto, "REL-CRYPTO-121", "Issuer-Key alg does not match Signature-Alg")
	}
	pub, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		return wrapError(KindCrypto, "REL-CRYPTO-112", "invalid Issuer-Key base64", err)
	}
	sig, err := base64.StdEncoding.DecodeString(c[KeySignature])
	if err != nil {
		return wrapError(KindCrypto, "REL-CRYPTO-113", "invalid Signature base64", err)
	}

	scope, err := signedScope(p.doc)
	if err != nil {
		return err
	}
	digest, err := keys.Digest(hashAlg, scope)
	if err != nil {
		return wrapError(KindCrypto, "REL-CRYPTO-201", "unsupported Hash-Alg", err)
	}

	switch alg {
	case keys.AlgEd25519:
		if len(pub) != ed25519.PublicKeySize {
			return newError(KindCrypto, "REL-CRYPTO-114", "invalid ed25519 public key length")
		}
		if len(sig) != ed25519.SignatureSize {
			return newError(KindCrypto, "REL-CRYPTO-131", "invalid ed25519 signature length")
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
			return newError(KindCrypto, "REL-CRYPTO-401", "signature invalid")
		}
		return nil
	case keys.AlgDilithium3:
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return wrapError(KindCrypto, "REL-CRYPTO-115", "invalid dilithium3 public key", err)
		}
		if len(sig) != mode3.SignatureSize {
			return newError(KindCrypto, "REL-CRYPTO-132", "invalid dilithium3 signature length")
		}
		if !mode3.Verify(&pk, digest, sig) {
			return newError(KindCrypto, "REL-CRYPTO-401", "signature invalid")
		}
		return nil
	default:
		return newError(KindCrypto, "REL-CRYPTO-301", "unsupported Signature-Alg")
	}
}
