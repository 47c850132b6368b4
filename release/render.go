package release

import (
	"fmt"
	"sort"
	"strings"
)

const (
	Preamble  = "-----BEGIN XDAO INTERFACE RELEASE-----"
	Postamble = "-----END XDAO INTERFACE RELEASE-----"

	sectionSubject = "SUBJECT"
	sectionCrypto  = "CRYPTO"
)

// Subject keys.
const (
	KeyInterfaceID   = "Interface-Id"
	KeyInterfaceName = "Interface-Name"
	KeyInterfaceCID  = "Interface-Cid"
)

// Crypto keys.
const (
	KeyHashAlg      = "Hash-Alg"
	KeyIssuerKey    = "Issuer-Key"
	KeySignature    = "Signature"
	KeySignatureAlg = "Signature-Alg"
)

// Document is the in-memory form of a release. Render always produces the
// canonical text for it: fixed section order, sorted keys, single spaces and
// no trailing newline.
type Document struct {
	Subject map[string]string
	Crypto  map[string]string
}

func (d Document) clone() Document {
	c := Document{Subject: make(map[string]string, len(d.Subject)), Crypto: make(map[string]string, len(d.Crypto))}
	for k, v := range d.Subject {
		c.Subject[k] = v
	}
	for k, v := range d.Crypto {
		c.Crypto[k] = v
	}
	return c
}

// Render produces canonical release text:
//
//	-----BEGIN XDAO INTERFACE RELEASE-----
//	SUBJECT
//	Interface-Cid: <cid>
//	Interface-Id: <hex id>
//	Interface-Name: <name>
//
//	CRYPTO
//	Hash-Alg: sha256
//	Issuer-Key: ed25519:<base64>
//	Signature: <base64>
//	Signature-Alg: ed25519
//	-----END XDAO INTERFACE RELEASE-----
func Render(doc Document) ([]byte, error) {
	sections := []struct {
		name  string
		pairs map[string]string
	}{
		{sectionSubject, doc.Subject},
		{sectionCrypto, doc.Crypto},
	}

	var sb strings.Builder
	sb.WriteString(Preamble)
	sb.WriteString("\n")
	for i, sec := range sections {
		sb.WriteString(sec.name)
		sb.WriteString("\n")

		keys := make([]string, 0, len(sec.pairs))
		for k := range sec.pairs {
			if err := checkKey(k); err != nil {
				return nil, err
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := sec.pairs[k]
			if err := checkValue(k, v); err != nil {
				return nil, err
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(v)
			sb.WriteString("\n")
		}
		if i != len(sections)-1 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString(Postamble)
	return []byte(sb.String()), nil
}

func checkKey(k string) error {
	if k == "" {
		return newError(KindRender, "REL-RENDER-001", "empty key")
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		if c <= ' ' || c >= 0x7f || c == ':' {
			return newError(KindRender, "REL-RENDER-002", fmt.Sprintf("invalid key %q", k))
		}
	}
	return nil
}

func checkValue(k, v string) error {
	switch {
	case v == "":
		return newError(KindRender, "REL-RENDER-003", fmt.Sprintf("%s: empty value", k))
	case strings.ContainsAny(v, "\r\n"):
		return newError(KindRender, "REL-RENDER-004", fmt.Sprintf("%s: value must not contain newlines", k))
	case strings.HasPrefix(v, " ") || strings.HasSuffix(v, " ") || strings.HasSuffix(v, "\t"):
		return newError(KindRender, "REL-RENDER-005", fmt.Sprintf("%s: surrounding whitespace forbidden", k))
	}
	return nil
}

// signedScope is the canonical text of doc without its Signature line.
func signedScope(doc Document) ([]byte, error) {
	d := doc.clone()
	delete(d.Crypto, KeySignature)
	return Render(d)
}
