package iface

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	ArmorPreamble  = "-----BEGIN XDAO INTERFACE-----"
	ArmorPostamble = "-----END XDAO INTERFACE-----"

	armorLineWidth = 64
)

// Armor renders the schema as canonical armored text:
//
//	-----BEGIN XDAO INTERFACE-----
//	Id: <hex id>
//	Name: <name>
//
//	<base64 canonical encoding, 64 columns>
//	-----END XDAO INTERFACE-----
//
// There is no trailing newline.
func (i *Iface) Armor() ([]byte, error) {
	data, err := i.Encode()
	if err != nil {
		return nil, err
	}
	return armorBytes(IDOf(data), i.Name, data), nil
}

func armorBytes(id ID, name string, data []byte) []byte {
	var sb strings.Builder
	sb.WriteString(ArmorPreamble)
	sb.WriteString("\nId: ")
	sb.WriteString(id.String())
	sb.WriteString("\nName: ")
	sb.WriteString(name)
	sb.WriteString("\n\n")

	body := base64.StdEncoding.EncodeToString(data)
	for len(body) > armorLineWidth {
		sb.WriteString(body[:armorLineWidth])
		sb.WriteString("\n")
		body = body[armorLineWidth:]
	}
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(ArmorPostamble)
	return []byte(sb.String())
}

// Dearmor parses armored text produced by Armor.
//
// Only canonical text is accepted: the input must re-render byte for byte, and
// the Id and Name headers must match the decoded schema.
func Dearmor(text []byte) (*Iface, error) {
	if bytes.Contains(text, []byte("\r")) {
		return nil, newError(KindArmor, "IFACE-ARMOR-001", "CR line endings not allowed")
	}
	if len(text) > 0 && text[len(text)-1] == '\n' {
		return nil, newError(KindArmor, "IFACE-ARMOR-002", "trailing newline not allowed")
	}
	if !bytes.HasPrefix(text, []byte(ArmorPreamble+"\n")) {
		return nil, newError(KindArmor, "IFACE-ARMOR-003", "missing interface armor preamble")
	}
	if len(text) < len(ArmorPreamble)+len(ArmorPostamble)+2 || !bytes.HasSuffix(text, []byte("\n"+ArmorPostamble)) {
		return nil, newError(KindArmor, "IFACE-ARMOR-004", "missing interface armor postamble")
	}

	inner := string(text[len(ArmorPreamble)+1 : len(text)-len(ArmorPostamble)-1])
	head, body, ok := strings.Cut(inner, "\n\n")
	if !ok {
		return nil, newError(KindArmor, "IFACE-ARMOR-005", "missing blank line after headers")
	}

	headers := make(map[string]string)
	for _, line := range strings.Split(head, "\n") {
		k, v, ok := strings.Cut(line, ": ")
		if !ok || k == "" {
			return nil, newError(KindArmor, "IFACE-ARMOR-006", fmt.Sprintf("invalid header line %q", line))
		}
		if _, dup := headers[k]; dup {
			return nil, newError(KindArmor, "IFACE-ARMOR-007", fmt.Sprintf("duplicate header %q", k))
		}
		headers[k] = v
	}
	wantID, ok := headers["Id"]
	if !ok {
		return nil, newError(KindArmor, "IFACE-ARMOR-008", "missing Id header")
	}

	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body, "\n", ""))
	if err != nil {
		return nil, wrapError(KindArmor, "IFACE-ARMOR-009", "invalid base64 body", err)
	}
	i, err := Decode(data)
	if err != nil {
		return nil, err
	}

	id := IDOf(data)
	if wantID != id.String() {
		return nil, newError(KindArmor, "IFACE-ARMOR-010", fmt.Sprintf("Id header %s does not match content %s", wantID, id))
	}
	if headers["Name"] != i.Name {
		return nil, newError(KindArmor, "IFACE-ARMOR-011", "Name header does not match content")
	}
	if !bytes.Equal(armorBytes(id, i.Name, data), text) {
		return nil, newError(KindArmor, "IFACE-ARMOR-012", "non-canonical interface armor")
	}
	return i, nil
}
