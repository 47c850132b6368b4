package iface

import (
	"bytes"
	"strings"
	"testing"
)

func TestArmor_RoundTrip(t *testing.T) {
	text, err := sample().Armor()
	if err != nil {
		t.Fatalf("Armor failed: %v", err)
	}
	if !bytes.HasPrefix(text, []byte(ArmorPreamble+"\nId: "+sample().ID().String()+"\nName: Sample\n\n")) {
		t.Fatalf("unexpected header:\n%s", text)
	}
	if bytes.HasSuffix(text, []byte("\n")) {
		t.Fatalf("armor must not end with a newline")
	}
	for _, line := range strings.Split(string(text), "\n") {
		if len(line) > 64 {
			t.Fatalf("line exceeds 64 columns: %q", line)
		}
	}
	i, err := Dearmor(text)
	if err != nil {
		t.Fatalf("Dearmor failed: %v", err)
	}
	if !Equal(i, sample()) {
		t.Fatalf("dearmored schema differs")
	}
}

func TestDearmor_Rejects(t *testing.T) {
	good, err := sample().Armor()
	if err != nil {
		t.Fatalf("Armor failed: %v", err)
	}
	s := string(good)
	otherID := strings.Repeat("00", 32)

	cases := []struct {
		name string
		text string
		rule string
	}{
		{"crlf", strings.ReplaceAll(s, "\n", "\r\n"), "IFACE-ARMOR-001"},
		{"trailing newline", s + "\n", "IFACE-ARMOR-002"},
		{"preamble", strings.Replace(s, "BEGIN XDAO INTERFACE", "BEGIN PGP MESSAGE", 1), "IFACE-ARMOR-003"},
		{"postamble", strings.TrimSuffix(s, "\n"+ArmorPostamble), "IFACE-ARMOR-004"},
		{"short", ArmorPreamble + "\nx", "IFACE-ARMOR-004"},
		{"no blank line", strings.Replace(s, "\n\n", "\n", 1), "IFACE-ARMOR-005"},
		{"bad header", strings.Replace(s, "Name: ", "Name=", 1), "IFACE-ARMOR-006"},
		{"duplicate header", strings.Replace(s, "\nName: Sample", "\nName: Sample\nName: Sample", 1), "IFACE-ARMOR-007"},
		{"missing id", strings.Replace(s, "Id: ", "Ix: ", 1), "IFACE-ARMOR-008"},
		{"base64", strings.Replace(s, "\n\n", "\n\n!", 1), "IFACE-ARMOR-009"},
		{"id mismatch", strings.Replace(s, sample().ID().String(), otherID, 1), "IFACE-ARMOR-010"},
		{"name mismatch", strings.Replace(s, "Name: Sample", "Name: Other", 1), "IFACE-ARMOR-011"},
		{"extra header", strings.Replace(s, "\nName: Sample", "\nName: Sample\nComment: hi", 1), "IFACE-ARMOR-012"},
	}
	for _, c := range cases {
		_, err := Dearmor([]byte(c.text))
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if got := RuleID(err); got != c.rule {
			t.Fatalf("%s: rule got %s want %s (%v)", c.name, got, c.rule, err)
		}
	}
}
