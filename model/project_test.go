package model

import (
	"crypto/ed25519"
	"errors"
	"os"
	"testing"

	"xdao.co/iface/iface"
	"xdao.co/iface/keys"
	"xdao.co/iface/release"
	"xdao.co/iface/rgb25"
	"xdao.co/iface/state"
	"xdao.co/iface/storage"
)

func TestFromIface_RGB25(t *testing.T) {
	v, err := FromIface(rgb25.Iface())
	if err != nil {
		t.Fatalf("FromIface: %v", err)
	}
	if v.ID != rgb25.IfaceID.String() || v.CID != rgb25.IfaceID.CID().String() {
		t.Fatalf("identity %s %s", v.ID, v.CID)
	}
	if v.Name != "RGB25" || v.Version != 1 || v.DefaultOperation != "transfer" {
		t.Fatalf("header %+v", v)
	}

	var gotGlobals []string
	for _, g := range v.GlobalState {
		gotGlobals = append(gotGlobals, g.Name+":"+g.Occurrences)
	}
	want := []string{
		"burnedSupply:ZeroOrMore",
		"details:ZeroOrOne",
		"issuedSupply:Once",
		"name:Once",
		"precision:Once",
		"terms:Once",
	}
	if len(gotGlobals) != len(want) {
		t.Fatalf("globals %v", gotGlobals)
	}
	for i := range want {
		if gotGlobals[i] != want[i] {
			t.Fatalf("globals[%d] = %s, want %s", i, gotGlobals[i], want[i])
		}
	}

	if len(v.Assignments) != 2 || v.Assignments[0].Name != "assetOwner" || v.Assignments[0].Visibility != "private" ||
		v.Assignments[1].OwnedState != "rights" || v.Assignments[1].Visibility != "public" {
		t.Fatalf("assignments %+v", v.Assignments)
	}
	if len(v.Transitions) != 2 || v.Transitions[0].Name != "burn" || !v.Transitions[0].Optional || v.Transitions[0].Metadata == "" {
		t.Fatalf("transitions %+v", v.Transitions)
	}
	if v.Transitions[1].DefaultAssignment != "assetOwner" {
		t.Fatalf("transfer %+v", v.Transitions[1])
	}
	if v.Genesis.Kind != "genesis" || len(v.Genesis.Errors) != 3 || v.Genesis.Errors[0] != 1 {
		t.Fatalf("genesis %+v", v.Genesis)
	}
	if v.Extensions == nil || len(v.Extensions) != 0 || v.Valencies == nil {
		t.Fatalf("empty lists must be non-nil: %+v %+v", v.Extensions, v.Valencies)
	}
	if len(v.Errors) != 5 || v.Errors[4].Name != "insufficientCoverage" {
		t.Fatalf("errors %+v", v.Errors)
	}
}

func TestFromRGB25(t *testing.T) {
	f, err := os.Open("../state/testdata/rgb25.yaml")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	st, err := state.LoadYAML(f)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	v := FromRGB25(rgb25.MustWrap(st))
	if v.Name != "TEST" || v.Precision != 8 || v.TotalIssuedSupply != 10000 || v.TotalBurnedSupply != 8 {
		t.Fatalf("unexpected %+v", v)
	}
	if v.Details != "" || v.Terms.Media != "attachment-1" {
		t.Fatalf("unexpected %+v", v)
	}
}

func TestFromRelease(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	s, err := release.Ed25519Signer(ed25519.NewKeyFromSeed(seed), keys.HashSHA256)
	if err != nil {
		t.Fatalf("Ed25519Signer: %v", err)
	}
	r, err := release.SignIface(rgb25.Iface(), s, map[string]string{"Publisher": "xdao"})
	if err != nil {
		t.Fatalf("SignIface: %v", err)
	}
	v := FromRelease(r, true)
	if v.InterfaceID != rgb25.IfaceID.String() || v.IssuerKey != s.IssuerKey || !v.Verified {
		t.Fatalf("unexpected %+v", v)
	}
	if len(v.Subject) != 1 || v.Subject["Publisher"] != "xdao" {
		t.Fatalf("subject %+v", v.Subject)
	}
}

func TestLoad(t *testing.T) {
	cas := storage.NewMemory()
	id, err := storage.PutIface(cas, rgb25.Iface())
	if err != nil {
		t.Fatalf("PutIface: %v", err)
	}
	data, err := rgb25.Iface().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	i, v, err := Load(BlobRef{CID: id.CID().String()}, LoadOptions{CAS: cas})
	if err != nil {
		t.Fatalf("Load by CID: %v", err)
	}
	if !iface.Equal(i, rgb25.Iface()) || v.ID != id.String() {
		t.Fatalf("unexpected interface %s", v.ID)
	}
	if _, v, err = Load(BlobRef{Bytes: data}, LoadOptions{}); err != nil || v.Name != "RGB25" {
		t.Fatalf("Load by bytes: %v", err)
	}

	cases := []struct {
		name string
		ref  BlobRef
		opts LoadOptions
		code ErrorCode
	}{
		{"none", BlobRef{}, LoadOptions{}, ErrInvalidRequest},
		{"both", BlobRef{CID: id.CID().String(), Bytes: data}, LoadOptions{}, ErrInvalidRequest},
		{"no cas", BlobRef{CID: id.CID().String()}, LoadOptions{}, ErrMissingCAS},
		{"bad cid", BlobRef{CID: "nope"}, LoadOptions{CAS: cas}, ErrInvalidCID},
		{"missing", BlobRef{CID: iface.ID{9}.CID().String()}, LoadOptions{CAS: cas}, ErrNotFound},
		{"bad bytes", BlobRef{Bytes: []byte{0x01}}, LoadOptions{}, ErrInvalidIface},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Load(tc.ref, tc.opts)
			var ce *CodedError
			if !errors.As(err, &ce) || ce.Code != tc.code {
				t.Fatalf("got %v, want %s", err, tc.code)
			}
		})
	}
}
