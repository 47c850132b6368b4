package state

import (
	"os"
	"strings"
	"sync"
	"testing"

	"xdao.co/iface/iface"
	"xdao.co/iface/types"
)

func TestMemory_AbsentVersusEmpty(t *testing.T) {
	m := New(iface.ID{1})

	if _, ok := m.Global("x"); ok {
		t.Fatalf("fresh state reports field present")
	}
	m.Append("x")
	vals, ok := m.Global("x")
	if !ok || len(vals) != 0 {
		t.Fatalf("Append with no values: got (%v, %v) want ([], true)", vals, ok)
	}
	m.Delete("x")
	if _, ok := m.Global("x"); ok {
		t.Fatalf("deleted field still present")
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	m := New(iface.ID{})
	m.Set("amount", types.Uint(1), types.Uint(2))

	vals, _ := m.Global("amount")
	vals[0] = types.Uint(99)

	again, _ := m.Global("amount")
	if u, _ := again[0].AsUint(); u != 1 {
		t.Fatalf("caller mutation leaked into state: got %d", u)
	}
}

func TestMemory_ConcurrentAppend(t *testing.T) {
	m := New(iface.ID{})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Append("n", types.Uint(uint64(i)))
			_, _ = m.Global("n")
		}(i)
	}
	wg.Wait()
	vals, _ := m.Global("n")
	if len(vals) != 16 {
		t.Fatalf("got %d values want 16", len(vals))
	}
}

func TestLoadYAML(t *testing.T) {
	f, err := os.Open("testdata/rgb25.yaml")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	m, err := LoadYAML(f)
	if err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}
	if got := m.IfaceID().String(); got != "a0763b7519284902dfc862555dd92104f3c3509833c8a0d6859f4fd37a32757f" {
		t.Fatalf("iface id: got %s", got)
	}

	want := []string{"burnedSupply", "issuedSupply", "name", "precision", "terms"}
	if got := strings.Join(m.Fields(), ","); got != strings.Join(want, ",") {
		t.Fatalf("fields: got %s want %s", got, strings.Join(want, ","))
	}

	burned, _ := m.Global("burnedSupply")
	if len(burned) != 2 || !burned[0].Equal(types.Uint(3)) || !burned[1].Equal(types.Uint(5)) {
		t.Fatalf("burnedSupply: got %v", burned)
	}
	terms, _ := m.Global("terms")
	want2 := types.Struct(map[string]types.Value{
		"text":  types.String("ricardian contract"),
		"media": types.String("attachment-1"),
	})
	if len(terms) != 1 || !terms[0].Equal(want2) {
		t.Fatalf("terms: got %v", terms)
	}
	name, _ := m.Global("name")
	if s, ok := name[0].AsString(); !ok || s != "TEST" {
		t.Fatalf("name: got %v", name)
	}
}

func TestLoadYAML_Rejects(t *testing.T) {
	cases := map[string]string{
		"bad id":        "iface: zz\nglobals: {}\n",
		"unknown key":   "iface: " + strings.Repeat("00", 32) + "\nother: 1\n",
		"scalar global": "iface: " + strings.Repeat("00", 32) + "\nglobals:\n  name: TEST\n",
		"negative":      "iface: " + strings.Repeat("00", 32) + "\nglobals:\n  n: [-1]\n",
		"nested list":   "iface: " + strings.Repeat("00", 32) + "\nglobals:\n  n: [[1]]\n",
	}
	for name, doc := range cases {
		if _, err := LoadYAML(strings.NewReader(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
