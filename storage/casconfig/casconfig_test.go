package casconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xdao.co/iface/rgb25"
	"xdao.co/iface/storage"
	"xdao.co/iface/storage/casregistry"
	_ "xdao.co/iface/storage/localfs"
)

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"no backends":   "write_policy: first\n",
		"no name":       "backends:\n  - id: x\n",
		"duplicate":     "backends:\n  - name: memory\n  - name: memory\n",
		"bad policy":    "write_policy: some\nbackends:\n  - name: memory\n",
		"unknown field": "backends:\n  - name: memory\n    dir: /tmp\n",
	}
	for name, doc := range cases {
		if _, err := Load(strings.NewReader(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestOpen_ReplicateAll(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	doc := "write_policy: all\nbackends:\n" +
		"  - name: localfs\n    id: a\n    config:\n      localfs-dir: " + dirA + "\n" +
		"  - name: localfs\n    id: b\n    config:\n      localfs-dir: " + dirB + "\n"
	path := filepath.Join(t.TempDir(), "stores.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	cas, closeFn, err := cfg.Open(casregistry.UsageCLI, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()

	rep, ok := cas.(storage.ReplicatingCAS)
	if !ok || len(rep.Backends) != 2 || rep.Backends[0].Name != "a" {
		t.Fatalf("unexpected store %#v", cas)
	}
	if _, err := storage.PutIface(cas, rgb25.Iface()); err != nil {
		t.Fatalf("PutIface: %v", err)
	}
	for _, dir := range []string{dirA, dirB} {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) != 1 {
			t.Fatalf("%s: expected one shard directory, got %d (%v)", dir, len(entries), err)
		}
	}
}

func TestOpen_PreferredFirst(t *testing.T) {
	cfg := Config{Backends: []BackendConfig{
		{Name: "memory", ID: "one"},
		{Name: "memory", ID: "two"},
		{Name: "localfs", Config: map[string]string{"localfs-dir": t.TempDir()}},
	}}
	cas, _, err := cfg.Open(casregistry.UsageCLI, "localfs")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	m, ok := cas.(storage.MultiCAS)
	if !ok || len(m.Adapters) != 3 {
		t.Fatalf("unexpected store %#v", cas)
	}
	if _, ok := m.Adapters[0].(*storage.Memory); ok {
		t.Fatalf("preferred backend not moved to the front")
	}
	if _, _, err := cfg.Open(casregistry.UsageCLI, "three"); err == nil {
		t.Fatalf("expected error for unknown preferred backend")
	}
}

func TestOpen_SingleBackendUnwrapped(t *testing.T) {
	cfg := Config{Backends: []BackendConfig{{Name: "memory"}}}
	cas, _, err := cfg.Open(casregistry.UsageDaemon, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := cas.(*storage.Memory); !ok {
		t.Fatalf("single backend should not be wrapped: %T", cas)
	}
	bad := Config{Backends: []BackendConfig{{Name: "nope"}}}
	if _, _, err := bad.Open(casregistry.UsageDaemon, ""); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
