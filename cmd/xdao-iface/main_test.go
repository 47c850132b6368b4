package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xdao.co/iface/rgb25"
)

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	t.Setenv("XDAO_IFACE_LOG_LEVEL", "error")
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestUsage(t *testing.T) {
	if _, _, code := runCLI(t); code != 2 {
		t.Fatalf("no args: exit %d", code)
	}
	out, _, code := runCLI(t, "help")
	if code != 0 || !strings.Contains(out, "xdao-iface list") {
		t.Fatalf("help: exit %d\n%s", code, out)
	}
	if _, errOut, code := runCLI(t, "bogus"); code != 2 || !strings.Contains(errOut, "unknown command") {
		t.Fatalf("bogus: exit %d\n%s", code, errOut)
	}
}

func TestListAndID(t *testing.T) {
	out, _, code := runCLI(t, "list")
	if code != 0 || out != "RGB25\t"+rgb25.IfaceID.String()+"\n" {
		t.Fatalf("list: exit %d %q", code, out)
	}
	out, _, code = runCLI(t, "id", "RGB25")
	if code != 0 || out != rgb25.IfaceID.String()+"\n" {
		t.Fatalf("id: exit %d %q", code, out)
	}
	if _, _, code := runCLI(t, "id", "nope"); code != 1 {
		t.Fatalf("id of missing file: exit %d", code)
	}
}

func TestExportMatchesFixture(t *testing.T) {
	want, err := os.ReadFile("../../rgb25/testdata/rgb25.ifacea")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out, _, code := runCLI(t, "export", "RGB25")
	if code != 0 || out != string(want) {
		t.Fatalf("export: exit %d\n%s", code, out)
	}

	bin, _, code := runCLI(t, "export", "--binary", "RGB25")
	if code != 0 {
		t.Fatalf("export --binary: exit %d", code)
	}
	path := filepath.Join(t.TempDir(), "rgb25.iface")
	if err := os.WriteFile(path, []byte(bin), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out, _, code = runCLI(t, "id", path)
	if code != 0 || strings.TrimSpace(out) != rgb25.IfaceID.String() {
		t.Fatalf("id of binary file: exit %d %q", code, out)
	}
}

func TestInspectJSON(t *testing.T) {
	out, errOut, code := runCLI(t, "inspect", "--format", "json", "../../rgb25/testdata/rgb25.ifacea")
	if code != 0 {
		t.Fatalf("inspect: exit %d: %s", code, errOut)
	}
	var v struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, out)
	}
	if v.ID != rgb25.IfaceID.String() || v.Name != "RGB25" {
		t.Fatalf("unexpected %+v", v)
	}
	if _, _, code := runCLI(t, "inspect", "--format", "xml", "RGB25"); code != 2 {
		t.Fatalf("bad format: exit %d", code)
	}
}

func TestReadState(t *testing.T) {
	out, errOut, code := runCLI(t, "read", "../../state/testdata/rgb25.yaml")
	if code != 0 {
		t.Fatalf("read: exit %d: %s", code, errOut)
	}
	for _, want := range []string{"name: TEST\n", "precision: 8\n", "totalIssuedSupply: 10000\n", "totalBurnedSupply: 8\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	doc := "iface: " + rgb25.IfaceID.String() + "\nglobals:\n  precision: [8]\n"
	if err := os.WriteFile(bad, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, errOut, code := runCLI(t, "read", bad); code != 1 || !strings.Contains(errOut, "interface requires global") {
		t.Fatalf("missing name: exit %d %s", code, errOut)
	}
}

func TestStoreAndBundleLocalFS(t *testing.T) {
	dir := t.TempDir()
	out, errOut, code := runCLI(t, "store", "put", "--backend", "localfs", "--localfs-dir", dir, "RGB25")
	if code != 0 {
		t.Fatalf("store put: exit %d: %s", code, errOut)
	}
	id, c, ok := strings.Cut(strings.TrimSpace(out), "\t")
	if !ok || id != rgb25.IfaceID.String() || c != rgb25.IfaceID.CID().String() {
		t.Fatalf("store put output %q", out)
	}

	t.Setenv("XDAO_IFACE_LOCALFS_DIR", dir)
	out, errOut, code = runCLI(t, "store", "get", "--backend", "localfs", id)
	if code != 0 {
		t.Fatalf("store get: exit %d: %s", code, errOut)
	}
	if !strings.HasPrefix(out, "-----BEGIN XDAO INTERFACE-----\nId: "+id) {
		t.Fatalf("store get output:\n%s", out)
	}

	tarPath := filepath.Join(t.TempDir(), "ifaces.tar")
	if _, errOut, code := runCLI(t, "bundle", "export", "--backend", "localfs", "--out", tarPath, id); code != 0 {
		t.Fatalf("bundle export: exit %d: %s", code, errOut)
	}
	other := t.TempDir()
	out, errOut, code = runCLI(t, "bundle", "import", "--backend", "localfs", "--localfs-dir", other, tarPath)
	if code != 0 || strings.TrimSpace(out) != id {
		t.Fatalf("bundle import: exit %d %q %s", code, out, errOut)
	}

	if _, _, code := runCLI(t, "store", "get", "--backend", "localfs", "--localfs-dir", t.TempDir(), id); code != 1 {
		t.Fatalf("get from empty store: exit %d", code)
	}
	if _, _, code := runCLI(t, "store", "get", "--backend", "localfs", "xyz"); code != 2 {
		t.Fatalf("bad id: exit %d", code)
	}
}

func TestStoreConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "store.yaml")
	doc := "write_policy: all\nbackends:\n  - name: localfs\n    config:\n      localfs-dir: " + dir + "\n  - name: memory\n"
	if err := os.WriteFile(cfg, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, errOut, code := runCLI(t, "store", "put", "--store-config", cfg, "RGB25"); code != 0 {
		t.Fatalf("store put: exit %d: %s", code, errOut)
	}
	if _, errOut, code := runCLI(t, "store", "get", "--backend", "localfs", "--localfs-dir", dir, rgb25.IfaceID.String()); code != 0 {
		t.Fatalf("store get: exit %d: %s", code, errOut)
	}
}

func TestKeyAndRelease(t *testing.T) {
	keyDir := t.TempDir()
	t.Setenv("XDAO_IFACE_KEY_DIR", keyDir)

	seed := strings.Repeat("11", 32)
	out, errOut, code := runCLI(t, "key", "init", "--name", "alice", "--seed-hex", seed)
	if code != 0 || !strings.HasPrefix(out, "Created root key: ed25519:") {
		t.Fatalf("key init: exit %d %q %s", code, out, errOut)
	}
	if _, errOut, code := runCLI(t, "key", "derive", "--from", "alice", "--role", "publisher"); code != 0 {
		t.Fatalf("key derive: exit %d: %s", code, errOut)
	}
	out, _, code = runCLI(t, "key", "list")
	if code != 0 || out != "alice\tpublisher\n" {
		t.Fatalf("key list: exit %d %q", code, out)
	}
	issuer, _, code := runCLI(t, "key", "export", "--name", "alice", "--role", "publisher")
	if code != 0 {
		t.Fatalf("key export: exit %d", code)
	}

	rel, errOut, code := runCLI(t, "release", "sign", "--signer", "alice", "--signer-role", "publisher", "--hash-alg", "sha3-256", "--field", "Publisher=xdao", "RGB25")
	if code != 0 {
		t.Fatalf("release sign: exit %d: %s", code, errOut)
	}
	if !strings.Contains(rel, "Issuer-Key: "+strings.TrimSpace(issuer)+"\n") {
		t.Fatalf("release not signed by role key:\n%s", rel)
	}
	path := filepath.Join(t.TempDir(), "rgb25.release")
	if err := os.WriteFile(path, []byte(rel), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, errOut, code = runCLI(t, "release", "verify", "--iface", "RGB25", path)
	if code != 0 || !strings.HasPrefix(out, "OK RGB25 "+rgb25.IfaceID.String()) {
		t.Fatalf("release verify: exit %d %q %s", code, out, errOut)
	}
	out, _, code = runCLI(t, "release", "verify", "--format", "json", path)
	if code != 0 || !strings.Contains(out, `"Publisher": "xdao"`) {
		t.Fatalf("release verify json: exit %d\n%s", code, out)
	}

	tampered := strings.Replace(rel, "Publisher: xdao", "Publisher: mallory", 1)
	if err := os.WriteFile(path, []byte(tampered), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, errOut, code := runCLI(t, "release", "verify", path); code != 1 || !strings.Contains(errOut, "REL-CRYPTO-401") {
		t.Fatalf("tampered: exit %d %s", code, errOut)
	}

	if _, _, code := runCLI(t, "release", "sign", "RGB25"); code != 2 {
		t.Fatalf("no signer: exit %d", code)
	}
	if _, _, code := runCLI(t, "release", "sign", "--seed-hex", seed, "--field", "bad", "RGB25"); code != 2 {
		t.Fatalf("bad field: exit %d", code)
	}
}
