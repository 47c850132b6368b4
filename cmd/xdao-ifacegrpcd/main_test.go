package main

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"xdao.co/iface/rgb25"
	"xdao.co/iface/storage"
	"xdao.co/iface/storage/grpccas"
)

func dial(t *testing.T, s *grpc.Server) *grpccas.Client {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })
	c := grpccas.NewClient(cc)
	c.Timeout = 2 * time.Second
	return c
}

func TestServer_StoresInterfaces(t *testing.T) {
	backing := storage.NewMemory()
	client := dial(t, newServer(backing, true))

	id, err := storage.PutIface(client, rgb25.Iface())
	if err != nil {
		t.Fatalf("PutIface: %v", err)
	}
	if id != rgb25.IfaceID || !backing.Has(id.CID()) {
		t.Fatalf("stored %s", id)
	}
	got, err := storage.GetIface(client, id)
	if err != nil {
		t.Fatalf("GetIface: %v", err)
	}
	if got.Name != rgb25.IfaceName {
		t.Fatalf("got %q", got.Name)
	}
	if _, err := client.Put([]byte("not an interface")); err == nil {
		t.Fatalf("expected non-interface bytes to be rejected")
	}
}

func TestServer_AcceptsAnyBytesWhenNotRequired(t *testing.T) {
	client := dial(t, newServer(storage.NewMemory(), false))
	if _, err := client.Put([]byte("opaque")); err != nil {
		t.Fatalf("Put: %v", err)
	}
}

func TestRun_ListBackends(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"--list-backends"}, &out, &errOut); code != 0 {
		t.Fatalf("exit %d: %s", code, errOut.String())
	}
	for _, want := range []string{"ipfs\t", "localfs\t", "memory\t"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q in\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "grpc\t") {
		t.Fatalf("grpc backend must not be served by the daemon:\n%s", out.String())
	}
}

func TestRun_Rejects(t *testing.T) {
	t.Setenv("XDAO_IFACE_LOG_LEVEL", "error")
	cases := [][]string{
		{"--bogus"},
		{"--log-level", "loud"},
		{"--backend", "grpc"},
		{"--store-config", filepath.Join(t.TempDir(), "missing.yaml")},
		{"--backend", "localfs"},
	}
	for _, args := range cases {
		var out, errOut bytes.Buffer
		if code := run(context.Background(), args, &out, &errOut); code != 2 {
			t.Fatalf("%v: exit %d", args, code)
		}
	}
}
