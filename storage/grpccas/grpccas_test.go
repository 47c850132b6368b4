package grpccas

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"xdao.co/iface/rgb25"
	"xdao.co/iface/storage"
	"xdao.co/iface/storage/localfs"
	"xdao.co/iface/storage/testkit"
)

// serve starts srv on an in-memory listener and returns a connected client.
func serve(t *testing.T, srv *Server) *Client {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	gs := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor()))
	RegisterCASServer(gs, srv)
	go func() {
		_ = gs.Serve(lis)
	}()
	t.Cleanup(gs.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.DialContext(ctx) }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	client := NewClient(cc)
	client.Timeout = 2 * time.Second
	return client
}

func TestGRPCCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		return serve(t, &Server{CAS: storage.NewMemory()})
	})
}

func TestGRPCCAS_LocalFS_RoundTrip(t *testing.T) {
	cas, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	client := serve(t, &Server{CAS: cas, RequireIface: true})

	id, err := storage.PutIface(client, rgb25.Iface())
	if err != nil {
		t.Fatalf("PutIface: %v", err)
	}
	if id != rgb25.IfaceID {
		t.Fatalf("PutIface id: got %s want %s", id, rgb25.IfaceID)
	}
	if !cas.Has(id.CID()) {
		t.Fatalf("interface not persisted in the backing store")
	}
	got, err := storage.GetIface(client, id)
	if err != nil {
		t.Fatalf("GetIface: %v", err)
	}
	if got.ID() != rgb25.IfaceID {
		t.Fatalf("GetIface returned %s", got.ID())
	}
}

func TestGRPCCAS_RequireIface(t *testing.T) {
	client := serve(t, &Server{CAS: storage.NewMemory(), RequireIface: true})
	_, err := client.Put([]byte("not an interface"))
	if err == nil {
		t.Fatalf("Put accepted non-interface bytes")
	}
	if errors.Is(err, storage.ErrInvalidCID) {
		t.Fatalf("decode failure mapped to ErrInvalidCID")
	}
}

func TestGRPCCAS_MissingStore(t *testing.T) {
	client := serve(t, &Server{})
	if _, err := client.Get(rgb25.IfaceID.CID()); err == nil || storage.IsNotFound(err) {
		t.Fatalf("Get against a server without a store: got %v", err)
	}
	if client.Has(rgb25.IfaceID.CID()) {
		t.Fatalf("Has against a server without a store returned true")
	}
}

func TestLoggingInterceptor(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	client := serve(t, &Server{CAS: storage.NewMemory(), RequireIface: true})
	if _, err := storage.PutIface(client, rgb25.Iface()); err != nil {
		t.Fatalf("PutIface: %v", err)
	}
	if _, err := client.Get(rgb25.IfaceID.CID()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	missing := rgb25.IfaceID
	missing[0] ^= 1
	if _, err := client.Get(missing.CID()); !storage.IsNotFound(err) {
		t.Fatalf("Get missing: got %v", err)
	}

	if n := logs.FilterMessage("storing interface").FilterField(zap.String("name", "RGB25")).Len(); n != 1 {
		t.Fatalf("expected one store entry, got %d", n)
	}
	if n := logs.FilterMessage("rpc").FilterField(zap.String("method", methodGet)).Len(); n != 1 {
		t.Fatalf("expected one successful Get entry, got %d", n)
	}
	failed := logs.FilterMessage("rpc failed").All()
	if len(failed) != 1 || failed[0].ContextMap()["code"] != "NotFound" {
		t.Fatalf("unexpected failure entries: %v", failed)
	}
}

func TestConfigFromMap(t *testing.T) {
	c, err := configFromMap(map[string]string{
		"grpc-target":        "localhost:7777",
		"grpc-timeout":       "3s",
		"grpc-max-msg-bytes": "4096",
	})
	if err != nil {
		t.Fatalf("configFromMap: %v", err)
	}
	if c.target != "localhost:7777" || c.timeout != 3*time.Second || c.maxMsgBytes != 4096 || c.dialTimeout != 5*time.Second {
		t.Fatalf("unexpected config %+v", c)
	}
	if _, err := configFromMap(map[string]string{"grpc-timeout": "soon"}); err == nil {
		t.Fatalf("expected duration error")
	}
	if _, _, err := (clientConfig{}).open(); err == nil {
		t.Fatalf("expected missing target error")
	}
}
