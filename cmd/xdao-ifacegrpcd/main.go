package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"xdao.co/iface/internal/config"
	"xdao.co/iface/storage"
	"xdao.co/iface/storage/casconfig"
	"xdao.co/iface/storage/casregistry"
	"xdao.co/iface/storage/grpccas"

	_ "xdao.co/iface/storage/ipfs"
	_ "xdao.co/iface/storage/localfs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	fs := flag.NewFlagSet("xdao-ifacegrpcd", flag.ContinueOnError)
	fs.SetOutput(errOut)
	listen := fs.String("listen", cfg.Listen, "listen address")
	backend := fs.String("backend", cfg.Backend, "store backend name")
	storeConfig := fs.String("store-config", cfg.StoreConfig, "YAML store config (overrides --backend)")
	requireIface := fs.Bool("require-iface", cfg.RequireIface, "Reject writes that are not canonical interface encodings")
	logLevel := fs.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")
	casregistry.RegisterFlags(fs, casregistry.UsageDaemon)
	if cfg.LocalFSDir != "" {
		if f := fs.Lookup("localfs-dir"); f != nil {
			_ = f.Value.Set(cfg.LocalFSDir)
		}
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *listBackends {
		for _, b := range casregistry.List(casregistry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(out, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Description)
		}
		return 0
	}

	log, err := config.NewLogger(*logLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	defer func() { _ = log.Sync() }()
	grpccas.SetLogger(log)

	cas, closeFn, err := openStore(*backend, *storeConfig)
	if err != nil {
		log.Error("open store", zap.String("backend", *backend), zap.Error(err))
		return 2
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Error("listen", zap.String("addr", *listen), zap.Error(err))
		return 1
	}

	s := newServer(cas, *requireIface)
	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		s.GracefulStop()
	}()

	log.Info("xdao-ifacegrpcd listening",
		zap.String("addr", lis.Addr().String()),
		zap.String("backend", *backend),
		zap.String("store_config", *storeConfig),
		zap.Bool("require_iface", *requireIface),
	)
	if err := s.Serve(lis); err != nil {
		log.Error("serve", zap.Error(err))
		return 1
	}
	return 0
}

func openStore(backend, storeConfig string) (storage.CAS, func() error, error) {
	if storeConfig == "" {
		return casregistry.Open(backend, casregistry.UsageDaemon)
	}
	cfg, err := casconfig.LoadFile(storeConfig)
	if err != nil {
		return nil, nil, err
	}
	return cfg.Open(casregistry.UsageDaemon, "")
}

func newServer(cas storage.CAS, requireIface bool) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(grpccas.LoggingInterceptor()))
	grpccas.RegisterCASServer(s, &grpccas.Server{CAS: cas, RequireIface: requireIface})
	return s
}
