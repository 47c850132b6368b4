package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"xdao.co/iface/iface"
	"xdao.co/iface/storage"
	"xdao.co/iface/storage/bundle"
	"xdao.co/iface/storage/casconfig"
	"xdao.co/iface/storage/casregistry"
)

type storeFlags struct {
	backend     string
	storeConfig string
	preferred   string
}

func (a *app) registerStoreFlags(fs *flag.FlagSet) *storeFlags {
	sf := &storeFlags{}
	fs.StringVar(&sf.backend, "backend", a.cfg.Backend, "Store backend name")
	fs.StringVar(&sf.storeConfig, "store-config", a.cfg.StoreConfig, "YAML store config (overrides --backend)")
	fs.StringVar(&sf.preferred, "prefer", "", "Backend (name or id) to read from first (with --store-config)")
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)
	if a.cfg.LocalFSDir != "" {
		if f := fs.Lookup("localfs-dir"); f != nil {
			_ = f.Value.Set(a.cfg.LocalFSDir)
		}
	}
	return sf
}

func (a *app) openStore(sf *storeFlags) (storage.CAS, func(), error) {
	var (
		cas     storage.CAS
		closeFn func() error
		err     error
	)
	if sf.storeConfig != "" {
		cfg, lerr := casconfig.LoadFile(sf.storeConfig)
		if lerr != nil {
			return nil, nil, lerr
		}
		cas, closeFn, err = cfg.Open(casregistry.UsageCLI, sf.preferred)
	} else {
		cas, closeFn, err = casregistry.Open(sf.backend, casregistry.UsageCLI)
	}
	if err != nil {
		return nil, nil, err
	}
	a.log.Debug("opened store", zap.String("backend", sf.backend), zap.String("config", sf.storeConfig))
	return cas, func() {
		if closeFn != nil {
			_ = closeFn()
		}
	}, nil
}

func (a *app) cmdStore(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.err, "usage: xdao-iface store <subcommand> ...")
		fmt.Fprintln(a.err, "subcommands: put, get")
		return 2
	}
	switch args[0] {
	case "put":
		return a.cmdStorePut(args[1:])
	case "get":
		return a.cmdStoreGet(args[1:])
	default:
		fmt.Fprintf(a.err, "unknown store subcommand: %s\n", args[0])
		return 2
	}
}

func (a *app) cmdStorePut(args []string) int {
	fs := flag.NewFlagSet("store put", flag.ContinueOnError)
	fs.SetOutput(a.err)
	sf := a.registerStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.err, "usage: xdao-iface store put [--backend <b>] <name|file>")
		return 2
	}
	i, err := loadIface(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(a.err, err)
		return 1
	}
	cas, done, err := a.openStore(sf)
	if err != nil {
		fmt.Fprintf(a.err, "open store: %v\n", err)
		return 2
	}
	defer done()

	id, err := storage.PutIface(cas, i)
	if err != nil {
		fmt.Fprintf(a.err, "store put: %v\n", err)
		return 1
	}
	a.log.Info("stored interface", zap.String("name", i.Name), zap.Stringer("id", id))
	fmt.Fprintf(a.out, "%s\t%s\n", id, id.CID())
	return 0
}

func (a *app) cmdStoreGet(args []string) int {
	fs := flag.NewFlagSet("store get", flag.ContinueOnError)
	fs.SetOutput(a.err)
	sf := a.registerStoreFlags(fs)
	binary := fs.Bool("binary", false, "Write the canonical binary encoding instead of armored text")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.err, "usage: xdao-iface store get [--backend <b>] [--binary] <id>")
		return 2
	}
	id, err := iface.ParseID(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(a.err, "invalid id: %v\n", err)
		return 2
	}
	cas, done, err := a.openStore(sf)
	if err != nil {
		fmt.Fprintf(a.err, "open store: %v\n", err)
		return 2
	}
	defer done()

	i, err := storage.GetIface(cas, id)
	if err != nil {
		fmt.Fprintf(a.err, "store get: %v\n", err)
		return 1
	}
	return a.writeIface(i, *binary)
}

func (a *app) cmdBundle(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.err, "usage: xdao-iface bundle <subcommand> ...")
		fmt.Fprintln(a.err, "subcommands: export, import")
		return 2
	}
	switch args[0] {
	case "export":
		return a.cmdBundleExport(args[1:])
	case "import":
		return a.cmdBundleImport(args[1:])
	default:
		fmt.Fprintf(a.err, "unknown bundle subcommand: %s\n", args[0])
		return 2
	}
}

func (a *app) cmdBundleExport(args []string) int {
	fs := flag.NewFlagSet("bundle export", flag.ContinueOnError)
	fs.SetOutput(a.err)
	sf := a.registerStoreFlags(fs)
	outPath := fs.String("out", "", "Bundle file to write")
	index := fs.Bool("index", true, "Include index.json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *outPath == "" || fs.NArg() == 0 {
		fmt.Fprintln(a.err, "usage: xdao-iface bundle export --out <file.tar> [--index] <id> [<id> ...]")
		return 2
	}
	ids := make([]iface.ID, 0, fs.NArg())
	for _, arg := range fs.Args() {
		id, err := iface.ParseID(arg)
		if err != nil {
			fmt.Fprintf(a.err, "invalid id %q: %v\n", arg, err)
			return 2
		}
		ids = append(ids, id)
	}
	cas, done, err := a.openStore(sf)
	if err != nil {
		fmt.Fprintf(a.err, "open store: %v\n", err)
		return 2
	}
	defer done()

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(a.err, "create bundle: %v\n", err)
		return 1
	}
	if err := bundle.Export(f, cas, ids, bundle.ExportOptions{IncludeIndex: *index}); err != nil {
		_ = f.Close()
		fmt.Fprintf(a.err, "bundle export: %v\n", err)
		return 1
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(a.err, "write bundle: %v\n", err)
		return 1
	}
	a.log.Info("exported bundle", zap.String("path", *outPath), zap.Int("interfaces", len(ids)))
	return 0
}

func (a *app) cmdBundleImport(args []string) int {
	fs := flag.NewFlagSet("bundle import", flag.ContinueOnError)
	fs.SetOutput(a.err)
	sf := a.registerStoreFlags(fs)
	ignoreUnknown := fs.Bool("ignore-unknown", false, "Skip entries outside the bundle layout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.err, "usage: xdao-iface bundle import [--backend <b>] <file.tar>")
		return 2
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(a.err, "open bundle: %v\n", err)
		return 1
	}
	defer f.Close()

	cas, done, err := a.openStore(sf)
	if err != nil {
		fmt.Fprintf(a.err, "open store: %v\n", err)
		return 2
	}
	defer done()

	ids, err := bundle.Import(f, cas, bundle.ImportOptions{IgnoreUnknown: *ignoreUnknown})
	if err != nil {
		fmt.Fprintf(a.err, "bundle import: %v\n", err)
		return 1
	}
	for _, id := range ids {
		fmt.Fprintln(a.out, id)
	}
	return 0
}
