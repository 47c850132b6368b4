package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"xdao.co/iface/iface"
	"xdao.co/iface/internal/config"
	"xdao.co/iface/rgb25"
	"xdao.co/iface/storage/grpccas"

	_ "xdao.co/iface/storage/ipfs"
	_ "xdao.co/iface/storage/localfs"
)

// standards maps the built-in interface names to their builders.
var standards = map[string]func() *iface.Iface{
	rgb25.IfaceName: rgb25.Iface,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	cfg config.Config
	log *zap.Logger
	out io.Writer
	err io.Writer
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	log, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	defer func() { _ = log.Sync() }()
	grpccas.SetLogger(log)
	defer grpccas.SetLogger(nil)

	a := &app{cfg: cfg, log: log, out: out, err: errOut}

	switch args[0] {
	case "list":
		return a.cmdList(args[1:])
	case "id":
		return a.cmdID(args[1:])
	case "export":
		return a.cmdExport(args[1:])
	case "inspect":
		return a.cmdInspect(args[1:])
	case "read":
		return a.cmdRead(args[1:])
	case "store":
		return a.cmdStore(args[1:])
	case "bundle":
		return a.cmdBundle(args[1:])
	case "release":
		return a.cmdRelease(args[1:])
	case "key":
		return a.cmdKey(args[1:])
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "xdao-iface: interface schema CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xdao-iface list")
	fmt.Fprintln(w, "  xdao-iface id <name|file>")
	fmt.Fprintln(w, "  xdao-iface export [--binary] <name>")
	fmt.Fprintln(w, "  xdao-iface inspect [--format yaml|json] <name|file>")
	fmt.Fprintln(w, "  xdao-iface read [--format yaml|json] <state.yaml>")
	fmt.Fprintln(w, "  xdao-iface store put [--backend <b>] [--store-config <file>] <name|file>")
	fmt.Fprintln(w, "  xdao-iface store get [--backend <b>] [--store-config <file>] [--binary] <id>")
	fmt.Fprintln(w, "  xdao-iface bundle export [--backend <b>] --out <file.tar> [--index] <id> [<id> ...]")
	fmt.Fprintln(w, "  xdao-iface bundle import [--backend <b>] <file.tar>")
	fmt.Fprintln(w, "  xdao-iface release sign (--seed-hex <64hex> | --signer <name> [--signer-role <role>] | --key-file <path>) [--hash-alg <alg>] [--field Key=Value ...] <name|file>")
	fmt.Fprintln(w, "  xdao-iface release verify [--iface <name|file>] [--format text|yaml|json] <release file>")
	fmt.Fprintln(w, "  xdao-iface key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  xdao-iface key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  xdao-iface key list")
	fmt.Fprintln(w, "  xdao-iface key export --name <name> [--role <role>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - <name|file> is a built-in interface name (see list) or a file holding armored or binary interface bytes")
	fmt.Fprintln(w, "  - export and release sign write canonical text to stdout (no trailing newline)")
	fmt.Fprintln(w, "  - environment: XDAO_IFACE_BACKEND, XDAO_IFACE_LOCALFS_DIR, XDAO_IFACE_STORE_CONFIG, XDAO_IFACE_KEY_DIR, XDAO_IFACE_LOG_LEVEL")
}

func (a *app) cmdList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.err)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	names := make([]string, 0, len(standards))
	for n := range standards {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(a.out, "%s\t%s\n", n, standards[n]().ID())
	}
	return 0
}

func (a *app) cmdID(args []string) int {
	fs := flag.NewFlagSet("id", flag.ContinueOnError)
	fs.SetOutput(a.err)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.err, "usage: xdao-iface id <name|file>")
		return 2
	}
	i, err := loadIface(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(a.err, err)
		return 1
	}
	fmt.Fprintln(a.out, i.ID())
	return 0
}

func (a *app) cmdExport(args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(a.err)
	binary := fs.Bool("binary", false, "Write the canonical binary encoding instead of armored text")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.err, "usage: xdao-iface export [--binary] <name>")
		return 2
	}
	build, ok := standards[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(a.err, "unknown interface: %s\n", fs.Arg(0))
		return 1
	}
	return a.writeIface(build(), *binary)
}

func (a *app) writeIface(i *iface.Iface, binary bool) int {
	var (
		b   []byte
		err error
	)
	if binary {
		b, err = i.Encode()
	} else {
		b, err = i.Armor()
	}
	if err != nil {
		fmt.Fprintf(a.err, "encode: %v\n", err)
		return 1
	}
	_, _ = a.out.Write(b)
	return 0
}

// loadIface resolves a built-in name, or reads a file of armored or binary
// interface bytes.
func loadIface(arg string) (*iface.Iface, error) {
	if build, ok := standards[arg]; ok {
		return build(), nil
	}
	b, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read interface: %w", err)
	}
	return parseIface(b)
}

func parseIface(b []byte) (*iface.Iface, error) {
	if bytes.HasPrefix(b, []byte(iface.ArmorPreamble)) {
		return iface.Dearmor(b)
	}
	return iface.Decode(b)
}

func (a *app) emit(format string, v any) int {
	var (
		b   []byte
		err error
	)
	switch format {
	case "yaml":
		b, err = yaml.Marshal(v)
	case "json":
		b, err = json.MarshalIndent(v, "", "  ")
		b = append(b, '\n')
	default:
		fmt.Fprintf(a.err, "unknown --format %q (want yaml or json)\n", format)
		return 2
	}
	if err != nil {
		fmt.Fprintf(a.err, "marshal: %v\n", err)
		return 1
	}
	_, _ = a.out.Write(b)
	return 0
}
