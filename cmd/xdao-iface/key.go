package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"strings"

	"xdao.co/iface/keys"
)

func (a *app) cmdKey(args []string) int {
	if len(args) == 0 {
		printKeyUsage(a.err)
		return 2
	}
	switch args[0] {
	case "init":
		return a.cmdKeyInit(args[1:])
	case "derive":
		return a.cmdKeyDerive(args[1:])
	case "list":
		return a.cmdKeyList(args[1:])
	case "export":
		return a.cmdKeyExport(args[1:])
	case "help", "-h", "--help":
		printKeyUsage(a.out)
		return 0
	default:
		fmt.Fprintf(a.err, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(a.err)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "xdao-iface key: local release signing keys")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xdao-iface key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  xdao-iface key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  xdao-iface key list")
	fmt.Fprintln(w, "  xdao-iface key export --name <name> [--role <role>]")
}

func (a *app) keyStore(fs *flag.FlagSet) *string {
	return fs.String("key-dir", a.cfg.KeyDir, "Key store directory (default ~/.xdao/iface-keys)")
}

func (a *app) cmdKeyInit(args []string) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(a.err)
	dir := a.keyStore(fs)
	name := fs.String("name", "", "Signer name")
	seedHex := fs.String("seed-hex", "", "Optional ed25519 seed as 64 hex chars (for reproducible setups)")
	force := fs.Bool("force", false, "Overwrite an existing root key")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(a.err, "missing --name")
		return 2
	}
	if err := keys.CheckSignerName(*name); err != nil {
		fmt.Fprintf(a.err, "invalid --name: %v\n", err)
		return 2
	}

	var seed []byte
	if *seedHex != "" {
		var err error
		if seed, err = keys.ParseSeedHex(*seedHex); err != nil {
			fmt.Fprintf(a.err, "invalid --seed-hex: %v\n", err)
			return 2
		}
	} else {
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			fmt.Fprintf(a.err, "rand: %v\n", err)
			return 1
		}
	}

	store, err := keys.OpenStore(*dir)
	if err != nil {
		fmt.Fprintf(a.err, "keys: %v\n", err)
		return 1
	}
	issuerKey, path, err := store.Init(*name, seed, *force)
	if err != nil {
		fmt.Fprintf(a.err, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(a.out, "Created root key: %s\n", issuerKey)
	fmt.Fprintf(a.out, "Stored at: %s\n", path)
	return 0
}

func (a *app) cmdKeyDerive(args []string) int {
	fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
	fs.SetOutput(a.err)
	dir := a.keyStore(fs)
	from := fs.String("from", "", "Signer name")
	role := fs.String("role", "", "Role (e.g. publisher, reviewer)")
	force := fs.Bool("force", false, "Overwrite an existing role key")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *from == "" || *role == "" {
		fmt.Fprintln(a.err, "missing --from or --role")
		return 2
	}
	if err := keys.CheckRole(*role); err != nil {
		fmt.Fprintf(a.err, "invalid --role: %v\n", err)
		return 2
	}
	store, err := keys.OpenStore(*dir)
	if err != nil {
		fmt.Fprintf(a.err, "keys: %v\n", err)
		return 1
	}
	issuerKey, path, err := store.Derive(*from, *role, *force)
	if err != nil {
		fmt.Fprintf(a.err, "derive role key: %v\n", err)
		return 1
	}
	fmt.Fprintf(a.out, "Created role key: %s\n", issuerKey)
	fmt.Fprintf(a.out, "Stored at: %s\n", path)
	return 0
}

func (a *app) cmdKeyExport(args []string) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(a.err)
	dir := a.keyStore(fs)
	name := fs.String("name", "", "Signer name")
	role := fs.String("role", "", "Optional role (exports the derived role key)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(a.err, "missing --name")
		return 2
	}
	store, err := keys.OpenStore(*dir)
	if err != nil {
		fmt.Fprintf(a.err, "keys: %v\n", err)
		return 1
	}
	issuerKey, err := store.IssuerKey(*name, *role)
	if err != nil {
		fmt.Fprintf(a.err, "export key: %v\n", err)
		return 1
	}
	fmt.Fprintln(a.out, issuerKey)
	return 0
}

func (a *app) cmdKeyList(args []string) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(a.err)
	dir := a.keyStore(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	store, err := keys.OpenStore(*dir)
	if err != nil {
		fmt.Fprintf(a.err, "keys: %v\n", err)
		return 1
	}
	signers, err := store.List()
	if err != nil {
		fmt.Fprintf(a.err, "list keys: %v\n", err)
		return 1
	}
	for _, s := range signers {
		if len(s.Roles) == 0 {
			fmt.Fprintln(a.out, s.Name)
			continue
		}
		fmt.Fprintf(a.out, "%s\t%s\n", s.Name, strings.Join(s.Roles, ","))
	}
	return 0
}
