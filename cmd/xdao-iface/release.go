package main

import (
	"crypto/ed25519"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"xdao.co/iface/keys"
	"xdao.co/iface/model"
	"xdao.co/iface/release"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func (a *app) cmdRelease(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.err, "usage: xdao-iface release <subcommand> ...")
		fmt.Fprintln(a.err, "subcommands: sign, verify")
		return 2
	}
	switch args[0] {
	case "sign":
		return a.cmdReleaseSign(args[1:])
	case "verify":
		return a.cmdReleaseVerify(args[1:])
	default:
		fmt.Fprintf(a.err, "unknown release subcommand: %s\n", args[0])
		return 2
	}
}

func (a *app) cmdReleaseSign(args []string) int {
	fs := flag.NewFlagSet("release sign", flag.ContinueOnError)
	fs.SetOutput(a.err)

	var (
		seedHex    string
		signer     string
		signerRole string
		keyFile    string
		keyDir     string
		hashAlg    string
		fields     stringList
	)
	fs.StringVar(&seedHex, "seed-hex", "", "ed25519 seed as 64 hex chars")
	fs.StringVar(&signer, "signer", "", "Stored signer name")
	fs.StringVar(&signerRole, "signer-role", "", "Derived role of --signer")
	fs.StringVar(&keyFile, "key-file", "", "File holding a hex seed")
	fs.StringVar(&keyDir, "key-dir", a.cfg.KeyDir, "Key store directory (default ~/.xdao/iface-keys)")
	fs.StringVar(&hashAlg, "hash-alg", keys.HashSHA256, "Hash-Alg: sha256, sha512 or sha3-256")
	fs.Var(&fields, "field", "Extra subject field Key=Value (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.err, "usage: xdao-iface release sign (--seed-hex <64hex> | --signer <name> [--signer-role <role>] | --key-file <path>) <name|file>")
		return 2
	}
	extra, err := parseFields(fields)
	if err != nil {
		fmt.Fprintf(a.err, "invalid --field: %v\n", err)
		return 2
	}

	store, err := keys.OpenStore(keyDir)
	if err != nil {
		fmt.Fprintf(a.err, "keys: %v\n", err)
		return 1
	}
	seed, err := store.ResolveSeed(seedHex, keyFile, signer, signerRole)
	if err != nil {
		fmt.Fprintf(a.err, "signer: %v\n", err)
		return 2
	}
	s, err := release.Ed25519Signer(ed25519.NewKeyFromSeed(seed), hashAlg)
	if err != nil {
		fmt.Fprintf(a.err, "signer: %v\n", err)
		return 2
	}

	i, err := loadIface(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(a.err, err)
		return 1
	}
	r, err := release.SignIface(i, s, extra)
	if err != nil {
		fmt.Fprintf(a.err, "sign: %v\n", err)
		return 1
	}
	a.log.Info("signed release", zap.String("name", i.Name), zap.Stringer("id", r.InterfaceID()), zap.String("issuer", s.IssuerKey))
	_, _ = a.out.Write(r.Bytes())
	return 0
}

func (a *app) cmdReleaseVerify(args []string) int {
	fs := flag.NewFlagSet("release verify", flag.ContinueOnError)
	fs.SetOutput(a.err)
	ifaceArg := fs.String("iface", "", "Interface (name or file) the release must name")
	format := fs.String("format", "text", "Output format: text, yaml or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.err, "usage: xdao-iface release verify [--iface <name|file>] [--format text|yaml|json] <release file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(a.err, "read release: %v\n", err)
		return 1
	}
	r, err := release.Parse(b)
	if err != nil {
		fmt.Fprintf(a.err, "invalid release (%s): %v\n", release.RuleID(err), err)
		return 1
	}
	if err := r.Verify(); err != nil {
		fmt.Fprintf(a.err, "invalid signature (%s): %v\n", release.RuleID(err), err)
		return 1
	}
	if *ifaceArg != "" {
		i, err := loadIface(*ifaceArg)
		if err != nil {
			fmt.Fprintln(a.err, err)
			return 1
		}
		if err := r.Matches(i); err != nil {
			fmt.Fprintf(a.err, "release does not match interface (%s): %v\n", release.RuleID(err), err)
			return 1
		}
	}
	if *format == "text" {
		fmt.Fprintf(a.out, "OK %s %s %s\n", r.InterfaceName(), r.InterfaceID(), r.IssuerKey())
		return 0
	}
	return a.emit(*format, model.FromRelease(r, true))
}

func parseFields(items []string) (map[string]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(items))
	for _, item := range items {
		k, v, ok := strings.Cut(item, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("expected Key=Value, got %q", item)
		}
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf("duplicate field %q", k)
		}
		out[k] = v
	}
	return out, nil
}
