package main

import (
	"flag"
	"fmt"
	"os"

	"xdao.co/iface/model"
	"xdao.co/iface/rgb25"
	"xdao.co/iface/state"
)

func (a *app) cmdInspect(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(a.err)
	format := fs.String("format", "yaml", "Output format: yaml or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.err, "usage: xdao-iface inspect [--format yaml|json] <name|file>")
		return 2
	}
	i, err := loadIface(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(a.err, err)
		return 1
	}
	view, err := model.FromIface(i)
	if err != nil {
		fmt.Fprintln(a.err, err)
		return 1
	}
	return a.emit(*format, view)
}

func (a *app) cmdRead(args []string) int {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	fs.SetOutput(a.err)
	format := fs.String("format", "yaml", "Output format: yaml or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.err, "usage: xdao-iface read [--format yaml|json] <state.yaml>")
		return 2
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(a.err, "read state: %v\n", err)
		return 1
	}
	defer f.Close()
	st, err := state.LoadYAML(f)
	if err != nil {
		fmt.Fprintln(a.err, err)
		return 1
	}

	switch st.IfaceID() {
	case rgb25.IfaceID:
		r, err := rgb25.Wrap(st)
		if err != nil {
			fmt.Fprintln(a.err, err)
			return 1
		}
		view, err := readRGB25(r)
		if err != nil {
			fmt.Fprintln(a.err, err)
			return 1
		}
		return a.emit(*format, view)
	default:
		fmt.Fprintf(a.err, "no typed view for interface %s\n", st.IfaceID())
		return 1
	}
}

// readRGB25 turns the accessor panics raised by state missing a required
// global into an error.
func readRGB25(r *rgb25.RGB25) (view model.RGB25State, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("invalid state: %v", p)
		}
	}()
	return model.FromRGB25(r), nil
}
