package ipfs

import (
	"flag"

	"xdao.co/iface/storage"
	"xdao.co/iface/storage/casregistry"
)

var (
	flagBin  string
	flagPath string
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "ipfs",
		Description: "Local Kubo repository via the ipfs CLI (raw blocks)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagBin, "ipfs-bin", "ipfs", "ipfs executable (for --backend=ipfs)")
			fs.StringVar(&flagPath, "ipfs-path", "", "IPFS_PATH override (for --backend=ipfs)")
		},
		Open: func() (storage.CAS, func() error, error) {
			return New(Options{Bin: flagBin, Path: flagPath}), nil, nil
		},
		OpenConfig: func(cfg map[string]string) (storage.CAS, func() error, error) {
			return New(Options{Bin: cfg["ipfs-bin"], Path: cfg["ipfs-path"]}), nil, nil
		},
	})
}
