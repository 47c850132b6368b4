package grpccas

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"xdao.co/iface/storage"
	"xdao.co/iface/storage/casregistry"
)

var (
	flagTarget      string
	flagDialTimeout time.Duration
	flagTimeout     time.Duration
	flagMaxMsgBytes int
)

type clientConfig struct {
	target      string
	dialTimeout time.Duration
	timeout     time.Duration
	maxMsgBytes int
}

func (c clientConfig) open() (storage.CAS, func() error, error) {
	target := strings.TrimSpace(c.target)
	if target == "" {
		return nil, nil, fmt.Errorf("missing --grpc-target")
	}
	client, err := Dial(target, DialOptions{Timeout: c.dialTimeout, MaxMsgBytes: c.maxMsgBytes})
	if err != nil {
		return nil, nil, err
	}
	client.Timeout = c.timeout
	return client, client.Close, nil
}

func configFromMap(m map[string]string) (clientConfig, error) {
	c := clientConfig{target: m["grpc-target"], dialTimeout: 5 * time.Second}
	var err error
	if v := m["grpc-dial-timeout"]; v != "" {
		if c.dialTimeout, err = time.ParseDuration(v); err != nil {
			return c, fmt.Errorf("grpc-dial-timeout: %w", err)
		}
	}
	if v := m["grpc-timeout"]; v != "" {
		if c.timeout, err = time.ParseDuration(v); err != nil {
			return c, fmt.Errorf("grpc-timeout: %w", err)
		}
	}
	if v := m["grpc-max-msg-bytes"]; v != "" {
		if c.maxMsgBytes, err = strconv.Atoi(v); err != nil {
			return c, fmt.Errorf("grpc-max-msg-bytes: %w", err)
		}
	}
	return c, nil
}

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "grpc",
		Description: "Remote interface store (talks to xdao-ifacegrpcd)",
		Usage:       casregistry.UsageCLI,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagTarget, "grpc-target", "", "gRPC target host:port (for --backend=grpc)")
			fs.DurationVar(&flagDialTimeout, "grpc-dial-timeout", 5*time.Second, "Dial timeout (for --backend=grpc)")
			fs.DurationVar(&flagTimeout, "grpc-timeout", 0, "Per-RPC timeout (for --backend=grpc)")
			fs.IntVar(&flagMaxMsgBytes, "grpc-max-msg-bytes", 0, "Max gRPC message size in bytes; 0 uses grpc defaults")
		},
		Open: func() (storage.CAS, func() error, error) {
			return clientConfig{
				target:      flagTarget,
				dialTimeout: flagDialTimeout,
				timeout:     flagTimeout,
				maxMsgBytes: flagMaxMsgBytes,
			}.open()
		},
		OpenConfig: func(m map[string]string) (storage.CAS, func() error, error) {
			c, err := configFromMap(m)
			if err != nil {
				return nil, nil, err
			}
			return c.open()
		},
	})
}
