package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store keeps Ed25519 seeds for release signers on the local filesystem:
//
//	<Dir>/<signer>/root.key
//	<Dir>/<signer>/roles/<role>.key
//
// Each file holds one hex seed followed by a newline. Role seeds are derived
// from the signer's root seed with DeriveRoleSeed.
type Store struct {
	Dir string
}

// Signer lists one root key and the roles derived from it.
type Signer struct {
	Name  string
	Roles []string
}

// DefaultDir is ~/.xdao/iface-keys.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".xdao", "iface-keys"), nil
}

// OpenStore returns a Store rooted at dir, or at DefaultDir when dir is empty.
// Nothing is created until a key is written.
func OpenStore(dir string) (*Store, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) rootPath(name string) string {
	return filepath.Join(s.Dir, name, "root.key")
}

func (s *Store) rolePath(name, role string) string {
	return filepath.Join(s.Dir, name, "roles", role+".key")
}

func checkIdent(kind, v string) error {
	if v == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	for _, c := range v {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in %s", c, kind)
	}
	return nil
}

// CheckSignerName accepts [A-Za-z0-9_-]+.
func CheckSignerName(name string) error { return checkIdent("signer name", name) }

// CheckRole accepts [A-Za-z0-9_-]+.
func CheckRole(role string) error { return checkIdent("role", role) }

// ParseSeedHex parses a 32-byte seed, tolerating surrounding space and a 0x
// prefix.
func ParseSeedHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("expected seed length of %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return seed, nil
}

func writeSeed(path string, seed []byte, overwrite bool) error {
	if len(seed) != ed25519.SeedSize {
		return fmt.Errorf("expected seed length of %d bytes", ed25519.SeedSize)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(hex.EncodeToString(seed) + "\n"); err != nil {
		return err
	}
	return f.Close()
}

func readSeed(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeedHex(string(data))
}

// Init stores seed as the root key of signer name and returns its issuer key.
// An existing root key is kept unless overwrite is set.
func (s *Store) Init(name string, seed []byte, overwrite bool) (issuerKey, path string, err error) {
	if err := CheckSignerName(name); err != nil {
		return "", "", err
	}
	path = s.rootPath(name)
	if err := writeSeed(path, seed, overwrite); err != nil {
		return "", "", err
	}
	return GenerateIssuerKeyFromSeed(seed), path, nil
}

// Derive stores the role seed of signer name and returns its issuer key.
func (s *Store) Derive(name, role string, overwrite bool) (issuerKey, path string, err error) {
	if err := CheckSignerName(name); err != nil {
		return "", "", err
	}
	root, err := readSeed(s.rootPath(name))
	if err != nil {
		return "", "", err
	}
	seed, err := DeriveRoleSeed(root, role)
	if err != nil {
		return "", "", err
	}
	path = s.rolePath(name, role)
	if err := writeSeed(path, seed, overwrite); err != nil {
		return "", "", err
	}
	return GenerateIssuerKeyFromSeed(seed), path, nil
}

// Seed loads the root seed of name, or its role seed when role is set.
func (s *Store) Seed(name, role string) ([]byte, error) {
	if err := CheckSignerName(name); err != nil {
		return nil, err
	}
	if role == "" {
		return readSeed(s.rootPath(name))
	}
	if err := CheckRole(role); err != nil {
		return nil, err
	}
	return readSeed(s.rolePath(name, role))
}

// IssuerKey is the public issuer key of Seed(name, role).
func (s *Store) IssuerKey(name, role string) (string, error) {
	seed, err := s.Seed(name, role)
	if err != nil {
		return "", err
	}
	return GenerateIssuerKeyFromSeed(seed), nil
}

// ResolveSeed picks a signing seed from, in order: an explicit hex seed, a
// seed file, or a stored signer and role.
func (s *Store) ResolveSeed(seedHex, keyFile, name, role string) ([]byte, error) {
	switch {
	case seedHex != "":
		return ParseSeedHex(seedHex)
	case keyFile != "":
		return readSeed(keyFile)
	case name != "":
		return s.Seed(name, role)
	}
	return nil, errors.New("no signer provided")
}

// List returns every signer with its derived roles, both sorted. A missing
// store directory lists nothing.
func (s *Store) List() ([]Signer, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Signer, 0, len(names))
	for _, name := range names {
		var roles []string
		if roleEntries, err := os.ReadDir(filepath.Join(s.Dir, name, "roles")); err == nil {
			for _, e := range roleEntries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ".key") {
					roles = append(roles, strings.TrimSuffix(e.Name(), ".key"))
				}
			}
			sort.Strings(roles)
		}
		out = append(out, Signer{Name: name, Roles: roles})
	}
	return out, nil
}
