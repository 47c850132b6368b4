// Package bundle moves sets of interfaces between stores as a TAR archive.
//
// Layout:
//
//	interfaces/<hex id>   canonical encoding
//	index.json            optional, non-authoritative listing
//
// Export output is a pure function of the interface set: entries are sorted by
// ID and TAR headers carry fixed metadata.
package bundle

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"xdao.co/iface/iface"
	"xdao.co/iface/storage"
)

// FormatVersion is the index schema version.
const FormatVersion = 1

const entryPrefix = "interfaces/"

var epoch0 = time.Unix(0, 0).UTC()

// Entry is one interface in an index.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	CID  string `json:"cid"`
	Size int    `json:"size"`
}

// Index lists the interfaces of a bundle.
type Index struct {
	Version    int     `json:"version"`
	Interfaces []Entry `json:"interfaces"`
}

type ExportOptions struct {
	IncludeIndex bool
}

// Export writes the interfaces ids from cas to w. Every interface is decoded
// before it is written, so a bundle never carries foreign bytes.
func Export(w io.Writer, cas storage.CAS, ids []iface.ID, opts ExportOptions) error {
	if cas == nil {
		return errors.New("bundle: nil CAS")
	}
	uniq := make(map[iface.ID]struct{}, len(ids))
	sorted := make([]iface.ID, 0, len(ids))
	for _, id := range ids {
		if _, dup := uniq[id]; dup {
			continue
		}
		uniq[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i][:], sorted[j][:]) < 0 })

	tw := tar.NewWriter(w)
	idx := Index{Version: FormatVersion, Interfaces: make([]Entry, 0, len(sorted))}
	for _, id := range sorted {
		i, err := storage.GetIface(cas, id)
		if err != nil {
			_ = tw.Close()
			return fmt.Errorf("bundle: %s: %w", id, err)
		}
		data, err := i.Encode()
		if err != nil {
			_ = tw.Close()
			return err
		}
		if err := writeFile(tw, entryPrefix+id.String(), data); err != nil {
			_ = tw.Close()
			return err
		}
		idx.Interfaces = append(idx.Interfaces, Entry{ID: id.String(), Name: i.Name, CID: id.CID().String(), Size: len(data)})
	}

	if opts.IncludeIndex {
		b, err := json.Marshal(idx)
		if err != nil {
			_ = tw.Close()
			return err
		}
		if err := writeFile(tw, "index.json", append(b, '\n')); err != nil {
			_ = tw.Close()
			return err
		}
	}
	return tw.Close()
}

type ImportOptions struct {
	// IgnoreUnknown skips entries outside the bundle layout instead of failing.
	IgnoreUnknown bool
}

// Import stores every interface of the bundle in cas and returns their IDs in
// archive order. Each entry must decode strictly and match its file name.
func Import(r io.Reader, cas storage.CAS, opts ImportOptions) ([]iface.ID, error) {
	if cas == nil {
		return nil, errors.New("bundle: nil CAS")
	}
	tr := tar.NewReader(r)
	seen := map[iface.ID]struct{}{}
	var out []iface.ID

	for {
		h, err := tr.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		name := cleanTarPath(h.Name)
		if name == "" {
			return nil, fmt.Errorf("bundle: invalid entry path %q", h.Name)
		}
		if h.Typeflag != tar.TypeReg {
			if opts.IgnoreUnknown {
				continue
			}
			return nil, fmt.Errorf("bundle: unexpected entry type %v (%s)", h.Typeflag, name)
		}
		if name == "index.json" {
			continue
		}
		if !strings.HasPrefix(name, entryPrefix) {
			if opts.IgnoreUnknown {
				continue
			}
			return nil, fmt.Errorf("bundle: unknown entry %s", name)
		}

		want, err := iface.ParseID(strings.TrimPrefix(name, entryPrefix))
		if err != nil {
			return nil, fmt.Errorf("bundle: %s: %w", name, err)
		}
		if _, dup := seen[want]; dup {
			return nil, fmt.Errorf("bundle: duplicate entry %s", name)
		}
		seen[want] = struct{}{}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		i, err := iface.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("bundle: %s: %w", name, err)
		}
		if i.ID() != want {
			return nil, fmt.Errorf("bundle: %s: %w", name, storage.ErrIDMismatch)
		}
		if _, err := storage.PutIface(cas, i); err != nil {
			return nil, err
		}
		out = append(out, want)
	}
}

// ReadIndex returns the index.json of a bundle, if present.
func ReadIndex(r io.Reader) (Index, bool, error) {
	tr := tar.NewReader(r)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			return Index{}, false, nil
		}
		if err != nil {
			return Index{}, false, err
		}
		if cleanTarPath(h.Name) != "index.json" {
			continue
		}
		var idx Index
		if err := json.NewDecoder(tr).Decode(&idx); err != nil {
			return Index{}, false, fmt.Errorf("bundle: index.json: %w", err)
		}
		return idx, true, nil
	}
}

func writeFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch0,
		Typeflag: tar.TypeReg,
		Format:   tar.FormatUSTAR,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(content)
	return err
}

func cleanTarPath(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = strings.TrimPrefix(strings.TrimPrefix(name, "./"), "/")
	if name == "" {
		return ""
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return ""
		}
	}
	return name
}
