package datastores

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const snapshotVersion = 1

// Snapshot persists a whole [ContactsStore] as a single file of FS.
type Snapshot struct {
	FS   billy.Filesystem
	Path string
}

type snapshotFile struct {
	Version  int
	Contacts []snapshotContact
}

type snapshotContact struct {
	ID       string
	Name     string
	Phone    string // empty when absent
	Birthday string // empty when absent
}

// Save writes every contact of store, in insertion order, to a temporary
// file then renames it over Path.
func (s *Snapshot) Save(ctx context.Context, store ContactsStore) error {
	file := snapshotFile{Version: snapshotVersion}
	for c := range store.All(ctx) {
		file.Contacts = append(file.Contacts, snapshotContact{
			ID:       c.ID.String(),
			Name:     c.Name,
			Phone:    c.Phone.String(),
			Birthday: c.Birthday.String(),
		})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&file); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if dir != "." {
		if err := s.FS.MkdirAll(dir, 0o755); err != nil { //nolint: mnd // rwxr-xr-x
			return fmt.Errorf("snapshot: mkdirall %q: %w", dir, err)
		}
	}
	tmp, err := util.TempFile(s.FS, dir, "."+filepath.Base(s.Path)+".tmp-")
	if err != nil {
		return fmt.Errorf("snapshot: tempfile: %w", err)
	}
	if err = writeAndClose(tmp, buf.Bytes()); err != nil {
		_ = s.FS.Remove(tmp.Name())
		return fmt.Errorf("snapshot: write %q: %w", tmp.Name(), err)
	}
	if err = s.FS.Rename(tmp.Name(), s.Path); err != nil {
		_ = s.FS.Remove(tmp.Name())
		return fmt.Errorf("snapshot: rename %q: %w", s.Path, err)
	}
	return nil
}

func writeAndClose(f billy.File, data []byte) error {
	_, err := f.Write(data)
	if err == nil {
		if syncer, ok := f.(interface{ Sync() error }); ok {
			err = syncer.Sync()
		}
	}
	return errors.Join(err, f.Close())
}

// Load replaces the contents of store with the contacts saved at Path.
// It reports false, leaving store untouched, when no file exists at Path.
// Unreadable content is reported with [ErrSnapshotCorrupt].
func (s *Snapshot) Load(_ context.Context, store ContactsStore) (bool, error) {
	data, err := util.ReadFile(s.FS, s.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("snapshot: read %q: %w", s.Path, err)
	}

	var file snapshotFile
	if err = gob.NewDecoder(bytes.NewReader(data)).Decode(&file); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrSnapshotCorrupt, s.Path, err)
	}
	if file.Version != snapshotVersion {
		return false, fmt.Errorf("%w: %s: unsupported version %d", ErrSnapshotCorrupt, s.Path, file.Version)
	}

	cs := make([]Contact, 0, len(file.Contacts))
	seen := make(map[string]struct{}, len(file.Contacts))
	for i, sc := range file.Contacts {
		c, err := sc.contact()
		if err != nil {
			return false, fmt.Errorf("%w: %s: contact #%d: %w", ErrSnapshotCorrupt, s.Path, i, err)
		}
		if _, ok := seen[c.Name]; ok {
			return false, fmt.Errorf("%w: %s: duplicate name %q", ErrSnapshotCorrupt, s.Path, c.Name)
		}
		seen[c.Name] = struct{}{}
		cs = append(cs, c)
	}
	store.Reset(cs)
	return true, nil
}

// contact validates sc again so that loaded contacts hold the same invariants as added ones.
func (sc *snapshotContact) contact() (Contact, error) {
	c := Contact{Name: sc.Name}
	if c.Name == "" {
		return Contact{}, errors.New("empty name")
	}
	if err := c.ID.UnmarshalText([]byte(sc.ID)); err != nil {
		return Contact{}, fmt.Errorf("id: %w", err)
	}
	if err := c.Phone.UnmarshalText([]byte(sc.Phone)); err != nil {
		return Contact{}, err
	}
	if err := c.Birthday.UnmarshalText([]byte(sc.Birthday)); err != nil {
		return Contact{}, err
	}
	return c, nil
}
