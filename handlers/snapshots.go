package handlers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	ds "github.com/oaiiae/addressbook/datastores"
	"github.com/oaiiae/addressbook/router"
)

// SnapshotExt is appended to file names given without an extension.
const SnapshotExt = ".bin"

type Snapshots struct {
	Store ds.ContactsStore
	FS    billy.Filesystem
}

func (h *Snapshots) Register(r *router.Router) {
	r.Handle(router.Route{
		Command: "save", Usage: "[file]", Doc: "save the address book to a file",
		MaxArgs: 1, Handler: h.save,
	})
	r.Handle(router.Route{
		Command: "load", Usage: "[file]", Doc: "replace the address book with a saved one",
		MaxArgs: 1, Handler: h.load,
	})
}

// SnapshotPath adds [SnapshotExt] to name when it has no extension.
func SnapshotPath(name string) string {
	if filepath.Ext(name) == "" {
		return name + SnapshotExt
	}
	return name
}

func (h *Snapshots) snapshot(ctx context.Context, req *router.Request) (*ds.Snapshot, error) {
	name, err := arg(ctx, req, 0, "File name: ")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &Error{Msg: "file name is required", Err: ds.ErrInvalidInput}
	}
	return &ds.Snapshot{FS: h.FS, Path: SnapshotPath(name)}, nil
}

func (h *Snapshots) save(ctx context.Context, req *router.Request) error {
	snap, err := h.snapshot(ctx, req)
	if err != nil {
		return err
	}
	if err = snap.Save(ctx, h.Store); err != nil {
		return err
	}
	_, err = fmt.Fprintf(req.Out, "Saved %d records to '%s'\n", h.Store.Len(), snap.Path)
	return err
}

func (h *Snapshots) load(ctx context.Context, req *router.Request) error {
	snap, err := h.snapshot(ctx, req)
	if err != nil {
		return err
	}
	found, err := snap.Load(ctx, h.Store)
	switch {
	case err != nil:
		return err
	case !found:
		_, err = fmt.Fprintf(req.Out, "File '%s' not found. Keeping the current address book.\n", snap.Path)
	default:
		_, err = fmt.Fprintf(req.Out, "Loaded %d records from '%s'\n", h.Store.Len(), snap.Path)
	}
	return err
}
