package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	ds "github.com/oaiiae/addressbook/datastores"
	"github.com/oaiiae/addressbook/router"
)

type Contacts struct {
	Store ds.ContactsStore
	// Snapshot is saved after every change when not nil.
	Snapshot     *ds.Snapshot
	ErrorHandler func(context.Context, error)
}

func (h *Contacts) Register(r *router.Router) {
	r.Handle(router.Route{
		Command: "add", Usage: "<name> [phone] [birthday]", Doc: "add a contact",
		MinArgs: 1, MaxArgs: 3, Handler: h.add,
	})
	r.Handle(router.Route{
		Command: "change", Usage: "<name> <phone>", Doc: "replace the phone of a contact",
		MinArgs: 2, MaxArgs: 2, Handler: h.change,
	})
	r.Handle(router.Route{
		Command: "phone", Usage: "<name>", Doc: "print the phone of a contact",
		MinArgs: 1, MaxArgs: 1, Handler: h.phone,
	})
	r.Handle(router.Route{
		Command: "del", Usage: "<name>", Doc: "delete the phone of a contact",
		MinArgs: 1, MaxArgs: 1, Handler: h.del,
	})
	r.Handle(router.Route{
		Command: "show", Usage: "[prefix]", Doc: "list contacts by name",
		MaxArgs: 1, Handler: h.show,
	})
	r.Handle(router.Route{
		Command: "search", Usage: "[pattern]", Doc: "find contacts by name or phone prefix",
		MaxArgs: 1, Handler: h.search,
	})
	r.Handle(router.Route{
		Command: "iteration", Usage: "[n]", Doc: "list contacts n at a time",
		MaxArgs: 1, Handler: h.iteration,
	})
}

func (h *Contacts) add(ctx context.Context, req *router.Request) error {
	name, phone, birthday := req.Args[0], "", ""
	if len(req.Args) > 1 {
		phone = req.Args[1]
	}
	if len(req.Args) > 2 { //nolint: mnd // third argument
		birthday = req.Args[2]
	}

	if _, err := h.Store.Add(ctx, name, phone, birthday); err != nil {
		return describe(name, err)
	}
	h.autosave(ctx)
	_, err := fmt.Fprintf(req.Out, "Added record for %s\n", name)
	return err
}

func (h *Contacts) change(ctx context.Context, req *router.Request) error {
	name := req.Args[0]
	if err := h.Store.ChangePhone(ctx, name, req.Args[1]); err != nil {
		return describe(name, err)
	}
	h.autosave(ctx)
	_, err := fmt.Fprintf(req.Out, "Changed phone number for %s\n", name)
	return err
}

func (h *Contacts) phone(ctx context.Context, req *router.Request) error {
	name := req.Args[0]
	c, ok := h.Store.Get(ctx, name)
	if !ok {
		return describe(name, fmt.Errorf("%w: %s", ds.ErrObjectNotFound, name))
	}
	if c.Phone.IsZero() {
		_, err := fmt.Fprintln(req.Out, "No phone number")
		return err
	}
	_, err := fmt.Fprintf(req.Out, "Phone: %s\n", c.Phone)
	return err
}

func (h *Contacts) del(ctx context.Context, req *router.Request) error {
	name := req.Args[0]
	if err := h.Store.DeletePhone(ctx, name); err != nil {
		return describe(name, err)
	}
	h.autosave(ctx)
	_, err := fmt.Fprintf(req.Out, "Deleted phone for %s\n", name)
	return err
}

func (h *Contacts) show(ctx context.Context, req *router.Request) error {
	prefix := ""
	if len(req.Args) > 0 {
		prefix = req.Args[0]
	}
	return writeContacts(req.Out, h.Store.List(ctx, prefix), "No records")
}

func (h *Contacts) search(ctx context.Context, req *router.Request) error {
	pattern, err := arg(ctx, req, 0, "Search pattern: ")
	if err != nil {
		return err
	}
	return writeContacts(req.Out, h.Store.Search(ctx, pattern), "No matches")
}

// pageRule ends every full page of the iteration command.
var pageRule = strings.Repeat("*", 50) //nolint: gochecknoglobals,mnd // rule width

func (h *Contacts) iteration(ctx context.Context, req *router.Request) error {
	n := 2
	if len(req.Args) > 0 {
		var err error
		n, err = strconv.Atoi(req.Args[0])
		if err != nil || n < 1 {
			return &Error{Msg: "page size must be a positive integer: " + req.Args[0], Err: ds.ErrInvalidInput}
		}
	}

	i := 0
	for c := range h.Store.All(ctx) {
		if err := writeContact(req.Out, c); err != nil {
			return err
		}
		i++
		if i%n == 0 {
			if _, err := fmt.Fprintln(req.Out, pageRule); err != nil {
				return err
			}
		}
	}
	if i == 0 {
		_, err := fmt.Fprintln(req.Out, "No records")
		return err
	}
	return nil
}

// autosave reports failures to ErrorHandler without failing the command, the change is kept in memory.
func (h *Contacts) autosave(ctx context.Context) {
	if h.Snapshot == nil {
		return
	}
	if err := h.Snapshot.Save(ctx, h.Store); err != nil && h.ErrorHandler != nil {
		h.ErrorHandler(ctx, fmt.Errorf("autosave: %w", err))
	}
}
