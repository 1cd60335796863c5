package handlers

import (
	"context"
	"fmt"
	"time"

	ds "github.com/oaiiae/addressbook/datastores"
	"github.com/oaiiae/addressbook/router"
)

type Birthdays struct {
	Store ds.ContactsStore
	Now   func() time.Time // defaults to [time.Now]
}

func (h *Birthdays) Register(r *router.Router) {
	r.Handle(router.Route{
		Command: "birthday", Usage: "<name>", Doc: "print the days left until a birthday",
		MinArgs: 1, MaxArgs: 1, Handler: h.birthday,
	})
	r.Handle(router.Route{
		Command: "birthdays", Doc: "list contacts having a birthday",
		Handler: h.birthdays,
	})
}

func (h *Birthdays) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Birthdays) birthday(ctx context.Context, req *router.Request) error {
	name := req.Args[0]
	c, ok := h.Store.Get(ctx, name)
	if !ok {
		return describe(name, fmt.Errorf("%w: %s", ds.ErrObjectNotFound, name))
	}
	if c.Birthday.IsZero() {
		_, err := fmt.Fprintf(req.Out, "No birthday found for %s.\n", name)
		return err
	}

	var err error
	switch days := c.Birthday.DaysUntil(h.now()); days {
	case 0:
		_, err = fmt.Fprintf(req.Out, "Today is %s's birthday!\n", name)
	case 1:
		_, err = fmt.Fprintf(req.Out, "%s's birthday is tomorrow!\n", name)
	default:
		_, err = fmt.Fprintf(req.Out, "%s's birthday is in %d days.\n", name, days)
	}
	return err
}

func (h *Birthdays) birthdays(ctx context.Context, req *router.Request) error {
	n := 0
	for c := range h.Store.Birthdays(ctx) {
		if _, err := fmt.Fprintf(req.Out, "%s's birthday is on %s.\n", c.Name, c.Birthday); err != nil {
			return err
		}
		n++
	}
	if n == 0 {
		_, err := fmt.Fprintln(req.Out, "No birthdays")
		return err
	}
	return nil
}
