package handlers

import (
	"context"
	"fmt"

	"github.com/oaiiae/addressbook/router"
)

type Greeting struct{}

func (h *Greeting) Register(r *router.Router) {
	r.Handle(router.Route{Command: "hello", Doc: "say hello", Handler: h.hello})
	for _, command := range []string{"good bye", "close", "exit"} {
		r.Handle(router.Route{Command: command, Doc: "leave", Handler: h.bye})
	}
}

func (h *Greeting) hello(_ context.Context, req *router.Request) error {
	_, err := fmt.Fprintln(req.Out, "How can I help you?")
	return err
}

func (h *Greeting) bye(_ context.Context, req *router.Request) error {
	if _, err := fmt.Fprintln(req.Out, "Good bye!"); err != nil {
		return err
	}
	return router.ErrExit
}
