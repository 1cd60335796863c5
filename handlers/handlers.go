package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	ds "github.com/oaiiae/addressbook/datastores"
	"github.com/oaiiae/addressbook/router"
)

// Error is an error whose message is meant for the user. It unwraps to the cause.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// describe turns a store error about name into an [Error].
func describe(name string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ds.ErrObjectNotFound):
		return &Error{Msg: fmt.Sprintf("No record found for %s", name), Err: err}
	case errors.Is(err, ds.ErrObjectExists):
		return &Error{Msg: fmt.Sprintf("%s already exists in the phone book", name), Err: err}
	default:
		return err
	}
}

// arg returns the i-th argument, or the answer to label when it was not given.
func arg(ctx context.Context, req *router.Request, i int, label string) (string, error) {
	if i < len(req.Args) {
		return req.Args[i], nil
	}
	if req.Prompter == nil {
		return "", &router.UsageError{Usage: req.Command + " <" + strings.ToLower(strings.TrimSuffix(label, ": ")) + ">"}
	}
	return req.Prompter.Prompt(ctx, label)
}

const rule = "__________________________________________________"

func writeContact(w io.Writer, c ds.Contact) error {
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(c.Name + ":\n")
	if c.Phone.IsZero() {
		b.WriteString("No phone number\n")
	} else {
		b.WriteString("Phone: " + c.Phone.String() + "\n")
	}
	if c.Birthday.IsZero() {
		b.WriteString("No birthday\n")
	} else {
		b.WriteString("Birthday: " + c.Birthday.String() + "\n")
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeContacts(w io.Writer, seq iter.Seq[ds.Contact], empty string) error {
	n := 0
	for c := range seq {
		if err := writeContact(w, c); err != nil {
			return err
		}
		n++
	}
	if n == 0 {
		_, err := fmt.Fprintln(w, empty)
		return err
	}
	return nil
}
