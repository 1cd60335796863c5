package book

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	ds "github.com/oaiiae/addressbook/datastores"
	"github.com/oaiiae/addressbook/handlers"
	"github.com/oaiiae/addressbook/router"
)

// Console reads commands line by line and prints their outcome.
// Errors are reported and the loop goes on, except for a corrupt snapshot.
type Console struct {
	Router       *router.Router
	In           io.Reader
	Out          io.Writer
	Label        string
	ErrorHandler func(context.Context, error)

	scanner *bufio.Scanner
}

var _ router.Prompter = (*Console)(nil)

// Prompt implements [router.Prompter]. It returns [io.EOF] at the end of input.
func (c *Console) Prompt(_ context.Context, label string) (string, error) {
	if _, err := io.WriteString(c.Out, label); err != nil {
		return "", err
	}
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.scanner.Text()), nil
}

func (c *Console) Run(ctx context.Context) error {
	c.scanner = bufio.NewScanner(c.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := c.Prompt(ctx, c.Label)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		err = c.Router.Dispatch(ctx, line, c, c.Out)
		switch {
		case err == nil:
		case errors.Is(err, router.ErrExit), errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ds.ErrSnapshotCorrupt):
			c.report(ctx, err)
			return err
		default:
			c.report(ctx, err)
			if _, err = fmt.Fprintln(c.Out, message(err)); err != nil {
				return err
			}
		}
	}
}

func (c *Console) report(ctx context.Context, err error) {
	if c.ErrorHandler != nil {
		c.ErrorHandler(ctx, err)
	}
}

// message renders err for the user.
func message(err error) string {
	var herr *handlers.Error
	switch {
	case errors.As(err, &herr):
		return herr.Msg
	case errors.Is(err, router.ErrUnknownCommand):
		return "Unknown command, type help to list commands"
	default:
		return err.Error()
	}
}
