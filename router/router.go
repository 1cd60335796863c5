package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("wrong number of arguments")
	// ErrExit is returned by handlers to end the session.
	ErrExit = errors.New("exit")
)

// UsageError reports a command called with a wrong number of arguments.
// It matches [ErrUsage].
type UsageError struct{ Usage string }

func (e *UsageError) Error() string { return "usage: " + e.Usage }

func (e *UsageError) Unwrap() error { return ErrUsage }

// Prompter asks the user for a line of input.
type Prompter interface {
	Prompt(ctx context.Context, label string) (string, error)
}

type Request struct {
	Command  string
	Args     []string
	Prompter Prompter
	Out      io.Writer
}

type (
	Handler    = func(ctx context.Context, req *Request) error
	Middleware = func(ctx context.Context, req *Request, next Handler) error
)

// Route binds a command keyword of one or two words to its handler.
type Route struct {
	Command string
	Usage   string
	Doc     string
	MinArgs int
	MaxArgs int // negative for no limit
	Handler Handler
}

func (rt *Route) usage() string {
	if rt.Usage == "" {
		return rt.Command
	}
	return rt.Command + " " + rt.Usage
}

type Router struct {
	routes      map[string]*Route
	order       []*Route
	middlewares []Middleware
}

func New(opts ...func(*Router)) *Router {
	r := &Router{routes: make(map[string]*Route)}
	r.Handle(Route{Command: "help", Doc: "list commands", Handler: r.help})
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func OptUseMiddleware(middlewares ...Middleware) func(*Router) {
	return func(r *Router) { r.middlewares = append(r.middlewares, middlewares...) }
}

// OptRegister calls Register on each registrar.
func OptRegister(registrars ...interface{ Register(*Router) }) func(*Router) {
	return func(r *Router) {
		for _, registrar := range registrars {
			registrar.Register(r)
		}
	}
}

// Handle adds a route, replacing any route with the same command.
func (r *Router) Handle(route Route) {
	route.Command = strings.ToLower(strings.Join(strings.Fields(route.Command), " "))
	if old, ok := r.routes[route.Command]; ok {
		*old = route
		return
	}
	r.routes[route.Command] = &route
	r.order = append(r.order, &route)
}

// Routes returns the routes in registration order.
func (r *Router) Routes() []Route {
	routes := make([]Route, 0, len(r.order))
	for _, rt := range r.order {
		routes = append(routes, *rt)
	}
	return routes
}

func (r *Router) lookup(fields []string) (*Route, []string) {
	if len(fields) > 1 {
		if rt, ok := r.routes[strings.ToLower(fields[0]+" "+fields[1])]; ok {
			return rt, fields[2:]
		}
	}
	if rt, ok := r.routes[strings.ToLower(fields[0])]; ok {
		return rt, fields[1:]
	}
	return nil, nil
}

// Dispatch splits line on whitespace and calls the matching route.
// The command keyword is matched case-insensitively; arguments are passed as typed,
// including those that look like flags. Blank lines are ignored.
func (r *Router) Dispatch(ctx context.Context, line string, prompter Prompter, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	rt, args := r.lookup(fields)
	if rt == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, strings.ToLower(fields[0]))
	}

	root := r.command(prompter, out)
	// "--" stops cobra from resolving subcommands among the arguments.
	root.SetArgs(slices.Concat(strings.Fields(rt.Command), []string{"--"}, args))
	return root.ExecuteContext(ctx)
}

// command builds a command tree with one leaf per route, two-word routes nested under their first word.
func (r *Router) command(prompter Prompter, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "book",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)
	root.SetErr(out)

	for _, rt := range r.order {
		words := strings.Fields(rt.Command)
		parent := root
		for _, word := range words[:len(words)-1] {
			parent = subcommand(parent, word)
		}

		var cmd *cobra.Command
		if rt == r.routes["help"] {
			cmd = &cobra.Command{}
			root.SetHelpCommand(cmd)
			root.AddCommand(cmd)
		} else {
			cmd = subcommand(parent, words[len(words)-1])
		}
		cmd.Use = words[len(words)-1]
		if rt.Usage != "" {
			cmd.Use += " " + rt.Usage
		}
		cmd.Short = rt.Doc
		cmd.DisableFlagParsing = true
		cmd.Args = cobra.ArbitraryArgs
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && args[0] == "--" {
				args = args[1:]
			}
			handler := r.chain(rt, cmd)
			return handler(cmd.Context(), &Request{Command: rt.Command, Args: args, Prompter: prompter, Out: out})
		}
	}
	return root
}

// subcommand returns the child of parent called name, adding it when missing.
func subcommand(parent *cobra.Command, name string) *cobra.Command {
	for _, cmd := range parent.Commands() {
		if cmd.Name() == name {
			return cmd
		}
	}
	cmd := &cobra.Command{Use: name, DisableFlagParsing: true, Args: cobra.ArbitraryArgs}
	parent.AddCommand(cmd)
	return cmd
}

// chain wraps the route handler in the middlewares, the first middleware outermost.
// The argument count is checked inside the chain so middlewares see usage errors.
func (r *Router) chain(rt *Route, cmd *cobra.Command) Handler {
	check := cobra.RangeArgs(rt.MinArgs, rt.MaxArgs)
	if rt.MaxArgs < 0 {
		check = cobra.MinimumNArgs(rt.MinArgs)
	}
	handler := func(ctx context.Context, req *Request) error {
		if check(cmd, req.Args) != nil {
			return &UsageError{Usage: rt.usage()}
		}
		return rt.Handler(ctx, req)
	}
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = wrap(r.middlewares[i], handler)
	}
	return handler
}

func wrap(mw Middleware, next Handler) Handler {
	return func(ctx context.Context, req *Request) error { return mw(ctx, req, next) }
}

func (r *Router) help(_ context.Context, req *Request) error {
	for _, rt := range r.order {
		if _, err := fmt.Fprintf(req.Out, "%-28s %s\n", rt.usage(), rt.Doc); err != nil {
			return err
		}
	}
	return nil
}
