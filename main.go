package main

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/oaiiae/addressbook/cli/book"
	"github.com/oaiiae/addressbook/cli/logger"
)

type LogOptions = logger.Options

// Options for the CLI. Pass `--store-file` or set the `SERVICE_STORE_FILE` env var.
type Options struct {
	book.Options
	LogOptions
}

func main() {
	newCLI(os.Stdin, os.Stdout).Run()
}

func newCLI(in io.Reader, out io.Writer) humacli.CLI {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		log := logger.New(&options.LogOptions)
		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			defer cancel()
			err := book.Run(ctx, &options.Options, options.Filesystem(), log, in, out)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("address book stopped", "err", err)
				os.Exit(1)
			}
		})
		hooks.OnStop(func() {
			cancel()
			log.Info("interrupted")
		})
	})

	root := cli.Root()
	root.Use = "addressbook"
	root.Short = "Keep contacts with their phone and birthday"
	root.AddCommand(&cobra.Command{
		Use:   "show [prefix]",
		Short: "Print the contacts whose name starts with prefix",
		Args:  cobra.MaximumNArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *Options) {
			log := logger.New(&options.LogOptions)
			line := strings.Join(append([]string{"show"}, args...), " ")
			err := book.Exec(cmd.Context(), &options.Options, options.Filesystem(), log, out, line)
			if err != nil {
				log.Error("could not show contacts", "err", err)
				os.Exit(1)
			}
		}),
	})
	return cli
}
