package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFlags(t *testing.T) {
	flags := newCLI(strings.NewReader(""), new(bytes.Buffer)).Root().PersistentFlags()
	for name, def := range map[string]string{
		"dir":        ".",
		"store-file": "auto_save.bin",
		"autosave":   "true",
		"prompt":     "Enter a command: ",
		"log-level":  "",
		"log-file":   "",
		"log-format": "text",
	} {
		flag := flags.Lookup(name)
		if assert.NotNil(t, flag, name) {
			assert.Equal(t, def, flag.DefValue, name)
		}
	}
}

func TestConsoleThenShow(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	cli := newCLI(strings.NewReader("add bob\nadd alice +11234567890\nexit\n"), &out)
	cli.Root().SetArgs([]string{"--dir", dir, "--prompt", "> ", "--log-file", os.DevNull})
	cli.Run()
	assert.Equal(t, "> Added record for bob\n> Added record for alice\n> Good bye!\n", out.String())
	_, err := os.Stat(filepath.Join(dir, "auto_save.bin"))
	require.NoError(t, err)

	out.Reset()
	cli = newCLI(strings.NewReader(""), &out)
	cli.Root().SetArgs([]string{"show", "a", "--dir", dir, "--log-file", os.DevNull})
	cli.Run()
	assert.Contains(t, out.String(), "alice:\nPhone: +11234567890\n")
	assert.NotContains(t, out.String(), "bob:")
}
