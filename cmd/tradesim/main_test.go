package main

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd(zerolog.Nop())

	want := map[string]bool{"run": false, "risk": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q is not registered", name)
		}
	}
}
