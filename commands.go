package main

import (
	"github.com/itchio/dragtoinstall/cmd/gui"
	"github.com/itchio/dragtoinstall/cmd/install"
	"github.com/itchio/dragtoinstall/cmd/ls"
	"github.com/itchio/dragtoinstall/cmd/manifest"
	"github.com/itchio/dragtoinstall/cmd/version"
	"github.com/itchio/dragtoinstall/cmd/where"
	"github.com/itchio/dragtoinstall/mansion"
)

// Each of these specify their own arguments and flags in
// their own package.
func registerCommands(ctx *mansion.Context) {
	gui.Register(ctx)
	install.Register(ctx)

	ls.Register(ctx)
	manifest.Register(ctx)
	where.Register(ctx)
	version.Register(ctx)
}
