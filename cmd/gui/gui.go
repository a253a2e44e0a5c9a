package gui

import (
	"github.com/itchio/dragtoinstall/comm"
	"github.com/itchio/dragtoinstall/gui"
	"github.com/itchio/dragtoinstall/mansion"
	"github.com/itchio/dragtoinstall/shellopen"
	"github.com/pkg/errors"
)

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("gui", "Opens the installer window (default)").Default()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx))
}

func Do(ctx *mansion.Context) error {
	m, err := ctx.Manifest()
	if err != nil {
		return errors.WithStack(err)
	}

	r, err := ctx.Resolver()
	if err != nil {
		return errors.WithStack(err)
	}

	return gui.Run(&gui.Params{
		Manifest: m,
		Resolver: r,
		Opener:   shellopen.Native{},
		Consumer: comm.NewStateConsumer(),
	})
}
