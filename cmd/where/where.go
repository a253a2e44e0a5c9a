package where

import (
	"github.com/itchio/dragtoinstall/comm"
	"github.com/itchio/dragtoinstall/mansion"
	"github.com/itchio/dragtoinstall/pathstore"
	"github.com/itchio/dragtoinstall/resources"
	"github.com/kardianos/osext"
	"github.com/pkg/errors"
)

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("where", "Prints where this installer runs from, where it finds its resources and where it installs to")
	ctx.Register(cmd, do)
}

type WhereResult struct {
	Executable  string            `json:"executable"`
	Folders     []string          `json:"folders"`
	Resources   map[string]string `json:"resources"`
	Destination string            `json:"destination"`
}

func do(ctx *mansion.Context) {
	res, err := Do(ctx)
	ctx.Must(err)

	comm.ResultOrPrint(res, func() {
		comm.Logf("You're running dragtoinstall %s, from the following path:", ctx.VersionString)
		comm.Logf("%s", res.Executable)
		comm.Logf("")
		comm.Logf("Looking for resources in:")
		for _, folder := range res.Folders {
			comm.Logf("  %s", folder)
		}
		comm.Logf("")
		for _, name := range []string{resources.Payload, resources.Icon, resources.Manifest} {
			if p, ok := res.Resources[name]; ok {
				comm.Logf("%s: %s", name, p)
			} else {
				comm.Logf("%s: (not found)", name)
			}
		}
		comm.Logf("")
		comm.Logf("Installing to %s", res.Destination)
	})
}

func Do(ctx *mansion.Context) (*WhereResult, error) {
	exe, err := osext.Executable()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	r, err := ctx.Resolver()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	m, err := ctx.Manifest()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	res := &WhereResult{
		Executable: exe,
		Folders:    r.Folders,
		Resources:  make(map[string]string),
	}

	for _, name := range []string{m.Payload, m.Icon, resources.Manifest} {
		if p, ok := r.Resolve(name); ok {
			res.Resources[name] = p
		}
	}

	res.Destination = m.Destination
	if res.Destination == "" {
		res.Destination, err = pathstore.DefaultDir()
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return res, nil
}
