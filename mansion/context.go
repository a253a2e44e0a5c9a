package mansion

import (
	"github.com/itchio/dragtoinstall/comm"
	"github.com/itchio/dragtoinstall/manifest"
	"github.com/itchio/dragtoinstall/resources"
	"github.com/pkg/errors"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

type DoCommand func(ctx *Context)

type Context struct {
	App      *kingpin.Application
	Commands map[string]DoCommand

	// VersionString is the complete version string
	VersionString string

	// Version is just the version number, as a string
	Version string

	// The git commit hash
	Commit string

	// Quiet silences all output
	Quiet bool

	// Verbose enables chatty output
	Verbose bool

	// JSON enables JSON-lines output
	JSON bool

	// NoProgress hides progress bars
	NoProgress bool

	resolver *resources.Resolver
	manifest *manifest.Manifest
}

func NewContext(app *kingpin.Application) *Context {
	return &Context{
		App:      app,
		Commands: make(map[string]DoCommand),
	}
}

func (ctx *Context) Register(clause *kingpin.CmdClause, do DoCommand) {
	ctx.Commands[clause.FullCommand()] = do
}

func (ctx *Context) Must(err error) {
	if err != nil {
		if ctx.Verbose || ctx.JSON {
			comm.Dief("%+v", err)
		} else {
			comm.Dief("%s", err)
		}
	}
}

// Resolver returns the resolver for bundled resources, looking next
// to the executable first.
func (ctx *Context) Resolver() (*resources.Resolver, error) {
	if ctx.resolver == nil {
		r, err := resources.New()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		ctx.resolver = r
	}
	return ctx.resolver, nil
}

// Manifest returns the bundled installer.toml, or the defaults
// if there is none.
func (ctx *Context) Manifest() (*manifest.Manifest, error) {
	if ctx.manifest != nil {
		return ctx.manifest, nil
	}

	r, err := ctx.Resolver()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	manifestPath, _ := r.Resolve(resources.Manifest)
	m, err := manifest.Read(manifestPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if manifestPath != "" {
		comm.Debugf("Using manifest (%s)", manifestPath)
	}
	ctx.manifest = m
	return m, nil
}
