package install

import (
	"github.com/itchio/dragtoinstall/comm"
	"github.com/itchio/dragtoinstall/dragdrop"
	"github.com/itchio/dragtoinstall/installer"
	"github.com/itchio/dragtoinstall/mansion"
	"github.com/itchio/dragtoinstall/pathstore"
	"github.com/itchio/dragtoinstall/resources"
	"github.com/itchio/dragtoinstall/shellopen"
	"github.com/pkg/errors"
)

var args = struct {
	dir     *string
	archive *string
	noOpen  *bool
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("install", "Installs the bundled app without a window, as if its icon had been dropped on the folder")
	args.dir = cmd.Flag("dir", "Folder to install to (defaults to ~/Applications)").Short('d').String()
	args.archive = cmd.Flag("archive", "Zip file to install instead of the bundled payload").String()
	args.noOpen = cmd.Flag("no-open", "Don't reveal the folder after installing").Bool()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx, &Params{
		Dir:     *args.dir,
		Archive: *args.archive,
		NoOpen:  *args.noOpen,
	}))
}

type Params struct {
	// Dir overrides the manifest's destination
	Dir string
	// Archive overrides the bundled payload
	Archive string
	// NoOpen disables revealing the folder on success
	NoOpen bool

	// Opener defaults to the platform's file browser
	Opener shellopen.Opener
}

type Result struct {
	Dir   string   `json:"dir"`
	Files []string `json:"files,omitempty"`
}

func Do(ctx *mansion.Context, params *Params) error {
	consumer := comm.NewStateConsumer()

	m, err := ctx.Manifest()
	if err != nil {
		return errors.WithStack(err)
	}

	resolver, err := ctx.Resolver()
	if err != nil {
		return errors.WithStack(err)
	}

	dir := params.Dir
	if dir == "" {
		dir = m.Destination
	}

	store, err := pathstore.New(dir, consumer)
	if err != nil {
		return errors.WithStack(err)
	}

	var r installer.Resolver = resolver
	if params.Archive != "" {
		r = &resources.Override{
			Paths: map[string]string{
				m.Payload: params.Archive,
			},
			Fallback: resolver,
		}
	}

	opener := params.Opener
	if opener == nil {
		opener = shellopen.Native{}
	}
	if params.NoOpen {
		opener = shellopen.Nop
	}

	c, err := installer.New(&installer.Params{
		Store:     store,
		Resolver:  r,
		Presenter: &presenter{},
		Opener:    opener,
		Payload:   m.Payload,
		Marker:    m.Marker,
		Title:     m.Title,
		Consumer:  consumer,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	c.Start()

	outcome := c.DragToFolder()
	if outcome != dragdrop.Accepted {
		return errors.Errorf("drop was %s", outcome)
	}
	return c.Err()
}
