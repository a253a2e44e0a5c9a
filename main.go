package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/itchio/dragtoinstall/buildinfo"
	"github.com/itchio/dragtoinstall/comm"
	"github.com/itchio/dragtoinstall/mansion"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("dragtoinstall", "Installs an app by dragging its icon onto a folder")
)

var appArgs = struct {
	json       *bool
	quiet      *bool
	verbose    *bool
	timestamps *bool
	noProgress *bool
	panic      *bool
}{
	app.Flag("json", "Enable machine-readable JSON-lines output").Short('j').Bool(),
	app.Flag("quiet", "Hide progress indicators & other extra info").Short('q').Bool(),
	app.Flag("verbose", "Display as much extra info as possible").Short('v').Bool(),
	app.Flag("timestamps", "Prefix all output by timestamps (for logging purposes)").Bool(),
	app.Flag("no-progress", "Doesn't show progress bars").Bool(),
	app.Flag("panic", "Panic on fatal errors instead of exiting").Hidden().Bool(),
}

func main() {
	ctx := mansion.NewContext(app)
	registerCommands(ctx)

	app.UsageTemplate(kingpin.CompactUsageTemplate)
	app.HelpFlag.Short('h')

	ctx.Version = buildinfo.Version
	ctx.VersionString = buildinfo.VersionString
	ctx.Commit = buildinfo.Commit
	app.Version(ctx.VersionString)
	app.VersionFlag.Short('V')

	cmd, err := app.Parse(os.Args[1:])

	if *appArgs.timestamps {
		log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	} else {
		log.SetFlags(0)
	}

	ctx.Quiet = *appArgs.quiet
	ctx.Verbose = *appArgs.verbose
	ctx.JSON = *appArgs.json
	ctx.NoProgress = *appArgs.noProgress || ctx.Quiet || !mansion.IsTerminal()
	comm.Configure(ctx.NoProgress, ctx.Quiet, ctx.Verbose, ctx.JSON, *appArgs.panic)

	level := slog.LevelInfo
	if ctx.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(comm.NewSlogHandler(level)))

	fullCmd := kingpin.MustParse(cmd, err)
	do, ok := ctx.Commands[fullCmd]
	if !ok {
		kingpin.Fatalf("Unknown command %s", fullCmd)
	}
	do(ctx)
}
