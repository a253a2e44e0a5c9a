package ls

import (
	"fmt"
	"io"
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/itchio/dragtoinstall/archive"
	"github.com/itchio/dragtoinstall/comm"
	"github.com/itchio/dragtoinstall/mansion"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

var args = struct {
	archive *string
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("ls", "Prints the entries of the payload, in the order they get extracted")
	args.archive = cmd.Flag("archive", "Zip file to list instead of the bundled payload").String()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx, *args.archive))
}

type EntryInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Size  int64  `json:"size"`
}

type ListResult struct {
	Archive string       `json:"archive"`
	Entries []*EntryInfo `json:"entries"`
}

func Do(ctx *mansion.Context, archivePath string) error {
	if archivePath == "" {
		m, err := ctx.Manifest()
		if err != nil {
			return errors.WithStack(err)
		}

		r, err := ctx.Resolver()
		if err != nil {
			return errors.WithStack(err)
		}

		var ok bool
		archivePath, ok = r.Resolve(m.Payload)
		if !ok {
			return errors.Wrap(archive.ErrArchiveNotFound, m.Payload)
		}
	}

	entries, err := archive.List(archivePath)
	if err != nil {
		return errors.WithStack(err)
	}

	res := &ListResult{Archive: archivePath}
	for _, e := range entries {
		res.Entries = append(res.Entries, &EntryInfo{
			Index: e.Index,
			Name:  e.Name(),
			Kind:  e.Kind.String(),
			Size:  e.UncompressedSize,
		})
	}

	comm.ResultOrPrint(res, func() {
		comm.Logf("%s: %d entries", archivePath, len(res.Entries))
		printTable(os.Stdout, res)
	})
	return nil
}

func printTable(w io.Writer, res *ListResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Kind", "Size", "Name"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, e := range res.Entries {
		size := ""
		if e.Kind == "file" {
			size = humanize.IBytes(uint64(e.Size))
		}
		table.Append([]string{fmt.Sprintf("%d", e.Index), e.Kind, size, e.Name})
	}
	table.Render()
}
