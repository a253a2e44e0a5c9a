package version

import (
	"fmt"
	"runtime"
	"time"

	"github.com/itchio/dragtoinstall/buildinfo"
	"github.com/itchio/dragtoinstall/comm"
	"github.com/itchio/dragtoinstall/mansion"
)

var args = struct {
	short *bool
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("version", "Prints the version of this installer")
	args.short = cmd.Flag("short", "Only print the version number").Bool()
	ctx.Register(cmd, do)
}

type VersionData struct {
	Version       string     `json:"version"`
	BuiltAt       *time.Time `json:"builtAt"`
	Commit        string     `json:"commit"`
	VersionString string     `json:"versionString"`
	Platform      string     `json:"platform"`
}

func do(ctx *mansion.Context) {
	data := GetVersionData()
	comm.ResultOrPrint(data, func() {
		if *args.short {
			fmt.Println(data.Version)
			return
		}
		comm.Logf("dragtoinstall %s (%s)", data.VersionString, data.Platform)
	})
}

func GetVersionData() *VersionData {
	return &VersionData{
		Version:       buildinfo.Version,
		BuiltAt:       buildinfo.BuildTime(),
		Commit:        buildinfo.Commit,
		VersionString: buildinfo.VersionString,
		Platform:      fmt.Sprintf("%s/%s, %s", runtime.GOOS, runtime.GOARCH, runtime.Version()),
	}
}
