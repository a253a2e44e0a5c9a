package buildinfo

import (
	"fmt"
	"strconv"
	"time"
)

var (
	Version       = "head" // set by -ldflags on release builds
	BuiltAt       = ""     // unix timestamp, set by -ldflags on release builds
	Commit        = ""     // set by -ldflags on release builds
	VersionString = ""     // formatted on boot from Version, BuiltAt and Commit
)

func init() {
	VersionString = formatVersion(Version, BuiltAt, Commit)
}

func formatVersion(version, builtAt, commit string) string {
	var res string
	if builtAt == "" {
		res = fmt.Sprintf("%s, no build date", version)
	} else if t := parseBuiltAt(builtAt); t != nil {
		res = fmt.Sprintf("%s, built on %s", version, t.Format("Jan _2 2006 @ 15:04:05"))
	} else {
		res = fmt.Sprintf("%s, invalid build date", version)
	}

	if commit != "" {
		res = fmt.Sprintf("%s, ref %s", res, commit)
	}
	return res
}

func parseBuiltAt(builtAt string) *time.Time {
	epoch, err := strconv.ParseInt(builtAt, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(epoch, 0).UTC()
	return &t
}

// BuildTime returns the time this binary was built at, or nil
// for development builds.
func BuildTime() *time.Time {
	if BuiltAt == "" {
		return nil
	}
	return parseBuiltAt(BuiltAt)
}
