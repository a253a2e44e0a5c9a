package manifest

import (
	"encoding/json"
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/itchio/dragtoinstall/archive"
	"github.com/itchio/dragtoinstall/comm"
	"github.com/itchio/dragtoinstall/manifest"
	"github.com/itchio/dragtoinstall/mansion"
	"github.com/itchio/dragtoinstall/resources"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

var checkArgs = struct {
	path *string
}{}

func Register(ctx *mansion.Context) {
	parentCmd := ctx.App.Command("manifest", "Inspect the installer manifest")

	{
		cmd := parentCmd.Command("check", "Check that a manifest is valid and that the files it names can be found")
		checkArgs.path = cmd.Arg("path", "Manifest to check, defaults to the bundled installer.toml").String()
		ctx.Register(cmd, doCheck)
	}
}

func doCheck(ctx *mansion.Context) {
	r, err := ctx.Resolver()
	ctx.Must(err)

	manifestPath := *checkArgs.path
	if manifestPath == "" {
		manifestPath, _ = r.Resolve(resources.Manifest)
	}

	_, err = Check(comm.NewStateConsumer(), manifestPath, r)
	ctx.Must(err)
}

// CheckResult sums up what an installer would do with a manifest
type CheckResult struct {
	Manifest *manifest.Manifest
	// Entries is how many entries the payload has, -1 if it's missing
	Entries int
	// Problems that would make the installer fail
	Problems []string
}

// Check reads the manifest at manifestPath (or uses the defaults when
// it's empty), then looks for the payload and icon it names.
func Check(consumer *state.Consumer, manifestPath string, resolver interface {
	Resolve(name string) (string, bool)
}) (*CheckResult, error) {
	if manifestPath == "" {
		comm.Opf("No manifest found, checking defaults")
	} else {
		stats, err := os.Stat(manifestPath)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		comm.Opf("Validating %s manifest at (%s)", humanize.IBytes(uint64(stats.Size())), manifestPath)
	}

	m, err := manifest.Read(manifestPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	jsonManifest, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	consumer.Debugf("Manifest:\n%s", string(jsonManifest))

	res := &CheckResult{
		Manifest: m,
		Entries:  -1,
	}

	consumer.Infof("")
	consumer.Infof("  Title:  %s", m.Title)
	consumer.Infof("  Marker: %s", m.Marker)
	if m.Destination != "" {
		consumer.Infof("  Installs to %s", m.Destination)
	} else {
		consumer.Infof("  Installs to ~/Applications")
	}

	payloadPath, ok := resolver.Resolve(m.Payload)
	if ok {
		entries, err := archive.List(payloadPath)
		if err != nil {
			res.Problems = append(res.Problems, errors.Wrapf(err, "payload %s", payloadPath).Error())
		} else {
			res.Entries = len(entries)
			consumer.Infof("  Payload: %s (%d entries)", payloadPath, len(entries))
		}
	} else {
		res.Problems = append(res.Problems, errors.Wrap(archive.ErrArchiveNotFound, m.Payload).Error())
	}

	if _, ok := resolver.Resolve(m.Icon); !ok {
		consumer.Warnf("Icon (%s) not found, a generic one will be shown", m.Icon)
	}

	consumer.Infof("")
	if len(res.Problems) > 0 {
		for _, p := range res.Problems {
			consumer.Warnf("%s", p)
		}
		return res, errors.Errorf("found %d problems", len(res.Problems))
	}

	comm.Statf("All good!")
	return res, nil
}
