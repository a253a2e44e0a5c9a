// Package resources finds files bundled alongside the installer,
// whether it runs from a packaged bundle or from loose files.
package resources

import (
	"os"
	"path/filepath"

	"github.com/kardianos/osext"
	"github.com/pkg/errors"
)

// Well-known bundled resources
const (
	Payload  = "app.zip"
	Icon     = "app.png"
	Manifest = "installer.toml"
)

// Resolver looks up resources in an ordered list of folders.
type Resolver struct {
	Folders []string
}

// New returns a resolver that looks next to the executable first
// (in Contents/Resources when running from a macOS app bundle),
// then in the working directory.
func New() (*Resolver, error) {
	exeFolder, err := osext.ExecutableFolder()
	if err != nil {
		return nil, errors.Wrap(err, "locating executable")
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}

	return &Resolver{
		Folders: searchFolders(exeFolder, wd),
	}, nil
}

func searchFolders(exeFolder string, wd string) []string {
	var folders []string
	if filepath.Base(exeFolder) == "MacOS" && filepath.Base(filepath.Dir(exeFolder)) == "Contents" {
		folders = append(folders, filepath.Join(filepath.Dir(exeFolder), "Resources"))
	}
	folders = append(folders, exeFolder)
	if wd != exeFolder {
		folders = append(folders, wd)
	}
	return folders
}

// Resolve returns the absolute path of a resource, and false if
// it can't be found in any folder.
func (r *Resolver) Resolve(name string) (string, bool) {
	for _, folder := range r.Folders {
		candidate := filepath.Join(folder, filepath.FromSlash(name))
		stats, err := os.Stat(candidate)
		if err != nil || stats.IsDir() {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		return abs, true
	}
	return "", false
}

// Override is a resolver that maps some names to fixed paths
// and defers to another resolver for everything else.
type Override struct {
	Paths    map[string]string
	Fallback interface {
		Resolve(name string) (string, bool)
	}
}

func (o *Override) Resolve(name string) (string, bool) {
	if p, ok := o.Paths[name]; ok {
		if _, err := os.Stat(p); err != nil {
			return "", false
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", false
		}
		return abs, true
	}
	if o.Fallback == nil {
		return "", false
	}
	return o.Fallback.Resolve(name)
}
