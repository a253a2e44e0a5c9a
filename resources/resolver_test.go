package resources

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/itchio/wharf/wtest"
	"github.com/stretchr/testify/assert"
)

func Test_SearchFolders(t *testing.T) {
	bundle := filepath.Join("/", "Applications", "Installer.app", "Contents", "MacOS")
	folders := searchFolders(bundle, "/tmp")
	assert.EqualValues(t, []string{
		filepath.Join("/", "Applications", "Installer.app", "Contents", "Resources"),
		bundle,
		"/tmp",
	}, folders)

	loose := filepath.Join("/", "opt", "installer")
	assert.EqualValues(t, []string{loose}, searchFolders(loose, loose))
}

func Test_ResolveInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	wtest.Must(t, ioutil.WriteFile(filepath.Join(second, Payload), []byte("zip"), 0o644))
	wtest.Must(t, os.Mkdir(filepath.Join(first, Icon), 0o755))
	wtest.Must(t, ioutil.WriteFile(filepath.Join(second, Icon), []byte("png"), 0o644))

	r := &Resolver{Folders: []string{first, second}}

	p, ok := r.Resolve(Payload)
	assert.True(t, ok)
	assert.EqualValues(t, filepath.Join(second, Payload), p)

	// directories named like a resource don't count
	p, ok = r.Resolve(Icon)
	assert.True(t, ok)
	assert.EqualValues(t, filepath.Join(second, Icon), p)

	_, ok = r.Resolve(Manifest)
	assert.False(t, ok)
}

func Test_Override(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom.zip")
	wtest.Must(t, ioutil.WriteFile(custom, []byte("zip"), 0o644))

	o := &Override{
		Paths:    map[string]string{Payload: custom},
		Fallback: &Resolver{Folders: []string{dir}},
	}

	p, ok := o.Resolve(Payload)
	assert.True(t, ok)
	assert.EqualValues(t, custom, p)

	o.Paths[Payload] = filepath.Join(dir, "missing.zip")
	_, ok = o.Resolve(Payload)
	assert.False(t, ok)

	_, ok = o.Resolve(Icon)
	assert.False(t, ok)
}
