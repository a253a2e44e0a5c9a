package archive

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/itchio/arkive/zip"
	"github.com/itchio/wharf/wtest"
	"github.com/stretchr/testify/assert"
)

type zipEntrySpec struct {
	name     string
	data     []byte
	dir      bool
	linkname string
	stored   bool
}

func fileSpec(name string, data string) zipEntrySpec {
	return zipEntrySpec{name: name, data: []byte(data)}
}

func storedSpec(name string, data string) zipEntrySpec {
	return zipEntrySpec{name: name, data: []byte(data), stored: true}
}

func dirSpec(name string) zipEntrySpec {
	return zipEntrySpec{name: name, dir: true}
}

func makeZipBytes(t *testing.T, specs []zipEntrySpec) []byte {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	for _, spec := range specs {
		fh := &zip.FileHeader{
			Name: spec.name,
		}

		switch {
		case spec.dir:
			fh.SetMode(os.ModeDir | 0755)
			_, err := zw.CreateHeader(fh)
			wtest.Must(t, err)
		case spec.linkname != "":
			fh.SetMode(os.ModeSymlink | 0644)
			w, err := zw.CreateHeader(fh)
			wtest.Must(t, err)
			_, err = w.Write([]byte(spec.linkname))
			wtest.Must(t, err)
		default:
			fh.SetMode(0644)
			if spec.stored {
				fh.Method = zip.Store
			} else {
				fh.Method = zip.Deflate
			}
			w, err := zw.CreateHeader(fh)
			wtest.Must(t, err)
			_, err = w.Write(spec.data)
			wtest.Must(t, err)
		}
	}

	wtest.Must(t, zw.Close())
	return buf.Bytes()
}

func writeZip(t *testing.T, dir string, specs []zipEntrySpec) string {
	zipPath := filepath.Join(dir, "app.zip")
	wtest.Must(t, ioutil.WriteFile(zipPath, makeZipBytes(t, specs), 0644))
	return zipPath
}

func tempDir(t *testing.T, name string) string {
	dir, err := ioutil.TempDir("", name)
	wtest.Must(t, err)
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

func assertFileContents(t *testing.T, path string, expected string) {
	t.Helper()
	data, err := ioutil.ReadFile(path)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, expected, string(data))
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "%s should not exist", path)
}
