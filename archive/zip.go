package archive

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/itchio/arkive/zip"
	"github.com/itchio/savior"
	"github.com/pkg/errors"
)

// Committer is implemented by entry writers that only make their
// contents visible once the whole entry has been written
type Committer interface {
	Commit() error
}

type zipReader struct {
	zr      *zip.ReadCloser
	entries []*Entry
}

var _ Reader = (*zipReader)(nil)

// Open opens a zip archive
func Open(path string) (Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	r := &zipReader{zr: zr}
	for i, zf := range zr.File {
		r.entries = append(r.entries, &Entry{
			Index: i,
			Entry: zipFileEntry(zf),
		})
	}
	return r, nil
}

func (r *zipReader) Entries() []*Entry {
	return r.entries
}

func (r *zipReader) ExtractEntry(entry *Entry, sink savior.Sink) (int64, error) {
	if entry.Index < 0 || entry.Index >= len(r.zr.File) {
		return 0, errors.Errorf("no entry #%d in archive", entry.Index)
	}
	zf := r.zr.File[entry.Index]

	switch entry.Kind {
	case savior.EntryKindDir:
		err := sink.Mkdir(entry.Entry)
		if err != nil {
			return 0, errors.WithStack(err)
		}
		return 0, nil

	case savior.EntryKindSymlink:
		rc, err := zf.Open()
		if err != nil {
			return 0, errors.WithStack(err)
		}
		defer rc.Close()

		linkname, err := ioutil.ReadAll(rc)
		if err != nil {
			return 0, errors.WithStack(err)
		}

		err = checkLinkTarget(entry.Name(), string(linkname))
		if err != nil {
			return 0, err
		}

		err = sink.Symlink(entry.Entry, string(linkname))
		if err != nil {
			return 0, errors.WithStack(err)
		}
		return 0, nil

	default:
		rc, err := zf.Open()
		if err != nil {
			return 0, errors.WithStack(err)
		}
		defer rc.Close()

		entry.WriteOffset = 0
		writer, err := sink.GetWriter(entry.Entry)
		if err != nil {
			return 0, errors.WithStack(err)
		}
		defer writer.Close()

		// checksum mismatches surface here, before the entry is committed
		n, err := io.Copy(writer, rc)
		if err != nil {
			return n, errors.WithStack(err)
		}

		if c, ok := writer.(Committer); ok {
			err = c.Commit()
			if err != nil {
				return n, errors.WithStack(err)
			}
		}
		return n, nil
	}
}

func (r *zipReader) Close() error {
	return r.zr.Close()
}

func zipFileEntry(zf *zip.File) *savior.Entry {
	entry := &savior.Entry{
		CanonicalPath:    filepath.ToSlash(zf.Name),
		CompressedSize:   int64(zf.CompressedSize64),
		UncompressedSize: int64(zf.UncompressedSize64),
		Mode:             zf.Mode(),
	}

	info := zf.FileInfo()

	if info.IsDir() {
		entry.Kind = savior.EntryKindDir
	} else if entry.Mode&os.ModeSymlink > 0 {
		entry.Kind = savior.EntryKindSymlink
	} else {
		entry.Kind = savior.EntryKindFile
	}
	return entry
}
