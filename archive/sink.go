package archive

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dchest/safefile"
	"github.com/itchio/savior"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

// committingSink extracts to a folder like savior.FolderSink, except
// that files are written to a temporary sibling and only renamed into
// place once committed. A file entry that fails halfway leaves nothing
// behind, and whatever was there before stays untouched.
type committingSink struct {
	dir    string
	folder *savior.FolderSink
}

var _ savior.Sink = (*committingSink)(nil)

func newCommittingSink(dir string, consumer *state.Consumer) *committingSink {
	return &committingSink{
		dir: dir,
		folder: &savior.FolderSink{
			Directory: dir,
			Consumer:  consumer,
		},
	}
}

func (cs *committingSink) destPath(entry *savior.Entry) string {
	return filepath.Join(cs.dir, filepath.FromSlash(entry.CanonicalPath))
}

// checkParents walks the folders between the destination and the entry
// and refuses to go through a symlink, which could point anywhere.
func (cs *committingSink) checkParents(entry *savior.Entry) error {
	parts := strings.Split(path.Clean(entry.CanonicalPath), "/")
	current := cs.dir
	for _, part := range parts[:len(parts)-1] {
		current = filepath.Join(current, part)
		stats, err := os.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return errors.WithStack(err)
		}
		if stats.Mode()&os.ModeSymlink != 0 {
			return errors.Wrapf(ErrUnsafePath, "%s is inside symlink %s", entry.CanonicalPath, current)
		}
	}
	return nil
}

func (cs *committingSink) Mkdir(entry *savior.Entry) error {
	err := cs.checkParents(entry)
	if err != nil {
		return err
	}
	return cs.folder.Mkdir(entry)
}

func (cs *committingSink) Symlink(entry *savior.Entry, linkname string) error {
	err := cs.checkParents(entry)
	if err != nil {
		return err
	}
	return cs.folder.Symlink(entry, linkname)
}

// Preallocate is a no-op, space gets allocated in the temporary file
func (cs *committingSink) Preallocate(entry *savior.Entry) error {
	return nil
}

func (cs *committingSink) GetWriter(entry *savior.Entry) (savior.EntryWriter, error) {
	err := cs.checkParents(entry)
	if err != nil {
		return nil, err
	}

	dstpath := cs.destPath(entry)
	err = os.MkdirAll(filepath.Dir(dstpath), savior.DirMode)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	f, err := safefile.Create(dstpath, entry.Mode.Perm()|savior.ModeMask)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &committingWriter{
		f:     f,
		entry: entry,
	}, nil
}

type committingWriter struct {
	f      *safefile.File
	entry  *savior.Entry
	closed bool
}

var _ savior.EntryWriter = (*committingWriter)(nil)
var _ Committer = (*committingWriter)(nil)

func (cw *committingWriter) Write(buf []byte) (int, error) {
	if cw.closed {
		return 0, os.ErrClosed
	}

	n, err := cw.f.Write(buf)
	cw.entry.WriteOffset += int64(n)
	return n, err
}

func (cw *committingWriter) Sync() error {
	if cw.closed {
		return os.ErrClosed
	}
	return cw.f.Sync()
}

// Commit renames the temporary file into place
func (cw *committingWriter) Commit() error {
	if cw.closed {
		return os.ErrClosed
	}

	err := cw.f.Commit()
	if err != nil {
		return errors.Wrapf(err, "committing %s", cw.entry.CanonicalPath)
	}
	return nil
}

// Close discards the temporary file unless it was committed
func (cw *committingWriter) Close() error {
	if cw.closed {
		return nil
	}
	cw.closed = true

	err := cw.f.Close()
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}
