package archive

import (
	"fmt"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/itchio/dragtoinstall/progress"
	"github.com/itchio/savior"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

var (
	// ErrArchiveNotFound is returned when the archive file doesn't exist.
	// It is detected before any entry is read or any progress reported.
	ErrArchiveNotFound = errors.New("archive not found")

	// ErrUnsafePath is the cause of an ExtractError for entries that
	// would land outside of the destination folder
	ErrUnsafePath = errors.New("entry path escapes destination folder")
)

// Entry is one file, directory or symlink in an archive, along with
// its position in the archive's own enumeration order.
type Entry struct {
	Index int
	*savior.Entry
}

// Name returns the slash-separated path of the entry within the archive
func (e *Entry) Name() string {
	return e.CanonicalPath
}

// Reader gives ordered access to the entries of an archive
type Reader interface {
	// Entries lists entries in the archive's native order
	Entries() []*Entry
	// ExtractEntry writes a single entry to sink, and returns
	// the number of bytes written.
	ExtractEntry(entry *Entry, sink savior.Sink) (int64, error)
	Close() error
}

// OpenFunc opens an archive for reading
type OpenFunc func(path string) (Reader, error)

// ProgressFunc is called after each entry has been fully written
type ProgressFunc func(st progress.State)

type ExtractParams struct {
	// ArchivePath is the archive to extract
	ArchivePath string
	// OutputPath is the folder to extract to, it must already exist
	OutputPath string

	// OnProgress is called synchronously after every entry
	OnProgress ProgressFunc
	// EntryPause is slept between entries, to let a UI catch up
	EntryPause time.Duration

	// Open defaults to opening ArchivePath as a zip file
	Open OpenFunc

	Consumer *state.Consumer
}

type ExtractResult struct {
	// Entries that were extracted, in order
	Entries []*Entry
	// Bytes written to disk
	Bytes int64
}

// Files returns the names of all extracted entries
func (er *ExtractResult) Files() []string {
	var res []string
	for _, e := range er.Entries {
		res = append(res, e.Name())
	}
	return res
}

func (er *ExtractResult) Stats() string {
	var numFiles, numDirs, numSymlinks int
	for _, e := range er.Entries {
		switch e.Kind {
		case savior.EntryKindFile:
			numFiles++
		case savior.EntryKindDir:
			numDirs++
		case savior.EntryKindSymlink:
			numSymlinks++
		}
	}

	return fmt.Sprintf("%s (in %d files, %d dirs, %d symlinks)",
		humanize.IBytes(uint64(er.Bytes)), numFiles, numDirs, numSymlinks)
}

// ExtractError is returned when the archive can't be opened, or when
// any entry fails to extract. Entries before the failing one stay on disk.
type ExtractError struct {
	// Op is what we were doing: "open", "prepare" or "extract"
	Op string
	// Index of the failing entry, -1 if the failure isn't entry-specific
	Index int
	// Entry is the name of the failing entry, if any
	Entry string
	Err   error
}

func (ee *ExtractError) Error() string {
	if ee.Index < 0 {
		return fmt.Sprintf("%s archive: %v", ee.Op, ee.Err)
	}
	return fmt.Sprintf("%s entry #%d (%s): %v", ee.Op, ee.Index, ee.Entry, ee.Err)
}

func (ee *ExtractError) Unwrap() error {
	return ee.Err
}

// Cause lets errors.Cause see through ExtractError
func (ee *ExtractError) Cause() error {
	return ee.Err
}
