package archive

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/itchio/dragtoinstall/progress"
	"github.com/itchio/savior"
	"github.com/pkg/errors"
)

// Extract writes every entry of an archive into params.OutputPath, in
// archive order. After each entry is fully written, OnProgress is called
// with the number of entries done so far.
//
// If the archive doesn't exist, an error satisfying
// errors.Is(err, ErrArchiveNotFound) is returned and OnProgress is never
// called. If an entry fails, extraction stops there: earlier entries stay
// on disk and the failing entry doesn't appear half-written.
func Extract(params *ExtractParams) (*ExtractResult, error) {
	consumer := params.Consumer
	if consumer == nil {
		consumer = savior.NopConsumer()
	}

	open := params.Open
	if open == nil {
		open = Open
	}

	_, err := os.Stat(params.ArchivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrArchiveNotFound, params.ArchivePath)
		}
		return nil, &ExtractError{Op: "open", Index: -1, Err: errors.WithStack(err)}
	}

	stats, err := os.Stat(params.OutputPath)
	if err != nil {
		return nil, &ExtractError{Op: "prepare", Index: -1, Err: errors.WithStack(err)}
	}
	if !stats.IsDir() {
		return nil, &ExtractError{Op: "prepare", Index: -1, Err: errors.Errorf("%s is not a directory", params.OutputPath)}
	}

	reader, err := open(params.ArchivePath)
	if err != nil {
		return nil, &ExtractError{Op: "open", Index: -1, Err: err}
	}
	defer reader.Close()

	entries := reader.Entries()
	consumer.Debugf("Extracting %d entries to (%s)", len(entries), params.OutputPath)

	sink := newCommittingSink(params.OutputPath, consumer)
	tracker := progress.NewTracker(len(entries))
	res := &ExtractResult{}
	startTime := time.Now()

	for i, entry := range entries {
		fail := func(err error) (*ExtractResult, error) {
			return res, &ExtractError{
				Op:    "extract",
				Index: i,
				Entry: entry.Name(),
				Err:   err,
			}
		}

		err := checkEntryPath(entry.Name())
		if err != nil {
			return fail(err)
		}

		n, err := reader.ExtractEntry(entry, sink)
		if err != nil {
			return fail(err)
		}
		res.Bytes += n
		res.Entries = append(res.Entries, entry)

		st := tracker.Advance(entry.Name())
		if params.OnProgress != nil {
			params.OnProgress(st)
		}

		if params.EntryPause > 0 && i < len(entries)-1 {
			time.Sleep(params.EntryPause)
		}
	}

	duration := time.Since(startTime)
	consumer.Infof("Extracted %s in %s", res.Stats(), duration.Round(time.Millisecond))

	return res, nil
}

// checkEntryPath refuses names that would resolve outside the
// destination folder once joined to it.
func checkEntryPath(name string) error {
	if name == "" {
		return errors.Wrap(ErrUnsafePath, "empty entry name")
	}
	if escapes(name) {
		return errors.Wrap(ErrUnsafePath, name)
	}
	return nil
}

// checkLinkTarget refuses symlinks pointing outside the destination
// folder, relative to the folder the link lives in.
func checkLinkTarget(name string, linkname string) error {
	if linkname == "" {
		return errors.Wrapf(ErrUnsafePath, "%s: empty symlink target", name)
	}

	slashed := strings.Replace(linkname, "\\", "/", -1)
	if isAbsolute(slashed) || escapes(path.Join(path.Dir(name), slashed)) {
		return errors.Wrapf(ErrUnsafePath, "%s -> %s", name, linkname)
	}
	return nil
}

func escapes(name string) bool {
	slashed := strings.Replace(name, "\\", "/", -1)
	if isAbsolute(slashed) {
		return true
	}

	cleaned := path.Clean(slashed)
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}

func isAbsolute(slashed string) bool {
	return path.IsAbs(slashed) || (len(slashed) >= 2 && slashed[1] == ':')
}
