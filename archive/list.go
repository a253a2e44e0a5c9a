package archive

import (
	"os"

	"github.com/pkg/errors"
)

// List returns the entries of a zip archive without extracting anything
func List(archivePath string) ([]*Entry, error) {
	_, err := os.Stat(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrArchiveNotFound, archivePath)
		}
		return nil, errors.WithStack(err)
	}

	reader, err := Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return reader.Entries(), nil
}
