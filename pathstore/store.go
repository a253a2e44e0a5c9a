// Package pathstore holds the folder applications get installed to.
package pathstore

import (
	"os"
	"path/filepath"

	"github.com/itchio/savior"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

// DefaultFolderName is created in the user's home directory
// when no destination is configured.
const DefaultFolderName = "Applications"

// DefaultDir returns <home>/Applications
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "finding home directory")
	}
	return filepath.Join(home, DefaultFolderName), nil
}

// Store holds the current installation directory. It is created once
// at startup and handed to whoever needs it; it is not safe for
// concurrent mutation, callers serialize access (the UI is modal).
type Store struct {
	dir      string
	consumer *state.Consumer
}

// New returns a store pointing at dir, or at DefaultDir if dir is empty.
// The directory is created if it doesn't exist yet.
func New(dir string, consumer *state.Consumer) (*Store, error) {
	if consumer == nil {
		consumer = savior.NopConsumer()
	}

	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	s := &Store{consumer: consumer}
	err := s.Set(dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return s, nil
}

// Dir returns the absolute path of the installation directory
func (s *Store) Dir() string {
	return s.dir
}

// Set changes the installation directory, creating it if needed.
// On error, the previous directory stays active.
func (s *Store) Set(dir string) error {
	if dir == "" {
		return errors.New("installation directory cannot be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", dir)
	}

	err = mkdir(abs)
	if err != nil {
		return errors.WithStack(err)
	}

	if s.dir != abs {
		s.consumer.Debugf("Installation directory is now %s", abs)
	}
	s.dir = abs
	return nil
}

// Ensure re-creates the installation directory if it vanished
// since it was last set.
func (s *Store) Ensure() error {
	return mkdir(s.dir)
}

func mkdir(dir string) error {
	stats, err := os.Stat(dir)
	if err == nil {
		if !stats.IsDir() {
			return errors.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}

	if !os.IsNotExist(err) {
		return errors.Wrapf(err, "checking %s", dir)
	}

	err = os.MkdirAll(dir, savior.DirMode)
	if err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	return nil
}
