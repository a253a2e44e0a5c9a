// Package shellopen reveals folders in the platform's file browser.
package shellopen

import (
	"github.com/pkg/errors"
	"github.com/skratchdot/open-golang/open"
)

// Opener opens a path in the native file browser
type Opener interface {
	Open(path string) error
}

// Native uses open(1) on macOS, xdg-open on Linux and
// the shell's "start" on Windows.
type Native struct{}

var _ Opener = Native{}

func (Native) Open(path string) error {
	err := open.Start(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	return nil
}

// Func adapts a plain function to the Opener interface
type Func func(path string) error

var _ Opener = Func(nil)

func (f Func) Open(path string) error {
	return f(path)
}

// Nop never opens anything, for headless installs
var Nop Opener = Func(func(path string) error { return nil })
