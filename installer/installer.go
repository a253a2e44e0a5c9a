// Package installer ties the drag-to-install gesture to the extraction
// of the bundled payload into the installation directory.
package installer

import (
	"time"

	"github.com/itchio/dragtoinstall/archive"
	"github.com/itchio/dragtoinstall/dragdrop"
	"github.com/itchio/dragtoinstall/pathstore"
	"github.com/itchio/dragtoinstall/progress"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

// ErrBusy is returned when a drop arrives while an extraction is running
var ErrBusy = errors.New("an installation is already in progress")

// Presenter is what the controller reports to. Calls are made from
// whichever goroutine runs the installation.
type Presenter interface {
	// StartProgress shows a modal progress indicator
	StartProgress(title string)
	// Progress is called once per extracted entry
	Progress(st progress.State)
	EndProgress()

	// ReportSuccess tells the user where the app was installed
	ReportSuccess(dir string)
	// ReportFailure shows a terminal error for this attempt
	ReportFailure(err error)
	// ShowHint is shown when a drag ends without a drop on the folder
	ShowHint(msg string)

	// LocationChanged is called after the installation directory changed,
	// with the folder's refreshed appearance.
	LocationChanged(appearance dragdrop.Appearance)
}

// Resolver turns a bundled resource name into an absolute path
type Resolver interface {
	Resolve(name string) (string, bool)
}

type Params struct {
	// Store holds the installation directory, required
	Store *pathstore.Store
	// Resolver locates Payload, required
	Resolver Resolver
	// Presenter is notified of everything the user should see, required
	Presenter Presenter

	// Opener reveals the installation directory after success and on
	// folder clicks. May be nil.
	Opener dragdrop.Opener

	// Payload is the archive resource name, defaults to "app.zip"
	Payload string
	// Marker is the drag payload id, defaults to manifest.DefaultMarker
	Marker string
	// AppIcon and FolderIcon are passed along in control appearances
	AppIcon    string
	FolderIcon string
	// Title is shown on the progress indicator
	Title string

	// EntryPause is slept between extracted entries
	EntryPause time.Duration

	// Gesture runs drags on the app icon. nil means presses are clicks.
	Gesture dragdrop.Gesture

	// Schedule runs installations. nil runs them synchronously, as part
	// of the drop event.
	Schedule func(task func())

	// Open opens the payload, defaults to archive.Open
	Open archive.OpenFunc

	Consumer *state.Consumer
}

// State is the installer session state
type State string

const (
	StateIdle         State = "idle"
	StateAwaitingDrop State = "awaiting-drop"
	StateExtracting   State = "extracting"
	StateInstalled    State = "installed"
	StateFailed       State = "failed"
)

// Terminal returns true for states an installation attempt ends in
func (s State) Terminal() bool {
	return s == StateInstalled || s == StateFailed
}

const hintMessage = "Drag the app icon onto the folder to install it."
