package dragdrop

import (
	"fmt"
	"os"

	"github.com/itchio/savior"
	"github.com/itchio/wharf/state"
)

// Opener reveals a folder in the platform's file browser
type Opener interface {
	Open(path string) error
}

// TargetParams configures a Target
type TargetParams struct {
	// Expected is the only payload this target accepts
	Expected InstallerMarker
	// Icon is the resource the presentation layer draws
	Icon string
	// Location returns the current installation directory
	Location func() string
	// OnInstall is called synchronously, as part of an accepted drop
	OnInstall func()
	Opener    Opener
	Consumer  *state.Consumer
}

// Target is the folder the app icon gets dropped on.
type Target struct {
	expected  InstallerMarker
	icon      string
	location  func() string
	onInstall func()
	opener    Opener
	consumer  *state.Consumer
}

var _ Control = (*Target)(nil)

func NewTarget(params *TargetParams) *Target {
	consumer := params.Consumer
	if consumer == nil {
		consumer = savior.NopConsumer()
	}

	location := params.Location
	if location == nil {
		location = func() string { return "" }
	}

	return &Target{
		expected:  params.Expected,
		icon:      params.Icon,
		location:  location,
		onInstall: params.OnInstall,
		opener:    params.Opener,
		consumer:  consumer,
	}
}

// HandleDrop accepts the payload if and only if it's the expected
// installer marker. This is the only check gating an install.
func (t *Target) HandleDrop(payload Payload) bool {
	marker, ok := payload.(InstallerMarker)
	if !ok || t.expected.ID == "" || marker != t.expected {
		t.consumer.Debugf("Ignoring drop of %#v", payload)
		return false
	}

	if t.onInstall != nil {
		t.onInstall()
	}
	return true
}

// HandlePress is a plain click: reveal the installation directory
func (t *Target) HandlePress() {
	t.OpenLocation()
}

// OpenLocation reveals the installation directory in the file browser.
// It does nothing if the directory doesn't exist, and failures are only
// logged. Returns true if the opener was invoked successfully.
func (t *Target) OpenLocation() bool {
	dir := t.location()
	if dir == "" {
		return false
	}

	stats, err := os.Stat(dir)
	if err != nil || !stats.IsDir() {
		t.consumer.Debugf("Not opening %s: not an existing directory", dir)
		return false
	}

	if t.opener == nil {
		return false
	}

	err = t.opener.Open(dir)
	if err != nil {
		t.consumer.Warnf("Could not open folder: %s", err.Error())
		return false
	}
	return true
}

// tooltipWidth is how many characters of the path fit on one tooltip line
const tooltipWidth = 40

func (t *Target) Appearance() Appearance {
	return Appearance{
		Icon:    t.icon,
		Tooltip: fmt.Sprintf("Current install location:\n%s", Wrap(t.location(), tooltipWidth)),
		Cursor:  CursorPointer,
	}
}
