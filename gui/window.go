// Package gui is the fyne window of the installer: the app icon, the
// folder it gets dragged onto, and a button to pick another folder.
package gui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itchio/dragtoinstall/dragdrop"
	"github.com/itchio/dragtoinstall/installer"
	"github.com/itchio/dragtoinstall/manifest"
	"github.com/itchio/dragtoinstall/pathstore"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

// AppID identifies the installer to fyne's preferences storage
const AppID = "io.itch.dragtoinstall"

type Params struct {
	Manifest *manifest.Manifest
	Resolver installer.Resolver
	Opener   dragdrop.Opener
	Consumer *state.Consumer
}

// Window hosts one installer session
type Window struct {
	win fyne.Window
	c   *installer.Controller

	app      *appIcon
	folder   *controlWidget
	location *widget.Label
	change   *widget.Button

	marker dragdrop.InstallerMarker
	busy   bool
}

// Run shows the installer window and blocks until it's closed
func Run(params *Params) error {
	a := app.NewWithID(AppID)
	w, err := New(a, params)
	if err != nil {
		return errors.WithStack(err)
	}

	w.win.ShowAndRun()
	return nil
}

// New builds the window without showing it
func New(a fyne.App, params *Params) (*Window, error) {
	m := params.Manifest
	if m == nil {
		m = manifest.Default()
	}

	store, err := pathstore.New(m.Destination, params.Consumer)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	w := &Window{
		win:    a.NewWindow(m.Title),
		marker: dragdrop.InstallerMarker{ID: m.Marker},
	}
	p := &presenter{w: w}

	w.c, err = installer.New(&installer.Params{
		Store:      store,
		Resolver:   params.Resolver,
		Presenter:  p,
		Opener:     params.Opener,
		Payload:    m.Payload,
		Marker:     m.Marker,
		AppIcon:    m.Icon,
		FolderIcon: FolderIcon,
		Title:      "Installing " + m.Title,
		EntryPause: m.EntryPause(),
		Schedule: func(task func()) {
			go task()
		},
		Consumer: params.Consumer,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	canvas := func() fyne.Canvas {
		return w.win.Canvas()
	}
	interactive := func() bool {
		return !w.busy
	}

	w.folder = newControlWidget(w.c.DropTarget(), params.Resolver, canvas, interactive)
	w.app = newAppIcon(w.c.DragSource(), params.Resolver, canvas, interactive, w.targetAt)

	w.location = widget.NewLabel(store.Dir())
	w.location.Truncation = fyne.TextTruncateEllipsis
	w.change = widget.NewButtonWithIcon("Change location...", theme.FolderOpenIcon(), w.changeLocation)

	arrow := widget.NewIcon(theme.NavigateNextIcon())
	header := widget.NewLabelWithStyle("Drag the app onto the folder to install it", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	icons := container.NewHBox(layout.NewSpacer(), w.app, arrow, w.folder, layout.NewSpacer())
	footer := container.NewBorder(nil, nil, nil, w.change, w.location)

	w.win.SetContent(container.NewBorder(header, footer, nil, nil, container.NewCenter(icons)))
	w.win.Resize(fyne.NewSize(480, 300))
	w.win.SetFixedSize(true)
	w.win.SetIcon(loadIcon(m.Icon, params.Resolver))
	w.win.SetOnDropped(w.foreignDrop)

	w.c.Start()
	slog.Info("installer ready", "dir", store.Dir(), "payload", m.Payload)
	return w, nil
}

// Controller returns the session driven by this window
func (w *Window) Controller() *installer.Controller {
	return w.c
}

func (w *Window) targetAt(pos fyne.Position) dragdrop.Acceptor {
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(w.folder)
	if within(origin, w.folder.Size(), pos) {
		return w.c.DropTarget()
	}
	return nil
}

// foreignDrop handles files dragged in from other applications. They
// never carry our marker, so the folder turns them down.
func (w *Window) foreignDrop(pos fyne.Position, uris []fyne.URI) {
	target := w.targetAt(pos)
	if target == nil {
		return
	}

	for _, uri := range uris {
		if !target.HandleDrop(w.marker.Decode(uri.String())) {
			slog.Debug("ignored foreign drop", "uri", uri.String())
		}
	}
}

func (w *Window) setBusy(busy bool) {
	w.busy = busy
	if busy {
		w.change.Disable()
	} else {
		w.change.Enable()
	}
}

func (w *Window) changeLocation() {
	if w.busy {
		return
	}

	d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			w.c.HandlePathChange("", false)
			dialog.ShowError(err, w.win)
			return
		}
		if uri == nil {
			w.c.HandlePathChange("", false)
			return
		}
		err = w.c.HandlePathChange(uri.Path(), true)
		if err != nil {
			slog.Warn("location not changed", "dir", uri.Path(), "error", err.Error())
		}
	}, w.win)

	lister, err := storage.ListerForURI(storage.NewFileURI(w.c.Dir()))
	if err == nil {
		d.SetLocation(lister)
	}
	d.Show()
}
