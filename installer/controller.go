package installer

import (
	"os"
	"sync"
	"time"

	"github.com/itchio/dragtoinstall/archive"
	"github.com/itchio/dragtoinstall/dragdrop"
	"github.com/itchio/dragtoinstall/manifest"
	"github.com/itchio/dragtoinstall/pathstore"
	"github.com/itchio/dragtoinstall/resources"
	"github.com/itchio/savior"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

// Controller owns an installer session: it hands out the app icon and
// folder controls, and runs the extraction when the icon is dropped on
// the folder.
type Controller struct {
	store      *pathstore.Store
	resolver   Resolver
	presenter  Presenter
	payload    string
	title      string
	entryPause time.Duration
	schedule   func(task func())
	open       archive.OpenFunc
	consumer   *state.Consumer

	session *Session
	source  *dragdrop.Source
	target  *dragdrop.Target

	errMu   sync.Mutex
	lastErr error
}

func New(params *Params) (*Controller, error) {
	if params.Store == nil {
		return nil, errors.New("installer.New: missing Store")
	}
	if params.Resolver == nil {
		return nil, errors.New("installer.New: missing Resolver")
	}
	if params.Presenter == nil {
		return nil, errors.New("installer.New: missing Presenter")
	}

	consumer := params.Consumer
	if consumer == nil {
		consumer = savior.NopConsumer()
	}

	payload := params.Payload
	if payload == "" {
		payload = resources.Payload
	}

	markerID := params.Marker
	if markerID == "" {
		markerID = manifest.DefaultMarker
	}

	title := params.Title
	if title == "" {
		title = "Installing..."
	}

	c := &Controller{
		store:      params.Store,
		resolver:   params.Resolver,
		presenter:  params.Presenter,
		payload:    payload,
		title:      title,
		entryPause: params.EntryPause,
		schedule:   params.Schedule,
		open:       params.Open,
		consumer:   consumer,
		session:    newSession(),
	}

	marker := dragdrop.InstallerMarker{ID: markerID}
	c.target = dragdrop.NewTarget(&dragdrop.TargetParams{
		Expected:  marker,
		Icon:      params.FolderIcon,
		Location:  c.store.Dir,
		OnInstall: c.onInstall,
		Opener:    params.Opener,
		Consumer:  consumer,
	})
	c.source = dragdrop.NewSource(&dragdrop.SourceParams{
		Marker:   marker,
		Icon:     params.AppIcon,
		Gesture:  params.Gesture,
		Hint:     c.hint,
		Consumer: consumer,
	})

	return c, nil
}

// Start makes the session ready to receive drops
func (c *Controller) Start() {
	c.session.transition(StateAwaitingDrop, StateIdle)
}

// DragSource returns the app icon control
func (c *Controller) DragSource() *dragdrop.Source {
	return c.source
}

// DropTarget returns the folder control
func (c *Controller) DropTarget() *dragdrop.Target {
	return c.target
}

// State returns the current session state. After an installation
// attempt, it stays Installed or Failed until the next drop.
func (c *Controller) State() State {
	return c.session.State()
}

func (c *Controller) Session() *Session {
	return c.session
}

// Dir returns the current installation directory
func (c *Controller) Dir() string {
	return c.store.Dir()
}

// Err returns the error of the last installation attempt, if any
func (c *Controller) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.lastErr
}

// DragToFolder drags the app icon straight onto the folder,
// for headless installs.
func (c *Controller) DragToFolder() dragdrop.Outcome {
	return c.source.BeginDrag(dragdrop.GestureFunc(func(payload dragdrop.Payload, effect dragdrop.Effect) dragdrop.Acceptor {
		return c.target
	}))
}

func (c *Controller) onInstall() {
	if c.schedule == nil {
		c.HandleDrop()
		return
	}

	c.schedule(func() {
		c.HandleDrop()
	})
}

func (c *Controller) hint() {
	c.presenter.ShowHint(hintMessage)
}

// HandleDrop installs the payload into the current installation
// directory. It's what an accepted drop on the folder triggers.
func (c *Controller) HandleDrop() error {
	if c.session.State() == StateIdle {
		c.Start()
	}
	c.session.transition(StateAwaitingDrop, StateInstalled, StateFailed)

	if _, ok := c.session.transition(StateExtracting, StateAwaitingDrop); !ok {
		c.consumer.Warnf("Ignoring drop: %s", ErrBusy.Error())
		return ErrBusy
	}

	err := c.install()

	c.errMu.Lock()
	c.lastErr = err
	c.errMu.Unlock()

	return err
}

func (c *Controller) install() error {
	dir := c.store.Dir()

	archivePath, ok := c.resolver.Resolve(c.payload)
	if !ok {
		return c.fail(errors.Wrap(archive.ErrArchiveNotFound, c.payload))
	}

	// the payload may have gone away since it was resolved
	_, err := os.Stat(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return c.fail(errors.Wrap(archive.ErrArchiveNotFound, archivePath))
		}
		return c.fail(errors.WithStack(err))
	}

	err = c.store.Ensure()
	if err != nil {
		return c.fail(err)
	}

	c.consumer.Infof("Installing (%s) to (%s)", archivePath, dir)

	c.presenter.StartProgress(c.title)
	res, err := archive.Extract(&archive.ExtractParams{
		ArchivePath: archivePath,
		OutputPath:  dir,
		OnProgress:  c.presenter.Progress,
		EntryPause:  c.entryPause,
		Open:        c.open,
		Consumer:    c.consumer,
	})
	c.presenter.EndProgress()
	if err != nil {
		return c.fail(err)
	}

	c.consumer.Debugf("Installed %d entries", len(res.Entries))
	c.session.transition(StateInstalled, StateExtracting)
	c.presenter.ReportSuccess(dir)
	c.target.OpenLocation()
	return nil
}

func (c *Controller) fail(err error) error {
	c.consumer.Warnf("Installation failed: %s", err.Error())
	c.session.postProblem(err)
	c.session.transition(StateFailed, StateExtracting)
	c.presenter.ReportFailure(err)
	return err
}

// HandlePathChange applies the result of the directory picker.
// ok is false when the picker was cancelled, which changes nothing.
func (c *Controller) HandlePathChange(dir string, ok bool) error {
	if !ok {
		c.consumer.Debugf("Path change cancelled, staying in %s", c.store.Dir())
		return nil
	}

	if c.session.State() == StateExtracting {
		c.consumer.Warnf("Not changing location to %s: %s", dir, ErrBusy.Error())
		c.presenter.ReportFailure(ErrBusy)
		return ErrBusy
	}

	err := c.store.Set(dir)
	if err != nil {
		c.presenter.ReportFailure(err)
		return err
	}

	c.session.postLocation(c.store.Dir())
	c.presenter.LocationChanged(c.target.Appearance())
	return nil
}
